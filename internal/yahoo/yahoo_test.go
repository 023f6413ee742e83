package yahoo

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSymbol(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"600519", "600519.SS"},
		{"900901", "900901.SS"},
		{"000001", "000001.SZ"},
		{"300750", "300750.SZ"},
		{"200011", "200011.SZ"},
		{"430047", "430047.BJ"},
		{"830799", "830799.BJ"},
		{"aapl", "AAPL"},
		{" 0700.hk ", "0700.HK"},
		{"12345", "12345"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := Symbol(tt.code); got != tt.want {
				t.Errorf("Symbol(%q) = %q, want %q", tt.code, got, tt.want)
			}
		})
	}
}

const chartBody = `{"chart":{"result":[{"meta":{"currency":"CNY","symbol":"600519.SS"},
"timestamp":[1700000000,1700086400,1700172800],
"indicators":{"quote":[{"open":[10,11,null],"close":[10.5,11.5,null],"high":[11,12,null],"low":[9.5,10.5,null],"volume":[100,200,null]}]}}],
"error":null}}`

func TestLatestClose(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(chartBody))
	}))
	defer server.Close()

	client := NewFinanceClientWithURL(server.Client(), server.URL+"/chart/")

	price, err := client.LatestClose(context.Background(), "600519")
	if err != nil {
		t.Fatalf("LatestClose() error = %v", err)
	}
	if price != 11.5 {
		t.Errorf("LatestClose() = %v, want 11.5 (null bars are skipped)", price)
	}
	if gotPath != "/chart/600519.SS" {
		t.Errorf("requested path = %q, want /chart/600519.SS", gotPath)
	}
}

func TestLatestClose_YahooError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	}))
	defer server.Close()

	client := NewFinanceClientWithURL(server.Client(), server.URL+"/")

	_, err := client.LatestClose(context.Background(), "XXXX")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "delisted") {
		t.Errorf("error = %v, want the Yahoo description", err)
	}
}

func TestParseChart_NoCloses(t *testing.T) {
	client := NewFinanceClient()
	_, err := client.ParseChart(Response{Chart: Chart{Result: []Result{{Timestamp: []int64{1}}}}})
	if !errors.Is(err, ErrNoData) {
		t.Errorf("ParseChart() error = %v, want ErrNoData", err)
	}

	_, err = client.ParseChart(Response{})
	if !errors.Is(err, ErrNoData) {
		t.Errorf("ParseChart() on empty response error = %v, want ErrNoData", err)
	}
}
