package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultBaseURL is the Yahoo Finance chart endpoint.
const DefaultBaseURL = "https://query1.finance.yahoo.com/v8/finance/chart/"

// ErrNoData is returned when Yahoo answers without a usable closing price.
var ErrNoData = errors.New("no price data returned")

// Client fetches the latest closing price of a symbol.
type Client interface {
	LatestClose(ctx context.Context, symbol string) (float64, error)
}

// FinanceClient queries the Yahoo Finance chart API over HTTP.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewFinanceClient creates a client against DefaultBaseURL with a 15 second timeout.
func NewFinanceClient() *FinanceClient {
	return NewFinanceClientWithURL(&http.Client{Timeout: 15 * time.Second}, DefaultBaseURL)
}

// NewFinanceClientWithURL creates a client against another chart endpoint.
// baseURL must end with a slash; the symbol is appended to it.
func NewFinanceClientWithURL(httpClient *http.Client, baseURL string) *FinanceClient {
	return &FinanceClient{httpClient: httpClient, baseURL: baseURL}
}

// Symbol maps a stock code to its Yahoo ticker.
//
// Six-digit mainland codes get their exchange suffix: 6xxxxx and 9xxxxx trade
// in Shanghai (.SS), 0xxxxx, 2xxxxx and 3xxxxx in Shenzhen (.SZ), 4xxxxx and
// 8xxxxx in Beijing (.BJ). Any other code is returned upper-cased.
func Symbol(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 6 || strings.Trim(code, "0123456789") != "" {
		return code
	}
	switch code[0] {
	case '6', '9':
		return code + ".SS"
	case '0', '2', '3':
		return code + ".SZ"
	case '4', '8':
		return code + ".BJ"
	}
	return code
}

// ParseChart converts a raw response into a PriceChart. Bars without a
// closing price are skipped.
func (c *FinanceClient) ParseChart(yahooResult Response) (PriceChart, error) {
	if len(yahooResult.Chart.Result) == 0 {
		return PriceChart{}, ErrNoData
	}
	result := yahooResult.Chart.Result[0]

	if len(result.Timestamp) == 0 {
		return PriceChart{}, ErrNoData
	}
	if len(result.Indicators.Quote) == 0 || len(result.Indicators.Quote[0].Close) == 0 {
		return PriceChart{}, fmt.Errorf("%w: no close prices", ErrNoData)
	}
	quote := result.Indicators.Quote[0]
	if len(quote.Close) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}

	indicators := make([]Indicators, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if quote.Close[i] == nil {
			continue
		}
		indicators = append(indicators, Indicators{
			Date:       time.Unix(ts, 0).UTC(),
			PriceOpen:  valueAt(quote.Open, i),
			PriceClose: *quote.Close[i],
			Volume:     valueAt(quote.Volume, i),
			PriceHigh:  valueAt(quote.High, i),
			PriceLow:   valueAt(quote.Low, i),
		})
	}

	return PriceChart{
		Symbol:           result.Meta.Symbol,
		Currency:         result.Meta.Currency,
		ExchangeName:     result.Meta.ExchangeName,
		FullExchangeName: result.Meta.FullExchangeName,
		LongName:         result.Meta.LongName,
		Shortname:        result.Meta.Shortname,
		Indicators:       indicators,
	}, nil
}

func valueAt[T any](values []*T, i int) T {
	var zero T
	if i >= len(values) || values[i] == nil {
		return zero
	}
	return *values[i]
}

// Latest returns the most recent bar of the chart.
func (c PriceChart) Latest() (Indicators, bool) {
	if len(c.Indicators) == 0 {
		return Indicators{}, false
	}
	return c.Indicators[len(c.Indicators)-1], true
}

// QueryFiveDaySymbol fetches the last five daily bars of a Yahoo symbol.
func (c *FinanceClient) QueryFiveDaySymbol(ctx context.Context, symbol string) (Response, error) {
	endpoint := c.baseURL + url.PathEscape(symbol) + "?interval=1d&range=5d"
	result, err := c.query(ctx, endpoint)
	if err != nil {
		return Response{}, err
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("no results returned for symbol %s", symbol)
	}
	return result, nil
}

// LatestClose returns the last closing price of a stock code, mapping it with Symbol first.
func (c *FinanceClient) LatestClose(ctx context.Context, code string) (float64, error) {
	resp, err := c.QueryFiveDaySymbol(ctx, Symbol(code))
	if err != nil {
		return 0, err
	}
	chart, err := c.ParseChart(resp)
	if err != nil {
		return 0, err
	}
	latest, ok := chart.Latest()
	if !ok || latest.PriceClose <= 0 {
		return 0, ErrNoData
	}
	return latest.PriceClose, nil
}

func (c *FinanceClient) query(ctx context.Context, endpoint string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, err
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		if resp.StatusCode != http.StatusOK {
			return Response{}, fmt.Errorf("yahoo returned status %d", resp.StatusCode)
		}
		return Response{}, err
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("yahoo error: %s: %s", response.Chart.Error.Code, response.Chart.Error.Description)
	}
	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("yahoo returned status %d", resp.StatusCode)
	}

	return response, nil
}
