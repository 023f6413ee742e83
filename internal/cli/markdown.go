package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/ndewijer/Trade-Journal-Backend/internal/format"
	"github.com/ndewijer/Trade-Journal-Backend/internal/model"
)

// printMarkdown renders md for the terminal, falling back to the raw text.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err == nil {
		var out string
		if out, err = r.Render(md); err == nil {
			fmt.Print(out)
			return
		}
	}
	fmt.Fprintf(os.Stderr, "Warning: cannot render markdown: %v\n", err)
	fmt.Print(md)
}

// cell escapes the table separator in user-provided text.
func cell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// TagsMarkdown renders the tag table.
func TagsMarkdown(a model.TagAnalysis) string {
	var b strings.Builder
	b.WriteString("# Reason tags\n\n")
	if len(a.Tags) == 0 {
		b.WriteString("No tagged transactions.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "Total profit: **%s**  \nAverage win rate: **%s**\n\n",
		format.Amount(a.TotalProfit), format.Ratio(a.AverageWinRate))

	b.WriteString("| Tag | Used | Trades | Wins | Win rate | Profit | Avg. days held |\n")
	b.WriteString("|:---|---:|---:|---:|---:|---:|---:|\n")
	for _, t := range a.Tags {
		fmt.Fprintf(&b, "| %s | %d | %d | %d | %s | %s | %s |\n",
			cell(t.Tag), t.Count, t.TotalTrades, t.WinTrades,
			format.Ratio(t.WinRate), format.Amount(t.TotalProfit), format.Number(t.AvgHoldingDays, 1))
	}
	return b.String()
}

// PeriodMarkdown renders a weekly or monthly review with dates shown in loc.
func PeriodMarkdown(r model.PeriodReport, loc *time.Location) string {
	const day = "2006-01-02"
	var b strings.Builder

	title := "Monthly review"
	if r.Period == model.PeriodWeek {
		title = "Weekly review"
	}
	fmt.Fprintf(&b, "# %s %s to %s\n\n", title, r.Start.In(loc).Format(day), r.End.In(loc).Format(day))

	s := r.Summary
	b.WriteString("| | |\n|:---|---:|\n")
	fmt.Fprintf(&b, "| Transactions | %d (%d buys, %d sells) |\n", s.TotalTransactions, s.BuyCount, s.SellCount)
	fmt.Fprintf(&b, "| Stocks traded | %d |\n", s.StockCount)
	fmt.Fprintf(&b, "| Invested | %s |\n", format.Amount(s.TotalInvestment))
	fmt.Fprintf(&b, "| Fees | %s |\n", format.Amount(s.TotalFees))
	fmt.Fprintf(&b, "| Realized profit | %s |\n", format.Amount(s.TotalProfit))
	fmt.Fprintf(&b, "| Profit rate | %s |\n", format.Ratio(s.ProfitRate))
	fmt.Fprintf(&b, "| Closed trades | %d, %d won (%s) |\n", s.TotalTrades, s.WinTrades, format.Ratio(s.WinRate))

	if len(r.Tags) > 0 {
		b.WriteString("\n## Tags\n\n")
		b.WriteString("| Tag | Used | Trades | Wins | Win rate | Profit |\n")
		b.WriteString("|:---|---:|---:|---:|---:|---:|\n")
		for _, t := range r.Tags {
			fmt.Fprintf(&b, "| %s | %d | %d | %d | %s | %s |\n",
				cell(t.Tag), t.Count, t.Trades, t.Wins, format.Ratio(t.WinRate), format.Amount(t.Profit))
		}
	}

	for _, st := range r.Stocks {
		name := st.StockCode
		if st.StockName != "" {
			name += " " + st.StockName
		}
		if name == "" {
			name = st.StockID
		}
		fmt.Fprintf(&b, "\n## %s\n\n", cell(name))
		b.WriteString("| Date | Side | Quantity | Price | Fee |\n")
		b.WriteString("|:---|:---|---:|---:|---:|\n")
		for _, t := range st.Transactions {
			side := "buy"
			if !t.IsBuy() {
				side = "sell"
			}
			fmt.Fprintf(&b, "| %s | %s | %d | %s | %s |\n",
				t.Timestamp.In(loc).Format("2006-01-02 15:04"), side, t.Quantity, format.Price(t.Price), format.Price(t.Fee))
		}
	}
	return b.String()
}

// RefreshMarkdown renders the outcome of a price refresh.
func RefreshMarkdown(r model.PriceRefreshResponse) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Price refresh\n\n%d updated, %d failed.\n", r.TotalUpdated, r.TotalErrors)
	if len(r.UpdatedStocks) > 0 {
		b.WriteString("\n| Code | Symbol | Price |\n|:---|:---|---:|\n")
		for _, u := range r.UpdatedStocks {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", cell(u.Code), u.Symbol, format.Price(u.Price))
		}
	}
	if len(r.Errors) > 0 {
		b.WriteString("\n| Code | Symbol | Error |\n|:---|:---|:---|\n")
		for _, e := range r.Errors {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", cell(e.Code), e.Symbol, cell(e.Error))
		}
	}
	return b.String()
}
