package eventmodels

import (
	"sort"
	"time"
)

// PortfolioSeries is one portfolio-level metric over time: a per-instrument
// contribution column per holding plus a Total column. The Total at a date
// sums the contributions present at that date; missing contributions are
// excluded, not coerced to zero. A date where every contribution is missing
// has a missing Total.
type PortfolioSeries struct {
	columns map[string]*DailySeries
	Total   *DailySeries
}

// NewPortfolioSeries joins per-instrument contribution columns on their
// union of dates and computes the Total column.
func NewPortfolioSeries(columns map[string]*DailySeries) *PortfolioSeries {
	dateSet := make(map[time.Time]struct{})
	for _, col := range columns {
		for _, d := range col.Dates() {
			dateSet[d] = struct{}{}
		}
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	total := NewDailySeries()
	for _, d := range dates {
		sum := 0.0
		found := false
		for _, col := range columns {
			if v, ok := col.At(d); ok {
				sum += v
				found = true
			}
		}

		if found {
			total.Append(d, sum)
		} else {
			total.AppendMissing(d)
		}
	}

	return &PortfolioSeries{
		columns: columns,
		Total:   total,
	}
}

// Column returns the contribution series for one instrument.
func (p *PortfolioSeries) Column(ticker string) (*DailySeries, bool) {
	col, ok := p.columns[ticker]
	return col, ok
}

// Tickers returns the instrument column names in sorted order.
func (p *PortfolioSeries) Tickers() []string {
	out := make([]string, 0, len(p.columns))
	for ticker := range p.columns {
		out = append(out, ticker)
	}
	sort.Strings(out)

	return out
}

// Dates returns the union date index of all columns.
func (p *PortfolioSeries) Dates() []time.Time {
	return p.Total.Dates()
}
