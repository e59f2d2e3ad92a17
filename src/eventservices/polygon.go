package eventservices

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	log "github.com/sirupsen/logrus"

	"github.com/ypan-code/options/src/eventmodels"
)

// PolygonFetcher pulls daily aggregate bars from the polygon.io REST API.
// Option symbols must carry the O: prefix on the wire; stock symbols are
// passed through as-is.
type PolygonFetcher struct {
	Client *polygon.Client
}

func NewPolygonFetcher(apiKey string) *PolygonFetcher {
	return &PolygonFetcher{
		Client: polygon.New(apiKey),
	}
}

func NewPolygonFetcherFromEnv() (*PolygonFetcher, error) {
	apiKey := os.Getenv("POLYGON_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("NewPolygonFetcherFromEnv: missing POLYGON_API_KEY environment variable")
	}

	return NewPolygonFetcher(apiKey), nil
}

func (f *PolygonFetcher) listDailyCloses(ctx context.Context, symbol string, from, to time.Time, adjusted bool) (map[time.Time]float64, []time.Time, error) {
	params := models.ListAggsParams{
		Ticker:     symbol,
		Multiplier: 1,
		Timespan:   models.Day,
		From:       models.Millis(from),
		To:         models.Millis(to),
	}.WithOrder(models.Asc).WithAdjusted(adjusted)

	iter := f.Client.ListAggs(ctx, params)

	closes := make(map[time.Time]float64)
	var dates []time.Time
	for iter.Next() {
		bar := iter.Item()
		date := time.Time(bar.Timestamp).UTC().Truncate(24 * time.Hour)
		if _, found := closes[date]; found {
			return nil, nil, fmt.Errorf("PolygonFetcher: duplicate bar for %s on %s: %w", symbol, date.Format("2006-01-02"), eventmodels.ErrDuplicateDate)
		}

		closes[date] = bar.Close
		dates = append(dates, date)
	}

	if err := iter.Err(); err != nil {
		return nil, nil, fmt.Errorf("PolygonFetcher: failed to fetch %s aggregates: %v: %w", symbol, err, eventmodels.ErrDataUnavailable)
	}

	if len(dates) == 0 {
		return nil, nil, fmt.Errorf("PolygonFetcher: no results for %s between %s and %s: %w", symbol, from.Format("2006-01-02"), to.Format("2006-01-02"), eventmodels.ErrDataUnavailable)
	}

	return closes, dates, nil
}

// wireSymbol maps an option symbol to polygon's O:-prefixed ticker form.
// Stock symbols pass through unchanged.
func wireSymbol(symbol string) string {
	if strings.HasPrefix(symbol, "O:") {
		return symbol
	}

	if _, err := eventmodels.NewOptionSymbolComponents(eventmodels.OptionSymbol(symbol)); err == nil {
		return "O:" + symbol
	}

	return symbol
}

func (f *PolygonFetcher) FetchDailyCloses(ctx context.Context, symbol string, from time.Time, to time.Time) (*eventmodels.PriceSeries, error) {
	log.Debugf("PolygonFetcher: fetching daily closes for %s", symbol)

	ticker := wireSymbol(symbol)

	rawCloses, dates, err := f.listDailyCloses(ctx, ticker, from, to, false)
	if err != nil {
		return nil, err
	}

	adjustedCloses, _, err := f.listDailyCloses(ctx, ticker, from, to, true)
	if err != nil {
		return nil, err
	}

	series := eventmodels.NewPriceSeries(eventmodels.NewStockSymbol(symbol))
	for _, date := range dates {
		adjusted, found := adjustedCloses[date]
		if !found {
			// polygon should return the same trading days either way
			log.Warnf("PolygonFetcher: %s: no adjusted close on %s, using raw close", symbol, date.Format("2006-01-02"))
			adjusted = rawCloses[date]
		}

		if err := series.Add(eventmodels.PriceBar{
			Date:          date,
			Close:         rawCloses[date],
			AdjustedClose: adjusted,
		}); err != nil {
			return nil, fmt.Errorf("PolygonFetcher: %w", err)
		}
	}

	return series, nil
}
