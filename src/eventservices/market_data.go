package eventservices

import (
	"context"
	"time"

	"github.com/ypan-code/options/src/eventmodels"
)

// MarketDataFetcher returns the daily close history for one symbol over a
// date range. Implementations must return trading days only, strictly
// increasing, and must surface transport or symbol-not-found failures as an
// error wrapping eventmodels.ErrDataUnavailable rather than an empty
// series.
type MarketDataFetcher interface {
	FetchDailyCloses(ctx context.Context, symbol string, from time.Time, to time.Time) (*eventmodels.PriceSeries, error)
}
