package eventservices

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	log "github.com/sirupsen/logrus"

	"github.com/ypan-code/options/src/eventmodels"
)

// CsvMarketDataFetcher reads daily closes from <dir>/<SYMBOL>.csv files. It
// backs offline runs and test fixtures; the files use the
// eventmodels.CsvDailyBarDTO layout.
type CsvMarketDataFetcher struct {
	Dir string
}

func NewCsvMarketDataFetcher(dir string) *CsvMarketDataFetcher {
	return &CsvMarketDataFetcher{Dir: dir}
}

func (f *CsvMarketDataFetcher) FetchDailyCloses(ctx context.Context, symbol string, from time.Time, to time.Time) (*eventmodels.PriceSeries, error) {
	fname := filepath.Join(f.Dir, fmt.Sprintf("%s.csv", symbol))

	file, err := os.Open(fname)
	if err != nil {
		return nil, fmt.Errorf("CsvMarketDataFetcher: failed to open %s: %v: %w", fname, err, eventmodels.ErrDataUnavailable)
	}
	defer file.Close()

	var dtos []*eventmodels.CsvDailyBarDTO
	if err := gocsv.UnmarshalFile(file, &dtos); err != nil {
		return nil, fmt.Errorf("CsvMarketDataFetcher: failed to unmarshal %s: %v: %w", fname, err, eventmodels.ErrDataUnavailable)
	}

	series := eventmodels.NewPriceSeries(eventmodels.NewStockSymbol(symbol))
	for _, dto := range dtos {
		bar, err := dto.ToModel()
		if err != nil {
			return nil, fmt.Errorf("CsvMarketDataFetcher: %s: %v: %w", fname, err, eventmodels.ErrDataUnavailable)
		}

		if bar.Date.Before(from) || bar.Date.After(to) {
			continue
		}

		if err := series.Add(bar); err != nil {
			return nil, fmt.Errorf("CsvMarketDataFetcher: %s: %w", fname, err)
		}
	}

	if len(series.Bars) == 0 {
		return nil, fmt.Errorf("CsvMarketDataFetcher: no rows for %s between %s and %s: %w", symbol, from.Format("2006-01-02"), to.Format("2006-01-02"), eventmodels.ErrDataUnavailable)
	}

	log.Debugf("CsvMarketDataFetcher: loaded %d bars for %s from %s", len(series.Bars), symbol, fname)

	return series, nil
}
