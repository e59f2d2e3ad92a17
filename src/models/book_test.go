package models

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ypan-code/options/src/eventmodels"
)

type fakeFetcher struct {
	series map[string]*eventmodels.PriceSeries
}

func (f *fakeFetcher) FetchDailyCloses(ctx context.Context, symbol string, from time.Time, to time.Time) (*eventmodels.PriceSeries, error) {
	series, found := f.series[symbol]
	if !found {
		return nil, fmt.Errorf("fakeFetcher: no fixture for %s: %w", symbol, eventmodels.ErrDataUnavailable)
	}

	return series, nil
}

var testStart = time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
var testEnd = time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

// fixtureSeries builds n consecutive daily bars with a gentle drift and an
// alternating wiggle so the rolling volatility is strictly positive.
func fixtureSeries(t *testing.T, symbol string, n int, base float64) *eventmodels.PriceSeries {
	t.Helper()

	series := eventmodels.NewPriceSeries(eventmodels.NewStockSymbol(symbol))
	for i := 0; i < n; i++ {
		price := base * (1 + 0.002*float64(i))
		if i%2 == 1 {
			price *= 1.004
		}

		require.NoError(t, series.Add(eventmodels.PriceBar{
			Date:          testStart.AddDate(0, 0, i),
			Close:         price,
			AdjustedClose: price,
		}))
	}

	return series
}

func lastPopulated(t *testing.T, s *eventmodels.DailySeries) (time.Time, float64) {
	t.Helper()

	d, v, ok := s.Last()
	require.True(t, ok, "series has no populated rows")
	return d, v
}

func TestBookHoldings(t *testing.T) {
	book := NewBook(&fakeFetcher{}, testStart, testEnd)

	t.Run("create stock and option holdings", func(t *testing.T) {
		require.NoError(t, book.CreateHolding(eventmodels.HoldingKindStock, "AAA", 10))
		require.NoError(t, book.CreateHolding(eventmodels.HoldingKindOption, "AAA250620C00100000", 2))

		require.Len(t, book.Holdings(), 2)
	})

	t.Run("malformed option symbol is rejected at creation", func(t *testing.T) {
		err := book.CreateHolding(eventmodels.HoldingKindOption, "NODIGITS", 1)
		assert.ErrorIs(t, err, eventmodels.ErrMalformedSymbol)
	})

	t.Run("modify is additive for stocks", func(t *testing.T) {
		require.NoError(t, book.ModifyHolding(eventmodels.HoldingKindStock, "AAA", 5))

		holdings := book.Holdings()
		require.Len(t, holdings, 2)
		for _, h := range holdings {
			if h.Kind == eventmodels.HoldingKindStock {
				assert.Equal(t, 15, h.Amount)
			}
		}
	})

	t.Run("modify is an error for options", func(t *testing.T) {
		err := book.ModifyHolding(eventmodels.HoldingKindOption, "AAA250620C00100000", 1)
		assert.Error(t, err)
	})

	t.Run("modify of an unknown stock is an error", func(t *testing.T) {
		err := book.ModifyHolding(eventmodels.HoldingKindStock, "ZZZ", 1)
		assert.Error(t, err)
	})

	t.Run("create overwrites an existing holding", func(t *testing.T) {
		require.NoError(t, book.CreateHolding(eventmodels.HoldingKindStock, "AAA", 7))

		for _, h := range book.Holdings() {
			if h.Kind == eventmodels.HoldingKindStock {
				assert.Equal(t, 7, h.Amount)
			}
		}
	})

	t.Run("aggregation before initialize is an error", func(t *testing.T) {
		_, err := book.PortfolioValue()
		assert.Error(t, err)
	})
}

func TestBookStockOnly(t *testing.T) {
	fetcher := &fakeFetcher{series: map[string]*eventmodels.PriceSeries{
		"AAA": fixtureSeries(t, "AAA", 10, 100),
	}}

	book := NewBook(fetcher, testStart, testEnd)
	require.NoError(t, book.CreateHolding(eventmodels.HoldingKindStock, "AAA", 10))
	require.NoError(t, book.Initialize(context.Background()))
	require.Empty(t, book.Failures())

	value, err := book.PortfolioValue()
	require.NoError(t, err)

	theoretical, err := book.TheoreticalValue()
	require.NoError(t, err)

	greeks, err := book.PortfolioGreeks()
	require.NoError(t, err)

	closes := fetcher.series["AAA"].AdjustedCloses()
	for _, d := range closes.Dates() {
		price, ok := closes.At(d)
		require.True(t, ok)

		total, ok := value.Total.At(d)
		require.True(t, ok)
		assert.InDelta(t, 10*price, total, 1e-9)

		theoTotal, ok := theoretical.Total.At(d)
		require.True(t, ok)
		assert.InDelta(t, total, theoTotal, 1e-12, "market and theoretical value must agree for a stock-only portfolio")

		delta, ok := greeks.Delta.Total.At(d)
		require.True(t, ok)
		assert.Equal(t, 10.0, delta)

		for name, series := range map[string]*eventmodels.PortfolioSeries{
			"gamma": greeks.Gamma, "theta": greeks.Theta, "vega": greeks.Vega, "rho": greeks.Rho,
		} {
			v, ok := series.Total.At(d)
			require.True(t, ok, name)
			assert.Equal(t, 0.0, v, name)
		}
	}
}

func TestBookEndToEnd(t *testing.T) {
	optionSymbol := "AAA250620C00100000"

	fetcher := &fakeFetcher{series: map[string]*eventmodels.PriceSeries{
		"AAA":        fixtureSeries(t, "AAA", 40, 105),
		optionSymbol: fixtureSeries(t, optionSymbol, 40, 9),
	}}

	book := NewBook(fetcher, testStart, testEnd)
	require.NoError(t, book.CreateHolding(eventmodels.HoldingKindStock, "AAA", 10))
	require.NoError(t, book.CreateHolding(eventmodels.HoldingKindOption, optionSymbol, 2))
	require.NoError(t, book.Initialize(context.Background()))
	require.Empty(t, book.Failures())

	valuation, found := book.Valuation(optionSymbol)
	require.True(t, found)

	d, optionDelta := lastPopulated(t, valuation.Delta)
	assert.Greater(t, optionDelta, 0.0)
	assert.Less(t, optionDelta, 1.0)

	theoPrice, ok := valuation.TheoreticalPrice.At(d)
	require.True(t, ok)
	assert.Greater(t, theoPrice, 0.0)

	t.Run("warm-up dates are missing in the valuation", func(t *testing.T) {
		_, ok := valuation.Delta.At(testStart)
		assert.False(t, ok)
	})

	t.Run("portfolio delta is the stock amount plus the option leg", func(t *testing.T) {
		greeks, err := book.PortfolioGreeks()
		require.NoError(t, err)

		total, ok := greeks.Delta.Total.At(d)
		require.True(t, ok)
		assert.InDelta(t, 10+2*optionDelta, total, 1e-9)
	})

	t.Run("second-order totals are driven entirely by the option leg", func(t *testing.T) {
		greeks, err := book.PortfolioGreeks()
		require.NoError(t, err)

		for name, pair := range map[string]struct {
			perUnit   *eventmodels.DailySeries
			portfolio *eventmodels.PortfolioSeries
		}{
			"gamma": {valuation.Gamma, greeks.Gamma},
			"theta": {valuation.Theta, greeks.Theta},
			"vega":  {valuation.Vega, greeks.Vega},
			"rho":   {valuation.Rho, greeks.Rho},
		} {
			perUnit, ok := pair.perUnit.At(d)
			require.True(t, ok, name)

			total, ok := pair.portfolio.Total.At(d)
			require.True(t, ok, name)
			assert.InDelta(t, 2*perUnit, total, 1e-9, name)

			stockCol, found := pair.portfolio.Column("AAA")
			require.True(t, found, name)

			stockContribution, ok := stockCol.At(d)
			require.True(t, ok, name)
			assert.Equal(t, 0.0, stockContribution, name)
		}
	})

	t.Run("option warm-up dates still aggregate the stock leg", func(t *testing.T) {
		greeks, err := book.PortfolioGreeks()
		require.NoError(t, err)

		// option delta is missing during the volatility warm-up, so the
		// total on the first date is the stock leg alone
		total, ok := greeks.Delta.Total.At(testStart)
		require.True(t, ok)
		assert.Equal(t, 10.0, total)
	})

	t.Run("market and theoretical option values are independent totals", func(t *testing.T) {
		value, err := book.PortfolioValue()
		require.NoError(t, err)

		theoretical, err := book.TheoreticalValue()
		require.NoError(t, err)

		marketCol, found := value.Column(optionSymbol)
		require.True(t, found)

		marketLeg, ok := marketCol.At(d)
		require.True(t, ok)

		observed, ok := fetcher.series[optionSymbol].AdjustedCloses().At(d)
		require.True(t, ok)
		assert.InDelta(t, 2*observed, marketLeg, 1e-9)

		theoCol, found := theoretical.Column(optionSymbol)
		require.True(t, found)

		theoLeg, ok := theoCol.At(d)
		require.True(t, ok)
		assert.InDelta(t, 2*theoPrice, theoLeg, 1e-9)
	})
}

func TestBookFailures(t *testing.T) {
	t.Run("a failed instrument is excluded, not fatal", func(t *testing.T) {
		fetcher := &fakeFetcher{series: map[string]*eventmodels.PriceSeries{
			"AAA": fixtureSeries(t, "AAA", 10, 100),
		}}

		book := NewBook(fetcher, testStart, testEnd)
		require.NoError(t, book.CreateHolding(eventmodels.HoldingKindStock, "AAA", 10))
		require.NoError(t, book.CreateHolding(eventmodels.HoldingKindStock, "MISSING", 5))

		require.NoError(t, book.Initialize(context.Background()))
		require.Len(t, book.Failures(), 1)
		assert.ErrorIs(t, book.Failures()[0], eventmodels.ErrDataUnavailable)

		value, err := book.PortfolioValue()
		require.NoError(t, err)

		_, found := value.Column("MISSING")
		assert.False(t, found)

		price, ok := fetcher.series["AAA"].AdjustedCloses().At(testStart)
		require.True(t, ok)

		total, ok := value.Total.At(testStart)
		require.True(t, ok)
		assert.InDelta(t, 10*price, total, 1e-9)
	})

	t.Run("every instrument failing is fatal", func(t *testing.T) {
		book := NewBook(&fakeFetcher{}, testStart, testEnd)
		require.NoError(t, book.CreateHolding(eventmodels.HoldingKindStock, "AAA", 10))

		err := book.Initialize(context.Background())
		assert.ErrorIs(t, err, eventmodels.ErrDataUnavailable)
	})

	t.Run("a failed initialize leaves prior results untouched", func(t *testing.T) {
		fetcher := &fakeFetcher{series: map[string]*eventmodels.PriceSeries{
			"AAA": fixtureSeries(t, "AAA", 10, 100),
		}}

		book := NewBook(fetcher, testStart, testEnd)
		require.NoError(t, book.CreateHolding(eventmodels.HoldingKindStock, "AAA", 10))
		require.NoError(t, book.Initialize(context.Background()))

		before, err := book.PortfolioValue()
		require.NoError(t, err)

		// drop every fixture so the next recompute cannot succeed
		require.NoError(t, book.CreateHolding(eventmodels.HoldingKindStock, "GONE", 1))
		fetcher.series = map[string]*eventmodels.PriceSeries{}

		require.Error(t, book.Initialize(context.Background()))

		after, err := book.PortfolioValue()
		require.NoError(t, err)
		assert.Equal(t, before.Dates(), after.Dates())
	})
}
