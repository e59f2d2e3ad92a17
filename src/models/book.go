package models

import (
	"context"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ypan-code/options/src/eventmodels"
	"github.com/ypan-code/options/src/eventservices"
	"github.com/ypan-code/options/src/indicators"
)

// Book holds a portfolio of stock and option positions over a historical
// date range and derives portfolio-level time series from them: market
// value, theoretical value, and the five Greeks.
//
// Initialize performs a full recompute from the current holdings; it either
// replaces the book's derived state wholesale or fails and leaves the prior
// state untouched. Instruments whose inputs cannot be built are collected
// on Failures and excluded from the totals rather than crashing the whole
// aggregation.
type Book struct {
	From             time.Time
	To               time.Time
	RiskFreeRate     float64
	VolatilityWindow int

	fetcher  eventservices.MarketDataFetcher
	holdings map[eventmodels.HoldingKey]eventmodels.Holding

	stockCloses  map[string]*eventmodels.DailySeries
	optionCloses map[string]*eventmodels.DailySeries
	valuations   map[string]*eventmodels.OptionValuation
	failures     []InstrumentError
	initialized  bool
}

func NewBook(fetcher eventservices.MarketDataFetcher, from time.Time, to time.Time) *Book {
	return &Book{
		From:             from,
		To:               to,
		RiskFreeRate:     DefaultRiskFreeRate,
		VolatilityWindow: indicators.DefaultVolatilityWindow,
		fetcher:          fetcher,
		holdings:         make(map[eventmodels.HoldingKey]eventmodels.Holding),
	}
}

// CreateHolding adds a position, overwriting any existing position with the
// same kind and ticker. Option tickers are parsed up front so that a
// malformed symbol fails here rather than inside Initialize.
func (b *Book) CreateHolding(kind eventmodels.HoldingKind, ticker string, amount int) error {
	if err := kind.Validate(); err != nil {
		return fmt.Errorf("Book: CreateHolding: %w", err)
	}

	if kind == eventmodels.HoldingKindOption {
		if _, err := eventmodels.NewOptionSymbolComponents(eventmodels.OptionSymbol(ticker)); err != nil {
			return fmt.Errorf("Book: CreateHolding: %w", err)
		}
	}

	holding := eventmodels.Holding{Kind: kind, Ticker: ticker, Amount: amount}
	b.holdings[holding.Key()] = holding

	return nil
}

// ModifyHolding adds amount to an existing stock position. Option positions
// are create/overwrite only; modifying one is an error rather than a silent
// no-op.
func (b *Book) ModifyHolding(kind eventmodels.HoldingKind, ticker string, amount int) error {
	if kind != eventmodels.HoldingKindStock {
		return fmt.Errorf("Book: ModifyHolding: only stock holdings support incremental updates, got %s", kind)
	}

	key := eventmodels.HoldingKey{Kind: kind, Ticker: ticker}
	holding, found := b.holdings[key]
	if !found {
		return fmt.Errorf("Book: ModifyHolding: no %s holding for %s", kind, ticker)
	}

	holding.Amount += amount
	b.holdings[key] = holding

	return nil
}

// Holdings returns the current positions, sorted by kind then ticker.
func (b *Book) Holdings() []eventmodels.Holding {
	out := make([]eventmodels.Holding, 0, len(b.holdings))
	for _, h := range b.holdings {
		out = append(out, h)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Kind != out[j].Kind {
			return out[i].Kind < out[j].Kind
		}
		return out[i].Ticker < out[j].Ticker
	})

	return out
}

// Failures returns the instruments excluded by the last Initialize.
func (b *Book) Failures() []InstrumentError {
	return b.failures
}

// Initialize fetches every holding's price history, derives volatility and
// option valuations, and replaces the book's series state. It is idempotent
// and recomputes everything from scratch on each call.
func (b *Book) Initialize(ctx context.Context) error {
	stockCloses := make(map[string]*eventmodels.DailySeries)
	optionCloses := make(map[string]*eventmodels.DailySeries)
	valuations := make(map[string]*eventmodels.OptionValuation)
	var failures []InstrumentError

	underlyingCache := make(map[string]*eventmodels.PriceSeries)
	fetchHistory := func(symbol string) (*eventmodels.PriceSeries, error) {
		if series, found := underlyingCache[symbol]; found {
			return series, nil
		}

		series, err := b.fetcher.FetchDailyCloses(ctx, symbol, b.From, b.To)
		if err != nil {
			return nil, err
		}

		underlyingCache[symbol] = series
		return series, nil
	}

	fail := func(h eventmodels.Holding, err error) {
		log.Errorf("Book: Initialize: excluding %s %s: %v", h.Kind, h.Ticker, err)
		failures = append(failures, InstrumentError{Holding: h, Err: err})
	}

	for _, holding := range b.Holdings() {
		switch holding.Kind {
		case eventmodels.HoldingKindStock:
			series, err := fetchHistory(holding.Ticker)
			if err != nil {
				fail(holding, err)
				continue
			}

			stockCloses[holding.Ticker] = series.AdjustedCloses()

		case eventmodels.HoldingKindOption:
			components, err := eventmodels.NewOptionSymbolComponents(eventmodels.OptionSymbol(holding.Ticker))
			if err != nil {
				fail(holding, err)
				continue
			}

			underlying, err := fetchHistory(components.Underlying)
			if err != nil {
				fail(holding, err)
				continue
			}

			closes := underlying.AdjustedCloses()
			vols, err := indicators.RollingVolatility(closes, b.VolatilityWindow, indicators.TradingDaysPerYear)
			if err != nil {
				fail(holding, err)
				continue
			}

			valuation, err := ValueOption(components, closes, vols, b.RiskFreeRate)
			if err != nil {
				fail(holding, err)
				continue
			}

			market, err := b.fetcher.FetchDailyCloses(ctx, holding.Ticker, b.From, b.To)
			if err != nil {
				fail(holding, err)
				continue
			}

			optionCloses[holding.Ticker] = market.AdjustedCloses()
			valuations[holding.Ticker] = valuation
		}
	}

	if len(b.holdings) > 0 && len(failures) == len(b.holdings) {
		return fmt.Errorf("Book: Initialize: all %d instruments failed, first: %w", len(failures), failures[0])
	}

	b.stockCloses = stockCloses
	b.optionCloses = optionCloses
	b.valuations = valuations
	b.failures = failures
	b.initialized = true

	return nil
}

// Valuation returns the last computed valuation for an option holding.
func (b *Book) Valuation(ticker string) (*eventmodels.OptionValuation, bool) {
	valuation, found := b.valuations[ticker]
	return valuation, found
}

func (b *Book) requireInitialized() error {
	if !b.initialized {
		return fmt.Errorf("Book: not initialized: call Initialize first")
	}

	return nil
}

// PortfolioValue is the market-value series: observed close times amount
// for every holding, stock and option alike. Holdings without series in
// the current snapshot (failed instruments, or positions added since the
// last Initialize) are excluded.
func (b *Book) PortfolioValue() (*eventmodels.PortfolioSeries, error) {
	if err := b.requireInitialized(); err != nil {
		return nil, fmt.Errorf("Book: PortfolioValue: %w", err)
	}

	columns := make(map[string]*eventmodels.DailySeries)
	for _, holding := range b.Holdings() {
		amount := float64(holding.Amount)
		switch holding.Kind {
		case eventmodels.HoldingKindStock:
			if closes, found := b.stockCloses[holding.Ticker]; found {
				columns[holding.Ticker] = scaleSeries(closes, amount)
			}
		case eventmodels.HoldingKindOption:
			if closes, found := b.optionCloses[holding.Ticker]; found {
				columns[holding.Ticker] = scaleSeries(closes, amount)
			}
		}
	}

	return eventmodels.NewPortfolioSeries(columns), nil
}

// TheoreticalValue is the model-value series: Black-Scholes price for
// options, observed close for stocks, each times amount.
func (b *Book) TheoreticalValue() (*eventmodels.PortfolioSeries, error) {
	if err := b.requireInitialized(); err != nil {
		return nil, fmt.Errorf("Book: TheoreticalValue: %w", err)
	}

	columns := make(map[string]*eventmodels.DailySeries)
	for _, holding := range b.Holdings() {
		amount := float64(holding.Amount)
		switch holding.Kind {
		case eventmodels.HoldingKindStock:
			if closes, found := b.stockCloses[holding.Ticker]; found {
				columns[holding.Ticker] = scaleSeries(closes, amount)
			}
		case eventmodels.HoldingKindOption:
			if valuation, found := b.valuations[holding.Ticker]; found {
				columns[holding.Ticker] = scaleSeries(valuation.TheoreticalPrice, amount)
			}
		}
	}

	return eventmodels.NewPortfolioSeries(columns), nil
}

// PortfolioGreeks bundles the five portfolio-level Greek series.
type PortfolioGreeks struct {
	Delta *eventmodels.PortfolioSeries
	Gamma *eventmodels.PortfolioSeries
	Theta *eventmodels.PortfolioSeries
	Vega  *eventmodels.PortfolioSeries
	Rho   *eventmodels.PortfolioSeries
}

// PortfolioGreeks aggregates per-instrument sensitivities. A stock
// contributes its amount to Delta with unit sensitivity and zero to the
// other four; an option contributes its per-unit Greek times amount.
func (b *Book) PortfolioGreeks() (*PortfolioGreeks, error) {
	if err := b.requireInitialized(); err != nil {
		return nil, fmt.Errorf("Book: PortfolioGreeks: %w", err)
	}

	deltaCols := make(map[string]*eventmodels.DailySeries)
	gammaCols := make(map[string]*eventmodels.DailySeries)
	thetaCols := make(map[string]*eventmodels.DailySeries)
	vegaCols := make(map[string]*eventmodels.DailySeries)
	rhoCols := make(map[string]*eventmodels.DailySeries)

	for _, holding := range b.Holdings() {
		amount := float64(holding.Amount)
		switch holding.Kind {
		case eventmodels.HoldingKindStock:
			closes, found := b.stockCloses[holding.Ticker]
			if !found {
				continue
			}

			// unit delta per share; no convexity, time, volatility or
			// rate sensitivity
			deltaCols[holding.Ticker] = constantLike(closes, amount)
			gammaCols[holding.Ticker] = constantLike(closes, 0)
			thetaCols[holding.Ticker] = constantLike(closes, 0)
			vegaCols[holding.Ticker] = constantLike(closes, 0)
			rhoCols[holding.Ticker] = constantLike(closes, 0)

		case eventmodels.HoldingKindOption:
			valuation, found := b.valuations[holding.Ticker]
			if !found {
				continue
			}

			deltaCols[holding.Ticker] = scaleSeries(valuation.Delta, amount)
			gammaCols[holding.Ticker] = scaleSeries(valuation.Gamma, amount)
			thetaCols[holding.Ticker] = scaleSeries(valuation.Theta, amount)
			vegaCols[holding.Ticker] = scaleSeries(valuation.Vega, amount)
			rhoCols[holding.Ticker] = scaleSeries(valuation.Rho, amount)
		}
	}

	return &PortfolioGreeks{
		Delta: eventmodels.NewPortfolioSeries(deltaCols),
		Gamma: eventmodels.NewPortfolioSeries(gammaCols),
		Theta: eventmodels.NewPortfolioSeries(thetaCols),
		Vega:  eventmodels.NewPortfolioSeries(vegaCols),
		Rho:   eventmodels.NewPortfolioSeries(rhoCols),
	}, nil
}
