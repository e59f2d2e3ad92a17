package models

import (
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/ypan-code/options/src/bsmodel"
	"github.com/ypan-code/options/src/eventmodels"
)

const DefaultRiskFreeRate = 0.04

const daysPerYear = 365.0

// ValueOption computes the theoretical price and Greeks of one option for
// every date of the underlying's close-price series. A date whose close or
// volatility is missing produces a row that is missing across all six
// outputs; the model is never invoked with partial inputs.
//
// Time to maturity is a simple calendar day count over 365. Dates past
// expiration produce a negative time to maturity, which the pricing model
// rejects as a domain error; those rows come back missing and are counted
// in a single warning per instrument.
func ValueOption(components *eventmodels.OptionSymbolComponents, closes *eventmodels.DailySeries, vols *eventmodels.DailySeries, riskFreeRate float64) (*eventmodels.OptionValuation, error) {
	valuation := eventmodels.NewOptionValuation(components.Symbol)

	domainErrCount := 0
	var lastDomainErr error

	for _, date := range closes.Dates() {
		spot, hasSpot := closes.At(date)
		vol, hasVol := vols.At(date)
		if !hasSpot || !hasVol {
			if err := valuation.AppendMissing(date); err != nil {
				return nil, fmt.Errorf("ValueOption: %s: %w", components.Symbol, err)
			}
			continue
		}

		timeToMaturity := components.Expiration.Sub(date).Hours() / 24 / daysPerYear

		inputs := bsmodel.Inputs{
			OptionType:     components.OptionType,
			Spot:           spot,
			Strike:         components.StrikePrice,
			TimeToMaturity: timeToMaturity,
			RiskFreeRate:   riskFreeRate,
			Volatility:     vol,
		}

		theoPrice, err := bsmodel.Price(inputs)
		if err == nil {
			var greeks bsmodel.Greeks
			greeks, err = bsmodel.ComputeGreeks(inputs)
			if err == nil {
				if appendErr := valuation.AppendRow(date, theoPrice, greeks.Delta, greeks.Gamma, greeks.Theta, greeks.Vega, greeks.Rho); appendErr != nil {
					return nil, fmt.Errorf("ValueOption: %s: %w", components.Symbol, appendErr)
				}
				continue
			}
		}

		if !errors.Is(err, eventmodels.ErrPricingDomain) {
			return nil, fmt.Errorf("ValueOption: %s: %s: %w", components.Symbol, date.Format("2006-01-02"), err)
		}

		domainErrCount++
		lastDomainErr = err
		if appendErr := valuation.AppendMissing(date); appendErr != nil {
			return nil, fmt.Errorf("ValueOption: %s: %w", components.Symbol, appendErr)
		}
	}

	if domainErrCount > 0 {
		log.Warnf("ValueOption: %s: %d dates outside the pricing model domain, last: %v", components.Symbol, domainErrCount, lastDomainErr)
	}

	return valuation, nil
}
