package bsmodel

import (
	"fmt"
	"math"

	"github.com/chobie/go-gaussian"

	"github.com/ypan-code/options/src/eventmodels"
)

// Closed-form Black-Scholes pricing and analytic Greeks for European
// options on a non-dividend-paying underlying.
//
// Domain: spot > 0, strike > 0, volatility > 0 and timeToMaturity >= 0 for
// Price (> 0 for the Greeks). Inputs outside the domain return
// eventmodels.ErrPricingDomain; non-finite outputs are rejected, never
// returned as a default.

var stdNormal = gaussian.NewGaussian(0, 1)

type Inputs struct {
	OptionType     eventmodels.OptionType
	Spot           float64
	Strike         float64
	TimeToMaturity float64
	RiskFreeRate   float64
	Volatility     float64
}

func (in Inputs) validate(requirePositiveT bool) error {
	if err := in.OptionType.Validate(); err != nil {
		return err
	}

	if in.Spot <= 0 || in.Strike <= 0 {
		return fmt.Errorf("spot %v and strike %v must be positive: %w", in.Spot, in.Strike, eventmodels.ErrPricingDomain)
	}

	if in.Volatility <= 0 {
		return fmt.Errorf("volatility %v must be positive: %w", in.Volatility, eventmodels.ErrPricingDomain)
	}

	if in.TimeToMaturity < 0 || (requirePositiveT && in.TimeToMaturity == 0) {
		return fmt.Errorf("time to maturity %v out of range: %w", in.TimeToMaturity, eventmodels.ErrPricingDomain)
	}

	return nil
}

func (in Inputs) d1() float64 {
	return (math.Log(in.Spot/in.Strike) + (in.RiskFreeRate+0.5*in.Volatility*in.Volatility)*in.TimeToMaturity) /
		(in.Volatility * math.Sqrt(in.TimeToMaturity))
}

func (in Inputs) d2() float64 {
	return in.d1() - in.Volatility*math.Sqrt(in.TimeToMaturity)
}

func (in Inputs) discount() float64 {
	return math.Exp(-in.RiskFreeRate * in.TimeToMaturity)
}

func finite(name string, v float64) (float64, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s is not finite: %w", name, eventmodels.ErrPricingDomain)
	}

	return v, nil
}

// Price returns the theoretical option price. At expiration (T == 0) the
// price collapses to intrinsic value.
func Price(in Inputs) (float64, error) {
	if err := in.validate(false); err != nil {
		return 0, fmt.Errorf("bsmodel.Price: %w", err)
	}

	if in.TimeToMaturity == 0 {
		if in.OptionType == eventmodels.Call {
			return math.Max(in.Spot-in.Strike, 0), nil
		}
		return math.Max(in.Strike-in.Spot, 0), nil
	}

	d1 := in.d1()
	d2 := in.d2()

	var price float64
	if in.OptionType == eventmodels.Call {
		price = in.Spot*stdNormal.Cdf(d1) - in.Strike*in.discount()*stdNormal.Cdf(d2)
	} else {
		price = in.Strike*in.discount()*stdNormal.Cdf(-d2) - in.Spot*stdNormal.Cdf(-d1)
	}

	return finite("bsmodel.Price: price", price)
}

// Delta is the sensitivity of the price to a unit move in spot.
func Delta(in Inputs) (float64, error) {
	if err := in.validate(true); err != nil {
		return 0, fmt.Errorf("bsmodel.Delta: %w", err)
	}

	if in.OptionType == eventmodels.Call {
		return finite("bsmodel.Delta: delta", stdNormal.Cdf(in.d1()))
	}

	return finite("bsmodel.Delta: delta", stdNormal.Cdf(in.d1())-1)
}

// Gamma is the sensitivity of delta to a unit move in spot. It is the same
// for calls and puts.
func Gamma(in Inputs) (float64, error) {
	if err := in.validate(true); err != nil {
		return 0, fmt.Errorf("bsmodel.Gamma: %w", err)
	}

	gamma := stdNormal.Pdf(in.d1()) / (in.Spot * in.Volatility * math.Sqrt(in.TimeToMaturity))
	return finite("bsmodel.Gamma: gamma", gamma)
}

// Theta is the per-year time decay of the price.
func Theta(in Inputs) (float64, error) {
	if err := in.validate(true); err != nil {
		return 0, fmt.Errorf("bsmodel.Theta: %w", err)
	}

	d1 := in.d1()
	d2 := in.d2()
	decay := -in.Spot * stdNormal.Pdf(d1) * in.Volatility / (2 * math.Sqrt(in.TimeToMaturity))

	var theta float64
	if in.OptionType == eventmodels.Call {
		theta = decay - in.RiskFreeRate*in.Strike*in.discount()*stdNormal.Cdf(d2)
	} else {
		theta = decay + in.RiskFreeRate*in.Strike*in.discount()*stdNormal.Cdf(-d2)
	}

	return finite("bsmodel.Theta: theta", theta)
}

// Vega is the sensitivity of the price to a unit change in volatility. It
// is the same for calls and puts.
func Vega(in Inputs) (float64, error) {
	if err := in.validate(true); err != nil {
		return 0, fmt.Errorf("bsmodel.Vega: %w", err)
	}

	vega := in.Spot * stdNormal.Pdf(in.d1()) * math.Sqrt(in.TimeToMaturity)
	return finite("bsmodel.Vega: vega", vega)
}

// Rho is the sensitivity of the price to a unit change in the risk-free
// rate.
func Rho(in Inputs) (float64, error) {
	if err := in.validate(true); err != nil {
		return 0, fmt.Errorf("bsmodel.Rho: %w", err)
	}

	if in.OptionType == eventmodels.Call {
		rho := in.Strike * in.TimeToMaturity * in.discount() * stdNormal.Cdf(in.d2())
		return finite("bsmodel.Rho: rho", rho)
	}

	rho := -in.Strike * in.TimeToMaturity * in.discount() * stdNormal.Cdf(-in.d2())
	return finite("bsmodel.Rho: rho", rho)
}

// Greeks bundles the five sensitivities computed from one set of inputs.
type Greeks struct {
	Delta float64
	Gamma float64
	Theta float64
	Vega  float64
	Rho   float64
}

// ComputeGreeks evaluates all five Greeks for the given inputs.
func ComputeGreeks(in Inputs) (Greeks, error) {
	delta, err := Delta(in)
	if err != nil {
		return Greeks{}, err
	}

	gamma, err := Gamma(in)
	if err != nil {
		return Greeks{}, err
	}

	theta, err := Theta(in)
	if err != nil {
		return Greeks{}, err
	}

	vega, err := Vega(in)
	if err != nil {
		return Greeks{}, err
	}

	rho, err := Rho(in)
	if err != nil {
		return Greeks{}, err
	}

	return Greeks{Delta: delta, Gamma: gamma, Theta: theta, Vega: vega, Rho: rho}, nil
}
