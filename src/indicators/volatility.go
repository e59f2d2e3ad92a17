package indicators

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/ypan-code/options/src/eventmodels"
)

const (
	DefaultVolatilityWindow = 21
	TradingDaysPerYear      = 252
)

// RollingVolatility converts a daily close-price series into an annualized
// rolling volatility series: daily log returns, trailing-window sample
// standard deviation, scaled by sqrt(tradingDaysPerYear).
//
// The output is aligned to the input's date index. The first window dates
// carry no value: one lost to the return differencing, window-1 more until
// the rolling window fills.
func RollingVolatility(prices *eventmodels.DailySeries, window int, tradingDaysPerYear int) (*eventmodels.DailySeries, error) {
	if window < 2 {
		return nil, fmt.Errorf("RollingVolatility: window must be at least 2, got %d", window)
	}

	annualization := math.Sqrt(float64(tradingDaysPerYear))

	out := eventmodels.NewDailySeries()
	var returns []float64
	prevClose := 0.0
	havePrev := false

	for _, d := range prices.Dates() {
		close, ok := prices.At(d)
		if !ok {
			// a gap breaks the return chain
			havePrev = false
			returns = returns[:0]
			if err := out.AppendMissing(d); err != nil {
				return nil, fmt.Errorf("RollingVolatility: %w", err)
			}
			continue
		}

		if !havePrev {
			prevClose = close
			havePrev = true
			if err := out.AppendMissing(d); err != nil {
				return nil, fmt.Errorf("RollingVolatility: %w", err)
			}
			continue
		}

		returns = append(returns, math.Log(close/prevClose))
		prevClose = close

		if len(returns) < window {
			if err := out.AppendMissing(d); err != nil {
				return nil, fmt.Errorf("RollingVolatility: %w", err)
			}
			continue
		}

		if len(returns) > window {
			returns = returns[1:]
		}

		sd, err := stats.StandardDeviationSample(returns)
		if err != nil {
			return nil, fmt.Errorf("RollingVolatility: failed to calculate the standard deviation: %v", err)
		}

		if err := out.Append(d, sd*annualization); err != nil {
			return nil, fmt.Errorf("RollingVolatility: %w", err)
		}
	}

	return out, nil
}
