package eventmodels

import "time"

// OptionValuation holds the per-date theoretical price and Greeks of one
// option, all six series row-aligned on the same date index. A date with
// incomplete inputs is missing in every series at once, never partially
// populated.
type OptionValuation struct {
	Symbol           OptionSymbol
	TheoreticalPrice *DailySeries
	Delta            *DailySeries
	Gamma            *DailySeries
	Theta            *DailySeries
	Vega             *DailySeries
	Rho              *DailySeries
}

func NewOptionValuation(symbol OptionSymbol) *OptionValuation {
	return &OptionValuation{
		Symbol:           symbol,
		TheoreticalPrice: NewDailySeries(),
		Delta:            NewDailySeries(),
		Gamma:            NewDailySeries(),
		Theta:            NewDailySeries(),
		Vega:             NewDailySeries(),
		Rho:              NewDailySeries(),
	}
}

func (v *OptionValuation) allSeries() []*DailySeries {
	return []*DailySeries{v.TheoreticalPrice, v.Delta, v.Gamma, v.Theta, v.Vega, v.Rho}
}

// AppendMissing marks d as missing across all six series at once.
func (v *OptionValuation) AppendMissing(d time.Time) error {
	for _, s := range v.allSeries() {
		if err := s.AppendMissing(d); err != nil {
			return err
		}
	}

	return nil
}

// AppendRow appends a fully populated valuation row for d.
func (v *OptionValuation) AppendRow(d time.Time, theoPrice, delta, gamma, theta, vega, rho float64) error {
	values := []float64{theoPrice, delta, gamma, theta, vega, rho}
	for i, s := range v.allSeries() {
		if err := s.Append(d, values[i]); err != nil {
			return err
		}
	}

	return nil
}
