package models

import "github.com/ypan-code/options/src/eventmodels"

// scaleSeries multiplies every populated value by factor; missing rows stay
// missing. Source dates are already strictly increasing, so the re-append
// cannot fail.
func scaleSeries(s *eventmodels.DailySeries, factor float64) *eventmodels.DailySeries {
	out := eventmodels.NewDailySeries()
	for _, d := range s.Dates() {
		if v, ok := s.At(d); ok {
			out.Append(d, v*factor)
		} else {
			out.AppendMissing(d)
		}
	}

	return out
}

// constantLike carries s's date index but replaces every populated value
// with v. Missing rows stay missing.
func constantLike(s *eventmodels.DailySeries, v float64) *eventmodels.DailySeries {
	out := eventmodels.NewDailySeries()
	for _, d := range s.Dates() {
		if _, ok := s.At(d); ok {
			out.Append(d, v)
		} else {
			out.AppendMissing(d)
		}
	}

	return out
}
