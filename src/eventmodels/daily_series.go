package eventmodels

import (
	"fmt"
	"time"
)

// DailySeries is an ordered (date, value) sequence with one entry per
// trading day. Dates are strictly increasing. A date can be present but
// carry no value (e.g. the warm-up rows of a rolling indicator); such rows
// are explicitly missing, never zero.
type DailySeries struct {
	dates  []time.Time
	values map[time.Time]float64
}

func NewDailySeries() *DailySeries {
	return &DailySeries{
		values: make(map[time.Time]float64),
	}
}

func normalizeDate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func (s *DailySeries) append(d time.Time) (time.Time, error) {
	d = normalizeDate(d)
	if len(s.dates) > 0 && !s.dates[len(s.dates)-1].Before(d) {
		return d, fmt.Errorf("DailySeries: Append: %s after %s: %w", d.Format("2006-01-02"), s.dates[len(s.dates)-1].Format("2006-01-02"), ErrDuplicateDate)
	}

	s.dates = append(s.dates, d)
	return d, nil
}

// Append adds a dated value. Dates must arrive in strictly increasing order.
func (s *DailySeries) Append(d time.Time, v float64) error {
	d, err := s.append(d)
	if err != nil {
		return err
	}

	s.values[d] = v
	return nil
}

// AppendMissing adds a date that carries no value.
func (s *DailySeries) AppendMissing(d time.Time) error {
	_, err := s.append(d)
	return err
}

// At returns the value at d and whether one exists. A date that was never
// appended and a date appended as missing both report false.
func (s *DailySeries) At(d time.Time) (float64, bool) {
	v, ok := s.values[normalizeDate(d)]
	return v, ok
}

// Dates returns the full date index, missing rows included.
func (s *DailySeries) Dates() []time.Time {
	out := make([]time.Time, len(s.dates))
	copy(out, s.dates)
	return out
}

func (s *DailySeries) Len() int {
	return len(s.dates)
}

// Last returns the most recent non-missing value.
func (s *DailySeries) Last() (time.Time, float64, bool) {
	for i := len(s.dates) - 1; i >= 0; i-- {
		if v, ok := s.values[s.dates[i]]; ok {
			return s.dates[i], v, true
		}
	}

	return time.Time{}, 0, false
}
