package models

import (
	"fmt"

	"github.com/ypan-code/options/src/eventmodels"
)

// InstrumentError records one holding whose valuation inputs could not be
// built. Failed instruments are excluded from portfolio totals; the
// failures themselves stay visible on the book instead of aborting the
// whole aggregation.
type InstrumentError struct {
	Holding eventmodels.Holding
	Err     error
}

func (e InstrumentError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Holding.Kind, e.Holding.Ticker, e.Err)
}

func (e InstrumentError) Unwrap() error {
	return e.Err
}
