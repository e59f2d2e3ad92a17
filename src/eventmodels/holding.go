package eventmodels

import "fmt"

type HoldingKind string

const (
	HoldingKindStock  HoldingKind = "stock"
	HoldingKindOption HoldingKind = "option"
)

func (k HoldingKind) Validate() error {
	if k != HoldingKindStock && k != HoldingKindOption {
		return fmt.Errorf("HoldingKind: Validate: invalid kind: %s", k)
	}

	return nil
}

// Holding is one portfolio position. For options, Ticker is the raw option
// symbol. Amount is signed: negative means short.
type Holding struct {
	Kind   HoldingKind
	Ticker string
	Amount int
}

type HoldingKey struct {
	Kind   HoldingKind
	Ticker string
}

func (h Holding) Key() HoldingKey {
	return HoldingKey{Kind: h.Kind, Ticker: h.Ticker}
}
