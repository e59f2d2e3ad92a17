package eventmodels

import (
	"fmt"
	"strconv"
	"time"
	"unicode"
)

// OptionSymbolComponents holds the parsed parts of an option symbol.
type OptionSymbolComponents struct {
	Underlying  string
	Expiration  time.Time
	OptionType  OptionType
	StrikePrice float64
	Symbol      OptionSymbol
}

const expirationLayout = "060102"

// NewOptionSymbolComponents decodes an option symbol: every character up to
// the first digit is the underlying ticker, the next 6 characters are the
// YYMMDD expiration, the next character is the type letter, and the rest is
// the strike price with an implied two-decimal fraction (OCC strike x 1000,
// third fractional digit dropped).
//
// Known limitation: an underlying ticker that itself contains a digit would
// shift the expiration field and mis-parse. No listed root we trade does.
func NewOptionSymbolComponents(symbol OptionSymbol) (*OptionSymbolComponents, error) {
	raw := symbol.NoPrefix()

	digitAt := -1
	for i, r := range raw {
		if unicode.IsDigit(r) {
			digitAt = i
			break
		}
	}

	if digitAt <= 0 {
		return nil, fmt.Errorf("NewOptionSymbolComponents: no expiration field in %q: %w", raw, ErrMalformedSymbol)
	}

	// ticker + 6-digit date + type letter + at least one strike digit
	if len(raw) < digitAt+8 {
		return nil, fmt.Errorf("NewOptionSymbolComponents: symbol %q too short: %w", raw, ErrMalformedSymbol)
	}

	expiration, err := time.Parse(expirationLayout, raw[digitAt:digitAt+6])
	if err != nil {
		return nil, fmt.Errorf("NewOptionSymbolComponents: failed to parse expiration in %q: %w", raw, ErrMalformedSymbol)
	}

	var optionType OptionType
	switch raw[digitAt+6] {
	case 'C', 'c':
		optionType = Call
	case 'P', 'p':
		optionType = Put
	default:
		return nil, fmt.Errorf("NewOptionSymbolComponents: type letter %q in %q: %w", string(raw[digitAt+6]), raw, ErrInvalidOptionType)
	}

	strikeDigits := raw[digitAt+7:]
	strikeInt, err := strconv.Atoi(strikeDigits)
	if err != nil {
		return nil, fmt.Errorf("NewOptionSymbolComponents: failed to convert strike %q: %w", strikeDigits, ErrMalformedSymbol)
	}

	strikePrice := float64(strikeInt/10) / 100.0
	if strikePrice <= 0 {
		return nil, fmt.Errorf("NewOptionSymbolComponents: non-positive strike in %q: %w", raw, ErrMalformedSymbol)
	}

	return &OptionSymbolComponents{
		Underlying:  raw[:digitAt],
		Expiration:  expiration,
		OptionType:  optionType,
		StrikePrice: strikePrice,
		Symbol:      symbol,
	}, nil
}
