package eventmodels

import (
	"fmt"
	"strings"
)

// OptionSymbol is an OCC-style option identifier, e.g. TSLA250620C00180000:
// underlying root, YYMMDD expiration, C or P, and the strike price as an
// 8-digit integer carrying an implied two-decimal fraction (strike x 1000).
type OptionSymbol string

func (s OptionSymbol) NoPrefix() string {
	if strings.HasPrefix(string(s), "O:") {
		return string(s)[2:]
	}

	return string(s)
}

func (s OptionSymbol) Description() (string, error) {
	components, err := NewOptionSymbolComponents(s)
	if err != nil {
		return "", fmt.Errorf("OptionSymbol.Description: failed to parse option symbol: %w", err)
	}

	expiration := components.Expiration.Format("Jan 2 2006")
	strikePrice := fmt.Sprintf("%.2f", components.StrikePrice)

	optionType := "Call"
	if components.OptionType == Put {
		optionType = "Put"
	}

	return fmt.Sprintf("%s %s $%s %s", components.Underlying, expiration, strikePrice, optionType), nil
}

func NewOptionSymbol(option OptionSymbolComponents) (OptionSymbol, error) {
	if err := option.OptionType.Validate(); err != nil {
		return "", fmt.Errorf("NewOptionSymbol: %w", err)
	}

	typeLetter := "C"
	if option.OptionType == Put {
		typeLetter = "P"
	}

	year := option.Expiration.Year() % 100
	month := int(option.Expiration.Month())
	day := option.Expiration.Day()

	strikePrice := fmt.Sprintf("%08d", int(option.StrikePrice*1000))

	ticker := fmt.Sprintf("%s%02d%02d%02d%s%s",
		option.Underlying, year, month, day, typeLetter, strikePrice)

	return OptionSymbol(ticker), nil
}
