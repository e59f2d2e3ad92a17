package eventmodels

import "fmt"

var ErrMalformedSymbol = fmt.Errorf("malformed option symbol")
var ErrInvalidOptionType = fmt.Errorf("option type must be call or put")
var ErrDataUnavailable = fmt.Errorf("market data unavailable")
var ErrPricingDomain = fmt.Errorf("inputs outside pricing model domain")
var ErrDuplicateDate = fmt.Errorf("duplicate or out-of-order date")
