package eventmodels

import "strings"

type StockSymbol string

func (s StockSymbol) String() string {
	return strings.ToUpper(string(s))
}

func NewStockSymbol(s string) StockSymbol {
	return StockSymbol(strings.ToUpper(s))
}
