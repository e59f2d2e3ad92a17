package eventmodels

import "fmt"

// CsvHoldingDTO is one row of a holdings CSV file, e.g.
//
//	kind,ticker,amount
//	stock,AAPL,10
//	option,AAPL250620C00100000,2
type CsvHoldingDTO struct {
	Kind   string `csv:"kind"`
	Ticker string `csv:"ticker"`
	Amount int    `csv:"amount"`
}

func (dto *CsvHoldingDTO) ToModel() (Holding, error) {
	kind := HoldingKind(dto.Kind)
	if err := kind.Validate(); err != nil {
		return Holding{}, fmt.Errorf("CsvHoldingDTO: ToModel: %w", err)
	}

	if dto.Ticker == "" {
		return Holding{}, fmt.Errorf("CsvHoldingDTO: ToModel: ticker is empty")
	}

	return Holding{
		Kind:   kind,
		Ticker: dto.Ticker,
		Amount: dto.Amount,
	}, nil
}
