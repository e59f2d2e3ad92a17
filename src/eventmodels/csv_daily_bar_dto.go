package eventmodels

import (
	"fmt"
	"time"
)

// CsvDailyBarDTO is one row of a daily close-price CSV file, the offline
// substitute for a live market-data feed.
type CsvDailyBarDTO struct {
	Date          string  `csv:"date"`
	Close         float64 `csv:"close"`
	AdjustedClose float64 `csv:"adj_close"`
}

func (dto *CsvDailyBarDTO) ToModel() (PriceBar, error) {
	date, err := time.Parse("2006-01-02", dto.Date)
	if err != nil {
		return PriceBar{}, fmt.Errorf("CsvDailyBarDTO: ToModel: failed to parse date %q: %v", dto.Date, err)
	}

	return PriceBar{
		Date:          date,
		Close:         dto.Close,
		AdjustedClose: dto.AdjustedClose,
	}, nil
}
