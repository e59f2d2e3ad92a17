package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/olekukonko/tablewriter"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ypan-code/options/src/eventmodels"
	"github.com/ypan-code/options/src/eventservices"
	"github.com/ypan-code/options/src/models"
	"github.com/ypan-code/options/src/utils"
)

type RunArgs struct {
	GoEnv        string
	From         time.Time
	To           time.Time
	HoldingsPath string
	CsvDir       string
	RiskFreeRate float64
}

func loadHoldings(path string) ([]eventmodels.Holding, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("loadHoldings: failed to open %s: %v", path, err)
	}
	defer file.Close()

	var dtos []*eventmodels.CsvHoldingDTO
	if err := gocsv.UnmarshalFile(file, &dtos); err != nil {
		return nil, fmt.Errorf("loadHoldings: failed to unmarshal %s: %v", path, err)
	}

	var holdings []eventmodels.Holding
	for _, dto := range dtos {
		holding, err := dto.ToModel()
		if err != nil {
			return nil, fmt.Errorf("loadHoldings: %w", err)
		}

		holdings = append(holdings, holding)
	}

	return holdings, nil
}

func renderSeries(title string, series *eventmodels.PortfolioSeries) {
	fmt.Printf("\n%s\n", title)

	tickers := series.Tickers()
	header := append([]string{"Date"}, tickers...)
	header = append(header, "Total")

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader(header)

	formatCell := func(s *eventmodels.DailySeries, d time.Time) string {
		v, ok := s.At(d)
		if !ok {
			return "-"
		}

		return fmt.Sprintf("%.4f", v)
	}

	for _, d := range series.Dates() {
		row := []string{d.Format("2006-01-02")}
		for _, ticker := range tickers {
			col, _ := series.Column(ticker)
			row = append(row, formatCell(col, d))
		}
		row = append(row, formatCell(series.Total, d))

		table.Append(row)
	}

	table.Render()
}

func Run(args RunArgs) error {
	if err := utils.InitEnvironmentVariables(args.GoEnv); err != nil {
		return fmt.Errorf("Run: %w", err)
	}

	var fetcher eventservices.MarketDataFetcher
	if args.CsvDir != "" {
		fetcher = eventservices.NewCsvMarketDataFetcher(args.CsvDir)
	} else {
		polygonFetcher, err := eventservices.NewPolygonFetcherFromEnv()
		if err != nil {
			return fmt.Errorf("Run: %w", err)
		}
		fetcher = polygonFetcher
	}

	holdings, err := loadHoldings(args.HoldingsPath)
	if err != nil {
		return fmt.Errorf("Run: %w", err)
	}

	book := models.NewBook(fetcher, args.From, args.To)
	book.RiskFreeRate = args.RiskFreeRate

	for _, holding := range holdings {
		if err := book.CreateHolding(holding.Kind, holding.Ticker, holding.Amount); err != nil {
			return fmt.Errorf("Run: %w", err)
		}
	}

	if err := book.Initialize(context.Background()); err != nil {
		return fmt.Errorf("Run: %w", err)
	}

	for _, failure := range book.Failures() {
		log.Warnf("Run: excluded from totals: %v", failure)
	}

	value, err := book.PortfolioValue()
	if err != nil {
		return fmt.Errorf("Run: %w", err)
	}
	renderSeries("Portfolio Market Value", value)

	theoretical, err := book.TheoreticalValue()
	if err != nil {
		return fmt.Errorf("Run: %w", err)
	}
	renderSeries("Portfolio Theoretical Value", theoretical)

	greeks, err := book.PortfolioGreeks()
	if err != nil {
		return fmt.Errorf("Run: %w", err)
	}

	renderSeries("Portfolio Delta", greeks.Delta)
	renderSeries("Portfolio Gamma", greeks.Gamma)
	renderSeries("Portfolio Theta", greeks.Theta)
	renderSeries("Portfolio Vega", greeks.Vega)
	renderSeries("Portfolio Rho", greeks.Rho)

	return nil
}

var runCmd = &cobra.Command{
	Use:   "portfolio_greeks --holdings holdings.csv --from 2024-01-02 --to 2024-12-31",
	Short: "Value a portfolio of stocks and options over a historical date range",
	Run: func(cmd *cobra.Command, args []string) {
		goEnv, err := cmd.Flags().GetString("go-env")
		if err != nil {
			log.Fatalf("error getting go-env: %v", err)
		}

		fromStr, err := cmd.Flags().GetString("from")
		if err != nil {
			log.Fatalf("error getting from: %v", err)
		}

		toStr, err := cmd.Flags().GetString("to")
		if err != nil {
			log.Fatalf("error getting to: %v", err)
		}

		holdingsPath, err := cmd.Flags().GetString("holdings")
		if err != nil {
			log.Fatalf("error getting holdings: %v", err)
		}

		csvDir, err := cmd.Flags().GetString("csv-dir")
		if err != nil {
			log.Fatalf("error getting csv-dir: %v", err)
		}

		riskFreeRate, err := cmd.Flags().GetFloat64("risk-free-rate")
		if err != nil {
			log.Fatalf("error getting risk-free-rate: %v", err)
		}

		from, err := time.Parse("2006-01-02", fromStr)
		if err != nil {
			log.Fatalf("error parsing from date: %v", err)
		}

		to, err := time.Parse("2006-01-02", toStr)
		if err != nil {
			log.Fatalf("error parsing to date: %v", err)
		}

		if err := Run(RunArgs{
			GoEnv:        goEnv,
			From:         from,
			To:           to,
			HoldingsPath: holdingsPath,
			CsvDir:       csvDir,
			RiskFreeRate: riskFreeRate,
		}); err != nil {
			log.Fatalf("Error: %v", err)
		}
	},
}

func main() {
	runCmd.PersistentFlags().String("go-env", "development", "The go environment. Currently supported environments: development, production")
	runCmd.PersistentFlags().String("from", "", "Start of the valuation range, YYYY-MM-DD")
	runCmd.PersistentFlags().String("to", "", "End of the valuation range, YYYY-MM-DD")
	runCmd.PersistentFlags().String("holdings", "", "Path to a holdings CSV file with kind,ticker,amount columns")
	runCmd.PersistentFlags().String("csv-dir", "", "Directory of <SYMBOL>.csv price files. When unset, prices come from polygon.io")
	runCmd.PersistentFlags().Float64("risk-free-rate", models.DefaultRiskFreeRate, "Annualized risk-free rate used by the pricing model")

	runCmd.MarkPersistentFlagRequired("from")
	runCmd.MarkPersistentFlagRequired("to")
	runCmd.MarkPersistentFlagRequired("holdings")

	if err := runCmd.Execute(); err != nil {
		log.Fatalf("error executing command: %v", err)
	}
}
