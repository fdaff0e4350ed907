package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/quantdata/marketsync/calendar"
	"github.com/quantdata/marketsync/database"
	"github.com/quantdata/marketsync/models"
	"github.com/quantdata/marketsync/provider/yahoo"
	"github.com/quantdata/marketsync/slogx"
	"github.com/quantdata/marketsync/store"
	"github.com/quantdata/marketsync/syncer"
)

var rootCMD = &cobra.Command{
	Use:   "marketsync",
	Short: "Market data synchronization and reconciliation engine",
	Long: `marketsync keeps a historical OHLCV bar store in sync with an external
quote provider. It fetches daily bars per market, validates them, reconciles
them against already stored data by source priority, backfills gaps in the
series and reports completeness.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		slog.SetDefault(slogx.NewDefault(os.Getenv("LOG_LEVEL")))
	},
}

func Execute() {
	err := rootCMD.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// buildEngine connects the database and wires the full engine stack.
func buildEngine() (*syncer.Engine, *store.Bars, error) {
	if err := database.InitDB(); err != nil {
		return nil, nil, err
	}
	bars := store.NewBars(database.DB)
	symbols := store.NewSymbols(database.DB)
	oracle := calendar.NewOracle(models.DefaultMarkets())
	client := yahoo.NewClient()
	engine := syncer.New(syncer.LoadConfig(), oracle, client, bars, symbols, slog.Default())
	return engine, bars, nil
}
