package cmd

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var syncDate string

var syncCMD = &cobra.Command{
	Use:   "sync [market]",
	Short: "Synchronize historical bars for a market",
	Long: `Fetch, validate and reconcile daily bars for every active symbol of the
given market (BIST, NASDAQ, NYSE or CRYPTO). Without --date the run targets
yesterday; closed-market days are skipped.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		market := args[0]

		var date time.Time
		if syncDate != "" {
			parsed, err := time.Parse("2006-01-02", syncDate)
			if err != nil {
				slog.Error("invalid --date, use YYYY-MM-DD", "value", syncDate)
				os.Exit(1)
			}
			date = parsed
		}

		engine, _, err := buildEngine()
		if err != nil {
			slog.Error("failed to initialize", "error", err)
			os.Exit(1)
		}

		result := engine.SyncMarket(context.Background(), market, date)
		out, _ := json.MarshalIndent(result, "", "  ")
		os.Stdout.Write(append(out, '\n'))
		if result.TotalSymbols() == 0 && len(result.Errors) > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	syncCMD.Flags().StringVar(&syncDate, "date", "", "sync date (YYYY-MM-DD), defaults to yesterday")
	rootCMD.AddCommand(syncCMD)
}
