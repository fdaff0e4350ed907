package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var dedupCMD = &cobra.Command{
	Use:   "dedup",
	Short: "Remove duplicate bars sharing one business key",
	Long: `Scan the store for bars that share (symbol, market, date, timeframe),
keep the most trusted row of each group and delete the rest.`,
	Run: func(cmd *cobra.Command, args []string) {
		_, bars, err := buildEngine()
		if err != nil {
			slog.Error("failed to initialize", "error", err)
			os.Exit(1)
		}

		groups, deleted, err := bars.Deduplicate(context.Background())
		if err != nil {
			slog.Error("deduplication failed", "error", err)
			os.Exit(1)
		}
		slog.Info("deduplication finished", "duplicate_groups", groups, "records_deleted", deleted)
	},
}

func init() {
	rootCMD.AddCommand(dedupCMD)
}
