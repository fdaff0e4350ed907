package cmd

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	gapsStart string
	gapsEnd   string
)

var gapsCMD = &cobra.Command{
	Use:   "fill-gaps [market]",
	Short: "Detect and backfill missing trading days for a market",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		market := args[0]

		start, err := time.Parse("2006-01-02", gapsStart)
		if err != nil {
			slog.Error("invalid --start, use YYYY-MM-DD", "value", gapsStart)
			os.Exit(1)
		}
		end, err := time.Parse("2006-01-02", gapsEnd)
		if err != nil {
			slog.Error("invalid --end, use YYYY-MM-DD", "value", gapsEnd)
			os.Exit(1)
		}
		if end.Before(start) {
			slog.Error("--end must not be before --start")
			os.Exit(1)
		}

		engine, _, err := buildEngine()
		if err != nil {
			slog.Error("failed to initialize", "error", err)
			os.Exit(1)
		}

		result := engine.DetectAndFillGaps(context.Background(), market, start, end)
		out, _ := json.MarshalIndent(result, "", "  ")
		os.Stdout.Write(append(out, '\n'))
		if result.GapsDetected == 0 && len(result.Errors) > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	gapsCMD.Flags().StringVar(&gapsStart, "start", "", "range start (YYYY-MM-DD)")
	gapsCMD.Flags().StringVar(&gapsEnd, "end", "", "range end (YYYY-MM-DD)")
	gapsCMD.MarkFlagRequired("start")
	gapsCMD.MarkFlagRequired("end")
	rootCMD.AddCommand(gapsCMD)
}
