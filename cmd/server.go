package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/quantdata/marketsync/api"
)

var serverCMD = &cobra.Command{
	Use:   "server",
	Short: "Start the HTTP API server",
	Long:  `Start the HTTP server exposing sync, gap fill, completeness and maintenance endpoints.`,
	Run: func(cmd *cobra.Command, args []string) {
		engine, bars, err := buildEngine()
		if err != nil {
			slog.Error("failed to initialize", "error", err)
			os.Exit(1)
		}

		r := api.SetupRoutes(api.NewHandler(engine, bars))

		port := os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
		slog.Info("starting server", "port", port)
		if err := r.Run(":" + port); err != nil {
			slog.Error("server stopped", "error", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCMD.AddCommand(serverCMD)
}
