package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"sandwatch/config"
	"sandwatch/detect"
	"sandwatch/helius"
	"sandwatch/logger"
	"sandwatch/server"
)

var servePort int

var serveCmd = cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP analysis server",
	Run: func(cmd *cobra.Command, args []string) {
		logger.InitLogs("serve")

		cfg, err := config.Load()
		if err != nil {
			logger.GlobalLogger.Error("Invalid configuration", "err", err)
			return
		}
		if err := cfg.RequireAPIKey(); err != nil {
			logger.GlobalLogger.Error("Missing credentials", "err", err)
			return
		}

		client := helius.NewClient(cfg, logger.DetectLogger)
		detector := detect.NewDetector(client, cfg, logger.DetectLogger)
		srv := server.New(detector, cfg, logger.ServerLogger)

		addr := fmt.Sprintf(":%d", servePort)
		logger.ServerLogger.Info("Running cmd serve, starting analysis server...", "addr", addr)

		if err := srv.ListenAndServe(cmd.Context(), addr); err != nil {
			logger.ServerLogger.Error("Error running analysis server", "err", err)
		}
	},
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 5000, "port to listen on")
	RootCmd.AddCommand(&serveCmd)
}
