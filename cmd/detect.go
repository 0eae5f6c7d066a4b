package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"sandwatch/config"
	"sandwatch/detect"
	"sandwatch/helius"
	"sandwatch/logger"
	"sandwatch/types"
)

var (
	detectToken string
	detectLimit int
)

var detectCmd = cobra.Command{
	Use:   "detect",
	Short: "Run a one-shot sandwich detection for a token",
	Run: func(cmd *cobra.Command, args []string) {
		logger.InitLogs("detect")

		cfg, err := config.Load()
		if err != nil {
			logger.GlobalLogger.Error("Invalid configuration", "err", err)
			return
		}
		if err := cfg.RequireAPIKey(); err != nil {
			logger.GlobalLogger.Error("Missing credentials", "err", err)
			return
		}

		limit := detectLimit
		if limit == 0 {
			limit = cfg.DefaultLookbackLimit
		}

		logger.DetectLogger.Info("Running cmd detect, starting sandwich detection...", "token", detectToken, "limit", limit)

		client := helius.NewClient(cfg, logger.DetectLogger)
		detector := detect.NewDetector(client, cfg, logger.DetectLogger)

		res, err := detector.Detect(cmd.Context(), detectToken, limit)
		if err != nil {
			logger.DetectLogger.Error("Detection failed", "err", err)
			return
		}

		logger.DetectLogger.Info("Detection finished",
			"token", res.TokenAddress,
			"total", res.Stats.TotalTransactions,
			"dex", res.Stats.DexTransactions,
			"findings", res.Stats.PotentialAttacks)

		if len(res.Findings) == 0 {
			fmt.Println("No potential sandwich attacks detected in the analyzed transactions.")
			return
		}
		fmt.Printf("Found %d potential sandwich attacks:\n", len(res.Findings))
		for i, f := range res.Findings {
			types.PPFinding(i+1, &f)
		}
	},
}

func init() {
	detectCmd.Flags().StringVarP(&detectToken, "token", "t", "", "target token mint address (required)")
	detectCmd.Flags().IntVarP(&detectLimit, "limit", "l", 0, "lookback limit (defaults to the configured value)")
	_ = detectCmd.MarkFlagRequired("token")
	RootCmd.AddCommand(&detectCmd)
}
