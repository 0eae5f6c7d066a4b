package cmd

import (
	"github.com/spf13/cobra"
)

var RootCmd = &cobra.Command{
	Use:   "sandwatch",
	Short: "A tool for detecting sandwich attacks in recent token activity on Solana",
}
