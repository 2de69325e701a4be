package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"chatpulse/internal/config"
	"chatpulse/internal/logging"
	"chatpulse/internal/metrics"
	"chatpulse/internal/theme"
)

var (
	cfgPath string
	cfg     config.Config
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "chatpulse",
		Short:         "Conversation statistics for exported chat logs",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// a missing .env is fine
			_ = godotenv.Load()
			var err error
			if cfg, err = config.LoadOrDefault(cfgPath); err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			logging.Init(cfg.Logging.Level, cfg.Logging.Pretty)
			metrics.StartServer(cfg.Server.MetricsAddr)
			return nil
		},
		Run: func(cmd *cobra.Command, args []string) {
			theme.PrintBanner(cmd.OutOrStdout())
			_ = cmd.Help()
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "./chatpulse.yaml", "config path")
	root.AddCommand(initCmd(), importCmd(), analyzeCmd(), authorsCmd(), serveCmd())
	return root
}
