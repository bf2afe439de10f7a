package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/skarzhevskyy/taskchat/internal/chat"
)

func newProbeCmd() *cobra.Command {
	var (
		baseURL string
		model   string
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Check connectivity and tool-calling support",
		Long: `Run the bootstrap probe once and report the outcome: a trivial
completion to verify the server is reachable, then a minimal
tool-calling round to verify the model can invoke functions.`,
		Example: `  taskchat probe
  taskchat probe --model llama3.2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, baseURL, model)
			if err != nil {
				return err
			}

			logger, err := buildLogger(cfg)
			if err != nil {
				return err
			}
			defer logger.Sync()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			client := newClient(cfg, logger)
			result := chat.RunProbe(ctx, client, cfg.Ollama.ProbeMaxTokens, logger)
			printProbeReport(os.Stdout, result, cfg)

			if !result.Passed() {
				return fmt.Errorf("probe failed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "Ollama server base URL")
	cmd.Flags().StringVar(&model, "model", "", "Model identifier")

	return cmd
}
