package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skarzhevskyy/taskchat/internal/chat"
	"github.com/skarzhevskyy/taskchat/internal/store"
	"github.com/skarzhevskyy/taskchat/internal/tools"
	"github.com/skarzhevskyy/taskchat/internal/tui"
)

func newUICmd() *cobra.Command {
	var (
		baseURL string
		model   string
	)

	cmd := &cobra.Command{
		Use:     "ui",
		Short:   "Launch the full-screen chat interface",
		Long:    "Launch a full-screen terminal UI for chatting, with tool invocations rendered inline.",
		Example: `  taskchat ui
  taskchat ui --model llama3.2`,
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

			client := newClient(cfg, logger)

			taskStore := store.NewMemoryStore()
			registry, err := tools.NewRegistry(taskStore, logger)
			if err != nil {
				return err
			}

			session := chat.NewSession(client, registry, cfg.Ollama.MaxTokens, logger)
			app := tui.NewApp(session, cfg.Ollama.Model)
			if err := app.Run(); err != nil {
				return fmt.Errorf("UI error: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "Ollama server base URL")
	cmd.Flags().StringVar(&model, "model", "", "Model identifier")

	return cmd
}
