// Package cli wires the taskchat commands: the interactive chat loop,
// the bootstrap probe, config initialisation, and the terminal UI.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/skarzhevskyy/taskchat/internal/config"
)

var configPath string

// NewRootCmd creates the top-level taskchat CLI command with all
// subcommands.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taskchat",
		Short: "Chat with a local Ollama model that can manage your tasks",
		Long: `Taskchat is an interactive chat client for a locally hosted Ollama
server. The model can call task-management tools mid-conversation:
add tasks, list them, mark them done, and check whether they exist.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: ~/.taskchat/config.yaml)")

	cmd.AddCommand(
		newChatCmd(),
		newProbeCmd(),
		newInitCmd(),
		newUICmd(),
	)

	return cmd
}

// loadConfig resolves the effective configuration and applies the
// shared flag overrides when they were set explicitly.
func loadConfig(cmd *cobra.Command, baseURL, model string) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("base-url") {
		cfg.Ollama.BaseURL = baseURL
	}
	if cmd.Flags().Changed("model") {
		cfg.Ollama.Model = model
	}
	return cfg, nil
}
