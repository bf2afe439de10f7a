package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skarzhevskyy/taskchat/internal/config"
)

const configTemplate = `# Taskchat configuration.
# The OLLAMA_BASE_URL environment variable overrides ollama.baseUrl.
ollama:
  baseUrl: http://localhost:11434
  model: %s
  maxTokens: 500
  probeMaxTokens: 50
  temperature: 0.7
  timeoutSeconds: 60
log:
  level: info
  format: console
`

func newInitCmd() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file template",
		Long: `Create a configuration file template you can customize.

By default the file is written to ~/.taskchat/config.yaml, where
all commands pick it up automatically.`,
		Example: `  taskchat init
  taskchat init -o ./config.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := outputFile
			if path == "" {
				path = config.DefaultConfigPath()
			}

			// Check if the file already exists.
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("file %s already exists. Use a different path with -o", path)
			}

			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return fmt.Errorf("creating config directory: %w", err)
			}

			content := fmt.Sprintf(configTemplate, config.DefaultModel)
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return fmt.Errorf("writing config file: %w", err)
			}

			bold := color.New(color.FgCyan, color.Bold)
			bold.Println("Taskchat configuration initialized!")
			fmt.Println()
			fmt.Printf("  Config: %s\n", path)
			fmt.Println()

			color.New(color.Bold).Println("Next steps:")
			fmt.Println("  1. Review and customize the configuration:")
			fmt.Printf("     vi %s\n", path)
			fmt.Println()
			fmt.Println("  2. Check the server and model:")
			fmt.Println("     taskchat probe")
			fmt.Println()
			fmt.Println("  3. Start chatting:")
			fmt.Println("     taskchat chat")

			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "output-file", "o", "", "Output path (default: ~/.taskchat/config.yaml)")

	return cmd
}
