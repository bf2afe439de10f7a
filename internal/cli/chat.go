package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/skarzhevskyy/taskchat/internal/chat"
	"github.com/skarzhevskyy/taskchat/internal/config"
	"github.com/skarzhevskyy/taskchat/internal/store"
	"github.com/skarzhevskyy/taskchat/internal/tools"
)

func newChatCmd() *cobra.Command {
	var (
		baseURL   string
		model     string
		skipProbe bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the configured model.

Before entering the loop a one-shot probe checks connectivity and
whether the model supports tool calling. On probe failure you are
asked whether to continue anyway; declining exits with status 1.`,
		Example: `  taskchat chat
  taskchat chat --model llama3.2
  taskchat chat --base-url http://192.168.1.10:11434 --skip-probe`,
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

			banner := color.New(color.FgCyan, color.Bold)
			banner.Println("Taskchat")
			fmt.Printf("   Server: %s\n", cfg.Ollama.BaseURL)
			fmt.Printf("   Model:  %s\n", cfg.Ollama.Model)
			fmt.Println()

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if !skipProbe {
				result := chat.RunProbe(ctx, client, cfg.Ollama.ProbeMaxTokens, logger)
				printProbeReport(os.Stdout, result, cfg)

				if !result.Passed() {
					fmt.Println()
					color.New(color.FgYellow).Println("Connection test failed. The chat may not work properly.")
					ok, err := confirm(os.Stdin, os.Stdout, "Do you want to continue anyway? (y/n): ")
					if err != nil {
						return err
					}
					if !ok {
						return fmt.Errorf("aborted after failed probe")
					}
				}
			}

			taskStore := store.NewMemoryStore()
			registry, err := tools.NewRegistry(taskStore, logger)
			if err != nil {
				return err
			}

			session := chat.NewSession(client, registry, cfg.Ollama.MaxTokens, logger)
			loop := chat.NewLoop(session, cfg.Ollama.Model, os.Stdin, os.Stdout, logger)
			return loop.Run(ctx)
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "Ollama server base URL")
	cmd.Flags().StringVar(&model, "model", "", "Model identifier")
	cmd.Flags().BoolVar(&skipProbe, "skip-probe", false, "Skip the bootstrap connectivity probe")

	return cmd
}

// printProbeReport renders the advisory probe outcome, including the
// troubleshooting hints on failure.
func printProbeReport(out io.Writer, result *chat.ProbeResult, cfg *config.Config) {
	ok := color.New(color.FgGreen)
	fail := color.New(color.FgRed)

	if result.Connected {
		ok.Fprintln(out, "Connection to Ollama server successful!")
		if result.Reply != "" {
			fmt.Fprintf(out, "   Test response: %s\n", strings.TrimSpace(result.Reply))
		}
	} else {
		fail.Fprintf(out, "Failed to connect to Ollama server: %v\n", result.Err)
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Troubleshooting:")
		fmt.Fprintf(out, "  1. Ensure the Ollama server is running at %s\n", cfg.Ollama.BaseURL)
		fmt.Fprintf(out, "  2. Verify that the %q model is available\n", cfg.Ollama.Model)
		fmt.Fprintln(out, "  3. Check network connectivity")
		fmt.Fprintf(out, "  4. Set the %s environment variable if using a custom URL\n", config.EnvBaseURL)
		return
	}

	switch {
	case result.ToolCalling:
		ok.Fprintln(out, "Model supports tool calling.")
	case result.Err != nil:
		fail.Fprintf(out, "Tool-calling check failed: %v\n", result.Err)
	default:
		fail.Fprintln(out, "Model made no tool calls - it may not support tool calling.")
	}
}

// confirm asks a yes/no question and reads one line of input.
func confirm(in io.Reader, out io.Writer, prompt string) (bool, error) {
	fmt.Fprint(out, prompt)

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}
