package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"go.uber.org/zap"
)

// exitCommands terminate the loop, matched case-insensitively.
var exitCommands = map[string]bool{
	"quit": true,
	"exit": true,
	"bye":  true,
	"q":    true,
}

// IsExitCommand reports whether the input asks to end the session.
func IsExitCommand(input string) bool {
	return exitCommands[strings.ToLower(strings.TrimSpace(input))]
}

// Loop is the interactive console shell around a Session. It reads one
// line of user input at a time and fully resolves each turn, including
// any tool-calling round, before reading the next.
type Loop struct {
	session *Session
	model   string
	in      io.Reader
	out     io.Writer
	logger  *zap.Logger
}

// NewLoop creates a console Loop for the given session. model is only
// used for display.
func NewLoop(session *Session, model string, in io.Reader, out io.Writer, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loop{
		session: session,
		model:   model,
		in:      in,
		out:     out,
		logger:  logger,
	}
}

// Run drives the loop until an exit command, end of input, or context
// cancellation. Completion failures are reported and the loop
// continues; they never terminate the session.
func (l *Loop) Run(ctx context.Context) error {
	header := color.New(color.FgCyan, color.Bold)
	header.Fprintf(l.out, "Starting chat with %s\n", l.model)
	fmt.Fprintln(l.out, "Type 'quit', 'exit', or 'bye' to end the conversation")
	fmt.Fprintln(l.out, strings.Repeat("-", 50))

	// Input is read on a separate goroutine so an interrupt is
	// observed immediately at the awaiting-input boundary.
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(l.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	prompt := color.New(color.FgGreen, color.Bold)

	for {
		// Interruption is observed here, at the awaiting-input boundary.
		if ctx.Err() != nil {
			fmt.Fprintln(l.out, "\nChat interrupted. Goodbye!")
			return nil
		}

		fmt.Fprintln(l.out)
		prompt.Fprint(l.out, "You: ")

		var input string
		select {
		case <-ctx.Done():
			fmt.Fprintln(l.out, "\nChat interrupted. Goodbye!")
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(l.out, "\nGoodbye!")
				return nil
			}
			input = strings.TrimSpace(line)
		}

		if IsExitCommand(input) {
			fmt.Fprintln(l.out, "Goodbye!")
			return nil
		}
		if input == "" {
			fmt.Fprintln(l.out, "Please enter a message or type 'quit' to exit.")
			continue
		}

		result, err := l.session.Send(ctx, input)
		if err != nil {
			if ctx.Err() != nil {
				fmt.Fprintln(l.out, "\nChat interrupted. Goodbye!")
				return nil
			}
			l.logger.Warn("turn failed", zap.Error(err))
			color.New(color.FgRed).Fprintf(l.out, "Error during chat: %v\n", err)
			fmt.Fprintln(l.out, "Continuing chat... (type 'quit' to exit)")
			continue
		}

		announce := color.New(color.FgYellow)
		for _, inv := range result.Invocations {
			announce.Fprintf(l.out, "  [tool] %s(%s) -> %s\n", inv.Name, FormatArgs(inv.Args), inv.Result)
		}

		color.New(color.FgCyan, color.Bold).Fprint(l.out, "Assistant: ")
		fmt.Fprintln(l.out, result.Reply)
	}
}

// FormatArgs renders an argument bag as "key=value, key=value" with
// stable key ordering, for tool invocation announcements.
func FormatArgs(args map[string]any) string {
	if len(args) == 0 {
		return ""
	}
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, args[k]))
	}
	return strings.Join(parts, ", ")
}
