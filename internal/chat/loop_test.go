package chat

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/skarzhevskyy/taskchat/pkg/ollama"
)

func runLoop(t *testing.T, f *fakeCompleter, input string) (*Session, string) {
	t.Helper()
	session, _ := newTestSession(t, f)
	var out bytes.Buffer

	loop := NewLoop(session, "gemma3:12b", strings.NewReader(input), &out, nil)
	if err := loop.Run(context.Background()); err != nil {
		t.Fatalf("unexpected loop error: %v", err)
	}
	return session, out.String()
}

func TestIsExitCommand(t *testing.T) {
	for _, input := range []string{"quit", "exit", "bye", "q", "QUIT", "Bye", "  q  "} {
		if !IsExitCommand(input) {
			t.Errorf("expected %q to be an exit command", input)
		}
	}
	for _, input := range []string{"", "quit now", "hello"} {
		if IsExitCommand(input) {
			t.Errorf("expected %q not to be an exit command", input)
		}
	}
}

func TestLoopQuitFirst(t *testing.T) {
	f := &fakeCompleter{}
	session, out := runLoop(t, f, "quit\n")

	if len(f.calls) != 0 {
		t.Errorf("expected no completion calls, got %d", len(f.calls))
	}
	if len(session.Transcript()) != 0 {
		t.Errorf("expected empty transcript, got %d entries", len(session.Transcript()))
	}
	if !strings.Contains(out, "Goodbye!") {
		t.Errorf("expected goodbye message, got %q", out)
	}
}

func TestLoopEmptyInputReprompts(t *testing.T) {
	f := &fakeCompleter{}
	session, out := runLoop(t, f, "\n   \nquit\n")

	if len(f.calls) != 0 {
		t.Errorf("empty input must not trigger a completion call, got %d", len(f.calls))
	}
	if len(session.Transcript()) != 0 {
		t.Errorf("empty input must not mutate the transcript")
	}
	if !strings.Contains(out, "Please enter a message or type 'quit' to exit.") {
		t.Errorf("expected retry prompt, got %q", out)
	}
}

func TestLoopTurnAndExit(t *testing.T) {
	f := &fakeCompleter{turns: []*ollama.Turn{textTurn("hello back")}}
	session, out := runLoop(t, f, "hello\nexit\n")

	if len(f.calls) != 1 {
		t.Fatalf("expected 1 completion call, got %d", len(f.calls))
	}
	if len(session.Transcript()) != 2 {
		t.Errorf("expected 2 transcript entries, got %d", len(session.Transcript()))
	}
	if !strings.Contains(out, "hello back") {
		t.Errorf("expected assistant reply in output, got %q", out)
	}
}

func TestLoopCompletionFailureContinues(t *testing.T) {
	f := &fakeCompleter{
		turns: []*ollama.Turn{nil, textTurn("second try worked")},
		errs:  []error{errors.New("connection refused")},
	}
	session, out := runLoop(t, f, "first\nsecond\nquit\n")

	if !strings.Contains(out, "Error during chat:") {
		t.Errorf("expected error banner, got %q", out)
	}
	if !strings.Contains(out, "second try worked") {
		t.Errorf("expected loop to keep accepting input after a failure, got %q", out)
	}
	// Only the successful turn reaches the transcript.
	if len(session.Transcript()) != 2 {
		t.Errorf("expected 2 transcript entries, got %d", len(session.Transcript()))
	}
}

func TestLoopAnnouncesToolInvocations(t *testing.T) {
	f := &fakeCompleter{turns: []*ollama.Turn{
		toolTurn(call("call_1", "add_task", `{"name":"shopping","description":"buy groceries"}`)),
		textTurn("done"),
	}}
	_, out := runLoop(t, f, "add a task\nquit\n")

	if !strings.Contains(out, "[tool] add_task(description=buy groceries, name=shopping)") {
		t.Errorf("expected tool announcement with arguments, got %q", out)
	}
	if !strings.Contains(out, "Task 'shopping' added successfully.") {
		t.Errorf("expected tool result in announcement, got %q", out)
	}
}

func TestLoopContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f := &fakeCompleter{}
	session, _ := newTestSession(t, f)
	var out bytes.Buffer

	// Input that would keep the loop running if cancellation were ignored.
	loop := NewLoop(session, "gemma3:12b", strings.NewReader("hello\n"), &out, nil)
	if err := loop.Run(ctx); err != nil {
		t.Fatalf("cancelled loop must terminate cleanly, got %v", err)
	}
	if !strings.Contains(out.String(), "Chat interrupted. Goodbye!") {
		t.Errorf("expected interruption notice, got %q", out.String())
	}
}
