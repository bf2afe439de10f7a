// Package tui provides a full-screen terminal chat interface driven by
// the same session protocol as the console loop.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/skarzhevskyy/taskchat/internal/chat"
)

// App is the TUI application: a scrollable transcript view above a
// single-line input field. Turns resolve strictly one at a time; input
// submitted while a turn is in flight is ignored.
type App struct {
	app     *tview.Application
	history *tview.TextView
	input   *tview.InputField
	footer  *tview.TextView

	session *chat.Session
	model   string
	busy    bool
}

// NewApp creates a TUI application over the given chat session. model
// is only used for display.
func NewApp(session *chat.Session, model string) *App {
	a := &App{
		app:     tview.NewApplication(),
		session: session,
		model:   model,
	}

	// -- Transcript --
	a.history = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(true).
		SetChangedFunc(func() {
			a.history.ScrollToEnd()
		})
	a.history.SetBorder(true).
		SetTitle(fmt.Sprintf(" %s ", model)).
		SetBorderColor(tcell.ColorDodgerBlue)

	// -- Input --
	a.input = tview.NewInputField().
		SetLabel(" You: ").
		SetLabelColor(tcell.ColorGreen).
		SetFieldBackgroundColor(tcell.ColorBlack)
	a.input.SetDoneFunc(func(key tcell.Key) {
		if key == tcell.KeyEnter {
			a.submit(a.input.GetText())
		}
	})

	// -- Footer --
	a.footer = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	a.footer.SetBackgroundColor(tcell.ColorDarkBlue)
	a.setFooter("Enter to send | type 'quit' or press Esc to leave")

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(a.history, 0, 1, false).
		AddItem(a.input, 1, 0, true).
		AddItem(a.footer, 1, 0, false)

	a.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			a.app.Stop()
			return nil
		}
		return event
	})

	a.app.SetRoot(layout, true).SetFocus(a.input)

	return a
}

// Run starts the TUI event loop.
func (a *App) Run() error {
	fmt.Fprintf(a.history, "[gray]Chatting with %s. The model can manage tasks for you.[-]\n", tview.Escape(a.model))
	return a.app.Run()
}

// submit resolves one user turn. Called from the UI goroutine.
func (a *App) submit(text string) {
	input := strings.TrimSpace(text)
	if chat.IsExitCommand(input) {
		a.app.Stop()
		return
	}
	if input == "" {
		a.setFooter("Please enter a message or type 'quit' to leave")
		return
	}
	if a.busy {
		return
	}

	a.busy = true
	a.input.SetText("")
	a.setFooter("Waiting for the model...")
	fmt.Fprintf(a.history, "\n[green::b]You:[-:-:-] %s\n", tview.Escape(input))

	go func() {
		result, err := a.session.Send(context.Background(), input)

		a.app.QueueUpdateDraw(func() {
			a.busy = false
			a.setFooter("Enter to send | type 'quit' or press Esc to leave")

			if err != nil {
				fmt.Fprintf(a.history, "[red]Error during chat: %v[-]\n", err)
				return
			}
			for _, inv := range result.Invocations {
				fmt.Fprintf(a.history, "[yellow]  [tool] %s(%s) -> %s[-]\n",
					inv.Name, chat.FormatArgs(inv.Args), tview.Escape(inv.Result))
			}
			fmt.Fprintf(a.history, "[aqua::b]Assistant:[-:-:-] %s\n", tview.Escape(result.Reply))
		})
	}()
}

func (a *App) setFooter(text string) {
	a.footer.SetText(fmt.Sprintf(" [white]%s[-]", text))
}
