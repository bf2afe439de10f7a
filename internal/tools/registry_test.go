package tools

import (
	"strings"
	"testing"

	"github.com/skarzhevskyy/taskchat/internal/store"
)

func newTestRegistry(t *testing.T) (*Registry, *store.MemoryStore) {
	t.Helper()
	s := store.NewMemoryStore()
	r, err := NewRegistry(s, nil)
	if err != nil {
		t.Fatalf("unexpected error creating registry: %v", err)
	}
	return r, s
}

func TestDefinitionsMatchHandlers(t *testing.T) {
	r, _ := newTestRegistry(t)

	defs := r.Definitions()
	if len(defs) != 4 {
		t.Fatalf("expected 4 tool definitions, got %d", len(defs))
	}

	want := []string{"add_task", "list_tasks", "mark_task_done", "has_task"}
	for i, name := range want {
		if defs[i].Function.Name != name {
			t.Errorf("definition %d: expected %s, got %s", i, name, defs[i].Function.Name)
		}
		if defs[i].Type != "function" {
			t.Errorf("definition %s: expected type function, got %s", name, defs[i].Type)
		}
	}
}

func TestExecuteAddTask(t *testing.T) {
	r, s := newTestRegistry(t)

	result := r.Execute("add_task", map[string]any{
		"name":        "shopping",
		"description": "buy groceries",
	})

	if !strings.Contains(result, "shopping") || !strings.Contains(result, "buy groceries") {
		t.Errorf("expected confirmation echoing name and description, got %q", result)
	}
	if !s.Has("shopping") {
		t.Error("expected task to exist in the store after add_task")
	}
}

func TestExecuteListTasks(t *testing.T) {
	r, s := newTestRegistry(t)

	if got := r.Execute("list_tasks", map[string]any{}); got != "No tasks found." {
		t.Errorf("expected empty-store message, got %q", got)
	}

	s.Add("a", "first")
	s.Add("b", "second")
	s.MarkDone("a")

	got := r.Execute("list_tasks", map[string]any{})
	if !strings.HasPrefix(got, "Current tasks:") {
		t.Errorf("expected listing header, got %q", got)
	}
	if !strings.Contains(got, "- a: first (✅ Done)") {
		t.Errorf("expected done marker for task a, got %q", got)
	}
	if !strings.Contains(got, "- b: second (⏳ Pending)") {
		t.Errorf("expected pending marker for task b, got %q", got)
	}
}

func TestExecuteMarkTaskDone(t *testing.T) {
	r, s := newTestRegistry(t)

	got := r.Execute("mark_task_done", map[string]any{"name": "ghost"})
	if got != "Task 'ghost' not found." {
		t.Errorf("expected not-found message, got %q", got)
	}
	if s.Has("ghost") {
		t.Error("mark_task_done must not create the task")
	}

	s.Add("chore", "mow the lawn")
	got = r.Execute("mark_task_done", map[string]any{"name": "chore"})
	if got != "Task 'chore' marked as completed." {
		t.Errorf("expected confirmation, got %q", got)
	}

	listing := r.Execute("list_tasks", map[string]any{})
	if !strings.Contains(listing, "✅ Done") {
		t.Errorf("expected listing to show done marker, got %q", listing)
	}
}

func TestExecuteHasTaskStringifiesBool(t *testing.T) {
	r, s := newTestRegistry(t)

	if got := r.Execute("has_task", map[string]any{"name": "shopping"}); got != "false" {
		t.Errorf("expected \"false\", got %q", got)
	}

	s.Add("shopping", "buy groceries")
	if got := r.Execute("has_task", map[string]any{"name": "shopping"}); got != "true" {
		t.Errorf("expected \"true\", got %q", got)
	}
}

func TestExecuteUnknownTool(t *testing.T) {
	r, _ := newTestRegistry(t)

	got := r.Execute("delete_everything", map[string]any{})
	if got != "Unknown tool: delete_everything" {
		t.Errorf("expected unknown-tool message, got %q", got)
	}
}

func TestExecuteMalformedArguments(t *testing.T) {
	r, _ := newTestRegistry(t)

	cases := []struct {
		name string
		tool string
		args map[string]any
	}{
		{"missing name", "add_task", map[string]any{"description": "no name"}},
		{"missing description", "add_task", map[string]any{"name": "x"}},
		{"wrong type", "has_task", map[string]any{"name": 42}},
		{"nil args", "mark_task_done", nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := r.Execute(tc.tool, tc.args)
			if !strings.HasPrefix(got, "Error executing "+tc.tool+":") {
				t.Errorf("expected dispatch-level error string, got %q", got)
			}
		})
	}
}
