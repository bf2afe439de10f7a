// Package tools implements the tool registry: the schema of callable
// functions advertised to the model and the dispatcher that executes
// requested invocations against the task store.
package tools

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/skarzhevskyy/taskchat/internal/store"
	"github.com/skarzhevskyy/taskchat/pkg/ollama"
)

// Handler executes one tool invocation. A returned error signals a
// malformed invocation (bad arguments, execution fault); Execute folds
// it into a textual result so dispatch never propagates errors.
type Handler func(args map[string]any) (string, error)

// Registry holds the fixed tool schema and the handler table that backs
// it. The two are validated against each other at construction, so an
// unknown name at call time can only come from the model.
type Registry struct {
	store    store.Store
	defs     []ollama.Tool
	handlers map[string]Handler
	logger   *zap.Logger
}

// NewRegistry creates a Registry over the given task store. It returns
// an error if the advertised schema and the handler table disagree.
func NewRegistry(s store.Store, logger *zap.Logger) (*Registry, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &Registry{
		store:  s,
		defs:   definitions(),
		logger: logger,
	}
	r.handlers = map[string]Handler{
		"add_task":       r.addTask,
		"list_tasks":     r.listTasks,
		"mark_task_done": r.markTaskDone,
		"has_task":       r.hasTask,
	}

	for _, def := range r.defs {
		if _, ok := r.handlers[def.Function.Name]; !ok {
			return nil, fmt.Errorf("tool %q advertised but has no handler", def.Function.Name)
		}
	}
	if len(r.handlers) != len(r.defs) {
		return nil, fmt.Errorf("handler table has %d entries, schema advertises %d", len(r.handlers), len(r.defs))
	}

	return r, nil
}

// Definitions returns the tool schema to attach to completion requests.
// The slice is ordered and identical on every call.
func (r *Registry) Definitions() []ollama.Tool {
	return r.defs
}

// Execute dispatches a function name and argument bag to the matching
// handler and returns its textual result. It never returns an error:
// unknown names and execution faults become normal result strings the
// model can react to.
func (r *Registry) Execute(name string, args map[string]any) string {
	handler, ok := r.handlers[name]
	if !ok {
		r.logger.Warn("model requested unregistered tool", zap.String("tool", name))
		return fmt.Sprintf("Unknown tool: %s", name)
	}

	result, err := handler(args)
	if err != nil {
		r.logger.Warn("tool execution failed",
			zap.String("tool", name),
			zap.Error(err),
		)
		return fmt.Sprintf("Error executing %s: %s", name, err)
	}
	return result
}

// ---------------------------------------------------------------------------
// Handlers
// ---------------------------------------------------------------------------

func (r *Registry) addTask(args map[string]any) (string, error) {
	name, err := stringArg(args, "name")
	if err != nil {
		return "", err
	}
	description, err := stringArg(args, "description")
	if err != nil {
		return "", err
	}

	r.logger.Debug("adding task", zap.String("task", name))
	r.store.Add(name, description)

	return fmt.Sprintf("Task '%s' added successfully. Task description is: %s", name, description), nil
}

func (r *Registry) listTasks(map[string]any) (string, error) {
	tasks := r.store.List()
	if len(tasks) == 0 {
		return "No tasks found.", nil
	}

	lines := make([]string, 0, len(tasks))
	for _, task := range tasks {
		status := "⏳ Pending"
		if task.Completed {
			status = "✅ Done"
		}
		lines = append(lines, fmt.Sprintf("- %s: %s (%s)", task.Name, task.Description, status))
	}
	return "Current tasks:\n" + strings.Join(lines, "\n"), nil
}

func (r *Registry) markTaskDone(args map[string]any) (string, error) {
	name, err := stringArg(args, "name")
	if err != nil {
		return "", err
	}

	if !r.store.MarkDone(name) {
		return fmt.Sprintf("Task '%s' not found.", name), nil
	}
	return fmt.Sprintf("Task '%s' marked as completed.", name), nil
}

func (r *Registry) hasTask(args map[string]any) (string, error) {
	name, err := stringArg(args, "name")
	if err != nil {
		return "", err
	}

	exists := r.store.Has(name)
	r.logger.Debug("checked task existence",
		zap.String("task", name),
		zap.Bool("exists", exists),
	)
	return strconv.FormatBool(exists), nil
}

// stringArg extracts a required string argument from the argument bag.
func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	value, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string, got %T", key, raw)
	}
	return value, nil
}

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

// definitions builds the advertised tool schema. Order matters: the
// schema is passed unchanged on every completion call.
func definitions() []ollama.Tool {
	return []ollama.Tool{
		{
			Type: "function",
			Function: ollama.ToolFunction{
				Name:        "add_task",
				Description: "Add a new task with a name and description",
				Parameters: ollama.Parameters{
					Type: "object",
					Properties: map[string]ollama.Property{
						"name": {
							Type:        "string",
							Description: "The name/identifier of the task",
						},
						"description": {
							Type:        "string",
							Description: "A description of what the task involves",
						},
					},
					Required: []string{"name", "description"},
				},
			},
		},
		{
			Type: "function",
			Function: ollama.ToolFunction{
				Name:        "list_tasks",
				Description: "List all current tasks",
				Parameters: ollama.Parameters{
					Type:       "object",
					Properties: map[string]ollama.Property{},
					Required:   []string{},
				},
			},
		},
		{
			Type: "function",
			Function: ollama.ToolFunction{
				Name:        "mark_task_done",
				Description: "Mark a task as completed",
				Parameters: ollama.Parameters{
					Type: "object",
					Properties: map[string]ollama.Property{
						"name": {
							Type:        "string",
							Description: "The name of the task to mark as done",
						},
					},
					Required: []string{"name"},
				},
			},
		},
		{
			Type: "function",
			Function: ollama.ToolFunction{
				Name:        "has_task",
				Description: "Check if a task exists",
				Parameters: ollama.Parameters{
					Type: "object",
					Properties: map[string]ollama.Property{
						"name": {
							Type:        "string",
							Description: "The name of the task to check",
						},
					},
					Required: []string{"name"},
				},
			},
		},
	}
}
