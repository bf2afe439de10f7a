// Package store provides the task store backing the chat session's
// tool registry. Tasks live for one session only and are never
// persisted.
package store

// Task is one task entry. Name is the unique key; re-adding an existing
// name overwrites the entry (last-write-wins). Tasks are never deleted.
type Task struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// Store is the task persistence interface consumed by the tool registry.
type Store interface {
	// Add upserts a task under its name with Completed reset to false.
	Add(name, description string)

	// List returns all tasks in insertion order. Upserting an existing
	// name keeps its original position.
	List() []Task

	// MarkDone sets Completed on the named task. Returns false if the
	// task does not exist; an absent name is never created.
	MarkDone(name string) bool

	// Has reports whether a task exists under the given name.
	Has(name string) bool
}
