package store

import "sync"

// MemoryStore is a thread-safe, in-memory Store backed by a simple map.
// The chat loop is single-threaded, but the guard keeps the store safe
// if a future caller runs sessions concurrently.
type MemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]*Task
	order []string // insertion order of task names
}

// NewMemoryStore creates a ready-to-use in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tasks: make(map[string]*Task),
	}
}

func (m *MemoryStore) Add(name, description string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.tasks[name]; !exists {
		m.order = append(m.order, name)
	}
	m.tasks[name] = &Task{
		Name:        name,
		Description: description,
		Completed:   false,
	}
}

func (m *MemoryStore) List() []Task {
	m.mu.RLock()
	defer m.mu.RUnlock()

	results := make([]Task, 0, len(m.order))
	for _, name := range m.order {
		results = append(results, *m.tasks[name])
	}
	return results
}

func (m *MemoryStore) MarkDone(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	task, ok := m.tasks[name]
	if !ok {
		return false
	}
	task.Completed = true
	return true
}

func (m *MemoryStore) Has(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.tasks[name]
	return ok
}
