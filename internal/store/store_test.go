package store

import "testing"

func TestAddAndHas(t *testing.T) {
	s := NewMemoryStore()

	s.Add("shopping", "buy groceries")

	if !s.Has("shopping") {
		t.Error("expected Has to report true after Add")
	}
	if s.Has("never-added") {
		t.Error("expected Has to report false for a never-added name")
	}
}

func TestAddOverwrites(t *testing.T) {
	s := NewMemoryStore()

	s.Add("shopping", "buy groceries")
	s.Add("shopping", "buy vegetables")

	tasks := s.List()
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task after duplicate Add, got %d", len(tasks))
	}
	if tasks[0].Description != "buy vegetables" {
		t.Errorf("expected latest description, got %q", tasks[0].Description)
	}
}

func TestAddResetsCompleted(t *testing.T) {
	s := NewMemoryStore()

	s.Add("chore", "mow the lawn")
	if !s.MarkDone("chore") {
		t.Fatal("expected MarkDone to succeed on existing task")
	}

	// Re-adding overwrites the whole entry, including completion.
	s.Add("chore", "mow the lawn again")

	tasks := s.List()
	if tasks[0].Completed {
		t.Error("expected overwritten task to be pending again")
	}
}

func TestMarkDoneAbsent(t *testing.T) {
	s := NewMemoryStore()

	if s.MarkDone("ghost") {
		t.Error("expected MarkDone to return false for an absent name")
	}
	if s.Has("ghost") {
		t.Error("MarkDone must not create the task")
	}
}

func TestListOrder(t *testing.T) {
	s := NewMemoryStore()

	s.Add("first", "a")
	s.Add("second", "b")
	s.Add("third", "c")
	// Upsert must keep the original position.
	s.Add("first", "a2")

	tasks := s.List()
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}

	want := []string{"first", "second", "third"}
	for i, name := range want {
		if tasks[i].Name != name {
			t.Errorf("position %d: expected %s, got %s", i, name, tasks[i].Name)
		}
	}
	if tasks[0].Description != "a2" {
		t.Errorf("expected upserted description, got %q", tasks[0].Description)
	}
}

func TestListEmpty(t *testing.T) {
	s := NewMemoryStore()

	if got := s.List(); len(got) != 0 {
		t.Errorf("expected empty list, got %d entries", len(got))
	}
}
