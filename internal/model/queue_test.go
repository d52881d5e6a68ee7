package model

import (
	"errors"
	"testing"
)

func TestQueue(t *testing.T) {
	q := NewQueue()

	if _, _, err := q.GetNextPair(); !errors.Is(err, ErrQueueShort) {
		t.Fatalf("empty queue: err = %v", err)
	}

	for _, id := range []string{"a", "b", "c"} {
		if err := q.AddPlayer(Player{ID: id}); err != nil {
			t.Fatalf("add %s: %v", id, err)
		}
	}
	if err := q.AddPlayer(Player{ID: "b"}); !errors.Is(err, ErrAlreadyQueue) {
		t.Errorf("duplicate: err = %v", err)
	}
	if q.Size() != 3 {
		t.Fatalf("size = %d, want 3", q.Size())
	}

	p1, p2, err := q.GetNextPair()
	if err != nil {
		t.Fatalf("pair: %v", err)
	}
	if p1.ID != "a" || p2.ID != "b" {
		t.Errorf("pair = %s, %s; want a, b", p1.ID, p2.ID)
	}
	if q.Size() != 1 {
		t.Errorf("size = %d, want 1", q.Size())
	}

	if _, _, err := q.GetNextPair(); !errors.Is(err, ErrQueueShort) {
		t.Errorf("single player: err = %v", err)
	}
	if !q.Remove("c") || q.Remove("c") {
		t.Errorf("remove should succeed once")
	}
	if q.Size() != 0 {
		t.Errorf("size = %d, want 0", q.Size())
	}
}
