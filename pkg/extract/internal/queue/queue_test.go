package queue

import "testing"

func TestUnique(t *testing.T) {
	q := New[string]()
	q.Push("a")
	q.Push("b")
	q.Push("a")

	if q.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", q.Len())
	}

	v, ok := q.Pop()
	if !ok || v != "a" {
		t.Errorf("Pop() = %q, %v, want a, true", v, ok)
	}

	// a may be queued again once popped
	q.Push("a")
	if q.Len() != 2 {
		t.Errorf("Len() = %d, want 2", q.Len())
	}

	var got []string
	for {
		v, ok := q.Pop()
		if !ok {
			break
		}
		got = append(got, v)
	}
	if len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Errorf("drained = %v, want [b a]", got)
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop() on empty queue should report false")
	}
}
