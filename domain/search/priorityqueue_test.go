package search

import (
	"errors"
	"testing"
)

func TestQueuePopsMinimumScore(t *testing.T) {
	t.Parallel()

	scores := map[string]float64{"a": 3, "b": 1, "c": 2}
	q := NewQueue(func(s string) float64 { return scores[s] })

	for _, item := range []string{"a", "b", "c"} {
		if err := q.Push(item); err != nil {
			t.Fatalf("Push(%s) error = %v", item, err)
		}
	}

	want := []string{"b", "c", "a"}
	for _, expected := range want {
		got, ok := q.Pop()
		if !ok || got != expected {
			t.Errorf("Pop() = %v, %v, want %v", got, ok, expected)
		}
	}
	if _, ok := q.Pop(); ok {
		t.Error("Pop() on an empty queue should report false")
	}
}

func TestQueueEqualScoresPopNewestFirst(t *testing.T) {
	t.Parallel()

	q := NewQueue(func(string) float64 { return 1 })
	for _, item := range []string{"first", "second", "third"} {
		if err := q.Push(item); err != nil {
			t.Fatalf("Push(%s) error = %v", item, err)
		}
	}

	want := []string{"third", "second", "first"}
	for _, expected := range want {
		if got, _ := q.Pop(); got != expected {
			t.Errorf("Pop() = %v, want %v", got, expected)
		}
	}
}

func TestQueueDuplicatePush(t *testing.T) {
	t.Parallel()

	q := NewQueue(func(string) float64 { return 1 })
	if err := q.Push("a"); err != nil {
		t.Fatalf("Push(a) error = %v", err)
	}
	if err := q.Push("a"); !errors.Is(err, ErrDuplicateItem) {
		t.Errorf("second Push(a) error = %v, want ErrDuplicateItem", err)
	}
}

func TestQueueRemove(t *testing.T) {
	t.Parallel()

	q := NewQueue(func(s string) float64 {
		return map[string]float64{"a": 1, "b": 2}[s]
	})
	_ = q.Push("a")
	_ = q.Push("b")

	if !q.Remove("a") {
		t.Error("Remove(a) should report true for a live item")
	}
	if q.Remove("a") {
		t.Error("Remove(a) should report false once removed")
	}
	if q.Contains("a") {
		t.Error("Contains(a) should be false after Remove")
	}
	if q.Len() != 1 {
		t.Errorf("Len() = %d, want 1", q.Len())
	}

	// The tombstoned entry must be skipped.
	if got, _ := q.Pop(); got != "b" {
		t.Errorf("Pop() = %v, want b", got)
	}
}

func TestQueueScoreFrozenAtInsertion(t *testing.T) {
	t.Parallel()

	score := map[string]float64{"a": 5, "b": 1}
	q := NewQueue(func(s string) float64 { return score[s] })
	_ = q.Push("a")
	_ = q.Push("b")

	// Changing the backing score after insertion must not reorder.
	score["a"] = 0

	if got, _ := q.Pop(); got != "b" {
		t.Errorf("Pop() = %v, want b (scores frozen at Push)", got)
	}
}

func TestQueueReinsertAfterRemove(t *testing.T) {
	t.Parallel()

	score := map[string]float64{"a": 5, "b": 3}
	q := NewQueue(func(s string) float64 { return score[s] })
	_ = q.Push("a")
	_ = q.Push("b")

	// Refresh a's score below b's.
	score["a"] = 1
	q.Remove("a")
	if err := q.Push("a"); err != nil {
		t.Fatalf("re-Push(a) error = %v", err)
	}

	if got, _ := q.Pop(); got != "a" {
		t.Errorf("Pop() = %v, want a under its refreshed score", got)
	}
}
