package store

import (
	"errors"
	"testing"
	"time"
)

type rec struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := NewMemory()

	in := []rec{{ID: "1", Name: "first"}, {ID: "2", Name: "second"}}
	if err := s.Save("things", in); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	var out []rec
	if err := s.Load("things", &out); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(out) != 2 || out[0].Name != "first" || out[1].ID != "2" {
		t.Errorf("round trip mismatch: %+v", out)
	}
}

func TestLoadMissingCollectionStaysEmpty(t *testing.T) {
	s := NewMemory()

	var out []rec
	if err := s.Load("never_written", &out); err != nil {
		t.Fatalf("missing collection should not error: %v", err)
	}
	if out != nil {
		t.Errorf("expected untouched nil slice, got %+v", out)
	}
}

func TestLoadCorruptCollection(t *testing.T) {
	b := NewMemoryBackend()
	s := New(b)
	if err := b.Write("things", []byte("{not json")); err != nil {
		t.Fatalf("seed corrupt content: %v", err)
	}

	var out []rec
	err := s.Load("things", &out)
	if err == nil {
		t.Fatal("expected error for corrupt content")
	}
	if !errors.Is(err, ErrCorrupt) {
		t.Errorf("expected ErrCorrupt, got %v", err)
	}
}

func TestLoadKeyedCollection(t *testing.T) {
	s := NewMemory()
	if err := s.Save("users", map[string]rec{"alice": {Name: "Alice"}}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out := map[string]rec{}
	if err := s.Load("users", &out); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if out["alice"].Name != "Alice" {
		t.Errorf("keyed load mismatch: %+v", out)
	}
}

func TestNextIDStrictlyIncreasing(t *testing.T) {
	s := NewMemory()
	// Freeze the clock so every id lands in the same second.
	s.SetClock(func() time.Time {
		return time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	})

	first := s.NextID()
	if first != "20260315103000" {
		t.Errorf("expected timestamp id, got %s", first)
	}
	prev := first
	for i := 0; i < 5; i++ {
		next := s.NextID()
		if next <= prev {
			t.Fatalf("id %s not lexically greater than %s", next, prev)
		}
		if len(next) != len(prev) {
			t.Fatalf("id length changed: %s vs %s", next, prev)
		}
		prev = next
	}
}

func TestNextIDAdvancesWithClock(t *testing.T) {
	s := NewMemory()
	now := time.Date(2026, 3, 15, 10, 30, 0, 0, time.UTC)
	s.SetClock(func() time.Time { return now })

	first := s.NextID()
	now = now.Add(2 * time.Second)
	second := s.NextID()
	if second != "20260315103002" {
		t.Errorf("expected clock-derived id, got %s", second)
	}
	if second <= first {
		t.Errorf("clock advance produced non-increasing id: %s then %s", first, second)
	}
}

func TestNextFineIDIncludesMicroseconds(t *testing.T) {
	s := NewMemory()
	s.SetClock(func() time.Time {
		return time.Date(2026, 3, 15, 10, 30, 0, 123456789, time.UTC)
	})
	id := s.NextFineID()
	if id != "20260315103000123456" {
		t.Errorf("expected microsecond suffix, got %s", id)
	}
}

func TestTimestampLayout(t *testing.T) {
	s := NewMemory()
	s.SetClock(func() time.Time {
		return time.Date(2026, 3, 15, 10, 30, 45, 0, time.UTC)
	})
	if got := s.Timestamp(); got != "2026-03-15 10:30:45" {
		t.Errorf("unexpected timestamp format: %s", got)
	}
}

func TestLockSerializesMutations(t *testing.T) {
	s := NewMemory()
	done := make(chan struct{})

	unlock := s.Lock("things")
	go func() {
		u := s.Lock("things")
		u()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("second Lock acquired while first still held")
	case <-time.After(50 * time.Millisecond):
	}
	unlock()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("second Lock never acquired after unlock")
	}
}
