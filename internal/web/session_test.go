package web

import (
	"testing"
	"time"
)

// fakeClock is a settable time source.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

// TestSessionStoreEvictsIdleSessions checks TTL handling on read and sweep.
func TestSessionStoreEvictsIdleSessions(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	store := NewSessionStore(time.Hour, clock.Now)

	store.Save("a", Session{Result: "# A"})
	store.Save("b", Session{Result: "# B"})

	clock.now = clock.now.Add(30 * time.Minute)
	if _, ok := store.Get("a"); !ok {
		t.Fatal("session a evicted too early")
	}

	clock.now = clock.now.Add(45 * time.Minute)
	if _, ok := store.Get("b"); ok {
		t.Fatal("session b should have expired")
	}
	if _, ok := store.Get("a"); !ok {
		t.Fatal("session a should survive after being read")
	}

	clock.now = clock.now.Add(2 * time.Hour)
	if n := store.Sweep(); n != 1 {
		t.Fatalf("swept = %d, want 1", n)
	}
	if store.Len() != 0 {
		t.Fatalf("len = %d, want 0", store.Len())
	}
}

// TestSessionStoreReturnsCopies checks callers cannot mutate stored flashes.
func TestSessionStoreReturnsCopies(t *testing.T) {
	store := NewSessionStore(time.Hour, nil)
	store.Save("a", Session{Flashes: []string{"one"}})

	sess, _ := store.Get("a")
	sess.Flashes[0] = "changed"

	again, _ := store.Get("a")
	if again.Flashes[0] != "one" {
		t.Fatalf("flash = %q, want one", again.Flashes[0])
	}
}

// TestSessionStoreOverwrite checks a new upload replaces the old result.
func TestSessionStoreOverwrite(t *testing.T) {
	store := NewSessionStore(0, nil)
	store.Save("a", Session{Result: "# Old", OriginalFilename: "old.mp3"})
	store.Save("a", Session{Result: "# New", OriginalFilename: "new.mp3"})

	sess, ok := store.Get("a")
	if !ok || sess.Result != "# New" || sess.OriginalFilename != "new.mp3" {
		t.Fatalf("session = %+v", sess)
	}
}
