package thumbs

import (
	"testing"
	"time"
)

func TestLimiterWindow(t *testing.T) {
	l := NewLimiter(10 * time.Second)
	now := time.Unix(1000, 0)
	l.now = func() time.Time { return now }

	if !l.Allow("note.md", "a.png") {
		t.Fatal("first request should pass")
	}
	if l.Allow("note.md", "a.png") {
		t.Error("request inside the window should be blocked")
	}
	// A different key on the same note is independent.
	if !l.Allow("note.md", "b.png") {
		t.Error("different key should pass")
	}
	if !l.Allow("other.md", "a.png") {
		t.Error("different path should pass")
	}

	now = now.Add(9 * time.Second)
	if l.Allow("note.md", "a.png") {
		t.Error("still inside the window")
	}
	now = now.Add(2 * time.Second)
	if !l.Allow("note.md", "a.png") {
		t.Error("request after the window should pass")
	}
}

func TestLimiterForget(t *testing.T) {
	l := NewLimiter(10 * time.Second)
	now := time.Unix(1000, 0)
	l.now = func() time.Time { return now }

	l.Allow("note.md", "a.png")
	l.Allow("note.md", "b.png")
	l.Allow("keep.md", "a.png")
	l.Forget("note.md")

	if !l.Allow("note.md", "a.png") {
		t.Error("forgotten path should pass immediately")
	}
	if l.Allow("keep.md", "a.png") {
		t.Error("other paths keep their window")
	}
}
