package uicache

import (
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := New(time.Minute)
	c.Set("Safari", "submit button", 100, 200)

	x, y, ok := c.Get("Safari", "submit button")
	if !ok {
		t.Fatal("expected cache hit")
	}
	if x != 100 || y != 200 {
		t.Errorf("expected (100, 200), got (%d, %d)", x, y)
	}
}

func TestCache_CaseInsensitive(t *testing.T) {
	c := New(time.Minute)
	c.Set("Safari", "Submit Button", 100, 200)

	if _, _, ok := c.Get("safari", "SUBMIT BUTTON"); !ok {
		t.Error("expected hit regardless of case")
	}
}

func TestCache_Miss(t *testing.T) {
	c := New(time.Minute)
	if _, _, ok := c.Get("Safari", "submit button"); ok {
		t.Error("expected miss on empty cache")
	}
}

func TestCache_TTLExpiry(t *testing.T) {
	now := time.Now()
	c := New(time.Minute)
	c.now = func() time.Time { return now }

	c.Set("Safari", "submit button", 100, 200)

	now = now.Add(59 * time.Second)
	if _, _, ok := c.Get("Safari", "submit button"); !ok {
		t.Error("expected hit before TTL")
	}

	now = now.Add(2 * time.Second)
	if _, _, ok := c.Get("Safari", "submit button"); ok {
		t.Error("expected miss after TTL")
	}

	// The expired entry is deleted on lookup.
	if got := c.Stats().Entries; got != 0 {
		t.Errorf("expected 0 entries after expiry, got %d", got)
	}
}

func TestCache_Overwrite(t *testing.T) {
	c := New(time.Minute)
	c.Set("Safari", "submit button", 100, 200)
	c.Set("Safari", "submit button", 300, 400)

	x, y, _ := c.Get("Safari", "submit button")
	if x != 300 || y != 400 {
		t.Errorf("expected latest coordinate (300, 400), got (%d, %d)", x, y)
	}
}

func TestCache_InvalidateApp(t *testing.T) {
	c := New(time.Minute)
	c.Set("Safari", "submit button", 1, 1)
	c.Set("Safari", "back button", 2, 2)
	c.Set("Mail", "send button", 3, 3)

	if removed := c.InvalidateApp("safari"); removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if _, _, ok := c.Get("Safari", "submit button"); ok {
		t.Error("expected miss after app invalidation")
	}
	if _, _, ok := c.Get("Mail", "send button"); !ok {
		t.Error("other app's entry should survive")
	}
}

func TestCache_InvalidateAll(t *testing.T) {
	c := New(time.Minute)
	c.Set("Safari", "submit button", 1, 1)
	c.Set("Mail", "send button", 2, 2)

	if removed := c.InvalidateAll(); removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if got := c.Stats().Entries; got != 0 {
		t.Errorf("expected empty cache, got %d entries", got)
	}
}

func TestCache_Stats(t *testing.T) {
	c := New(time.Minute)
	c.Set("Safari", "submit button", 1, 1)

	c.Get("Safari", "submit button") // hit
	c.Get("Safari", "submit button") // hit
	c.Get("Safari", "back button")   // miss
	c.Get("Mail", "send button")     // miss

	s := c.Stats()
	if s.Hits != 2 || s.Misses != 2 {
		t.Errorf("expected 2 hits / 2 misses, got %d / %d", s.Hits, s.Misses)
	}
	if s.HitRate != 50 {
		t.Errorf("expected 50%% hit rate, got %.1f", s.HitRate)
	}
	if s.TTLSeconds != 60 {
		t.Errorf("expected ttl 60s, got %d", s.TTLSeconds)
	}
}

func TestCache_DefaultTTL(t *testing.T) {
	c := New(0)
	if got := c.Stats().TTLSeconds; got != int(DefaultTTL.Seconds()) {
		t.Errorf("expected default ttl %d, got %d", int(DefaultTTL.Seconds()), got)
	}
}
