package server

import (
	"testing"
	"time"
)

func TestPageCache(t *testing.T) {
	now := time.Unix(0, 0)
	c := newPageCache(time.Minute)
	c.now = func() time.Time { return now }

	c.put("a", "<main>a</main>")
	if got, ok := c.take("a"); !ok || got != "<main>a</main>" {
		t.Errorf("take(a) = %q, %v", got, ok)
	}
	if _, ok := c.take("a"); ok {
		t.Error("take(a) twice succeeded")
	}
	if _, ok := c.take(""); ok {
		t.Error("take(\"\") succeeded")
	}

	c.put("old", "x")
	now = now.Add(2 * time.Minute)
	if _, ok := c.take("old"); ok {
		t.Error("expired entry returned")
	}

	c.put("stale", "x")
	now = now.Add(2 * time.Minute)
	c.put("fresh", "y")
	if c.len() != 1 {
		t.Errorf("len() = %d after sweep, want 1", c.len())
	}
}
