package cache

import (
	"testing"
	"time"
)

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()

	_ = c.Set("lookup:categories", []string{"Work"}, time.Hour)
	_ = c.Set("lookup:weekdays", []string{"Monday"}, -time.Second)

	if _, ok := c.Get("lookup:categories"); !ok {
		t.Fatal("expected live entry to be readable")
	}
	if _, ok := c.Get("lookup:weekdays"); ok {
		t.Fatal("expected expired entry to miss")
	}
	if n := c.Len(); n != 1 {
		t.Errorf("Len() = %d, want 1", n)
	}
	if expired := c.Stats()["expired"]; expired != int64(1) {
		t.Errorf("expired = %v, want 1", expired)
	}
}

func TestMemoryCache_Sweep(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()

	_ = c.Set("a", 1, time.Minute)
	_ = c.Set("b", 2, time.Hour)

	c.sweep(time.Now().Add(2 * time.Minute))

	if _, ok := c.Get("a"); ok {
		t.Error("expected a to be swept")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("expected b to survive the sweep")
	}
}

func TestMemoryCache_DeletePatternAndClear(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close()

	for _, key := range []string{"lookup:statuses", "lookup:priorities", "session:1"} {
		_ = c.Set(key, key, time.Minute)
	}

	_ = c.DeletePattern("lookup:*")
	if n := c.Len(); n != 1 {
		t.Fatalf("Len() after DeletePattern = %d, want 1", n)
	}
	if ok, _ := c.Exists("session:1"); !ok {
		t.Error("unrelated key should remain")
	}

	_ = c.Clear()
	if n := c.Len(); n != 0 {
		t.Errorf("Len() after Clear = %d, want 0", n)
	}
}
