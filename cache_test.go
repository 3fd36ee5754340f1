package sana

import (
	"errors"
	"sync"
	"testing"
)

func TestCache(t *testing.T) {
	c, err := NewCache[string](2, DefaultConfig())
	if err != nil {
		t.Fatalf("NewCache() error = %v", err)
	}

	a1, err := c.Compile(ruleSet(t, basicTokens))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	a2, err := c.Compile(ruleSet(t, basicTokens))
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if a1 != a2 {
		t.Error("equal rule sets should share one IR")
	}
	if c.Len() != 1 {
		t.Errorf("Len() = %d, want 1", c.Len())
	}

	// Same patterns, different action labels.
	relabeled := ruleSet(t, []fixtureRule{{`a`, "A", 0}})
	other := ruleSet(t, []fixtureRule{{`a`, "B", 0}})
	if _, err := c.Compile(relabeled); err != nil {
		t.Fatal(err)
	}
	if c.Contains(other) {
		t.Error("rule sets differing in action must not share a key")
	}
	if _, err := c.Compile(other); err != nil {
		t.Fatal(err)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (bounded)", c.Len())
	}
	if c.Contains(ruleSet(t, basicTokens)) {
		t.Error("least recently used entry should have been evicted")
	}

	c.Purge()
	if c.Len() != 0 {
		t.Errorf("Len() after Purge = %d", c.Len())
	}
}

func TestCacheFailureNotCached(t *testing.T) {
	c, err := NewCache[string](4, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	dup := ruleSet(t, []fixtureRule{{`a`, "A", 0}, {`a`, "B", 0}})
	if _, err := c.Compile(dup); !errors.Is(err, ErrAmbiguousRule) {
		t.Fatalf("Compile() error = %v, want ErrAmbiguousRule", err)
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, failed compilations must not be cached", c.Len())
	}
}

func TestCacheConcurrent(t *testing.T) {
	c, err := NewCache[string](4, DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	rs := ruleSet(t, basicTokens)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ir, err := c.Compile(rs)
			if err != nil {
				t.Error(err)
				return
			}
			if r := NewVM(ir, []byte("in")).Run(); r.Action != "In" {
				t.Errorf("Run() = %+v", r)
			}
		}()
	}
	wg.Wait()
}

func TestNewCacheInvalid(t *testing.T) {
	if _, err := NewCache[string](0, DefaultConfig()); err == nil {
		t.Error("NewCache(0) should fail")
	}
	if _, err := NewCache[string](1, Config{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("NewCache() error = %v, want ErrInvalidConfig", err)
	}
}
