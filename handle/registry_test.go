package handle

import (
	"sync"
	"testing"
)

func TestRegistry_PutGetRelease(t *testing.T) {
	r := NewRegistry[string]()

	h := r.Put("alpha")
	if h == 0 {
		t.Fatal("handle zero must never be issued")
	}

	v, ok := r.Get(h)
	if !ok || v != "alpha" {
		t.Fatalf("expected alpha, got %q ok=%v", v, ok)
	}

	v, ok = r.Release(h)
	if !ok || v != "alpha" {
		t.Fatalf("Release should hand the value back, got %q ok=%v", v, ok)
	}

	if _, ok := r.Get(h); ok {
		t.Error("released handle must not resolve")
	}
	if _, ok := r.Release(h); ok {
		t.Error("double release must report false")
	}
}

func TestRegistry_HandlesAreUnique(t *testing.T) {
	r := NewRegistry[int]()
	seen := make(map[uint64]bool)
	for i := 0; i < 100; i++ {
		h := r.Put(i)
		if seen[h] {
			t.Fatalf("handle %d issued twice", h)
		}
		seen[h] = true
	}
	if r.Len() != 100 {
		t.Errorf("expected 100 live handles, got %d", r.Len())
	}
}

func TestRegistry_ReleasedHandleNotReused(t *testing.T) {
	r := NewRegistry[int]()
	h1 := r.Put(1)
	r.Release(h1)
	h2 := r.Put(2)
	if h1 == h2 {
		t.Error("handles must be unique for the registry lifetime")
	}
}

func TestRegistry_Concurrent(t *testing.T) {
	r := NewRegistry[int]()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h := r.Put(n)
				if _, ok := r.Get(h); !ok {
					t.Error("value disappeared")
				}
				r.Release(h)
			}
		}(i)
	}
	wg.Wait()

	if r.Len() != 0 {
		t.Errorf("expected an empty registry, got %d", r.Len())
	}
}
