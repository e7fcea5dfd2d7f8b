package handle

import "sync"

// Registry is a thread-safe arena of opaque handles.
type Registry[T any] struct {
	mu    sync.Mutex
	next  uint64
	items map[uint64]T
}

// NewRegistry creates an empty registry.
func NewRegistry[T any]() *Registry[T] {
	return &Registry[T]{items: make(map[uint64]T)}
}

// Put stores v and returns its handle. Handles are unique for the
// lifetime of the registry and never zero.
func (r *Registry[T]) Put(v T) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	h := r.next
	r.items[h] = v
	return h
}

// Get looks up the value for h.
func (r *Registry[T]) Get(h uint64) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.items[h]
	return v, ok
}

// Release removes h and returns the value it held, so the caller can
// dispose of it.
func (r *Registry[T]) Release(h uint64) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.items[h]
	if ok {
		delete(r.items, h)
	}
	return v, ok
}

// Len returns the number of live handles.
func (r *Registry[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
