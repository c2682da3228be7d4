package mailbox

import (
	"context"
	"sync"
)

// Mailbox holds at most one pending job per key, where the latest job for
// a key always wins. It is NOT a queue: Put() overwrites a pending job with
// the same key and never touches jobs under other keys. Take() hands out
// pending jobs in the order their keys first became pending.
type Mailbox[K comparable, T any] struct {
	mu      sync.Mutex
	key     func(T) K
	pending map[K]T
	order   []K
	notify  chan struct{}
}

// New creates an empty mailbox. key tells which slot a job goes to.
func New[K comparable, T any](key func(T) K) *Mailbox[K, T] {
	return &Mailbox[K, T]{
		key:     key,
		pending: make(map[K]T),
		notify:  make(chan struct{}, 1),
	}
}

// Put stores a job in its slot, replacing any job pending under the same key.
// It never blocks.
func (m *Mailbox[K, T]) Put(j T) {
	k := m.key(j)

	m.mu.Lock()
	if _, ok := m.pending[k]; !ok {
		m.order = append(m.order, k)
	}
	m.pending[k] = j
	m.mu.Unlock()

	// wake up worker if waiting
	select {
	case m.notify <- struct{}{}:
	default:
	}
}

// Take blocks until a job is available, then returns it and clears its slot.
// It returns false when ctx is done first.
func (m *Mailbox[K, T]) Take(ctx context.Context) (T, bool) {
	for {
		if j := m.TryTake(); j != nil {
			return *j, true
		}
		select {
		case <-m.notify:
		case <-ctx.Done():
			var zero T
			return zero, false
		}
	}
}

// TryTake returns the oldest pending job, or nil if empty.
// It never blocks.
func (m *Mailbox[K, T]) TryTake() *T {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.order) == 0 {
		return nil
	}

	k := m.order[0]
	m.order = m.order[1:]
	j := m.pending[k]
	delete(m.pending, k)
	return &j
}

// HasJob reports whether a job is currently waiting.
func (m *Mailbox[K, T]) HasJob() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order) > 0
}

// Len returns how many slots hold a pending job.
func (m *Mailbox[K, T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.order)
}
