// Package observe provides a publish/subscribe value cell that replays the
// last published value to new subscribers.
package observe

import "sync"

// Value holds the latest value of one piece of state and notifies subscribers
// when it changes. The zero value is not usable; construct with NewValue.
//
// Callbacks run on the goroutine that called Set (or Subscribe, for the
// replay). A callback must not call Set or Subscribe on the same Value.
type Value[T any] struct {
	mu   sync.Mutex
	val  T
	has  bool
	subs map[uint64]func(T)
	next uint64

	// emit serializes deliveries so every subscriber sees values in publish order.
	emit sync.Mutex
}

// NewValue creates an empty cell. Subscribers receive nothing until the first Set.
func NewValue[T any]() *Value[T] {
	return &Value[T]{subs: make(map[uint64]func(T))}
}

// NewValueOf creates a cell seeded with v.
func NewValueOf[T any](v T) *Value[T] {
	c := NewValue[T]()
	c.val = v
	c.has = true
	return c
}

// Get returns the last published value and whether one exists.
func (v *Value[T]) Get() (T, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.val, v.has
}

// Set publishes val to every subscriber.
func (v *Value[T]) Set(val T) {
	v.publish(val, false)
}

// SetIfEmpty publishes val only if nothing has been published yet, and
// reports whether it did.
func (v *Value[T]) SetIfEmpty(val T) bool {
	return v.publish(val, true)
}

func (v *Value[T]) publish(val T, onlyIfEmpty bool) bool {
	v.emit.Lock()
	defer v.emit.Unlock()

	v.mu.Lock()
	if onlyIfEmpty && v.has {
		v.mu.Unlock()
		return false
	}
	v.val = val
	v.has = true
	subs := make([]func(T), 0, len(v.subs))
	for _, fn := range v.subs {
		subs = append(subs, fn)
	}
	v.mu.Unlock()

	for _, fn := range subs {
		fn(val)
	}
	return true
}

// Subscribe registers fn and replays the current value to it, if any.
// The returned cancel func is safe to call more than once.
func (v *Value[T]) Subscribe(fn func(T)) (cancel func()) {
	v.emit.Lock()
	defer v.emit.Unlock()

	v.mu.Lock()
	id := v.next
	v.next++
	v.subs[id] = fn
	val, has := v.val, v.has
	v.mu.Unlock()

	if has {
		fn(val)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			v.mu.Lock()
			delete(v.subs, id)
			v.mu.Unlock()
		})
	}
}

// Subscribers reports how many callbacks are registered.
func (v *Value[T]) Subscribers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.subs)
}

// Derive returns a cell that tracks fn applied to every value of src.
// Call cancel to detach it from src.
func Derive[S, T any](src *Value[S], fn func(S) T) (*Value[T], func()) {
	out := NewValue[T]()
	cancel := src.Subscribe(func(s S) {
		out.Set(fn(s))
	})
	return out, cancel
}
