package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/filmhub/internal/observe"
)

// UpdatesMsg carries every observable update that arrived since the last one.
type UpdatesMsg struct {
	Msgs []tea.Msg
}

// Relay adapts observable cells to Bubble Tea. Subscriber callbacks only
// record the newest message per source and never block, so a controller
// publishing from inside Update cannot deadlock on the program loop.
type Relay struct {
	mu      sync.Mutex
	pending []tea.Msg
	slot    map[string]int
	cancels []func()
	closed  bool

	notify chan struct{}
	done   chan struct{}
}

// NewRelay creates an empty relay.
func NewRelay() *Relay {
	return &Relay{
		slot:   make(map[string]int),
		notify: make(chan struct{}, 1),
		done:   make(chan struct{}),
	}
}

// Watch forwards v to the relay under key, wrapping each value with wrap.
// Updates under the same key replace one another until delivered.
func Watch[T any](r *Relay, key string, v *observe.Value[T], wrap func(T) tea.Msg) {
	cancel := v.Subscribe(func(val T) {
		r.Push(key, wrap(val))
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		cancel()
		return
	}
	r.cancels = append(r.cancels, cancel)
}

// Push queues msg, replacing any undelivered message with the same key.
func (r *Relay) Push(key string, msg tea.Msg) {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	if i, ok := r.slot[key]; ok {
		r.pending[i] = msg
	} else {
		r.slot[key] = len(r.pending)
		r.pending = append(r.pending, msg)
	}
	r.mu.Unlock()

	select {
	case r.notify <- struct{}{}:
	default: // a wakeup is already pending
	}
}

// drain takes everything queued, in first-arrival order per key.
func (r *Relay) drain() []tea.Msg {
	r.mu.Lock()
	defer r.mu.Unlock()
	msgs := r.pending
	r.pending = nil
	r.slot = make(map[string]int)
	return msgs
}

// Next waits for the next batch of updates. It returns nil once the relay is
// closed.
func (r *Relay) Next() tea.Cmd {
	return func() tea.Msg {
		for {
			select {
			case <-r.notify:
				if msgs := r.drain(); len(msgs) > 0 {
					return UpdatesMsg{Msgs: msgs}
				}
			case <-r.done:
				return nil
			}
		}
	}
}

// Close unsubscribes from every source and releases a waiting Next.
func (r *Relay) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	for _, cancel := range r.cancels {
		cancel()
	}
	r.cancels = nil
	close(r.done)
}
