package display

import "sync"

// Broadcaster fans frames out to subscribers. A subscriber that is not
// keeping up misses frames instead of blocking the session.
type Broadcaster struct {
	mu   sync.RWMutex
	subs map[chan Frame]struct{}
}

// NewBroadcaster creates an empty Broadcaster
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[chan Frame]struct{})}
}

// Subscribe returns a channel of frames and a function that closes it.
func (b *Broadcaster) Subscribe() (<-chan Frame, func()) {
	ch := make(chan Frame, 4)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
}

// Publish sends f to every subscriber without blocking
func (b *Broadcaster) Publish(f Frame) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- f:
		default:
		}
	}
}

// Len returns the number of subscribers
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
