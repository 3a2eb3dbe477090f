package cart

import "sync"

// broadcaster fans a no-payload "cart changed" signal out to listeners.
// Listeners re-read the persisted cart to pick up new state, mirroring the
// storage-event contract the web storefront relies on.
type broadcaster struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func()
}

func newBroadcaster() *broadcaster {
	return &broadcaster{listeners: make(map[int]func())}
}

// subscribe registers fn and returns an unsubscribe func.
func (b *broadcaster) subscribe(fn func()) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	b.listeners[id] = fn

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.listeners, id)
	}
}

func (b *broadcaster) notify() {
	b.mu.Lock()
	fns := make([]func(), 0, len(b.listeners))
	for _, fn := range b.listeners {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
