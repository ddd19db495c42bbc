package network

import (
	"sync"

	"github.com/NoahDarveau/MarkovMario/pkg/api"
)

// Broadcaster fans generated levels out to feed subscribers.
// A subscriber whose buffer is full misses the message.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[string]chan api.LevelResponse
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]chan api.LevelResponse),
	}
}

// Register creates the channel for id. An existing channel for the same id is closed.
func (b *Broadcaster) Register(id string) <-chan api.LevelResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	if old, ok := b.subscribers[id]; ok {
		close(old)
	}

	ch := make(chan api.LevelResponse, 32)
	b.subscribers[id] = ch
	return ch
}

// Unregister closes and removes the channel for id.
func (b *Broadcaster) Unregister(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
}

// Broadcast sends msg to every subscriber without blocking and returns how many got it.
func (b *Broadcaster) Broadcast(msg api.LevelResponse) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	delivered := 0
	for _, ch := range b.subscribers {
		select {
		case ch <- msg:
			delivered++
		default:
		}
	}
	return delivered
}

func (b *Broadcaster) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
