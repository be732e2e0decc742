// services/orderfeed.go
package services

import (
	"sync"

	"bayorder-backend/models"
)

// OrderFeed fans full snapshots of the active order list out to
// dashboard subscribers. A subscription is a channel plus a cancel
// function; cancelling (or client disconnect) stops delivery. Slow
// subscribers miss intermediate snapshots rather than blocking the
// request that triggered the broadcast.
type OrderFeed struct {
	mu   sync.Mutex
	subs map[chan []models.Order]struct{}
}

func NewOrderFeed() *OrderFeed {
	return &OrderFeed{subs: make(map[chan []models.Order]struct{})}
}

// Subscribe registers a dashboard client. The cancel function is safe
// to call more than once.
func (f *OrderFeed) Subscribe() (<-chan []models.Order, func()) {
	ch := make(chan []models.Order, 1)

	f.mu.Lock()
	f.subs[ch] = struct{}{}
	f.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			f.mu.Lock()
			delete(f.subs, ch)
			f.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Broadcast delivers a fresh snapshot to every subscriber. A pending
// undelivered snapshot is replaced, so each client always gets the
// newest state next.
func (f *OrderFeed) Broadcast(orders []models.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for ch := range f.subs {
		select {
		case ch <- orders:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- orders:
			default:
			}
		}
	}
}

// Subscribers returns the current subscriber count.
func (f *OrderFeed) Subscribers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}
