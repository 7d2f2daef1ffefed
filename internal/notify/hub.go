package notify

import (
	"context"
	"sync"

	"wellness_tracker/internal/model"
)

// Hub wakes websocket consumers of a user when one of their achievements
// unlocks. A wake-up carries no payload; consumers re-read the queue.
type Hub struct {
	mu   sync.Mutex
	subs map[int64]map[chan struct{}]struct{}
}

func NewHub() *Hub {
	return &Hub{
		subs: make(map[int64]map[chan struct{}]struct{}),
	}
}

// Subscribe returns a signal channel for userID and a func releasing it.
func (h *Hub) Subscribe(userID int64) (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	h.mu.Lock()
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[chan struct{}]struct{})
	}
	h.subs[userID][ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[userID], ch)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
		})
	}
}

// Wake signals every subscriber of userID without blocking.
func (h *Hub) Wake(userID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for ch := range h.subs[userID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (h *Hub) NotifyUnlocked(_ context.Context, a *model.Achievement) error {
	h.Wake(a.UserID)
	return nil
}

func (h *Hub) subscribers(userID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}
