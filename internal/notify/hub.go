package notify

import (
	"context"
	"sync"

	"github.com/HensleyFerrari/rpg-app/internal/battle/domain"
)

// defaultBuffer is how many undelivered snapshots a subscriber may lag
// behind before older ones are dropped. Snapshots are full-state, so a
// dropped one is recovered by the next delivery.
const defaultBuffer = 8

// Hub is the in-process Publisher: it fans each snapshot out to every
// subscriber of the topic. Publishing never blocks on a slow subscriber;
// when a subscriber's buffer is full the oldest pending snapshot is dropped
// to make room.
type Hub struct {
	mu          sync.Mutex
	subscribers map[string]map[*Subscription]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subscribers: make(map[string]map[*Subscription]struct{})}
}

// Subscription is one watcher's feed of battle snapshots. Receive from C
// until it closes; call Cancel when done.
type Subscription struct {
	C chan domain.BattleSnapshot

	hub   *Hub
	topic string
	once  sync.Once
}

// Cancel detaches the subscription and closes its channel.
func (s *Subscription) Cancel() {
	if s == nil {
		return
	}
	s.once.Do(func() {
		s.hub.remove(s.topic, s)
		close(s.C)
	})
}

// Subscribe attaches a watcher to a topic.
func (h *Hub) Subscribe(topic string) *Subscription {
	sub := &Subscription{
		C:     make(chan domain.BattleSnapshot, defaultBuffer),
		hub:   h,
		topic: topic,
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subscribers[topic]
	if !ok {
		set = make(map[*Subscription]struct{})
		h.subscribers[topic] = set
	}
	set[sub] = struct{}{}
	return sub
}

func (h *Hub) remove(topic string, sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.subscribers[topic]
	if !ok {
		return
	}
	delete(set, sub)
	if len(set) == 0 {
		delete(h.subscribers, topic)
	}
}

// SubscriberCount reports how many watchers a topic currently has.
func (h *Hub) SubscriberCount(topic string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers[topic])
}

// Publish delivers a snapshot to every current subscriber of the topic.
func (h *Hub) Publish(ctx context.Context, topic string, snapshot domain.BattleSnapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers[topic] {
		for {
			select {
			case sub.C <- snapshot:
			default:
				// Full buffer: drop the oldest pending snapshot and retry.
				select {
				case <-sub.C:
				default:
				}
				continue
			}
			break
		}
	}
	return nil
}
