// Package events is the in-process push channel for ticket status changes.
// Subscribers only use events as a signal to reload ticket data; the payload
// carries identifiers, never authoritative state.
package events

import "sync"

const TicketStatusChanged = "ticket.status.changed"

type TicketEvent struct {
	Type         string `json:"type"`
	TicketID     int64  `json:"ticket_id"`
	TicketNumber string `json:"ticket_number"`
	Status       string `json:"status"`
}

// Broker fans TicketEvents out to subscribers. A slow subscriber drops
// events instead of blocking publishers.
type Broker struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan TicketEvent
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[int]chan TicketEvent)}
}

// Subscribe registers a listener and returns its channel plus an unsubscribe
// func. Unsubscribe closes the channel; it is safe to call once.
func (b *Broker) Subscribe() (<-chan TicketEvent, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan TicketEvent, 16)
	b.subs[id] = ch

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
	return ch, unsubscribe
}

func (b *Broker) Publish(ev TicketEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
