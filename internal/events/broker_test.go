package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroker_PublishReachesAllSubscribers(t *testing.T) {
	b := NewBroker()

	ch1, unsub1 := b.Subscribe()
	ch2, unsub2 := b.Subscribe()
	defer unsub1()
	defer unsub2()

	ev := TicketEvent{Type: TicketStatusChanged, TicketID: 3, TicketNumber: "TKT-0003", Status: "in_production"}
	b.Publish(ev)

	for _, ch := range []<-chan TicketEvent{ch1, ch2} {
		select {
		case got := <-ch:
			assert.Equal(t, ev, got)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestBroker_UnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker()

	ch, unsub := b.Subscribe()
	unsub()

	_, open := <-ch
	require.False(t, open)

	// second call must not panic
	unsub()

	// publishing after unsubscribe is a no-op for this subscriber
	b.Publish(TicketEvent{Type: TicketStatusChanged, TicketID: 1})
}

func TestBroker_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewBroker()

	_, unsub := b.Subscribe()
	defer unsub()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			b.Publish(TicketEvent{Type: TicketStatusChanged, TicketID: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked on a slow subscriber")
	}
}
