package admin

import (
	"sync"

	"clients_admin/pkg/utils"
)

// EventKind tags a notification sent after a successful save.
type EventKind int

const (
	EventCreated EventKind = iota + 1
	EventUpdated
)

// Wire strings understood by the list page.
const (
	WireClientAdded   = "client-added"
	WireClientUpdated = "client-updated"
)

// Wire returns the string posted to the opener window.
func (k EventKind) Wire() string {
	switch k {
	case EventCreated:
		return WireClientAdded
	case EventUpdated:
		return WireClientUpdated
	}
	return ""
}

// Event is published once per successful create or update.
type Event struct {
	Kind EventKind
	ID   int64
}

// Publisher accepts notifications. Publishing never blocks.
type Publisher interface {
	Publish(Event)
}

// Broker fans events out to subscribers. Delivery is fire-and-forget: a subscriber
// whose buffer is full misses the event.
type Broker struct {
	mu     sync.Mutex
	subs   map[int]chan Event
	nextID int
	buffer int
}

func NewBroker(buffer int) *Broker {
	if buffer < 1 {
		buffer = 1
	}
	return &Broker{subs: make(map[int]chan Event), buffer: buffer}
}

// Subscribe returns the event channel and a cancel func that closes it.
func (b *Broker) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, b.buffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (b *Broker) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			utils.LogDebug("Dropped client event for slow subscriber", map[string]interface{}{"subscriber": id, "event": e.Kind.Wire()})
		}
	}
}

// Subscribers reports the number of live subscriptions.
func (b *Broker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
