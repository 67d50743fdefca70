package event

import (
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Type classifies a document change observed in the vault.
type Type int

const (
	FileCreated Type = iota + 1
	FileModified
	FileRenamed
	FileDeleted
)

func (t Type) String() string {
	switch t {
	case FileCreated:
		return "file.created"
	case FileModified:
		return "file.modified"
	case FileRenamed:
		return "file.renamed"
	case FileDeleted:
		return "file.deleted"
	}
	return "unknown"
}

// Event is a single vault document change.
type Event struct {
	ID        string
	Type      Type
	Path      string
	CreatedAt time.Time
}

// Bus fans document events out to subscribers. Publishing never blocks;
// a subscriber whose buffer is full misses the event.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]chan Event
}

func New() *Bus {
	return &Bus{
		subscribers: make(map[string]chan Event),
	}
}

func (b *Bus) Subscribe(bufSize int) (string, <-chan Event) {
	id := ulid.Make().String()
	ch := make(chan Event, bufSize)
	b.mu.Lock()
	b.subscribers[id] = ch
	b.mu.Unlock()
	return id, ch
}

func (b *Bus) Unsubscribe(id string) {
	b.mu.Lock()
	if ch, ok := b.subscribers[id]; ok {
		close(ch)
		delete(b.subscribers, id)
	}
	b.mu.Unlock()
}

func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers {
		select {
		case ch <- e:
		default:
			// buffer full, drop event for this subscriber
		}
	}
}

// PublishNew stamps and publishes a fresh event.
func (b *Bus) PublishNew(eventType Type, path string) {
	b.Publish(Event{
		ID:        ulid.Make().String(),
		Type:      eventType,
		Path:      path,
		CreatedAt: time.Now(),
	})
}
