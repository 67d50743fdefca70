package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusPublishSubscribe(t *testing.T) {
	b := New()
	id, ch := b.Subscribe(4)
	defer b.Unsubscribe(id)

	b.PublishNew(FileModified, "Daily/2026-08-31.md")

	ev := <-ch
	assert.Equal(t, FileModified, ev.Type)
	assert.Equal(t, "Daily/2026-08-31.md", ev.Path)
	assert.NotEmpty(t, ev.ID)
	assert.False(t, ev.CreatedAt.IsZero())
}

func TestBusFanOut(t *testing.T) {
	b := New()
	id1, ch1 := b.Subscribe(1)
	id2, ch2 := b.Subscribe(1)
	defer b.Unsubscribe(id1)
	defer b.Unsubscribe(id2)

	b.PublishNew(FileCreated, "a.md")

	assert.Equal(t, "a.md", (<-ch1).Path)
	assert.Equal(t, "a.md", (<-ch2).Path)
}

func TestBusDropsWhenBufferFull(t *testing.T) {
	b := New()
	id, ch := b.Subscribe(1)
	defer b.Unsubscribe(id)

	b.PublishNew(FileCreated, "first.md")
	b.PublishNew(FileCreated, "second.md")

	ev := <-ch
	assert.Equal(t, "first.md", ev.Path)
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %v, overflow must be dropped", ev)
	default:
	}
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	b := New()
	id, ch := b.Subscribe(1)
	b.Unsubscribe(id)

	_, open := <-ch
	require.False(t, open)

	// Publishing after unsubscribe is a no-op.
	b.PublishNew(FileDeleted, "gone.md")
}

func TestTypeString(t *testing.T) {
	assert.Equal(t, "file.created", FileCreated.String())
	assert.Equal(t, "file.modified", FileModified.String())
	assert.Equal(t, "file.renamed", FileRenamed.String())
	assert.Equal(t, "file.deleted", FileDeleted.String())
	assert.Equal(t, "unknown", Type(0).String())
}
