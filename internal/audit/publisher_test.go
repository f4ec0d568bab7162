package audit

import (
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "docmint/pkg/domain"
)

func TestPublisherDeliversInOrder(t *testing.T) {
	sink := NewMemorySink()
	publisher := NewPublisher(sink, 8, slog.Default())

	docID := id.DocumentID(uuid.New())
	publisher.Emit(Event{Type: EventDocumentRequested, DocumentID: docID})
	publisher.Emit(Event{Type: EventDocumentApproved, DocumentID: docID})
	publisher.Emit(Event{Type: EventDocumentMinted, DocumentID: docID})
	publisher.Close()

	events := sink.Events()
	require.Len(t, events, 3)
	assert.Equal(t, EventDocumentRequested, events[0].Type)
	assert.Equal(t, EventDocumentApproved, events[1].Type)
	assert.Equal(t, EventDocumentMinted, events[2].Type)
}

func TestPublisherStampsTimestamp(t *testing.T) {
	sink := NewMemorySink()
	publisher := NewPublisher(sink, 8, slog.Default())

	publisher.Emit(Event{Type: EventDocumentFailed, DocumentID: id.DocumentID(uuid.New())})
	publisher.Close()

	events := sink.Events()
	require.Len(t, events, 1)
	assert.WithinDuration(t, time.Now().UTC(), events[0].Timestamp, time.Minute)
}

func TestPublisherCloseDrainsBuffer(t *testing.T) {
	sink := NewMemorySink()
	publisher := NewPublisher(sink, 64, slog.Default())

	for i := 0; i < 20; i++ {
		publisher.Emit(Event{Type: EventDocumentRequested, DocumentID: id.DocumentID(uuid.New())})
	}
	publisher.Close()

	assert.Len(t, sink.Events(), 20)
}
