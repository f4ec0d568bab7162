// Package audit publishes document lifecycle events for downstream consumers
// (notification service, analytics, reconciliation tooling).
package audit

import (
	"time"

	id "docmint/pkg/domain"
)

// EventType enumerates the lifecycle moments worth broadcasting.
type EventType string

const (
	EventDocumentRequested EventType = "document.requested"
	EventDocumentApproved  EventType = "document.approved"
	EventDocumentMinted    EventType = "document.minted"
	EventDocumentFailed    EventType = "document.failed"
	EventDocumentRevoked   EventType = "document.revoked"
	EventDocumentRejected  EventType = "document.rejected"

	// EventMintDivergence flags a document whose local FAILED record may
	// disagree with chain state (the mint tx could have landed after the
	// local timeout). Operators reconcile these by hand.
	EventMintDivergence EventType = "document.mint_divergence"
)

// Event is one lifecycle record. DocumentID keys partitioning so per-document
// ordering is preserved.
type Event struct {
	Type       EventType      `json:"type"`
	DocumentID id.DocumentID  `json:"document_id"`
	UserID     id.UserID      `json:"user_id"`
	ActorID    id.UserID      `json:"actor_id"`
	Status     string         `json:"status"`
	Detail     map[string]any `json:"detail,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}
