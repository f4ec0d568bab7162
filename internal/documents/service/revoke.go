package service

import (
	"context"

	"docmint/internal/audit"
	"docmint/internal/documents/models"
	id "docmint/pkg/domain"
	dErrors "docmint/pkg/domain-errors"
	"docmint/pkg/requestcontext"
)

// RevokeDocument invalidates a minted document on chain, then locally.
func (s *Service) RevokeDocument(ctx context.Context, docID id.DocumentID, actorID id.UserID) (*models.Document, error) {
	ctx, span := s.tracer.Start(ctx, "documents.revoke")
	defer span.End()
	now := requestcontext.Now(ctx)

	doc, err := s.docs.FindByID(ctx, docID)
	if err != nil {
		s.metrics.ObserveOutcome("revoke", "failure")
		return nil, lookupError(err, "document not found")
	}
	if err := doc.CanRevoke(); err != nil {
		s.metrics.ObserveOutcome("revoke", "failure")
		return nil, err
	}

	revokeCtx, cancel := s.stepCtx(ctx)
	txHash, err := s.ledger.Revoke(revokeCtx, *doc.ChainDocID)
	cancel()
	if err != nil {
		s.metrics.ObserveOutcome("revoke", "failure")
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "revoke document on chain")
	}

	doc.ApplyRevoked(txHash, now)
	if err := s.docs.Update(ctx, doc); err != nil {
		s.metrics.ObserveOutcome("revoke", "failure")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "persist revoked document")
	}

	s.logger.InfoContext(ctx, "document revoked",
		"document_id", doc.ID.String(),
		"tx_hash", txHash)
	s.metrics.ObserveOutcome("revoke", "success")
	s.emit(audit.Event{
		Type:       audit.EventDocumentRevoked,
		DocumentID: doc.ID,
		UserID:     doc.UserID,
		ActorID:    actorID,
		Status:     string(doc.Status),
		Detail:     map[string]any{"tx_hash": txHash},
	})
	return doc, nil
}

// RejectDocument declines a document that has not entered the mint pipeline.
// The reason lands in the metadata map alongside the rejection timestamp.
func (s *Service) RejectDocument(ctx context.Context, docID id.DocumentID, actorID id.UserID, reason string) (*models.Document, error) {
	ctx, span := s.tracer.Start(ctx, "documents.reject")
	defer span.End()
	now := requestcontext.Now(ctx)

	if reason == "" {
		s.metrics.ObserveOutcome("reject", "failure")
		return nil, dErrors.New(dErrors.CodeBadRequest, "rejection reason is required")
	}

	doc, err := s.docs.FindByID(ctx, docID)
	if err != nil {
		s.metrics.ObserveOutcome("reject", "failure")
		return nil, lookupError(err, "document not found")
	}
	if err := doc.CanReject(); err != nil {
		s.metrics.ObserveOutcome("reject", "failure")
		return nil, err
	}

	doc.ApplyRejected(reason, now)
	if err := s.docs.Update(ctx, doc); err != nil {
		s.metrics.ObserveOutcome("reject", "failure")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "persist rejected document")
	}

	s.logger.InfoContext(ctx, "document rejected",
		"document_id", doc.ID.String(),
		"reason", reason)
	s.metrics.ObserveOutcome("reject", "success")
	s.emit(audit.Event{
		Type:       audit.EventDocumentRejected,
		DocumentID: doc.ID,
		UserID:     doc.UserID,
		ActorID:    actorID,
		Status:     string(doc.Status),
		Detail:     map[string]any{"reason": reason},
	})
	return doc, nil
}
