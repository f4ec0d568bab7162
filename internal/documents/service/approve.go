package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/sha3"

	"docmint/internal/audit"
	"docmint/internal/documents/models"
	"docmint/internal/records"
	id "docmint/pkg/domain"
	dErrors "docmint/pkg/domain-errors"
	"docmint/pkg/platform/sentinel"
	"docmint/pkg/requestcontext"
)

// ApproveInput carries an approval request. OverrideTemplate, when non-empty,
// replaces the render-payload snapshot stored at request time.
type ApproveInput struct {
	DocumentID       id.DocumentID
	ApproverID       id.UserID
	MFACode          string
	OverrideTemplate []byte
}

// ApproveAndSign drives the issuance saga: validate the approver and the
// document, commit the PENDING_BLOCKCHAIN transition, then render, pin and
// mint. Everything before the transition is a pure precondition check;
// everything after it is caught and turned into a FAILED document.
//
// The render/pin/mint steps are strictly sequential and each carries its own
// timeout. There is no retry of the mint call: retrying blindly risks
// double-minting.
func (s *Service) ApproveAndSign(ctx context.Context, input ApproveInput) (*models.Document, error) {
	ctx, span := s.tracer.Start(ctx, "documents.approve")
	defer span.End()
	now := requestcontext.Now(ctx)

	approver, err := s.users.FindByID(ctx, input.ApproverID)
	if err != nil {
		s.metrics.ObserveOutcome("approve", "failure")
		return nil, lookupError(err, "approver not found")
	}
	if err := s.checkMFA(ctx, input.ApproverID, input.MFACode, true); err != nil {
		s.metrics.ObserveOutcome("approve", "failure")
		return nil, err
	}

	doc, err := s.docs.FindByID(ctx, input.DocumentID)
	if err != nil {
		s.metrics.ObserveOutcome("approve", "failure")
		return nil, lookupError(err, "document not found")
	}
	docType, err := s.types.FindByID(ctx, doc.DocumentTypeID)
	if err != nil {
		s.metrics.ObserveOutcome("approve", "failure")
		return nil, lookupError(err, "document type not found")
	}
	if err := doc.CanApprove(); err != nil {
		s.metrics.ObserveOutcome("approve", "failure")
		return nil, err
	}

	owner, err := s.users.FindByID(ctx, doc.UserID)
	if err != nil {
		s.metrics.ObserveOutcome("approve", "failure")
		return nil, lookupError(err, "document owner not found")
	}
	wallet, err := s.wallets.FindByUserID(ctx, doc.UserID)
	if err != nil {
		s.metrics.ObserveOutcome("approve", "failure")
		return nil, lookupError(err, "wallet not found for document owner")
	}
	if wallet.Address == "" {
		s.metrics.ObserveOutcome("approve", "failure")
		return nil, dErrors.New(dErrors.CodeBadRequest, "wallet has no blockchain address")
	}

	chainCtx, cancel := s.stepCtx(ctx)
	chainID, err := s.ledger.ResolveChainID(chainCtx, wallet.Address)
	cancel()
	if err != nil {
		s.metrics.ObserveOutcome("approve", "failure")
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "resolve blockchain identity")
	}
	profileCtx, cancel := s.stepCtx(ctx)
	profile, err := s.ledger.StudentProfile(profileCtx, chainID)
	cancel()
	if err != nil {
		s.metrics.ObserveOutcome("approve", "failure")
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "read on-chain student profile")
	}
	if !profile.IsActive {
		s.metrics.ObserveOutcome("approve", "failure")
		return nil, dErrors.New(dErrors.CodeConflict, "student is not active on chain")
	}

	// Durability boundary: the conditional transition both claims the
	// document for this approval and survives a crash as an observable
	// "stuck in pending_blockchain" row.
	doc, err = s.docs.TransitionToPendingBlockchain(ctx, input.DocumentID, input.ApproverID, now)
	if err != nil {
		s.metrics.ObserveOutcome("approve", "failure")
		switch {
		case errors.Is(err, sentinel.ErrConflict):
			return nil, dErrors.New(dErrors.CodeConflict, "document approval already in progress")
		case errors.Is(err, sentinel.ErrNotFound):
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "document not found")
		default:
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "claim document for approval")
		}
	}
	s.emit(audit.Event{
		Type:       audit.EventDocumentApproved,
		DocumentID: doc.ID,
		UserID:     doc.UserID,
		ActorID:    input.ApproverID,
		Status:     string(doc.Status),
	})

	minted, mintedOnChain, err := s.executeMint(ctx, doc, docType, owner, approver, chainID, input.OverrideTemplate, now)
	if err != nil {
		if mintedOnChain {
			// The mint landed but the local save did not: chain and content
			// store now hold artifacts the database does not reference.
			s.logger.ErrorContext(ctx, "mint succeeded on chain but local save failed",
				"document_id", doc.ID.String(),
				"error", err)
			s.metrics.ObserveMintDivergence()
			s.emit(audit.Event{
				Type:       audit.EventMintDivergence,
				DocumentID: doc.ID,
				UserID:     doc.UserID,
				ActorID:    input.ApproverID,
				Status:     string(models.StatusFailed),
				Detail:     map[string]any{"error": err.Error()},
			})
		}
		s.failDocument(ctx, doc, input.ApproverID, now, err)
		s.metrics.ObserveOutcome("approve", "failure")
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "document issuance failed")
	}

	s.logger.InfoContext(ctx, "document minted",
		"document_id", minted.ID.String(),
		"token_id", deref(minted.TokenID),
		"tx_hash", deref(minted.TxHash))
	s.metrics.ObserveOutcome("approve", "success")
	s.emit(audit.Event{
		Type:       audit.EventDocumentMinted,
		DocumentID: minted.ID,
		UserID:     minted.UserID,
		ActorID:    input.ApproverID,
		Status:     string(minted.Status),
		Detail:     map[string]any{"token_id": deref(minted.TokenID), "tx_hash": deref(minted.TxHash)},
	})
	return minted, nil
}

// executeMint runs saga steps 7–14: payload resolution and rewrite, render,
// file pin, metadata pin, mint, final save. mintedOnChain reports whether the
// mint transaction succeeded before the returned error, which distinguishes
// the divergence gap from a clean failure.
func (s *Service) executeMint(
	ctx context.Context,
	doc *models.Document,
	docType *records.DocumentType,
	owner, approver *records.User,
	chainID int64,
	override []byte,
	now time.Time,
) (result *models.Document, mintedOnChain bool, err error) {
	payload, err := s.resolvePayload(doc, docType, override)
	if err != nil {
		return nil, false, err
	}
	s.rewriteBindings(payload, doc, docType, owner, approver)

	doc.Payload = payload
	doc.UpdatedAt = now
	if err := s.docs.Update(ctx, doc); err != nil {
		return nil, false, fmt.Errorf("persist render payload: %w", err)
	}

	renderCtx, cancel := s.stepCtx(ctx)
	start := time.Now()
	pdf, err := s.renderer.Render(renderCtx, *payload)
	cancel()
	s.observeStep("render", start)
	if err != nil {
		return nil, false, fmt.Errorf("render document: %w", err)
	}

	pinCtx, cancel := s.stepCtx(ctx)
	start = time.Now()
	fileCID, err := s.content.UploadFile(pinCtx, pdf,
		fmt.Sprintf("%s-%s.pdf", docType.Name, doc.ID.String()),
		map[string]string{"document_id": doc.ID.String(), "user_id": doc.UserID.String()})
	cancel()
	s.observeStep("pin_file", start)
	if err != nil {
		return nil, false, fmt.Errorf("upload rendered document: %w", err)
	}

	ledgerMeta := s.buildLedgerMetadata(doc, docType, owner, fileCID, now)
	serialized, err := json.Marshal(ledgerMeta)
	if err != nil {
		return nil, false, fmt.Errorf("serialize ledger metadata: %w", err)
	}
	digest := keccakDigest(serialized)

	metaCtx, cancel := s.stepCtx(ctx)
	start = time.Now()
	metadataCID, err := s.content.UploadJSON(metaCtx, ledgerMeta)
	cancel()
	s.observeStep("pin_metadata", start)
	if err != nil {
		return nil, false, fmt.Errorf("upload ledger metadata: %w", err)
	}

	mintCtx, cancel := s.stepCtx(ctx)
	start = time.Now()
	mintRes, err := s.ledger.Mint(mintCtx, chainID, docType.Name, digest, "ipfs://"+metadataCID)
	cancel()
	s.observeStep("mint", start)
	if err != nil {
		return nil, false, fmt.Errorf("mint document token: %w", err)
	}

	doc.ApplyMinted(mintRes, fileCID, metadataCID, digest, now)
	if err := s.docs.Update(ctx, doc); err != nil {
		return nil, true, fmt.Errorf("persist minted document: %w", err)
	}
	return doc, true, nil
}

// resolvePayload picks the override JSON when supplied, else the stored
// snapshot, and validates that enough render material exists.
func (s *Service) resolvePayload(doc *models.Document, docType *records.DocumentType, override []byte) (*models.RenderPayload, error) {
	if len(override) > 0 {
		return models.ParseRenderPayload(override)
	}
	if doc.Payload != nil {
		payload := doc.Payload.Clone()
		if err := payload.Validate(); err != nil {
			return nil, err
		}
		return &payload, nil
	}
	// General documents carry no snapshot; approval needs the template blob
	// from the catalog and at least identity bindings to proceed.
	if docType.TemplatePDF == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest,
			"no render material: document has no payload snapshot and type has no template")
	}
	return &models.RenderPayload{
		Version:  models.RenderPayloadVersion,
		Template: models.TemplateDescriptor{Name: docType.Name, Layout: docType.TemplatePDF},
		Bindings: []models.FieldBinding{
			{Name: models.BindingNameStudent, Kind: models.BindingText},
		},
	}, nil
}

// rewriteBindings overwrites identity bindings with resolved data. The QR
// binding is rewritten for every category so the scannable code always points
// at the canonical document record.
func (s *Service) rewriteBindings(
	payload *models.RenderPayload,
	doc *models.Document,
	docType *records.DocumentType,
	owner, approver *records.User,
) {
	category := models.CategoryOf(docType.Name)
	if !category.Simple() {
		payload.SetBinding(models.BindingNameStudent, models.BindingText, owner.FullName)
		payload.SetBinding(models.BindingNameIssuer, models.BindingText, approver.FullName)
		payload.SetBinding(models.BindingNameSignature, models.BindingText, approver.FullName)
		if docType.Description != "" && payload.Binding(models.BindingNameDetails) == nil {
			payload.SetBinding(models.BindingNameDetails, models.BindingText, docType.Description)
		}
	}
	payload.SetBinding(models.QRCodeBinding, models.BindingQR, doc.ID.String())
}

// buildLedgerMetadata assembles the NFT metadata document pinned alongside
// the rendered file.
func (s *Service) buildLedgerMetadata(
	doc *models.Document,
	docType *records.DocumentType,
	owner *records.User,
	fileCID string,
	now time.Time,
) map[string]any {
	attributes := []map[string]any{
		{"trait_type": "document_type", "value": docType.Name},
		{"trait_type": "student_code", "value": owner.StudentCode},
		{"trait_type": "issue_date", "value": now.UTC().Format(time.RFC3339)},
		{"trait_type": "valid", "value": true},
	}
	if owner.Major != "" {
		attributes = append(attributes, map[string]any{"trait_type": "major", "value": owner.Major})
	}
	return map[string]any{
		"name":        fmt.Sprintf("%s - %s", docType.Name, owner.FullName),
		"description": docType.Description,
		"file_url":    s.content.GatewayURL(fileCID),
		"attributes":  attributes,
	}
}

// failDocument marks the claimed document FAILED after a saga error past the
// durability boundary. The issuer id set at claim time is retained; token
// fields stay empty.
func (s *Service) failDocument(ctx context.Context, doc *models.Document, actorID id.UserID, now time.Time, cause error) {
	doc.ApplyFailed(now)
	if err := s.docs.Update(ctx, doc); err != nil {
		s.logger.ErrorContext(ctx, "persist failed document state",
			"document_id", doc.ID.String(),
			"error", err)
	}
	s.logger.WarnContext(ctx, "document issuance failed",
		"document_id", doc.ID.String(),
		"error", cause)
	s.emit(audit.Event{
		Type:       audit.EventDocumentFailed,
		DocumentID: doc.ID,
		UserID:     doc.UserID,
		ActorID:    actorID,
		Status:     string(models.StatusFailed),
		Detail:     map[string]any{"error": cause.Error()},
	})
}

// keccakDigest hashes serialized metadata the way the issuance contract
// expects: keccak-256, 0x-prefixed hex.
func keccakDigest(data []byte) string {
	sum := sha3.NewLegacyKeccak256()
	sum.Write(data)
	return fmt.Sprintf("0x%x", sum.Sum(nil))
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
