package models

import (
	"time"

	id "docmint/pkg/domain"
	dErrors "docmint/pkg/domain-errors"
)

// Document is the aggregate root for an issued educational document.
//
// Invariants:
//   - TokenID, TxHash and ChainDocID are all-or-nothing: set together on a
//     successful mint, never individually
//   - IsValid=true implies Status=minted and VerifiedAt is set
//   - ContractAddress is immutable after creation
//   - Status moves only along DocumentStatus.CanTransitionTo
//
// The render payload snapshot is persisted at request time so approval can be
// retried without re-deriving it from certificate/scoreboard data that may
// have changed since.
type Document struct {
	ID             id.DocumentID     `json:"document_id"`
	UserID         id.UserID         `json:"user_id"`
	IssuerID       id.UserID         `json:"issuer_id"`
	DocumentTypeID id.DocumentTypeID `json:"document_type_id"`

	Status  DocumentStatus `json:"status"`
	IsValid bool           `json:"is_valid"`

	ChainDocID      *string `json:"blockchain_doc_id,omitempty"`
	TokenID         *string `json:"token_id,omitempty"`
	TxHash          *string `json:"tx_hash,omitempty"`
	ContractAddress string  `json:"contract_address"`

	MetadataCID   *string `json:"ipfs_hash,omitempty"`
	FileCID       *string `json:"pdf_ipfs_hash,omitempty"`
	ContentDigest *string `json:"document_hash,omitempty"`

	Metadata map[string]any `json:"metadata,omitempty"`
	Payload  *RenderPayload `json:"render_payload,omitempty"`

	IssuedAt   *time.Time `json:"issued_at,omitempty"`
	VerifiedAt *time.Time `json:"verified_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// MintResult carries the on-chain artifacts of a successful mint.
type MintResult struct {
	TxHash     string
	ChainDocID string
	TokenID    string
}

// NewDocument creates a draft document for a request.
func NewDocument(
	docID id.DocumentID,
	userID id.UserID,
	typeID id.DocumentTypeID,
	contractAddress string,
	metadata map[string]any,
	payload *RenderPayload,
	now time.Time,
) (*Document, error) {
	if docID.IsZero() || userID.IsZero() || typeID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "document requires id, user and type")
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Document{
		ID:              docID,
		UserID:          userID,
		IssuerID:        userID, // rewritten when a manager approves
		DocumentTypeID:  typeID,
		Status:          StatusDraft,
		IsValid:         false,
		ContractAddress: contractAddress,
		Metadata:        metadata,
		Payload:         payload,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

// CanApprove checks whether an approval may start from the current state.
// Returns an error naming the current status when it may not.
func (d *Document) CanApprove() error {
	if !d.Status.IsApprovable() {
		return dErrors.Newf(dErrors.CodeConflict, "cannot approve document with status: %s", d.Status)
	}
	return nil
}

// ApplyPendingBlockchain moves the document to the durable pre-mint state.
// Committed to the repository before any external call so a crash afterwards
// is observable as "stuck in pending_blockchain" rather than silently lost.
func (d *Document) ApplyPendingBlockchain(issuerID id.UserID, now time.Time) {
	d.Status = StatusPendingBlockchain
	d.IssuerID = issuerID
	d.UpdatedAt = now
}

// ApplyMinted records a successful mint. All on-chain references are set
// together with the status flip, keeping the all-or-nothing invariant.
func (d *Document) ApplyMinted(res MintResult, fileCID, metadataCID, digest string, now time.Time) {
	d.TxHash = &res.TxHash
	d.ChainDocID = &res.ChainDocID
	d.TokenID = &res.TokenID
	d.FileCID = &fileCID
	d.MetadataCID = &metadataCID
	d.ContentDigest = &digest
	d.Status = StatusMinted
	d.IsValid = true
	d.IssuedAt = &now
	d.VerifiedAt = &now
	d.UpdatedAt = now
}

// ApplyFailed marks the saga as failed past the durability boundary. Token
// fields stay empty; the issuer id set at approval entry is retained.
func (d *Document) ApplyFailed(now time.Time) {
	d.Status = StatusFailed
	d.IsValid = false
	d.UpdatedAt = now
}

// CanRevoke checks that the document was minted on chain.
func (d *Document) CanRevoke() error {
	if d.ChainDocID == nil || *d.ChainDocID == "" {
		return dErrors.New(dErrors.CodeInvariantViolation, "document has no on-chain record")
	}
	if !d.Status.CanTransitionTo(StatusRevoked) {
		return dErrors.Newf(dErrors.CodeConflict, "cannot revoke document with status: %s", d.Status)
	}
	return nil
}

// ApplyRevoked records an on-chain revocation.
func (d *Document) ApplyRevoked(txHash string, now time.Time) {
	d.Status = StatusRevoked
	d.IsValid = false
	d.TxHash = &txHash
	d.VerifiedAt = &now
	d.UpdatedAt = now
}

// CanReject checks that the document has not yet entered the mint pipeline.
func (d *Document) CanReject() error {
	if d.Status != StatusDraft && d.Status != StatusPendingApproval {
		return dErrors.Newf(dErrors.CodeConflict, "cannot reject document with status: %s", d.Status)
	}
	return nil
}

// ApplyRejected records a rejection with its reason inside the metadata map.
func (d *Document) ApplyRejected(reason string, now time.Time) {
	if d.Metadata == nil {
		d.Metadata = map[string]any{}
	}
	d.Metadata["rejection_reason"] = reason
	d.Metadata["rejected_at"] = now.UTC().Format(time.RFC3339)
	d.Status = StatusRejected
	d.IsValid = false
	d.UpdatedAt = now
}

// ApplyVerification records the observable side effect of a verify call on a
// locally known document.
func (d *Document) ApplyVerification(chainValid bool, now time.Time) {
	d.IsValid = chainValid && d.Status == StatusMinted
	d.VerifiedAt = &now
	d.UpdatedAt = now
}

// Clone returns a deep enough copy for the in-memory store to hand out
// without aliasing internal state.
func (d *Document) Clone() *Document {
	cp := *d
	cp.ChainDocID = clonePtr(d.ChainDocID)
	cp.TokenID = clonePtr(d.TokenID)
	cp.TxHash = clonePtr(d.TxHash)
	cp.MetadataCID = clonePtr(d.MetadataCID)
	cp.FileCID = clonePtr(d.FileCID)
	cp.ContentDigest = clonePtr(d.ContentDigest)
	cp.IssuedAt = clonePtr(d.IssuedAt)
	cp.VerifiedAt = clonePtr(d.VerifiedAt)
	if d.Metadata != nil {
		cp.Metadata = make(map[string]any, len(d.Metadata))
		for k, v := range d.Metadata {
			cp.Metadata[k] = v
		}
	}
	if d.Payload != nil {
		p := d.Payload.Clone()
		cp.Payload = &p
	}
	return &cp
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
