package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "docmint/pkg/domain"
	dErrors "docmint/pkg/domain-errors"
)

func newDraft(t *testing.T) *Document {
	t.Helper()
	doc, err := NewDocument(
		id.DocumentID(uuid.New()),
		id.UserID(uuid.New()),
		id.DocumentTypeID(uuid.New()),
		"0xContract",
		map[string]any{"major": "Computer Science"},
		nil,
		time.Now(),
	)
	require.NoError(t, err)
	return doc
}

func TestStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to DocumentStatus
		allowed  bool
	}{
		{StatusDraft, StatusPendingBlockchain, true},
		{StatusDraft, StatusRejected, true},
		{StatusPendingApproval, StatusPendingBlockchain, true},
		{StatusPendingBlockchain, StatusMinted, true},
		{StatusPendingBlockchain, StatusFailed, true},
		{StatusMinted, StatusRevoked, true},
		{StatusMinted, StatusDraft, false},
		{StatusRevoked, StatusMinted, false},
		{StatusRejected, StatusDraft, false},
		{StatusFailed, StatusPendingBlockchain, false},
		{StatusDraft, StatusMinted, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.allowed, c.from.CanTransitionTo(c.to), "%s -> %s", c.from, c.to)
	}
}

func TestMintedSetsTokenFieldsTogether(t *testing.T) {
	doc := newDraft(t)
	now := time.Now()
	doc.ApplyPendingBlockchain(id.UserID(uuid.New()), now)
	require.Equal(t, StatusPendingBlockchain, doc.Status)

	doc.ApplyMinted(MintResult{TxHash: "0xtx", ChainDocID: "0xdoc", TokenID: "7"}, "QmFile", "QmMeta", "0xdigest", now)

	assert.Equal(t, StatusMinted, doc.Status)
	assert.True(t, doc.IsValid)
	require.NotNil(t, doc.TokenID)
	require.NotNil(t, doc.TxHash)
	require.NotNil(t, doc.ChainDocID)
	require.NotNil(t, doc.VerifiedAt)
	require.NotNil(t, doc.IssuedAt)
}

func TestFailedKeepsTokenFieldsEmpty(t *testing.T) {
	doc := newDraft(t)
	issuer := id.UserID(uuid.New())
	doc.ApplyPendingBlockchain(issuer, time.Now())
	doc.ApplyFailed(time.Now())

	assert.Equal(t, StatusFailed, doc.Status)
	assert.False(t, doc.IsValid)
	assert.Nil(t, doc.TokenID)
	assert.Nil(t, doc.TxHash)
	assert.Nil(t, doc.ChainDocID)
	assert.Equal(t, issuer, doc.IssuerID, "issuer set at approval entry is retained")
}

func TestCanApprove(t *testing.T) {
	doc := newDraft(t)
	assert.NoError(t, doc.CanApprove())

	doc.Status = StatusPendingApproval
	assert.NoError(t, doc.CanApprove())

	doc.Status = StatusMinted
	err := doc.CanApprove()
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	assert.Contains(t, err.Error(), "minted")
}

func TestCanRevokeRequiresChainRecord(t *testing.T) {
	doc := newDraft(t)
	err := doc.CanRevoke()
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	chainDoc := "0xdoc"
	doc.ChainDocID = &chainDoc
	doc.Status = StatusMinted
	assert.NoError(t, doc.CanRevoke())

	doc.ApplyRevoked("0xrevoke", time.Now())
	assert.Equal(t, StatusRevoked, doc.Status)
	assert.False(t, doc.IsValid)

	err = doc.CanRevoke()
	require.Error(t, err, "revoking twice is not allowed")
}

func TestRejectStoresReasonInMetadata(t *testing.T) {
	doc := newDraft(t)
	require.NoError(t, doc.CanReject())

	doc.ApplyRejected("missing prerequisites", time.Now())
	assert.Equal(t, StatusRejected, doc.Status)
	assert.False(t, doc.IsValid)
	assert.Equal(t, "missing prerequisites", doc.Metadata["rejection_reason"])
	assert.NotEmpty(t, doc.Metadata["rejected_at"])

	err := doc.CanReject()
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
}

func TestCloneDoesNotAlias(t *testing.T) {
	doc := newDraft(t)
	token := "5"
	doc.TokenID = &token

	cp := doc.Clone()
	*cp.TokenID = "6"
	cp.Metadata["major"] = "changed"

	assert.Equal(t, "5", *doc.TokenID)
	assert.Equal(t, "Computer Science", doc.Metadata["major"])
}
