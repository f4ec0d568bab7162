//go:build integration

package store

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"docmint/internal/documents/models"
	id "docmint/pkg/domain"
	"docmint/pkg/platform/sentinel"
	"docmint/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *Postgres
	ctx   context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.store = NewPostgres(s.pg.DB)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(s.ctx))
}

func (s *PostgresStoreSuite) newDraft() *models.Document {
	doc, err := models.NewDocument(
		id.DocumentID(uuid.New()),
		id.UserID(uuid.New()),
		id.DocumentTypeID(uuid.New()),
		"0xContract",
		map[string]any{"origin": "integration"},
		&models.RenderPayload{
			Version:  models.RenderPayloadVersion,
			Template: models.TemplateDescriptor{Name: "Transcript"},
			Bindings: []models.FieldBinding{
				{Name: models.BindingNameStudent, Kind: models.BindingText, Value: "Ada"},
			},
		},
		time.Now().UTC().Truncate(time.Microsecond),
	)
	s.Require().NoError(err)
	return doc
}

func (s *PostgresStoreSuite) TestRoundTrip() {
	doc := s.newDraft()
	s.Require().NoError(s.store.Create(s.ctx, doc))

	found, err := s.store.FindByID(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal(doc.ID, found.ID)
	s.Equal(models.StatusDraft, found.Status)
	s.Equal("integration", found.Metadata["origin"])
	s.Require().NotNil(found.Payload)
	s.Equal("Ada", found.Payload.Binding(models.BindingNameStudent).Value)
}

func (s *PostgresStoreSuite) TestUpdatePersistsMintFields() {
	doc := s.newDraft()
	s.Require().NoError(s.store.Create(s.ctx, doc))

	now := time.Now().UTC().Truncate(time.Microsecond)
	doc.ApplyPendingBlockchain(id.UserID(uuid.New()), now)
	doc.ApplyMinted(
		models.MintResult{TxHash: "0xTX", ChainDocID: "7", TokenID: "42"},
		"QmFile", "QmMeta", "0xDIGEST", now)
	s.Require().NoError(s.store.Update(s.ctx, doc))

	found, err := s.store.FindByTokenID(s.ctx, "42")
	s.Require().NoError(err)
	s.Equal(models.StatusMinted, found.Status)
	s.True(found.IsValid)
	s.Require().NotNil(found.ChainDocID)
	s.Equal("7", *found.ChainDocID)
	s.Require().NotNil(found.IssuedAt)
}

func (s *PostgresStoreSuite) TestTransitionConditional() {
	doc := s.newDraft()
	s.Require().NoError(s.store.Create(s.ctx, doc))
	issuer := id.UserID(uuid.New())

	updated, err := s.store.TransitionToPendingBlockchain(s.ctx, doc.ID, issuer, time.Now().UTC())
	s.Require().NoError(err)
	s.Equal(models.StatusPendingBlockchain, updated.Status)
	s.Equal(issuer, updated.IssuerID)

	_, err = s.store.TransitionToPendingBlockchain(s.ctx, doc.ID, issuer, time.Now().UTC())
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	_, err = s.store.TransitionToPendingBlockchain(s.ctx, id.DocumentID(uuid.New()), issuer, time.Now().UTC())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestTransitionRace drives concurrent conditional updates against the real
// database; the row-level atomicity must let exactly one through.
func (s *PostgresStoreSuite) TestTransitionRace() {
	doc := s.newDraft()
	s.Require().NoError(s.store.Create(s.ctx, doc))

	const attempts = 8
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.TransitionToPendingBlockchain(s.ctx, doc.ID, id.UserID(uuid.New()), time.Now().UTC())
			if err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	s.Equal(int32(1), wins.Load())
}

func (s *PostgresStoreSuite) TestListFilterAndPaging() {
	for i := 0; i < 5; i++ {
		doc := s.newDraft()
		if i == 0 {
			doc.Status = models.StatusMinted
		}
		s.Require().NoError(s.store.Create(s.ctx, doc))
	}

	minted := models.StatusMinted
	docs, total, err := s.store.List(s.ctx, ListFilter{Status: &minted})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Len(docs, 1)

	docs, total, err = s.store.List(s.ctx, ListFilter{Page: 2, PerPage: 2})
	s.Require().NoError(err)
	s.Equal(5, total)
	s.Len(docs, 2)
}
