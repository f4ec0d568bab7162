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
)

type MemoryStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *MemoryStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestMemoryStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryStoreSuite))
}

func (s *MemoryStoreSuite) newDraft(userID id.UserID, createdAt time.Time) *models.Document {
	doc, err := models.NewDocument(
		id.DocumentID(uuid.New()),
		userID,
		id.DocumentTypeID(uuid.New()),
		"0xContract",
		nil, nil, createdAt,
	)
	s.Require().NoError(err)
	return doc
}

func (s *MemoryStoreSuite) TestCreateAndFind() {
	doc := s.newDraft(id.UserID(uuid.New()), time.Now())
	s.Require().NoError(s.store.Create(s.ctx, doc))

	found, err := s.store.FindByID(s.ctx, doc.ID)
	s.Require().NoError(err)
	s.Equal(doc.ID, found.ID)
	s.Equal(models.StatusDraft, found.Status)

	_, err = s.store.FindByID(s.ctx, id.DocumentID(uuid.New()))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestCreateRejectsDuplicate() {
	doc := s.newDraft(id.UserID(uuid.New()), time.Now())
	s.Require().NoError(s.store.Create(s.ctx, doc))
	s.Require().ErrorIs(s.store.Create(s.ctx, doc), sentinel.ErrConflict)
}

func (s *MemoryStoreSuite) TestFindByTokenID() {
	doc := s.newDraft(id.UserID(uuid.New()), time.Now())
	token := "42"
	doc.TokenID = &token
	s.Require().NoError(s.store.Create(s.ctx, doc))

	found, err := s.store.FindByTokenID(s.ctx, "42")
	s.Require().NoError(err)
	s.Equal(doc.ID, found.ID)

	_, err = s.store.FindByTokenID(s.ctx, "999")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *MemoryStoreSuite) TestListByUserNewestFirst() {
	userID := id.UserID(uuid.New())
	base := time.Now()
	older := s.newDraft(userID, base.Add(-time.Hour))
	newer := s.newDraft(userID, base)
	other := s.newDraft(id.UserID(uuid.New()), base)

	s.Require().NoError(s.store.Create(s.ctx, older))
	s.Require().NoError(s.store.Create(s.ctx, newer))
	s.Require().NoError(s.store.Create(s.ctx, other))

	docs, err := s.store.ListByUser(s.ctx, userID)
	s.Require().NoError(err)
	s.Require().Len(docs, 2)
	s.Equal(newer.ID, docs[0].ID)
	s.Equal(older.ID, docs[1].ID)
}

func (s *MemoryStoreSuite) TestListFiltersAndPages() {
	userID := id.UserID(uuid.New())
	base := time.Now()
	for i := 0; i < 5; i++ {
		doc := s.newDraft(userID, base.Add(time.Duration(i)*time.Minute))
		if i == 0 {
			doc.Status = models.StatusRejected
		}
		s.Require().NoError(s.store.Create(s.ctx, doc))
	}

	rejected := models.StatusRejected
	docs, total, err := s.store.List(s.ctx, ListFilter{Status: &rejected})
	s.Require().NoError(err)
	s.Equal(1, total)
	s.Require().Len(docs, 1)

	docs, total, err = s.store.List(s.ctx, ListFilter{Page: 2, PerPage: 2})
	s.Require().NoError(err)
	s.Equal(5, total)
	s.Require().Len(docs, 2)

	// default sort is newest-first
	all, _, err := s.store.List(s.ctx, ListFilter{})
	s.Require().NoError(err)
	s.True(all[0].CreatedAt.After(all[len(all)-1].CreatedAt))
}

func (s *MemoryStoreSuite) TestTransitionConditional() {
	doc := s.newDraft(id.UserID(uuid.New()), time.Now())
	s.Require().NoError(s.store.Create(s.ctx, doc))
	issuer := id.UserID(uuid.New())

	updated, err := s.store.TransitionToPendingBlockchain(s.ctx, doc.ID, issuer, time.Now())
	s.Require().NoError(err)
	s.Equal(models.StatusPendingBlockchain, updated.Status)
	s.Equal(issuer, updated.IssuerID)

	_, err = s.store.TransitionToPendingBlockchain(s.ctx, doc.ID, issuer, time.Now())
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	_, err = s.store.TransitionToPendingBlockchain(s.ctx, id.DocumentID(uuid.New()), issuer, time.Now())
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

// TestTransitionRace launches concurrent transitions on one draft; exactly
// one must win.
func (s *MemoryStoreSuite) TestTransitionRace() {
	doc := s.newDraft(id.UserID(uuid.New()), time.Now())
	s.Require().NoError(s.store.Create(s.ctx, doc))

	const attempts = 16
	var wins atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.store.TransitionToPendingBlockchain(s.ctx, doc.ID, id.UserID(uuid.New()), time.Now())
			if err == nil {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()
	s.Equal(int32(1), wins.Load())
}
