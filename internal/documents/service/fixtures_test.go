package service

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/mock/gomock"

	"docmint/internal/audit"
	"docmint/internal/documents/service/mocks"
	"docmint/internal/documents/store"
	"docmint/internal/records"
	id "docmint/pkg/domain"
)

// fixture wires a Service against in-memory stores and gomock collaborators.
type fixture struct {
	service *Service
	docs    *store.InMemory
	refs    *records.InMemory
	events  *eventRecorder

	verifier *mocks.MockMFAVerifier
	content  *mocks.MockContentStore
	ledger   *mocks.MockLedgerClient
	renderer *mocks.MockRenderer

	student   *records.User
	manager   *records.User
	wallet    *records.Wallet
	transcTyp *records.DocumentType
	certTyp   *records.DocumentType
	now       time.Time
}

type eventRecorder struct {
	mu     sync.Mutex
	events []audit.Event
}

func (r *eventRecorder) Emit(event audit.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *eventRecorder) types() []audit.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]audit.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	f := &fixture{
		docs:     store.NewInMemory(),
		refs:     records.NewInMemory(),
		events:   &eventRecorder{},
		verifier: mocks.NewMockMFAVerifier(ctrl),
		content:  mocks.NewMockContentStore(ctrl),
		ledger:   mocks.NewMockLedgerClient(ctrl),
		renderer: mocks.NewMockRenderer(ctrl),
		now:      time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}

	f.student = &records.User{
		ID:          id.UserID(uuid.New()),
		FullName:    "Ada Lovelace",
		Role:        "student",
		StudentCode: "SV001",
		Major:       "Computer Science",
	}
	f.manager = &records.User{
		ID:       id.UserID(uuid.New()),
		FullName: "Grace Hopper",
		Role:     "manager",
	}
	f.wallet = &records.Wallet{
		ID:      id.WalletID(uuid.New()),
		UserID:  f.student.ID,
		Address: "0x1111111111111111111111111111111111111111",
	}
	f.transcTyp = &records.DocumentType{
		ID:          id.DocumentTypeID(uuid.New()),
		Name:        "Transcript",
		Description: "Official academic transcript",
	}
	f.certTyp = &records.DocumentType{
		ID:          id.DocumentTypeID(uuid.New()),
		Name:        "Certificate",
		Description: "Course completion certificate",
	}
	f.refs.PutUser(f.student)
	f.refs.PutUser(f.manager)
	f.refs.PutWallet(f.wallet)
	f.refs.PutDocumentType(f.transcTyp)
	f.refs.PutDocumentType(f.certTyp)

	f.service = New(Deps{
		Docs:            f.docs,
		Users:           f.refs.Users(),
		Wallets:         f.refs.Wallets(),
		Types:           f.refs.DocumentTypes(),
		Certs:           f.refs.Certificates(),
		Scores:          f.refs.ScoreBoard(),
		Verifier:        f.verifier,
		Content:         f.content,
		Ledger:          f.ledger,
		Renderer:        f.renderer,
		Events:          f.events,
		ContractAddress: "0xC0FFEE",
		CallTimeout:     5 * time.Second,
	})
	return f
}

func floatPtr(v float64) *float64 { return &v }

func listAll() store.ListFilter { return store.ListFilter{} }

// seedScores gives the student the canonical two-course score board:
// credits [3,4], final scores [8,9].
func (f *fixture) seedScores() {
	f.refs.PutScoreRows(f.student.ID, []records.ScoreRow{
		{
			UserID: f.student.ID, CourseName: "Algorithms", CourseCode: "CS301",
			Credits: 3, Scores: [6]*float64{floatPtr(7), nil, nil, nil, floatPtr(8), nil},
			LetterGrade: "B+", Semester: "1", AcademicYear: "2025",
		},
		{
			UserID: f.student.ID, CourseName: "Databases", CourseCode: "CS302",
			Credits: 4, Scores: [6]*float64{floatPtr(9), nil, nil, nil, nil, nil},
			LetterGrade: "A", Semester: "1", AcademicYear: "2025",
		},
	})
}
