package records

import (
	"context"
	"sort"
	"sync"

	id "docmint/pkg/domain"
	"docmint/pkg/platform/sentinel"
)

// InMemory backs all reference-data stores with maps for unit tests and local
// development. Safe for concurrent use.
type InMemory struct {
	mu            sync.RWMutex
	users         map[id.UserID]*User
	wallets       map[id.UserID]*Wallet
	documentTypes map[id.DocumentTypeID]*DocumentType
	certificates  map[id.CertificateID]*Certificate
	scores        map[id.UserID][]ScoreRow
}

func NewInMemory() *InMemory {
	return &InMemory{
		users:         make(map[id.UserID]*User),
		wallets:       make(map[id.UserID]*Wallet),
		documentTypes: make(map[id.DocumentTypeID]*DocumentType),
		certificates:  make(map[id.CertificateID]*Certificate),
		scores:        make(map[id.UserID][]ScoreRow),
	}
}

// Seed helpers for tests.

func (m *InMemory) PutUser(u *User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

func (m *InMemory) PutWallet(w *Wallet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wallets[w.UserID] = w
}

func (m *InMemory) PutDocumentType(dt *DocumentType) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documentTypes[dt.ID] = dt
}

func (m *InMemory) PutCertificate(c *Certificate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.certificates[c.ID] = c
}

func (m *InMemory) PutScoreRows(userID id.UserID, rows []ScoreRow) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[userID] = rows
}

func (m *InMemory) FindByID(ctx context.Context, userID id.UserID) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *InMemory) FindByUserID(ctx context.Context, userID id.UserID) (*Wallet, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.wallets[userID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

// Users/Wallets/DocumentTypes/Certificates/ScoreBoard return typed views over
// the same backing maps so one InMemory seeds a whole service test.

type memoryDocumentTypes struct{ m *InMemory }
type memoryCertificates struct{ m *InMemory }
type memoryScores struct{ m *InMemory }
type memoryUsers struct{ m *InMemory }
type memoryWallets struct{ m *InMemory }

func (m *InMemory) Users() UserStore                 { return memoryUsers{m} }
func (m *InMemory) Wallets() WalletStore             { return memoryWallets{m} }
func (m *InMemory) DocumentTypes() DocumentTypeStore { return memoryDocumentTypes{m} }
func (m *InMemory) Certificates() CertificateStore   { return memoryCertificates{m} }
func (m *InMemory) ScoreBoard() ScoreBoardStore      { return memoryScores{m} }

func (v memoryUsers) FindByID(ctx context.Context, userID id.UserID) (*User, error) {
	return v.m.FindByID(ctx, userID)
}

func (v memoryWallets) FindByUserID(ctx context.Context, userID id.UserID) (*Wallet, error) {
	return v.m.FindByUserID(ctx, userID)
}

func (v memoryDocumentTypes) FindByID(ctx context.Context, typeID id.DocumentTypeID) (*DocumentType, error) {
	v.m.mu.RLock()
	defer v.m.mu.RUnlock()
	dt, ok := v.m.documentTypes[typeID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *dt
	return &cp, nil
}

func (v memoryDocumentTypes) List(ctx context.Context) ([]*DocumentType, error) {
	v.m.mu.RLock()
	defer v.m.mu.RUnlock()
	out := make([]*DocumentType, 0, len(v.m.documentTypes))
	for _, dt := range v.m.documentTypes {
		cp := *dt
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (v memoryCertificates) FindByID(ctx context.Context, certID id.CertificateID) (*Certificate, error) {
	v.m.mu.RLock()
	defer v.m.mu.RUnlock()
	c, ok := v.m.certificates[certID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (v memoryScores) ListByUser(ctx context.Context, userID id.UserID) ([]ScoreRow, error) {
	v.m.mu.RLock()
	defer v.m.mu.RUnlock()
	rows := append([]ScoreRow(nil), v.m.scores[userID]...)
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].AcademicYear != rows[j].AcademicYear {
			return rows[i].AcademicYear < rows[j].AcademicYear
		}
		if rows[i].Semester != rows[j].Semester {
			return rows[i].Semester < rows[j].Semester
		}
		return rows[i].CourseName < rows[j].CourseName
	})
	return rows, nil
}
