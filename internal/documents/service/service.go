// Package service implements the document issuance orchestrator: the
// request/approve saga, the state machine transitions, and the query,
// verification, revocation and rejection operations built around it.
package service

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"docmint/internal/audit"
	"docmint/internal/documents/metrics"
	"docmint/internal/documents/models"
	"docmint/internal/documents/store"
	"docmint/internal/ledger"
	"docmint/internal/mfa"
	"docmint/internal/platform/redis"
	"docmint/internal/records"
	id "docmint/pkg/domain"
	dErrors "docmint/pkg/domain-errors"
)

// MFAVerifier validates a one-time code for a user. A transport-level failure
// is returned as an error (wrapping sentinel.ErrUnavailable); a known-invalid
// code comes back as Result.Valid=false.
type MFAVerifier interface {
	Verify(ctx context.Context, userID id.UserID, code string) (mfa.Result, error)
}

// ContentStore uploads bytes/JSON to content-addressed storage.
type ContentStore interface {
	UploadFile(ctx context.Context, data []byte, name string, keyvalues map[string]string) (string, error)
	UploadJSON(ctx context.Context, v any) (string, error)
	FetchFile(ctx context.Context, cid string) ([]byte, error)
	GatewayURL(cid string) string
}

// LedgerClient mints, revokes and reads document tokens on chain.
type LedgerClient interface {
	Mint(ctx context.Context, studentChainID int64, documentType, digest, metadataURI string) (models.MintResult, error)
	Revoke(ctx context.Context, chainDocID string) (string, error)
	ResolveChainID(ctx context.Context, walletAddress string) (int64, error)
	StudentProfile(ctx context.Context, chainID int64) (ledger.StudentProfile, error)
	VerifyToken(ctx context.Context, tokenID string) (ledger.TokenVerification, error)
	StudentTokens(ctx context.Context, chainID int64) ([]string, error)
}

// Renderer turns a render payload into document bytes.
type Renderer interface {
	Render(ctx context.Context, payload models.RenderPayload) ([]byte, error)
}

// EventEmitter broadcasts lifecycle events. Emit must not block.
type EventEmitter interface {
	Emit(event audit.Event)
}

// Deps collects the orchestrator's collaborators. Docs through Renderer are
// required; the rest are optional (nil disables the concern).
type Deps struct {
	Docs     store.Store
	Users    records.UserStore
	Wallets  records.WalletStore
	Types    records.DocumentTypeStore
	Certs    records.CertificateStore
	Scores   records.ScoreBoardStore
	Verifier MFAVerifier
	Content  ContentStore
	Ledger   LedgerClient
	Renderer Renderer

	Events  EventEmitter
	Metrics *metrics.Metrics
	Cache   *redis.Client
	Logger  *slog.Logger

	// ContractAddress is stamped on every new document and immutable after.
	ContractAddress string
	// CallTimeout bounds each external saga step (render, pin, mint).
	CallTimeout time.Duration
	// VerifyTTL bounds how long a verification result may be served from
	// cache. Zero disables caching even with a cache client present.
	VerifyTTL time.Duration
}

// Service is the issuance orchestrator. Safe for concurrent use; per-document
// serialization is enforced by the store's conditional transition, not by an
// in-process lock.
type Service struct {
	docs     store.Store
	users    records.UserStore
	wallets  records.WalletStore
	types    records.DocumentTypeStore
	certs    records.CertificateStore
	scores   records.ScoreBoardStore
	verifier MFAVerifier
	content  ContentStore
	ledger   LedgerClient
	renderer Renderer

	events  EventEmitter
	metrics *metrics.Metrics
	cache   *redis.Client
	logger  *slog.Logger
	tracer  trace.Tracer

	contractAddress string
	callTimeout     time.Duration
	verifyTTL       time.Duration
}

func New(deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	callTimeout := deps.CallTimeout
	if callTimeout <= 0 {
		callTimeout = 30 * time.Second
	}
	return &Service{
		docs:            deps.Docs,
		users:           deps.Users,
		wallets:         deps.Wallets,
		types:           deps.Types,
		certs:           deps.Certs,
		scores:          deps.Scores,
		verifier:        deps.Verifier,
		content:         deps.Content,
		ledger:          deps.Ledger,
		renderer:        deps.Renderer,
		events:          deps.Events,
		metrics:         deps.Metrics,
		cache:           deps.Cache,
		logger:          logger,
		tracer:          otel.Tracer("docmint/documents"),
		contractAddress: deps.ContractAddress,
		callTimeout:     callTimeout,
		verifyTTL:       deps.VerifyTTL,
	}
}

// checkMFA gates an operation on a valid one-time code. Privileged operations
// (approval) report failures as forbidden rather than unauthorized. A
// returned lockout timestamp is embedded in the error message.
func (s *Service) checkMFA(ctx context.Context, userID id.UserID, code string, privileged bool) error {
	result, err := s.verifier.Verify(ctx, userID, code)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeBadRequest, "mfa verification unavailable")
	}
	if result.Valid {
		return nil
	}

	errCode := dErrors.CodeUnauthorized
	if privileged {
		errCode = dErrors.CodeForbidden
	}
	if result.LockedUntil != nil {
		return dErrors.Newf(errCode, "mfa verification locked until %s",
			result.LockedUntil.UTC().Format(time.RFC3339))
	}
	return dErrors.New(errCode, "invalid mfa code")
}

// emit publishes a lifecycle event when an emitter is wired.
func (s *Service) emit(event audit.Event) {
	if s.events != nil {
		s.events.Emit(event)
	}
}

// stepCtx bounds one external call.
func (s *Service) stepCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.callTimeout)
}

// observeStep records the duration of a finished external step.
func (s *Service) observeStep(step string, start time.Time) {
	s.metrics.ObserveStep(step, time.Since(start).Seconds())
}
