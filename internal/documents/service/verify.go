package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"docmint/internal/documents/models"
	"docmint/internal/ledger"
	dErrors "docmint/pkg/domain-errors"
	"docmint/pkg/platform/sentinel"
	"docmint/pkg/requestcontext"
)

const verifyCachePrefix = "docmint:verify:"

// VerificationView combines the chain's view of a token with the local
// record, when one exists.
type VerificationView struct {
	TokenID    string                   `json:"token_id"`
	Chain      ledger.TokenVerification `json:"chain"`
	Database   *models.Document         `json:"database"` // null when unknown locally
	CrossValid bool                     `json:"cross_valid"`
	CheckedAt  time.Time                `json:"checked_at"`
}

// VerifyDocument checks a token against the chain and the local store.
// Cross-validity holds when the chain reports the token valid and either no
// local record exists or the local integrity digest matches the on-chain one.
//
// When a local record exists, its verified_at/is_valid are refreshed as an
// observable side effect. Results are cached for VerifyTTL; a cache hit skips
// both the chain read and the side effect, which is the accepted staleness
// window.
func (s *Service) VerifyDocument(ctx context.Context, tokenID string) (*VerificationView, error) {
	ctx, span := s.tracer.Start(ctx, "documents.verify")
	defer span.End()
	now := requestcontext.Now(ctx)

	if cached := s.cachedVerification(ctx, tokenID); cached != nil {
		s.metrics.ObserveOutcome("verify", "success")
		return cached, nil
	}

	chainCtx, cancel := s.stepCtx(ctx)
	chainView, err := s.ledger.VerifyToken(chainCtx, tokenID)
	cancel()
	if err != nil {
		s.metrics.ObserveOutcome("verify", "failure")
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeNotFound, "token not found on chain")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "chain verification unavailable")
	}

	doc, err := s.docs.FindByTokenID(ctx, tokenID)
	if err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		s.metrics.ObserveOutcome("verify", "failure")
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load local document")
	}

	crossValid := chainView.IsValid
	if doc != nil {
		crossValid = crossValid && digestsMatch(doc.ContentDigest, chainView.Metadata.ContentDigest)

		doc.ApplyVerification(chainView.IsValid, now)
		if err := s.docs.Update(ctx, doc); err != nil {
			// The verification answer is still correct; only the bookkeeping
			// side effect was lost.
			s.logger.WarnContext(ctx, "persist verification side effect",
				"document_id", doc.ID.String(),
				"error", err)
		}
	}

	view := &VerificationView{
		TokenID:    tokenID,
		Chain:      chainView,
		Database:   doc,
		CrossValid: crossValid,
		CheckedAt:  now.UTC(),
	}
	s.cacheVerification(ctx, tokenID, view)
	s.metrics.ObserveOutcome("verify", "success")
	return view, nil
}

func digestsMatch(local *string, chain string) bool {
	if local == nil {
		return false
	}
	return strings.EqualFold(*local, chain)
}

func (s *Service) cachedVerification(ctx context.Context, tokenID string) *VerificationView {
	if s.cache == nil || s.verifyTTL <= 0 {
		return nil
	}
	raw, err := s.cache.Get(ctx, verifyCachePrefix+tokenID).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			s.metrics.ObserveVerifyCache("miss")
		} else {
			s.metrics.ObserveVerifyCache("error")
			s.logger.WarnContext(ctx, "verification cache read", "error", err)
		}
		return nil
	}
	var view VerificationView
	if err := json.Unmarshal([]byte(raw), &view); err != nil {
		s.metrics.ObserveVerifyCache("error")
		return nil
	}
	s.metrics.ObserveVerifyCache("hit")
	return &view
}

func (s *Service) cacheVerification(ctx context.Context, tokenID string, view *VerificationView) {
	if s.cache == nil || s.verifyTTL <= 0 {
		return
	}
	raw, err := json.Marshal(view)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, verifyCachePrefix+tokenID, raw, s.verifyTTL).Err(); err != nil {
		s.logger.WarnContext(ctx, "verification cache write", "error", err)
	}
}
