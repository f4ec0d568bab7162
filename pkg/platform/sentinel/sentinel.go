package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and external clients return
// these (optionally wrapped) so services can translate them into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrConflict: concurrent update lost the race (e.g. status CAS matched no row)
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrUnavailable: external service or resource temporarily unreachable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
