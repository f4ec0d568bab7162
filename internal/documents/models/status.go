package models

// DocumentStatus is the lifecycle state of a document, stored as a string enum.
type DocumentStatus string

const (
	StatusDraft             DocumentStatus = "draft"
	StatusPendingApproval   DocumentStatus = "pending_approval"
	StatusPendingBlockchain DocumentStatus = "pending_blockchain"
	StatusMinted            DocumentStatus = "minted"
	StatusRevoked           DocumentStatus = "revoked"
	StatusRejected          DocumentStatus = "rejected"
	StatusFailed            DocumentStatus = "failed"
)

// approvable lists the states from which an approval may start.
var approvable = map[DocumentStatus]bool{
	StatusDraft:           true,
	StatusPendingApproval: true,
}

// CanTransitionTo reports whether the state machine allows moving from s to
// target. REVOKED, REJECTED and FAILED are terminal; MINTED only moves to
// REVOKED.
func (s DocumentStatus) CanTransitionTo(target DocumentStatus) bool {
	switch s {
	case StatusDraft:
		return target == StatusPendingApproval || target == StatusPendingBlockchain || target == StatusRejected
	case StatusPendingApproval:
		return target == StatusPendingBlockchain || target == StatusRejected
	case StatusPendingBlockchain:
		return target == StatusMinted || target == StatusFailed
	case StatusMinted:
		return target == StatusRevoked
	default:
		return false
	}
}

// IsApprovable reports whether an approval may start from this state.
func (s DocumentStatus) IsApprovable() bool { return approvable[s] }

// IsTerminal reports whether no further transition exists from this state.
func (s DocumentStatus) IsTerminal() bool {
	switch s {
	case StatusRevoked, StatusRejected, StatusFailed:
		return true
	default:
		return false
	}
}

// Valid reports whether s is a known status value.
func (s DocumentStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPendingApproval, StatusPendingBlockchain,
		StatusMinted, StatusRevoked, StatusRejected, StatusFailed:
		return true
	default:
		return false
	}
}
