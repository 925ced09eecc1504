package domain

type Role string

const (
	RoleGuest  Role = "guest"
	RoleTenant Role = "tenant"
	// RoleSystem is used by the scheduler for checkout completion; it is
	// never assigned to a user.
	RoleSystem Role = "system"
)

// Actor is the verified identity attached to a request. Authentication
// happens at the edge; the core trusts these values.
type Actor struct {
	ID   int64
	Role Role
}

type Action string

const (
	ActionUploadProof Action = "upload_proof"
	ActionCancel      Action = "cancel"
	ActionApprove     Action = "approve"
	ActionReject      Action = "reject"
	ActionRemind      Action = "remind"
	ActionComplete    Action = "complete"
)
