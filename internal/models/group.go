package models

// MembershipRole is a member's role within a group.
type MembershipRole string

const (
	RoleAdmin  MembershipRole = "admin"
	RoleMember MembershipRole = "member"
)

// Group represents a set of users who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates").
	Name string

	// Description is an optional free-text description.
	Description string

	// CreatedBy is the user ID of the group creator.
	CreatedBy string

	// IsFriendGroup marks the hidden two-person group backing a 1:1
	// friend ledger. Friend groups never show up in group listings.
	IsFriendGroup bool

	// Deleted soft-deletes the group. Balances for deleted groups are no
	// longer computed.
	Deleted bool

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// Membership links a user to a group.
type Membership struct {
	UserID   string
	GroupID  string
	Role     MembershipRole
	IsActive bool
	JoinedAt int64
}
