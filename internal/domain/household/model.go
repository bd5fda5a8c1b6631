package household

import (
	"slices"
	"time"
)

const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusDeclined InviteStatus = "declined"
)

func (s InviteStatus) Valid() bool {
	switch s {
	case InviteStatusPending, InviteStatusAccepted, InviteStatusDeclined:
		return true
	default:
		return false
	}
}

// Household is a shared workspace. OwnerID is always present in Members.
type Household struct {
	ID        string
	Name      string
	OwnerID   string
	Members   []string
	CreatedAt time.Time
}

func (h Household) HasMember(userID string) bool {
	return slices.Contains(h.Members, userID)
}

type Member struct {
	HouseholdID string
	UserID      string
	Role        string
	JoinedAt    time.Time
}

type MemberProfile struct {
	UserID   string
	Role     string
	JoinedAt time.Time
	Email    *string
}

// Invite is addressed to exactly one user and one household and is stored
// under the invited user.
type Invite struct {
	ID          string
	UserID      string
	HouseholdID string
	InvitedBy   string
	Status      InviteStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type InviteInput struct {
	HouseholdID  string
	InviterEmail string
}

type InviteEvent struct {
	InviteID    string    `json:"invite_id"`
	UserID      string    `json:"user_id"`
	HouseholdID string    `json:"household_id"`
	InvitedBy   string    `json:"invited_by"`
	IssuedAt    time.Time `json:"issued_at"`
}
