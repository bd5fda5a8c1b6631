package household

import (
	"context"
	"time"
)

// Repository reads and writes households, memberships and invites. Every
// method called on the Repository handed to fn commits or rolls back together.
type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	ListHouseholdsByMember(ctx context.Context, userID string) ([]Household, error)
	GetHousehold(ctx context.Context, householdID string) (*Household, error)
	CreateHousehold(ctx context.Context, household *Household) error
	AddMember(ctx context.Context, member Member) error
	IsMember(ctx context.Context, householdID, userID string) (bool, error)
	ListMemberProfiles(ctx context.Context, householdID string) ([]MemberProfile, error)
	CreateInvite(ctx context.Context, invite *Invite) error
	GetInvite(ctx context.Context, userID, inviteID string) (*Invite, error)
	ListInvitesByStatus(ctx context.Context, userID string, status InviteStatus) ([]Invite, error)
	// GetInvite locks the invite row until the surrounding transaction ends.
	// UpdateInviteStatus only moves an invite that is still in status from and
	// returns ErrInviteNotPending otherwise.
	UpdateInviteStatus(ctx context.Context, userID, inviteID string, from, to InviteStatus, at time.Time) error
}

type UserDirectory interface {
	// FindUserIDsByEmail returns matching user ids oldest first.
	FindUserIDsByEmail(ctx context.Context, email string) ([]string, error)
}
