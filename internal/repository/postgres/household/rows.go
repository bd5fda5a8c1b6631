package household

import (
	"slices"
	"time"

	"homebase-go/internal/domain/apperr"
	householddomain "homebase-go/internal/domain/household"
)

type householdRow struct {
	ID        string    `gorm:"column:id;type:uuid;primaryKey"`
	Name      string    `gorm:"column:name;not null"`
	OwnerID   string    `gorm:"column:owner_id;type:uuid;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (householdRow) TableName() string {
	return "households"
}

type memberRow struct {
	HouseholdID string    `gorm:"column:household_id;type:uuid;primaryKey"`
	UserID      string    `gorm:"column:user_id;type:uuid;primaryKey"`
	Role        string    `gorm:"column:role;not null"`
	JoinedAt    time.Time `gorm:"column:joined_at"`
}

func (memberRow) TableName() string {
	return "household_members"
}

type inviteRow struct {
	ID          string    `gorm:"column:id;type:uuid;primaryKey"`
	UserID      string    `gorm:"column:user_id;type:uuid;not null"`
	HouseholdID string    `gorm:"column:household_id;type:uuid;not null"`
	InvitedBy   string    `gorm:"column:invited_by"`
	Status      string    `gorm:"column:status;not null"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (inviteRow) TableName() string {
	return "invites"
}

func decodeHousehold(row householdRow, members []string) (householddomain.Household, error) {
	switch {
	case row.Name == "":
		return householddomain.Household{}, apperr.Decode("household", row.ID, "empty name")
	case row.OwnerID == "":
		return householddomain.Household{}, apperr.Decode("household", row.ID, "missing owner")
	case !slices.Contains(members, row.OwnerID):
		return householddomain.Household{}, apperr.Decode("household", row.ID, "owner is not a member")
	}

	return householddomain.Household{
		ID:        row.ID,
		Name:      row.Name,
		OwnerID:   row.OwnerID,
		Members:   members,
		CreatedAt: row.CreatedAt,
	}, nil
}

func decodeInvite(row inviteRow) (householddomain.Invite, error) {
	status := householddomain.InviteStatus(row.Status)
	switch {
	case !status.Valid():
		return householddomain.Invite{}, apperr.Decode("invite", row.ID, "unknown status "+row.Status)
	case row.HouseholdID == "":
		return householddomain.Invite{}, apperr.Decode("invite", row.ID, "missing household")
	}

	return householddomain.Invite{
		ID:          row.ID,
		UserID:      row.UserID,
		HouseholdID: row.HouseholdID,
		InvitedBy:   row.InvitedBy,
		Status:      status,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}
