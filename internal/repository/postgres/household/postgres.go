package household

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"homebase-go/internal/domain/apperr"
	householddomain "homebase-go/internal/domain/household"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Transaction runs fn inside one database transaction. A commit that fails
// after fn succeeded is reported as apperr.ErrPartialCommit because the
// server may or may not have applied it.
func (r *PostgresRepository) Transaction(ctx context.Context, fn func(householddomain.Repository) error) error {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return apperr.Unavailable("households.begin", tx.Error)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(&PostgresRepository{db: tx}); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("households.commit: %w: %w", apperr.ErrPartialCommit, err)
	}
	return nil
}

func (r *PostgresRepository) ListHouseholdsByMember(ctx context.Context, userID string) ([]householddomain.Household, error) {
	if !isID(userID) {
		return []householddomain.Household{}, nil
	}

	var rows []householdRow
	if err := r.db.WithContext(ctx).
		Table("households").
		Select("households.*").
		Joins("join household_members on household_members.household_id = households.id").
		Where("household_members.user_id = ?", userID).
		Order("households.created_at asc, households.id asc").
		Find(&rows).Error; err != nil {
		return nil, apperr.Unavailable("households.list", err)
	}
	if len(rows) == 0 {
		return []householddomain.Household{}, nil
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	members, err := r.memberIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	households := make([]householddomain.Household, 0, len(rows))
	for _, row := range rows {
		household, err := decodeHousehold(row, members[row.ID])
		if err != nil {
			return nil, err
		}
		households = append(households, household)
	}
	return households, nil
}

func (r *PostgresRepository) GetHousehold(ctx context.Context, householdID string) (*householddomain.Household, error) {
	if !isID(householdID) {
		return nil, householddomain.ErrHouseholdNotFound
	}

	var row householdRow
	if err := r.db.WithContext(ctx).Where("id = ?", householdID).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, householddomain.ErrHouseholdNotFound
		}
		return nil, apperr.Unavailable("households.get", err)
	}

	members, err := r.memberIDs(ctx, []string{row.ID})
	if err != nil {
		return nil, err
	}

	household, err := decodeHousehold(row, members[row.ID])
	if err != nil {
		return nil, err
	}
	return &household, nil
}

func (r *PostgresRepository) CreateHousehold(ctx context.Context, household *householddomain.Household) error {
	row := householdRow{
		ID:        household.ID,
		Name:      household.Name,
		OwnerID:   household.OwnerID,
		CreatedAt: household.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return apperr.Unavailable("households.create", err)
	}
	return nil
}

// AddMember keeps the existing role when the user already belongs to the
// household.
func (r *PostgresRepository) AddMember(ctx context.Context, member householddomain.Member) error {
	row := memberRow{
		HouseholdID: member.HouseholdID,
		UserID:      member.UserID,
		Role:        member.Role,
		JoinedAt:    member.JoinedAt,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "household_id"}, {Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&row).Error; err != nil {
		return apperr.Unavailable("households.add_member", err)
	}
	return nil
}

func (r *PostgresRepository) IsMember(ctx context.Context, householdID, userID string) (bool, error) {
	if !isID(householdID) || !isID(userID) {
		return false, nil
	}

	var count int64
	if err := r.db.WithContext(ctx).
		Model(&memberRow{}).
		Where("household_id = ? AND user_id = ?", householdID, userID).
		Count(&count).Error; err != nil {
		return false, apperr.Unavailable("households.is_member", err)
	}
	return count > 0, nil
}

func (r *PostgresRepository) ListMemberProfiles(ctx context.Context, householdID string) ([]householddomain.MemberProfile, error) {
	type profileRow struct {
		UserID   string    `gorm:"column:user_id"`
		Role     string    `gorm:"column:role"`
		JoinedAt time.Time `gorm:"column:joined_at"`
		Email    *string   `gorm:"column:email"`
	}

	var rows []profileRow
	if err := r.db.WithContext(ctx).
		Table("household_members").
		Select("household_members.user_id, household_members.role, household_members.joined_at, user_profiles.email").
		Joins("left join user_profiles on user_profiles.user_id = household_members.user_id").
		Where("household_members.household_id = ?", householdID).
		Order("household_members.joined_at asc, household_members.user_id asc").
		Scan(&rows).Error; err != nil {
		return nil, apperr.Unavailable("households.list_members", err)
	}

	members := make([]householddomain.MemberProfile, 0, len(rows))
	for _, row := range rows {
		members = append(members, householddomain.MemberProfile{
			UserID:   row.UserID,
			Role:     row.Role,
			JoinedAt: row.JoinedAt,
			Email:    row.Email,
		})
	}
	return members, nil
}

func (r *PostgresRepository) CreateInvite(ctx context.Context, invite *householddomain.Invite) error {
	row := inviteRow{
		ID:          invite.ID,
		UserID:      invite.UserID,
		HouseholdID: invite.HouseholdID,
		InvitedBy:   invite.InvitedBy,
		Status:      string(invite.Status),
		CreatedAt:   invite.CreatedAt,
		UpdatedAt:   invite.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return apperr.Unavailable("invites.create", err)
	}
	return nil
}

func (r *PostgresRepository) GetInvite(ctx context.Context, userID, inviteID string) (*householddomain.Invite, error) {
	if !isID(userID) || !isID(inviteID) {
		return nil, householddomain.ErrInviteNotFound
	}

	var row inviteRow
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ? AND id = ?", userID, inviteID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, householddomain.ErrInviteNotFound
		}
		return nil, apperr.Unavailable("invites.get", err)
	}

	invite, err := decodeInvite(row)
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

func (r *PostgresRepository) ListInvitesByStatus(ctx context.Context, userID string, status householddomain.InviteStatus) ([]householddomain.Invite, error) {
	if !isID(userID) {
		return []householddomain.Invite{}, nil
	}

	var rows []inviteRow
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, string(status)).
		Order("created_at asc, id asc").
		Find(&rows).Error; err != nil {
		return nil, apperr.Unavailable("invites.list", err)
	}

	invites := make([]householddomain.Invite, 0, len(rows))
	for _, row := range rows {
		invite, err := decodeInvite(row)
		if err != nil {
			return nil, err
		}
		invites = append(invites, invite)
	}
	return invites, nil
}

// UpdateInviteStatus is a compare-and-set on the status column. Callers read
// the invite in the same transaction, so zero affected rows means another
// writer moved it first.
func (r *PostgresRepository) UpdateInviteStatus(ctx context.Context, userID, inviteID string, from, to householddomain.InviteStatus, at time.Time) error {
	result := r.db.WithContext(ctx).
		Model(&inviteRow{}).
		Where("user_id = ? AND id = ? AND status = ?", userID, inviteID, string(from)).
		Updates(map[string]interface{}{
			"status":     string(to),
			"updated_at": at,
		})
	if result.Error != nil {
		return apperr.Unavailable("invites.update_status", result.Error)
	}
	if result.RowsAffected == 0 {
		return householddomain.ErrInviteNotPending
	}
	return nil
}

func (r *PostgresRepository) memberIDs(ctx context.Context, householdIDs []string) (map[string][]string, error) {
	var rows []memberRow
	if err := r.db.WithContext(ctx).
		Where("household_id IN ?", householdIDs).
		Order("joined_at asc, user_id asc").
		Find(&rows).Error; err != nil {
		return nil, apperr.Unavailable("households.members", err)
	}

	result := make(map[string][]string, len(householdIDs))
	for _, row := range rows {
		result[row.HouseholdID] = append(result[row.HouseholdID], row.UserID)
	}
	return result, nil
}

// isID reports whether id can be compared against a uuid column. Anything
// else cannot match a row and would only make Postgres reject the query.
func isID(id string) bool {
	return uuid.Validate(id) == nil
}
