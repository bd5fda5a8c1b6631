package household

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"homebase-go/internal/domain/apperr"
	"homebase-go/pkg/logger"
)

const maxHouseholdNameLength = 80

type Service struct {
	repo     Repository
	users    UserDirectory
	notifier Notifier
	log      logger.Logger
	newID    func() string
	now      func() time.Time
}

type Option func(*Service)

func WithNotifier(notifier Notifier) Option {
	return func(s *Service) {
		if notifier != nil {
			s.notifier = notifier
		}
	}
}

func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func NewService(repo Repository, users UserDirectory, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		users:    users,
		notifier: noopNotifier{},
		log:      logger.Nop(),
		newID:    uuid.NewString,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) ListHouseholdsForUser(ctx context.Context, userID string) ([]Household, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperr.Validation("user_id", "is required")
	}
	return s.repo.ListHouseholdsByMember(ctx, userID)
}

func (s *Service) GetHousehold(ctx context.Context, userID, householdID string) (*Household, error) {
	household, err := s.repo.GetHousehold(ctx, householdID)
	if err != nil {
		return nil, err
	}
	if !household.HasMember(userID) {
		return nil, ErrNotMember
	}
	return household, nil
}

// CreateHousehold writes the household and its owner membership in one
// transaction and returns the new household id.
func (s *Service) CreateHousehold(ctx context.Context, userID, name string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", apperr.Validation("user_id", "is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", apperr.Validation("name", "is required")
	}
	if utf8.RuneCountInString(name) > maxHouseholdNameLength {
		return "", apperr.Validation("name", "is too long")
	}

	now := s.now()
	household := Household{
		ID:        s.newID(),
		Name:      name,
		OwnerID:   userID,
		Members:   []string{userID},
		CreatedAt: now,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.CreateHousehold(ctx, &household); err != nil {
			return err
		}
		return tx.AddMember(ctx, Member{
			HouseholdID: household.ID,
			UserID:      userID,
			Role:        RoleOwner,
			JoinedAt:    now,
		})
	})
	if err != nil {
		return "", err
	}

	s.log.Info("households.create: household created", "household_id", household.ID, "user_id", userID)
	return household.ID, nil
}

type inviteRequest struct {
	Email        string `json:"email" validate:"required,email"`
	HouseholdID  string `json:"household_id" validate:"required"`
	InviterEmail string `json:"invited_by" validate:"omitempty,email"`
}

// InviteUser resolves email to a user and stores a pending invite under that
// user. When several accounts share the email the oldest one is invited.
// Repeated invites for the same user and household are stored as separate
// records.
func (s *Service) InviteUser(ctx context.Context, email string, input InviteInput) (*Invite, error) {
	req := inviteRequest{
		Email:        NormalizeEmail(email),
		HouseholdID:  strings.TrimSpace(input.HouseholdID),
		InviterEmail: strings.TrimSpace(input.InviterEmail),
	}
	if err := apperr.ValidateStruct(req); err != nil {
		return nil, err
	}

	userIDs, err := s.users.FindUserIDsByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if len(userIDs) == 0 {
		return nil, ErrUserNotFound
	}
	if len(userIDs) > 1 {
		s.log.Warn("households.invite: email matches several users, inviting the oldest",
			"household_id", req.HouseholdID, "matches", len(userIDs), "user_id", userIDs[0])
	}

	now := s.now()
	invite := Invite{
		ID:          s.newID(),
		UserID:      userIDs[0],
		HouseholdID: req.HouseholdID,
		InvitedBy:   req.InviterEmail,
		Status:      InviteStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if _, err := tx.GetHousehold(ctx, invite.HouseholdID); err != nil {
			return err
		}
		return tx.CreateInvite(ctx, &invite)
	})
	if err != nil {
		return nil, err
	}

	event := InviteEvent{
		InviteID:    invite.ID,
		UserID:      invite.UserID,
		HouseholdID: invite.HouseholdID,
		InvitedBy:   invite.InvitedBy,
		IssuedAt:    invite.CreatedAt,
	}
	if err := s.notifier.InviteIssued(ctx, event); err != nil {
		s.log.InternalError("households.invite: notify failed", err, "invite_id", invite.ID, "household_id", invite.HouseholdID)
	}

	return &invite, nil
}

func (s *Service) ListPendingInvites(ctx context.Context, userID string) ([]Invite, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperr.Validation("user_id", "is required")
	}
	return s.repo.ListInvitesByStatus(ctx, userID, InviteStatusPending)
}

// AcceptInvite adds the user to the invite's household and marks the invite
// accepted in a single transaction. Accepting an already accepted invite
// succeeds without changes; a declined invite cannot be accepted.
// householdID may be empty, in which case the invite's household is used.
func (s *Service) AcceptInvite(ctx context.Context, userID, inviteID, householdID string) error {
	userID = strings.TrimSpace(userID)
	inviteID = strings.TrimSpace(inviteID)
	householdID = strings.TrimSpace(householdID)
	if userID == "" {
		return apperr.Validation("user_id", "is required")
	}
	if inviteID == "" {
		return apperr.Validation("invite_id", "is required")
	}

	now := s.now()
	return s.repo.Transaction(ctx, func(tx Repository) error {
		invite, err := tx.GetInvite(ctx, userID, inviteID)
		if err != nil {
			return err
		}
		if householdID != "" && invite.HouseholdID != householdID {
			return ErrInviteHouseholdMismatch
		}
		if invite.Status == InviteStatusDeclined {
			return ErrInviteNotPending
		}

		if _, err := tx.GetHousehold(ctx, invite.HouseholdID); err != nil {
			return err
		}
		if err := tx.AddMember(ctx, Member{
			HouseholdID: invite.HouseholdID,
			UserID:      userID,
			Role:        RoleMember,
			JoinedAt:    now,
		}); err != nil {
			return err
		}

		if invite.Status == InviteStatusAccepted {
			return nil
		}
		return tx.UpdateInviteStatus(ctx, userID, inviteID, InviteStatusPending, InviteStatusAccepted, now)
	})
}

// DeclineInvite marks the invite declined; the record is kept. Declining
// twice is a no-op and an accepted invite cannot be declined.
func (s *Service) DeclineInvite(ctx context.Context, userID, inviteID string) error {
	userID = strings.TrimSpace(userID)
	inviteID = strings.TrimSpace(inviteID)
	if userID == "" {
		return apperr.Validation("user_id", "is required")
	}
	if inviteID == "" {
		return apperr.Validation("invite_id", "is required")
	}

	now := s.now()
	return s.repo.Transaction(ctx, func(tx Repository) error {
		invite, err := tx.GetInvite(ctx, userID, inviteID)
		if err != nil {
			return err
		}
		switch invite.Status {
		case InviteStatusDeclined:
			return nil
		case InviteStatusAccepted:
			return ErrInviteNotPending
		}
		return tx.UpdateInviteStatus(ctx, userID, inviteID, InviteStatusPending, InviteStatusDeclined, now)
	})
}

func (s *Service) RequireMember(ctx context.Context, householdID, userID string) error {
	ok, err := s.repo.IsMember(ctx, householdID, userID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotMember
	}
	return nil
}

func (s *Service) ListMembers(ctx context.Context, userID, householdID string) ([]MemberProfile, error) {
	if err := s.RequireMember(ctx, householdID, userID); err != nil {
		return nil, err
	}
	return s.repo.ListMemberProfiles(ctx, householdID)
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
