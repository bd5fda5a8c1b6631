package user

import (
	"context"
	"strings"

	"homebase-go/internal/domain/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// UpsertProfile records the identity seen on an authenticated request. Email
// is stored lower-cased so invites can find it.
func (s *Service) UpsertProfile(ctx context.Context, userID, email, avatarURL string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return apperr.Validation("user_id", "is required")
	}

	profile := Profile{UserID: userID}
	if email = normalizeEmail(email); email != "" {
		profile.Email = &email
	}
	if avatarURL = strings.TrimSpace(avatarURL); avatarURL != "" {
		profile.AvatarURL = &avatarURL
	}

	return s.repo.UpsertProfile(ctx, &profile)
}

func (s *Service) FindUserIDsByEmail(ctx context.Context, email string) ([]string, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperr.Validation("email", "is required")
	}
	return s.repo.FindUserIDsByEmail(ctx, email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
