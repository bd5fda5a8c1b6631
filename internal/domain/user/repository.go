package user

import "context"

type Repository interface {
	UpsertProfile(ctx context.Context, profile *Profile) error
	// FindUserIDsByEmail returns matching user ids, oldest profile first.
	FindUserIDsByEmail(ctx context.Context, email string) ([]string, error)
}
