package household

import "errors"

var (
	ErrHouseholdNotFound       = errors.New("household not found")
	ErrInviteNotFound          = errors.New("invite not found")
	ErrUserNotFound            = errors.New("user not found")
	ErrNotMember               = errors.New("not a household member")
	ErrInviteNotPending        = errors.New("invite is no longer pending")
	ErrInviteHouseholdMismatch = errors.New("invite belongs to another household")
)
