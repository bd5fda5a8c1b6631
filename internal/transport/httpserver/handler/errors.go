package handler

import (
	"errors"
	"net/http"

	"homebase-go/internal/domain/apperr"
	householddomain "homebase-go/internal/domain/household"
	ledgerdomain "homebase-go/internal/domain/ledger"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

var businessErrors = []errorMapping{
	{householddomain.ErrUserNotFound, http.StatusNotFound, "user_not_found", "no user with that email"},
	{householddomain.ErrHouseholdNotFound, http.StatusNotFound, "household_not_found", "household not found"},
	{householddomain.ErrInviteNotFound, http.StatusNotFound, "invite_not_found", "invite not found"},
	{householddomain.ErrNotMember, http.StatusForbidden, "not_member", "not a member of this household"},
	{householddomain.ErrInviteNotPending, http.StatusConflict, "invite_not_pending", "invite is no longer pending"},
	{householddomain.ErrInviteHouseholdMismatch, http.StatusConflict, "invite_household_mismatch", "invite belongs to another household"},
	{ledgerdomain.ErrTransactionNotFound, http.StatusNotFound, "transaction_not_found", "transaction not found"},
}

// writeServiceError maps a service error onto the HTTP error envelope and
// logs it. op is the "<area>.<operation>" prefix used in log messages.
func (h *Handlers) writeServiceError(w http.ResponseWriter, op string, err error, attrs ...any) {
	var verr *apperr.ValidationError
	if errors.As(err, &verr) {
		h.log.BusinessError(op+": invalid request", err, attrs...)
		writeError(w, http.StatusBadRequest, "invalid_request", verr.Error())
		return
	}

	for _, m := range businessErrors {
		if errors.Is(err, m.target) {
			h.log.BusinessError(op+": "+m.message, err, attrs...)
			writeError(w, m.status, m.code, m.message)
			return
		}
	}

	switch {
	case errors.Is(err, apperr.ErrPartialCommit):
		h.log.Critical(op+": commit outcome unknown", append([]any{"err", err}, attrs...)...)
		writeError(w, http.StatusInternalServerError, "partial_commit", "the change may not have been saved, reload before retrying")
	case errors.Is(err, apperr.ErrStoreUnavailable):
		h.log.InternalError(op+": store unavailable", err, attrs...)
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "storage is unavailable, try again later")
	default:
		h.log.InternalError(op+": failed", err, attrs...)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
