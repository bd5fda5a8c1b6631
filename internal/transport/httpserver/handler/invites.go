package handler

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	householddomain "homebase-go/internal/domain/household"
	"homebase-go/internal/transport/httpserver/middleware"
)

type acceptInviteRequest struct {
	HouseholdID string `json:"household_id"`
}

type inviteResponse struct {
	ID          string    `json:"id"`
	HouseholdID string    `json:"household_id"`
	InvitedBy   string    `json:"invited_by"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

func (h *Handlers) ListInvites(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	invites, err := h.Households.ListPendingInvites(r.Context(), user.ID)
	if err != nil {
		h.writeServiceError(w, "invites.list", err, "user_id", user.ID)
		return
	}

	response := make([]inviteResponse, 0, len(invites))
	for _, invite := range invites {
		response = append(response, toInviteResponse(invite))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": response})
}

// AcceptInvite takes an optional body; without household_id the invite's own
// household is joined.
func (h *Handlers) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	var req acceptInviteRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	inviteID := chi.URLParam(r, "invite_id")
	if err := h.Households.AcceptInvite(r.Context(), user.ID, inviteID, req.HouseholdID); err != nil {
		h.writeServiceError(w, "invites.accept", err, "user_id", user.ID, "invite_id", inviteID)
		return
	}

	h.log.Info("invites.accept: accepted", "user_id", user.ID, "invite_id", inviteID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) DeclineInvite(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	inviteID := chi.URLParam(r, "invite_id")
	if err := h.Households.DeclineInvite(r.Context(), user.ID, inviteID); err != nil {
		h.writeServiceError(w, "invites.decline", err, "user_id", user.ID, "invite_id", inviteID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toInviteResponse(invite householddomain.Invite) inviteResponse {
	return inviteResponse{
		ID:          invite.ID,
		HouseholdID: invite.HouseholdID,
		InvitedBy:   invite.InvitedBy,
		Status:      string(invite.Status),
		CreatedAt:   invite.CreatedAt,
	}
}
