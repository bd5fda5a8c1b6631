package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	householddomain "homebase-go/internal/domain/household"
	"homebase-go/internal/transport/httpserver/middleware"
)

type createHouseholdRequest struct {
	Name string `json:"name"`
}

type inviteUserRequest struct {
	Email string `json:"email"`
}

type householdResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	OwnerID   string    `json:"owner_id"`
	Members   []string  `json:"members"`
	CreatedAt time.Time `json:"created_at"`
}

type memberResponse struct {
	UserID   string    `json:"user_id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
	Email    *string   `json:"email"`
}

// RequireMember rejects household-scoped requests from users outside the
// household named by the {household_id} URL parameter.
func (h *Handlers) RequireMember(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := middleware.UserFromContext(r.Context())
		if !ok {
			unauthorized(w)
			return
		}

		householdID := chi.URLParam(r, "household_id")
		if err := h.Households.RequireMember(r.Context(), householdID, user.ID); err != nil {
			h.writeServiceError(w, "households.require_member", err, "user_id", user.ID, "household_id", householdID)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (h *Handlers) ListHouseholds(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	households, err := h.Households.ListHouseholdsForUser(r.Context(), user.ID)
	if err != nil {
		h.writeServiceError(w, "households.list", err, "user_id", user.ID)
		return
	}

	response := make([]householdResponse, 0, len(households))
	for _, household := range households {
		response = append(response, toHouseholdResponse(household))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": response})
}

func (h *Handlers) CreateHousehold(w http.ResponseWriter, r *http.Request) {
	var req createHouseholdRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	householdID, err := h.Households.CreateHousehold(r.Context(), user.ID, req.Name)
	if err != nil {
		h.writeServiceError(w, "households.create", err, "user_id", user.ID)
		return
	}

	h.log.Info("households.create: created", "user_id", user.ID, "household_id", householdID)
	writeJSON(w, http.StatusCreated, map[string]string{"id": householdID})
}

func (h *Handlers) GetHousehold(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	householdID := chi.URLParam(r, "household_id")
	household, err := h.Households.GetHousehold(r.Context(), user.ID, householdID)
	if err != nil {
		h.writeServiceError(w, "households.get", err, "user_id", user.ID, "household_id", householdID)
		return
	}

	writeJSON(w, http.StatusOK, toHouseholdResponse(*household))
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	householdID := chi.URLParam(r, "household_id")
	members, err := h.Households.ListMembers(r.Context(), user.ID, householdID)
	if err != nil {
		h.writeServiceError(w, "households.list_members", err, "user_id", user.ID, "household_id", householdID)
		return
	}

	response := make([]memberResponse, 0, len(members))
	for _, member := range members {
		response = append(response, memberResponse{
			UserID:   member.UserID,
			Role:     member.Role,
			JoinedAt: member.JoinedAt,
			Email:    member.Email,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": response})
}

func (h *Handlers) InviteUser(w http.ResponseWriter, r *http.Request) {
	var req inviteUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	householdID := chi.URLParam(r, "household_id")
	invite, err := h.Households.InviteUser(r.Context(), req.Email, householddomain.InviteInput{
		HouseholdID:  householdID,
		InviterEmail: user.Email,
	})
	if err != nil {
		h.writeServiceError(w, "households.invite", err, "user_id", user.ID, "household_id", householdID)
		return
	}

	writeJSON(w, http.StatusCreated, toInviteResponse(*invite))
}

func toHouseholdResponse(household householddomain.Household) householdResponse {
	members := household.Members
	if members == nil {
		members = []string{}
	}
	return householdResponse{
		ID:        household.ID,
		Name:      household.Name,
		OwnerID:   household.OwnerID,
		Members:   members,
		CreatedAt: household.CreatedAt,
	}
}
