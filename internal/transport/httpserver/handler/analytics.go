package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	analyticsdomain "homebase-go/internal/domain/analytics"
)

// Dashboard returns summary, category breakdown, monthly trend and budget
// progress for the from/to range. Without either bound the current month is used.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	householdID := chi.URLParam(r, "household_id")
	query := r.URL.Query()

	from, err := parseDateParam(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "from must be YYYY-MM-DD")
		return
	}
	to, err := parseDateParam(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "to must be YYYY-MM-DD")
		return
	}

	var period analyticsdomain.Period
	if from != nil {
		period.From = *from
	}
	if to != nil {
		period.To = *to
	}

	dashboard, err := h.Analytics.Dashboard(r.Context(), householdID, period)
	if err != nil {
		h.writeServiceError(w, "analytics.dashboard", err, "household_id", householdID)
		return
	}

	writeJSON(w, http.StatusOK, dashboard)
}
