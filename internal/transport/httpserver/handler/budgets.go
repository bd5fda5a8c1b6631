package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	ledgerdomain "homebase-go/internal/domain/ledger"
)

type setBudgetRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type budgetResponse struct {
	Category  string    `json:"category"`
	Amount    string    `json:"amount"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (h *Handlers) ListBudgets(w http.ResponseWriter, r *http.Request) {
	householdID := chi.URLParam(r, "household_id")
	budgets, err := h.Ledger.ListBudgets(r.Context(), householdID)
	if err != nil {
		h.writeServiceError(w, "budgets.list", err, "household_id", householdID)
		return
	}

	response := make([]budgetResponse, 0, len(budgets))
	for _, budget := range budgets {
		response = append(response, toBudgetResponse(budget))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": response})
}

func (h *Handlers) SetBudget(w http.ResponseWriter, r *http.Request) {
	var req setBudgetRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	householdID := chi.URLParam(r, "household_id")
	category := chi.URLParam(r, "category")
	budget, err := h.Ledger.SetBudget(r.Context(), householdID, category, req.Amount)
	if err != nil {
		h.writeServiceError(w, "budgets.set", err, "household_id", householdID, "category", category)
		return
	}

	writeJSON(w, http.StatusOK, toBudgetResponse(*budget))
}

func toBudgetResponse(budget ledgerdomain.Budget) budgetResponse {
	return budgetResponse{
		Category:  string(budget.Category),
		Amount:    budget.Amount.StringFixed(2),
		UpdatedAt: budget.UpdatedAt,
	}
}
