package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"homebase-go/internal/domain/export"
	ledgerdomain "homebase-go/internal/domain/ledger"
	"homebase-go/internal/transport/httpserver/middleware"
)

type createTransactionRequest struct {
	Date        string          `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
}

type transactionResponse struct {
	ID          string    `json:"id"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Amount      string    `json:"amount"`
	Type        string    `json:"type"`
	Category    string    `json:"category"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

type transactionListResponse struct {
	Items  []transactionResponse `json:"items"`
	Total  int64                 `json:"total"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	householdID := chi.URLParam(r, "household_id")
	filter, err := parseListFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	items, total, err := h.Ledger.ListTransactions(r.Context(), householdID, filter)
	if err != nil {
		h.writeServiceError(w, "transactions.list", err, "household_id", householdID)
		return
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = ledgerdomain.DefaultListLimit
	}
	if limit > ledgerdomain.MaxListLimit {
		limit = ledgerdomain.MaxListLimit
	}

	response := transactionListResponse{
		Items:  make([]transactionResponse, 0, len(items)),
		Total:  total,
		Limit:  limit,
		Offset: filter.Offset,
	}
	for _, item := range items {
		response.Items = append(response.Items, toTransactionResponse(item))
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	date, err := parseDateRequired(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "date must be YYYY-MM-DD")
		return
	}

	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorized(w)
		return
	}

	householdID := chi.URLParam(r, "household_id")
	transaction, err := h.Ledger.AddTransaction(r.Context(), householdID, ledgerdomain.CreateTransactionInput{
		Date:        date,
		Description: req.Description,
		Amount:      req.Amount,
		Type:        ledgerdomain.Type(req.Type),
		Category:    req.Category,
		CreatedBy:   user.ID,
	})
	if err != nil {
		h.writeServiceError(w, "transactions.create", err, "user_id", user.ID, "household_id", householdID)
		return
	}

	writeJSON(w, http.StatusCreated, toTransactionResponse(*transaction))
}

func (h *Handlers) GetTransaction(w http.ResponseWriter, r *http.Request) {
	householdID := chi.URLParam(r, "household_id")
	transactionID := chi.URLParam(r, "transaction_id")

	transaction, err := h.Ledger.GetTransaction(r.Context(), householdID, transactionID)
	if err != nil {
		h.writeServiceError(w, "transactions.get", err, "household_id", householdID, "transaction_id", transactionID)
		return
	}

	writeJSON(w, http.StatusOK, toTransactionResponse(*transaction))
}

func (h *Handlers) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	householdID := chi.URLParam(r, "household_id")
	transactionID := chi.URLParam(r, "transaction_id")

	if err := h.Ledger.DeleteTransaction(r.Context(), householdID, transactionID); err != nil {
		h.writeServiceError(w, "transactions.delete", err, "household_id", householdID, "transaction_id", transactionID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ExportTransactions streams every transaction matching the filter as CSV.
// limit and offset are ignored; the store is paged internally.
func (h *Handlers) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	householdID := chi.URLParam(r, "household_id")
	filter, err := parseListFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	filter.Limit = ledgerdomain.MaxListLimit
	filter.Offset = 0

	var all []ledgerdomain.Transaction
	for {
		page, total, err := h.Ledger.ListTransactions(r.Context(), householdID, filter)
		if err != nil {
			h.writeServiceError(w, "transactions.export", err, "household_id", householdID)
			return
		}
		all = append(all, page...)
		filter.Offset += len(page)
		if len(page) == 0 || int64(filter.Offset) >= total {
			break
		}
	}

	filename := fmt.Sprintf("transactions-%s.csv", time.Now().UTC().Format(dateLayout))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if err := export.WriteTransactionsCSV(w, all); err != nil {
		h.log.InternalError("transactions.export: write failed", err, "household_id", householdID)
	}
}

func parseListFilter(r *http.Request) (ledgerdomain.ListFilter, error) {
	query := r.URL.Query()

	from, err := parseDateParam(query.Get("from"))
	if err != nil {
		return ledgerdomain.ListFilter{}, fmt.Errorf("from must be YYYY-MM-DD")
	}
	to, err := parseDateParam(query.Get("to"))
	if err != nil {
		return ledgerdomain.ListFilter{}, fmt.Errorf("to must be YYYY-MM-DD")
	}
	limit, err := parseIntParam(query.Get("limit"), 0)
	if err != nil {
		return ledgerdomain.ListFilter{}, fmt.Errorf("limit must be a non-negative integer")
	}
	offset, err := parseIntParam(query.Get("offset"), 0)
	if err != nil {
		return ledgerdomain.ListFilter{}, fmt.Errorf("offset must be a non-negative integer")
	}

	return ledgerdomain.ListFilter{
		From:     from,
		To:       to,
		Type:     ledgerdomain.Type(query.Get("type")),
		Category: ledgerdomain.Category(query.Get("category")),
		Limit:    limit,
		Offset:   offset,
	}, nil
}

func toTransactionResponse(transaction ledgerdomain.Transaction) transactionResponse {
	return transactionResponse{
		ID:          transaction.ID,
		Date:        transaction.Date.Format(dateLayout),
		Description: transaction.Description,
		Amount:      transaction.Amount.StringFixed(2),
		Type:        string(transaction.Type),
		Category:    string(transaction.Category),
		CreatedBy:   transaction.CreatedBy,
		CreatedAt:   transaction.CreatedAt,
	}
}
