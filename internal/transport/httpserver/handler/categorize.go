package handler

import (
	"net/http"
)

type categorizeRequest struct {
	TransactionDescription string `json:"transactionDescription"`
}

type categorizeResponse struct {
	Category   *string `json:"category"`
	Confidence float64 `json:"confidence"`
}

// SuggestCategory never fails on model problems: an unusable answer is reported
// as a null category so the client falls back to manual selection.
func (h *Handlers) SuggestCategory(w http.ResponseWriter, r *http.Request) {
	var req categorizeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	response := categorizeResponse{}
	if h.Categorize != nil {
		if suggestion, ok := h.Categorize.Suggest(r.Context(), req.TransactionDescription); ok {
			category := string(suggestion.Category)
			response.Category = &category
			response.Confidence = suggestion.Confidence
		}
	}
	writeJSON(w, http.StatusOK, response)
}
