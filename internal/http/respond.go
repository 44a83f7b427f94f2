package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"spendlog/internal/core"
	applog "spendlog/internal/log"
)

// overviewPayload is the refreshed dataset returned after every expense
// mutation and by the read endpoints.
type overviewPayload struct {
	Success  bool                 `json:"success,omitempty"`
	Expenses []core.Expense       `json:"expenses"`
	Category []core.CategoryTotal `json:"category"`
	Monthly  []core.MonthTotal    `json:"monthly"`
}

type errorPayload struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeExpenseError maps domain errors onto the JSON error contract:
// validation failures are 400 with the validation message, a missing
// expense is 404, anything else is a generic 500 logged server-side.
func (s *Server) writeExpenseError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *core.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: ve.Message})
	case errors.Is(err, core.ErrExpenseNotFound):
		writeJSON(w, http.StatusNotFound, errorPayload{Message: "Expense not found"})
	default:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Expense operation failed",
			applog.FieldError, err, applog.FieldPath, r.URL.Path)
		writeJSON(w, http.StatusInternalServerError, errorPayload{Message: "Server error"})
	}
}

// writeOverview responds with the user's refreshed expenses and summaries.
func (s *Server) writeOverview(w http.ResponseWriter, r *http.Request, userID int64, success bool) {
	expenses, byCategory, byMonth, err := s.expenses.Overview(r.Context(), userID)
	if err != nil {
		s.writeExpenseError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, overviewPayload{
		Success:  success,
		Expenses: expenses,
		Category: byCategory,
		Monthly:  byMonth,
	})
}
