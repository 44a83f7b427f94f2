package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"spendlog/internal/core"
	"spendlog/internal/services"
)

// expensePayload is the JSON body of add and edit requests. Amount is kept
// raw so both numeric and string submissions (including comma-formatted
// values) reach validation unchanged.
type expensePayload struct {
	Date        string          `json:"date"`
	Category    string          `json:"category"`
	Amount      json.RawMessage `json:"amount"`
	Description string          `json:"description"`
}

func (p expensePayload) input() services.ExpenseInput {
	return services.ExpenseInput{
		Date:        strings.TrimSpace(p.Date),
		Category:    p.Category,
		Amount:      rawAmount(p.Amount),
		Description: p.Description,
	}
}

// rawAmount renders a raw JSON amount as the string the validator expects.
func rawAmount(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	if unquoted, err := strconv.Unquote(s); err == nil {
		return unquoted
	}
	return s
}

func (s *Server) decodeExpense(w http.ResponseWriter, r *http.Request) (expensePayload, bool) {
	var payload expensePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, errorPayload{Message: "Invalid request body"})
		return expensePayload{}, false
	}
	return payload, true
}

func expenseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func (s *Server) handleAddExpense(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	payload, ok := s.decodeExpense(w, r)
	if !ok {
		return
	}

	if _, err := s.expenses.Add(r.Context(), user.ID, payload.input()); err != nil {
		s.writeExpenseError(w, r, err)
		return
	}

	s.writeOverview(w, r, user.ID, true)
}

func (s *Server) handleEditExpense(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	id, ok := expenseID(r)
	if !ok {
		s.writeExpenseError(w, r, core.ErrExpenseNotFound)
		return
	}

	payload, ok := s.decodeExpense(w, r)
	if !ok {
		return
	}

	if err := s.expenses.Edit(r.Context(), id, user.ID, payload.input()); err != nil {
		s.writeExpenseError(w, r, err)
		return
	}

	s.writeOverview(w, r, user.ID, true)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	id, ok := expenseID(r)
	if !ok {
		// Deletion of a nonexistent expense is a no-op.
		s.writeOverview(w, r, user.ID, true)
		return
	}

	if err := s.expenses.Delete(r.Context(), id, user.ID); err != nil {
		s.writeExpenseError(w, r, err)
		return
	}

	s.writeOverview(w, r, user.ID, true)
}

func (s *Server) handleGetExpenses(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())
	s.writeOverview(w, r, user.ID, false)
}

func (s *Server) handleChartData(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	expenses, err := s.expenses.ListForUser(r.Context(), user.ID)
	if err != nil {
		s.writeExpenseError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, struct {
		Category []core.CategoryTotal `json:"category"`
		Monthly  []core.MonthTotal    `json:"monthly"`
	}{
		Category: core.SummaryByCategory(expenses),
		Monthly:  core.SummaryByMonth(expenses),
	})
}
