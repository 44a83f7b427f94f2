package http

import (
	"net/http"

	"spendlog/internal/core"
)

type homeView struct {
	User     string
	Expenses []core.Expense
	Category []core.CategoryTotal
	Monthly  []core.MonthTotal
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	user := userFrom(r.Context())

	expenses, byCategory, byMonth, err := s.expenses.Overview(r.Context(), user.ID)
	if err != nil {
		s.writeExpenseError(w, r, err)
		return
	}

	s.renderPage(w, r, http.StatusOK, "home.html", homeView{
		User:     user.Username,
		Expenses: expenses,
		Category: byCategory,
		Monthly:  byMonth,
	})
}
