// Package services orchestrates domain operations across storage and event
// publishing.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"spendlog/internal/core"
	"spendlog/internal/events"
	"spendlog/internal/storage"
)

// ExpenseInput is a raw expense submission before validation. Amount arrives
// as a string so comma-formatted values pass through unchanged.
type ExpenseInput struct {
	Date        string
	Category    string
	Amount      string
	Description string
}

// ExpenseService validates, persists, and announces expense changes. Event
// publishing is best-effort: a broker failure never fails the request.
type ExpenseService struct {
	storage *storage.Repository
	events  *events.Client
}

func NewExpenseService(storage *storage.Repository, events *events.Client) *ExpenseService {
	return &ExpenseService{storage: storage, events: events}
}

// Add validates the input, normalizes it, and inserts a new expense for
// userID, returning the new id.
func (s *ExpenseService) Add(ctx context.Context, userID int64, in ExpenseInput) (int64, error) {
	expense, err := s.buildExpense(userID, in)
	if err != nil {
		return 0, err
	}

	id, err := s.storage.CreateExpense(ctx, expense)
	if err != nil {
		return 0, fmt.Errorf("save expense: %w", err)
	}

	s.publish(ctx, events.ActionCreated, id, userID)
	return id, nil
}

// Edit validates the input and replaces every mutable field of the expense
// matched by (id, userID). Category is re-normalized on every edit.
func (s *ExpenseService) Edit(ctx context.Context, id, userID int64, in ExpenseInput) error {
	expense, err := s.buildExpense(userID, in)
	if err != nil {
		return err
	}
	expense.ID = id

	if err := s.storage.UpdateExpense(ctx, expense); err != nil {
		return err
	}

	s.publish(ctx, events.ActionUpdated, id, userID)
	return nil
}

// Delete removes the expense matched by (id, userID). Missing or non-owned
// ids are a silent no-op.
func (s *ExpenseService) Delete(ctx context.Context, id, userID int64) error {
	if err := s.storage.DeleteExpense(ctx, id, userID); err != nil {
		return err
	}

	s.publish(ctx, events.ActionDeleted, id, userID)
	return nil
}

// ListForUser returns every expense owned by userID.
func (s *ExpenseService) ListForUser(ctx context.Context, userID int64) ([]core.Expense, error) {
	return s.storage.ListExpensesForUser(ctx, userID)
}

// Overview loads a user's expenses together with both summaries.
func (s *ExpenseService) Overview(ctx context.Context, userID int64) ([]core.Expense, []core.CategoryTotal, []core.MonthTotal, error) {
	expenses, err := s.storage.ListExpensesForUser(ctx, userID)
	if err != nil {
		return nil, nil, nil, err
	}
	return expenses, core.SummaryByCategory(expenses), core.SummaryByMonth(expenses), nil
}

func (s *ExpenseService) buildExpense(userID int64, in ExpenseInput) (core.Expense, error) {
	if err := core.ValidateExpenseInput(in.Date, in.Category, in.Amount); err != nil {
		return core.Expense{}, err
	}

	date, err := core.ParseDate(in.Date)
	if err != nil {
		return core.Expense{}, err
	}
	amount, err := core.ParseAmount(in.Amount)
	if err != nil {
		return core.Expense{}, err
	}

	return core.Expense{
		Date:        date,
		Category:    core.NormalizeCategory(in.Category),
		Amount:      amount,
		Description: strings.TrimSpace(in.Description),
		UserID:      userID,
	}, nil
}

func (s *ExpenseService) publish(ctx context.Context, action string, expenseID, userID int64) {
	if err := s.events.PublishExpenseEvent(ctx, events.NewExpenseEvent(action, expenseID, userID)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"action", action, "expense_id", expenseID, "error", err)
	}
}

// Close closes the storage and event connections.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.storage != nil {
		if err := s.storage.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.events != nil {
		if err := s.events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("events: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}
	return nil
}
