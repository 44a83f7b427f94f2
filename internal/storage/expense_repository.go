package storage

import (
	"context"
	"database/sql"
	"fmt"

	"spendlog/internal/core"
)

// CreateExpense inserts a new expense row for its owner and returns the
// assigned id. Category and description are stored as given; normalization
// happens in the service layer before this call.
func (r *Repository) CreateExpense(ctx context.Context, e core.Expense) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO expenses (date, category, amount, description, user_id) VALUES (?, ?, ?, ?, ?)`,
		e.Date.Time, e.Category, e.Amount, e.Description, e.UserID,
	)
	if err != nil {
		return 0, fmt.Errorf("insert expense: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("expense last insert id: %w", err)
	}
	return id, nil
}

// UpdateExpense replaces date, category, amount, and description of the row
// matched by (id, owner). Zero rows matched means the expense does not exist
// or belongs to someone else; both cases map to core.ErrExpenseNotFound.
func (r *Repository) UpdateExpense(ctx context.Context, e core.Expense) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE expenses SET date = ?, category = ?, amount = ?, description = ? WHERE id = ? AND user_id = ?`,
		e.Date.Time, e.Category, e.Amount, e.Description, e.ID, e.UserID,
	)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrExpenseNotFound
	}
	return nil
}

// DeleteExpense removes the row matched by (id, owner). Deleting a missing
// or non-owned id is a no-op, which makes deletes idempotent.
func (r *Repository) DeleteExpense(ctx context.Context, id, userID int64) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM expenses WHERE id = ? AND user_id = ?`,
		id, userID,
	); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// ListExpensesForUser returns every expense owned by userID. Order is not
// part of the contract; callers sort if they need to. A row whose stored
// amount or date cannot be read scans as the zero value instead of failing
// the whole listing.
func (r *Repository) ListExpensesForUser(ctx context.Context, userID int64) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, category, amount, description FROM expenses WHERE user_id = ?`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]core.Expense, 0)
	for rows.Next() {
		var (
			e      core.Expense
			date   sql.NullTime
			amount sql.NullFloat64
		)
		if err := rows.Scan(&e.ID, &date, &e.Category, &amount, &e.Description); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		if date.Valid {
			t := date.Time.UTC()
			e.Date = core.NewDate(t.Year(), int(t.Month()), t.Day())
		}
		e.Amount = amount.Float64
		e.UserID = userID
		expenses = append(expenses, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}
