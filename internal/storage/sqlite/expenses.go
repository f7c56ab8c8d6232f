package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nmehra/tripsplit/internal/apperr"
	"github.com/nmehra/tripsplit/internal/models"
)

// CreateExpense persists a new expense and its split rows.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	now := time.Now().Unix()
	if expense.CreatedAt == 0 {
		expense.CreatedAt = now
	}
	if expense.UpdatedAt == 0 {
		expense.UpdatedAt = expense.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO expenses (id, group_id, paid_by, amount, description, split_type, category, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		expense.ID, expense.GroupID, expense.PaidBy, expense.Amount.String(),
		expense.Description, string(expense.Split.Type), expense.Category,
		expense.CreatedAt, expense.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertSplits(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateExpense replaces an existing expense and its split rows.
func (s *SQLiteStore) UpdateExpense(ctx context.Context, expense *models.Expense) error {
	expense.UpdatedAt = time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE expenses SET paid_by = ?, amount = ?, description = ?, split_type = ?, category = ?, updated_at = ?
		 WHERE id = ? AND group_id = ?`,
		expense.PaidBy, expense.Amount.String(), expense.Description,
		string(expense.Split.Type), expense.Category, expense.UpdatedAt,
		expense.ID, expense.GroupID,
	)
	if err != nil {
		return fmt.Errorf("failed to update expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return apperr.NotFoundf("Expense")
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM expense_splits WHERE expense_id = ?", expense.ID); err != nil {
		return fmt.Errorf("failed to clear expense splits: %w", err)
	}
	if err := insertSplits(ctx, tx, expense); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteExpense removes an expense from a group.
func (s *SQLiteStore) DeleteExpense(ctx context.Context, groupID, expenseID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM expenses WHERE id = ? AND group_id = ?",
		expenseID, groupID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return apperr.NotFoundf("Expense")
	}
	return nil
}

// GetExpense retrieves an expense by group and expense ID.
func (s *SQLiteStore) GetExpense(ctx context.Context, groupID, expenseID string) (*models.Expense, error) {
	expense, err := s.scanExpenseRow(s.db.QueryRowContext(ctx,
		`SELECT id, group_id, paid_by, amount, description, split_type, category, created_at, updated_at
		 FROM expenses WHERE id = ? AND group_id = ?`,
		expenseID, groupID,
	))
	if err != nil {
		return nil, err
	}
	if err := s.loadSplits(ctx, expense); err != nil {
		return nil, err
	}
	return expense, nil
}

// ListExpenses retrieves all expenses for a group.
func (s *SQLiteStore) ListExpenses(ctx context.Context, groupID string) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, group_id, paid_by, amount, description, split_type, category, created_at, updated_at
		 FROM expenses WHERE group_id = ? ORDER BY created_at`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*models.Expense
	for rows.Next() {
		expense := &models.Expense{}
		var rawAmount, splitType string
		if err := rows.Scan(&expense.ID, &expense.GroupID, &expense.PaidBy, &rawAmount,
			&expense.Description, &splitType, &expense.Category,
			&expense.CreatedAt, &expense.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if expense.Amount, err = parseAmount(rawAmount); err != nil {
			return nil, err
		}
		expense.Split.Type = models.SplitType(splitType)
		expenses = append(expenses, expense)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	for _, expense := range expenses {
		if err := s.loadSplits(ctx, expense); err != nil {
			return nil, err
		}
	}
	return expenses, nil
}

func (s *SQLiteStore) scanExpenseRow(row *sql.Row) (*models.Expense, error) {
	expense := &models.Expense{}
	var rawAmount, splitType string
	err := row.Scan(&expense.ID, &expense.GroupID, &expense.PaidBy, &rawAmount,
		&expense.Description, &splitType, &expense.Category,
		&expense.CreatedAt, &expense.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFoundf("Expense")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	if expense.Amount, err = parseAmount(rawAmount); err != nil {
		return nil, err
	}
	expense.Split.Type = models.SplitType(splitType)
	return expense, nil
}

// insertSplits writes one row per split member. Percentage and amount columns
// stay NULL except for the split type that uses them.
func insertSplits(ctx context.Context, tx *sql.Tx, expense *models.Expense) error {
	for _, userID := range expense.SplitBetween {
		var pct, amt any
		if p, ok := expense.Split.Percentages[userID]; ok && expense.Split.Type == models.SplitPercentage {
			pct = p.String()
		}
		if a, ok := expense.Split.Amounts[userID]; ok && expense.Split.Type == models.SplitExactAmounts {
			amt = a.String()
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO expense_splits (expense_id, user_id, percentage, amount) VALUES (?, ?, ?, ?)",
			expense.ID, userID, pct, amt,
		); err != nil {
			return fmt.Errorf("failed to insert expense split: %w", err)
		}
	}
	return nil
}

// loadSplits populates SplitBetween and the tagged split payload for an
// expense whose header row has already been scanned.
func (s *SQLiteStore) loadSplits(ctx context.Context, expense *models.Expense) error {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, percentage, amount FROM expense_splits WHERE expense_id = ? ORDER BY user_id",
		expense.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to get expense splits: %w", err)
	}
	defer rows.Close()

	expense.SplitBetween = nil
	var percentages, amounts map[string]decimal.Decimal
	for rows.Next() {
		var userID string
		var pct, amt sql.NullString
		if err := rows.Scan(&userID, &pct, &amt); err != nil {
			return fmt.Errorf("failed to scan expense split: %w", err)
		}
		expense.SplitBetween = append(expense.SplitBetween, userID)
		if pct.Valid {
			if percentages == nil {
				percentages = make(map[string]decimal.Decimal)
			}
			if percentages[userID], err = parseAmount(pct.String); err != nil {
				return err
			}
		}
		if amt.Valid {
			if amounts == nil {
				amounts = make(map[string]decimal.Decimal)
			}
			if amounts[userID], err = parseAmount(amt.String); err != nil {
				return err
			}
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate expense splits: %w", err)
	}

	expense.Split.Percentages = percentages
	expense.Split.Amounts = amounts
	return nil
}
