package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/diyaa-Iskandar/petotec-app/internal/apperrors"
	"github.com/diyaa-Iskandar/petotec-app/internal/core/domain"
	portsrepo "github.com/diyaa-Iskandar/petotec-app/internal/core/ports/repositories"
	"github.com/diyaa-Iskandar/petotec-app/internal/models"
)

type PgxExpenseRepository struct {
	BaseRepository
}

func newPgxExpenseRepository(db *pgxpool.Pool) portsrepo.ExpenseRepositoryFacade {
	return &PgxExpenseRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.ExpenseRepositoryFacade = (*PgxExpenseRepository)(nil)

func toModelExpense(d domain.Expense) models.Expense {
	m := models.Expense{
		ExpenseID:        d.ExpenseID,
		AdvanceID:        d.AdvanceID,
		UserID:           d.UserID,
		Amount:           d.Amount,
		Description:      d.Description,
		Notes:            d.Notes,
		ImageURL:         d.ImageURL,
		Status:           string(d.Status),
		Date:             d.Date,
		IsEditable:       d.IsEditable,
		IsInvoice:        d.IsInvoice,
		AdditionalAmount: d.AdditionalAmount,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
	if d.RejectionReason != "" {
		m.RejectionReason = &d.RejectionReason
	}
	return m
}

func toDomainExpense(m models.Expense, items []models.InvoiceItem) domain.Expense {
	d := domain.Expense{
		ExpenseID:        m.ExpenseID,
		AdvanceID:        m.AdvanceID,
		UserID:           m.UserID,
		Amount:           m.Amount,
		Description:      m.Description,
		Notes:            m.Notes,
		ImageURL:         m.ImageURL,
		Status:           domain.ExpenseStatus(m.Status),
		Date:             m.Date,
		IsEditable:       m.IsEditable,
		IsInvoice:        m.IsInvoice,
		AdditionalAmount: m.AdditionalAmount,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
	if m.RejectionReason != nil {
		d.RejectionReason = *m.RejectionReason
	}
	for _, item := range items {
		d.InvoiceItems = append(d.InvoiceItems, domain.InvoiceItem{
			ItemID:    item.ItemID,
			ItemName:  item.ItemName,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.Total,
		})
	}
	return d
}

const expenseColumns = `expense_id, advance_id, user_id, amount, description, notes, image_url, status, expense_date, rejection_reason, is_editable, is_invoice, additional_amount, created_at, created_by, last_updated_at, last_updated_by`

func scanExpense(row pgx.Row) (models.Expense, error) {
	var m models.Expense
	err := row.Scan(
		&m.ExpenseID,
		&m.AdvanceID,
		&m.UserID,
		&m.Amount,
		&m.Description,
		&m.Notes,
		&m.ImageURL,
		&m.Status,
		&m.Date,
		&m.RejectionReason,
		&m.IsEditable,
		&m.IsInvoice,
		&m.AdditionalAmount,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxExpenseRepository) loadInvoiceItems(ctx context.Context, expenseIDs []string) (map[string][]models.InvoiceItem, error) {
	if len(expenseIDs) == 0 {
		return map[string][]models.InvoiceItem{}, nil
	}
	query := `
		SELECT item_id, expense_id, item_name, quantity, unit_price, total
		FROM invoice_items
		WHERE expense_id = ANY($1)
		ORDER BY item_name;
	`
	rows, err := r.Pool.Query(ctx, query, expenseIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoice items: %w", err)
	}
	defer rows.Close()

	byExpense := map[string][]models.InvoiceItem{}
	for rows.Next() {
		var item models.InvoiceItem
		if err := rows.Scan(&item.ItemID, &item.ExpenseID, &item.ItemName, &item.Quantity, &item.UnitPrice, &item.Total); err != nil {
			return nil, fmt.Errorf("failed to scan invoice item row: %w", err)
		}
		byExpense[item.ExpenseID] = append(byExpense[item.ExpenseID], item)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating invoice item rows: %w", rows.Err())
	}
	return byExpense, nil
}

func (r *PgxExpenseRepository) SaveExpense(ctx context.Context, expense domain.Expense) error {
	m := toModelExpense(expense)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		INSERT INTO expenses (` + expenseColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err = tx.Exec(ctx, query,
		m.ExpenseID, m.AdvanceID, m.UserID, m.Amount, m.Description, m.Notes,
		m.ImageURL, m.Status, m.Date, m.RejectionReason, m.IsEditable,
		m.IsInvoice, m.AdditionalAmount,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	if err := insertInvoiceItems(ctx, tx, expense); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

func insertInvoiceItems(ctx context.Context, tx pgx.Tx, expense domain.Expense) error {
	for _, item := range expense.InvoiceItems {
		_, err := tx.Exec(ctx, `
			INSERT INTO invoice_items (item_id, expense_id, item_name, quantity, unit_price, total)
			VALUES ($1, $2, $3, $4, $5, $6);
		`, item.ItemID, expense.ExpenseID, item.ItemName, item.Quantity, item.UnitPrice, item.Total)
		if err != nil {
			return fmt.Errorf("failed to insert invoice item %s: %w", item.ItemID, err)
		}
	}
	return nil
}

// RejectExpense writes the REJECTED transition. The status guard keeps a
// reject that raced an approval from clobbering the APPROVED row: zero rows
// affected on an existing expense means the status moved under us.
func (r *PgxExpenseRepository) RejectExpense(ctx context.Context, expense domain.Expense) error {
	m := toModelExpense(expense)
	query := `
		UPDATE expenses
		SET status = $2, rejection_reason = $3,
		    last_updated_at = $4, last_updated_by = $5
		WHERE expense_id = $1 AND status = 'PENDING';
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.ExpenseID, m.Status, m.RejectionReason,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to reject expense %s: %w", expense.ExpenseID, err)
	}
	if tag.RowsAffected() == 0 {
		if exists, err := r.expenseExists(ctx, expense.ExpenseID); err != nil {
			return err
		} else if exists {
			return fmt.Errorf("%w: expense %s is no longer PENDING", apperrors.ErrConflict, expense.ExpenseID)
		}
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxExpenseRepository) SetExpenseEditable(ctx context.Context, expense domain.Expense) error {
	m := toModelExpense(expense)
	query := `
		UPDATE expenses
		SET is_editable = $2, last_updated_at = $3, last_updated_by = $4
		WHERE expense_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.ExpenseID, m.IsEditable, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update editable flag on expense %s: %w", expense.ExpenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxExpenseRepository) expenseExists(ctx context.Context, expenseID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM expenses WHERE expense_id = $1);`, expenseID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check expense %s: %w", expenseID, err)
	}
	return exists, nil
}

// ApproveExpenseAndDebit writes the APPROVED transition of the expense and
// the decremented balance of its advance in a single database transaction.
// Status guards on both rows turn lost-update races into conflicts.
func (r *PgxExpenseRepository) ApproveExpenseAndDebit(ctx context.Context, expense domain.Expense, advance domain.Advance) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `
		UPDATE expenses
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE expense_id = $1 AND status = 'PENDING';
	`, expense.ExpenseID, string(expense.Status), expense.LastUpdatedAt, expense.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to approve expense %s: %w", expense.ExpenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense %s is not pending", apperrors.ErrConflict, expense.ExpenseID)
	}

	tag, err = tx.Exec(ctx, `
		UPDATE advances
		SET remaining_amount = $2, last_updated_at = $3, last_updated_by = $4
		WHERE advance_id = $1 AND status = 'OPEN' AND remaining_amount >= $5;
	`, advance.AdvanceID, advance.RemainingAmount, advance.LastUpdatedAt, advance.LastUpdatedBy, expense.Amount)
	if err != nil {
		return fmt.Errorf("failed to debit advance %s: %w", advance.AdvanceID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: advance %s cannot cover expense %s", apperrors.ErrInsufficientBalance, advance.AdvanceID, expense.ExpenseID)
	}

	return r.Commit(ctx, tx)
}

// ReviseExpenseAndRebalance writes a revised approved expense amount and the
// rebalanced advance remaining amount in a single database transaction. The
// invoice breakdown of the expense is dropped alongside.
func (r *PgxExpenseRepository) ReviseExpenseAndRebalance(ctx context.Context, expense domain.Expense, advance domain.Advance) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	tag, err := tx.Exec(ctx, `
		UPDATE expenses
		SET amount = $2, is_invoice = $3, additional_amount = $4,
		    last_updated_at = $5, last_updated_by = $6
		WHERE expense_id = $1 AND status = 'APPROVED' AND is_editable;
	`, expense.ExpenseID, expense.Amount, expense.IsInvoice, expense.AdditionalAmount,
		expense.LastUpdatedAt, expense.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to revise expense %s: %w", expense.ExpenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: expense %s is not approved and editable", apperrors.ErrConflict, expense.ExpenseID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM invoice_items WHERE expense_id = $1;`, expense.ExpenseID); err != nil {
		return fmt.Errorf("failed to clear invoice items for expense %s: %w", expense.ExpenseID, err)
	}

	tag, err = tx.Exec(ctx, `
		UPDATE advances
		SET remaining_amount = $2, last_updated_at = $3, last_updated_by = $4
		WHERE advance_id = $1 AND status = 'OPEN';
	`, advance.AdvanceID, advance.RemainingAmount, advance.LastUpdatedAt, advance.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to rebalance advance %s: %w", advance.AdvanceID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: advance %s is not open", apperrors.ErrConflict, advance.AdvanceID)
	}

	return r.Commit(ctx, tx)
}

func (r *PgxExpenseRepository) FindExpenseByID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE expense_id = $1;`
	m, err := scanExpense(r.Pool.QueryRow(ctx, query, expenseID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find expense by ID %s: %w", expenseID, err)
	}

	items, err := r.loadInvoiceItems(ctx, []string{m.ExpenseID})
	if err != nil {
		return nil, err
	}
	d := toDomainExpense(m, items[m.ExpenseID])
	return &d, nil
}

func (r *PgxExpenseRepository) ListExpensesByAdvance(ctx context.Context, advanceID string) ([]domain.Expense, error) {
	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE advance_id = $1 ORDER BY created_at DESC;`
	rows, err := r.Pool.Query(ctx, query, advanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	modelExpenses := []models.Expense{}
	expenseIDs := []string{}
	for rows.Next() {
		m, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense row: %w", err)
		}
		modelExpenses = append(modelExpenses, m)
		if m.IsInvoice {
			expenseIDs = append(expenseIDs, m.ExpenseID)
		}
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating expense rows: %w", rows.Err())
	}

	itemsByExpense, err := r.loadInvoiceItems(ctx, expenseIDs)
	if err != nil {
		return nil, err
	}

	expenses := make([]domain.Expense, len(modelExpenses))
	for i, m := range modelExpenses {
		expenses[i] = toDomainExpense(m, itemsByExpense[m.ExpenseID])
	}
	return expenses, nil
}

func (r *PgxExpenseRepository) CountExpensesByAdvanceAndStatus(ctx context.Context, advanceID string, status domain.ExpenseStatus) (int, error) {
	var count int
	err := r.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM expenses WHERE advance_id = $1 AND status = $2;`,
		advanceID, string(status),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count expenses for advance %s: %w", advanceID, err)
	}
	return count, nil
}
