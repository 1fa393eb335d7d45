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

type PgxAdvanceRepository struct {
	BaseRepository
}

func newPgxAdvanceRepository(db *pgxpool.Pool) portsrepo.AdvanceRepositoryFacade {
	return &PgxAdvanceRepository{BaseRepository{Pool: db}}
}

var _ portsrepo.AdvanceRepositoryFacade = (*PgxAdvanceRepository)(nil)

func toModelAdvance(d domain.Advance) models.Advance {
	m := models.Advance{
		AdvanceID:       d.AdvanceID,
		ProjectID:       d.ProjectID,
		UserID:          d.UserID,
		Amount:          d.Amount,
		RemainingAmount: d.RemainingAmount,
		Description:     d.Description,
		Status:          string(d.Status),
		Date:            d.Date,
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
	if d.Settlement != nil {
		m.SettlementTotalApproved = &d.Settlement.TotalApprovedExpenses
		m.SettlementReturnedCash = &d.Settlement.ReturnedCashAmount
		m.SettlementDeficit = &d.Settlement.DeficitAmount
		m.SettlementDate = &d.Settlement.SettlementDate
		if d.Settlement.Notes != "" {
			m.SettlementNotes = &d.Settlement.Notes
		}
	}
	return m
}

func toDomainAdvance(m models.Advance) domain.Advance {
	d := domain.Advance{
		AdvanceID:       m.AdvanceID,
		ProjectID:       m.ProjectID,
		UserID:          m.UserID,
		Amount:          m.Amount,
		RemainingAmount: m.RemainingAmount,
		Description:     m.Description,
		Status:          domain.AdvanceStatus(m.Status),
		Date:            m.Date,
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
	if m.SettlementDate != nil {
		settlement := domain.Settlement{
			TotalApprovedExpenses: *m.SettlementTotalApproved,
			ReturnedCashAmount:    *m.SettlementReturnedCash,
			DeficitAmount:         *m.SettlementDeficit,
			SettlementDate:        *m.SettlementDate,
		}
		if m.SettlementNotes != nil {
			settlement.Notes = *m.SettlementNotes
		}
		d.Settlement = &settlement
	}
	return d
}

const advanceColumns = `advance_id, project_id, user_id, amount, remaining_amount, description, status, advance_date, rejection_reason, settlement_total_approved, settlement_returned_cash, settlement_deficit, settlement_date, settlement_notes, created_at, created_by, last_updated_at, last_updated_by`

func scanAdvance(row pgx.Row) (models.Advance, error) {
	var m models.Advance
	err := row.Scan(
		&m.AdvanceID,
		&m.ProjectID,
		&m.UserID,
		&m.Amount,
		&m.RemainingAmount,
		&m.Description,
		&m.Status,
		&m.Date,
		&m.RejectionReason,
		&m.SettlementTotalApproved,
		&m.SettlementReturnedCash,
		&m.SettlementDeficit,
		&m.SettlementDate,
		&m.SettlementNotes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func (r *PgxAdvanceRepository) SaveAdvance(ctx context.Context, advance domain.Advance) error {
	m := toModelAdvance(advance)
	query := `
		INSERT INTO advances (
			advance_id, project_id, user_id, amount, remaining_amount, description,
			status, advance_date, rejection_reason,
			created_at, created_by, last_updated_at, last_updated_by
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AdvanceID, m.ProjectID, m.UserID, m.Amount, m.RemainingAmount, m.Description,
		m.Status, m.Date, m.RejectionReason,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save advance: %w", err)
	}
	return nil
}

func (r *PgxAdvanceRepository) UpdateAdvance(ctx context.Context, advance domain.Advance) error {
	m := toModelAdvance(advance)
	query := `
		UPDATE advances
		SET status = $2, remaining_amount = $3, rejection_reason = $4,
		    last_updated_at = $5, last_updated_by = $6
		WHERE advance_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.AdvanceID, m.Status, m.RemainingAmount, m.RejectionReason,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update advance %s: %w", advance.AdvanceID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// CloseAdvance writes the CLOSED transition and the settlement columns in one
// statement. The status guard makes a second close attempt a conflict instead
// of a silent overwrite.
func (r *PgxAdvanceRepository) CloseAdvance(ctx context.Context, advance domain.Advance) error {
	m := toModelAdvance(advance)
	query := `
		UPDATE advances
		SET status = $2, remaining_amount = $3,
		    settlement_total_approved = $4, settlement_returned_cash = $5,
		    settlement_deficit = $6, settlement_date = $7, settlement_notes = $8,
		    last_updated_at = $9, last_updated_by = $10
		WHERE advance_id = $1 AND status = 'OPEN';
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.AdvanceID, m.Status, m.RemainingAmount,
		m.SettlementTotalApproved, m.SettlementReturnedCash,
		m.SettlementDeficit, m.SettlementDate, m.SettlementNotes,
		m.LastUpdatedAt, m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to close advance %s: %w", advance.AdvanceID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: advance %s is not open", apperrors.ErrConflict, advance.AdvanceID)
	}
	return nil
}

func (r *PgxAdvanceRepository) FindAdvanceByID(ctx context.Context, advanceID string) (*domain.Advance, error) {
	query := `SELECT ` + advanceColumns + ` FROM advances WHERE advance_id = $1;`
	m, err := scanAdvance(r.Pool.QueryRow(ctx, query, advanceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find advance by ID %s: %w", advanceID, err)
	}
	d := toDomainAdvance(m)
	return &d, nil
}

func (r *PgxAdvanceRepository) ListAdvancesByProject(ctx context.Context, projectID string) ([]domain.Advance, error) {
	query := `SELECT ` + advanceColumns + ` FROM advances WHERE project_id = $1 ORDER BY created_at DESC;`
	return r.queryAdvances(ctx, query, projectID)
}

func (r *PgxAdvanceRepository) ListAdvancesByUser(ctx context.Context, userID string) ([]domain.Advance, error) {
	query := `SELECT ` + advanceColumns + ` FROM advances WHERE user_id = $1 ORDER BY created_at DESC;`
	return r.queryAdvances(ctx, query, userID)
}

func (r *PgxAdvanceRepository) queryAdvances(ctx context.Context, query string, args ...any) ([]domain.Advance, error) {
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query advances: %w", err)
	}
	defer rows.Close()

	advances := []domain.Advance{}
	for rows.Next() {
		m, err := scanAdvance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan advance row: %w", err)
		}
		advances = append(advances, toDomainAdvance(m))
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating advance rows: %w", rows.Err())
	}
	return advances, nil
}
