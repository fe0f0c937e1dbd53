package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/fanfund/internal/domain"
)

// UnlockRequestRepository stores fund-unlock requests.
type UnlockRequestRepository interface {
	// Create inserts a PENDING request when the project still has at least the requested
	// amount not claimed by earlier pending or approved requests; otherwise pgx.ErrNoRows.
	Create(ctx context.Context, req *domain.UnlockRequest) error
	List(ctx context.Context, status *domain.UnlockStatus) ([]domain.UnlockRequest, error)
	Review(ctx context.Context, id string, status domain.UnlockStatus, note string) (*domain.UnlockRequest, error)
}

type unlockRequestRepository struct {
	pool TxDB
}

// NewUnlockRequestRepository instantiates repository.
func NewUnlockRequestRepository(pool TxDB) UnlockRequestRepository {
	return &unlockRequestRepository{pool: pool}
}

const unlockColumns = `id, project_id, amount_cents, reason, status, COALESCE(review_note, ''), created_at, updated_at`

// Create holds the project row lock while it sums earlier claims, so two requests for the
// same project cannot both count the same funds.
func (r *unlockRequestRepository) Create(ctx context.Context, req *domain.UnlockRequest) error {
	const lockProject = `SELECT raised_cents FROM projects WHERE id = $1 AND status = 'APPROVED' FOR UPDATE`
	const insert = `
        INSERT INTO unlock_requests (project_id, amount_cents, reason, status)
        SELECT $1, $2, $3, 'PENDING'
        WHERE $4::BIGINT - COALESCE((
                SELECT SUM(u.amount_cents) FROM unlock_requests u
                WHERE u.project_id = $1 AND u.status <> 'REJECTED'), 0) >= $2
        RETURNING id, status, created_at, updated_at`

	return inTx(ctx, r.pool, func(tx pgx.Tx) error {
		var raised int64
		if err := tx.QueryRow(ctx, lockProject, req.ProjectID).Scan(&raised); err != nil {
			return err
		}

		var status string
		if err := tx.QueryRow(ctx, insert,
			req.ProjectID,
			req.AmountCents,
			req.Reason,
			raised,
		).Scan(&req.ID, &status, &req.CreatedAt, &req.UpdatedAt); err != nil {
			return err
		}
		req.Status = domain.UnlockStatus(status)
		return nil
	})
}

func (r *unlockRequestRepository) List(ctx context.Context, status *domain.UnlockStatus) ([]domain.UnlockRequest, error) {
	query := `SELECT ` + unlockColumns + ` FROM unlock_requests`
	args := []any{}
	if status != nil {
		args = append(args, string(*status))
		query += fmt.Sprintf(" WHERE status=$%d", len(args))
	}
	query += " ORDER BY created_at ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.UnlockRequest{}
	for rows.Next() {
		req, err := scanUnlockRequest(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *req)
	}
	return result, rows.Err()
}

func (r *unlockRequestRepository) Review(ctx context.Context, id string, status domain.UnlockStatus, note string) (*domain.UnlockRequest, error) {
	query := `
        UPDATE unlock_requests SET status=$2, review_note=NULLIF($3, ''), updated_at=NOW()
        WHERE id=$1 AND status='PENDING'
        RETURNING ` + unlockColumns
	return scanUnlockRequest(r.pool.QueryRow(ctx, query, id, string(status), note))
}

func scanUnlockRequest(row pgx.Row) (*domain.UnlockRequest, error) {
	var (
		req    domain.UnlockRequest
		status string
	)
	if err := row.Scan(
		&req.ID,
		&req.ProjectID,
		&req.AmountCents,
		&req.Reason,
		&status,
		&req.ReviewNote,
		&req.CreatedAt,
		&req.UpdatedAt,
	); err != nil {
		return nil, err
	}
	req.Status = domain.UnlockStatus(status)
	return &req, nil
}
