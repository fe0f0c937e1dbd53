package repository

import (
	"context"

	"github.com/spec-kit/fanfund/internal/domain"
)

// InvestmentRepository records investments and the resulting holdings.
type InvestmentRepository interface {
	// Create stores the investment and adds it to the project's raised amount in one
	// statement. Only APPROVED projects accept money; anything else yields pgx.ErrNoRows.
	Create(ctx context.Context, inv *domain.Investment) error
	Holdings(ctx context.Context, investorID string) ([]domain.Holding, error)
}

type investmentRepository struct {
	pool DBTX
}

// NewInvestmentRepository instantiates repository.
func NewInvestmentRepository(pool DBTX) InvestmentRepository {
	return &investmentRepository{pool: pool}
}

func (r *investmentRepository) Create(ctx context.Context, inv *domain.Investment) error {
	const query = `
        WITH funded AS (
            UPDATE projects SET raised_cents = raised_cents + $3, updated_at = NOW()
            WHERE id = $1 AND status = 'APPROVED'
            RETURNING id
        )
        INSERT INTO investments (project_id, investor_id, amount_cents)
        SELECT funded.id, $2, $3 FROM funded
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		inv.ProjectID,
		inv.InvestorID,
		inv.AmountCents,
	).Scan(&inv.ID, &inv.CreatedAt)
}

func (r *investmentRepository) Holdings(ctx context.Context, investorID string) ([]domain.Holding, error) {
	const query = `
        SELECT p.id, p.artist_id, p.title, p.description, p.goal_cents, p.raised_cents, p.status,
               COALESCE(p.review_note, ''), p.created_at, p.updated_at, SUM(i.amount_cents)::BIGINT
        FROM investments i
        JOIN projects p ON p.id = i.project_id
        WHERE i.investor_id = $1
        GROUP BY p.id
        ORDER BY MAX(i.created_at) DESC`

	rows, err := r.pool.Query(ctx, query, investorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Holding{}
	for rows.Next() {
		var (
			h      domain.Holding
			status string
		)
		if err := rows.Scan(
			&h.Project.ID,
			&h.Project.ArtistID,
			&h.Project.Title,
			&h.Project.Description,
			&h.Project.GoalCents,
			&h.Project.RaisedCents,
			&status,
			&h.Project.ReviewNote,
			&h.Project.CreatedAt,
			&h.Project.UpdatedAt,
			&h.InvestedCents,
		); err != nil {
			return nil, err
		}
		h.Project.Status = domain.ProjectStatus(status)
		result = append(result, h)
	}
	return result, rows.Err()
}
