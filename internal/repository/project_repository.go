package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/fanfund/internal/domain"
)

// ProjectFilter narrows project listings.
type ProjectFilter struct {
	ArtistID *string
	Statuses []domain.ProjectStatus
	Limit    int
	Offset   int
}

// ProjectRepository encapsulates funding project persistence.
type ProjectRepository interface {
	CreateDraft(ctx context.Context, project *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, filter ProjectFilter) ([]domain.Project, error)
	// Review moves a DRAFT project to status. It returns pgx.ErrNoRows when the
	// project does not exist or was already reviewed.
	Review(ctx context.Context, id string, status domain.ProjectStatus, note string) (*domain.Project, error)
}

type projectRepository struct {
	pool DBTX
}

// NewProjectRepository instantiates repository.
func NewProjectRepository(pool DBTX) ProjectRepository {
	return &projectRepository{pool: pool}
}

const projectColumns = `id, artist_id, title, description, goal_cents, raised_cents, status,
               COALESCE(review_note, ''), created_at, updated_at`

func (r *projectRepository) CreateDraft(ctx context.Context, project *domain.Project) error {
	const query = `
        INSERT INTO projects (artist_id, title, description, goal_cents, status)
        VALUES ($1, $2, $3, $4, 'DRAFT')
        RETURNING id, raised_cents, status, created_at, updated_at`

	var status string
	if err := r.pool.QueryRow(ctx, query,
		project.ArtistID,
		project.Title,
		project.Description,
		project.GoalCents,
	).Scan(&project.ID, &project.RaisedCents, &status, &project.CreatedAt, &project.UpdatedAt); err != nil {
		return err
	}
	project.Status = domain.ProjectStatus(status)
	return nil
}

func (r *projectRepository) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id=$1`
	return scanProject(r.pool.QueryRow(ctx, query, id))
}

func (r *projectRepository) Review(ctx context.Context, id string, status domain.ProjectStatus, note string) (*domain.Project, error) {
	query := `
        UPDATE projects SET status=$2, review_note=NULLIF($3, ''), updated_at=NOW()
        WHERE id=$1 AND status='DRAFT'
        RETURNING ` + projectColumns
	return scanProject(r.pool.QueryRow(ctx, query, id, string(status), note))
}

func (r *projectRepository) List(ctx context.Context, filter ProjectFilter) ([]domain.Project, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if filter.ArtistID != nil {
		args = append(args, *filter.ArtistID)
		clauses = append(clauses, fmt.Sprintf("artist_id=$%d", len(args)))
	}
	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, string(status))
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`SELECT %s FROM projects WHERE %s ORDER BY created_at DESC LIMIT %d OFFSET %d`,
		projectColumns, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *project)
	}
	return result, rows.Err()
}

func scanProject(row pgx.Row) (*domain.Project, error) {
	var (
		project domain.Project
		status  string
	)
	if err := row.Scan(
		&project.ID,
		&project.ArtistID,
		&project.Title,
		&project.Description,
		&project.GoalCents,
		&project.RaisedCents,
		&status,
		&project.ReviewNote,
		&project.CreatedAt,
		&project.UpdatedAt,
	); err != nil {
		return nil, err
	}
	project.Status = domain.ProjectStatus(status)
	return &project, nil
}
