package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/fanfund/internal/domain"
)

// ArtistRepository encapsulates artist profiles and their subscription tiers.
type ArtistRepository interface {
	Create(ctx context.Context, artist *domain.Artist) error
	GetByID(ctx context.Context, id string) (*domain.Artist, error)
	GetByUserID(ctx context.Context, userID string) (*domain.Artist, error)
	List(ctx context.Context) ([]domain.Artist, error)
	CreateTier(ctx context.Context, tier *domain.Tier) error
	ListTiers(ctx context.Context, artistID string) ([]domain.Tier, error)
	GetTier(ctx context.Context, id string) (*domain.Tier, error)
}

type artistRepository struct {
	pool DBTX
}

// NewArtistRepository instantiates repository.
func NewArtistRepository(pool DBTX) ArtistRepository {
	return &artistRepository{pool: pool}
}

func (r *artistRepository) Create(ctx context.Context, artist *domain.Artist) error {
	const query = `
        INSERT INTO artists (user_id, name, genre, bio)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		artist.UserID,
		artist.Name,
		artist.Genre,
		artist.Bio,
	).Scan(&artist.ID, &artist.CreatedAt)
}

func (r *artistRepository) GetByID(ctx context.Context, id string) (*domain.Artist, error) {
	const query = `
        SELECT id, user_id, name, genre, bio, created_at
        FROM artists WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *artistRepository) GetByUserID(ctx context.Context, userID string) (*domain.Artist, error) {
	const query = `
        SELECT id, user_id, name, genre, bio, created_at
        FROM artists WHERE user_id=$1`
	return r.fetchSingle(ctx, query, userID)
}

func (r *artistRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Artist, error) {
	var artist domain.Artist
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&artist.ID,
		&artist.UserID,
		&artist.Name,
		&artist.Genre,
		&artist.Bio,
		&artist.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &artist, nil
}

func (r *artistRepository) List(ctx context.Context) ([]domain.Artist, error) {
	const query = `
        SELECT id, user_id, name, genre, bio, created_at
        FROM artists ORDER BY name ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Artist{}
	for rows.Next() {
		var artist domain.Artist
		if err := rows.Scan(
			&artist.ID,
			&artist.UserID,
			&artist.Name,
			&artist.Genre,
			&artist.Bio,
			&artist.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, artist)
	}
	return result, rows.Err()
}

func (r *artistRepository) CreateTier(ctx context.Context, tier *domain.Tier) error {
	const query = `
        INSERT INTO tiers (artist_id, name, price_cents, currency)
        VALUES ($1, $2, $3, $4)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		tier.ArtistID,
		tier.Name,
		tier.PriceCents,
		tier.Currency,
	).Scan(&tier.ID)
}

func (r *artistRepository) ListTiers(ctx context.Context, artistID string) ([]domain.Tier, error) {
	const query = `
        SELECT id, artist_id, name, price_cents, currency
        FROM tiers WHERE artist_id=$1 ORDER BY price_cents ASC`
	rows, err := r.pool.Query(ctx, query, artistID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTiers(rows)
}

func (r *artistRepository) GetTier(ctx context.Context, id string) (*domain.Tier, error) {
	const query = `
        SELECT id, artist_id, name, price_cents, currency
        FROM tiers WHERE id=$1`
	var tier domain.Tier
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&tier.ID,
		&tier.ArtistID,
		&tier.Name,
		&tier.PriceCents,
		&tier.Currency,
	); err != nil {
		return nil, err
	}
	return &tier, nil
}

func scanTiers(rows pgx.Rows) ([]domain.Tier, error) {
	result := []domain.Tier{}
	for rows.Next() {
		var tier domain.Tier
		if err := rows.Scan(
			&tier.ID,
			&tier.ArtistID,
			&tier.Name,
			&tier.PriceCents,
			&tier.Currency,
		); err != nil {
			return nil, err
		}
		result = append(result, tier)
	}
	return result, rows.Err()
}
