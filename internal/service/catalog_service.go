package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/fanfund/internal/domain"
	"github.com/spec-kit/fanfund/internal/repository"
	apperrors "github.com/spec-kit/fanfund/pkg/util/errorutil"
)

// ArtistDetail is an artist with the projects the public may see.
type ArtistDetail struct {
	Artist   domain.Artist
	Projects []domain.Project
}

// CatalogService serves the public artist catalogue and artists' own tiers.
type CatalogService struct {
	artists  repository.ArtistRepository
	projects repository.ProjectRepository
	currency string
}

// NewCatalogService builds the service.
func NewCatalogService(artists repository.ArtistRepository, projects repository.ProjectRepository, currency string) *CatalogService {
	if currency == "" {
		currency = "usd"
	}
	return &CatalogService{artists: artists, projects: projects, currency: strings.ToLower(currency)}
}

func (s *CatalogService) ListArtists(ctx context.Context) ([]domain.Artist, error) {
	artists, err := s.artists.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return artists, nil
}

// GetArtist returns the artist with its approved projects.
func (s *CatalogService) GetArtist(ctx context.Context, id string) (*ArtistDetail, error) {
	artist, err := s.artists.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("artist", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	projects, err := s.projects.List(ctx, repository.ProjectFilter{
		ArtistID: &artist.ID,
		Statuses: []domain.ProjectStatus{domain.ProjectStatusApproved},
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &ArtistDetail{Artist: *artist, Projects: projects}, nil
}

func (s *CatalogService) ListTiers(ctx context.Context, artistID string) ([]domain.Tier, error) {
	if _, err := s.artists.GetByID(ctx, artistID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("artist", map[string]any{"id": artistID})
		}
		return nil, apperrors.MapError(err)
	}
	tiers, err := s.artists.ListTiers(ctx, artistID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return tiers, nil
}

// CreateTier adds a subscription tier to the caller's artist profile.
func (s *CatalogService) CreateTier(ctx context.Context, user *domain.User, name string, priceCents int64) (*domain.Tier, error) {
	artist, err := artistOf(ctx, s.artists, user)
	if err != nil {
		return nil, err
	}
	tier := &domain.Tier{
		ArtistID:   artist.ID,
		Name:       strings.TrimSpace(name),
		PriceCents: priceCents,
		Currency:   s.currency,
	}
	if err := s.artists.CreateTier(ctx, tier); err != nil {
		return nil, apperrors.MapError(err)
	}
	return tier, nil
}

func artistOf(ctx context.Context, artists repository.ArtistRepository, user *domain.User) (*domain.Artist, error) {
	artist, err := artists.GetByUserID(ctx, user.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewForbidden("account has no artist profile")
		}
		return nil, apperrors.MapError(err)
	}
	return artist, nil
}
