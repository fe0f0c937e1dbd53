package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/fanfund/internal/domain"
	"github.com/spec-kit/fanfund/internal/repository/repotest"
)

func TestCatalogService_ArtistDetailShowsApprovedProjectsOnly(t *testing.T) {
	store := repotest.NewStore()
	_, artist := seedArtist(t, store, "nova")
	store.PutProject(domain.Project{ArtistID: artist.ID, Title: "Live", Status: domain.ProjectStatusApproved})
	store.PutProject(domain.Project{ArtistID: artist.ID, Title: "Secret", Status: domain.ProjectStatusDraft})
	store.PutProject(domain.Project{ArtistID: artist.ID, Title: "Nope", Status: domain.ProjectStatusRejected})
	svc := NewCatalogService(store.Artists(), store.Projects(), "usd")

	detail, err := svc.GetArtist(context.Background(), artist.ID)
	require.NoError(t, err)
	require.Len(t, detail.Projects, 1)
	assert.Equal(t, "Live", detail.Projects[0].Title)

	_, err = svc.GetArtist(context.Background(), "missing")
	requireCode(t, err, "NOT_FOUND")
}

func TestCatalogService_ListArtistsAndTiers(t *testing.T) {
	store := repotest.NewStore()
	userB, artistB := seedArtist(t, store, "b-side")
	seedArtist(t, store, "a-side")
	svc := NewCatalogService(store.Artists(), store.Projects(), "usd")
	ctx := context.Background()

	artists, err := svc.ListArtists(ctx)
	require.NoError(t, err)
	require.Len(t, artists, 2)
	assert.Equal(t, "a-side", artists[0].Name)

	_, err = svc.CreateTier(ctx, userB, "Gold", 2500)
	require.NoError(t, err)
	_, err = svc.CreateTier(ctx, userB, "Bronze", 500)
	require.NoError(t, err)

	tiers, err := svc.ListTiers(ctx, artistB.ID)
	require.NoError(t, err)
	require.Len(t, tiers, 2)
	assert.Equal(t, "Bronze", tiers[0].Name)

	_, err = svc.ListTiers(ctx, "missing")
	requireCode(t, err, "NOT_FOUND")
}

func TestCatalogService_StoreErrorsBecomeInternal(t *testing.T) {
	store := repotest.NewStore()
	store.Err = errors.New("connection reset")
	_, err := NewCatalogService(store.Artists(), store.Projects(), "usd").ListArtists(context.Background())
	requireCode(t, err, "INTERNAL_ERROR")
}
