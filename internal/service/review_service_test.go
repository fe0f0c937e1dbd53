package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/fanfund/internal/domain"
	"github.com/spec-kit/fanfund/internal/events"
	"github.com/spec-kit/fanfund/internal/repository/repotest"
)

func TestReviewService_ReviewProjectOnce(t *testing.T) {
	store := repotest.NewStore()
	user, _ := seedArtist(t, store, "nova")
	admin := &domain.User{ID: "admin-1", IsAdmin: true}
	dispatcher, rec := recordingDispatcher()
	svc := NewReviewService(store.Projects(), store.UnlockRequests(), dispatcher, nil)
	ctx := context.Background()

	project, err := newFundingService(store, nil).CreateProject(ctx, user, "Tour", "dates", 1000)
	require.NoError(t, err)

	drafts, err := svc.ListProjects(ctx, "draft")
	require.NoError(t, err)
	require.Len(t, drafts, 1)

	reviewed, err := svc.ReviewProject(ctx, admin, project.ID, domain.ReviewApprove, " looks good ")
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusApproved, reviewed.Status)
	assert.Equal(t, "looks good", reviewed.ReviewNote)

	_, err = svc.ReviewProject(ctx, admin, project.ID, domain.ReviewReject, "")
	requireCode(t, err, "CONFLICT")

	_, err = svc.ReviewProject(ctx, admin, "missing", domain.ReviewReject, "")
	requireCode(t, err, "NOT_FOUND")

	assert.Equal(t, []events.EventType{events.EventProjectReviewed}, rec.types())
}

func TestReviewService_RejectsUnknownInputs(t *testing.T) {
	store := repotest.NewStore()
	svc := NewReviewService(store.Projects(), store.UnlockRequests(), nil, nil)
	ctx := context.Background()

	_, err := svc.ListProjects(ctx, "archived")
	requireCode(t, err, "VALIDATION_FAILED")

	_, err = svc.ListUnlockRequests(ctx, "archived")
	requireCode(t, err, "VALIDATION_FAILED")

	_, err = svc.ReviewProject(ctx, &domain.User{ID: "a"}, "p", "maybe", "")
	requireCode(t, err, "VALIDATION_FAILED")
}

func TestReviewService_ReviewUnlock(t *testing.T) {
	store := repotest.NewStore()
	owner, artist := seedArtist(t, store, "nova")
	project := store.PutProject(domain.Project{
		ArtistID: artist.ID, Title: "Tour", GoalCents: 1000, RaisedCents: 800, Status: domain.ProjectStatusApproved,
	})
	ctx := context.Background()
	req, err := newFundingService(store, nil).RequestUnlock(ctx, owner, project.ID, 500, "studio")
	require.NoError(t, err)

	dispatcher, rec := recordingDispatcher()
	svc := NewReviewService(store.Projects(), store.UnlockRequests(), dispatcher, nil)
	admin := &domain.User{ID: "admin-1", IsAdmin: true}

	pending, err := svc.ListUnlockRequests(ctx, "PENDING")
	require.NoError(t, err)
	require.Len(t, pending, 1)

	reviewed, err := svc.ReviewUnlock(ctx, admin, req.ID, domain.ReviewReject, "too early")
	require.NoError(t, err)
	assert.Equal(t, domain.UnlockStatusRejected, reviewed.Status)

	_, err = svc.ReviewUnlock(ctx, admin, req.ID, domain.ReviewApprove, "")
	requireCode(t, err, "CONFLICT")

	all, err := svc.ListUnlockRequests(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Equal(t, []events.EventType{events.EventUnlockReviewed}, rec.types())
}
