package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/fanfund/internal/domain"
	"github.com/spec-kit/fanfund/internal/events"
	"github.com/spec-kit/fanfund/internal/repository"
	apperrors "github.com/spec-kit/fanfund/pkg/util/errorutil"
)

// ReviewService is the administrators' queue of draft projects and unlock requests.
type ReviewService struct {
	projects   repository.ProjectRepository
	unlocks    repository.UnlockRequestRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewReviewService builds the service.
func NewReviewService(projects repository.ProjectRepository, unlocks repository.UnlockRequestRepository,
	dispatcher events.Dispatcher, logger *zap.Logger) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{projects: projects, unlocks: unlocks, dispatcher: dispatcher, logger: logger}
}

// ListProjects lists projects, optionally narrowed to one status (case-insensitive).
func (s *ReviewService) ListProjects(ctx context.Context, status string) ([]domain.Project, error) {
	filter := repository.ProjectFilter{Limit: 200}
	if status != "" {
		st := domain.ProjectStatus(strings.ToUpper(status))
		switch st {
		case domain.ProjectStatusDraft, domain.ProjectStatusApproved, domain.ProjectStatusRejected:
		default:
			return nil, apperrors.NewValidationError("unknown project status", map[string]any{"status": status})
		}
		filter.Statuses = []domain.ProjectStatus{st}
	}
	projects, err := s.projects.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return projects, nil
}

// ReviewProject approves or rejects a draft.
func (s *ReviewService) ReviewProject(ctx context.Context, admin *domain.User, id string, decision domain.ReviewDecision, note string) (*domain.Project, error) {
	status := domain.ProjectStatusRejected
	if decision == domain.ReviewApprove {
		status = domain.ProjectStatusApproved
	} else if decision != domain.ReviewReject {
		return nil, apperrors.NewValidationError("unknown decision", map[string]any{"decision": string(decision)})
	}

	project, err := s.projects.Review(ctx, id, status, strings.TrimSpace(note))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.alreadyReviewed(ctx, id)
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.New(events.EventProjectReviewed, project.ID, admin.ID, events.ProjectReviewedPayload{
		ArtistID: project.ArtistID,
		Status:   project.Status,
		Note:     project.ReviewNote,
	}))
	return project, nil
}

// ListUnlockRequests lists unlock requests, optionally narrowed to one status.
func (s *ReviewService) ListUnlockRequests(ctx context.Context, status string) ([]domain.UnlockRequest, error) {
	var filter *domain.UnlockStatus
	if status != "" {
		st := domain.UnlockStatus(strings.ToUpper(status))
		switch st {
		case domain.UnlockStatusPending, domain.UnlockStatusApproved, domain.UnlockStatusRejected:
		default:
			return nil, apperrors.NewValidationError("unknown unlock status", map[string]any{"status": status})
		}
		filter = &st
	}
	reqs, err := s.unlocks.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reqs, nil
}

// ReviewUnlock approves or rejects a pending unlock request.
func (s *ReviewService) ReviewUnlock(ctx context.Context, admin *domain.User, id string, decision domain.ReviewDecision, note string) (*domain.UnlockRequest, error) {
	status := domain.UnlockStatusRejected
	if decision == domain.ReviewApprove {
		status = domain.UnlockStatusApproved
	} else if decision != domain.ReviewReject {
		return nil, apperrors.NewValidationError("unknown decision", map[string]any{"decision": string(decision)})
	}

	req, err := s.unlocks.Review(ctx, id, status, strings.TrimSpace(note))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewConflict("unlock request is not pending", map[string]any{"id": id})
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.New(events.EventUnlockReviewed, req.ID, admin.ID, events.UnlockReviewedPayload{
		ProjectID:   req.ProjectID,
		AmountCents: req.AmountCents,
		Status:      req.Status,
	}))
	return req, nil
}

func (s *ReviewService) alreadyReviewed(ctx context.Context, id string) error {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("project", map[string]any{"id": id})
		}
		return apperrors.MapError(err)
	}
	return apperrors.NewConflict("project already reviewed", map[string]any{"status": string(project.Status)})
}

func (s *ReviewService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
