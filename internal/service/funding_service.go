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

// FundingService covers the money side of projects: drafts, investments, holdings and
// fund-unlock requests.
type FundingService struct {
	artists     repository.ArtistRepository
	projects    repository.ProjectRepository
	investments repository.InvestmentRepository
	unlocks     repository.UnlockRequestRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// FundingDependencies encapsulates repo requirements for the funding service.
type FundingDependencies struct {
	ArtistRepo     repository.ArtistRepository
	ProjectRepo    repository.ProjectRepository
	InvestmentRepo repository.InvestmentRepository
	UnlockRepo     repository.UnlockRequestRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// NewFundingService builds the service.
func NewFundingService(deps FundingDependencies) *FundingService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FundingService{
		artists:     deps.ArtistRepo,
		projects:    deps.ProjectRepo,
		investments: deps.InvestmentRepo,
		unlocks:     deps.UnlockRepo,
		dispatcher:  deps.Dispatcher,
		logger:      logger,
	}
}

// CreateProject submits a draft for the caller's artist profile.
func (s *FundingService) CreateProject(ctx context.Context, user *domain.User, title, description string, goalCents int64) (*domain.Project, error) {
	artist, err := artistOf(ctx, s.artists, user)
	if err != nil {
		return nil, err
	}
	project := &domain.Project{
		ArtistID:    artist.ID,
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
		GoalCents:   goalCents,
	}
	if err := s.projects.CreateDraft(ctx, project); err != nil {
		return nil, apperrors.MapError(err)
	}
	return project, nil
}

// Invest commits amountCents of investor's money to an approved project.
func (s *FundingService) Invest(ctx context.Context, investor *domain.User, projectID string, amountCents int64) (*domain.Investment, error) {
	if amountCents <= 0 {
		return nil, apperrors.NewValidationError("amount must be positive", map[string]any{"amountCents": amountCents})
	}

	inv := &domain.Investment{ProjectID: projectID, InvestorID: investor.ID, AmountCents: amountCents}
	if err := s.investments.Create(ctx, inv); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.projectNotOpen(ctx, projectID)
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.New(events.EventInvestmentCreated, inv.ID, investor.ID, events.InvestmentCreatedPayload{
		ProjectID:   projectID,
		AmountCents: amountCents,
	}))
	return inv, nil
}

// Portfolio lists the investor's holdings.
func (s *FundingService) Portfolio(ctx context.Context, investor *domain.User) ([]domain.Holding, error) {
	holdings, err := s.investments.Holdings(ctx, investor.ID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return holdings, nil
}

// RequestUnlock asks administrators to release part of a project's raised funds. Only
// the owning artist may ask, and never for more than is still unclaimed.
func (s *FundingService) RequestUnlock(ctx context.Context, user *domain.User, projectID string, amountCents int64, reason string) (*domain.UnlockRequest, error) {
	artist, err := artistOf(ctx, s.artists, user)
	if err != nil {
		return nil, err
	}
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("project", map[string]any{"id": projectID})
		}
		return nil, apperrors.MapError(err)
	}
	if project.ArtistID != artist.ID {
		return nil, apperrors.NewForbidden("project belongs to another artist")
	}
	if project.Status != domain.ProjectStatusApproved {
		return nil, apperrors.NewConflict("project is not approved", map[string]any{"status": string(project.Status)})
	}

	req := &domain.UnlockRequest{ProjectID: projectID, AmountCents: amountCents, Reason: strings.TrimSpace(reason)}
	if err := s.unlocks.Create(ctx, req); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewConflict("amount exceeds available funds", map[string]any{
				"amountCents": amountCents,
				"raisedCents": project.RaisedCents,
			})
		}
		return nil, apperrors.MapError(err)
	}
	return req, nil
}

func (s *FundingService) projectNotOpen(ctx context.Context, projectID string) error {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("project", map[string]any{"id": projectID})
		}
		return apperrors.MapError(err)
	}
	return apperrors.NewConflict("project is not open for investment", map[string]any{"status": string(project.Status)})
}

func (s *FundingService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
