package dto

import "github.com/spec-kit/fanfund/internal/domain"

// FromUser maps an account onto its wire identity.
func FromUser(u *domain.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     string(u.Role),
		IsAdmin:  u.IsAdmin,
	}
}

func FromArtist(a domain.Artist) ArtistResponse {
	return ArtistResponse{ID: a.ID, Name: a.Name, Genre: a.Genre, Bio: a.Bio}
}

func FromProject(p domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:             p.ID,
		ArtistID:       p.ArtistID,
		Title:          p.Title,
		Description:    p.Description,
		GoalCents:      p.GoalCents,
		RaisedCents:    p.RaisedCents,
		FundingPercent: p.FundingPercent(),
		Status:         string(p.Status),
		ReviewNote:     p.ReviewNote,
		CreatedAt:      p.CreatedAt,
	}
}

func FromProjects(projects []domain.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, FromProject(p))
	}
	return out
}

func FromTier(t domain.Tier) TierResponse {
	return TierResponse{ID: t.ID, ArtistID: t.ArtistID, Name: t.Name, PriceCents: t.PriceCents, Currency: t.Currency}
}

func FromUnlockRequest(r domain.UnlockRequest) UnlockRequestResponse {
	return UnlockRequestResponse{
		ID:          r.ID,
		ProjectID:   r.ProjectID,
		AmountCents: r.AmountCents,
		Reason:      r.Reason,
		Status:      string(r.Status),
		ReviewNote:  r.ReviewNote,
		CreatedAt:   r.CreatedAt,
	}
}
