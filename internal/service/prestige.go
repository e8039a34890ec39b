package service

import (
	"context"
	"fmt"

	"github.com/edumesh/contribution-api/internal/domain"
)

type PrestigeFeedbackRepository interface {
	QueryFeedback(ctx context.Context, recipientID uint) ([]domain.PrestigeFeedback, error)
}

type PrestigeService struct {
	repo PrestigeFeedbackRepository
}

func NewPrestigeService(repo PrestigeFeedbackRepository) *PrestigeService {
	return &PrestigeService{
		repo: repo,
	}
}

// ComputePrestige is the arithmetic mean of the feedback addressed to
// the participant. With no feedback yet the smoothing default applies;
// the synthetic sample drops out as soon as real feedback exists.
func (s *PrestigeService) ComputePrestige(ctx context.Context, participantID uint) (float64, error) {
	feedback, err := s.repo.QueryFeedback(ctx, participantID)
	if err != nil {
		return 0, fmt.Errorf("s.repo.QueryFeedback -> %w", err)
	}

	if len(feedback) == 0 {
		return domain.PrestigeDefault, nil
	}

	var total float64
	for _, f := range feedback {
		total += float64(f.Points)
	}

	return total / float64(len(feedback)), nil
}
