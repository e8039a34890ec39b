package service

import (
	"context"
	"fmt"

	"github.com/edumesh/contribution-api/internal/domain"
)

type ContentRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Content, error)
	FindChildren(ctx context.Context, parentID uint) ([]domain.Content, error)
	FindParentChain(ctx context.Context, id uint) ([]domain.Content, error)
	Deactivate(ctx context.Context, id uint) error
}

type ContentService struct {
	repo ContentRepository
}

func NewContentService(repo ContentRepository) *ContentService {
	return &ContentService{
		repo: repo,
	}
}

func (s *ContentService) GetContent(ctx context.Context, id uint) (domain.Content, error) {
	content, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindByID -> %w", err)
	}

	return content, nil
}

func (s *ContentService) GetChildren(ctx context.Context, parentID uint) ([]domain.Content, error) {
	children, err := s.repo.FindChildren(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindChildren -> %w", err)
	}

	return children, nil
}

func (s *ContentService) GetParentChain(ctx context.Context, id uint) ([]domain.Content, error) {
	chain, err := s.repo.FindParentChain(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("s.repo.FindParentChain -> %w", err)
	}

	return chain, nil
}

// Deactivate hides content from ledger aggregation. Admin only; the
// caller enforces the role.
func (s *ContentService) Deactivate(ctx context.Context, id uint) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return fmt.Errorf("s.repo.Deactivate -> %w", err)
	}

	return nil
}
