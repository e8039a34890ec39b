package repository

import (
	"context"
	"fmt"

	"github.com/edumesh/contribution-api/internal/domain"
	"github.com/edumesh/contribution-api/internal/repository/dao"
)

type AllocationDAO interface {
	Create(ctx context.Context, batch dao.AllocationBatch) (dao.Content, dao.WorkPackage, error)
	CreateDirect(ctx context.Context, content dao.Content) (dao.Content, error)
}

// AllocationInput is the fan-out a non-admin creation performs as one
// unit: the content itself, one unit of quota for its kind, and the
// ledger/feedback records the action produces.
type AllocationInput struct {
	Content  domain.Content
	Conf     domain.EffectiveConfig
	Entries  []domain.LedgerEntry
	Feedback *domain.PrestigeFeedback
}

type AllocationRepository struct {
	dao AllocationDAO
}

func NewAllocationRepository(dao AllocationDAO) *AllocationRepository {
	return &AllocationRepository{
		dao: dao,
	}
}

func (r *AllocationRepository) Allocate(ctx context.Context, input AllocationInput) (domain.Content, domain.WorkPackage, error) {
	batch := dao.AllocationBatch{
		Content:   contentDomainToDao(input.Content),
		Job:       map[string]int{string(input.Content.Kind()): 1},
		Successor: packageDomainToDao(domain.NewWorkPackage(input.Conf, input.Content.Owner())),
		Entries:   make([]dao.LedgerEntry, 0, len(input.Entries)),
	}

	for _, entry := range input.Entries {
		batch.Entries = append(batch.Entries, dao.LedgerEntry{
			ParticipantID: entry.ParticipantID,
			Kind:          string(entry.Kind),
			Points:        entry.Points,
			Prestige:      entry.Prestige,
			MaxPoints:     entry.MaxPoints,
		})
	}

	if input.Feedback != nil {
		batch.Feedback = &dao.PrestigeFeedback{
			RecipientID: input.Feedback.RecipientID,
			RaterID:     input.Feedback.RaterID,
			Points:      input.Feedback.Points,
		}
	}

	content, pkg, err := r.dao.Create(ctx, batch)
	if err != nil {
		return nil, domain.WorkPackage{}, fmt.Errorf("r.dao.Create -> %w", err)
	}

	return contentDaoToDomain(content), packageDaoToDomain(pkg), nil
}

func (r *AllocationRepository) CreateDirect(ctx context.Context, content domain.Content) (domain.Content, error) {
	created, err := r.dao.CreateDirect(ctx, contentDomainToDao(content))
	if err != nil {
		return nil, fmt.Errorf("r.dao.CreateDirect -> %w", err)
	}

	return contentDaoToDomain(created), nil
}
