package repository

import (
	"context"
	"fmt"

	"github.com/edumesh/contribution-api/internal/domain"
	"github.com/edumesh/contribution-api/internal/repository/dao"
)

type LedgerDAO interface {
	QueryEntries(ctx context.Context, participantID uint, kind string, activeOnly bool) ([]dao.LedgerEntry, error)
	QueryFeedback(ctx context.Context, recipientID uint) ([]dao.PrestigeFeedback, error)
}

type LedgerRepository struct {
	dao LedgerDAO
}

func NewLedgerRepository(dao LedgerDAO) *LedgerRepository {
	return &LedgerRepository{
		dao: dao,
	}
}

func (r *LedgerRepository) QueryEntries(ctx context.Context, participantID uint, kind domain.LedgerKind, activeOnly bool) ([]domain.LedgerEntry, error) {
	found, err := r.dao.QueryEntries(ctx, participantID, string(kind), activeOnly)
	if err != nil {
		return nil, fmt.Errorf("r.dao.QueryEntries -> %w", err)
	}

	entries := make([]domain.LedgerEntry, 0, len(found))
	for _, e := range found {
		entries = append(entries, entryDaoToDomain(e))
	}

	return entries, nil
}

func (r *LedgerRepository) QueryFeedback(ctx context.Context, recipientID uint) ([]domain.PrestigeFeedback, error) {
	found, err := r.dao.QueryFeedback(ctx, recipientID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.QueryFeedback -> %w", err)
	}

	feedback := make([]domain.PrestigeFeedback, 0, len(found))
	for _, f := range found {
		feedback = append(feedback, feedbackDaoToDomain(f))
	}

	return feedback, nil
}

func entryDaoToDomain(e dao.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		ID:            e.ID,
		ParticipantID: e.ParticipantID,
		ContentID:     e.ContentID,
		Kind:          domain.LedgerKind(e.Kind),
		Points:        e.Points,
		Prestige:      e.Prestige,
		MaxPoints:     e.MaxPoints,
		CreatedAt:     e.CreatedAt,
	}
}

func feedbackDaoToDomain(f dao.PrestigeFeedback) domain.PrestigeFeedback {
	return domain.PrestigeFeedback{
		ID:          f.ID,
		RecipientID: f.RecipientID,
		RaterID:     f.RaterID,
		ContentID:   f.ContentID,
		Points:      f.Points,
		CreatedAt:   f.CreatedAt,
	}
}
