package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumesh/contribution-api/internal/domain"
)

// contentState mirrors the aggregation-relevant flags of a content row.
type contentState struct {
	active   bool
	finished bool
}

// fakeLedgerRepo serves canned entries and feedback per participant.
// Entries referencing a content ID with a registered state are filtered
// the way the store does when activeOnly is set; entries without a
// registered state count as active and finished.
type fakeLedgerRepo struct {
	entries       map[uint][]domain.LedgerEntry
	feedback      map[uint][]domain.PrestigeFeedback
	contentStates map[uint]contentState
	activeOnly    []bool
}

func newFakeLedgerRepo() *fakeLedgerRepo {
	return &fakeLedgerRepo{
		entries:       make(map[uint][]domain.LedgerEntry),
		feedback:      make(map[uint][]domain.PrestigeFeedback),
		contentStates: make(map[uint]contentState),
	}
}

func (r *fakeLedgerRepo) QueryEntries(_ context.Context, participantID uint, kind domain.LedgerKind, activeOnly bool) ([]domain.LedgerEntry, error) {
	r.activeOnly = append(r.activeOnly, activeOnly)

	var out []domain.LedgerEntry
	for _, entry := range r.entries[participantID] {
		if entry.Kind != kind {
			continue
		}
		if activeOnly {
			if state, ok := r.contentStates[entry.ContentID]; ok && !(state.active && state.finished) {
				continue
			}
		}
		out = append(out, entry)
	}

	return out, nil
}

func (r *fakeLedgerRepo) QueryFeedback(_ context.Context, recipientID uint) ([]domain.PrestigeFeedback, error) {
	return r.feedback[recipientID], nil
}

func TestLedgerService_ComputeBalance(t *testing.T) {
	t.Run("empty ledger is a zero balance", func(t *testing.T) {
		svc := NewLedgerService(newFakeLedgerRepo())

		balance, err := svc.ComputeBalance(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, 0.0, balance.Gained)
		assert.Equal(t, 0.0, balance.Spent)
		assert.Equal(t, 0.0, balance.Available())
	})

	t.Run("gained is the prestige-weighted mean scaled by the rating maximum", func(t *testing.T) {
		repo := newFakeLedgerRepo()
		repo.entries[1] = []domain.LedgerEntry{
			{ParticipantID: 1, Kind: domain.LedgerGain, Points: 4, Prestige: ptr(2), MaxPoints: ptr(10)},
			{ParticipantID: 1, Kind: domain.LedgerGain, Points: 2, Prestige: ptr(3), MaxPoints: ptr(5)},
		}
		svc := NewLedgerService(repo)

		balance, err := svc.ComputeBalance(context.Background(), 1)

		require.NoError(t, err)
		// (4*2*10 + 2*3*5) / (2+3) / 5 = 110 / 5 / 5
		assert.InDelta(t, 4.4, balance.Gained, 1e-9)
	})

	t.Run("flat creation bonuses stay out of gained", func(t *testing.T) {
		repo := newFakeLedgerRepo()
		repo.entries[1] = []domain.LedgerEntry{
			{ParticipantID: 1, Kind: domain.LedgerGain, Points: 100},
			{ParticipantID: 1, Kind: domain.LedgerGain, Points: 4, Prestige: ptr(2), MaxPoints: ptr(10)},
		}
		svc := NewLedgerService(repo)

		balance, err := svc.ComputeBalance(context.Background(), 1)

		require.NoError(t, err)
		// 4*2*10 / 2 / 5 = 8; the flat 100 contributes nothing.
		assert.InDelta(t, 8.0, balance.Gained, 1e-9)
	})

	t.Run("gains from inactive or unfinished content drop out", func(t *testing.T) {
		repo := newFakeLedgerRepo()
		repo.contentStates[10] = contentState{active: true, finished: true}
		repo.contentStates[11] = contentState{active: false, finished: true}
		repo.contentStates[12] = contentState{active: true, finished: false}
		repo.entries[1] = []domain.LedgerEntry{
			{ParticipantID: 1, ContentID: 10, Kind: domain.LedgerGain, Points: 4, Prestige: ptr(2), MaxPoints: ptr(10)},
			{ParticipantID: 1, ContentID: 11, Kind: domain.LedgerGain, Points: 5, Prestige: ptr(5), MaxPoints: ptr(10)},
			{ParticipantID: 1, ContentID: 12, Kind: domain.LedgerGain, Points: 5, Prestige: ptr(5), MaxPoints: ptr(10)},
		}
		svc := NewLedgerService(repo)

		balance, err := svc.ComputeBalance(context.Background(), 1)

		require.NoError(t, err)
		// Only the entry from content 10 survives: 4*2*10 / 2 / 5.
		assert.InDelta(t, 8.0, balance.Gained, 1e-9)
		// The balance read must request the filtered view.
		require.NotEmpty(t, repo.activeOnly)
		for _, flag := range repo.activeOnly {
			assert.True(t, flag)
		}
	})

	t.Run("costs from inactive content drop out of the mean", func(t *testing.T) {
		repo := newFakeLedgerRepo()
		repo.contentStates[10] = contentState{active: true, finished: true}
		repo.contentStates[11] = contentState{active: false, finished: true}
		repo.entries[1] = []domain.LedgerEntry{
			{ParticipantID: 1, ContentID: 10, Kind: domain.LedgerCost, Points: 3},
			{ParticipantID: 1, ContentID: 11, Kind: domain.LedgerCost, Points: 7},
		}
		svc := NewLedgerService(repo)

		balance, err := svc.ComputeBalance(context.Background(), 1)

		require.NoError(t, err)
		// The excluded cost changes the mean, not just the sum.
		assert.InDelta(t, 3.0, balance.Spent, 1e-9)
	})

	t.Run("spent is the mean of cost entries", func(t *testing.T) {
		repo := newFakeLedgerRepo()
		repo.entries[1] = []domain.LedgerEntry{
			{ParticipantID: 1, Kind: domain.LedgerCost, Points: 3},
			{ParticipantID: 1, Kind: domain.LedgerCost, Points: 7},
		}
		svc := NewLedgerService(repo)

		balance, err := svc.ComputeBalance(context.Background(), 1)

		require.NoError(t, err)
		assert.InDelta(t, 5.0, balance.Spent, 1e-9)
		assert.InDelta(t, -5.0, balance.Available(), 1e-9)
	})
}

func TestLedgerService_HasSufficientBalance(t *testing.T) {
	repo := newFakeLedgerRepo()
	repo.entries[1] = []domain.LedgerEntry{
		{ParticipantID: 1, Kind: domain.LedgerGain, Points: 4, Prestige: ptr(2), MaxPoints: ptr(10)},
	}
	svc := NewLedgerService(repo)

	tests := []struct {
		name        string
		participant domain.Participant
		amount      float64
		want        bool
	}{
		{
			name:        "admin always passes",
			participant: domain.Participant{ID: 99, Admin: true},
			amount:      1000,
			want:        true,
		},
		{
			name:        "zero cost always passes",
			participant: domain.Participant{ID: 2},
			amount:      0,
			want:        true,
		},
		{
			name:        "available covers the amount",
			participant: domain.Participant{ID: 1},
			amount:      8, // gained is exactly 8
			want:        true,
		},
		{
			name:        "available below the amount",
			participant: domain.Participant{ID: 1},
			amount:      8.5,
			want:        false,
		},
		{
			name:        "empty ledger cannot afford a positive cost",
			participant: domain.Participant{ID: 2},
			amount:      1,
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.HasSufficientBalance(context.Background(), tt.participant, tt.amount)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
