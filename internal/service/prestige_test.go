package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumesh/contribution-api/internal/domain"
)

func TestPrestigeService_ComputePrestige(t *testing.T) {
	tests := []struct {
		name     string
		feedback []domain.PrestigeFeedback
		want     float64
	}{
		{
			name: "no feedback yields the smoothing default",
			want: domain.PrestigeDefault,
		},
		{
			name: "single feedback",
			feedback: []domain.PrestigeFeedback{
				{RecipientID: 1, Points: 4},
			},
			want: 4.0,
		},
		{
			name: "mean of several judgements",
			feedback: []domain.PrestigeFeedback{
				{RecipientID: 1, Points: 1},
				{RecipientID: 1, Points: 5},
			},
			want: 3.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newFakeLedgerRepo()
			repo.feedback[1] = tt.feedback
			svc := NewPrestigeService(repo)

			got, err := svc.ComputePrestige(context.Background(), 1)

			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}
