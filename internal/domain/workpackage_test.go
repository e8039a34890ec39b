package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWorkPackage(t *testing.T) {
	tests := []struct {
		name string
		conf EffectiveConfig
		want WorkPackage
	}{
		{
			name: "even split",
			conf: EffectiveConfig{
				PackageSize:   20,
				TaskShare:     0.25,
				InfoShare:     0.25,
				SolutionShare: 0.25,
				RateShare:     0.25,
			},
			want: WorkPackage{
				ParticipantID: 7,
				TasksToDo:     5,
				InfosToDo:     5,
				SolutionsToDo: 5,
				RatingsToDo:   5,
			},
		},
		{
			name: "uneven shares round per kind",
			conf: EffectiveConfig{
				PackageSize:   10,
				TaskShare:     0.50,
				InfoShare:     0.30,
				SolutionShare: 0.15,
				RateShare:     0.05,
			},
			want: WorkPackage{
				ParticipantID: 7,
				TasksToDo:     5,
				InfosToDo:     3,
				SolutionsToDo: 2,
				RatingsToDo:   1,
			},
		},
		{
			name: "zero share yields zero quota",
			conf: EffectiveConfig{
				PackageSize:   8,
				TaskShare:     1.0,
				InfoShare:     0,
				SolutionShare: 0,
				RateShare:     0,
			},
			want: WorkPackage{
				ParticipantID: 7,
				TasksToDo:     8,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewWorkPackage(tt.conf, 7)

			assert.Equal(t, tt.want, got)
		})
	}
}

func TestWorkPackage_Apply(t *testing.T) {
	t.Run("decrements todo and counts done", func(t *testing.T) {
		pkg := WorkPackage{TasksToDo: 3}

		pkg.Apply(KindTask, 1)

		assert.Equal(t, 2, pkg.TasksToDo)
		assert.Equal(t, 1, pkg.TasksDone)
	})

	t.Run("todo floors at zero, done keeps counting", func(t *testing.T) {
		pkg := WorkPackage{InfosToDo: 1}

		pkg.Apply(KindInfo, 3)

		assert.Equal(t, 0, pkg.InfosToDo)
		assert.Equal(t, 3, pkg.InfosDone)
	})
}

func TestWorkPackage_ApplyJob(t *testing.T) {
	pkg := WorkPackage{TasksToDo: 2, InfosToDo: 2, SolutionsToDo: 1, RatingsToDo: 1}

	pkg.ApplyJob(map[ContentKind]int{
		KindTask:     1,
		KindSolution: 1,
	})

	assert.Equal(t, 1, pkg.TasksToDo)
	assert.Equal(t, 1, pkg.TasksDone)
	assert.Equal(t, 2, pkg.InfosToDo)
	assert.Equal(t, 0, pkg.SolutionsToDo)
	assert.Equal(t, 1, pkg.SolutionsDone)
	assert.Equal(t, 1, pkg.RatingsToDo)
}

func TestWorkPackage_IsFinished(t *testing.T) {
	tests := []struct {
		name string
		pkg  WorkPackage
		want bool
	}{
		{
			name: "fresh package is not finished",
			pkg:  WorkPackage{TasksToDo: 1, InfosToDo: 1, SolutionsToDo: 1, RatingsToDo: 1},
			want: false,
		},
		{
			name: "one kind left keeps it open",
			pkg:  WorkPackage{RatingsToDo: 1},
			want: false,
		},
		{
			name: "all quotas spent",
			pkg:  WorkPackage{TasksDone: 3, InfosDone: 2, SolutionsDone: 1, RatingsDone: 2},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.pkg.IsFinished())
		})
	}
}
