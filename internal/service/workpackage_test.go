package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumesh/contribution-api/internal/domain"
	"github.com/edumesh/contribution-api/internal/repository"
)

// fakeWorkPackageRepo mirrors the transactional dao semantics in
// memory: one active package per participant, auto-rollover on full
// consumption.
type fakeWorkPackageRepo struct {
	nextID   uint
	active   map[uint]*domain.WorkPackage
	finished []domain.WorkPackage
	known    map[uint]bool
}

func newFakeWorkPackageRepo(participantIDs ...uint) *fakeWorkPackageRepo {
	known := make(map[uint]bool)
	for _, id := range participantIDs {
		known[id] = true
	}

	return &fakeWorkPackageRepo{
		active: make(map[uint]*domain.WorkPackage),
		known:  known,
	}
}

func (r *fakeWorkPackageRepo) FindActive(_ context.Context, participantID uint) (domain.WorkPackage, error) {
	pkg, ok := r.active[participantID]
	if !ok {
		return domain.WorkPackage{}, repository.ErrPackageNotFound
	}

	return *pkg, nil
}

func (r *fakeWorkPackageRepo) Provision(_ context.Context, conf domain.EffectiveConfig, participantID uint) (domain.WorkPackage, error) {
	if !r.known[participantID] {
		return domain.WorkPackage{}, repository.ErrParticipantNotFound
	}

	if open, ok := r.active[participantID]; ok {
		open.Finished = true
		r.finished = append(r.finished, *open)
	}

	r.nextID++
	pkg := domain.NewWorkPackage(conf, participantID)
	pkg.ID = r.nextID
	r.active[participantID] = &pkg

	return pkg, nil
}

func (r *fakeWorkPackageRepo) Consume(_ context.Context, job map[domain.ContentKind]int, conf domain.EffectiveConfig, participantID uint) (domain.WorkPackage, error) {
	pkg, ok := r.active[participantID]
	if !ok {
		return domain.WorkPackage{}, repository.ErrPackageNotFound
	}

	pkg.ApplyJob(job)
	if !pkg.IsFinished() {
		return *pkg, nil
	}

	pkg.Finished = true
	r.finished = append(r.finished, *pkg)

	r.nextID++
	successor := domain.NewWorkPackage(conf, participantID)
	successor.ID = r.nextID
	r.active[participantID] = &successor

	return successor, nil
}

func testPackageConfig() *ConfigService {
	repo := newFakeConfigRepo()
	svc := NewConfigService(repo)
	_, _ = svc.CreateGlobal(context.Background(), GlobalConfigInput{
		NodeID:           1,
		PackageSize:      10,
		TaskSharePct:     50,
		InfoSharePct:     30,
		SolutionSharePct: 15,
		RateSharePct:     5,
	})

	return svc
}

func TestWorkPackageService_Provision(t *testing.T) {
	t.Run("sizes the package from the global config", func(t *testing.T) {
		repo := newFakeWorkPackageRepo(1)
		svc := NewWorkPackageService(repo, testPackageConfig(), NewKeyedMutex())

		pkg, err := svc.Provision(context.Background(), 1)

		require.NoError(t, err)
		assert.Equal(t, 5, pkg.TasksToDo)
		assert.Equal(t, 3, pkg.InfosToDo)
		assert.Equal(t, 2, pkg.SolutionsToDo)
		assert.Equal(t, 1, pkg.RatingsToDo)
		assert.False(t, pkg.Finished)
	})

	t.Run("re-provision supersedes the open package", func(t *testing.T) {
		repo := newFakeWorkPackageRepo(1)
		svc := NewWorkPackageService(repo, testPackageConfig(), NewKeyedMutex())

		first, err := svc.Provision(context.Background(), 1)
		require.NoError(t, err)

		second, err := svc.Provision(context.Background(), 1)
		require.NoError(t, err)

		assert.NotEqual(t, first.ID, second.ID)
		require.Len(t, repo.finished, 1)
		assert.True(t, repo.finished[0].Finished)

		active, err := svc.Status(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, second.ID, active.ID)
	})

	t.Run("unknown participant", func(t *testing.T) {
		svc := NewWorkPackageService(newFakeWorkPackageRepo(), testPackageConfig(), NewKeyedMutex())

		_, err := svc.Provision(context.Background(), 42)

		assert.ErrorIs(t, err, ErrParticipantNotFound)
	})

	t.Run("no global config", func(t *testing.T) {
		svc := NewWorkPackageService(newFakeWorkPackageRepo(1), NewConfigService(newFakeConfigRepo()), NewKeyedMutex())

		_, err := svc.Provision(context.Background(), 1)

		assert.ErrorIs(t, err, ErrConfigNotFound)
	})
}

func TestWorkPackageService_Consume(t *testing.T) {
	t.Run("partial consumption keeps the package open", func(t *testing.T) {
		repo := newFakeWorkPackageRepo(1)
		svc := NewWorkPackageService(repo, testPackageConfig(), NewKeyedMutex())

		_, err := svc.Provision(context.Background(), 1)
		require.NoError(t, err)

		pkg, err := svc.Consume(context.Background(), map[domain.ContentKind]int{domain.KindTask: 2}, 1)

		require.NoError(t, err)
		assert.Equal(t, 3, pkg.TasksToDo)
		assert.Equal(t, 2, pkg.TasksDone)
		assert.False(t, pkg.Finished)
		assert.Empty(t, repo.finished)
	})

	t.Run("spending the last quota rolls over to a fresh package", func(t *testing.T) {
		repo := newFakeWorkPackageRepo(1)
		svc := NewWorkPackageService(repo, testPackageConfig(), NewKeyedMutex())

		first, err := svc.Provision(context.Background(), 1)
		require.NoError(t, err)

		pkg, err := svc.Consume(context.Background(), map[domain.ContentKind]int{
			domain.KindTask:     5,
			domain.KindInfo:     3,
			domain.KindSolution: 2,
			domain.KindRating:   1,
		}, 1)

		require.NoError(t, err)
		assert.NotEqual(t, first.ID, pkg.ID)
		assert.Equal(t, 5, pkg.TasksToDo)
		assert.Equal(t, 0, pkg.TasksDone)
		require.Len(t, repo.finished, 1)
		assert.True(t, repo.finished[0].Finished)
	})

	t.Run("consume without an active package", func(t *testing.T) {
		svc := NewWorkPackageService(newFakeWorkPackageRepo(1), testPackageConfig(), NewKeyedMutex())

		_, err := svc.Consume(context.Background(), map[domain.ContentKind]int{domain.KindTask: 1}, 1)

		assert.ErrorIs(t, err, ErrPackageNotFound)
	})
}
