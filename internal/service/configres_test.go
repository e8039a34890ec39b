package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edumesh/contribution-api/internal/domain"
	"github.com/edumesh/contribution-api/internal/repository"
)

func ptr(v float64) *float64 {
	return &v
}

// fakeConfigRepo keeps one global config and per-node overrides in
// memory.
type fakeConfigRepo struct {
	global *domain.GlobalConfig
	nodes  map[uint]domain.NodeConfig
}

func newFakeConfigRepo() *fakeConfigRepo {
	return &fakeConfigRepo{
		nodes: make(map[uint]domain.NodeConfig),
	}
}

func (r *fakeConfigRepo) CreateGlobal(_ context.Context, conf domain.GlobalConfig) (domain.GlobalConfig, error) {
	conf.ID = 1
	r.global = &conf

	return conf, nil
}

func (r *fakeConfigRepo) FindGlobal(_ context.Context) (domain.GlobalConfig, error) {
	if r.global == nil {
		return domain.GlobalConfig{}, repository.ErrConfigNotFound
	}

	return *r.global, nil
}

func (r *fakeConfigRepo) UpdateGlobal(_ context.Context, conf domain.GlobalConfig) (domain.GlobalConfig, error) {
	r.global = &conf

	return conf, nil
}

func (r *fakeConfigRepo) CreateNode(_ context.Context, conf domain.NodeConfig) (domain.NodeConfig, error) {
	conf.ID = uint(len(r.nodes) + 1)
	r.nodes[conf.NodeID] = conf

	return conf, nil
}

func (r *fakeConfigRepo) FindNode(_ context.Context, nodeID uint) (domain.NodeConfig, error) {
	conf, ok := r.nodes[nodeID]
	if !ok {
		return domain.NodeConfig{}, repository.ErrConfigNotFound
	}

	return conf, nil
}

func (r *fakeConfigRepo) UpdateNode(_ context.Context, conf domain.NodeConfig) (domain.NodeConfig, error) {
	r.nodes[conf.NodeID] = conf

	return conf, nil
}

func TestResolve(t *testing.T) {
	global := domain.GlobalConfig{
		PackageSize:   20,
		TaskShare:     0.4,
		InfoShare:     0.3,
		SolutionShare: 0.2,
		RateShare:     0.1,
		TaskPoints:    10,
		TaskCost:      2,
		TaskMaxPoints: 10,
		RatingPoints:  1,
	}

	t.Run("no local config returns global values", func(t *testing.T) {
		eff := Resolve(nil, global)

		assert.Equal(t, 20, eff.PackageSize)
		assert.Equal(t, 0.4, eff.TaskShare)
		assert.Equal(t, 10.0, eff.TaskPoints)
		assert.Equal(t, 1.0, eff.RatingPoints)
	})

	t.Run("present local fields overlay global ones", func(t *testing.T) {
		local := domain.NodeConfig{
			TaskPoints: ptr(25),
			TaskCost:   ptr(5),
		}

		eff := Resolve(&local, global)

		assert.Equal(t, 25.0, eff.TaskPoints)
		assert.Equal(t, 5.0, eff.TaskCost)
		// Untouched fields fall through.
		assert.Equal(t, 10.0, eff.TaskMaxPoints)
	})

	t.Run("shares and package size always come from global", func(t *testing.T) {
		local := domain.NodeConfig{
			TaskShare:     ptr(0.9),
			InfoShare:     ptr(0.05),
			SolutionShare: ptr(0.05),
		}

		eff := Resolve(&local, global)

		assert.Equal(t, 0.4, eff.TaskShare)
		assert.Equal(t, 0.3, eff.InfoShare)
		assert.Equal(t, 0.2, eff.SolutionShare)
		assert.Equal(t, 0.1, eff.RateShare)
		assert.Equal(t, 20, eff.PackageSize)
	})
}

func TestConfigService_CreateGlobal(t *testing.T) {
	t.Run("normalizes percentage shares to sum 1", func(t *testing.T) {
		svc := NewConfigService(newFakeConfigRepo())

		created, err := svc.CreateGlobal(context.Background(), GlobalConfigInput{
			NodeID:           1,
			PackageSize:      20,
			TaskSharePct:     50,
			InfoSharePct:     30,
			SolutionSharePct: 15,
			RateSharePct:     5,
		})

		require.NoError(t, err)
		assert.InDelta(t, 0.50, created.TaskShare, 1e-9)
		assert.InDelta(t, 0.30, created.InfoShare, 1e-9)
		assert.InDelta(t, 0.15, created.SolutionShare, 1e-9)
		assert.InDelta(t, 0.05, created.RateShare, 1e-9)
		assert.InDelta(t, 1.0, created.TaskShare+created.InfoShare+created.SolutionShare+created.RateShare, 1e-9)
	})

	t.Run("shares not summing to 100 still normalize", func(t *testing.T) {
		svc := NewConfigService(newFakeConfigRepo())

		created, err := svc.CreateGlobal(context.Background(), GlobalConfigInput{
			NodeID:           1,
			PackageSize:      10,
			TaskSharePct:     20,
			InfoSharePct:     20,
			SolutionSharePct: 20,
			RateSharePct:     20,
		})

		require.NoError(t, err)
		assert.InDelta(t, 0.25, created.TaskShare, 1e-9)
		assert.InDelta(t, 0.25, created.RateShare, 1e-9)
	})

	t.Run("all-zero shares are rejected", func(t *testing.T) {
		svc := NewConfigService(newFakeConfigRepo())

		_, err := svc.CreateGlobal(context.Background(), GlobalConfigInput{
			NodeID:      1,
			PackageSize: 10,
		})

		assert.ErrorIs(t, err, ErrConfigurationInvalid)
	})
}

func TestConfigService_PatchGlobal(t *testing.T) {
	seed := func(t *testing.T) (*ConfigService, *fakeConfigRepo) {
		t.Helper()

		repo := newFakeConfigRepo()
		svc := NewConfigService(repo)
		_, err := svc.CreateGlobal(context.Background(), GlobalConfigInput{
			NodeID:           1,
			PackageSize:      20,
			TaskSharePct:     40,
			InfoSharePct:     30,
			SolutionSharePct: 20,
			RateSharePct:     10,
			TaskPoints:       10,
			TaskCost:         2,
		})
		require.NoError(t, err)

		return svc, repo
	}

	t.Run("absent shares keep their stored weight", func(t *testing.T) {
		svc, _ := seed(t)

		updated, err := svc.PatchGlobal(context.Background(), GlobalConfigPatch{
			TaskSharePct: ptr(60),
		})

		require.NoError(t, err)
		// 60 + 30 + 20 + 10 = 120 before normalization.
		assert.InDelta(t, 0.50, updated.TaskShare, 1e-9)
		assert.InDelta(t, 0.25, updated.InfoShare, 1e-9)
		assert.InDelta(t, 1.0, updated.TaskShare+updated.InfoShare+updated.SolutionShare+updated.RateShare, 1e-9)
	})

	t.Run("scalar patch leaves other fields alone", func(t *testing.T) {
		svc, _ := seed(t)

		updated, err := svc.PatchGlobal(context.Background(), GlobalConfigPatch{
			TaskPoints: ptr(42),
		})

		require.NoError(t, err)
		assert.Equal(t, 42.0, updated.TaskPoints)
		assert.Equal(t, 2.0, updated.TaskCost)
		assert.Equal(t, 20, updated.PackageSize)
		assert.InDelta(t, 0.40, updated.TaskShare, 1e-9)
	})

	t.Run("patch without global config fails", func(t *testing.T) {
		svc := NewConfigService(newFakeConfigRepo())

		_, err := svc.PatchGlobal(context.Background(), GlobalConfigPatch{
			TaskPoints: ptr(1),
		})

		assert.ErrorIs(t, err, ErrConfigNotFound)
	})
}

func TestConfigService_EffectiveForNode(t *testing.T) {
	repo := newFakeConfigRepo()
	svc := NewConfigService(repo)

	_, err := svc.CreateGlobal(context.Background(), GlobalConfigInput{
		NodeID:           1,
		PackageSize:      20,
		TaskSharePct:     40,
		InfoSharePct:     30,
		SolutionSharePct: 20,
		RateSharePct:     10,
		TaskPoints:       10,
		TaskCost:         2,
	})
	require.NoError(t, err)

	_, err = svc.CreateNode(context.Background(), NodeConfigInput{
		NodeID:     5,
		TaskPoints: ptr(99),
	})
	require.NoError(t, err)

	t.Run("node with local override", func(t *testing.T) {
		eff, err := svc.EffectiveForNode(context.Background(), 5)

		require.NoError(t, err)
		assert.Equal(t, 99.0, eff.TaskPoints)
		assert.Equal(t, 2.0, eff.TaskCost)
		assert.InDelta(t, 0.40, eff.TaskShare, 1e-9)
	})

	t.Run("node without local config falls back to global", func(t *testing.T) {
		eff, err := svc.EffectiveForNode(context.Background(), 404)

		require.NoError(t, err)
		assert.Equal(t, 10.0, eff.TaskPoints)
		assert.Equal(t, 20, eff.PackageSize)
	})
}

func TestConfigService_PatchNode(t *testing.T) {
	repo := newFakeConfigRepo()
	svc := NewConfigService(repo)

	_, err := svc.CreateNode(context.Background(), NodeConfigInput{
		NodeID:     5,
		TaskPoints: ptr(10),
	})
	require.NoError(t, err)

	updated, err := svc.PatchNode(context.Background(), 5, NodeConfigPatch{
		TaskCost: ptr(3),
	})

	require.NoError(t, err)
	require.NotNil(t, updated.TaskPoints)
	require.NotNil(t, updated.TaskCost)
	assert.Equal(t, 10.0, *updated.TaskPoints)
	assert.Equal(t, 3.0, *updated.TaskCost)
	assert.Nil(t, updated.InfoPoints)
}
