package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/edumesh/contribution-api/internal/domain"
	"github.com/edumesh/contribution-api/internal/repository"
)

var (
	ErrConfigNotFound       = repository.ErrConfigNotFound
	ErrConfigurationInvalid = errors.New("share sum is zero")
)

type ConfigRepository interface {
	CreateGlobal(ctx context.Context, conf domain.GlobalConfig) (domain.GlobalConfig, error)
	FindGlobal(ctx context.Context) (domain.GlobalConfig, error)
	UpdateGlobal(ctx context.Context, conf domain.GlobalConfig) (domain.GlobalConfig, error)
	CreateNode(ctx context.Context, conf domain.NodeConfig) (domain.NodeConfig, error)
	FindNode(ctx context.Context, nodeID uint) (domain.NodeConfig, error)
	UpdateNode(ctx context.Context, conf domain.NodeConfig) (domain.NodeConfig, error)
}

type ConfigService struct {
	repo ConfigRepository
}

func NewConfigService(repo ConfigRepository) *ConfigService {
	return &ConfigService{
		repo: repo,
	}
}

// Resolve merges a node-local config into the global one. Every global
// field is the starting point, present local fields overlay it, and the
// ensure-global set (package size and all four shares) is copied back
// from the global config last: local share overrides are never honored.
func Resolve(local *domain.NodeConfig, global domain.GlobalConfig) domain.EffectiveConfig {
	eff := domain.EffectiveConfig{
		PackageSize:       global.PackageSize,
		TaskShare:         global.TaskShare,
		InfoShare:         global.InfoShare,
		SolutionShare:     global.SolutionShare,
		RateShare:         global.RateShare,
		TaskPoints:        global.TaskPoints,
		TaskCost:          global.TaskCost,
		TaskMaxPoints:     global.TaskMaxPoints,
		InfoPoints:        global.InfoPoints,
		InfoCost:          global.InfoCost,
		InfoMaxPoints:     global.InfoMaxPoints,
		SolutionPoints:    global.SolutionPoints,
		SolutionCost:      global.SolutionCost,
		SolutionMaxPoints: global.SolutionMaxPoints,
		RatingPoints:      global.RatingPoints,
		RatingCost:        global.RatingCost,
		RatingMaxPoints:   global.RatingMaxPoints,
	}

	if local != nil {
		overlay := func(dst *float64, src *float64) {
			if src != nil {
				*dst = *src
			}
		}

		overlay(&eff.TaskShare, local.TaskShare)
		overlay(&eff.InfoShare, local.InfoShare)
		overlay(&eff.SolutionShare, local.SolutionShare)
		overlay(&eff.TaskPoints, local.TaskPoints)
		overlay(&eff.TaskCost, local.TaskCost)
		overlay(&eff.TaskMaxPoints, local.TaskMaxPoints)
		overlay(&eff.InfoPoints, local.InfoPoints)
		overlay(&eff.InfoCost, local.InfoCost)
		overlay(&eff.InfoMaxPoints, local.InfoMaxPoints)
		overlay(&eff.SolutionPoints, local.SolutionPoints)
		overlay(&eff.SolutionCost, local.SolutionCost)
		overlay(&eff.SolutionMaxPoints, local.SolutionMaxPoints)
		overlay(&eff.RatingPoints, local.RatingPoints)
		overlay(&eff.RatingCost, local.RatingCost)
		overlay(&eff.RatingMaxPoints, local.RatingMaxPoints)
	}

	// Ensure-global fields win over whatever the overlay wrote.
	eff.PackageSize = global.PackageSize
	eff.TaskShare = global.TaskShare
	eff.InfoShare = global.InfoShare
	eff.SolutionShare = global.SolutionShare
	eff.RateShare = global.RateShare

	return eff
}

// normalizeShares scales the given shares so they sum to 1.0.
func normalizeShares(shares []float64) ([]float64, error) {
	var sum float64
	for _, s := range shares {
		sum += s
	}
	if sum == 0 {
		return nil, ErrConfigurationInvalid
	}

	out := make([]float64, len(shares))
	for i, s := range shares {
		out[i] = s / sum
	}

	return out, nil
}

// GlobalConfigInput carries the create payload. Shares are supplied as
// percentages (0-100) and normalized on write.
type GlobalConfigInput struct {
	NodeID      uint
	PackageSize int

	TaskSharePct     float64
	InfoSharePct     float64
	SolutionSharePct float64
	RateSharePct     float64

	TaskPoints        float64
	TaskCost          float64
	TaskMaxPoints     float64
	InfoPoints        float64
	InfoCost          float64
	InfoMaxPoints     float64
	SolutionPoints    float64
	SolutionCost      float64
	SolutionMaxPoints float64
	RatingPoints      float64
	RatingCost        float64
	RatingMaxPoints   float64
}

// GlobalConfigPatch supplies only the fields to change. Unspecified
// shares default to the currently stored value before renormalization.
type GlobalConfigPatch struct {
	PackageSize *int

	TaskSharePct     *float64
	InfoSharePct     *float64
	SolutionSharePct *float64
	RateSharePct     *float64

	TaskPoints        *float64
	TaskCost          *float64
	TaskMaxPoints     *float64
	InfoPoints        *float64
	InfoCost          *float64
	InfoMaxPoints     *float64
	SolutionPoints    *float64
	SolutionCost      *float64
	SolutionMaxPoints *float64
	RatingPoints      *float64
	RatingCost        *float64
	RatingMaxPoints   *float64
}

type NodeConfigInput struct {
	NodeID uint

	TaskSharePct     *float64
	InfoSharePct     *float64
	SolutionSharePct *float64

	TaskPoints        *float64
	TaskCost          *float64
	TaskMaxPoints     *float64
	InfoPoints        *float64
	InfoCost          *float64
	InfoMaxPoints     *float64
	SolutionPoints    *float64
	SolutionCost      *float64
	SolutionMaxPoints *float64
	RatingPoints      *float64
	RatingCost        *float64
	RatingMaxPoints   *float64
}

type NodeConfigPatch struct {
	TaskSharePct     *float64
	InfoSharePct     *float64
	SolutionSharePct *float64

	TaskPoints        *float64
	TaskCost          *float64
	TaskMaxPoints     *float64
	InfoPoints        *float64
	InfoCost          *float64
	InfoMaxPoints     *float64
	SolutionPoints    *float64
	SolutionCost      *float64
	SolutionMaxPoints *float64
	RatingPoints      *float64
	RatingCost        *float64
	RatingMaxPoints   *float64
}

func (s *ConfigService) CreateGlobal(ctx context.Context, input GlobalConfigInput) (domain.GlobalConfig, error) {
	shares, err := normalizeShares([]float64{input.TaskSharePct, input.InfoSharePct, input.SolutionSharePct, input.RateSharePct})
	if err != nil {
		return domain.GlobalConfig{}, err
	}

	conf := domain.GlobalConfig{
		NodeID:            input.NodeID,
		PackageSize:       input.PackageSize,
		TaskShare:         shares[0],
		InfoShare:         shares[1],
		SolutionShare:     shares[2],
		RateShare:         shares[3],
		TaskPoints:        input.TaskPoints,
		TaskCost:          input.TaskCost,
		TaskMaxPoints:     input.TaskMaxPoints,
		InfoPoints:        input.InfoPoints,
		InfoCost:          input.InfoCost,
		InfoMaxPoints:     input.InfoMaxPoints,
		SolutionPoints:    input.SolutionPoints,
		SolutionCost:      input.SolutionCost,
		SolutionMaxPoints: input.SolutionMaxPoints,
		RatingPoints:      input.RatingPoints,
		RatingCost:        input.RatingCost,
		RatingMaxPoints:   input.RatingMaxPoints,
	}

	created, err := s.repo.CreateGlobal(ctx, conf)
	if err != nil {
		return domain.GlobalConfig{}, fmt.Errorf("s.repo.CreateGlobal -> %w", err)
	}

	return created, nil
}

func (s *ConfigService) PatchGlobal(ctx context.Context, patch GlobalConfigPatch) (domain.GlobalConfig, error) {
	current, err := s.repo.FindGlobal(ctx)
	if err != nil {
		return domain.GlobalConfig{}, fmt.Errorf("s.repo.FindGlobal -> %w", err)
	}

	if patch.PackageSize != nil {
		current.PackageSize = *patch.PackageSize
	}

	applyPatch := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}

	applyPatch(&current.TaskPoints, patch.TaskPoints)
	applyPatch(&current.TaskCost, patch.TaskCost)
	applyPatch(&current.TaskMaxPoints, patch.TaskMaxPoints)
	applyPatch(&current.InfoPoints, patch.InfoPoints)
	applyPatch(&current.InfoCost, patch.InfoCost)
	applyPatch(&current.InfoMaxPoints, patch.InfoMaxPoints)
	applyPatch(&current.SolutionPoints, patch.SolutionPoints)
	applyPatch(&current.SolutionCost, patch.SolutionCost)
	applyPatch(&current.SolutionMaxPoints, patch.SolutionMaxPoints)
	applyPatch(&current.RatingPoints, patch.RatingPoints)
	applyPatch(&current.RatingCost, patch.RatingCost)
	applyPatch(&current.RatingMaxPoints, patch.RatingMaxPoints)

	// A partial patch must not zero out the untouched shares: absent
	// values default to the stored share expressed as a percentage.
	shares, err := normalizeShares([]float64{
		pctOrCurrent(patch.TaskSharePct, current.TaskShare),
		pctOrCurrent(patch.InfoSharePct, current.InfoShare),
		pctOrCurrent(patch.SolutionSharePct, current.SolutionShare),
		pctOrCurrent(patch.RateSharePct, current.RateShare),
	})
	if err != nil {
		return domain.GlobalConfig{}, err
	}
	current.TaskShare = shares[0]
	current.InfoShare = shares[1]
	current.SolutionShare = shares[2]
	current.RateShare = shares[3]

	updated, err := s.repo.UpdateGlobal(ctx, current)
	if err != nil {
		return domain.GlobalConfig{}, fmt.Errorf("s.repo.UpdateGlobal -> %w", err)
	}

	return updated, nil
}

func (s *ConfigService) CreateNode(ctx context.Context, input NodeConfigInput) (domain.NodeConfig, error) {
	conf := domain.NodeConfig{
		NodeID:            input.NodeID,
		TaskPoints:        input.TaskPoints,
		TaskCost:          input.TaskCost,
		TaskMaxPoints:     input.TaskMaxPoints,
		InfoPoints:        input.InfoPoints,
		InfoCost:          input.InfoCost,
		InfoMaxPoints:     input.InfoMaxPoints,
		SolutionPoints:    input.SolutionPoints,
		SolutionCost:      input.SolutionCost,
		SolutionMaxPoints: input.SolutionMaxPoints,
		RatingPoints:      input.RatingPoints,
		RatingCost:        input.RatingCost,
		RatingMaxPoints:   input.RatingMaxPoints,
	}

	if input.TaskSharePct != nil || input.InfoSharePct != nil || input.SolutionSharePct != nil {
		shares, err := normalizeShares([]float64{
			valueOrZero(input.TaskSharePct),
			valueOrZero(input.InfoSharePct),
			valueOrZero(input.SolutionSharePct),
		})
		if err != nil {
			return domain.NodeConfig{}, err
		}
		conf.TaskShare = &shares[0]
		conf.InfoShare = &shares[1]
		conf.SolutionShare = &shares[2]
	}

	created, err := s.repo.CreateNode(ctx, conf)
	if err != nil {
		return domain.NodeConfig{}, fmt.Errorf("s.repo.CreateNode -> %w", err)
	}

	return created, nil
}

func (s *ConfigService) PatchNode(ctx context.Context, nodeID uint, patch NodeConfigPatch) (domain.NodeConfig, error) {
	current, err := s.repo.FindNode(ctx, nodeID)
	if err != nil {
		return domain.NodeConfig{}, fmt.Errorf("s.repo.FindNode -> %w", err)
	}

	applyPatch := func(dst **float64, src *float64) {
		if src != nil {
			v := *src
			*dst = &v
		}
	}

	applyPatch(&current.TaskPoints, patch.TaskPoints)
	applyPatch(&current.TaskCost, patch.TaskCost)
	applyPatch(&current.TaskMaxPoints, patch.TaskMaxPoints)
	applyPatch(&current.InfoPoints, patch.InfoPoints)
	applyPatch(&current.InfoCost, patch.InfoCost)
	applyPatch(&current.InfoMaxPoints, patch.InfoMaxPoints)
	applyPatch(&current.SolutionPoints, patch.SolutionPoints)
	applyPatch(&current.SolutionCost, patch.SolutionCost)
	applyPatch(&current.SolutionMaxPoints, patch.SolutionMaxPoints)
	applyPatch(&current.RatingPoints, patch.RatingPoints)
	applyPatch(&current.RatingCost, patch.RatingCost)
	applyPatch(&current.RatingMaxPoints, patch.RatingMaxPoints)

	if patch.TaskSharePct != nil || patch.InfoSharePct != nil || patch.SolutionSharePct != nil {
		shares, err := normalizeShares([]float64{
			pctOrStored(patch.TaskSharePct, current.TaskShare),
			pctOrStored(patch.InfoSharePct, current.InfoShare),
			pctOrStored(patch.SolutionSharePct, current.SolutionShare),
		})
		if err != nil {
			return domain.NodeConfig{}, err
		}
		current.TaskShare = &shares[0]
		current.InfoShare = &shares[1]
		current.SolutionShare = &shares[2]
	}

	updated, err := s.repo.UpdateNode(ctx, current)
	if err != nil {
		return domain.NodeConfig{}, fmt.Errorf("s.repo.UpdateNode -> %w", err)
	}

	return updated, nil
}

// EffectiveForNode resolves the node's local config, when one exists,
// against the global config.
func (s *ConfigService) EffectiveForNode(ctx context.Context, nodeID uint) (domain.EffectiveConfig, error) {
	global, err := s.repo.FindGlobal(ctx)
	if err != nil {
		return domain.EffectiveConfig{}, fmt.Errorf("s.repo.FindGlobal -> %w", err)
	}

	local, err := s.repo.FindNode(ctx, nodeID)
	if err != nil {
		if errors.Is(err, repository.ErrConfigNotFound) {
			return Resolve(nil, global), nil
		}

		return domain.EffectiveConfig{}, fmt.Errorf("s.repo.FindNode -> %w", err)
	}

	return Resolve(&local, global), nil
}

// GlobalEffective resolves the global config alone, for callers that
// only need the ensure-global fields (package sizing).
func (s *ConfigService) GlobalEffective(ctx context.Context) (domain.EffectiveConfig, error) {
	global, err := s.repo.FindGlobal(ctx)
	if err != nil {
		return domain.EffectiveConfig{}, fmt.Errorf("s.repo.FindGlobal -> %w", err)
	}

	return Resolve(nil, global), nil
}

func pctOrCurrent(pct *float64, stored float64) float64 {
	if pct != nil {
		return *pct
	}

	return stored * 100
}

func pctOrStored(pct *float64, stored *float64) float64 {
	if pct != nil {
		return *pct
	}
	if stored != nil {
		return *stored * 100
	}

	return 0
}

func valueOrZero(v *float64) float64 {
	if v != nil {
		return *v
	}

	return 0
}
