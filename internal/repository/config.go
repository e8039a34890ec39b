package repository

import (
	"context"
	"fmt"

	"github.com/edumesh/contribution-api/internal/domain"
	"github.com/edumesh/contribution-api/internal/repository/dao"
)

var ErrConfigNotFound = dao.ErrConfigNotFound

type ConfigDAO interface {
	InsertGlobal(ctx context.Context, conf dao.GlobalConfig) (dao.GlobalConfig, error)
	FindGlobal(ctx context.Context) (dao.GlobalConfig, error)
	UpdateGlobal(ctx context.Context, conf dao.GlobalConfig) (dao.GlobalConfig, error)
	InsertNode(ctx context.Context, conf dao.NodeConfig) (dao.NodeConfig, error)
	FindNodeByNodeID(ctx context.Context, nodeID uint) (dao.NodeConfig, error)
	UpdateNode(ctx context.Context, conf dao.NodeConfig) (dao.NodeConfig, error)
}

type ConfigRepository struct {
	dao ConfigDAO
}

func NewConfigRepository(dao ConfigDAO) *ConfigRepository {
	return &ConfigRepository{
		dao: dao,
	}
}

func (r *ConfigRepository) CreateGlobal(ctx context.Context, conf domain.GlobalConfig) (domain.GlobalConfig, error) {
	created, err := r.dao.InsertGlobal(ctx, globalDomainToDao(conf))
	if err != nil {
		return domain.GlobalConfig{}, fmt.Errorf("r.dao.InsertGlobal -> %w", err)
	}

	return globalDaoToDomain(created), nil
}

func (r *ConfigRepository) FindGlobal(ctx context.Context) (domain.GlobalConfig, error) {
	found, err := r.dao.FindGlobal(ctx)
	if err != nil {
		return domain.GlobalConfig{}, fmt.Errorf("r.dao.FindGlobal -> %w", err)
	}

	return globalDaoToDomain(found), nil
}

func (r *ConfigRepository) UpdateGlobal(ctx context.Context, conf domain.GlobalConfig) (domain.GlobalConfig, error) {
	updated, err := r.dao.UpdateGlobal(ctx, globalDomainToDao(conf))
	if err != nil {
		return domain.GlobalConfig{}, fmt.Errorf("r.dao.UpdateGlobal -> %w", err)
	}

	return globalDaoToDomain(updated), nil
}

func (r *ConfigRepository) CreateNode(ctx context.Context, conf domain.NodeConfig) (domain.NodeConfig, error) {
	created, err := r.dao.InsertNode(ctx, nodeDomainToDao(conf))
	if err != nil {
		return domain.NodeConfig{}, fmt.Errorf("r.dao.InsertNode -> %w", err)
	}

	return nodeDaoToDomain(created), nil
}

func (r *ConfigRepository) FindNode(ctx context.Context, nodeID uint) (domain.NodeConfig, error) {
	found, err := r.dao.FindNodeByNodeID(ctx, nodeID)
	if err != nil {
		return domain.NodeConfig{}, fmt.Errorf("r.dao.FindNodeByNodeID -> %w", err)
	}

	return nodeDaoToDomain(found), nil
}

func (r *ConfigRepository) UpdateNode(ctx context.Context, conf domain.NodeConfig) (domain.NodeConfig, error) {
	updated, err := r.dao.UpdateNode(ctx, nodeDomainToDao(conf))
	if err != nil {
		return domain.NodeConfig{}, fmt.Errorf("r.dao.UpdateNode -> %w", err)
	}

	return nodeDaoToDomain(updated), nil
}

func globalDaoToDomain(c dao.GlobalConfig) domain.GlobalConfig {
	return domain.GlobalConfig{
		ID:                c.ID,
		UUID:              c.UUID,
		NodeID:            c.NodeID,
		PackageSize:       c.PackageSize,
		TaskShare:         c.TaskShare,
		InfoShare:         c.InfoShare,
		SolutionShare:     c.SolutionShare,
		RateShare:         c.RateShare,
		TaskPoints:        c.TaskPoints,
		TaskCost:          c.TaskCost,
		TaskMaxPoints:     c.TaskMaxPoints,
		InfoPoints:        c.InfoPoints,
		InfoCost:          c.InfoCost,
		InfoMaxPoints:     c.InfoMaxPoints,
		SolutionPoints:    c.SolutionPoints,
		SolutionCost:      c.SolutionCost,
		SolutionMaxPoints: c.SolutionMaxPoints,
		RatingPoints:      c.RatingPoints,
		RatingCost:        c.RatingCost,
		RatingMaxPoints:   c.RatingMaxPoints,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func globalDomainToDao(c domain.GlobalConfig) dao.GlobalConfig {
	return dao.GlobalConfig{
		ID:                c.ID,
		UUID:              c.UUID,
		NodeID:            c.NodeID,
		PackageSize:       c.PackageSize,
		TaskShare:         c.TaskShare,
		InfoShare:         c.InfoShare,
		SolutionShare:     c.SolutionShare,
		RateShare:         c.RateShare,
		TaskPoints:        c.TaskPoints,
		TaskCost:          c.TaskCost,
		TaskMaxPoints:     c.TaskMaxPoints,
		InfoPoints:        c.InfoPoints,
		InfoCost:          c.InfoCost,
		InfoMaxPoints:     c.InfoMaxPoints,
		SolutionPoints:    c.SolutionPoints,
		SolutionCost:      c.SolutionCost,
		SolutionMaxPoints: c.SolutionMaxPoints,
		RatingPoints:      c.RatingPoints,
		RatingCost:        c.RatingCost,
		RatingMaxPoints:   c.RatingMaxPoints,
		CreatedAt:         c.CreatedAt,
	}
}

func nodeDaoToDomain(c dao.NodeConfig) domain.NodeConfig {
	return domain.NodeConfig{
		ID:                c.ID,
		UUID:              c.UUID,
		NodeID:            c.NodeID,
		TaskShare:         c.TaskShare,
		InfoShare:         c.InfoShare,
		SolutionShare:     c.SolutionShare,
		TaskPoints:        c.TaskPoints,
		TaskCost:          c.TaskCost,
		TaskMaxPoints:     c.TaskMaxPoints,
		InfoPoints:        c.InfoPoints,
		InfoCost:          c.InfoCost,
		InfoMaxPoints:     c.InfoMaxPoints,
		SolutionPoints:    c.SolutionPoints,
		SolutionCost:      c.SolutionCost,
		SolutionMaxPoints: c.SolutionMaxPoints,
		RatingPoints:      c.RatingPoints,
		RatingCost:        c.RatingCost,
		RatingMaxPoints:   c.RatingMaxPoints,
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

func nodeDomainToDao(c domain.NodeConfig) dao.NodeConfig {
	return dao.NodeConfig{
		ID:                c.ID,
		UUID:              c.UUID,
		NodeID:            c.NodeID,
		TaskShare:         c.TaskShare,
		InfoShare:         c.InfoShare,
		SolutionShare:     c.SolutionShare,
		TaskPoints:        c.TaskPoints,
		TaskCost:          c.TaskCost,
		TaskMaxPoints:     c.TaskMaxPoints,
		InfoPoints:        c.InfoPoints,
		InfoCost:          c.InfoCost,
		InfoMaxPoints:     c.InfoMaxPoints,
		SolutionPoints:    c.SolutionPoints,
		SolutionCost:      c.SolutionCost,
		SolutionMaxPoints: c.SolutionMaxPoints,
		RatingPoints:      c.RatingPoints,
		RatingCost:        c.RatingCost,
		RatingMaxPoints:   c.RatingMaxPoints,
		CreatedAt:         c.CreatedAt,
	}
}
