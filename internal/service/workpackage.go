package service

import (
	"context"
	"fmt"

	"github.com/edumesh/contribution-api/internal/domain"
	"github.com/edumesh/contribution-api/internal/repository"
)

var (
	ErrParticipantNotFound = repository.ErrParticipantNotFound
	ErrPackageNotFound     = repository.ErrPackageNotFound
)

type WorkPackageRepository interface {
	FindActive(ctx context.Context, participantID uint) (domain.WorkPackage, error)
	Provision(ctx context.Context, conf domain.EffectiveConfig, participantID uint) (domain.WorkPackage, error)
	Consume(ctx context.Context, job map[domain.ContentKind]int, conf domain.EffectiveConfig, participantID uint) (domain.WorkPackage, error)
}

type WorkPackageService struct {
	repo  WorkPackageRepository
	confs *ConfigService
	locks *KeyedMutex
}

func NewWorkPackageService(repo WorkPackageRepository, confs *ConfigService, locks *KeyedMutex) *WorkPackageService {
	return &WorkPackageService{
		repo:  repo,
		confs: confs,
		locks: locks,
	}
}

// Provision supersedes the participant's active package (if any) and
// sizes a fresh one from the current global configuration. Exactly one
// non-finished package exists afterwards.
func (s *WorkPackageService) Provision(ctx context.Context, participantID uint) (domain.WorkPackage, error) {
	unlock := s.locks.Lock(participantID)
	defer unlock()

	conf, err := s.confs.GlobalEffective(ctx)
	if err != nil {
		return domain.WorkPackage{}, fmt.Errorf("s.confs.GlobalEffective -> %w", err)
	}

	pkg, err := s.repo.Provision(ctx, conf, participantID)
	if err != nil {
		return domain.WorkPackage{}, fmt.Errorf("s.repo.Provision -> %w", err)
	}

	return pkg, nil
}

// Consume applies a completion batch to the active package. When the
// batch spends the last quota of every kind, the package finishes and
// the freshly provisioned successor is returned instead.
func (s *WorkPackageService) Consume(ctx context.Context, job map[domain.ContentKind]int, participantID uint) (domain.WorkPackage, error) {
	unlock := s.locks.Lock(participantID)
	defer unlock()

	conf, err := s.confs.GlobalEffective(ctx)
	if err != nil {
		return domain.WorkPackage{}, fmt.Errorf("s.confs.GlobalEffective -> %w", err)
	}

	pkg, err := s.repo.Consume(ctx, job, conf, participantID)
	if err != nil {
		return domain.WorkPackage{}, fmt.Errorf("s.repo.Consume -> %w", err)
	}

	return pkg, nil
}

// Status returns the participant's active package, todo and done per
// kind.
func (s *WorkPackageService) Status(ctx context.Context, participantID uint) (domain.WorkPackage, error) {
	pkg, err := s.repo.FindActive(ctx, participantID)
	if err != nil {
		return domain.WorkPackage{}, fmt.Errorf("s.repo.FindActive -> %w", err)
	}

	return pkg, nil
}
