package repository

import (
	"context"
	"fmt"

	"github.com/edumesh/contribution-api/internal/domain"
	"github.com/edumesh/contribution-api/internal/repository/dao"
)

var ErrPackageNotFound = dao.ErrPackageNotFound

type WorkPackageDAO interface {
	FindActive(ctx context.Context, participantID uint) (dao.WorkPackage, error)
	Provision(ctx context.Context, fresh dao.WorkPackage) (dao.WorkPackage, error)
	Consume(ctx context.Context, participantID uint, job map[string]int, successor dao.WorkPackage) (dao.WorkPackage, error)
}

type WorkPackageRepository struct {
	dao WorkPackageDAO
}

func NewWorkPackageRepository(dao WorkPackageDAO) *WorkPackageRepository {
	return &WorkPackageRepository{
		dao: dao,
	}
}

func (r *WorkPackageRepository) FindActive(ctx context.Context, participantID uint) (domain.WorkPackage, error) {
	found, err := r.dao.FindActive(ctx, participantID)
	if err != nil {
		return domain.WorkPackage{}, fmt.Errorf("r.dao.FindActive -> %w", err)
	}

	return packageDaoToDomain(found), nil
}

func (r *WorkPackageRepository) Provision(ctx context.Context, conf domain.EffectiveConfig, participantID uint) (domain.WorkPackage, error) {
	created, err := r.dao.Provision(ctx, packageDomainToDao(domain.NewWorkPackage(conf, participantID)))
	if err != nil {
		return domain.WorkPackage{}, fmt.Errorf("r.dao.Provision -> %w", err)
	}

	return packageDaoToDomain(created), nil
}

func (r *WorkPackageRepository) Consume(ctx context.Context, job map[domain.ContentKind]int, conf domain.EffectiveConfig, participantID uint) (domain.WorkPackage, error) {
	successor := packageDomainToDao(domain.NewWorkPackage(conf, participantID))

	updated, err := r.dao.Consume(ctx, participantID, jobDomainToDao(job), successor)
	if err != nil {
		return domain.WorkPackage{}, fmt.Errorf("r.dao.Consume -> %w", err)
	}

	return packageDaoToDomain(updated), nil
}

func jobDomainToDao(job map[domain.ContentKind]int) map[string]int {
	out := make(map[string]int, len(job))
	for kind, count := range job {
		out[string(kind)] = count
	}

	return out
}

func packageDaoToDomain(p dao.WorkPackage) domain.WorkPackage {
	return domain.WorkPackage{
		ID:            p.ID,
		ParticipantID: p.ParticipantID,
		TasksToDo:     p.TasksToDo,
		TasksDone:     p.TasksDone,
		InfosToDo:     p.InfosToDo,
		InfosDone:     p.InfosDone,
		SolutionsToDo: p.SolutionsToDo,
		SolutionsDone: p.SolutionsDone,
		RatingsToDo:   p.RatingsToDo,
		RatingsDone:   p.RatingsDone,
		Finished:      p.Finished,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func packageDomainToDao(p domain.WorkPackage) dao.WorkPackage {
	return dao.WorkPackage{
		ID:            p.ID,
		ParticipantID: p.ParticipantID,
		TasksToDo:     p.TasksToDo,
		TasksDone:     p.TasksDone,
		InfosToDo:     p.InfosToDo,
		InfosDone:     p.InfosDone,
		SolutionsToDo: p.SolutionsToDo,
		SolutionsDone: p.SolutionsDone,
		RatingsToDo:   p.RatingsToDo,
		RatingsDone:   p.RatingsDone,
		Finished:      p.Finished,
	}
}
