package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/edumesh/contribution-api/internal/domain"
	"github.com/edumesh/contribution-api/internal/repository"
)

var (
	ErrContentNotFound     = repository.ErrContentNotFound
	ErrQuotaExhausted      = errors.New("work package quota exhausted for this content kind")
	ErrInsufficientBalance = errors.New("insufficient point balance")
	ErrSelfActionForbidden = errors.New("participants cannot rate their own content")
)

type AllocationRepository interface {
	Allocate(ctx context.Context, input repository.AllocationInput) (domain.Content, domain.WorkPackage, error)
	CreateDirect(ctx context.Context, content domain.Content) (domain.Content, error)
}

type CreateContentInput struct {
	ParentID uint
	Title    string
	Body     string
	// Draft marks a solution as not yet finished; its ledger entries
	// stay out of aggregation until it is.
	Draft bool
}

type CreateRatingInput struct {
	ContentID uint
	Value     int
	Body      string
}

// AllocationResult reports the created content and, for rationed
// participants, the package state after the quota was consumed.
// Elevated is set when an admin bypassed the quota and ledger rules.
type AllocationResult struct {
	Content  domain.Content
	Package  *domain.WorkPackage
	Elevated bool
}

// AllocationService gates content creation on quota and balance, then
// performs the creation together with its ledger bookkeeping as one
// unit of work.
type AllocationService struct {
	repo        AllocationRepository
	contentRepo ContentRepository
	pkgRepo     WorkPackageRepository
	ledger      *LedgerService
	prestige    *PrestigeService
	confs       *ConfigService
	locks       *KeyedMutex
}

func NewAllocationService(
	repo AllocationRepository,
	contentRepo ContentRepository,
	pkgRepo WorkPackageRepository,
	ledger *LedgerService,
	prestige *PrestigeService,
	confs *ConfigService,
	locks *KeyedMutex,
) *AllocationService {
	return &AllocationService{
		repo:        repo,
		contentRepo: contentRepo,
		pkgRepo:     pkgRepo,
		ledger:      ledger,
		prestige:    prestige,
		confs:       confs,
		locks:       locks,
	}
}

// CreateContent creates a task, info or solution under the given parent
// node for the actor.
func (s *AllocationService) CreateContent(ctx context.Context, kind domain.ContentKind, input CreateContentInput, actor domain.Participant) (AllocationResult, error) {
	node := domain.Node{
		AuthorID: actor.ID,
		ParentID: input.ParentID,
		Title:    input.Title,
		Body:     input.Body,
		Active:   true,
		Finished: !(kind == domain.KindSolution && input.Draft),
	}

	var content domain.Content
	switch kind {
	case domain.KindTask:
		content = domain.Task{Node: node}
	case domain.KindInfo:
		content = domain.Info{Node: node}
	case domain.KindSolution:
		content = domain.Solution{Node: node}
	default:
		return AllocationResult{}, fmt.Errorf("content kind %q cannot be allocated here", kind)
	}

	if actor.Admin {
		created, err := s.repo.CreateDirect(ctx, content)
		if err != nil {
			return AllocationResult{}, fmt.Errorf("s.repo.CreateDirect -> %w", err)
		}

		return AllocationResult{Content: created, Elevated: true}, nil
	}

	return s.allocate(ctx, content, input.ParentID, actor, nil, nil)
}

// CreateRating rates an existing content item. Besides the actor's own
// quota and ledger bookkeeping, the rated author receives a
// prestige-weighted gain entry and a prestige feedback record.
func (s *AllocationService) CreateRating(ctx context.Context, input CreateRatingInput, actor domain.Participant) (AllocationResult, error) {
	target, err := s.contentRepo.FindByID(ctx, input.ContentID)
	if err != nil {
		return AllocationResult{}, fmt.Errorf("s.contentRepo.FindByID -> %w", err)
	}

	if target.Owner() == actor.ID {
		return AllocationResult{}, ErrSelfActionForbidden
	}

	rating := domain.Rating{
		Node: domain.Node{
			AuthorID: actor.ID,
			ParentID: input.ContentID,
			Body:     input.Body,
			Active:   true,
			Finished: true,
		},
		TargetID: input.ContentID,
		Value:    input.Value,
	}

	if actor.Admin {
		created, err := s.repo.CreateDirect(ctx, rating)
		if err != nil {
			return AllocationResult{}, fmt.Errorf("s.repo.CreateDirect -> %w", err)
		}

		return AllocationResult{Content: created, Elevated: true}, nil
	}

	raterPrestige, err := s.prestige.ComputePrestige(ctx, actor.ID)
	if err != nil {
		return AllocationResult{}, fmt.Errorf("s.prestige.ComputePrestige -> %w", err)
	}

	conf, err := s.confs.EffectiveForNode(ctx, input.ContentID)
	if err != nil {
		return AllocationResult{}, fmt.Errorf("s.confs.EffectiveForNode -> %w", err)
	}

	maxPoints := conf.MaxPoints(target.Kind())
	weighted := domain.LedgerEntry{
		ParticipantID: target.Owner(),
		Kind:          domain.LedgerGain,
		Points:        float64(input.Value),
		Prestige:      &raterPrestige,
		MaxPoints:     &maxPoints,
	}
	feedback := domain.PrestigeFeedback{
		RecipientID: target.Owner(),
		RaterID:     actor.ID,
		Points:      input.Value,
	}

	return s.allocate(ctx, rating, input.ContentID, actor, &weighted, &feedback)
}

// allocate is the rationed path: quota gate, balance gate, then the
// transactional batch of content row, quota unit, and ledger records.
func (s *AllocationService) allocate(ctx context.Context, content domain.Content, nodeID uint, actor domain.Participant, weighted *domain.LedgerEntry, feedback *domain.PrestigeFeedback) (AllocationResult, error) {
	unlock := s.locks.Lock(actor.ID)
	defer unlock()

	conf, err := s.confs.EffectiveForNode(ctx, nodeID)
	if err != nil {
		return AllocationResult{}, fmt.Errorf("s.confs.EffectiveForNode -> %w", err)
	}

	kind := content.Kind()

	pkg, err := s.pkgRepo.FindActive(ctx, actor.ID)
	if err != nil {
		return AllocationResult{}, fmt.Errorf("s.pkgRepo.FindActive -> %w", err)
	}
	if pkg.ToDo(kind) <= 0 {
		return AllocationResult{}, ErrQuotaExhausted
	}

	sufficient, err := s.ledger.HasSufficientBalance(ctx, actor, conf.Cost(kind))
	if err != nil {
		return AllocationResult{}, fmt.Errorf("s.ledger.HasSufficientBalance -> %w", err)
	}
	if !sufficient {
		return AllocationResult{}, ErrInsufficientBalance
	}

	entries := []domain.LedgerEntry{
		{
			ParticipantID: actor.ID,
			Kind:          domain.LedgerGain,
			Points:        conf.Points(kind),
		},
		{
			ParticipantID: actor.ID,
			Kind:          domain.LedgerCost,
			Points:        conf.Cost(kind),
		},
	}
	if weighted != nil {
		entries = append(entries, *weighted)
	}

	created, updatedPkg, err := s.repo.Allocate(ctx, repository.AllocationInput{
		Content:  content,
		Conf:     conf,
		Entries:  entries,
		Feedback: feedback,
	})
	if err != nil {
		return AllocationResult{}, fmt.Errorf("s.repo.Allocate -> %w", err)
	}

	return AllocationResult{Content: created, Package: &updatedPkg}, nil
}
