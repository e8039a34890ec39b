package repository

import (
	"context"
	"fmt"

	"github.com/edumesh/contribution-api/internal/domain"
	"github.com/edumesh/contribution-api/internal/repository/dao"
)

var ErrContentNotFound = dao.ErrContentNotFound

type ContentDAO interface {
	FindByID(ctx context.Context, id uint) (dao.Content, error)
	FindChildren(ctx context.Context, parentID uint) ([]dao.Content, error)
	FindParentChain(ctx context.Context, id uint) ([]dao.Content, error)
	SetActive(ctx context.Context, id uint, active bool) error
}

type ContentRepository struct {
	dao ContentDAO
}

func NewContentRepository(dao ContentDAO) *ContentRepository {
	return &ContentRepository{
		dao: dao,
	}
}

func (r *ContentRepository) FindByID(ctx context.Context, id uint) (domain.Content, error) {
	found, err := r.dao.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindByID -> %w", err)
	}

	return contentDaoToDomain(found), nil
}

func (r *ContentRepository) FindChildren(ctx context.Context, parentID uint) ([]domain.Content, error) {
	found, err := r.dao.FindChildren(ctx, parentID)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindChildren -> %w", err)
	}

	contents := make([]domain.Content, 0, len(found))
	for _, c := range found {
		contents = append(contents, contentDaoToDomain(c))
	}

	return contents, nil
}

func (r *ContentRepository) FindParentChain(ctx context.Context, id uint) ([]domain.Content, error) {
	chain, err := r.dao.FindParentChain(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("r.dao.FindParentChain -> %w", err)
	}

	contents := make([]domain.Content, 0, len(chain))
	for _, c := range chain {
		contents = append(contents, contentDaoToDomain(c))
	}

	return contents, nil
}

func (r *ContentRepository) Deactivate(ctx context.Context, id uint) error {
	if err := r.dao.SetActive(ctx, id, false); err != nil {
		return fmt.Errorf("r.dao.SetActive -> %w", err)
	}

	return nil
}

func contentDaoToDomain(c dao.Content) domain.Content {
	node := domain.Node{
		ID:        c.ID,
		UUID:      c.UUID,
		AuthorID:  c.AuthorID,
		ParentID:  c.ParentID,
		Title:     c.Title,
		Body:      c.Body,
		Active:    c.Active,
		Finished:  c.Finished,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}

	switch domain.ContentKind(c.Kind) {
	case domain.KindInfo:
		return domain.Info{Node: node}
	case domain.KindSolution:
		return domain.Solution{Node: node}
	case domain.KindRating:
		return domain.Rating{Node: node, TargetID: c.TargetID, Value: c.Value}
	default:
		return domain.Task{Node: node}
	}
}

func contentDomainToDao(c domain.Content) dao.Content {
	out := dao.Content{
		Kind: string(c.Kind()),
	}

	switch v := c.(type) {
	case domain.Task:
		out = nodeToDao(out, v.Node)
	case domain.Info:
		out = nodeToDao(out, v.Node)
	case domain.Solution:
		out = nodeToDao(out, v.Node)
	case domain.Rating:
		out = nodeToDao(out, v.Node)
		out.TargetID = v.TargetID
		out.Value = v.Value
	}

	return out
}

func nodeToDao(out dao.Content, n domain.Node) dao.Content {
	out.ID = n.ID
	out.UUID = n.UUID
	out.AuthorID = n.AuthorID
	out.ParentID = n.ParentID
	out.Title = n.Title
	out.Body = n.Body
	out.Active = n.Active
	out.Finished = n.Finished

	return out
}
