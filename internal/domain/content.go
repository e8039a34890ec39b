package domain

import "time"

type ContentKind string

const (
	KindTask     ContentKind = "task"
	KindInfo     ContentKind = "info"
	KindSolution ContentKind = "solution"
	KindRating   ContentKind = "rating"
)

// ContentKinds lists every kind a work package rations, in share order.
var ContentKinds = []ContentKind{KindTask, KindInfo, KindSolution, KindRating}

// RatingMax is the highest value a single rating can carry.
const RatingMax = 5

// Node is the shared state of every content variant: a row in the
// learning-goal hierarchy with an author and a parent link.
type Node struct {
	ID        uint      `json:"id"`
	UUID      string    `json:"uuid"`
	AuthorID  uint      `json:"author_id"`
	ParentID  uint      `json:"parent_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Active    bool      `json:"active"`
	Finished  bool      `json:"finished"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (n Node) Owner() uint {
	return n.AuthorID
}

func (n Node) Parent() uint {
	return n.ParentID
}

// Content is what every contributable variant exposes to the engine.
type Content interface {
	Kind() ContentKind
	Owner() uint
	Parent() uint
}

type Task struct {
	Node
}

func (Task) Kind() ContentKind { return KindTask }

type Info struct {
	Node
}

func (Info) Kind() ContentKind { return KindInfo }

type Solution struct {
	Node
}

func (Solution) Kind() ContentKind { return KindSolution }

// Rating is a 1-5 judgement of another participant's content. TargetID
// points at the rated node; the parent link still places the rating in
// the goal hierarchy.
type Rating struct {
	Node
	TargetID uint `json:"target_id"`
	Value    int  `json:"value"`
}

func (Rating) Kind() ContentKind { return KindRating }
