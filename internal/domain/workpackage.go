package domain

import (
	"math"
	"time"
)

// WorkPackage rations how much content of each kind a participant may
// create before a fresh package is sized for them. At most one
// non-finished package exists per participant.
type WorkPackage struct {
	ID            uint      `json:"id"`
	ParticipantID uint      `json:"participant_id"`
	TasksToDo     int       `json:"tasks_todo"`
	TasksDone     int       `json:"tasks_done"`
	InfosToDo     int       `json:"infos_todo"`
	InfosDone     int       `json:"infos_done"`
	SolutionsToDo int       `json:"solutions_todo"`
	SolutionsDone int       `json:"solutions_done"`
	RatingsToDo   int       `json:"ratings_todo"`
	RatingsDone   int       `json:"ratings_done"`
	Finished      bool      `json:"finished"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// NewWorkPackage sizes a fresh package from the effective configuration:
// each kind gets round(packageSize * share) units to do.
func NewWorkPackage(conf EffectiveConfig, participantID uint) WorkPackage {
	size := float64(conf.PackageSize)

	return WorkPackage{
		ParticipantID: participantID,
		TasksToDo:     int(math.Round(size * conf.TaskShare)),
		InfosToDo:     int(math.Round(size * conf.InfoShare)),
		SolutionsToDo: int(math.Round(size * conf.SolutionShare)),
		RatingsToDo:   int(math.Round(size * conf.RateShare)),
	}
}

func (p WorkPackage) ToDo(kind ContentKind) int {
	switch kind {
	case KindTask:
		return p.TasksToDo
	case KindInfo:
		return p.InfosToDo
	case KindSolution:
		return p.SolutionsToDo
	case KindRating:
		return p.RatingsToDo
	}

	return 0
}

func (p WorkPackage) Done(kind ContentKind) int {
	switch kind {
	case KindTask:
		return p.TasksDone
	case KindInfo:
		return p.InfosDone
	case KindSolution:
		return p.SolutionsDone
	case KindRating:
		return p.RatingsDone
	}

	return 0
}

// Apply consumes count units of a kind's quota. The to-do counter floors
// at zero so a batch may over-deliver without going negative; done always
// counts the full delivery.
func (p *WorkPackage) Apply(kind ContentKind, count int) {
	dec := func(todo *int, done *int) {
		*todo -= count
		if *todo < 0 {
			*todo = 0
		}
		*done += count
	}

	switch kind {
	case KindTask:
		dec(&p.TasksToDo, &p.TasksDone)
	case KindInfo:
		dec(&p.InfosToDo, &p.InfosDone)
	case KindSolution:
		dec(&p.SolutionsToDo, &p.SolutionsDone)
	case KindRating:
		dec(&p.RatingsToDo, &p.RatingsDone)
	}
}

// ApplyJob applies a batch of completions, one count per kind.
func (p *WorkPackage) ApplyJob(job map[ContentKind]int) {
	for _, kind := range ContentKinds {
		if count, ok := job[kind]; ok && count > 0 {
			p.Apply(kind, count)
		}
	}
}

// IsFinished reports whether every kind's quota is spent. A package is
// only closed once all four counters reach zero, so exhausting one kind
// never blocks the others.
func (p WorkPackage) IsFinished() bool {
	return p.TasksToDo == 0 &&
		p.InfosToDo == 0 &&
		p.SolutionsToDo == 0 &&
		p.RatingsToDo == 0
}
