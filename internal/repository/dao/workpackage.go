package dao

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrPackageNotFound = errors.New("work package not found")

type WorkPackage struct {
	ID            uint `gorm:"primaryKey"`
	ParticipantID uint `gorm:"not null;index"`

	TasksToDo     int `gorm:"not null;default:0"`
	TasksDone     int `gorm:"not null;default:0"`
	InfosToDo     int `gorm:"not null;default:0"`
	InfosDone     int `gorm:"not null;default:0"`
	SolutionsToDo int `gorm:"not null;default:0"`
	SolutionsDone int `gorm:"not null;default:0"`
	RatingsToDo   int `gorm:"not null;default:0"`
	RatingsDone   int `gorm:"not null;default:0"`

	Finished bool `gorm:"not null;default:false;index"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type WorkPackageDAO struct {
	db *gorm.DB
}

func NewWorkPackageDAO(db *gorm.DB) *WorkPackageDAO {
	return &WorkPackageDAO{
		db: db,
	}
}

func (d *WorkPackageDAO) FindActive(ctx context.Context, participantID uint) (WorkPackage, error) {
	var pkg WorkPackage

	result := d.db.WithContext(ctx).
		Where("participant_id = ? AND finished = ?", participantID, false).
		First(&pkg)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return WorkPackage{}, ErrPackageNotFound
		}

		return WorkPackage{}, result.Error
	}

	return pkg, nil
}

// Provision finishes any active package of the participant and creates
// the given fresh one, atomically. The participant must exist.
func (d *WorkPackageDAO) Provision(ctx context.Context, fresh WorkPackage) (WorkPackage, error) {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var participant Participant
		if err := tx.First(&participant, fresh.ParticipantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrParticipantNotFound
			}

			return err
		}

		if err := tx.Model(&WorkPackage{}).
			Where("participant_id = ? AND finished = ?", fresh.ParticipantID, false).
			Update("finished", true).Error; err != nil {
			return err
		}

		return tx.Create(&fresh).Error
	})
	if err != nil {
		return WorkPackage{}, err
	}

	return fresh, nil
}

// Consume applies a completion batch to the participant's active package
// in one transaction. When every counter reaches zero the package is
// finished and the pre-sized successor is created in its place.
func (d *WorkPackageDAO) Consume(ctx context.Context, participantID uint, job map[string]int, successor WorkPackage) (WorkPackage, error) {
	var out WorkPackage

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		pkg, err := consumeTx(tx, participantID, job, successor)
		if err != nil {
			return err
		}

		out = pkg

		return nil
	})
	if err != nil {
		return WorkPackage{}, err
	}

	return out, nil
}

// consumeTx is the shared consume step; the caller owns the transaction.
// The row is locked for the read-modify-write window.
func consumeTx(tx *gorm.DB, participantID uint, job map[string]int, successor WorkPackage) (WorkPackage, error) {
	var pkg WorkPackage

	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("participant_id = ? AND finished = ?", participantID, false).
		First(&pkg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return WorkPackage{}, ErrPackageNotFound
		}

		return WorkPackage{}, err
	}

	applyJob(&pkg, job)

	if !allSpent(pkg) {
		if err = tx.Save(&pkg).Error; err != nil {
			return WorkPackage{}, err
		}

		return pkg, nil
	}

	pkg.Finished = true
	if err = tx.Save(&pkg).Error; err != nil {
		return WorkPackage{}, err
	}

	successor.ParticipantID = participantID
	if err = tx.Create(&successor).Error; err != nil {
		return WorkPackage{}, err
	}

	return successor, nil
}

func applyJob(pkg *WorkPackage, job map[string]int) {
	consume := func(todo *int, done *int, count int) {
		if count <= 0 {
			return
		}
		*todo -= count
		if *todo < 0 {
			*todo = 0
		}
		*done += count
	}

	consume(&pkg.TasksToDo, &pkg.TasksDone, job["task"])
	consume(&pkg.InfosToDo, &pkg.InfosDone, job["info"])
	consume(&pkg.SolutionsToDo, &pkg.SolutionsDone, job["solution"])
	consume(&pkg.RatingsToDo, &pkg.RatingsDone, job["rating"])
}

func allSpent(pkg WorkPackage) bool {
	return pkg.TasksToDo == 0 &&
		pkg.InfosToDo == 0 &&
		pkg.SolutionsToDo == 0 &&
		pkg.RatingsToDo == 0
}
