package dao

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AllocationBatch is everything one content-creation action writes: the
// content row, the quota consumption and the ledger/feedback records.
// ContentID on the records is filled in once the content row exists.
type AllocationBatch struct {
	Content   Content
	Job       map[string]int
	Successor WorkPackage
	Entries   []LedgerEntry
	Feedback  *PrestigeFeedback
}

type AllocationDAO struct {
	db *gorm.DB
}

func NewAllocationDAO(db *gorm.DB) *AllocationDAO {
	return &AllocationDAO{
		db: db,
	}
}

// Create runs the whole allocation batch in a single transaction, so a
// failing ledger write rolls back the content row and the quota
// consumption with it.
func (d *AllocationDAO) Create(ctx context.Context, batch AllocationBatch) (Content, WorkPackage, error) {
	var (
		content Content
		pkg     WorkPackage
	)

	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		content = batch.Content
		content.UUID = uuid.NewString()
		if err := tx.Create(&content).Error; err != nil {
			return err
		}

		var err error
		pkg, err = consumeTx(tx, content.AuthorID, batch.Job, batch.Successor)
		if err != nil {
			return err
		}

		for _, entry := range batch.Entries {
			entry.ContentID = content.ID
			if err = tx.Create(&entry).Error; err != nil {
				return err
			}
		}

		if batch.Feedback != nil {
			feedback := *batch.Feedback
			feedback.ContentID = content.ID
			if err = tx.Create(&feedback).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return Content{}, WorkPackage{}, err
	}

	return content, pkg, nil
}

// CreateDirect inserts the content row only. Admin actions bypass quota
// and ledger bookkeeping.
func (d *AllocationDAO) CreateDirect(ctx context.Context, content Content) (Content, error) {
	content.UUID = uuid.NewString()

	result := d.db.WithContext(ctx).Create(&content)
	if result.Error != nil {
		return Content{}, result.Error
	}

	return content, nil
}
