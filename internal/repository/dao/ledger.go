package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type LedgerEntry struct {
	ID            uint   `gorm:"primaryKey"`
	ParticipantID uint   `gorm:"not null;index"`
	ContentID     uint   `gorm:"not null;index"`
	Kind          string `gorm:"not null;index"`

	Points    float64 `gorm:"not null"`
	Prestige  *float64
	MaxPoints *float64

	CreatedAt time.Time `gorm:"not null"`
}

type PrestigeFeedback struct {
	ID          uint `gorm:"primaryKey"`
	RecipientID uint `gorm:"not null;index"`
	RaterID     uint `gorm:"not null"`
	ContentID   uint `gorm:"not null"`
	Points      int  `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
}

type LedgerDAO struct {
	db *gorm.DB
}

func NewLedgerDAO(db *gorm.DB) *LedgerDAO {
	return &LedgerDAO{
		db: db,
	}
}

// QueryEntries returns the participant's entries of one kind. With
// activeOnly set, entries whose source content is inactive or still
// unfinished are excluded.
func (d *LedgerDAO) QueryEntries(ctx context.Context, participantID uint, kind string, activeOnly bool) ([]LedgerEntry, error) {
	var entries []LedgerEntry

	query := d.db.WithContext(ctx).
		Where("ledger_entries.participant_id = ? AND ledger_entries.kind = ?", participantID, kind)
	if activeOnly {
		query = query.
			Joins("JOIN contents ON contents.id = ledger_entries.content_id").
			Where("contents.active = ? AND contents.finished = ?", true, true)
	}

	result := query.Find(&entries)
	if result.Error != nil {
		return nil, result.Error
	}

	return entries, nil
}

func (d *LedgerDAO) QueryFeedback(ctx context.Context, recipientID uint) ([]PrestigeFeedback, error) {
	var feedback []PrestigeFeedback

	result := d.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Find(&feedback)
	if result.Error != nil {
		return nil, result.Error
	}

	return feedback, nil
}
