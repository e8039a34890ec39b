package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrContentNotFound = errors.New("content not found")

type Content struct {
	ID   uint   `gorm:"primaryKey"`
	UUID string `gorm:"unique;not null"`

	Kind     string `gorm:"not null;index"`
	Title    string `gorm:"not null"`
	Body     string
	AuthorID uint `gorm:"not null;index"`
	ParentID uint `gorm:"index"`

	// Rating-only columns. Zero for the other kinds.
	TargetID uint
	Value    int

	Active   bool `gorm:"not null;default:true"`
	Finished bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type ContentDAO struct {
	db *gorm.DB
}

func NewContentDAO(db *gorm.DB) *ContentDAO {
	return &ContentDAO{
		db: db,
	}
}

func (d *ContentDAO) Insert(ctx context.Context, content Content) (Content, error) {
	content.UUID = uuid.NewString()

	result := d.db.WithContext(ctx).Create(&content)
	if result.Error != nil {
		return Content{}, result.Error
	}

	return content, nil
}

func (d *ContentDAO) FindByID(ctx context.Context, id uint) (Content, error) {
	var content Content

	result := d.db.WithContext(ctx).First(&content, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return Content{}, ErrContentNotFound
		}

		return Content{}, result.Error
	}

	return content, nil
}

func (d *ContentDAO) FindChildren(ctx context.Context, parentID uint) ([]Content, error) {
	var contents []Content

	result := d.db.WithContext(ctx).Where("parent_id = ?", parentID).Find(&contents)
	if result.Error != nil {
		return nil, result.Error
	}

	return contents, nil
}

// FindParentChain walks the parent links from the given content up to
// the root, nearest ancestor first.
func (d *ContentDAO) FindParentChain(ctx context.Context, id uint) ([]Content, error) {
	var chain []Content

	current, err := d.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	for current.ParentID != 0 {
		parent, err := d.FindByID(ctx, current.ParentID)
		if err != nil {
			if errors.Is(err, ErrContentNotFound) {
				break
			}

			return nil, err
		}

		chain = append(chain, parent)
		current = parent
	}

	return chain, nil
}

func (d *ContentDAO) SetActive(ctx context.Context, id uint, active bool) error {
	result := d.db.WithContext(ctx).
		Model(&Content{}).
		Where("id = ?", id).
		Update("active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrContentNotFound
	}

	return nil
}
