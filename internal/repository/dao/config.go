package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrConfigNotFound = errors.New("config not found")

type GlobalConfig struct {
	ID     uint   `gorm:"primaryKey"`
	UUID   string `gorm:"unique;not null"`
	NodeID uint   `gorm:"unique;not null"`

	PackageSize int `gorm:"not null"`

	TaskShare     float64 `gorm:"not null"`
	InfoShare     float64 `gorm:"not null"`
	SolutionShare float64 `gorm:"not null"`
	RateShare     float64 `gorm:"not null"`

	TaskPoints        float64 `gorm:"not null"`
	TaskCost          float64 `gorm:"not null"`
	TaskMaxPoints     float64 `gorm:"not null"`
	InfoPoints        float64 `gorm:"not null"`
	InfoCost          float64 `gorm:"not null"`
	InfoMaxPoints     float64 `gorm:"not null"`
	SolutionPoints    float64 `gorm:"not null"`
	SolutionCost      float64 `gorm:"not null"`
	SolutionMaxPoints float64 `gorm:"not null"`
	RatingPoints      float64 `gorm:"not null"`
	RatingCost        float64 `gorm:"not null"`
	RatingMaxPoints   float64 `gorm:"not null"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type NodeConfig struct {
	ID     uint   `gorm:"primaryKey"`
	UUID   string `gorm:"unique;not null"`
	NodeID uint   `gorm:"unique;not null"`

	TaskShare     *float64
	InfoShare     *float64
	SolutionShare *float64

	TaskPoints        *float64
	TaskCost          *float64
	TaskMaxPoints     *float64
	InfoPoints        *float64
	InfoCost          *float64
	InfoMaxPoints     *float64
	SolutionPoints    *float64
	SolutionCost      *float64
	SolutionMaxPoints *float64
	RatingPoints      *float64
	RatingCost        *float64
	RatingMaxPoints   *float64

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

type ConfigDAO struct {
	db *gorm.DB
}

func NewConfigDAO(db *gorm.DB) *ConfigDAO {
	return &ConfigDAO{
		db: db,
	}
}

func (d *ConfigDAO) InsertGlobal(ctx context.Context, conf GlobalConfig) (GlobalConfig, error) {
	conf.UUID = uuid.NewString()

	result := d.db.WithContext(ctx).Create(&conf)
	if result.Error != nil {
		return GlobalConfig{}, result.Error
	}

	return conf, nil
}

// FindGlobal returns the tenant-wide configuration. There is exactly one.
func (d *ConfigDAO) FindGlobal(ctx context.Context) (GlobalConfig, error) {
	var conf GlobalConfig

	result := d.db.WithContext(ctx).First(&conf)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return GlobalConfig{}, ErrConfigNotFound
		}

		return GlobalConfig{}, result.Error
	}

	return conf, nil
}

func (d *ConfigDAO) UpdateGlobal(ctx context.Context, conf GlobalConfig) (GlobalConfig, error) {
	result := d.db.WithContext(ctx).Save(&conf)
	if result.Error != nil {
		return GlobalConfig{}, result.Error
	}

	return conf, nil
}

func (d *ConfigDAO) InsertNode(ctx context.Context, conf NodeConfig) (NodeConfig, error) {
	conf.UUID = uuid.NewString()

	result := d.db.WithContext(ctx).Create(&conf)
	if result.Error != nil {
		return NodeConfig{}, result.Error
	}

	return conf, nil
}

func (d *ConfigDAO) FindNodeByNodeID(ctx context.Context, nodeID uint) (NodeConfig, error) {
	var conf NodeConfig

	result := d.db.WithContext(ctx).First(&conf, "node_id = ?", nodeID)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return NodeConfig{}, ErrConfigNotFound
		}

		return NodeConfig{}, result.Error
	}

	return conf, nil
}

func (d *ConfigDAO) UpdateNode(ctx context.Context, conf NodeConfig) (NodeConfig, error) {
	result := d.db.WithContext(ctx).Save(&conf)
	if result.Error != nil {
		return NodeConfig{}, result.Error
	}

	return conf, nil
}
