package localstore

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EntryModel is the GORM model backing the Postgres KV. Values are stored as
// JSON since every payload the core persists is JSON-encoded.
type EntryModel struct {
	Key       string         `gorm:"primaryKey;column:key"`
	Value     datatypes.JSON `gorm:"column:value;type:jsonb"`
	UpdatedAt time.Time      `gorm:"not null"`
}

func (EntryModel) TableName() string { return "kv_entries" }

// Gorm implements KV using GORM + Postgres.
type Gorm struct {
	db *gorm.DB
}

// NewGorm opens the DB and runs auto-migrations.
func NewGorm(dsn string) (*Gorm, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := db.AutoMigrate(&EntryModel{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &Gorm{db: db}, nil
}

func (g *Gorm) Get(ctx context.Context, key string) (string, error) {
	var model EntryModel
	if err := g.db.WithContext(ctx).Where("key = ?", key).First(&model).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", ErrNotFound
		}
		return "", err
	}
	return string(model.Value), nil
}

func (g *Gorm) Set(ctx context.Context, key, value string) error {
	model := EntryModel{Key: key, Value: datatypes.JSON(value), UpdatedAt: time.Now().UTC()}
	return g.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&model).Error
}

func (g *Gorm) Delete(ctx context.Context, key string) error {
	return g.db.WithContext(ctx).Where("key = ?", key).Delete(&EntryModel{}).Error
}
