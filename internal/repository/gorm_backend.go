package repository

import (
	"context"
	"time"

	"github.com/yukikurage/duty-tracker/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBackend keeps each document as one row of the documents table.
type GormBackend struct {
	db *gorm.DB
}

// NewGormBackend expects the documents table to exist (see database.Migrate).
func NewGormBackend(db *gorm.DB) *GormBackend {
	return &GormBackend{db: db}
}

func (b *GormBackend) Load(ctx context.Context, name string) ([]byte, error) {
	var docs []models.Document
	if err := b.db.WithContext(ctx).Where("name = ?", name).Limit(1).Find(&docs).Error; err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, nil
	}
	return docs[0].Body, nil
}

func (b *GormBackend) Save(ctx context.Context, name string, data []byte) error {
	doc := models.Document{Name: name, Body: data, UpdatedAt: time.Now()}
	return b.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&doc).Error
}
