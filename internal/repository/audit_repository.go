package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sjcbulldog/xerodb/internal/model/entity"
	"gorm.io/gorm"
)

type AuditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// LogChange records one changed field. Fire-and-forget: the write error is
// dropped so audit delivery never blocks or fails a part mutation.
func (r *AuditRepository) LogChange(ctx context.Context, actor, partNumber, description, change string) {
	entry := &entity.AuditEntry{
		ID:          uuid.New().String()[:32],
		PartNumber:  partNumber,
		Actor:       actor,
		Description: description,
		Change:      change,
	}
	r.db.WithContext(ctx).Create(entry)
}

// ListByPart returns a part's audit trail, newest first.
func (r *AuditRepository) ListByPart(ctx context.Context, partNumber string, page, pageSize int) ([]entity.AuditEntry, int64, error) {
	var entries []entity.AuditEntry
	var total int64

	query := r.db.WithContext(ctx).Model(&entity.AuditEntry{}).
		Where("part_number = ?", partNumber)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&entries).Error
	return entries, total, err
}
