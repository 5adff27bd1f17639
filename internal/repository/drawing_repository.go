package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sjcbulldog/xerodb/internal/model/entity"
	"gorm.io/gorm"
)

type DrawingRepository struct {
	db *gorm.DB
}

func NewDrawingRepository(db *gorm.DB) *DrawingRepository {
	return &DrawingRepository{db: db}
}

func (r *DrawingRepository) Create(ctx context.Context, d *entity.PartDrawing) error {
	if d.ID == "" {
		d.ID = uuid.New().String()[:32]
	}
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("create drawing: %w", err)
	}
	return nil
}

func (r *DrawingRepository) FindByID(ctx context.Context, id string) (*entity.PartDrawing, error) {
	var d entity.PartDrawing
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find drawing: %w", err)
	}
	return &d, nil
}

func (r *DrawingRepository) ListByPart(ctx context.Context, robotID, sequence int) ([]entity.PartDrawing, error) {
	var drawings []entity.PartDrawing
	err := r.db.WithContext(ctx).
		Where("robot_id = ? AND sequence = ?", robotID, sequence).
		Order("version").
		Find(&drawings).Error
	if err != nil {
		return nil, fmt.Errorf("list drawings: %w", err)
	}
	return drawings, nil
}

// NextVersion allocates the next drawing version for a part.
func (r *DrawingRepository) NextVersion(ctx context.Context, robotID, sequence int) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&entity.PartDrawing{}).
		Where("robot_id = ? AND sequence = ?", robotID, sequence).
		Select("COALESCE(MAX(version), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("next drawing version: %w", err)
	}
	return max + 1, nil
}
