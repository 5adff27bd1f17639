package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/sjcbulldog/xerodb/internal/model/entity"
	"gorm.io/gorm"
)

type RobotRepository struct {
	db *gorm.DB
}

func NewRobotRepository(db *gorm.DB) *RobotRepository {
	return &RobotRepository{db: db}
}

// CreateWithTopLevel creates the robot row and its top-level assembly parts
// in one transaction. The roots carry the reserved low sequences.
func (r *RobotRepository) CreateWithTopLevel(ctx context.Context, robot *entity.Robot, roots []entity.RobotPart) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(robot).Error; err != nil {
			return fmt.Errorf("create robot: %w", err)
		}
		for i := range roots {
			roots[i].RobotID = robot.ID
			pack(&roots[i])
			if err := tx.Create(&roots[i]).Error; err != nil {
				return fmt.Errorf("create top-level part: %w", err)
			}
		}
		return nil
	})
}

func (r *RobotRepository) FindByID(ctx context.Context, id int) (*entity.Robot, error) {
	var robot entity.Robot
	err := r.db.WithContext(ctx).First(&robot, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find robot: %w", err)
	}
	return &robot, nil
}

func (r *RobotRepository) List(ctx context.Context) ([]entity.Robot, error) {
	var robots []entity.Robot
	if err := r.db.WithContext(ctx).Order("id").Find(&robots).Error; err != nil {
		return nil, fmt.Errorf("list robots: %w", err)
	}
	return robots, nil
}

func (r *RobotRepository) Update(ctx context.Context, robot *entity.Robot) error {
	if err := r.db.WithContext(ctx).Save(robot).Error; err != nil {
		return fmt.Errorf("update robot: %w", err)
	}
	return nil
}

// NextID allocates the next robot id.
func (r *RobotRepository) NextID(ctx context.Context) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&entity.Robot{}).
		Select("COALESCE(MAX(id), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("next robot id: %w", err)
	}
	return max + 1, nil
}
