package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/sjcbulldog/xerodb/internal/attrcodec"
	"github.com/sjcbulldog/xerodb/internal/model/entity"
	"github.com/sjcbulldog/xerodb/internal/parttype"
	"gorm.io/gorm"
)

// PartRepository persists RobotPart rows and owns the attribute blob
// encode/decode on the way in and out of the database.
type PartRepository struct {
	db *gorm.DB
}

func NewPartRepository(db *gorm.DB) *PartRepository {
	return &PartRepository{db: db}
}

// hydrate unpacks the attribute column and fills schema defaults for any
// entry a stored record is missing. Unknown type tags keep whatever decoded.
func hydrate(p *entity.RobotPart) {
	p.Attrs = attrcodec.DecodeMap(p.Attributes)
	if t, err := parttype.TypeFor(p.TypeTag); err == nil {
		p.Attrs = t.ApplyDefaults(p.Attrs)
	}
}

// pack serializes the attribute map in schema order, then any keys the
// schema does not know about in sorted order so the blob is deterministic.
func pack(p *entity.RobotPart) {
	var pairs []attrcodec.Pair
	seen := make(map[string]bool, len(p.Attrs))
	if t, err := parttype.TypeFor(p.TypeTag); err == nil {
		for _, def := range t.Schema {
			if v, ok := p.Attrs[def.Name]; ok {
				pairs = append(pairs, attrcodec.Pair{Key: def.Name, Value: v})
				seen[def.Name] = true
			}
		}
	}
	var extras []string
	for k := range p.Attrs {
		if !seen[k] {
			extras = append(extras, k)
		}
	}
	sort.Strings(extras)
	for _, k := range extras {
		pairs = append(pairs, attrcodec.Pair{Key: k, Value: p.Attrs[k]})
	}
	p.Attributes = attrcodec.Encode(pairs)
}

// ListByRobot loads the complete flat part list of a robot, tombstoned
// branches included; callers filter by parent linkage.
func (r *PartRepository) ListByRobot(ctx context.Context, robotID int) ([]entity.RobotPart, error) {
	var parts []entity.RobotPart
	err := r.db.WithContext(ctx).
		Where("robot_id = ?", robotID).
		Order("sequence").
		Find(&parts).Error
	if err != nil {
		return nil, fmt.Errorf("list parts: %w", err)
	}
	for i := range parts {
		hydrate(&parts[i])
	}
	return parts, nil
}

// FindByNumber loads one part.
func (r *PartRepository) FindByNumber(ctx context.Context, robotID, sequence int) (*entity.RobotPart, error) {
	var part entity.RobotPart
	err := r.db.WithContext(ctx).
		Where("robot_id = ? AND sequence = ?", robotID, sequence).
		First(&part).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find part: %w", err)
	}
	hydrate(&part)
	return &part, nil
}

// NextSequence allocates the next part sequence for a robot.
func (r *PartRepository) NextSequence(ctx context.Context, robotID int) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&entity.RobotPart{}).
		Where("robot_id = ?", robotID).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return max + 1, nil
}

// Create persists a new part.
func (r *PartRepository) Create(ctx context.Context, part *entity.RobotPart) error {
	pack(part)
	if err := r.db.WithContext(ctx).Create(part).Error; err != nil {
		return fmt.Errorf("create part: %w", err)
	}
	return nil
}

// Update persists the full part row.
func (r *PartRepository) Update(ctx context.Context, part *entity.RobotPart) error {
	pack(part)
	err := r.db.WithContext(ctx).
		Model(&entity.RobotPart{}).
		Where("robot_id = ? AND sequence = ?", part.RobotID, part.Sequence).
		Updates(map[string]interface{}{
			"parent_seq":  part.ParentSeq,
			"state":       part.State,
			"quantity":    part.Quantity,
			"description": part.Description,
			"student":     part.Student,
			"mentor":      part.Mentor,
			"attributes":  part.Attributes,
			"updated_at":  part.UpdatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("update part: %w", err)
	}
	return nil
}
