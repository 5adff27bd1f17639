package service

import (
	"context"
	"errors"
	"time"

	"github.com/sjcbulldog/xerodb/internal/model/entity"
	"github.com/sjcbulldog/xerodb/internal/parttype"
	"github.com/sjcbulldog/xerodb/internal/repository"
)

var ErrRobotNotFound = errors.New("robot not found")

// CreateRobotRequest creates a robot plus one top-level assembly per named
// unit (e.g. competition and practice builds).
type CreateRobotRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Units       []string `json:"units"`
}

type RobotService struct {
	robots *repository.RobotRepository
	parts  *PartService
}

func NewRobotService(robots *repository.RobotRepository, parts *PartService) *RobotService {
	return &RobotService{robots: robots, parts: parts}
}

// CreateRobot creates the robot and its top-level assemblies atomically.
// Units default to a single competition build; the first root takes the
// reserved sequence 1.
func (s *RobotService) CreateRobot(ctx context.Context, actor *entity.User, req *CreateRobotRequest) (*entity.Robot, error) {
	if actor == nil {
		return nil, ErrUnknownUser
	}
	units := req.Units
	if len(units) == 0 {
		units = []string{"Competition"}
	}

	id, err := s.robots.NextID(ctx)
	if err != nil {
		return nil, err
	}
	assembly, err := parttype.TypeFor(parttype.TagAssembly)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	robot := &entity.Robot{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		CreatedBy:   actor.Username,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	roots := make([]entity.RobotPart, len(units))
	for i, unit := range units {
		roots[i] = entity.RobotPart{
			RobotID:     id,
			Sequence:    i + 1,
			ParentSeq:   entity.RootParent,
			TypeTag:     parttype.TagAssembly,
			State:       assembly.StartState(),
			Quantity:    1,
			Description: unit,
			Attrs:       assembly.ApplyDefaults(nil),
			CreatedBy:   actor.Username,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}
	if err := s.robots.CreateWithTopLevel(ctx, robot, roots); err != nil {
		return nil, err
	}
	robot.TopLevel = roots
	return robot, nil
}

func (s *RobotService) GetRobot(ctx context.Context, id int) (*entity.Robot, error) {
	robot, err := s.robots.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrRobotNotFound
	}
	if err != nil {
		return nil, err
	}
	parts, err := s.parts.ListParts(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, p := range parts {
		if p.IsRoot() {
			robot.TopLevel = append(robot.TopLevel, p)
		}
	}
	return robot, nil
}

func (s *RobotService) ListRobots(ctx context.Context) ([]entity.Robot, error) {
	return s.robots.List(ctx)
}
