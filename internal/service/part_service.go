package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sjcbulldog/xerodb/internal/model/entity"
	"github.com/sjcbulldog/xerodb/internal/parttype"
	"github.com/sjcbulldog/xerodb/internal/repository"
	"go.uber.org/zap"
)

var (
	ErrPartNotFound   = errors.New("part not found")
	ErrParentNotFound = errors.New("parent part not found")
	ErrNotAnAssembly  = errors.New("parent part cannot have children")
)

const partCacheTTL = 10 * time.Minute

// PartService owns part CRUD on top of the pure transition engine. The redis
// part-list cache fronts the store per robot: it is filled on read and
// dropped only after a successful persist, so a failed write can never leave
// stale data looking fresh.
type PartService struct {
	parts       *repository.PartRepository
	audit       *repository.AuditRepository
	transitions *TransitionService
	rdb         *redis.Client
	log         *zap.Logger
}

func NewPartService(parts *repository.PartRepository, audit *repository.AuditRepository, transitions *TransitionService, rdb *redis.Client, log *zap.Logger) *PartService {
	return &PartService{
		parts:       parts,
		audit:       audit,
		transitions: transitions,
		rdb:         rdb,
		log:         log,
	}
}

func partCacheKey(robotID int) string {
	return fmt.Sprintf("xerodb:robot:%d:parts", robotID)
}

// ListParts returns the robot's complete flat part list, cache first.
func (s *PartService) ListParts(ctx context.Context, robotID int) ([]entity.RobotPart, error) {
	key := partCacheKey(robotID)
	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			var parts []entity.RobotPart
			if json.Unmarshal(raw, &parts) == nil {
				return parts, nil
			}
		}
	}

	parts, err := s.parts.ListByRobot(ctx, robotID)
	if err != nil {
		return nil, err
	}
	if s.rdb != nil {
		if raw, err := json.Marshal(parts); err == nil {
			s.rdb.Set(ctx, key, raw, partCacheTTL)
		}
	}
	return parts, nil
}

// dropCache invalidates the robot's part list. Called only after a
// successful persist.
func (s *PartService) dropCache(ctx context.Context, robotID int) {
	if s.rdb != nil {
		if err := s.rdb.Del(ctx, partCacheKey(robotID)).Err(); err != nil {
			s.log.Warn("part cache invalidation failed", zap.Int("robot", robotID), zap.Error(err))
		}
	}
}

// CreatePartRequest is the payload for adding a child part to an assembly.
type CreatePartRequest struct {
	ParentSeq   int               `json:"parent_seq" binding:"required"`
	TypeTag     string            `json:"type" binding:"required"`
	Description string            `json:"description" binding:"required"`
	Quantity    int               `json:"quantity"`
	Attrs       map[string]string `json:"attrs"`
}

// CreatePart adds a child part beneath an assembly, initialized to the
// type's start state with schema defaults filled in.
func (s *PartService) CreatePart(ctx context.Context, actor *entity.User, robotID int, req *CreatePartRequest) (*entity.RobotPart, error) {
	if actor == nil {
		return nil, ErrUnknownUser
	}
	t, err := parttype.TypeFor(req.TypeTag)
	if err != nil {
		return nil, err
	}

	parent, err := s.parts.FindByNumber(ctx, robotID, req.ParentSeq)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrParentNotFound
	}
	if err != nil {
		return nil, err
	}
	parentType, err := parttype.TypeFor(parent.TypeTag)
	if err != nil {
		return nil, err
	}
	if !parentType.CanHaveChildren {
		return nil, ErrNotAnAssembly
	}

	attrs := t.ApplyDefaults(nil)
	failed := make(map[string]string)
	for name, value := range req.Attrs {
		def, ok := t.SchemaAttr(name)
		if !ok {
			failed[name] = "not a defined attribute"
			continue
		}
		if err := parttype.ValidateAttr(def, value); err != nil {
			failed[name] = err.Error()
			continue
		}
		attrs[name] = value
	}
	if len(failed) > 0 {
		return nil, &ValidationError{Fields: failed}
	}

	seq, err := s.parts.NextSequence(ctx, robotID)
	if err != nil {
		return nil, err
	}
	qty := req.Quantity
	if qty < 1 {
		qty = 1
	}
	now := time.Now()
	part := &entity.RobotPart{
		RobotID:     robotID,
		Sequence:    seq,
		ParentSeq:   req.ParentSeq,
		TypeTag:     req.TypeTag,
		State:       t.StartState(),
		Quantity:    qty,
		Description: req.Description,
		Attrs:       attrs,
		CreatedBy:   actor.Username,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.parts.Create(ctx, part); err != nil {
		return nil, err
	}
	s.dropCache(ctx, robotID)
	s.audit.LogChange(ctx, actor.Username, part.Number().String(), part.Description, "created")
	return part, nil
}

// GetPart loads one part.
func (s *PartService) GetPart(ctx context.Context, robotID, sequence int) (*entity.RobotPart, error) {
	part, err := s.parts.FindByNumber(ctx, robotID, sequence)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPartNotFound
	}
	return part, err
}

// UpdatePart applies a transition and/or field edits through the transition
// engine, persists the new snapshot and emits one audit entry per changed
// field. Passing the current state with edits is a plain field edit.
func (s *PartService) UpdatePart(ctx context.Context, actor *entity.User, robotID, sequence int, requestedState string, edits *PartEdits) (*entity.RobotPart, []string, error) {
	part, err := s.GetPart(ctx, robotID, sequence)
	if err != nil {
		return nil, nil, err
	}
	if requestedState == "" {
		requestedState = part.State
	}

	next, diff, err := s.transitions.ApplyTransition(actor, part, requestedState, edits)
	if err != nil {
		return nil, nil, err
	}
	if len(diff) == 0 {
		return next, diff, nil
	}

	if err := s.parts.Update(ctx, next); err != nil {
		return nil, nil, err
	}
	s.dropCache(ctx, robotID)
	for _, line := range diff {
		s.audit.LogChange(ctx, actor.Username, next.Number().String(), next.Description, line)
	}
	return next, diff, nil
}

// DeletePart soft-deletes by re-parenting onto the tombstone. The branch
// below follows implicitly: children keep pointing at the tombstoned parent
// and drop out of tree assembly with it.
func (s *PartService) DeletePart(ctx context.Context, actor *entity.User, robotID, sequence int) error {
	if actor == nil {
		return ErrUnknownUser
	}
	part, err := s.GetPart(ctx, robotID, sequence)
	if err != nil {
		return err
	}
	if part.IsRoot() {
		return fmt.Errorf("cannot delete a top-level assembly")
	}
	part.ParentSeq = entity.TombstoneParent
	part.UpdatedAt = time.Now()
	if err := s.parts.Update(ctx, part); err != nil {
		return err
	}
	s.dropCache(ctx, robotID)
	s.audit.LogChange(ctx, actor.Username, part.Number().String(), part.Description, "deleted")
	return nil
}

// LegalNextStates exposes the transition engine for the next-states endpoint.
func (s *PartService) LegalNextStates(ctx context.Context, user *entity.User, robotID, sequence int) ([]string, error) {
	part, err := s.GetPart(ctx, robotID, sequence)
	if err != nil {
		return nil, err
	}
	return s.transitions.LegalNextStates(user, part), nil
}
