package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sjcbulldog/xerodb/internal/model/entity"
	"github.com/sjcbulldog/xerodb/internal/parttype"
)

var (
	ErrUnknownUser       = errors.New("unknown user")
	ErrIllegalTransition = errors.New("illegal transition")
)

// ValidationError reports every field edit that failed its schema check, not
// just the first one.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return fmt.Sprintf("validation failed: %s", strings.Join(names, ", "))
}

// PartEdits carries the optional field edits accompanying a transition. Nil
// pointers leave the field untouched; attribute keys absent from the map are
// untouched too.
type PartEdits struct {
	Description *string           `json:"description"`
	Quantity    *int              `json:"quantity"`
	Student     *string           `json:"student"`
	Mentor      *string           `json:"mentor"`
	Attrs       map[string]string `json:"attrs"`
}

// TransitionService computes legal next states for a (user, part) pair and
// applies transitions. It is a pure function over its inputs: persistence and
// audit delivery belong to the caller.
type TransitionService struct{}

func NewTransitionService() *TransitionService {
	return &TransitionService{}
}

// flowNode resolves the part's current flow node. A stored state name the
// flow no longer defines falls back to the start state instead of failing;
// records predating a flow-graph change stay editable.
func flowNode(t *parttype.PartType, state string) *parttype.StateNode {
	if node, ok := t.StateNode(state); ok {
		return node
	}
	node, _ := t.StateNode(t.StartState())
	return node
}

// edgeLegal evaluates one edge's actor requirement against the acting user.
func edgeLegal(edge parttype.Edge, user *entity.User, part *entity.RobotPart) bool {
	switch edge.Actor {
	case parttype.ActorAnyone:
		return true
	case parttype.ActorStudent:
		return user.HasRole(entity.RoleStudent)
	case parttype.ActorMentor:
		return user.HasRole(entity.RoleMentor)
	case parttype.ActorAssignedStudent:
		return part.Student == "" || part.Student == user.Username
	case parttype.ActorAssignedMentor:
		if part.Mentor == "" {
			return user.HasRole(entity.RoleMentor)
		}
		return part.Mentor == user.Username
	}
	return false
}

// LegalNextStates returns the set of state names the user may move the part
// to. A nil user (anonymous report contexts) gets no states. Admins get
// every declared edge regardless of actor requirements.
func (s *TransitionService) LegalNextStates(user *entity.User, part *entity.RobotPart) []string {
	if user == nil {
		return nil
	}
	t, err := parttype.TypeFor(part.TypeTag)
	if err != nil {
		return nil
	}
	node := flowNode(t, part.State)

	var states []string
	seen := make(map[string]bool)
	for _, edge := range node.Edges {
		if !user.IsAdmin && !edgeLegal(edge, user, part) {
			continue
		}
		if !seen[edge.Next] {
			seen[edge.Next] = true
			states = append(states, edge.Next)
		}
	}
	return states
}

// ApplyTransition validates the requested state and field edits, then
// returns a new part snapshot plus one diff line per changed field. The
// input part is not mutated. Requesting the part's current state is allowed
// and, with no edits, yields an empty diff.
func (s *TransitionService) ApplyTransition(actor *entity.User, part *entity.RobotPart, requested string, edits *PartEdits) (*entity.RobotPart, []string, error) {
	if actor == nil {
		return nil, nil, ErrUnknownUser
	}
	t, err := parttype.TypeFor(part.TypeTag)
	if err != nil {
		return nil, nil, err
	}

	if requested != part.State {
		legal := false
		for _, next := range s.LegalNextStates(actor, part) {
			if next == requested {
				legal = true
				break
			}
		}
		if !legal {
			return nil, nil, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, part.State, requested)
		}
	}

	if edits != nil {
		failed := make(map[string]string)
		if edits.Quantity != nil && *edits.Quantity < 1 {
			failed["Quantity"] = fmt.Sprintf("quantity must be at least 1, got %d", *edits.Quantity)
		}
		for name, value := range edits.Attrs {
			def, ok := t.SchemaAttr(name)
			if !ok {
				failed[name] = "not a defined attribute"
				continue
			}
			if err := parttype.ValidateAttr(def, value); err != nil {
				failed[name] = err.Error()
			}
		}
		if len(failed) > 0 {
			return nil, nil, &ValidationError{Fields: failed}
		}
	}

	next := part.Clone()
	next.State = requested
	if edits != nil {
		if edits.Description != nil {
			next.Description = *edits.Description
		}
		if edits.Quantity != nil {
			next.Quantity = *edits.Quantity
		}
		if edits.Student != nil {
			next.Student = *edits.Student
		}
		if edits.Mentor != nil {
			next.Mentor = *edits.Mentor
		}
		for name, value := range edits.Attrs {
			next.Attrs[name] = value
		}
	}
	next.UpdatedAt = time.Now()

	diff := diffParts(part, next)
	if len(diff) == 0 {
		// No-op edit: keep the original timestamp.
		next.UpdatedAt = part.UpdatedAt
	}
	return next, diff, nil
}

// diffParts produces one human-readable line per changed field, the shape
// the audit log stores.
func diffParts(before, after *entity.RobotPart) []string {
	var diff []string
	if before.ParentSeq != after.ParentSeq {
		diff = append(diff, fmt.Sprintf("parent: %d -> %d", before.ParentSeq, after.ParentSeq))
	}
	if before.State != after.State {
		diff = append(diff, fmt.Sprintf("state: %s -> %s", before.State, after.State))
	}
	if before.Student != after.Student {
		diff = append(diff, fmt.Sprintf("student: %q -> %q", before.Student, after.Student))
	}
	if before.Mentor != after.Mentor {
		diff = append(diff, fmt.Sprintf("mentor: %q -> %q", before.Mentor, after.Mentor))
	}
	if before.Quantity != after.Quantity {
		diff = append(diff, fmt.Sprintf("quantity: %d -> %d", before.Quantity, after.Quantity))
	}
	if before.Description != after.Description {
		diff = append(diff, fmt.Sprintf("description: %q -> %q", before.Description, after.Description))
	}

	keys := make(map[string]bool, len(before.Attrs)+len(after.Attrs))
	for k := range before.Attrs {
		keys[k] = true
	}
	for k := range after.Attrs {
		keys[k] = true
	}
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		b, inB := before.Attrs[k]
		a, inA := after.Attrs[k]
		switch {
		case inB && !inA:
			diff = append(diff, fmt.Sprintf("attr %s: removed (was %q)", k, b))
		case !inB && inA:
			diff = append(diff, fmt.Sprintf("attr %s: added %q", k, a))
		case a != b:
			diff = append(diff, fmt.Sprintf("attr %s: %q -> %q", k, b, a))
		}
	}
	return diff
}
