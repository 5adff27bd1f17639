// Package parttype is the static catalog of part-type variants. Each variant
// owns an ordered attribute schema and a role-gated state-flow graph. The
// registry is plain data, read-only after process start; there is no runtime
// mutation and no per-type code.
package parttype

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrUnknownPartType is returned by TypeFor for an unregistered tag.
var ErrUnknownPartType = errors.New("unknown part type")

// Kind is the value kind of a schema attribute.
type Kind string

const (
	KindString   Kind = "string"
	KindInteger  Kind = "integer"
	KindDouble   Kind = "double"
	KindCurrency Kind = "currency"
	KindChoice   Kind = "choice"
	KindMentor   Kind = "mentor"
	KindStudent  Kind = "student"
)

// Actor is the privilege required to traverse a flow edge.
type Actor string

const (
	ActorAnyone          Actor = "anyone"
	ActorStudent         Actor = "student"
	ActorMentor          Actor = "mentor"
	ActorAssignedStudent Actor = "assigned-student"
	ActorAssignedMentor  Actor = "assigned-mentor"
)

// AttrDef is one entry of a type's ordered attribute schema.
type AttrDef struct {
	Name     string
	Kind     Kind
	Required bool
	Default  string
	Choices  []string
}

// Edge is one outgoing transition of a flow state.
type Edge struct {
	Next  string
	Actor Actor
}

// StateNode is a named flow state with its outgoing edges.
type StateNode struct {
	Name  string
	Edges []Edge
}

// PartType is one immutable variant of the catalog.
type PartType struct {
	Tag             string
	Name            string
	CanHaveChildren bool
	Schema          []AttrDef
	Flow            []StateNode
}

// StartState is the state assigned to newly created parts and the fail-safe
// for stored state names that no longer exist in the flow. By convention it
// is the first declared state.
func (t *PartType) StartState() string {
	return t.Flow[0].Name
}

// StateNode returns the flow node for a state name.
func (t *PartType) StateNode(name string) (*StateNode, bool) {
	for i := range t.Flow {
		if t.Flow[i].Name == name {
			return &t.Flow[i], true
		}
	}
	return nil, false
}

// SchemaAttr returns the schema entry for an attribute name.
func (t *PartType) SchemaAttr(name string) (*AttrDef, bool) {
	for i := range t.Schema {
		if t.Schema[i].Name == name {
			return &t.Schema[i], true
		}
	}
	return nil, false
}

// ApplyDefaults fills any schema attribute missing from m with its default.
// Loaded records that predate a schema change pick up new attributes here.
func (t *PartType) ApplyDefaults(m map[string]string) map[string]string {
	if m == nil {
		m = make(map[string]string, len(t.Schema))
	}
	for _, def := range t.Schema {
		if _, ok := m[def.Name]; !ok {
			m[def.Name] = def.Default
		}
	}
	return m
}

var (
	intPattern    = regexp.MustCompile(`^-?[0-9]+$`)
	doublePattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)
)

// ValidateAttr type-checks a value against a schema entry. Currency values
// may carry a leading "$" which is ignored for the format check.
func ValidateAttr(def *AttrDef, value string) error {
	if value == "" {
		if def.Required {
			return fmt.Errorf("%s is required", def.Name)
		}
		return nil
	}
	switch def.Kind {
	case KindInteger:
		if !intPattern.MatchString(value) {
			return fmt.Errorf("%s must be an integer, got %q", def.Name, value)
		}
	case KindDouble:
		if !doublePattern.MatchString(value) {
			return fmt.Errorf("%s must be a number, got %q", def.Name, value)
		}
	case KindCurrency:
		if !doublePattern.MatchString(strings.TrimPrefix(value, "$")) {
			return fmt.Errorf("%s must be a currency amount, got %q", def.Name, value)
		}
	case KindChoice:
		for _, c := range def.Choices {
			if c == value {
				return nil
			}
		}
		return fmt.Errorf("%s must be one of %s, got %q", def.Name, strings.Join(def.Choices, "/"), value)
	}
	return nil
}

// TypeFor looks up a variant by tag.
func TypeFor(tag string) (*PartType, error) {
	t, ok := registry[tag]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPartType, tag)
	}
	return t, nil
}

// All returns the variants in declaration order.
func All() []*PartType {
	return []*PartType{assembly, cots, manufactured}
}

var registry = map[string]*PartType{
	TagAssembly:     assembly,
	TagCOTS:         cots,
	TagManufactured: manufactured,
}
