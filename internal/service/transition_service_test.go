package service

import (
	"errors"
	"reflect"
	"sort"
	"testing"

	"github.com/sjcbulldog/xerodb/internal/model/entity"
	"github.com/sjcbulldog/xerodb/internal/parttype"
)

func testStudent(username string) *entity.User {
	return &entity.User{Username: username, RoleCodes: []string{entity.RoleStudent}}
}

func testMentor(username string) *entity.User {
	return &entity.User{Username: username, RoleCodes: []string{entity.RoleMentor}}
}

func testAdmin() *entity.User {
	return &entity.User{Username: "root", IsAdmin: true}
}

func cotsPart(state string) *entity.RobotPart {
	return &entity.RobotPart{
		RobotID:  1,
		Sequence: 5,
		TypeTag:  parttype.TagCOTS,
		State:    state,
		Quantity: 1,
		Attrs:    map[string]string{"Vendor": "AndyMark"},
	}
}

func sortedStates(s *TransitionService, user *entity.User, part *entity.RobotPart) []string {
	states := s.LegalNextStates(user, part)
	sort.Strings(states)
	return states
}

func TestLegalNextStatesNilUser(t *testing.T) {
	s := NewTransitionService()
	if got := s.LegalNextStates(nil, cotsPart(parttype.StateUnassigned)); got != nil {
		t.Errorf("nil user states = %v, want nil", got)
	}
}

func TestLegalNextStatesRoleGating(t *testing.T) {
	s := NewTransitionService()
	part := cotsPart(parttype.StateReadyToOrder)

	// Students only get the anyone edge back to Unassigned.
	got := sortedStates(s, testStudent("alice"), part)
	if !reflect.DeepEqual(got, []string{parttype.StateUnassigned}) {
		t.Errorf("student states = %v", got)
	}

	// Mentors additionally get Ordered and Done.
	got = sortedStates(s, testMentor("mrs-smith"), part)
	want := []string{parttype.StateDone, parttype.StateOrdered, parttype.StateUnassigned}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("mentor states = %v, want %v", got, want)
	}
}

func TestLegalNextStatesAdminBypass(t *testing.T) {
	s := NewTransitionService()
	part := cotsPart(parttype.StateReadyToOrder)

	got := sortedStates(s, testAdmin(), part)
	want := []string{parttype.StateDone, parttype.StateOrdered, parttype.StateUnassigned}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("admin states = %v, want %v", got, want)
	}
}

func TestLegalNextStatesAssignedStudent(t *testing.T) {
	s := NewTransitionService()
	part := &entity.RobotPart{
		RobotID:  1,
		Sequence: 2,
		TypeTag:  parttype.TagAssembly,
		State:    parttype.StateUnassigned,
		Attrs:    map[string]string{},
	}

	// No student assigned: anyone may claim the edge.
	got := s.LegalNextStates(testStudent("bob"), part)
	if !reflect.DeepEqual(got, []string{"Designing"}) {
		t.Errorf("unassigned part states = %v", got)
	}

	// Assigned to alice: bob is shut out, alice is not.
	part.Student = "alice"
	if got := s.LegalNextStates(testStudent("bob"), part); len(got) != 0 {
		t.Errorf("non-assignee states = %v, want none", got)
	}
	if got := s.LegalNextStates(testStudent("alice"), part); !reflect.DeepEqual(got, []string{"Designing"}) {
		t.Errorf("assignee states = %v", got)
	}
}

func TestLegalNextStatesUnknownStoredStateFallsBack(t *testing.T) {
	s := NewTransitionService()
	part := cotsPart("Obsolete State Name")

	// The stored state no longer exists in the flow, so the part behaves as
	// if it were at the start state.
	got := s.LegalNextStates(testStudent("alice"), part)
	if !reflect.DeepEqual(got, []string{parttype.StateReadyToOrder}) {
		t.Errorf("fallback states = %v", got)
	}
}

func TestApplyTransitionNilActor(t *testing.T) {
	s := NewTransitionService()
	_, _, err := s.ApplyTransition(nil, cotsPart(parttype.StateUnassigned), parttype.StateReadyToOrder, nil)
	if !errors.Is(err, ErrUnknownUser) {
		t.Errorf("error = %v, want ErrUnknownUser", err)
	}
}

func TestApplyTransitionIllegal(t *testing.T) {
	s := NewTransitionService()
	part := cotsPart(parttype.StateReadyToOrder)

	_, _, err := s.ApplyTransition(testStudent("alice"), part, parttype.StateOrdered, nil)
	if !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("error = %v, want ErrIllegalTransition", err)
	}
}

func TestApplyTransitionMovesState(t *testing.T) {
	s := NewTransitionService()
	part := cotsPart(parttype.StateReadyToOrder)

	next, diff, err := s.ApplyTransition(testMentor("mrs-smith"), part, parttype.StateOrdered, nil)
	if err != nil {
		t.Fatalf("ApplyTransition failed: %v", err)
	}
	if next.State != parttype.StateOrdered {
		t.Errorf("next state = %q", next.State)
	}
	if part.State != parttype.StateReadyToOrder {
		t.Error("input part was mutated")
	}
	if len(diff) != 1 || diff[0] != "state: Ready To Order -> Ordered" {
		t.Errorf("diff = %v", diff)
	}
}

func TestApplyTransitionSameStateEmptyDiff(t *testing.T) {
	s := NewTransitionService()
	part := cotsPart(parttype.StateReadyToOrder)

	next, diff, err := s.ApplyTransition(testStudent("alice"), part, parttype.StateReadyToOrder, nil)
	if err != nil {
		t.Fatalf("ApplyTransition failed: %v", err)
	}
	if len(diff) != 0 {
		t.Errorf("diff = %v, want empty", diff)
	}
	if !next.UpdatedAt.Equal(part.UpdatedAt) {
		t.Error("no-op edit changed UpdatedAt")
	}
}

func TestApplyTransitionCollectsEveryValidationFailure(t *testing.T) {
	s := NewTransitionService()
	part := cotsPart(parttype.StateUnassigned)

	edits := &PartEdits{Attrs: map[string]string{
		"Unit Cost": "cheap",
		"Nonsense":  "x",
		"Link":      "https://example.com/item",
	}}
	_, _, err := s.ApplyTransition(testStudent("alice"), part, parttype.StateUnassigned, edits)

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
	if len(verr.Fields) != 2 {
		t.Errorf("failed fields = %v, want Unit Cost and Nonsense", verr.Fields)
	}
	if _, ok := verr.Fields["Unit Cost"]; !ok {
		t.Error("missing Unit Cost failure")
	}
	if _, ok := verr.Fields["Nonsense"]; !ok {
		t.Error("missing unknown-attribute failure")
	}
}

func TestApplyTransitionRejectsNonPositiveQuantity(t *testing.T) {
	s := NewTransitionService()

	for _, qty := range []int{0, -5} {
		part := cotsPart(parttype.StateReadyToOrder)
		edits := &PartEdits{Quantity: &qty}
		_, _, err := s.ApplyTransition(testStudent("alice"), part, parttype.StateReadyToOrder, edits)

		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("quantity %d: error = %v, want ValidationError", qty, err)
		}
		if _, ok := verr.Fields["Quantity"]; !ok {
			t.Errorf("quantity %d: failed fields = %v, want Quantity", qty, verr.Fields)
		}
	}

	// The lower bound itself is fine.
	part := cotsPart(parttype.StateReadyToOrder)
	part.Quantity = 3
	one := 1
	next, _, err := s.ApplyTransition(testStudent("alice"), part, parttype.StateReadyToOrder, &PartEdits{Quantity: &one})
	if err != nil {
		t.Fatalf("quantity 1 rejected: %v", err)
	}
	if next.Quantity != 1 {
		t.Errorf("quantity = %d, want 1", next.Quantity)
	}
}

func TestApplyTransitionEditsAndDiff(t *testing.T) {
	s := NewTransitionService()
	part := cotsPart(parttype.StateUnassigned)

	desc := "775pro motor"
	qty := 4
	student := "alice"
	edits := &PartEdits{
		Description: &desc,
		Quantity:    &qty,
		Student:     &student,
		Attrs:       map[string]string{"Unit Cost": "$18.99"},
	}
	next, diff, err := s.ApplyTransition(testStudent("alice"), part, parttype.StateReadyToOrder, edits)
	if err != nil {
		t.Fatalf("ApplyTransition failed: %v", err)
	}
	if next.Description != desc || next.Quantity != qty || next.Student != student {
		t.Errorf("edits not applied: %+v", next)
	}
	if next.Attrs["Unit Cost"] != "$18.99" {
		t.Errorf("attr edit not applied: %v", next.Attrs)
	}
	if len(diff) != 5 {
		t.Errorf("diff = %v, want 5 lines", diff)
	}
}
