package service

import (
	"testing"

	"github.com/sjcbulldog/xerodb/internal/model/entity"
	"github.com/sjcbulldog/xerodb/internal/parttype"
)

func orderablePart(seq, parent, qty int, desc, cost string) entity.RobotPart {
	return entity.RobotPart{
		RobotID:     1,
		Sequence:    seq,
		ParentSeq:   parent,
		TypeTag:     parttype.TagCOTS,
		State:       parttype.StateReadyToOrder,
		Quantity:    qty,
		Description: desc,
		Attrs:       map[string]string{parttype.AttrUnitCost: cost},
	}
}

func assemblyPart(seq, parent, qty int, desc string) entity.RobotPart {
	return entity.RobotPart{
		RobotID:     1,
		Sequence:    seq,
		ParentSeq:   parent,
		TypeTag:     parttype.TagAssembly,
		State:       parttype.StateUnassigned,
		Quantity:    qty,
		Description: desc,
		Attrs:       map[string]string{},
	}
}

func TestAggregateEffectiveQuantity(t *testing.T) {
	s := NewOrderService()

	// Two gearboxes, each with three wheels: six wheels on the order.
	flat := []entity.RobotPart{
		assemblyPart(1, entity.RootParent, 1, "Drive Base"),
		assemblyPart(2, 1, 2, "Gearbox"),
		orderablePart(3, 2, 3, "Wheel", "$1.50"),
	}

	orders := s.Aggregate(flat)
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	po := orders[0]
	if po.TotalQuantity != 6 {
		t.Errorf("total quantity = %d, want 6", po.TotalQuantity)
	}
	if po.Cost != 1.50 || po.Mixed {
		t.Errorf("cost = %v mixed = %v, want 1.50 false", po.Cost, po.Mixed)
	}
	if len(po.Instances) != 1 {
		t.Fatalf("instances = %d, want 1", len(po.Instances))
	}
	inst := po.Instances[0]
	if inst.Quantity != 6 {
		t.Errorf("instance quantity = %d, want 6", inst.Quantity)
	}
	wantPath := []string{"001-A-00001", "001-A-00002", "001-C-00003"}
	if len(inst.Path) != len(wantPath) {
		t.Fatalf("path = %v, want %v", inst.Path, wantPath)
	}
	for i := range wantPath {
		if inst.Path[i] != wantPath[i] {
			t.Errorf("path[%d] = %q, want %q", i, inst.Path[i], wantPath[i])
		}
	}
}

func TestAggregateGroupsByDescription(t *testing.T) {
	s := NewOrderService()
	flat := []entity.RobotPart{
		assemblyPart(1, entity.RootParent, 1, "Left Side"),
		assemblyPart(2, entity.RootParent, 1, "Right Side"),
		orderablePart(3, 1, 2, "Wheel", "1.50"),
		orderablePart(4, 2, 2, "Wheel", "1.50"),
	}

	orders := s.Aggregate(flat)
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	po := orders[0]
	if len(po.Instances) != 2 || po.TotalQuantity != 4 {
		t.Errorf("instances = %d total = %d, want 2 and 4", len(po.Instances), po.TotalQuantity)
	}
	if po.Cost != 1.50 || po.Mixed {
		t.Errorf("cost = %v mixed = %v", po.Cost, po.Mixed)
	}
}

func TestAggregateMixedCostSentinel(t *testing.T) {
	s := NewOrderService()
	flat := []entity.RobotPart{
		assemblyPart(1, entity.RootParent, 1, "Drive Base"),
		orderablePart(2, 1, 1, "Wheel", "$1.50"),
		orderablePart(3, 1, 1, "Wheel", "$2.00"),
	}

	orders := s.Aggregate(flat)
	if len(orders) != 1 {
		t.Fatalf("orders = %d, want 1", len(orders))
	}
	po := orders[0]
	if !po.Mixed {
		t.Error("disagreeing unit costs not flagged mixed")
	}
	if po.Cost != CostMixed {
		t.Errorf("cost = %v, want sentinel %v", po.Cost, float64(CostMixed))
	}
	if po.TotalQuantity != 2 {
		t.Errorf("total quantity = %d, want 2", po.TotalQuantity)
	}
}

func TestAggregateFilters(t *testing.T) {
	s := NewOrderService()

	ordered := orderablePart(3, 1, 1, "Spacer", "$0.25")
	ordered.State = parttype.StateOrdered
	noCost := orderablePart(4, 1, 1, "Bolt", "")
	badCost := orderablePart(5, 1, 1, "Nut", "call for price")
	manufactured := entity.RobotPart{
		RobotID: 1, Sequence: 6, ParentSeq: 1,
		TypeTag: parttype.TagManufactured, State: parttype.StateReadyToOrder,
		Quantity: 1, Description: "Bracket", Attrs: map[string]string{},
	}

	flat := []entity.RobotPart{
		assemblyPart(1, entity.RootParent, 1, "Drive Base"),
		orderablePart(2, 1, 1, "Wheel", "$1.50"),
		ordered, noCost, badCost, manufactured,
	}

	orders := s.Aggregate(flat)
	if len(orders) != 1 || orders[0].Description != "Wheel" {
		t.Errorf("orders = %+v, want only Wheel", orders)
	}
}

func TestAggregateZeroQuantityCountsAsOne(t *testing.T) {
	s := NewOrderService()
	flat := []entity.RobotPart{
		assemblyPart(1, entity.RootParent, 0, "Drive Base"),
		orderablePart(2, 1, 0, "Wheel", "1.00"),
	}
	orders := s.Aggregate(flat)
	if len(orders) != 1 || orders[0].TotalQuantity != 1 {
		t.Errorf("orders = %+v, want Wheel x1", orders)
	}
}

func TestExportXLSX(t *testing.T) {
	s := NewOrderService()
	orders := []PartOrder{
		{Description: "Wheel", TotalQuantity: 6, Cost: 1.50, Instances: []OneInstance{{Quantity: 6, UnitCost: 1.50}}},
		{Description: "Motor", TotalQuantity: 2, Cost: CostMixed, Mixed: true, Instances: []OneInstance{{Quantity: 1, UnitCost: 18}, {Quantity: 1, UnitCost: 19}}},
	}

	f, err := s.ExportXLSX(orders)
	if err != nil {
		t.Fatalf("ExportXLSX failed: %v", err)
	}
	defer f.Close()

	if got, _ := f.GetCellValue("Order", "A1"); got != "Description" {
		t.Errorf("A1 = %q", got)
	}
	if got, _ := f.GetCellValue("Order", "A2"); got != "Wheel" {
		t.Errorf("A2 = %q", got)
	}
	if got, _ := f.GetCellValue("Order", "C3"); got != "mixed" {
		t.Errorf("C3 = %q, want mixed", got)
	}
	if got, _ := f.GetCellValue("Order", "A4"); got != "Total" {
		t.Errorf("A4 = %q, want Total", got)
	}
	// Mixed rows poison the grand total too.
	if got, _ := f.GetCellValue("Order", "D4"); got != "mixed" {
		t.Errorf("D4 = %q, want mixed", got)
	}
}
