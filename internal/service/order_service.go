package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sjcbulldog/xerodb/internal/model/entity"
	"github.com/sjcbulldog/xerodb/internal/parttype"
	"github.com/xuri/excelize/v2"
)

// CostMixed is the sentinel a PartOrder carries when its instances disagree
// on unit cost. Callers must treat it as non-comparable, not as a price.
const CostMixed = -1

// OneInstance is one orderable occurrence of a part in the tree. Quantity is
// the effective quantity: the part's own quantity multiplied by every
// ancestor assembly's quantity down from the root.
type OneInstance struct {
	Path     []string `json:"path"`
	Quantity int      `json:"quantity"`
	UnitCost float64  `json:"unitCost"`
}

// PartOrder groups instances of the same part description.
type PartOrder struct {
	Description   string        `json:"description"`
	Instances     []OneInstance `json:"instances"`
	TotalQuantity int           `json:"totalQuantity"`
	Cost          float64       `json:"cost"`
	Mixed         bool          `json:"mixed"`
}

// OrderService aggregates the purchase list for a robot's tree.
type OrderService struct{}

func NewOrderService() *OrderService {
	return &OrderService{}
}

// parseCurrency accepts the stored Unit Cost attribute, with or without a
// leading "$".
func parseCurrency(value string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimPrefix(strings.TrimSpace(value), "$"), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Aggregate walks every top-level assembly and collects COTS leaves in state
// "Ready To Order" carrying a well-formed unit cost. Orders appear in
// first-encountered order.
func (s *OrderService) Aggregate(flat []entity.RobotPart) []PartOrder {
	byParent := make(map[int][]*entity.RobotPart)
	for i := range flat {
		byParent[flat[i].ParentSeq] = append(byParent[flat[i].ParentSeq], &flat[i])
	}

	byDesc := make(map[string]*PartOrder)
	var order []string
	for i := range flat {
		if flat[i].ParentSeq == entity.RootParent {
			s.collect(&flat[i], byParent, nil, 1, 1, byDesc, &order)
		}
	}

	result := make([]PartOrder, 0, len(order))
	for _, desc := range order {
		po := byDesc[desc]
		po.Cost = po.Instances[0].UnitCost
		for _, inst := range po.Instances {
			po.TotalQuantity += inst.Quantity
			if inst.UnitCost != po.Cost {
				po.Mixed = true
			}
		}
		if po.Mixed {
			po.Cost = CostMixed
		}
		result = append(result, *po)
	}
	return result
}

func (s *OrderService) collect(part *entity.RobotPart, byParent map[int][]*entity.RobotPart, path []string, multiplier, depth int, byDesc map[string]*PartOrder, order *[]string) {
	if depth > maxTreeDepth {
		return
	}
	qty := part.Quantity
	if qty < 1 {
		qty = 1
	}
	effective := multiplier * qty
	path = append(path, part.Number().String())

	t, err := parttype.TypeFor(part.TypeTag)
	if err != nil {
		return
	}
	if t.Tag == parttype.TagCOTS && part.State == parttype.StateReadyToOrder {
		if cost, ok := parseCurrency(part.Attrs[parttype.AttrUnitCost]); ok {
			po, seen := byDesc[part.Description]
			if !seen {
				po = &PartOrder{Description: part.Description}
				byDesc[part.Description] = po
				*order = append(*order, part.Description)
			}
			po.Instances = append(po.Instances, OneInstance{
				Path:     append([]string(nil), path...),
				Quantity: effective,
				UnitCost: cost,
			})
		}
	}
	if !t.CanHaveChildren {
		return
	}
	for _, child := range byParent[part.Sequence] {
		s.collect(child, byParent, path, effective, depth+1, byDesc, order)
	}
}

var orderExportHeaders = []string{"Description", "Total Qty", "Unit Cost", "Extended Cost", "Instances"}

// ExportXLSX renders the aggregated order to a workbook.
func (s *OrderService) ExportXLSX(orders []PartOrder) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Order"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}
	for i, h := range orderExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	var grand float64
	gradable := true
	for idx, po := range orders {
		row := idx + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), po.Description)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), po.TotalQuantity)
		if po.Mixed {
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), "mixed")
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), "mixed")
			gradable = false
		} else {
			ext := po.Cost * float64(po.TotalQuantity)
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), po.Cost)
			f.SetCellValue(sheet, fmt.Sprintf("D%d", row), ext)
			grand += ext
		}
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), len(po.Instances))
	}

	totalRow := len(orders) + 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", totalRow), "Total")
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("A%d", totalRow), boldStyle)
	if gradable {
		f.SetCellValue(sheet, fmt.Sprintf("D%d", totalRow), grand)
	} else {
		f.SetCellValue(sheet, fmt.Sprintf("D%d", totalRow), "mixed")
	}
	return f, nil
}
