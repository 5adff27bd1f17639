package service

import (
	"math"
	"time"

	"github.com/sjcbulldog/xerodb/internal/model/entity"
	"github.com/sjcbulldog/xerodb/internal/parttype"
)

// LatenessMode selects which due-date attribute the classification reads.
type LatenessMode string

const (
	ModeNextStateDue LatenessMode = "nextStateDue"
	ModeDoneDue      LatenessMode = "doneDue"
)

// LatenessBucket is one days-late tier. Count always equals len(Parts);
// both views come out of the same classification pass.
type LatenessBucket struct {
	Label string   `json:"label"`
	Count int      `json:"count"`
	Parts []string `json:"parts"`
}

// LatenessReport buckets parts by days late. NoDate holds parts without a
// parseable due date; they are shown for visual distinction but excluded
// from numeric summaries like AverageDaysLate.
type LatenessReport struct {
	Mode            LatenessMode     `json:"mode"`
	Buckets         []LatenessBucket `json:"buckets"`
	NoDate          LatenessBucket   `json:"nodate"`
	AverageDaysLate float64          `json:"averageDaysLate"`
}

// latenessBounds are the inclusive upper bounds of the first five buckets;
// the sixth catches everything later.
var latenessBounds = []int{0, 1, 3, 5, 10}

var latenessLabels = []string{"on time", "<=1 day", "<=3 days", "<=5 days", "<=10 days", ">10 days"}

type LatenessService struct{}

func NewLatenessService() *LatenessService {
	return &LatenessService{}
}

// Classify buckets every part by days late relative to referenceDate.
// daysLate = max(0, ceil(referenceDate - dueDate)); tombstoned parts are
// skipped.
func (s *LatenessService) Classify(parts []entity.RobotPart, referenceDate time.Time, mode LatenessMode) *LatenessReport {
	report := &LatenessReport{
		Mode:    mode,
		Buckets: make([]LatenessBucket, len(latenessLabels)),
		NoDate:  LatenessBucket{Label: "no date"},
	}
	for i, label := range latenessLabels {
		report.Buckets[i].Label = label
	}

	attr := parttype.AttrNextStateDue
	if mode == ModeDoneDue {
		attr = parttype.AttrDoneDue
	}

	var totalLate int
	var counted int
	for i := range parts {
		p := &parts[i]
		if p.IsDeleted() {
			continue
		}
		number := p.Number().String()

		due, err := time.Parse(parttype.DateLayout, p.Attrs[attr])
		if err != nil {
			report.NoDate.Count++
			report.NoDate.Parts = append(report.NoDate.Parts, number)
			continue
		}

		daysLate := int(math.Ceil(referenceDate.Sub(due).Hours() / 24))
		if daysLate < 0 {
			daysLate = 0
		}
		idx := len(latenessBounds)
		for b, bound := range latenessBounds {
			if daysLate <= bound {
				idx = b
				break
			}
		}
		report.Buckets[idx].Count++
		report.Buckets[idx].Parts = append(report.Buckets[idx].Parts, number)
		totalLate += daysLate
		counted++
	}
	if counted > 0 {
		report.AverageDaysLate = float64(totalLate) / float64(counted)
	}
	return report
}
