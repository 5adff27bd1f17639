package service

import (
	"testing"
	"time"

	"github.com/sjcbulldog/xerodb/internal/model/entity"
	"github.com/sjcbulldog/xerodb/internal/parttype"
)

func duePart(seq int, due string) entity.RobotPart {
	attrs := map[string]string{}
	if due != "" {
		attrs[parttype.AttrNextStateDue] = due
	}
	return entity.RobotPart{
		RobotID:   1,
		Sequence:  seq,
		ParentSeq: entity.RootParent,
		TypeTag:   parttype.TagAssembly,
		State:     parttype.StateUnassigned,
		Quantity:  1,
		Attrs:     attrs,
	}
}

func TestClassifyBuckets(t *testing.T) {
	s := NewLatenessService()
	reference := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	parts := []entity.RobotPart{
		duePart(1, "2026-03-15"), // due in the future: on time
		duePart(2, "2026-03-10"), // due today: on time
		duePart(3, "2026-03-09"), // 1 day late
		duePart(4, "2026-03-06"), // 4 days late: <=5 bucket
		duePart(5, "2026-02-01"), // way late: >10 bucket
		duePart(6, ""),           // no date
	}

	report := s.Classify(parts, reference, ModeNextStateDue)

	wantCounts := []int{2, 1, 0, 1, 0, 1}
	for i, want := range wantCounts {
		if report.Buckets[i].Count != want {
			t.Errorf("bucket %q count = %d, want %d", report.Buckets[i].Label, report.Buckets[i].Count, want)
		}
	}
	if report.NoDate.Count != 1 {
		t.Errorf("no-date count = %d, want 1", report.NoDate.Count)
	}

	// (0 + 0 + 1 + 4 + 37) / 5; the no-date part is excluded.
	want := 42.0 / 5.0
	if report.AverageDaysLate != want {
		t.Errorf("average = %v, want %v", report.AverageDaysLate, want)
	}
}

func TestClassifyCountMatchesMembership(t *testing.T) {
	s := NewLatenessService()
	reference := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	parts := []entity.RobotPart{
		duePart(1, "2026-03-09"),
		duePart(2, "2026-03-09"),
		duePart(3, "bogus"),
	}

	report := s.Classify(parts, reference, ModeNextStateDue)
	for _, b := range report.Buckets {
		if b.Count != len(b.Parts) {
			t.Errorf("bucket %q count %d != membership %d", b.Label, b.Count, len(b.Parts))
		}
	}
	if report.NoDate.Count != len(report.NoDate.Parts) {
		t.Errorf("no-date count %d != membership %d", report.NoDate.Count, len(report.NoDate.Parts))
	}
}

func TestClassifyDoneDueMode(t *testing.T) {
	s := NewLatenessService()
	reference := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	p := duePart(1, "2026-03-09")
	p.Attrs[parttype.AttrDoneDue] = "2026-02-20"

	report := s.Classify([]entity.RobotPart{p}, reference, ModeDoneDue)
	if report.Mode != ModeDoneDue {
		t.Errorf("mode = %q", report.Mode)
	}
	// 18 days late against Done Due, not 1 day against Next State Due.
	if report.Buckets[5].Count != 1 {
		t.Errorf(">10 bucket count = %d, want 1", report.Buckets[5].Count)
	}
}

func TestClassifySkipsTombstoned(t *testing.T) {
	s := NewLatenessService()
	reference := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	gone := duePart(1, "2026-01-01")
	gone.ParentSeq = entity.TombstoneParent

	report := s.Classify([]entity.RobotPart{gone}, reference, ModeNextStateDue)
	total := report.NoDate.Count
	for _, b := range report.Buckets {
		total += b.Count
	}
	if total != 0 {
		t.Errorf("tombstoned part classified, total = %d", total)
	}
	if report.AverageDaysLate != 0 {
		t.Errorf("average = %v, want 0", report.AverageDaysLate)
	}
}

func TestClassifyEmpty(t *testing.T) {
	s := NewLatenessService()
	report := s.Classify(nil, time.Now(), ModeNextStateDue)
	if len(report.Buckets) != 6 {
		t.Fatalf("buckets = %d, want 6", len(report.Buckets))
	}
	if report.AverageDaysLate != 0 {
		t.Errorf("average = %v, want 0", report.AverageDaysLate)
	}
}
