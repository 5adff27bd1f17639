package entity

import "testing"

func TestPartNumberString(t *testing.T) {
	n := PartNumber{RobotID: 42, TypeTag: "C", Sequence: 17}
	if got := n.String(); got != "042-C-00017" {
		t.Errorf("String() = %q, want 042-C-00017", got)
	}

	// Values wider than the padding keep all their digits.
	n = PartNumber{RobotID: 1234, TypeTag: "A", Sequence: 123456}
	if got := n.String(); got != "1234-A-123456" {
		t.Errorf("String() = %q, want 1234-A-123456", got)
	}
}

func TestParsePartNumber(t *testing.T) {
	n, err := ParsePartNumber("042-C-00017")
	if err != nil {
		t.Fatalf("ParsePartNumber failed: %v", err)
	}
	if n.RobotID != 42 || n.TypeTag != "C" || n.Sequence != 17 {
		t.Errorf("ParsePartNumber = %+v", n)
	}

	for _, bad := range []string{"", "042", "042-C", "042-CC-00017", "042-C-00017-x", "abc-C-00017", "042-C-xyz"} {
		if _, err := ParsePartNumber(bad); err == nil {
			t.Errorf("ParsePartNumber(%q) succeeded, want error", bad)
		}
	}
}

func TestPartNumberRoundTrip(t *testing.T) {
	orig := PartNumber{RobotID: 7, TypeTag: "M", Sequence: 301}
	parsed, err := ParsePartNumber(orig.String())
	if err != nil {
		t.Fatalf("round trip failed: %v", err)
	}
	if parsed != orig {
		t.Errorf("round trip = %+v, want %+v", parsed, orig)
	}
}

func TestPartSentinels(t *testing.T) {
	root := &RobotPart{ParentSeq: RootParent}
	if !root.IsRoot() || root.IsDeleted() {
		t.Error("RootParent part should be root and not deleted")
	}
	gone := &RobotPart{ParentSeq: TombstoneParent}
	if gone.IsRoot() || !gone.IsDeleted() {
		t.Error("TombstoneParent part should be deleted and not root")
	}
	child := &RobotPart{ParentSeq: 3}
	if child.IsRoot() || child.IsDeleted() {
		t.Error("ordinary child should be neither root nor deleted")
	}
}

func TestPartCloneIsDeep(t *testing.T) {
	p := &RobotPart{
		RobotID:  1,
		Sequence: 2,
		Attrs:    map[string]string{"Vendor": "AndyMark"},
	}
	c := p.Clone()
	c.Attrs["Vendor"] = "REV"
	if p.Attrs["Vendor"] != "AndyMark" {
		t.Error("Clone shares the attribute map with the original")
	}
}
