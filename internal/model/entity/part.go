package entity

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parent sequence sentinels. A part whose parent sequence is RootParent is a
// top-level assembly of its robot. Deleting a part re-parents it (and thereby
// its whole branch) to TombstoneParent; rows are never physically removed.
const (
	RootParent      = 0
	TombstoneParent = -1
)

// PartNumber identifies a part within a robot. The canonical textual form is
// RRR-T-SSSSS, e.g. "042-C-00017". The legacy robot+sequence-only encoding is
// not emitted or accepted anywhere.
type PartNumber struct {
	RobotID  int    `json:"robot"`
	TypeTag  string `json:"type"`
	Sequence int    `json:"sequence"`
}

func (n PartNumber) String() string {
	return fmt.Sprintf("%03d-%s-%05d", n.RobotID, n.TypeTag, n.Sequence)
}

// ParsePartNumber parses the canonical RRR-T-SSSSS form.
func ParsePartNumber(s string) (PartNumber, error) {
	fields := strings.Split(s, "-")
	if len(fields) != 3 || len(fields[1]) != 1 {
		return PartNumber{}, fmt.Errorf("malformed part number %q", s)
	}
	robot, err := strconv.Atoi(fields[0])
	if err != nil {
		return PartNumber{}, fmt.Errorf("malformed part number %q", s)
	}
	seq, err := strconv.Atoi(fields[2])
	if err != nil {
		return PartNumber{}, fmt.Errorf("malformed part number %q", s)
	}
	return PartNumber{RobotID: robot, TypeTag: fields[1], Sequence: seq}, nil
}

// RobotPart is one node of a robot's bill-of-materials tree. The attribute
// map is persisted packed into the Attributes text column; the repository
// layer encodes/decodes it and fills schema defaults on load.
type RobotPart struct {
	RobotID   int    `json:"robot_id" gorm:"primaryKey"`
	Sequence  int    `json:"sequence" gorm:"primaryKey"`
	ParentSeq int    `json:"parent_seq" gorm:"not null;index"`
	TypeTag   string `json:"type" gorm:"size:1;not null"`
	State     string `json:"state" gorm:"size:32;not null"`
	Quantity  int    `json:"quantity" gorm:"not null;default:1"`

	Description string `json:"description" gorm:"size:256"`
	Student     string `json:"student" gorm:"size:64"`
	Mentor      string `json:"mentor" gorm:"size:64"`

	Attributes string            `json:"-" gorm:"type:text"`
	Attrs      map[string]string `json:"attrs" gorm:"-"`

	CreatedBy string    `json:"created_by" gorm:"size:64;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (RobotPart) TableName() string {
	return "robot_parts"
}

// Number returns the part's identity.
func (p *RobotPart) Number() PartNumber {
	return PartNumber{RobotID: p.RobotID, TypeTag: p.TypeTag, Sequence: p.Sequence}
}

// IsRoot reports whether the part is a top-level assembly.
func (p *RobotPart) IsRoot() bool {
	return p.ParentSeq == RootParent
}

// IsDeleted reports whether the part has been re-parented to the tombstone.
func (p *RobotPart) IsDeleted() bool {
	return p.ParentSeq == TombstoneParent
}

// Clone returns a deep copy, used for snapshot-and-diff transitions.
func (p *RobotPart) Clone() *RobotPart {
	c := *p
	c.Attrs = make(map[string]string, len(p.Attrs))
	for k, v := range p.Attrs {
		c.Attrs[k] = v
	}
	return &c
}
