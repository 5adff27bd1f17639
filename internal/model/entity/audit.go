package entity

import "time"

// AuditEntry records one changed field of one part edit or transition.
// Writes are fire-and-forget from the core's perspective.
type AuditEntry struct {
	ID          string    `json:"id" gorm:"primaryKey;size:32"`
	PartNumber  string    `json:"part_number" gorm:"size:16;not null;index"`
	Actor       string    `json:"actor" gorm:"size:64;not null"`
	Description string    `json:"description" gorm:"size:256"`
	Change      string    `json:"change" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
}

func (AuditEntry) TableName() string {
	return "audit_entries"
}
