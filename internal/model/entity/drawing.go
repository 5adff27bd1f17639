package entity

import "time"

// PartDrawing is a versioned drawing file attached to a part. The file body
// lives in object storage under ObjectKey; this row is the metadata.
type PartDrawing struct {
	ID         string    `json:"id" gorm:"primaryKey;size:32"`
	RobotID    int       `json:"robot_id" gorm:"not null;index:idx_drawing_part"`
	Sequence   int       `json:"sequence" gorm:"not null;index:idx_drawing_part"`
	Version    int       `json:"version" gorm:"not null"`
	FileName   string    `json:"file_name" gorm:"size:256;not null"`
	ObjectKey  string    `json:"-" gorm:"size:512;not null"`
	Size       int64     `json:"size"`
	UploadedBy string    `json:"uploaded_by" gorm:"size:64;not null"`
	CreatedAt  time.Time `json:"created_at"`
}

func (PartDrawing) TableName() string {
	return "part_drawings"
}
