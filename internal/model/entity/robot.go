package entity

import (
	"time"
)

// Robot is the aggregate root owning a flat set of RobotPart rows. Its
// top-level assemblies are the parts whose parent sequence is RootParent;
// they are created in the same transaction as the robot row.
type Robot struct {
	ID          int       `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:128;not null;uniqueIndex"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedBy   string    `json:"created_by" gorm:"size:64;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	TopLevel []RobotPart `json:"top_level,omitempty" gorm:"-"`
}

func (Robot) TableName() string {
	return "robots"
}
