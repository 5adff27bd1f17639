package repository

import (
	"errors"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("record not found")

// Repositories is the aggregate handed to the service layer.
type Repositories struct {
	Robot   *RobotRepository
	Part    *PartRepository
	User    *UserRepository
	Audit   *AuditRepository
	Drawing *DrawingRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Robot:   NewRobotRepository(db),
		Part:    NewPartRepository(db),
		User:    NewUserRepository(db),
		Audit:   NewAuditRepository(db),
		Drawing: NewDrawingRepository(db),
	}
}
