package entity

import (
	"strings"
	"time"
)

// Role codes. Roles gate workflow edges; Admin bypasses all edge gating.
const (
	RoleStudent = "student"
	RoleMentor  = "mentor"
)

// User is an already-authenticated identity. This service never verifies
// credentials; the JWT middleware resolves tokens minted by the auth service
// into a User and the core only authorizes against it.
type User struct {
	Username  string     `json:"username" gorm:"primaryKey;size:64"`
	Name      string     `json:"name" gorm:"size:128;not null"`
	Email     string     `json:"email" gorm:"size:128;uniqueIndex"`
	Roles     string     `json:"-" gorm:"size:256"`
	IsAdmin   bool       `json:"is_admin" gorm:"not null;default:false"`
	Status    string     `json:"status" gorm:"size:16;not null;default:active"`
	LastLogin *time.Time `json:"last_login"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	RoleCodes []string `json:"roles" gorm:"-"`
}

func (User) TableName() string {
	return "users"
}

// UserStatus values.
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// HasRole reports whether the user carries the given role code.
func (u *User) HasRole(code string) bool {
	for _, r := range u.RoleList() {
		if r == code {
			return true
		}
	}
	return false
}

// RoleList returns the role codes, preferring the hydrated slice over the
// packed column.
func (u *User) RoleList() []string {
	if u.RoleCodes != nil {
		return u.RoleCodes
	}
	if u.Roles == "" {
		return nil
	}
	return strings.Split(u.Roles, ",")
}

// PackRoles stores the slice form back into the persisted column.
func (u *User) PackRoles() {
	u.Roles = strings.Join(u.RoleCodes, ",")
}
