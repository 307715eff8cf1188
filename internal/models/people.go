package models

import (
	"github.com/google/uuid"
)

type User struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"   json:"id"`
	FirstName         string     `json:"first_name"`
	LastName          string     `json:"last_name"`
	PhoneNumber       string     `gorm:"index"                  json:"phone_number"`
	IsShiftSupervisor bool       `gorm:"not null"               json:"is_shift_supervisor"`
	ShiftID           *uuid.UUID `gorm:"type:uuid"              json:"shift_id,omitempty"`
	Shift             *Shift     `json:"shift,omitempty"`
	IsDeleted         bool       `gorm:"not null"               json:"is_deleted"`
	Enabled           bool       `gorm:"not null"               json:"enabled"`
	Audit
}

func (User) TableName() string { return "users" }

// FullName joins the non-empty name parts with a space.
func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}

type Shift struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	Name     string    `json:"name,omitempty"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"  json:"tenant_id"`
}

func (Shift) TableName() string { return "shifts" }

type Team struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Description string    `json:"description,omitempty"`
	Active      bool      `gorm:"not null"                 json:"active"`
	Users       []User    `gorm:"many2many:team_members;"  json:"-"`
	Audit
}

func (Team) TableName() string { return "teams" }
