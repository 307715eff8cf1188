package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit holds the bookkeeping columns shared by tenant-owned tables.
type Audit struct {
	CreatedAt time.Time `gorm:"not null"   json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedBy string    `json:"created_by,omitempty"`
	UpdatedBy string    `json:"updated_by,omitempty"`
	TenantID  uuid.UUID `gorm:"type:uuid;index;not null" json:"tenant_id"`
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(tx *gorm.DB) error { ensureID(&u.ID); return nil }
func (t *Team) BeforeCreate(tx *gorm.DB) error { ensureID(&t.ID); return nil }
func (s *Shift) BeforeCreate(tx *gorm.DB) error { ensureID(&s.ID); return nil }
func (s *UserSession) BeforeCreate(tx *gorm.DB) error { ensureID(&s.ID); return nil }
func (s *TenantSettings) BeforeCreate(tx *gorm.DB) error { ensureID(&s.ID); return nil }
func (r *Role) BeforeCreate(tx *gorm.DB) error { ensureID(&r.ID); return nil }
func (p *Permission) BeforeCreate(tx *gorm.DB) error { ensureID(&p.ID); return nil }
func (w *WorkOrder) BeforeCreate(tx *gorm.DB) error { ensureID(&w.ID); return nil }
func (c *Case) BeforeCreate(tx *gorm.DB) error { ensureID(&c.ID); return nil }
func (c *CaseStatus) BeforeCreate(tx *gorm.DB) error { ensureID(&c.ID); return nil }
func (t *Task) BeforeCreate(tx *gorm.DB) error { ensureID(&t.ID); return nil }
func (c *ChecklistItem) BeforeCreate(tx *gorm.DB) error { ensureID(&c.ID); return nil }
func (p *WorkOrderPart) BeforeCreate(tx *gorm.DB) error { ensureID(&p.ID); return nil }
func (a *Asset) BeforeCreate(tx *gorm.DB) error { ensureID(&a.ID); return nil }

// All lists every model, in dependency order, for AutoMigrate.
func All() []any {
	return []any{
		&Permission{}, &Role{}, &TenantSettings{}, &UserSession{},
		&Shift{}, &User{}, &Team{},
		&Priority{}, &Asset{}, &WorkOrder{}, &Task{}, &ChecklistItem{}, &WorkOrderPart{},
		&CaseStatus{}, &Case{},
	}
}
