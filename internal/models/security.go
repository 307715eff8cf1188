package models

import (
	"time"

	"github.com/google/uuid"
)

type UserSession struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"        json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"    json:"user_id"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;unique"   json:"session_id"`
	CreatedAt time.Time `gorm:"not null"                    json:"created_at"`
	Active    bool      `gorm:"not null"                    json:"active"`
}

func (UserSession) TableName() string { return "user_sessions" }

type TenantSettings struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"      json:"id"`
	TenantID           uuid.UUID `gorm:"type:uuid;not null;index"  json:"tenant_id"`
	Locale             string    `gorm:"size:10"                   json:"locale,omitempty"`
	Timezone           string    `gorm:"size:50"                   json:"timezone,omitempty"`
	SessionTimeout     string    `json:"session_timeout,omitempty"`
	AdditionalSettings string    `json:"additional_settings,omitempty"`
	MultiDeviceEnabled bool      `gorm:"not null"                  json:"multi_device_enabled"`
	IsDeleted          bool      `gorm:"not null"                  json:"is_deleted"`
	CreatedAt          time.Time `gorm:"not null"                  json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (TenantSettings) TableName() string { return "tenant_settings" }

type Permission struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"   json:"id"`
	Code        string    `gorm:"unique;not null"        json:"code"`
	Name        string    `gorm:"not null"               json:"name"`
	Description string    `json:"description,omitempty"`
}

func (Permission) TableName() string { return "permissions" }

type Role struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey"                json:"id"`
	Code        string       `gorm:"not null;index"                      json:"code"`
	Name        string       `gorm:"not null"                            json:"name"`
	Description string       `json:"description,omitempty"`
	RoleType    string       `gorm:"size:20;not null"                    json:"role_type"`
	Active      bool         `gorm:"not null"                            json:"active"`
	IsDeleted   bool         `gorm:"not null"                            json:"is_deleted"`
	TenantID    uuid.UUID    `gorm:"type:uuid;not null;index"            json:"tenant_id"`
	Permissions []Permission `gorm:"many2many:role_permissions;"         json:"permissions,omitempty"`
}

func (Role) TableName() string { return "roles" }
