package models

import (
	"time"

	"github.com/google/uuid"
)

type Priority struct {
	Code     string    `gorm:"primaryKey"                  json:"code"`
	TenantID uuid.UUID `gorm:"type:uuid;primaryKey"        json:"tenant_id"`
	Name     string    `gorm:"not null"                    json:"name"`
}

func (Priority) TableName() string { return "priority" }

type Asset struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	AssetID           string    `gorm:"index"               json:"asset_id"`
	Name              string    `json:"name"`
	LocationID        string    `json:"location_id,omitempty"`
	LocationName      string    `json:"location_name,omitempty"`
	LocationHierarchy string    `json:"location_hierarchy,omitempty"`
	Audit
}

func (Asset) TableName() string { return "assets" }

type WorkOrder struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey"       json:"id"`
	Title          string          `gorm:"not null"                   json:"title"`
	Code           string          `gorm:"index"                      json:"code"`
	Type           WorkOrderType   `gorm:"size:20"                    json:"type"`
	PriorityCode   string          `gorm:"column:priority"            json:"priority"`
	DueDate        *time.Time      `json:"due_date,omitempty"`
	AssetID        *uuid.UUID      `gorm:"type:uuid"                  json:"asset_id,omitempty"`
	AssetName      string          `json:"asset_name,omitempty"`
	LocationID     *uuid.UUID      `gorm:"type:uuid"                  json:"location_id,omitempty"`
	LocationName   string          `json:"location_name,omitempty"`
	IsActive       bool            `gorm:"not null"                   json:"is_active"`
	AssignedTo     *uuid.UUID      `gorm:"type:uuid;index"            json:"assigned_to,omitempty"`
	AssignedToName string          `json:"assigned_to_name,omitempty"`
	Status         WorkOrderStatus `gorm:"size:20;not null"           json:"status"`
	Tasks          []Task          `gorm:"foreignKey:WorkOrderID"     json:"-"`
	Audit
}

func (WorkOrder) TableName() string { return "wo_work_order" }

type CaseStatus struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"     json:"id"`
	Code     string    `gorm:"not null"                 json:"code"`
	Name     string    `json:"name,omitempty"`
	TenantID uuid.UUID `gorm:"type:uuid;index"          json:"tenant_id"`
}

func (CaseStatus) TableName() string { return "case_statuses" }

type Case struct {
	ID           uuid.UUID     `gorm:"type:uuid;primaryKey"  json:"id"`
	CaseCode     string        `gorm:"index"                 json:"case_code"`
	Title        string        `gorm:"not null"              json:"title"`
	Severity     SeverityLevel `gorm:"size:20"               json:"severity"`
	Location     string        `json:"location,omitempty"`
	LocationPath string        `json:"location_path,omitempty"`
	AssetID      string        `json:"asset_id,omitempty"`
	AssetName    string        `json:"asset_name,omitempty"`
	AssetModel   string        `json:"asset_model,omitempty"`
	AssignedTo   *uuid.UUID    `gorm:"type:uuid;index"       json:"assigned_to,omitempty"`
	StatusID     *uuid.UUID    `gorm:"type:uuid"             json:"status_id,omitempty"`
	ReportedDate *time.Time    `json:"reported_date,omitempty"`
	DueBy        *time.Time    `json:"due_by,omitempty"`
	IsDeleted    bool          `gorm:"not null"              json:"is_deleted"`
	Audit
}

func (Case) TableName() string { return "cases" }

type Task struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"       json:"id"`
	Sequence        int             `json:"sequence"`
	Name            string          `json:"name"`
	Title           string          `json:"title,omitempty"`
	Description     string          `json:"description,omitempty"`
	Status          string          `json:"status,omitempty"`
	Assignee        *uuid.UUID      `gorm:"type:uuid"                  json:"assignee,omitempty"`
	Instructions    string          `json:"instructions,omitempty"`
	DurationValue   *int            `json:"duration_value,omitempty"`
	DurationMeasure string          `json:"duration_measure,omitempty"`
	IsRequired      bool            `gorm:"not null"                   json:"is_required"`
	WorkOrderID     uuid.UUID       `gorm:"type:uuid;index;not null"   json:"work_order_id"`
	ChecklistItems  []ChecklistItem `gorm:"foreignKey:TaskID"          json:"-"`
	Audit
}

func (Task) TableName() string { return "wo_task" }

type ChecklistItem struct {
	ID              uuid.UUID           `gorm:"type:uuid;primaryKey"     json:"id"`
	ItemText        string              `json:"item_text"`
	CommentID       *uuid.UUID          `gorm:"type:uuid"                json:"comment_id,omitempty"`
	Status          ChecklistItemStatus `gorm:"size:20"                  json:"status,omitempty"`
	IsRequired      bool                `gorm:"not null"                 json:"is_required"`
	Type            ItemType            `gorm:"size:20"                  json:"type"`
	PossibleOptions string              `json:"possible_options,omitempty"`
	TaskID          uuid.UUID           `gorm:"type:uuid;index;not null" json:"task_id"`
	Audit
}

func (ChecklistItem) TableName() string { return "wo_checklist_item" }

// EffectiveType falls back to FREE_TEXT for rows written without a type.
func (c ChecklistItem) EffectiveType() ItemType {
	if c.Type == "" {
		return ItemFreeText
	}
	return c.Type
}

type WorkOrderPart struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"        json:"id"`
	PartID      *uuid.UUID `gorm:"type:uuid"                   json:"part_id,omitempty"`
	PartCode    string     `json:"part_code"`
	UnitPrice   float64    `json:"unit_price"`
	Quantity    float64    `json:"quantity"`
	TotalCost   float64    `json:"total_cost"`
	Status      PartStatus `gorm:"size:20"                     json:"status,omitempty"`
	WorkOrderID uuid.UUID  `gorm:"type:uuid;index;not null"    json:"work_order_id"`
	Audit
}

func (WorkOrderPart) TableName() string { return "wo_work_order_part" }
