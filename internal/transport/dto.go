package transport

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mohit-mindspick/whatsapp/internal/models"
)

// ValidationError carries the first failed rule of a request body.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func invalid(msg string) error { return &ValidationError{Message: msg} }

const (
	msgPhoneNumberRequired     = "Phone number is required"
	msgWorkItemIDRequired      = "Work Item ID is required"
	msgUserIDRequired          = "User ID is required"
	msgTimeInHoursRequired     = "Time in hours is required"
	msgTimeInHoursPositive     = "Time in hours must be positive"
	msgWorkOrderIDRequired     = "Work Order ID is required"
	msgPartIDRequired          = "Part ID is required"
	msgQuantityRequired        = "Quantity is required"
	msgQuantityPositive        = "Quantity must be positive"
	msgAssetIDRequired         = "Asset ID is required"
	msgRatingRequired          = "Rating is required"
	msgRatingMin               = "Rating must be at least 1"
	msgRatingMax               = "Rating must be at most 5"
	msgTaskIDRequired          = "Task ID is required"
	msgChecklistItemsRequired  = "Checklist items list cannot be empty"
	msgChecklistItemIDRequired = "Checklist item ID is required"
	msgChecklistStatusInvalid  = "Checklist item status is invalid"
	msgWorkOrderPartIDRequired = "Work order part ID is required"
	msgPartStatusInvalid       = "Part status is invalid"
	msgPartsRequired           = "Parts list cannot be empty"
	msgCommentContentRequired  = "Comment content is required"
	msgDocumentURLRequired     = "URL is required"
	msgDocumentURLTooLong      = "URL must not exceed 2048 characters"
	msgDocumentNameRequired    = "Name is required"
	msgDocumentNameTooLong     = "Name must not exceed 255 characters"
	msgDocumentMimeRequired    = "MIME type is required"
	msgDocumentMimeTooLong     = "MIME type must not exceed 100 characters"
	msgContentTooLong          = "Content must not exceed 10000 characters"
)

// Requests

type LogHoursRequest struct {
	WorkItemID  uuid.UUID `json:"work_item_id"`
	UserID      uuid.UUID `json:"user_id"`
	TimeInHours *float64  `json:"time_in_hours"`
}

func (r *LogHoursRequest) Validate() error {
	switch {
	case r.WorkItemID == uuid.Nil:
		return invalid(msgWorkItemIDRequired)
	case r.UserID == uuid.Nil:
		return invalid(msgUserIDRequired)
	case r.TimeInHours == nil:
		return invalid(msgTimeInHoursRequired)
	case *r.TimeInHours <= 0:
		return invalid(msgTimeInHoursPositive)
	}
	return nil
}

type SaveAssetRatingRequest struct {
	WorkOrderID uuid.UUID `json:"work_order_id"`
	UserID      uuid.UUID `json:"user_id"`
	AssetID     uuid.UUID `json:"asset_id"`
	Rating      *int      `json:"rating"`
}

func (r *SaveAssetRatingRequest) Validate() error {
	switch {
	case r.WorkOrderID == uuid.Nil:
		return invalid(msgWorkOrderIDRequired)
	case r.UserID == uuid.Nil:
		return invalid(msgUserIDRequired)
	case r.AssetID == uuid.Nil:
		return invalid(msgAssetIDRequired)
	case r.Rating == nil:
		return invalid(msgRatingRequired)
	case *r.Rating < 1:
		return invalid(msgRatingMin)
	case *r.Rating > 5:
		return invalid(msgRatingMax)
	}
	return nil
}

type ExternalDocument struct {
	URL      string `json:"url"`
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
}

func (d *ExternalDocument) Validate() error {
	switch {
	case d.URL == "":
		return invalid(msgDocumentURLRequired)
	case len(d.URL) > 2048:
		return invalid(msgDocumentURLTooLong)
	case d.Name == "":
		return invalid(msgDocumentNameRequired)
	case len(d.Name) > 255:
		return invalid(msgDocumentNameTooLong)
	case d.MimeType == "":
		return invalid(msgDocumentMimeRequired)
	case len(d.MimeType) > 100:
		return invalid(msgDocumentMimeTooLong)
	}
	return nil
}

type AddCommentRequest struct {
	Content   string             `json:"content"`
	Documents []ExternalDocument `json:"documents"`
}

func (r *AddCommentRequest) Validate() error {
	if isBlank(r.Content) {
		return invalid(msgCommentContentRequired)
	}
	if len(r.Content) > 10000 {
		return invalid(msgContentTooLong)
	}
	for i := range r.Documents {
		if err := r.Documents[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

type ChecklistItemResponse struct {
	ID        uuid.UUID                  `json:"id"`
	Response  string                     `json:"response"`
	Status    models.ChecklistItemStatus `json:"status,omitempty"`
	CommentID *uuid.UUID                 `json:"comment_id,omitempty"`
}

type SaveChecklistItemsRequest struct {
	WorkOrderID    uuid.UUID               `json:"work_order_id"`
	TaskID         uuid.UUID               `json:"task_id"`
	ChecklistItems []ChecklistItemResponse `json:"checklist_items"`
}

func (r *SaveChecklistItemsRequest) Validate() error {
	switch {
	case r.WorkOrderID == uuid.Nil:
		return invalid(msgWorkOrderIDRequired)
	case r.TaskID == uuid.Nil:
		return invalid(msgTaskIDRequired)
	case len(r.ChecklistItems) == 0:
		return invalid(msgChecklistItemsRequired)
	}
	for _, item := range r.ChecklistItems {
		if item.ID == uuid.Nil {
			return invalid(msgChecklistItemIDRequired)
		}
		if !item.Status.Valid() {
			return invalid(msgChecklistStatusInvalid)
		}
	}
	return nil
}

type WorkOrderPartUpdate struct {
	ID       uuid.UUID         `json:"work_order_part_id"`
	PartID   uuid.UUID         `json:"part_id"`
	Quantity *float64          `json:"quantity"`
	Status   models.PartStatus `json:"status,omitempty"`
}

func (p *WorkOrderPartUpdate) Validate() error {
	switch {
	case p.ID == uuid.Nil:
		return invalid(msgWorkOrderPartIDRequired)
	case p.PartID == uuid.Nil:
		return invalid(msgPartIDRequired)
	}
	if err := positiveQuantity(p.Quantity); err != nil {
		return err
	}
	if !p.Status.Valid() {
		return invalid(msgPartStatusInvalid)
	}
	return nil
}

// ValidateParts checks an update-parts body.
func ValidateParts(parts []WorkOrderPartUpdate) error {
	if len(parts) == 0 {
		return invalid(msgPartsRequired)
	}
	for i := range parts {
		if err := parts[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// PartMovementRequest is the body of both part return and part collect.
type PartMovementRequest struct {
	WorkOrderID uuid.UUID `json:"work_order_id"`
	PartID      uuid.UUID `json:"part_id"`
	Quantity    *float64  `json:"quantity"`
}

func (r *PartMovementRequest) Validate() error {
	switch {
	case r.WorkOrderID == uuid.Nil:
		return invalid(msgWorkOrderIDRequired)
	case r.PartID == uuid.Nil:
		return invalid(msgPartIDRequired)
	}
	return positiveQuantity(r.Quantity)
}

// ValidatePhone checks the phoneNumber query parameter.
func ValidatePhone(phone string) error {
	if isBlank(phone) {
		return invalid(msgPhoneNumberRequired)
	}
	return nil
}

func positiveQuantity(q *float64) error {
	if q == nil {
		return invalid(msgQuantityRequired)
	}
	if *q <= 0 {
		return invalid(msgQuantityPositive)
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Responses

type MyWorkDTO struct {
	ID       uuid.UUID `json:"id"`
	Code     string    `json:"code"`
	Name     string    `json:"name"`
	Priority string    `json:"priority"`
	Type     string    `json:"type"`
}

type WorkItemDetailDTO struct {
	WorkItemID   uuid.UUID                 `json:"workItemId"`
	WorkItemName string                    `json:"workItemName"`
	Priority     *string                   `json:"priority"`
	Category     *string                   `json:"category"`
	AssetID      *uuid.UUID                `json:"assetId"`
	AssetName    string                    `json:"assetName"`
	LocationID   *uuid.UUID                `json:"locationId"`
	LocationName string                    `json:"locationName"`
	Type         models.WorkItemDetailType `json:"type,omitempty"`
	TaskCount    int                       `json:"taskCount"`
	Status       *string                   `json:"status"`
	DueDate      *time.Time                `json:"dueDate"`
}

type TaskDTO struct {
	TaskID      uuid.UUID `json:"taskId"`
	Sequence    int       `json:"sequence"`
	Name        string    `json:"name"`
	Instruction string    `json:"instruction"`
	Duration    *int      `json:"duration"`
}

type WorkItemTasksDTO struct {
	Tasks     []TaskDTO `json:"tasks"`
	TotalTask int       `json:"totalTask"`
}

type ChecklistItemDTO struct {
	ID              uuid.UUID       `json:"id"`
	ItemText        string          `json:"item_text"`
	CommentID       *uuid.UUID      `json:"comment_id"`
	Type            models.ItemType `json:"type"`
	PossibleOptions string          `json:"possible_options"`
}

type TaskChecklistDTO struct {
	ID               uuid.UUID          `json:"id"`
	Sequence         int                `json:"sequence"`
	CountOfChecklist int                `json:"countOfChecklist"`
	ChecklistItems   []ChecklistItemDTO `json:"checklistItems"`
}

type PartDTO struct {
	WorkOrderPartID uuid.UUID         `json:"workOrderPartId"`
	PartID          *uuid.UUID        `json:"partId"`
	PartCode        string            `json:"partCode"`
	Quantity        float64           `json:"quantity"`
	Status          models.PartStatus `json:"status"`
}

type UserDTO struct {
	FirstName string  `json:"firstName"`
	LastName  string  `json:"lastName"`
	TeamName  *string `json:"teamName"`
}

type SupervisorDTO struct {
	SupervisorID uuid.UUID `json:"supervisorId"`
	Name         string    `json:"name"`
	Contact      string    `json:"contact"`
}
