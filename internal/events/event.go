package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	Source  = "whatsapp-service"
	Version = "1.0"
)

type EventType string

const (
	EventCreate             EventType = "CREATE"
	EventUpdate             EventType = "UPDATE"
	EventDelete             EventType = "DELETE"
	EventUploadCompleted    EventType = "UPLOAD_COMPLETED"
	EventDownloadRequested  EventType = "DOWNLOAD_REQUESTED"
	EventVirusScanCompleted EventType = "VIRUS_SCAN_COMPLETED"
	EventVirusScanFailed    EventType = "VIRUS_SCAN_FAILED"
	EventAssetArchived      EventType = "ASSET_ARCHIVED"
	EventAssetRestored      EventType = "ASSET_RESTORED"
)

// Entity types carried in events emitted by this service.
const (
	EntityLabourHours   = "LABOUR_HOURS"
	EntityAssetRating   = "ASSET_RATING"
	EntityComment       = "COMMENT"
	EntityWorkOrderPart = "WORK_ORDER_PART"
	EntityChecklistItem = "CHECKLIST_ITEM"
)

type BaseEvent struct {
	EventID           string    `json:"eventId"`
	EventType         EventType `json:"eventType"`
	EntityType        string    `json:"entityType"`
	EntityID          string    `json:"entityId"`
	CorrelationID     string    `json:"correlationId,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
	Source            string    `json:"source"`
	Version           string    `json:"version"`
	EventData         any       `json:"eventData,omitempty"`
	PreviousEventData any       `json:"previousEventData,omitempty"`
}

func NewEvent(eventType EventType, entityType, entityID, correlationID string, data any) BaseEvent {
	return BaseEvent{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EntityType:    entityType,
		EntityID:      entityID,
		CorrelationID: correlationID,
		Timestamp:     time.Now().UTC(),
		Source:        Source,
		Version:       Version,
		EventData:     data,
	}
}
