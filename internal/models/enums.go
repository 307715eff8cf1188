package models

import (
	"fmt"
	"strings"
	"time"
)

type WorkOrderType string

const (
	WorkOrderPreventive WorkOrderType = "PREVENTIVE"
	WorkOrderCorrective WorkOrderType = "CORRECTIVE"
	WorkOrderInspection WorkOrderType = "INSPECTION"
)

func (t WorkOrderType) Label() string {
	switch t {
	case WorkOrderPreventive:
		return "Preventive"
	case WorkOrderCorrective:
		return "Corrective"
	case WorkOrderInspection:
		return "Inspection"
	}
	return ""
}

type WorkOrderStatus string

const (
	StatusOpen       WorkOrderStatus = "OPEN"
	StatusInProgress WorkOrderStatus = "IN_PROGRESS"
	StatusOnHold     WorkOrderStatus = "ON_HOLD"
	StatusCompleted  WorkOrderStatus = "COMPLETED"
	StatusCancelled  WorkOrderStatus = "CANCELLED"
	StatusClosed     WorkOrderStatus = "CLOSED"
)

type SeverityLevel string

const (
	SeverityLow      SeverityLevel = "LOW"
	SeverityMedium   SeverityLevel = "MEDIUM"
	SeverityHigh     SeverityLevel = "HIGH"
	SeverityCritical SeverityLevel = "CRITICAL"
)

type ItemType string

const (
	ItemFreeText ItemType = "FREE_TEXT"
	ItemYesNo    ItemType = "YES_NO"
	ItemPassFail ItemType = "PASS_FAIL"
	ItemDropdown ItemType = "DROPDOWN"
	ItemNumeric  ItemType = "NUMERIC"
)

type ChecklistItemStatus string

const (
	ChecklistNotStarted ChecklistItemStatus = "NOT_STARTED"
	ChecklistCompleted  ChecklistItemStatus = "COMPLETED"
)

func (s ChecklistItemStatus) Valid() bool {
	return s == "" || s == ChecklistNotStarted || s == ChecklistCompleted
}

type PartStatus string

const (
	PartAvailable   PartStatus = "AVAILABLE"
	PartUnavailable PartStatus = "UNAVAILABLE"
	PartCollected   PartStatus = "COLLECTED"
	PartReturned    PartStatus = "RETURNED"
)

func (s PartStatus) Valid() bool {
	switch s {
	case "", PartAvailable, PartUnavailable, PartCollected, PartReturned:
		return true
	}
	return false
}

// WorkItemType distinguishes the two kinds of assignable work.
type WorkItemType string

const (
	WorkItemWorkOrder WorkItemType = "WORKORDER"
	WorkItemCase      WorkItemType = "CASE"
)

func ParseWorkItemType(s string) (WorkItemType, error) {
	switch t := WorkItemType(strings.ToUpper(strings.TrimSpace(s))); t {
	case WorkItemWorkOrder, WorkItemCase:
		return t, nil
	}
	return "", fmt.Errorf("unknown work item type %q", s)
}

type WorkItemDetailType string

const (
	DetailPreventive WorkItemDetailType = "PREVENTIVE"
	DetailCorrective WorkItemDetailType = "CORRECTIVE"
	DetailInspection WorkItemDetailType = "INSPECTION"
)

type DateFilter string

const (
	DateToday    DateFilter = "TODAY"
	DateTomorrow DateFilter = "TOMORROW"
	DateWeek     DateFilter = "WEEK"
)

func ParseDateFilter(s string) (DateFilter, error) {
	switch f := DateFilter(strings.ToUpper(strings.TrimSpace(s))); f {
	case DateToday, DateTomorrow, DateWeek:
		return f, nil
	}
	return "", fmt.Errorf("unknown date filter %q", s)
}

// DueDate is the inclusive calendar day the filter reaches, relative to now.
func (f DateFilter) DueDate(now time.Time) time.Time {
	y, m, d := now.Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	switch f {
	case DateTomorrow:
		return today.AddDate(0, 0, 1)
	case DateWeek:
		return today.AddDate(0, 0, 7)
	default:
		return today
	}
}

type CommentType string

const (
	CommentText  CommentType = "TEXT"
	CommentImage CommentType = "IMAGE"
	CommentMedia CommentType = "MEDIA"
	CommentVoice CommentType = "VOICE"
)
