package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mohit-mindspick/whatsapp/internal/client"
	"github.com/mohit-mindspick/whatsapp/internal/db"
	"github.com/mohit-mindspick/whatsapp/internal/events"
	"github.com/mohit-mindspick/whatsapp/internal/models"
	"github.com/mohit-mindspick/whatsapp/internal/repo"
	"github.com/mohit-mindspick/whatsapp/internal/transport"
)

const sourceService = "whatsapp"

type WorkStore interface {
	MyWork(ctx context.Context, phone string, due time.Time, tenantID uuid.UUID) ([]repo.MyWorkRow, error)
	WorkOrderByID(ctx context.Context, id, tenantID uuid.UUID) (*models.WorkOrder, error)
	WorkOrderByAnyTenant(ctx context.Context, id uuid.UUID) (*models.WorkOrder, error)
	CountTasks(ctx context.Context, workOrderID uuid.UUID) (int64, error)
	PriorityName(ctx context.Context, code string, tenantID uuid.UUID) (string, error)
	CaseByID(ctx context.Context, id, tenantID uuid.UUID) (*models.Case, error)
	TasksByWorkOrder(ctx context.Context, workOrderID, tenantID uuid.UUID) ([]models.Task, error)
}

// WorkOrderService serves work item reads from the local store and relays
// work order mutations to the sibling services.
type WorkOrderService struct {
	Store      WorkStore
	WorkOrders Sibling
	Documents  Sibling
	Comments   Sibling
	Events     *events.Emitter
	Now        func() time.Time
}

func (s *WorkOrderService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *WorkOrderService) ViewMyWork(ctx context.Context, tenantID uuid.UUID, phone string, filter models.DateFilter) ([]transport.MyWorkDTO, error) {
	rows, err := s.Store.MyWork(db.WithReadOnly(ctx), phone, filter.DueDate(s.now()), tenantID)
	if err != nil {
		return nil, fmt.Errorf("my work: %w", err)
	}
	out := make([]transport.MyWorkDTO, 0, len(rows))
	for _, r := range rows {
		out = append(out, transport.MyWorkDTO{
			ID:       r.ID,
			Code:     r.Code,
			Name:     r.Title,
			Priority: r.Importance,
			Type:     r.Type,
		})
	}
	return out, nil
}

func (s *WorkOrderService) Detail(ctx context.Context, tenantID, workItemID uuid.UUID, itemType string) (*transport.WorkItemDetailDTO, error) {
	t, err := models.ParseWorkItemType(itemType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidItemType, err)
	}
	ctx = db.WithReadOnly(ctx)
	if t == models.WorkItemCase {
		return s.caseDetail(ctx, tenantID, workItemID)
	}
	return s.workOrderDetail(ctx, tenantID, workItemID)
}

func (s *WorkOrderService) workOrderDetail(ctx context.Context, tenantID, id uuid.UUID) (*transport.WorkItemDetailDTO, error) {
	wo, err := s.Store.WorkOrderByID(ctx, id, tenantID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, notFoundf("Work order not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load work order: %w", err)
	}

	var priority *string
	if wo.PriorityCode != "" {
		name, err := s.Store.PriorityName(ctx, wo.PriorityCode, tenantID)
		switch {
		case err == nil:
			priority = &name
		case !errors.Is(err, repo.ErrNotFound):
			return nil, fmt.Errorf("load priority: %w", err)
		}
	}

	count, err := s.Store.CountTasks(ctx, wo.ID)
	if err != nil {
		return nil, fmt.Errorf("count tasks: %w", err)
	}

	detailType := models.DetailCorrective
	if wo.Type == models.WorkOrderPreventive {
		detailType = models.DetailPreventive
	}

	return &transport.WorkItemDetailDTO{
		WorkItemID:   wo.ID,
		WorkItemName: wo.Title,
		Priority:     priority,
		Category:     nonEmpty(wo.Type.Label()),
		AssetID:      wo.AssetID,
		AssetName:    wo.AssetName,
		LocationID:   wo.LocationID,
		LocationName: wo.LocationName,
		Type:         detailType,
		TaskCount:    int(count),
		Status:       nonEmpty(string(wo.Status)),
		DueDate:      wo.DueDate,
	}, nil
}

func (s *WorkOrderService) caseDetail(ctx context.Context, tenantID, id uuid.UUID) (*transport.WorkItemDetailDTO, error) {
	c, err := s.Store.CaseByID(ctx, id, tenantID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, notFoundf("Case not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load case: %w", err)
	}

	var assetID *uuid.UUID
	if parsed, err := uuid.Parse(c.AssetID); err == nil {
		assetID = &parsed
	}
	category := string(models.WorkItemCase)

	return &transport.WorkItemDetailDTO{
		WorkItemID:   c.ID,
		WorkItemName: c.Title,
		Priority:     nonEmpty(string(c.Severity)),
		Category:     &category,
		AssetID:      assetID,
		AssetName:    c.AssetName,
		LocationName: c.Location,
		TaskCount:    0,
		DueDate:      c.DueBy,
	}, nil
}

func (s *WorkOrderService) Tasks(ctx context.Context, tenantID, workOrderID uuid.UUID) (transport.WorkItemTasksDTO, error) {
	tasks, err := s.Store.TasksByWorkOrder(db.WithReadOnly(ctx), workOrderID, tenantID)
	if err != nil {
		return transport.WorkItemTasksDTO{}, fmt.Errorf("load tasks: %w", err)
	}
	out := transport.WorkItemTasksDTO{Tasks: make([]transport.TaskDTO, 0, len(tasks)), TotalTask: len(tasks)}
	for _, t := range tasks {
		name := t.Name
		if name == "" {
			name = t.Title
		}
		out.Tasks = append(out.Tasks, transport.TaskDTO{
			TaskID:      t.ID,
			Sequence:    t.Sequence,
			Name:        name,
			Instruction: t.Instructions,
			Duration:    t.DurationValue,
		})
	}
	return out, nil
}

// LogHours resolves the work order code and relays the hours to the work
// order service.
func (s *WorkOrderService) LogHours(ctx context.Context, caller client.Caller, req transport.LogHoursRequest) (*client.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	wo, err := s.Store.WorkOrderByAnyTenant(db.WithReadOnly(ctx), req.WorkItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, notFoundf("Work order not found: %s", req.WorkItemID)
	}
	if err != nil {
		return nil, fmt.Errorf("load work order: %w", err)
	}

	body := map[string]any{
		"user_id":       req.UserID,
		"hours_logged":  *req.TimeInHours,
		"workOrderCode": wo.Code,
	}
	resp, err := s.WorkOrders.Post(ctx, "/api/v1/workorders/"+segment(wo.Code)+"/log-hours", body, caller)
	if err != nil {
		return nil, upstream("log hours", err)
	}
	if resp.OK() {
		s.Events.Emit(ctx, events.NewEvent(events.EventCreate, events.EntityLabourHours, wo.ID.String(), caller.CorrelationID, body))
	}
	return resp, nil
}

func (s *WorkOrderService) SaveAssetRating(ctx context.Context, caller client.Caller, req transport.SaveAssetRatingRequest) (*client.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	body := map[string]any{
		"work_order_id": req.WorkOrderID,
		"user_id":       req.UserID,
		"asset_id":      req.AssetID,
		"rating":        *req.Rating,
	}
	resp, err := s.WorkOrders.Post(ctx, "/api/v1/workorders/asset-rating", body, caller)
	if err != nil {
		return nil, upstream("save asset rating", err)
	}
	if resp.OK() {
		s.Events.Emit(ctx, events.NewEvent(events.EventCreate, events.EntityAssetRating, req.AssetID.String(), caller.CorrelationID, body))
	}
	return resp, nil
}

// AddComment imports the attached documents, creates the comment and links
// it to the work item. A non-2xx answer from any step is returned as is.
func (s *WorkOrderService) AddComment(ctx context.Context, caller client.Caller, workItemID uuid.UUID, itemType string, req transport.AddCommentRequest) (*client.Response, error) {
	t, err := models.ParseWorkItemType(itemType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidItemType, err)
	}
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}

	documentIDs := []string{}
	if len(req.Documents) > 0 {
		resp, ids, err := s.importDocuments(ctx, caller, workItemID, t, req.Documents)
		if err != nil || !resp.OK() {
			return resp, err
		}
		documentIDs = ids
	}

	resp, err := s.Comments.Post(ctx, "/api/v1/comments", map[string]any{
		"content":       req.Content,
		"parentId":      workItemID,
		"parentType":    t,
		"sourceService": sourceService,
		"documentList":  documentIDs,
	}, caller)
	if err != nil {
		return nil, upstream("create comment", err)
	}
	if !resp.OK() {
		return resp, nil
	}
	commentID, ok := stringField(client.Unwrap(resp.Body), "id")
	if !ok {
		return nil, upstream("create comment", errors.New("response carries no comment id"))
	}

	return s.attach(ctx, caller, workItemID, commentID, t, documentIDs)
}

// AttachComment links an existing comment to a work item.
func (s *WorkOrderService) AttachComment(ctx context.Context, caller client.Caller, workItemID uuid.UUID, commentID, itemType string) (*client.Response, error) {
	t, err := models.ParseWorkItemType(itemType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidItemType, err)
	}
	return s.attach(ctx, caller, workItemID, commentID, t, nil)
}

func (s *WorkOrderService) attach(ctx context.Context, caller client.Caller, workItemID uuid.UUID, commentID string, t models.WorkItemType, documentIDs []string) (*client.Response, error) {
	resp, err := s.WorkOrders.Post(ctx, "/api/v1/workorders/"+workItemID.String()+"/comments", map[string]any{
		"workorder_id": workItemID,
		"comment_id":   commentID,
	}, caller)
	if err != nil {
		return nil, upstream("attach comment", err)
	}
	if resp.OK() {
		s.Events.Emit(ctx, events.NewEvent(events.EventCreate, events.EntityComment, commentID, caller.CorrelationID, map[string]any{
			"workItemId":  workItemID,
			"type":        t,
			"documentIds": documentIDs,
		}))
	}
	return resp, nil
}

func (s *WorkOrderService) importDocuments(ctx context.Context, caller client.Caller, parentID uuid.UUID, t models.WorkItemType, docs []transport.ExternalDocument) (*client.Response, []string, error) {
	payload := make([]map[string]any, 0, len(docs))
	for _, d := range docs {
		payload = append(payload, map[string]any{
			"url":         d.URL,
			"name":        d.Name,
			"mime_type":   d.MimeType,
			"parent_type": t,
			"parent_id":   parentID,
		})
	}
	resp, err := s.Documents.Post(ctx, "/api/v1/documents/import", map[string]any{"documents": payload}, caller)
	if err != nil {
		return nil, nil, upstream("import documents", err)
	}
	if !resp.OK() {
		return resp, nil, nil
	}

	ids := []string{}
	data, _ := client.Unwrap(resp.Body).(map[string]any)
	list, _ := data["documents"].([]any)
	for _, item := range list {
		if id, ok := stringField(item, "uuid"); ok {
			ids = append(ids, id)
		}
	}
	return resp, ids, nil
}

func stringField(v any, key string) (string, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return "", false
	}
	switch val := m[key].(type) {
	case string:
		return val, val != ""
	case float64:
		return fmt.Sprintf("%.0f", val), true
	}
	return "", false
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
