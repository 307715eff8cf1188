package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mohit-mindspick/whatsapp/internal/client"
	"github.com/mohit-mindspick/whatsapp/internal/db"
	"github.com/mohit-mindspick/whatsapp/internal/events"
	"github.com/mohit-mindspick/whatsapp/internal/models"
	"github.com/mohit-mindspick/whatsapp/internal/repo"
	"github.com/mohit-mindspick/whatsapp/internal/transport"
)

type TaskStore interface {
	TaskWithChecklist(ctx context.Context, taskID, workOrderID, tenantID uuid.UUID) (*models.Task, error)
}

type TaskService struct {
	Store      TaskStore
	WorkOrders Sibling
	Events     *events.Emitter
}

func (s *TaskService) Checklist(ctx context.Context, tenantID, workOrderID, taskID uuid.UUID) (*transport.TaskChecklistDTO, error) {
	task, err := s.Store.TaskWithChecklist(db.WithReadOnly(ctx), taskID, workOrderID, tenantID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, notFoundf("Task not found: %s", taskID)
	}
	if err != nil {
		return nil, fmt.Errorf("load task: %w", err)
	}

	items := make([]transport.ChecklistItemDTO, 0, len(task.ChecklistItems))
	for _, it := range task.ChecklistItems {
		items = append(items, transport.ChecklistItemDTO{
			ID:              it.ID,
			ItemText:        it.ItemText,
			CommentID:       it.CommentID,
			Type:            it.EffectiveType(),
			PossibleOptions: it.PossibleOptions,
		})
	}
	return &transport.TaskChecklistDTO{
		ID:               task.ID,
		Sequence:         task.Sequence,
		CountOfChecklist: len(items),
		ChecklistItems:   items,
	}, nil
}

func (s *TaskService) SaveChecklistResponses(ctx context.Context, caller client.Caller, req transport.SaveChecklistItemsRequest) (*client.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	items := make([]map[string]any, 0, len(req.ChecklistItems))
	for _, it := range req.ChecklistItems {
		items = append(items, map[string]any{
			"id":         it.ID,
			"comment_id": it.CommentID,
			"response":   it.Response,
			"status":     it.Status,
		})
	}
	body := map[string]any{
		"workorder_id":    req.WorkOrderID,
		"task_id":         req.TaskID,
		"checklist_items": items,
	}

	path := fmt.Sprintf("/api/v1/workorders/%s/tasks/%s/checklist-items/response", req.WorkOrderID, req.TaskID)
	resp, err := s.WorkOrders.Put(ctx, path, body, caller)
	if err != nil {
		return nil, upstream("save checklist responses", err)
	}
	if resp.OK() {
		s.Events.Emit(ctx, events.NewEvent(events.EventUpdate, events.EntityChecklistItem, req.TaskID.String(), caller.CorrelationID, body))
	}
	return resp, nil
}
