package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"

	"github.com/mohit-mindspick/whatsapp/internal/client"
	"github.com/mohit-mindspick/whatsapp/internal/db"
	"github.com/mohit-mindspick/whatsapp/internal/events"
	"github.com/mohit-mindspick/whatsapp/internal/models"
	"github.com/mohit-mindspick/whatsapp/internal/transport"
)

type PartStore interface {
	PartsByWorkOrder(ctx context.Context, workOrderID, tenantID uuid.UUID) ([]models.WorkOrderPart, error)
}

type PartService struct {
	Store      PartStore
	WorkOrders Sibling
	Events     *events.Emitter
}

func (s *PartService) List(ctx context.Context, tenantID, workOrderID uuid.UUID) ([]transport.PartDTO, error) {
	parts, err := s.Store.PartsByWorkOrder(db.WithReadOnly(ctx), workOrderID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load parts: %w", err)
	}
	out := make([]transport.PartDTO, 0, len(parts))
	for _, p := range parts {
		out = append(out, transport.PartDTO{
			WorkOrderPartID: p.ID,
			PartID:          p.PartID,
			PartCode:        p.PartCode,
			Quantity:        p.Quantity,
			Status:          p.Status,
		})
	}
	return out, nil
}

// Update replaces the parts list of a work order.
func (s *PartService) Update(ctx context.Context, caller client.Caller, workOrderID uuid.UUID, parts []transport.WorkOrderPartUpdate) (*client.Response, error) {
	if err := transport.ValidateParts(parts); err != nil {
		return nil, invalid(err)
	}
	items := make([]map[string]any, 0, len(parts))
	for _, p := range parts {
		items = append(items, map[string]any{
			"id":       p.ID,
			"part_id":  p.PartID,
			"quantity": *p.Quantity,
			"status":   p.Status,
		})
	}
	body := map[string]any{"work_order_id": workOrderID, "parts": items}

	resp, err := s.WorkOrders.Put(ctx, "/api/v1/workorders/"+workOrderID.String()+"/parts/all", body, caller)
	if err != nil {
		return nil, upstream("update parts", err)
	}
	if resp.OK() {
		s.Events.Emit(ctx, events.NewEvent(events.EventUpdate, events.EntityWorkOrderPart, workOrderID.String(), caller.CorrelationID, body))
	}
	return resp, nil
}

func (s *PartService) Return(ctx context.Context, caller client.Caller, req transport.PartMovementRequest) (*client.Response, error) {
	return s.move(ctx, caller, "return", req)
}

func (s *PartService) Collect(ctx context.Context, caller client.Caller, req transport.PartMovementRequest) (*client.Response, error) {
	return s.move(ctx, caller, "collect", req)
}

func (s *PartService) move(ctx context.Context, caller client.Caller, action string, req transport.PartMovementRequest) (*client.Response, error) {
	if err := req.Validate(); err != nil {
		return nil, invalid(err)
	}
	q := url.Values{}
	q.Set("workOrderId", req.WorkOrderID.String())
	q.Set("partId", req.PartID.String())
	q.Set("quantity", strconv.FormatFloat(*req.Quantity, 'f', -1, 64))

	path := "/api/v1/workorders/" + req.WorkOrderID.String() + "/parts/" + action
	resp, err := s.WorkOrders.PutQuery(ctx, path, q, caller)
	if err != nil {
		return nil, upstream(action+" part", err)
	}
	if resp.OK() {
		s.Events.Emit(ctx, events.NewEvent(events.EventUpdate, events.EntityWorkOrderPart, req.PartID.String(), caller.CorrelationID, map[string]any{
			"workOrderId": req.WorkOrderID,
			"partId":      req.PartID,
			"quantity":    *req.Quantity,
			"action":      action,
		}))
	}
	return resp, nil
}
