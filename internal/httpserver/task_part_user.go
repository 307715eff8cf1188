package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mohit-mindspick/whatsapp/internal/client"
	"github.com/mohit-mindspick/whatsapp/internal/logging"
	"github.com/mohit-mindspick/whatsapp/internal/service"
	"github.com/mohit-mindspick/whatsapp/internal/transport"
)

type TaskHTTP struct {
	Svc *service.TaskService
}

func (h *TaskHTTP) Checklist(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "task.checklist")

	_, tenantID, ok := principal(c)
	if !ok {
		return tenantMissing(c, l)
	}
	workOrderID, err := uuidParam(c.Param("workOrderId"), "work order id")
	if err != nil {
		return badRequest(c, l, "task_checklist_error", err)
	}
	taskID, err := uuidParam(c.Param("taskId"), "task id")
	if err != nil {
		return badRequest(c, l, "task_checklist_error", err)
	}

	checklist, err := h.Svc.Checklist(ctx, tenantID, workOrderID, taskID)
	if err != nil {
		return failure(c, l, "task_checklist_error", err, transport.ErrFailedToRetrieveChecklistItems, transport.ErrTaskNotFound)
	}
	return c.JSON(http.StatusOK, transport.OK(transport.ChecklistItemsRetrievalSuccessful, checklist))
}

func (h *TaskHTTP) SaveChecklistResponses(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "save.checklist.responses")

	id, _, ok := principal(c)
	if !ok {
		return tenantMissing(c, l)
	}
	var req transport.SaveChecklistItemsRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, l, "save_checklist_responses_error", err)
	}

	resp, err := h.Svc.SaveChecklistResponses(ctx, callerOf(c, id), req)
	if err != nil {
		return failure(c, l, "save_checklist_responses_error", err, transport.ErrFailedToSaveChecklistItemResponses, "")
	}
	return relay(c, l, resp, transport.ChecklistItemResponsesSavedSuccessful, transport.ErrFailedToSaveChecklistItemResponses)
}

type PartHTTP struct {
	Svc *service.PartService
}

func (h *PartHTTP) List(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "list.parts")

	_, tenantID, ok := principal(c)
	if !ok {
		return tenantMissing(c, l)
	}
	workOrderID, err := uuidParam(c.Param("id"), "work order id")
	if err != nil {
		return badRequest(c, l, "list_parts_error", err)
	}

	parts, err := h.Svc.List(ctx, tenantID, workOrderID)
	if err != nil {
		return failure(c, l, "list_parts_error", err, transport.ErrFailedToRetrieveParts, "")
	}
	return c.JSON(http.StatusOK, transport.OK(transport.PartsRetrievalSuccessful, parts))
}

func (h *PartHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "update.parts")

	id, _, ok := principal(c)
	if !ok {
		return tenantMissing(c, l)
	}
	workOrderID, err := uuidParam(c.Param("id"), "work order id")
	if err != nil {
		return badRequest(c, l, "update_parts_error", err)
	}
	var parts []transport.WorkOrderPartUpdate
	if err := (&echo.DefaultBinder{}).BindBody(c, &parts); err != nil {
		return badRequest(c, l, "update_parts_error", &transport.ValidationError{Message: "Malformed request body"})
	}
	if err := transport.ValidateParts(parts); err != nil {
		return badRequest(c, l, "update_parts_error", err)
	}

	resp, err := h.Svc.Update(ctx, callerOf(c, id), workOrderID, parts)
	if err != nil {
		return failure(c, l, "update_parts_error", err, transport.ErrFailedToUpdateParts, "")
	}
	return relay(c, l, resp, transport.PartsUpdatedSuccessful, transport.ErrFailedToUpdateParts)
}

type partMove func(ctx context.Context, caller client.Caller, req transport.PartMovementRequest) (*client.Response, error)

func (h *PartHTTP) Return(c echo.Context) error {
	return h.move(c, "return.part", h.Svc.Return, transport.PartReturnedSuccessful, transport.ErrFailedToReturnPart)
}

func (h *PartHTTP) Collect(c echo.Context) error {
	return h.move(c, "collect.part", h.Svc.Collect, transport.PartCollectedSuccessful, transport.ErrFailedToCollectPart)
}

func (h *PartHTTP) move(c echo.Context, name string, op partMove, okCode, failCode string) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", name)
	event := strings.ReplaceAll(name, ".", "_") + "_error"

	id, _, ok := principal(c)
	if !ok {
		return tenantMissing(c, l)
	}
	var req transport.PartMovementRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, l, event, err)
	}

	resp, err := op(ctx, callerOf(c, id), req)
	if err != nil {
		return failure(c, l, event, err, failCode, "")
	}
	return relay(c, l, resp, okCode, failCode)
}

type UserHTTP struct {
	Svc *service.UserService
}

func (h *UserHTTP) ByPhone(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "user.by.phone")

	_, tenantID, ok := principal(c)
	if !ok {
		return tenantMissing(c, l)
	}
	phone := c.QueryParam("phoneNumber")
	if err := transport.ValidatePhone(phone); err != nil {
		return badRequest(c, l, "user_by_phone_error", err)
	}

	user, err := h.Svc.ByPhone(ctx, tenantID, strings.TrimSpace(phone))
	if err != nil {
		return failure(c, l, "user_by_phone_error", err, transport.ErrBadRequest, "")
	}
	return c.JSON(http.StatusOK, transport.OK(transport.UserRetrievedSuccessfully, user))
}

func (h *UserHTTP) Supervisor(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "supervisor.by.phone")

	_, tenantID, ok := principal(c)
	if !ok {
		return tenantMissing(c, l)
	}
	phone := c.QueryParam("phoneNumber")
	if err := transport.ValidatePhone(phone); err != nil {
		return badRequest(c, l, "supervisor_by_phone_error", err)
	}

	sup, err := h.Svc.Supervisor(ctx, tenantID, strings.TrimSpace(phone))
	if err != nil {
		return failure(c, l, "supervisor_by_phone_error", err, transport.ErrBadRequest, "")
	}
	return c.JSON(http.StatusOK, transport.OK(transport.SupervisorRetrievedSuccessfully, sup))
}
