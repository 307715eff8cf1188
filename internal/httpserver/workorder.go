package httpserver

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mohit-mindspick/whatsapp/internal/logging"
	"github.com/mohit-mindspick/whatsapp/internal/models"
	"github.com/mohit-mindspick/whatsapp/internal/service"
	"github.com/mohit-mindspick/whatsapp/internal/transport"
)

type WorkOrderHTTP struct {
	Svc *service.WorkOrderService
}

func (h *WorkOrderHTTP) ViewMyWork(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "view.my.work")

	_, tenantID, ok := principal(c)
	if !ok {
		return tenantMissing(c, l)
	}

	phone := c.QueryParam("phoneNumber")
	if err := transport.ValidatePhone(phone); err != nil {
		return badRequest(c, l, "view_my_work_error", err)
	}
	raw := c.QueryParam("dateFilter")
	if raw == "" {
		raw = string(models.DateToday)
	}
	filter, err := models.ParseDateFilter(raw)
	if err != nil {
		return badRequest(c, l, "view_my_work_error", &transport.ValidationError{Message: "Invalid date filter: " + raw})
	}

	items, err := h.Svc.ViewMyWork(ctx, tenantID, strings.TrimSpace(phone), filter)
	if err != nil {
		return failure(c, l, "view_my_work_error", err, transport.ErrFailedToRetrieveWorkItems, "")
	}
	l.Info("work items retrieved", "count", len(items))
	return c.JSON(http.StatusOK, transport.OK(transport.WorkItemsRetrievalSuccessful, items))
}

func (h *WorkOrderHTTP) Detail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "work.item.detail")

	_, tenantID, ok := principal(c)
	if !ok {
		return tenantMissing(c, l)
	}

	if err := transport.ValidatePhone(c.QueryParam("phoneNumber")); err != nil {
		return badRequest(c, l, "work_item_detail_error", err)
	}
	workItemID, err := uuidParam(c.QueryParam("workItemId"), "workItemId")
	if err != nil {
		return badRequest(c, l, "work_item_detail_error", err)
	}

	detail, err := h.Svc.Detail(ctx, tenantID, workItemID, c.QueryParam("type"))
	if err != nil {
		return failure(c, l, "work_item_detail_error", err, transport.ErrFailedToRetrieveWorkOrderDetail, transport.ErrWorkItemNotFound)
	}
	return c.JSON(http.StatusOK, transport.OK(transport.WorkOrderDetailRetrievalSuccessful, detail))
}

func (h *WorkOrderHTTP) Tasks(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "work.order.tasks")

	_, tenantID, ok := principal(c)
	if !ok {
		return tenantMissing(c, l)
	}
	workOrderID, err := uuidParam(c.Param("id"), "work order id")
	if err != nil {
		return badRequest(c, l, "work_order_tasks_error", err)
	}

	tasks, err := h.Svc.Tasks(ctx, tenantID, workOrderID)
	if err != nil {
		return failure(c, l, "work_order_tasks_error", err, transport.ErrFailedToRetrieveTasks, "")
	}
	return c.JSON(http.StatusOK, transport.OK(transport.TasksRetrievalSuccessful, tasks))
}

func (h *WorkOrderHTTP) LogHours(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "log.hours")

	id, _, ok := principal(c)
	if !ok {
		return tenantMissing(c, l)
	}
	var req transport.LogHoursRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, l, "log_hours_error", err)
	}

	resp, err := h.Svc.LogHours(ctx, callerOf(c, id), req)
	if err != nil {
		return failure(c, l, "log_hours_error", err, transport.ErrFailedToLogHours, transport.ErrWorkItemNotFound)
	}
	return relay(c, l, resp, transport.HoursLoggedSuccessful, transport.ErrFailedToLogHours)
}

func (h *WorkOrderHTTP) SaveAssetRating(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "save.asset.rating")

	id, _, ok := principal(c)
	if !ok {
		return tenantMissing(c, l)
	}
	var req transport.SaveAssetRatingRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, l, "save_asset_rating_error", err)
	}

	resp, err := h.Svc.SaveAssetRating(ctx, callerOf(c, id), req)
	if err != nil {
		return failure(c, l, "save_asset_rating_error", err, transport.ErrFailedToSaveAssetRating, "")
	}
	return relay(c, l, resp, transport.AssetRatingSavedSuccessful, transport.ErrFailedToSaveAssetRating)
}

func (h *WorkOrderHTTP) AddComment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "add.comment")

	id, _, ok := principal(c)
	if !ok {
		return tenantMissing(c, l)
	}
	workItemID, err := uuidParam(c.Param("id"), "work item id")
	if err != nil {
		return badRequest(c, l, "add_comment_error", err)
	}
	var req transport.AddCommentRequest
	if err := bind(c, &req); err != nil {
		return badRequest(c, l, "add_comment_error", err)
	}

	resp, err := h.Svc.AddComment(ctx, callerOf(c, id), workItemID, c.QueryParam("type"), req)
	if err != nil {
		return failure(c, l, "add_comment_error", err, transport.ErrFailedToAddComment, "")
	}
	return relay(c, l, resp, transport.CommentAddedSuccessful, transport.ErrFailedToAddComment)
}

// AttachComment links a comment created elsewhere to a work item.
func (h *WorkOrderHTTP) AttachComment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "attach.comment")

	id, _, ok := principal(c)
	if !ok {
		return tenantMissing(c, l)
	}
	commentID := strings.TrimSpace(c.QueryParam("commentId"))
	if commentID == "" {
		return badRequest(c, l, "attach_comment_error", &transport.ValidationError{Message: "Comment ID is required"})
	}
	workItemID, err := uuidParam(c.QueryParam("workItemId"), "workItemId")
	if err != nil {
		return badRequest(c, l, "attach_comment_error", err)
	}

	resp, err := h.Svc.AttachComment(ctx, callerOf(c, id), workItemID, commentID, c.QueryParam("type"))
	if err != nil {
		return failure(c, l, "attach_comment_error", err, transport.ErrFailedToAddComment, "")
	}
	return relay(c, l, resp, transport.CommentAddedSuccessful, transport.ErrFailedToAddComment)
}
