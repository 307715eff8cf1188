package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mohit-mindspick/whatsapp/internal/client"
	"github.com/mohit-mindspick/whatsapp/internal/middleware/auth"
	"github.com/mohit-mindspick/whatsapp/internal/reqctx"
	"github.com/mohit-mindspick/whatsapp/internal/service"
	"github.com/mohit-mindspick/whatsapp/internal/transport"
)

// principal returns the caller's identity and the tenant of its token.
func principal(c echo.Context) (*auth.Identity, uuid.UUID, bool) {
	id, ok := auth.IdentityFrom(c)
	if !ok {
		return nil, uuid.Nil, false
	}
	tenantID, ok := id.Tenant()
	return id, tenantID, ok
}

func tenantMissing(c echo.Context, l *slog.Logger) error {
	l.Warn("tenant_missing", "status", http.StatusBadRequest)
	return c.JSON(http.StatusBadRequest, transport.Fail(transport.ErrTenantIDNotFound, nil))
}

// callerOf describes the inbound caller to sibling services.
func callerOf(c echo.Context, id *auth.Identity) client.Caller {
	req := c.Request()
	tenant := reqctx.Get(req, reqctx.HeaderTenantID)
	if tenant == "" {
		tenant = id.TenantID
	}
	return client.Caller{
		Token:         id.Token,
		TenantID:      tenant,
		CorrelationID: reqctx.Get(req, reqctx.HeaderCorrelationID),
	}
}

func badRequest(c echo.Context, l *slog.Logger, event string, err error) error {
	msg := err.Error()
	var ve *transport.ValidationError
	if errors.As(err, &ve) {
		msg = ve.Message
	}
	l.Warn(event, "status", http.StatusBadRequest, "error", msg)
	return c.JSON(http.StatusBadRequest, transport.Fail(transport.ErrBadRequest, msg))
}

func uuidParam(value, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, &transport.ValidationError{Message: "Invalid " + name + ": " + value}
	}
	return id, nil
}

type validator interface {
	Validate() error
}

func bind(c echo.Context, dst validator) error {
	if err := c.Bind(dst); err != nil {
		return &transport.ValidationError{Message: "Malformed request body"}
	}
	return dst.Validate()
}

// relay answers with the sibling's status, wrapping its body in the envelope.
func relay(c echo.Context, l *slog.Logger, resp *client.Response, okCode, failCode string) error {
	if resp.OK() {
		l.Info("relay_succeeded", "status", resp.StatusCode)
		return c.JSON(resp.StatusCode, transport.OK(okCode, resp.Body))
	}
	l.Warn("relay_failed", "status", resp.StatusCode)
	return c.JSON(resp.StatusCode, transport.Fail(failCode, resp.Body))
}

// failure maps a service error onto the envelope. notFoundCode replaces the
// message of a not-found answer; when empty the error's reason is used.
func failure(c echo.Context, l *slog.Logger, event string, err error, failCode, notFoundCode string) error {
	var ve *transport.ValidationError
	switch {
	case errors.As(err, &ve), errors.Is(err, service.ErrValidation):
		return badRequest(c, l, event, err)
	case errors.Is(err, service.ErrInvalidItemType):
		l.Warn(event, "status", http.StatusBadRequest, "error", err)
		return c.JSON(http.StatusBadRequest, transport.Fail(transport.ErrInvalidItemType, nil))
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", http.StatusNotFound, "error", err)
		if notFoundCode == "" {
			return c.JSON(http.StatusNotFound, transport.Fail(service.Reason(err), nil))
		}
		return c.JSON(http.StatusNotFound, transport.Fail(notFoundCode, service.Reason(err)))
	default:
		l.Error(event, "status", http.StatusInternalServerError, "error", err)
		return c.JSON(http.StatusInternalServerError, transport.Fail(failCode, nil))
	}
}
