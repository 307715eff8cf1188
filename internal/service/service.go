package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/mohit-mindspick/whatsapp/internal/client"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrInvalidItemType = errors.New("invalid item type")
	ErrUpstream        = errors.New("upstream call failed")
)

// reasonError wraps a sentinel with a message meant for the API caller.
type reasonError struct {
	sentinel error
	reason   string
}

func (e *reasonError) Error() string { return e.reason }
func (e *reasonError) Unwrap() error { return e.sentinel }

func notFoundf(format string, args ...any) error {
	return &reasonError{sentinel: ErrNotFound, reason: fmt.Sprintf(format, args...)}
}

// Reason returns the caller-facing message carried by err, if any.
func Reason(err error) string {
	var re *reasonError
	if errors.As(err, &re) {
		return re.reason
	}
	return ""
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrValidation, err)
}

func upstream(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrUpstream, op, err)
}

func segment(s string) string {
	return url.PathEscape(s)
}

// Sibling is the subset of client.Client the services relay through.
type Sibling interface {
	Post(ctx context.Context, path string, body any, caller client.Caller) (*client.Response, error)
	Put(ctx context.Context, path string, body any, caller client.Caller) (*client.Response, error)
	PutQuery(ctx context.Context, path string, query url.Values, caller client.Caller) (*client.Response, error)
}
