package db

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

const (
	RouteWrite = "write"
	RouteRead  = "read"
)

type readOnlyKey struct{}

// WithReadOnly marks the unit of work carried by ctx as read-only.
func WithReadOnly(ctx context.Context) context.Context {
	return context.WithValue(ctx, readOnlyKey{}, true)
}

func IsReadOnly(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	v, _ := ctx.Value(readOnlyKey{}).(bool)
	return v
}

// Route names the pool a unit of work should use. Anything not explicitly
// marked read-only goes to the write pool.
func Route(ctx context.Context) string {
	if IsReadOnly(ctx) {
		return RouteRead
	}
	return RouteWrite
}

// Router holds the two pools. A nil read pool collapses onto the write pool.
type Router struct {
	write *gorm.DB
	read  *gorm.DB
}

func NewRouter(write, read *gorm.DB) *Router {
	if read == nil {
		read = write
	}
	return &Router{write: write, read: read}
}

// Conn returns a session on the pool chosen by Route, bound to ctx.
func (r *Router) Conn(ctx context.Context) *gorm.DB {
	if Route(ctx) == RouteRead {
		return r.read.WithContext(ctx)
	}
	return r.write.WithContext(ctx)
}

func (r *Router) Write() *gorm.DB { return r.write }
func (r *Router) Read() *gorm.DB  { return r.read }

// Ping checks both pools.
func (r *Router) Ping(ctx context.Context) error {
	var errs []error
	for name, g := range map[string]*gorm.DB{RouteWrite: r.write, RouteRead: r.read} {
		sqlDB, err := g.DB()
		if err != nil {
			errs = append(errs, fmt.Errorf("%s pool: %w", name, err))
			continue
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			errs = append(errs, fmt.Errorf("%s pool: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

func (r *Router) Close() error {
	if r.read != r.write {
		if err := Close(r.read); err != nil {
			return err
		}
	}
	return Close(r.write)
}
