package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/mohit-mindspick/whatsapp/internal/db"
)

var ErrNotFound = errors.New("record not found")

// GormRepo serves every table of the service. Each query runs on the pool
// chosen by db.Route for the calling context.
type GormRepo struct {
	DB *db.Router
}

func New(router *db.Router) *GormRepo {
	return &GormRepo{DB: router}
}

func (r *GormRepo) conn(ctx context.Context) *gorm.DB {
	return r.DB.Conn(ctx)
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
