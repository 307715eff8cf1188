package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/mohit-mindspick/whatsapp/internal/db"
	"github.com/mohit-mindspick/whatsapp/internal/models"
	"github.com/mohit-mindspick/whatsapp/internal/repo"
	"github.com/mohit-mindspick/whatsapp/internal/transport"
)

type UserStore interface {
	UserWithTeam(ctx context.Context, phone string, tenantID uuid.UUID) (*repo.UserTeamRow, error)
	ActiveUserByPhone(ctx context.Context, phone string, tenantID uuid.UUID) (*models.User, error)
	SupervisorsByShift(ctx context.Context, shiftID, tenantID uuid.UUID) ([]models.User, error)
}

type UserService struct {
	Store UserStore
}

func (s *UserService) ByPhone(ctx context.Context, tenantID uuid.UUID, phone string) (*transport.UserDTO, error) {
	row, err := s.Store.UserWithTeam(db.WithReadOnly(ctx), phone, tenantID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, notFoundf("User not found with phone number: %s", phone)
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &transport.UserDTO{FirstName: row.FirstName, LastName: row.LastName, TeamName: row.TeamName}, nil
}

// Supervisor returns the earliest created supervisor of the user's shift.
func (s *UserService) Supervisor(ctx context.Context, tenantID uuid.UUID, phone string) (*transport.SupervisorDTO, error) {
	ctx = db.WithReadOnly(ctx)

	u, err := s.Store.ActiveUserByPhone(ctx, phone, tenantID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, notFoundf("User not found with phone number: %s", phone)
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if u.ShiftID == nil || u.Shift == nil {
		return nil, notFoundf("User does not have an assigned shift")
	}
	if u.Shift.TenantID != tenantID {
		return nil, notFoundf("User shift does not belong to the same tenant")
	}

	sups, err := s.Store.SupervisorsByShift(ctx, u.Shift.ID, tenantID)
	if err != nil {
		return nil, fmt.Errorf("load supervisors: %w", err)
	}
	if len(sups) == 0 {
		return nil, notFoundf("No supervisor found for shift: %s", u.Shift.ID)
	}
	sup := sups[0]
	return &transport.SupervisorDTO{SupervisorID: sup.ID, Name: sup.FullName(), Contact: sup.PhoneNumber}, nil
}
