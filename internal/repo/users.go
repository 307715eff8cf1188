package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/mohit-mindspick/whatsapp/internal/models"
)

type UserTeamRow struct {
	FirstName string
	LastName  string
	TeamName  *string
}

const userWithTeamQuery = `
SELECT u.first_name AS first_name, u.last_name AS last_name,
	(SELECT MIN(t.name) FROM teams t
		INNER JOIN team_members tm ON tm.team_id = t.id
		WHERE tm.user_id = u.id AND t.active = @active AND t.tenant_id = @tenant) AS team_name
FROM users u
WHERE u.phone_number = @phone
	AND u.tenant_id = @tenant
	AND u.is_deleted = @deleted
	AND u.enabled = @active
LIMIT 1`

// UserWithTeam returns an active user and the alphabetically first active team
// they belong to.
func (r *GormRepo) UserWithTeam(ctx context.Context, phone string, tenantID uuid.UUID) (*UserTeamRow, error) {
	var rows []UserTeamRow
	err := r.conn(ctx).Raw(userWithTeamQuery, map[string]any{
		"phone":   phone,
		"tenant":  tenantID,
		"active":  true,
		"deleted": false,
	}).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return &rows[0], nil
}

func (r *GormRepo) ActiveUserByPhone(ctx context.Context, phone string, tenantID uuid.UUID) (*models.User, error) {
	var u models.User
	err := r.conn(ctx).
		Preload("Shift").
		Where("phone_number = ? AND tenant_id = ? AND is_deleted = ? AND enabled = ?", phone, tenantID, false, true).
		First(&u).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// SupervisorsByShift lists the active supervisors of a shift, oldest first.
func (r *GormRepo) SupervisorsByShift(ctx context.Context, shiftID, tenantID uuid.UUID) ([]models.User, error) {
	var users []models.User
	err := r.conn(ctx).
		Joins("INNER JOIN shifts s ON s.id = users.shift_id").
		Where("users.shift_id = ? AND users.tenant_id = ? AND s.tenant_id = ?", shiftID, tenantID, tenantID).
		Where("users.is_shift_supervisor = ? AND users.is_deleted = ? AND users.enabled = ?", true, false, true).
		Order("users.created_at ASC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}
