package repo

import (
	"context"

	"github.com/google/uuid"

	"github.com/mohit-mindspick/whatsapp/internal/models"
)

func (r *GormRepo) FindSession(ctx context.Context, sessionID uuid.UUID) (*models.UserSession, error) {
	var s models.UserSession
	if err := r.conn(ctx).Where("session_id = ?", sessionID).First(&s).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

func (r *GormRepo) FindTenantSettings(ctx context.Context, tenantID uuid.UUID) (*models.TenantSettings, error) {
	var s models.TenantSettings
	if err := r.conn(ctx).
		Where("tenant_id = ? AND is_deleted = ?", tenantID, false).
		First(&s).Error; err != nil {
		return nil, notFound(err)
	}
	return &s, nil
}

// ActiveRolesByCodes loads the active roles of a tenant with the given codes,
// permissions preloaded. Unknown codes simply produce no row.
func (r *GormRepo) ActiveRolesByCodes(ctx context.Context, codes []string, tenantID uuid.UUID) ([]models.Role, error) {
	if len(codes) == 0 {
		return nil, nil
	}
	var roles []models.Role
	err := r.conn(ctx).
		Preload("Permissions").
		Where("code IN ? AND tenant_id = ? AND active = ?", codes, tenantID, true).
		Find(&roles).Error
	if err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *GormRepo) AllPermissionCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.conn(ctx).Model(&models.Permission{}).Order("code").Pluck("code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}
