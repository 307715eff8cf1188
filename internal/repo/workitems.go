package repo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/mohit-mindspick/whatsapp/internal/models"
)

type MyWorkRow struct {
	ID         uuid.UUID
	Title      string
	Code       string
	Importance string
	Type       string
}

const myWorkQuery = `
SELECT id, title, code, importance, type FROM (
	SELECT wo.id AS id, wo.title AS title, wo.code AS code,
		COALESCE(wo.priority, '') AS importance, 'WORKORDER' AS type
	FROM wo_work_order wo
	INNER JOIN users u ON wo.assigned_to = u.id
	WHERE u.phone_number = @phone
		AND u.tenant_id = @tenant
		AND wo.tenant_id = @tenant
		AND DATE(wo.due_date) <= @due
		AND UPPER(wo.status) NOT IN ('COMPLETED', 'CLOSED', 'CANCELLED')
	UNION ALL
	SELECT c.id AS id, c.title AS title, c.case_code AS code,
		COALESCE(CAST(c.severity AS VARCHAR), '') AS importance, 'CASE' AS type
	FROM cases c
	INNER JOIN users u ON c.assigned_to = u.id
	INNER JOIN case_statuses cs ON c.status_id = cs.id
	WHERE u.phone_number = @phone
		AND u.tenant_id = @tenant
		AND c.tenant_id = @tenant
		AND c.is_deleted = @deleted
		AND UPPER(cs.code) NOT IN ('RESOLVED', 'CLOSED', 'CANCELLED')
		AND DATE(c.due_by) <= @due
) AS mywork
ORDER BY
	CASE importance
		WHEN 'CRITICAL' THEN 1
		WHEN 'HIGH' THEN 2
		WHEN 'MEDIUM' THEN 3
		WHEN 'LOW' THEN 4
		ELSE 5
	END ASC`

// MyWork lists open work orders and cases assigned to the user with the given
// phone number, due on or before the due day, most important first.
func (r *GormRepo) MyWork(ctx context.Context, phone string, due time.Time, tenantID uuid.UUID) ([]MyWorkRow, error) {
	var rows []MyWorkRow
	err := r.conn(ctx).Raw(myWorkQuery, map[string]any{
		"phone":   phone,
		"tenant":  tenantID,
		"due":     due.Format(time.DateOnly),
		"deleted": false,
	}).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *GormRepo) WorkOrderByID(ctx context.Context, id, tenantID uuid.UUID) (*models.WorkOrder, error) {
	var wo models.WorkOrder
	if err := r.conn(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).First(&wo).Error; err != nil {
		return nil, notFound(err)
	}
	return &wo, nil
}

// WorkOrderByAnyTenant resolves a work order by id alone.
func (r *GormRepo) WorkOrderByAnyTenant(ctx context.Context, id uuid.UUID) (*models.WorkOrder, error) {
	var wo models.WorkOrder
	if err := r.conn(ctx).Where("id = ?", id).First(&wo).Error; err != nil {
		return nil, notFound(err)
	}
	return &wo, nil
}

func (r *GormRepo) CountTasks(ctx context.Context, workOrderID uuid.UUID) (int64, error) {
	var n int64
	if err := r.conn(ctx).Model(&models.Task{}).Where("work_order_id = ?", workOrderID).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormRepo) PriorityName(ctx context.Context, code string, tenantID uuid.UUID) (string, error) {
	var p models.Priority
	if err := r.conn(ctx).Where("code = ? AND tenant_id = ?", code, tenantID).First(&p).Error; err != nil {
		return "", notFound(err)
	}
	return p.Name, nil
}

func (r *GormRepo) CaseByID(ctx context.Context, id, tenantID uuid.UUID) (*models.Case, error) {
	var c models.Case
	if err := r.conn(ctx).Where("id = ? AND tenant_id = ?", id, tenantID).First(&c).Error; err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

func (r *GormRepo) TasksByWorkOrder(ctx context.Context, workOrderID, tenantID uuid.UUID) ([]models.Task, error) {
	var tasks []models.Task
	err := r.conn(ctx).
		Where("work_order_id = ? AND tenant_id = ?", workOrderID, tenantID).
		Order("sequence ASC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// TaskWithChecklist loads a task of a work order together with its checklist items.
func (r *GormRepo) TaskWithChecklist(ctx context.Context, taskID, workOrderID, tenantID uuid.UUID) (*models.Task, error) {
	var t models.Task
	err := r.conn(ctx).
		Preload("ChecklistItems").
		Where("id = ? AND work_order_id = ? AND tenant_id = ?", taskID, workOrderID, tenantID).
		First(&t).Error
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *GormRepo) PartsByWorkOrder(ctx context.Context, workOrderID, tenantID uuid.UUID) ([]models.WorkOrderPart, error) {
	var parts []models.WorkOrderPart
	if err := r.conn(ctx).Where("work_order_id = ? AND tenant_id = ?", workOrderID, tenantID).Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}
