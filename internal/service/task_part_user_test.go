package service

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohit-mindspick/whatsapp/internal/events"
	"github.com/mohit-mindspick/whatsapp/internal/models"
	"github.com/mohit-mindspick/whatsapp/internal/transport"
)

func TestTaskService_Checklist(t *testing.T) {
	t.Parallel()

	store, g := newStore(t)
	svc := &TaskService{Store: store}
	woID := uuid.New()

	task := &models.Task{Sequence: 3, Name: "Lubricate", WorkOrderID: woID, Audit: models.Audit{TenantID: tenantA}}
	require.NoError(t, g.Create(task).Error)
	comment := uuid.New()
	require.NoError(t, g.Create(&models.ChecklistItem{ItemText: "Oil level ok?", Type: models.ItemYesNo, TaskID: task.ID, CommentID: &comment, Audit: models.Audit{TenantID: tenantA}}).Error)
	require.NoError(t, g.Create(&models.ChecklistItem{ItemText: "Notes", TaskID: task.ID, Audit: models.Audit{TenantID: tenantA}}).Error)

	got, err := svc.Checklist(context.Background(), tenantA, woID, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)
	assert.Equal(t, 3, got.Sequence)
	assert.Equal(t, 2, got.CountOfChecklist)

	types := map[string]models.ItemType{}
	for _, it := range got.ChecklistItems {
		types[it.ItemText] = it.Type
	}
	assert.Equal(t, models.ItemYesNo, types["Oil level ok?"])
	assert.Equal(t, models.ItemFreeText, types["Notes"])

	_, err = svc.Checklist(context.Background(), tenantA, uuid.New(), task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTaskService_SaveChecklistResponses(t *testing.T) {
	t.Parallel()

	woID, taskID, itemID := uuid.New(), uuid.New(), uuid.New()
	sib := newSibling(t, map[string]func() (int, string){
		"PUT /api/v1/workorders/" + woID.String() + "/tasks/" + taskID.String() + "/checklist-items/response": reply(http.StatusOK, `{"saved":1}`),
	})
	pub := &recordingPublisher{}
	svc := &TaskService{WorkOrders: sib.client("workorder"), Events: events.NewEmitter(pub, nil)}

	resp, err := svc.SaveChecklistResponses(context.Background(), testCaller(), transport.SaveChecklistItemsRequest{
		WorkOrderID: woID, TaskID: taskID,
		ChecklistItems: []transport.ChecklistItemResponse{{ID: itemID, Response: "YES", Status: models.ChecklistCompleted}},
	})
	require.NoError(t, err)
	assert.True(t, resp.OK())

	body := sib.recorded()[0].Body
	assert.Equal(t, woID.String(), body["workorder_id"])
	item := body["checklist_items"].([]any)[0].(map[string]any)
	assert.Equal(t, itemID.String(), item["id"])
	assert.Equal(t, "COMPLETED", item["status"])
	assert.Nil(t, item["comment_id"])

	require.Len(t, pub.published(), 1)
	assert.Equal(t, events.EventUpdate, pub.published()[0].EventType)
}

func TestPartService(t *testing.T) {
	t.Parallel()

	store, g := newStore(t)
	woID, partID := uuid.New(), uuid.New()
	require.NoError(t, g.Create(&models.WorkOrderPart{PartID: &partID, PartCode: "BRG-6204", Quantity: 2, Status: models.PartAvailable, WorkOrderID: woID, Audit: models.Audit{TenantID: tenantA}}).Error)

	sib := newSibling(t, map[string]func() (int, string){
		"PUT /api/v1/workorders/" + woID.String() + "/parts/all":     reply(http.StatusOK, `{}`),
		"PUT /api/v1/workorders/" + woID.String() + "/parts/return":  reply(http.StatusOK, `{}`),
		"PUT /api/v1/workorders/" + woID.String() + "/parts/collect": reply(http.StatusUnprocessableEntity, `{"message":"not enough stock"}`),
	})
	pub := &recordingPublisher{}
	svc := &PartService{Store: store, WorkOrders: sib.client("workorder"), Events: events.NewEmitter(pub, nil)}
	ctx := context.Background()

	parts, err := svc.List(ctx, tenantA, woID)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	assert.Equal(t, "BRG-6204", parts[0].PartCode)
	assert.Equal(t, partID, *parts[0].PartID)

	parts, err = svc.List(ctx, uuid.New(), woID)
	require.NoError(t, err)
	assert.Empty(t, parts)

	rowID := uuid.New()
	resp, err := svc.Update(ctx, testCaller(), woID, []transport.WorkOrderPartUpdate{{ID: rowID, PartID: partID, Quantity: ptr(3.0), Status: models.PartCollected}})
	require.NoError(t, err)
	assert.True(t, resp.OK())
	sent := sib.recorded()[0].Body["parts"].([]any)[0].(map[string]any)
	assert.Equal(t, rowID.String(), sent["id"])
	assert.Equal(t, 3.0, sent["quantity"])

	move := transport.PartMovementRequest{WorkOrderID: woID, PartID: partID, Quantity: ptr(1.5)}
	resp, err = svc.Return(ctx, testCaller(), move)
	require.NoError(t, err)
	assert.True(t, resp.OK())
	ret := sib.recorded()[1]
	assert.Equal(t, http.MethodPut, ret.Method)
	assert.Contains(t, ret.Query, "quantity=1.5")
	assert.Contains(t, ret.Query, "partId="+partID.String())

	resp, err = svc.Collect(ctx, testCaller(), move)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	assert.Len(t, pub.published(), 2)
}

func TestUserService(t *testing.T) {
	t.Parallel()

	store, g := newStore(t)
	svc := &UserService{Store: store}
	ctx := context.Background()

	shift := &models.Shift{Name: "day", TenantID: tenantA}
	foreignShift := &models.Shift{Name: "night", TenantID: uuid.New()}
	require.NoError(t, g.Create(shift).Error)
	require.NoError(t, g.Create(foreignShift).Error)

	mk := func(first, last, phone string, shiftID *uuid.UUID, supervisor bool, created time.Time) *models.User {
		u := &models.User{FirstName: first, LastName: last, PhoneNumber: phone, ShiftID: shiftID,
			IsShiftSupervisor: supervisor, Enabled: true, Audit: models.Audit{TenantID: tenantA, CreatedAt: created}}
		require.NoError(t, g.Create(u).Error)
		return u
	}
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	worker := mk("Ravi", "Kumar", "+91100", &shift.ID, false, base)
	mk("Late", "Lead", "+91101", &shift.ID, true, base.Add(2*time.Hour))
	first := mk("Meera", "Nair", "+91102", &shift.ID, true, base.Add(time.Hour))
	mk("No", "Shift", "+91103", nil, false, base)
	mk("Other", "Tenant", "+91104", &foreignShift.ID, false, base)

	team := &models.Team{Name: "Mechanical", Active: true, Audit: models.Audit{TenantID: tenantA}}
	require.NoError(t, g.Create(team).Error)
	require.NoError(t, g.Model(team).Association("Users").Append(worker))

	u, err := svc.ByPhone(ctx, tenantA, "+91100")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", u.FirstName)
	assert.Equal(t, "Mechanical", *u.TeamName)

	_, err = svc.ByPhone(ctx, tenantA, "+91999")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "User not found with phone number: +91999", Reason(err))

	sup, err := svc.Supervisor(ctx, tenantA, "+91100")
	require.NoError(t, err)
	assert.Equal(t, transport.SupervisorDTO{SupervisorID: first.ID, Name: "Meera Nair", Contact: "+91102"}, *sup)

	tests := []struct {
		phone  string
		reason string
	}{
		{"+91103", "User does not have an assigned shift"},
		{"+91104", "User shift does not belong to the same tenant"},
		{"+91999", "User not found with phone number: +91999"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.phone, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Supervisor(ctx, tenantA, tt.phone)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.Equal(t, tt.reason, Reason(err))
		})
	}
}

func TestUserService_NoSupervisor(t *testing.T) {
	t.Parallel()

	store, g := newStore(t)
	shift := &models.Shift{TenantID: tenantA}
	require.NoError(t, g.Create(shift).Error)
	require.NoError(t, g.Create(&models.User{FirstName: "Solo", PhoneNumber: "+1", ShiftID: &shift.ID, Enabled: true, Audit: models.Audit{TenantID: tenantA}}).Error)

	_, err := (&UserService{Store: store}).Supervisor(context.Background(), tenantA, "+1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "No supervisor found for shift: "+shift.ID.String(), Reason(err))
}
