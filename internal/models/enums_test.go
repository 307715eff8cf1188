package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateFilter_DueDate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 30, 17, 45, 0, 0, time.UTC)
	tests := []struct {
		filter DateFilter
		want   string
	}{
		{DateToday, "2026-03-30"},
		{DateTomorrow, "2026-03-31"},
		{DateWeek, "2026-04-06"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.filter), func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, tt.filter.DueDate(now).Format("2006-01-02"))
		})
	}
}

func TestParseEnums(t *testing.T) {
	t.Parallel()

	f, err := ParseDateFilter(" week ")
	require.NoError(t, err)
	assert.Equal(t, DateWeek, f)
	_, err = ParseDateFilter("MONTH")
	require.Error(t, err)

	wt, err := ParseWorkItemType("case")
	require.NoError(t, err)
	assert.Equal(t, WorkItemCase, wt)
	_, err = ParseWorkItemType("TICKET")
	require.Error(t, err)
}

func TestLabelsAndDefaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Preventive", WorkOrderPreventive.Label())
	assert.Equal(t, "Inspection", WorkOrderInspection.Label())
	assert.Empty(t, WorkOrderType("OTHER").Label())
	assert.Equal(t, ItemFreeText, ChecklistItem{}.EffectiveType())
	assert.Equal(t, ItemNumeric, ChecklistItem{Type: ItemNumeric}.EffectiveType())
	assert.Equal(t, "Ravi", User{FirstName: "Ravi"}.FullName())
	assert.Equal(t, "Ravi Kumar", User{FirstName: "Ravi", LastName: "Kumar"}.FullName())
	assert.True(t, PartStatus("").Valid())
	assert.False(t, PartStatus("LOST").Valid())
}
