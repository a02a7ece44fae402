package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/civicdesk/grievance-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWorkbook(t *testing.T) {
	subcategory := "Potholes"
	priority := "HIGH"
	officerID := uint64(7)
	deadline := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	grievances := []models.Grievance{
		{
			ID:          1,
			Title:       "Pothole",
			Category:    "Roads",
			Subcategory: &subcategory,
			Status:      models.StatusAssigned,
			Priority:    &priority,
			OfficerID:   &officerID,
			UserID:      3,
			Deadline:    &deadline,
			CreatedAt:   time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:        2,
			Title:     "Streetlight out",
			Category:  "Infrastructure",
			Status:    models.StatusPending,
			UserID:    4,
			CreatedAt: time.Date(2026, 8, 2, 9, 30, 0, 0, time.UTC),
		},
	}

	data, err := Workbook(grievances)
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, headers, rows[0])

	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "Pothole", rows[1][1])
	assert.Equal(t, "Potholes", rows[1][3])
	assert.Equal(t, "ASSIGNED", rows[1][4])
	assert.Equal(t, "HIGH", rows[1][5])
	assert.Equal(t, "7", rows[1][7])
	assert.Equal(t, "2026-09-15", rows[1][9])

	// Optional fields stay empty for the bare grievance
	assert.Equal(t, "2", rows[2][0])
	assert.Equal(t, "PENDING", rows[2][4])
	if len(rows[2]) > 5 {
		assert.Empty(t, rows[2][5])
	}
}

func TestWorkbookEmpty(t *testing.T) {
	data, err := Workbook(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, headers, rows[0])
}
