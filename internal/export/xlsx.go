// Package export serializes grievances into spreadsheet documents for
// offline reporting.
package export

import (
	"fmt"
	"strconv"
	"time"

	"github.com/civicdesk/grievance-api/internal/models"
	"github.com/xuri/excelize/v2"
)

const SheetName = "Complaints"

var headers = []string{
	"ID", "Title", "Category", "Subcategory", "Status", "Priority",
	"Location", "OfficerId", "UserId", "Deadline", "CreatedAt",
}

// Workbook builds an .xlsx document with a header row and one row per
// grievance. Only scalar fields are exported; attachments stay in the store.
func Workbook(grievances []models.Grievance) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &headers); err != nil {
		return nil, fmt.Errorf("write header row: %w", err)
	}

	for i, g := range grievances {
		row := []interface{}{
			strconv.FormatUint(g.ID, 10),
			g.Title,
			g.Category,
			stringOrEmpty(g.Subcategory),
			string(g.Status),
			stringOrEmpty(g.Priority),
			stringOrEmpty(g.Location),
			uintOrEmpty(g.OfficerID),
			strconv.FormatUint(g.UserID, 10),
			dateOrEmpty(g.Deadline),
			g.CreatedAt.Format(time.RFC3339),
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("row coordinates: %w", err)
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func uintOrEmpty(v *uint64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatUint(*v, 10)
}

func dateOrEmpty(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
