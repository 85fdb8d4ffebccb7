package activity

import (
	"bytes"
	"fmt"

	"github.com/2beens/tcxvis/internal/series"

	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Activity"

var exportHeader = []string{"Elapsed", "Speed (km/h)", "Incline (%)", "Heart Rate (bpm)"}

// ExportXLSX writes the series as a single sheet workbook, one row per sample.
func ExportXLSX(s *series.Series) (_ []byte, err error) {
	f := excelize.NewFile()
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("close workbook: %w", closeErr)
		}
	}()

	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	if err := f.SetSheetRow(exportSheetName, "A1", &exportHeader); err != nil {
		return nil, fmt.Errorf("set header row: %w", err)
	}
	if err := f.SetCellStyle(exportSheetName, "A1", "D1", headerStyle); err != nil {
		return nil, fmt.Errorf("set header style: %w", err)
	}
	if err := f.SetColWidth(exportSheetName, "A", "D", 18); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}

	for i := 0; i < s.Len(); i++ {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("coordinates to cell name: %w", err)
		}
		row := []any{s.Labels[i], s.Speed[i], s.Incline[i], s.HeartRate[i]}
		if err := f.SetSheetRow(exportSheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("set row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}

	return buf.Bytes(), nil
}
