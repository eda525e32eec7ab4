// Package workbook builds the batch-upload template spreadsheet.
package workbook

import (
	"fmt"
	"time"

	"github.com/netojaycee/forecast-prices-app/pkg/civildate"
	"github.com/netojaycee/forecast-prices-app/pkg/constants"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the indicator rows.
const SheetName = "Indicators"

// Header is the column layout the prediction service expects.
var Header = []string{"location", "date", "cpi_food_items", "pms_price", "central_rate_usd", "mpr"}

// BuildTemplate creates a workbook with the expected header and one sample
// row per covered location, dated today in the fixed offset.
func BuildTemplate(now time.Time) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(SheetName, "A1", &Header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	today := civildate.Today(now).String()
	for i, location := range constants.Locations {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to compute cell name: %w", err)
		}
		row := []interface{}{location, today, 0.0, 0.0, 0.0, 0.0}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row for %s: %w", location, err)
		}
	}

	return f, nil
}

// WriteTemplate saves a fresh template workbook to path.
func WriteTemplate(path string, now time.Time) error {
	f, err := BuildTemplate(now)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save template: %w", err)
	}
	return nil
}
