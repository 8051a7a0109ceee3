// Package allowance fills the travel-allowance workbook from a local
// template. It mirrors the drive-backed filler but writes through excelize
// so no Graph round trips are needed.
package allowance

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/koshinokanbai330/oof-cli/internal/core/domain"
	"github.com/koshinokanbai330/oof-cli/internal/core/ports/driven"
	"github.com/koshinokanbai330/oof-cli/internal/logger"
)

// Ensure Filler implements the interface.
var _ driven.AllowanceSheetAdapter = (*Filler)(nil)

// Filler writes allowance rows into a copy of the local template workbook.
type Filler struct {
	templatePath string
}

// New creates a local allowance filler reading from templatePath.
func New(templatePath string) *Filler {
	return &Filler{templatePath: templatePath}
}

// FillTemplate opens the template, appends one row per trip date to each
// applicable sheet, and saves the result into the target folder. The saved
// file path is returned.
func (f *Filler) FillTemplate(ctx context.Context, spec driven.FillSpec) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(spec.Dates) == 0 {
		return "", fmt.Errorf("allowance: no trip dates")
	}

	workbook, err := excelize.OpenFile(f.templatePath)
	if err != nil {
		return "", fmt.Errorf("open template: %w", err)
	}
	defer workbook.Close()

	for _, sheet := range domain.AllowanceSheets(spec.Dates) {
		if err := f.fillSheet(workbook, sheet, spec); err != nil {
			return "", err
		}
	}

	outPath := filepath.Join(spec.Target, domain.AllowanceFileName(spec.FamilyName, spec.Dates[0]))
	if err := workbook.SaveAs(outPath); err != nil {
		return "", fmt.Errorf("save workbook: %w", err)
	}
	return outPath, nil
}

func (f *Filler) fillSheet(workbook *excelize.File, sheet string, spec driven.FillSpec) error {
	index, err := workbook.GetSheetIndex(sheet)
	if err != nil || index < 0 {
		// Templates without the overnight sheet are common.
		logger.Debugf("allowance: sheet %q not in template, skipping", sheet)
		return nil
	}

	rows, err := workbook.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	layout, ok := domain.FindAllowanceHeader(rows)
	if !ok {
		return fmt.Errorf("sheet %q: header row not found", sheet)
	}

	blank, err := domain.FirstBlankRow(rows, layout)
	if err != nil {
		return fmt.Errorf("sheet %q: %w", sheet, err)
	}

	for i, date := range spec.Dates {
		values := domain.AllowanceRowValues(date, spec.Destination)
		for slot, col := range layout.Columns {
			if col < 0 {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(col+1, blank+i+1)
			if err != nil {
				return fmt.Errorf("sheet %q: %w", sheet, err)
			}
			if err := workbook.SetCellStr(sheet, cell, values[slot]); err != nil {
				return fmt.Errorf("write sheet %q cell %s: %w", sheet, cell, err)
			}
		}
	}

	logger.Debugf("allowance: wrote %d rows to sheet %q", len(spec.Dates), sheet)
	return nil
}
