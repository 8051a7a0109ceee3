package domain

import (
	"fmt"
	"strings"
	"time"
)

// Travel-allowance template layout. The workbook carries one sheet for
// one-day trips and one for overnight trips; both share the same six-column
// header identified by Japanese labels.
const (
	SheetOneDay    = "日帰り One-Day"
	SheetOvernight = "宿泊 Overnight"

	// HeaderScanRows bounds the search for the header row.
	HeaderScanRows = 50
	// MaxTemplateRows bounds the search for the first blank row. Hitting it
	// means the template is full and must be rotated by hand.
	MaxTemplateRows = 10000

	// AllowanceColumnCount is the width of one allowance row.
	AllowanceColumnCount = 6
)

// Standard clock times written into every allowance row.
const (
	departTime    = "07:00"
	workStartTime = "09:00"
	workEndTime   = "18:00"
	returnTime    = "21:00"
)

// allowanceHeaders are the column labels, in row order: date, destination,
// departure, work start, work end, return. Cells are matched by substring so
// decorated labels like "日にち (date)" still resolve.
var allowanceHeaders = [AllowanceColumnCount]string{
	"日にち", "出張先", "出発", "始業", "終業", "帰着",
}

// HeaderLayout locates the allowance columns within a sheet.
type HeaderLayout struct {
	// Row is the zero-based header row index.
	Row int
	// Columns holds the zero-based column index per allowance column, -1
	// when the template omits that column.
	Columns [AllowanceColumnCount]int
}

// FindAllowanceHeader scans the first HeaderScanRows rows of the grid for the
// header row, identified by a cell containing the date label. Returns false
// when no header row exists.
func FindAllowanceHeader(rows [][]string) (HeaderLayout, bool) {
	limit := len(rows)
	if limit > HeaderScanRows {
		limit = HeaderScanRows
	}

	for r := 0; r < limit; r++ {
		if !rowContains(rows[r], allowanceHeaders[0]) {
			continue
		}

		layout := HeaderLayout{Row: r}
		for i, label := range allowanceHeaders {
			layout.Columns[i] = -1
			for c, cell := range rows[r] {
				if strings.Contains(cell, label) {
					layout.Columns[i] = c
					break
				}
			}
		}
		return layout, true
	}
	return HeaderLayout{}, false
}

func rowContains(row []string, label string) bool {
	for _, cell := range row {
		if strings.Contains(cell, label) {
			return true
		}
	}
	return false
}

// FirstBlankRow returns the zero-based index of the first row after the
// header whose date cell is empty. Returns ErrTemplateFull when no blank row
// exists within MaxTemplateRows.
func FirstBlankRow(rows [][]string, layout HeaderLayout) (int, error) {
	refCol := layout.Columns[0]
	if refCol < 0 {
		refCol = 0
	}

	for r := layout.Row + 1; r < MaxTemplateRows; r++ {
		if r >= len(rows) {
			return r, nil
		}
		if refCol >= len(rows[r]) || strings.TrimSpace(rows[r][refCol]) == "" {
			return r, nil
		}
	}
	return 0, ErrTemplateFull
}

// AllowanceRowValues builds the six cell values for one trip date. The four
// clock columns carry the date combined with the standard times.
func AllowanceRowValues(date time.Time, destination string) [AllowanceColumnCount]string {
	day := date.Format("2006/01/02")
	return [AllowanceColumnCount]string{
		day,
		destination,
		day + " " + departTime,
		day + " " + workStartTime,
		day + " " + workEndTime,
		day + " " + returnTime,
	}
}

// AllowanceSheets returns the sheet names to fill for the given trip dates:
// the one-day sheet always, the overnight sheet only for multi-day trips.
func AllowanceSheets(dates []time.Time) []string {
	if IsMultiDay(dates) {
		return []string{SheetOneDay, SheetOvernight}
	}
	return []string{SheetOneDay}
}

// AllowanceFileName derives the output workbook name from the family name and
// the first trip date.
func AllowanceFileName(familyName string, firstDate time.Time) string {
	return fmt.Sprintf("BT-Allowance-%s-%s.xlsx", familyName, firstDate.Format("20060102"))
}
