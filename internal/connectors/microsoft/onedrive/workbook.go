package onedrive

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/koshinokanbai330/oof-cli/internal/connectors/microsoft"
	"github.com/koshinokanbai330/oof-cli/internal/core/domain"
	"github.com/koshinokanbai330/oof-cli/internal/core/ports/driven"
	"github.com/koshinokanbai330/oof-cli/internal/logger"
)

// usedRange is the workbook range payload the filler reads.
type usedRange struct {
	RowIndex    int     `json:"rowIndex"`
	ColumnIndex int     `json:"columnIndex"`
	Values      [][]any `json:"values"`
}

// fillSheet writes one allowance row per trip date into the named sheet.
// A sheet missing from the workbook is skipped without error; templates
// that only carry the one-day sheet are common.
func (c *Connector) fillSheet(
	ctx context.Context, itemID, sheetName string, spec driven.FillSpec,
) error {
	sheetPath := fmt.Sprintf("/me/drive/items/%s/workbook/worksheets('%s')",
		itemID, url.PathEscape(sheetName))

	resp, err := c.client.Do(ctx, "GET", sheetPath+"/usedRange?$select=rowIndex,columnIndex,values", nil)
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", sheetName, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		logger.Debugf("onedrive: sheet %q not in workbook, skipping", sheetName)
		return nil
	}

	var used usedRange
	if err := decodeBody(resp, &used); err != nil {
		return fmt.Errorf("read sheet %q: %w", sheetName, err)
	}

	grid := gridStrings(used.Values)
	layout, ok := domain.FindAllowanceHeader(grid)
	if !ok {
		return fmt.Errorf("sheet %q: header row not found", sheetName)
	}

	blank, err := domain.FirstBlankRow(grid, layout)
	if err != nil {
		return fmt.Errorf("sheet %q: %w", sheetName, err)
	}

	for i, date := range spec.Dates {
		values := domain.AllowanceRowValues(date, spec.Destination)
		// Range addresses are one-based and absolute; the grid is relative
		// to the used range origin.
		rowNumber := used.RowIndex + blank + i + 1
		address := fmt.Sprintf("A%d:F%d", rowNumber, rowNumber)

		row := make([]any, domain.AllowanceColumnCount)
		for col := range row {
			row[col] = ""
		}
		for slot, colIdx := range layout.Columns {
			abs := colIdx + used.ColumnIndex
			if colIdx < 0 || abs >= domain.AllowanceColumnCount {
				continue
			}
			row[abs] = values[slot]
		}

		body := map[string]any{"values": [][]any{row}}
		path := fmt.Sprintf("%s/range(address='%s')", sheetPath, address)
		if err := c.client.DoJSON(ctx, "PATCH", path, body, nil); err != nil {
			return fmt.Errorf("write sheet %q row %d: %w", sheetName, rowNumber, err)
		}
	}

	logger.Debugf("onedrive: wrote %d rows to sheet %q", len(spec.Dates), sheetName)
	return nil
}

// gridStrings flattens workbook cell values into a string grid.
func gridStrings(values [][]any) [][]string {
	grid := make([][]string, len(values))
	for r, row := range values {
		grid[r] = make([]string, len(row))
		for c, cell := range row {
			if cell == nil {
				continue
			}
			grid[r][c] = fmt.Sprint(cell)
		}
	}
	return grid
}

// decodeBody decodes a JSON response body and closes it, mapping non-2xx
// statuses through ResponseError.
func decodeBody(resp *http.Response, out any) error {
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return microsoft.ResponseError(resp)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
