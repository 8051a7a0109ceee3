package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func templateGrid() [][]string {
	return [][]string{
		{"出張旅費精算書"},
		{},
		{"日にち", "出張先", "出発", "始業", "終業", "帰着"},
		{"2024/04/01", "Nagoya", "2024/04/01 07:00", "2024/04/01 09:00", "2024/04/01 18:00", "2024/04/01 21:00"},
	}
}

func TestFindAllowanceHeader(t *testing.T) {
	layout, ok := FindAllowanceHeader(templateGrid())

	require.True(t, ok)
	assert.Equal(t, 2, layout.Row)
	assert.Equal(t, [6]int{0, 1, 2, 3, 4, 5}, layout.Columns)
}

func TestFindAllowanceHeader_DecoratedLabelsAndGaps(t *testing.T) {
	grid := [][]string{
		{"日にち (date)", "", "出張先 destination", "帰着"},
	}

	layout, ok := FindAllowanceHeader(grid)

	require.True(t, ok)
	assert.Equal(t, 0, layout.Row)
	assert.Equal(t, 0, layout.Columns[0])
	assert.Equal(t, 2, layout.Columns[1])
	assert.Equal(t, -1, layout.Columns[2], "missing departure column")
	assert.Equal(t, 3, layout.Columns[5])
}

func TestFindAllowanceHeader_NotFound(t *testing.T) {
	_, ok := FindAllowanceHeader([][]string{{"just"}, {"noise"}})
	assert.False(t, ok)
}

func TestFindAllowanceHeader_BeyondScanLimit(t *testing.T) {
	grid := make([][]string, HeaderScanRows+1)
	grid[HeaderScanRows] = []string{"日にち"}

	_, ok := FindAllowanceHeader(grid)
	assert.False(t, ok, "header past the scan limit must not be found")
}

func TestFirstBlankRow(t *testing.T) {
	layout, ok := FindAllowanceHeader(templateGrid())
	require.True(t, ok)

	row, err := FirstBlankRow(templateGrid(), layout)

	require.NoError(t, err)
	assert.Equal(t, 4, row, "first row after the existing entry")
}

func TestFirstBlankRow_TemplateFull(t *testing.T) {
	grid := make([][]string, MaxTemplateRows)
	grid[0] = []string{"日にち"}
	for r := 1; r < MaxTemplateRows; r++ {
		grid[r] = []string{"2024/04/01"}
	}
	layout, ok := FindAllowanceHeader(grid)
	require.True(t, ok)

	_, err := FirstBlankRow(grid, layout)
	assert.ErrorIs(t, err, ErrTemplateFull)
}

func TestAllowanceRowValues(t *testing.T) {
	values := AllowanceRowValues(time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC), "Osaka")

	assert.Equal(t, [6]string{
		"2024/06/03",
		"Osaka",
		"2024/06/03 07:00",
		"2024/06/03 09:00",
		"2024/06/03 18:00",
		"2024/06/03 21:00",
	}, values)
}

func TestAllowanceSheets(t *testing.T) {
	single := []time.Time{time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC)}
	multi := append(single, time.Date(2024, time.June, 4, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, []string{SheetOneDay}, AllowanceSheets(single))
	assert.Equal(t, []string{SheetOneDay, SheetOvernight}, AllowanceSheets(multi))
}

func TestAllowanceFileName(t *testing.T) {
	name := AllowanceFileName("Yamada", time.Date(2024, time.June, 3, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "BT-Allowance-Yamada-20240603.xlsx", name)
}
