package xlsx

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"vila-timesheet/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "timesheet.xlsx")
	s, err := Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestOpen_ShouldCreateMissingWorkbook(t *testing.T) {
	s, path := openTemp(t)

	info, err := s.Info(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "timesheet", info.Title)
	assert.Equal(t, "xlsx", info.Backend)
	assert.FileExists(t, path)
}

func TestStore_Worksheets(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)

	_, err := s.GetWorksheet(ctx, "January 2026")
	assert.ErrorIs(t, err, store.ErrWorksheetNotFound)

	ws, err := s.CreateWorksheet(ctx, "January 2026", 75, 64)
	require.NoError(t, err)
	assert.Equal(t, 75, ws.Rows)

	got, err := s.GetWorksheet(ctx, "January 2026")
	require.NoError(t, err)
	assert.Equal(t, "January 2026", got.Title)

	list, err := s.ListWorksheets(ctx)
	require.NoError(t, err)
	titles := make([]string, 0, len(list))
	for _, w := range list {
		titles = append(titles, w.Title)
	}
	assert.Contains(t, titles, "January 2026")

	_, err = s.CreateWorksheet(ctx, "January 2026", 75, 64)
	assert.Error(t, err)
}

func TestStore_WritesShouldPersist(t *testing.T) {
	// Arrange
	ctx := context.Background()
	s, path := openTemp(t)
	ws, err := s.CreateWorksheet(ctx, "January 2026", 75, 64)
	require.NoError(t, err)

	// Act
	require.NoError(t, s.WriteCell(ctx, ws, 5, 3, "01/28/2026"))
	require.NoError(t, s.WriteCell(ctx, ws, 6, 3, 8.0))
	require.NoError(t, s.WriteCell(ctx, ws, 2, 3, 500.0))
	require.NoError(t, s.WriteRange(ctx, ws, "C3:C4",
		[][]string{{"=SUM(C6:C75)"}, {"=IF(C3=0,0,C2/C3)"}},
		store.WriteOptions{TreatAsFormula: true}))

	// Assert
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("January 2026", "C5")
	require.NoError(t, err)
	assert.Equal(t, "01/28/2026", header)

	formula, err := f.GetCellFormula("January 2026", "C3")
	require.NoError(t, err)
	assert.Equal(t, "SUM(C6:C75)", formula)
}

func TestStore_ReadRange(t *testing.T) {
	ctx := context.Background()
	s, _ := openTemp(t)
	ws, err := s.CreateWorksheet(ctx, "January 2026", 75, 64)
	require.NoError(t, err)
	require.NoError(t, s.WriteCell(ctx, ws, 6, 3, 8.0))
	require.NoError(t, s.WriteCell(ctx, ws, 2, 3, 500.0))
	require.NoError(t, s.WriteRange(ctx, ws, "C3:C4",
		[][]string{{"=SUM(C6:C75)"}, {"=IF(C3=0,0,C2/C3)"}},
		store.WriteOptions{TreatAsFormula: true}))
	require.NoError(t, s.WriteRange(ctx, ws, "B6:B7", [][]string{{"John Doe"}, {"Jane Roe"}}, store.WriteOptions{}))

	t.Run("should return formula text when asked", func(t *testing.T) {
		grid, err := s.ReadRange(ctx, ws, "C3:C4", store.ReadOptions{Formulas: true})
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"=SUM(C6:C75)"}, {"=IF(C3=0,0,C2/C3)"}}, grid)
	})

	t.Run("should evaluate formulas otherwise", func(t *testing.T) {
		grid, err := s.ReadRange(ctx, ws, "C3", store.ReadOptions{})
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"8"}}, grid)
	})

	t.Run("should drop trailing empty rows", func(t *testing.T) {
		grid, err := s.ReadRange(ctx, ws, "B6:B75", store.ReadOptions{})
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"John Doe"}, {"Jane Roe"}}, grid)
	})

	t.Run("should fail on a missing sheet", func(t *testing.T) {
		_, err := s.ReadRange(ctx, store.Worksheet{Title: "Nope"}, "A1", store.ReadOptions{})
		assert.ErrorIs(t, err, store.ErrWorksheetNotFound)
	})
}

func TestStore_Cosmetics(t *testing.T) {
	ctx := context.Background()
	s, path := openTemp(t)
	ws, err := s.CreateWorksheet(ctx, "January 2026", 75, 64)
	require.NoError(t, err)

	require.NoError(t, s.ApplyFormatting(ctx, ws, "A5:BL5", store.Style{Bold: true, Background: "E6E6E6"}))
	require.NoError(t, s.FreezePanes(ctx, ws, 5, 2))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	panes, err := f.GetPanes("January 2026")
	require.NoError(t, err)
	assert.True(t, panes.Freeze)
	assert.Equal(t, 5, panes.YSplit)
	assert.Equal(t, 2, panes.XSplit)
	assert.Equal(t, "C6", panes.TopLeftCell)
}

func TestStore_FormulasWrittenAfterValuesShouldEvaluate(t *testing.T) {
	// Arrange
	ctx := context.Background()
	s, path := openTemp(t)
	ws, err := s.CreateWorksheet(ctx, "January 2026", 75, 64)
	require.NoError(t, err)
	require.NoError(t, s.WriteCell(ctx, ws, 6, 3, 8.0))
	require.NoError(t, s.WriteCell(ctx, ws, 7, 3, 4.5))
	require.NoError(t, s.WriteCell(ctx, ws, 2, 3, 250.0))

	// Act
	require.NoError(t, s.WriteRange(ctx, ws, "C3:C4",
		[][]string{{"=SUM(C6:C75)"}, {"=IF(C3=0,0,C2/C3)"}},
		store.WriteOptions{TreatAsFormula: true}))
	grid, err := s.ReadRange(ctx, ws, "C3:C4", store.ReadOptions{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"12.5"}, {"20"}}, grid)

	t.Run("should evaluate the same after reopening the file", func(t *testing.T) {
		reopened, err := Open(path, nil)
		require.NoError(t, err)
		defer reopened.Close()

		grid, err := reopened.ReadRange(ctx, ws, "C3:C4", store.ReadOptions{})
		require.NoError(t, err)
		assert.Equal(t, [][]string{{"12.5"}, {"20"}}, grid)
	})
}
