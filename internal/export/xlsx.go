// Package export writes report pages as spreadsheets.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"coachreports/internal/i18n"
	"coachreports/internal/models"
)

const (
	maxSheetName = 31
	// built-in number format "0%"
	percentFormat = 9
	dateFormat    = "yyyy-mm-dd hh:mm"
)

// ReportWorkbook builds a one-sheet workbook with the rows of a report page
func ReportWorkbook(loc *i18n.Localizer, state *models.PageState) (*excelize.File, error) {
	f := excelize.NewFile()

	sheet := SheetName(state.Scope.Title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := []string{
		loc.T("report.col.name"),
		loc.T("report.col.kind"),
		loc.T("report.col.exercises"),
		loc.T("report.col.resources"),
		loc.T("report.col.exercise_progress"),
		loc.T("report.col.resource_progress"),
		loc.T("report.col.last_activity"),
		loc.T("report.col.time_spent_minutes"),
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}
	percentStyle, err := f.NewStyle(&excelize.Style{NumFmt: percentFormat})
	if err != nil {
		f.Close()
		return nil, err
	}
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: ptr(dateFormat)})
	if err != nil {
		f.Close()
		return nil, err
	}

	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		f.Close()
		return nil, err
	}

	for i, row := range state.Rows {
		r := i + 2
		values := []any{
			row.Title,
			loc.T("kind." + string(row.Kind)),
			row.ExerciseCount,
			row.ContentCount,
			row.ExerciseProgress,
			row.ContentProgress,
			"",
			math.Round(row.TimeSpent/60*10) / 10,
		}
		if row.LastActive != nil {
			values[6] = row.LastActive.UTC()
		}

		cell, _ := excelize.CoordinatesToCellName(1, r)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to write row %d: %w", r, err)
		}
	}

	if n := len(state.Rows); n > 0 {
		last := n + 1
		if err := f.SetCellStyle(sheet, "E2", fmt.Sprintf("F%d", last), percentStyle); err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetCellStyle(sheet, "G2", fmt.Sprintf("G%d", last), dateStyle); err != nil {
			f.Close()
			return nil, err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 40); err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetColWidth(sheet, "B", lastCol, 18); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

// WriteReport streams the report workbook to w
func WriteReport(w io.Writer, loc *i18n.Localizer, state *models.PageState) error {
	f, err := ReportWorkbook(loc, state)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SheetName makes title usable as a worksheet name
func SheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, strings.TrimSpace(title))

	// cut first so the trim also catches a quote left at the cut
	if runes := []rune(name); len(runes) > maxSheetName {
		name = string(runes[:maxSheetName])
	}
	name = strings.TrimSpace(strings.Trim(name, "'"))
	if name == "" {
		return "Report"
	}
	return name
}

// Filename is the download name for a report on title
func Filename(title string) string {
	return SheetName(title) + ".xlsx"
}

func ptr[T any](v T) *T { return &v }
