package services

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// BuildTallyWorkbook renders a survey tally as a spreadsheet for tutors
// who want the numbers outside Discord.
func BuildTallyWorkbook(t *SurveyTally) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Results"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	setCell := func(col, row int, v any) error {
		cell, err := excelize.CoordinatesToCellName(col, row)
		if err != nil {
			return err
		}
		return f.SetCellValue(sheet, cell, v)
	}

	title := t.Survey.ID
	if t.Survey.Topic != "" {
		title = fmt.Sprintf("%s (%s)", t.Survey.Topic, t.Survey.ID)
	}
	if err := setCell(1, 1, "Survey"); err != nil {
		return nil, err
	}
	if err := setCell(2, 1, title); err != nil {
		return nil, err
	}
	if err := setCell(1, 2, "Responses"); err != nil {
		return nil, err
	}
	if err := setCell(2, 2, t.Responses); err != nil {
		return nil, err
	}

	row := 4
	for qi, q := range t.Questions {
		if err := setCell(1, row, fmt.Sprintf("%d. %s", qi+1, q.Prompt)); err != nil {
			return nil, err
		}
		row++
		if q.Options != nil {
			for _, opt := range q.Options {
				if err := setCell(1, row, opt); err != nil {
					return nil, err
				}
				if err := setCell(2, row, q.Counts[opt]); err != nil {
					return nil, err
				}
				row++
			}
		} else {
			for _, text := range q.Texts {
				if err := setCell(1, row, text); err != nil {
					return nil, err
				}
				row++
			}
		}
		row++
	}

	if err := f.SetColWidth(sheet, "A", "A", 48); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	return f, nil
}

// BuildFeedbackWorkbook renders a tutor session's feedback log as a
// spreadsheet, one entry per row.
func BuildFeedbackWorkbook(sessionID string, entries []*FeedbackEntry) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Feedback"
	if s := strings.TrimSpace(sessionID); s != "" {
		// Sheet names are capped at 31 characters by the xlsx format.
		sheet = fmt.Sprintf("Feedback %.22s", s)
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := []string{"Submitter", "Content", "Submitted at"}
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}
	for i, e := range entries {
		values := []any{e.Submitter, e.Content, e.SubmittedAt.Format("2006-01-02 15:04:05")}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if err := f.SetColWidth(sheet, "B", "B", 64); err != nil {
		return nil, fmt.Errorf("set column width: %w", err)
	}
	return f, nil
}
