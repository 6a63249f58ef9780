package services

import (
	"testing"
	"time"
)

func TestBuildTallyWorkbook(t *testing.T) {
	tally := &SurveyTally{
		Survey: &Survey{
			ID:    "SV1",
			Topic: "T01E01",
			Questions: []Question{
				{Prompt: "Did you attend?", Answers: []string{"yes", "no"}},
				{Prompt: "Any comments?"},
			},
		},
		Responses: 2,
		Questions: []QuestionTally{
			{
				Prompt:  "Did you attend?",
				Options: []string{"yes", "no"},
				Counts:  map[string]int{"yes": 2, "no": 0},
			},
			{
				Prompt: "Any comments?",
				Texts:  []string{"great", "too fast"},
			},
		},
	}

	f, err := BuildTallyWorkbook(tally)
	if err != nil {
		t.Fatalf("BuildTallyWorkbook returned error: %v", err)
	}
	defer f.Close()

	if got := f.GetSheetName(0); got != "Results" {
		t.Fatalf("sheet name = %q, want Results", got)
	}
	title, err := f.GetCellValue("Results", "B1")
	if err != nil {
		t.Fatalf("read title: %v", err)
	}
	if title != "T01E01 (SV1)" {
		t.Fatalf("title = %q, want T01E01 (SV1)", title)
	}
	yes, err := f.GetCellValue("Results", "B5")
	if err != nil {
		t.Fatalf("read yes count: %v", err)
	}
	if yes != "2" {
		t.Fatalf("yes count cell = %q, want 2", yes)
	}
}

func TestBuildFeedbackWorkbook(t *testing.T) {
	entries := []*FeedbackEntry{
		{SessionID: "TS-7", Submitter: "u1", Content: "good session", SubmittedAt: time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)},
		{SessionID: "TS-7", Submitter: "u2", Content: "too fast", SubmittedAt: time.Date(2026, 8, 23, 12, 5, 0, 0, time.UTC)},
	}

	f, err := BuildFeedbackWorkbook("TS-7", entries)
	if err != nil {
		t.Fatalf("BuildFeedbackWorkbook returned error: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want header plus 2 entries", len(rows))
	}
	if rows[0][0] != "Submitter" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][1] != "good session" || rows[2][1] != "too fast" {
		t.Fatalf("entry rows out of order: %v", rows[1:])
	}
}
