package bot

import (
	"fmt"
	"strings"

	"github.com/infun-course/tutorbot/internal/services"
)

// splitList splits a delimiter-separated option value, trimming each part
// and dropping blanks.
func splitList(raw, sep string) []string {
	var out []string
	for _, part := range strings.Split(raw, sep) {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// splitPositional splits like splitList but keeps blank parts, because the
// position of each element matters.
func splitPositional(raw, sep string) []string {
	parts := strings.Split(raw, sep)
	for n, part := range parts {
		parts[n] = strings.TrimSpace(part)
	}
	return parts
}

// parseQuestions turns the questions/answers option pair of
// /create-complex-survey into a question sequence. Prompts are separated
// by semicolons. Answer sets are semicolon-separated too, one per
// question, each a comma-separated list; a blank set means free text.
func parseQuestions(prompts, answers string) ([]services.Question, error) {
	promptList := splitList(prompts, ";")
	if len(promptList) == 0 {
		return nil, fmt.Errorf("no questions given")
	}

	questions := make([]services.Question, len(promptList))
	for n, prompt := range promptList {
		questions[n] = services.Question{Prompt: prompt}
	}

	if strings.TrimSpace(answers) == "" {
		return questions, nil
	}
	answerSets := splitPositional(answers, ";")
	if len(answerSets) != len(promptList) {
		return nil, fmt.Errorf("have %d questions but %d answer sets", len(promptList), len(answerSets))
	}
	for n, set := range answerSets {
		questions[n].Answers = splitList(set, ",")
	}
	return questions, nil
}
