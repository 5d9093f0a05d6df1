package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"innovation-portal-api/models"
	"innovation-portal-api/utils"
)

// ValidateWorkflowStages trims and checks stage names for a new workflow
// version and returns the cleaned names in input order.
func ValidateWorkflowStages(names []string) ([]string, error) {
	if len(names) < models.MinWorkflowStage || len(names) > models.MaxWorkflowStage {
		return nil, ValidationFailed(FieldError{
			Field:   "stages",
			Message: fmt.Sprintf("must contain between %d and %d stages", models.MinWorkflowStage, models.MaxWorkflowStage),
		})
	}

	var fields []FieldError
	cleaned := make([]string, len(names))
	seen := make(map[string]int, len(names))
	for i, raw := range names {
		name := utils.SanitizeInput(raw)
		cleaned[i] = name
		field := fmt.Sprintf("stages[%d].name", i)
		switch {
		case name == "":
			fields = append(fields, FieldError{Field: field, Message: "is required"})
			continue
		case utf8.RuneCountInString(name) > models.MaxStageNameSize:
			fields = append(fields, FieldError{Field: field, Message: fmt.Sprintf("must be at most %d characters", models.MaxStageNameSize)})
		}
		key := strings.ToLower(name)
		if first, dup := seen[key]; dup {
			fields = append(fields, FieldError{Field: field, Message: fmt.Sprintf("duplicates stages[%d].name", first)})
			continue
		}
		seen[key] = i
	}
	if len(fields) > 0 {
		return nil, ValidationFailed(fields...)
	}
	return cleaned, nil
}

// TransitionInput is the raw transition request body.
type TransitionInput struct {
	Action               string  `json:"action"`
	ExpectedStateVersion *int    `json:"expectedStateVersion"`
	Comment              *string `json:"comment"`
}

// ValidateTransitionInput parses the action, version and comment.
func ValidateTransitionInput(in TransitionInput) (models.ReviewAction, int, *string, error) {
	var fields []FieldError
	action, ok := models.ParseReviewAction(in.Action)
	if !ok {
		fields = append(fields, FieldError{Field: "action", Message: "must be one of advance, return, hold, terminal_accept, terminal_reject"})
	}
	version := 0
	if in.ExpectedStateVersion == nil || *in.ExpectedStateVersion < 1 {
		fields = append(fields, FieldError{Field: "expectedStateVersion", Message: "must be a positive integer"})
	} else {
		version = *in.ExpectedStateVersion
	}
	comment, err := normalizeComment(in.Comment, models.MaxEventComment)
	if err != nil {
		fields = append(fields, FieldError{Field: "comment", Message: err.Error()})
	}
	if len(fields) > 0 {
		return "", 0, nil, ValidationFailed(fields...)
	}
	return action, version, comment, nil
}

// ScoreInput is the raw score request body.
type ScoreInput struct {
	Score   *int    `json:"score"`
	Comment *string `json:"comment"`
}

// ValidateScoreInput checks the score range and comment length.
func ValidateScoreInput(in ScoreInput) (int, *string, error) {
	var fields []FieldError
	score := 0
	if in.Score == nil || *in.Score < models.MinScore || *in.Score > models.MaxScore {
		fields = append(fields, FieldError{Field: "score", Message: fmt.Sprintf("must be an integer between %d and %d", models.MinScore, models.MaxScore)})
	} else {
		score = *in.Score
	}
	comment, err := normalizeComment(in.Comment, models.MaxScoreComment)
	if err != nil {
		fields = append(fields, FieldError{Field: "comment", Message: err.Error()})
	}
	if len(fields) > 0 {
		return 0, nil, ValidationFailed(fields...)
	}
	return score, comment, nil
}

// normalizeComment trims the comment; empty becomes nil.
func normalizeComment(raw *string, max int) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	trimmed := utils.SanitizeInput(*raw)
	if trimmed == "" {
		return nil, nil
	}
	if !utils.WithinLength(trimmed, max) {
		return nil, fmt.Errorf("must be at most %d characters", max)
	}
	return &trimmed, nil
}
