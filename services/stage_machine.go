package services

import (
	"fmt"

	"innovation-portal-api/models"
)

// ResolveTransition returns the stage an idea moves to when action is applied
// at currentStageID. advance and return move one position; hold and terminal
// actions keep the current stage.
func ResolveTransition(workflow *models.WorkflowWithStages, currentStageID uint, action models.ReviewAction) (models.ReviewStage, error) {
	if workflow == nil {
		return models.ReviewStage{}, invalidTransition("workflow not found")
	}
	current, ok := workflow.StageByID(currentStageID)
	if !ok {
		return models.ReviewStage{}, invalidTransition(fmt.Sprintf("current stage %d is not part of workflow %d", currentStageID, workflow.ID))
	}

	switch action {
	case models.ActionAdvance:
		next, ok := workflow.StageAt(current.Position + 1)
		if !ok {
			return models.ReviewStage{}, invalidTransition("cannot advance past the last stage")
		}
		return next, nil
	case models.ActionReturn:
		prev, ok := workflow.StageAt(current.Position - 1)
		if !ok {
			return models.ReviewStage{}, invalidTransition("cannot return from the first stage")
		}
		return prev, nil
	case models.ActionHold, models.ActionTerminalAccept, models.ActionTerminalReject:
		return current, nil
	}
	return models.ReviewStage{}, invalidTransition(fmt.Sprintf("unknown action %q", action))
}
