package models

import "strings"

// ReviewAction is a transition request against an idea's stage state.
type ReviewAction string

const (
	ActionAdvance        ReviewAction = "advance"
	ActionReturn         ReviewAction = "return"
	ActionHold           ReviewAction = "hold"
	ActionTerminalAccept ReviewAction = "terminal_accept"
	ActionTerminalReject ReviewAction = "terminal_reject"
)

// ReviewActions lists every accepted action in display order.
var ReviewActions = []ReviewAction{
	ActionAdvance,
	ActionReturn,
	ActionHold,
	ActionTerminalAccept,
	ActionTerminalReject,
}

// ParseReviewAction validates an action string from a request body.
func ParseReviewAction(raw string) (ReviewAction, bool) {
	candidate := ReviewAction(strings.ToLower(strings.TrimSpace(raw)))
	for _, action := range ReviewActions {
		if action == candidate {
			return action, true
		}
	}
	return "", false
}

// IsTerminal reports whether the action closes the review.
func (a ReviewAction) IsTerminal() bool {
	return a == ActionTerminalAccept || a == ActionTerminalReject
}

// Outcome returns the terminal outcome written by a terminal action.
func (a ReviewAction) Outcome() *TerminalOutcome {
	var outcome TerminalOutcome
	switch a {
	case ActionTerminalAccept:
		outcome = OutcomeAccepted
	case ActionTerminalReject:
		outcome = OutcomeRejected
	default:
		return nil
	}
	return &outcome
}

// TerminalOutcome is the final decision recorded on a stage state.
type TerminalOutcome string

const (
	OutcomeAccepted TerminalOutcome = "accepted"
	OutcomeRejected TerminalOutcome = "rejected"
)
