package models

import "strings"

// Role is the portal role attached to a user by the auth provider.
type Role string

const (
	RoleSubmitter Role = "submitter"
	RoleEvaluator Role = "evaluator"
	RoleAdmin     Role = "admin"
)

// ParseRole maps a stored role string onto the closed role set.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleSubmitter:
		return RoleSubmitter, true
	case RoleEvaluator:
		return RoleEvaluator, true
	case RoleAdmin:
		return RoleAdmin, true
	}
	return "", false
}

// IsReviewer reports whether the role takes part in reviewing ideas.
func (r Role) IsReviewer() bool {
	return r == RoleAdmin || r == RoleEvaluator
}
