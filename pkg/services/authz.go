package services

import (
	"github.com/promptvault-io/promptvault-engine/pkg/apperrors"
	"github.com/promptvault-io/promptvault-engine/pkg/models"
)

// Action is an operation class checked against the visibility policy.
type Action int

const (
	// ActionRead is fetching a prompt's representation.
	ActionRead Action = iota
	// ActionModify is editing content, including upsert-by-id and revert.
	ActionModify
	// ActionModerate is approving or rejecting.
	ActionModerate
	// ActionReadHistory is listing a prompt's archived versions.
	ActionReadHistory
)

// Decision is the outcome of an authorization check.
type Decision int

const (
	DecisionAllowed Decision = iota
	DecisionForbidden
	// DecisionNotFound means access is denied and the prompt's existence
	// must not be revealed to the requester.
	DecisionNotFound
)

// Authorize is the single policy gate called before every guarded prompt
// operation.
//
// Staff can do everything. Owners can read, modify and browse history of
// their own prompts but cannot moderate them. Everyone else can read
// approved prompts only; denied reads and modifications of hidden prompts
// come back as NotFound so their existence does not leak. History is the
// deliberate exception: non-owners get Forbidden whether or not the prompt
// is visible.
func Authorize(actor *models.User, prompt *models.Prompt, action Action) Decision {
	if actor.IsStaff {
		return DecisionAllowed
	}

	owner := prompt.UserID == actor.ID

	switch action {
	case ActionRead:
		if owner || prompt.Status == models.StatusApproved {
			return DecisionAllowed
		}
		return DecisionNotFound

	case ActionModify:
		if owner {
			return DecisionAllowed
		}
		if prompt.Status == models.StatusApproved {
			return DecisionForbidden
		}
		return DecisionNotFound

	case ActionModerate:
		return DecisionForbidden

	case ActionReadHistory:
		if owner {
			return DecisionAllowed
		}
		return DecisionForbidden
	}

	return DecisionForbidden
}

// decisionErr converts a denial into the matching domain error. Callers
// must not invoke it with DecisionAllowed.
func decisionErr(d Decision) error {
	if d == DecisionNotFound {
		return apperrors.ErrNotFound
	}
	return apperrors.ErrForbidden
}
