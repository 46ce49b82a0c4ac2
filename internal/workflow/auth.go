package workflow

import (
	"printdesk/internal/constants"
	"printdesk/internal/storage"
)

func isElevated(actor storage.User) bool {
	return actor.Role == constants.RoleAdmin || actor.Role == constants.RoleHead
}

func hasAssignedStep(actor storage.User, step string) bool {
	for _, s := range actor.AssignedSteps {
		if s == step {
			return true
		}
	}
	return false
}

// CanAccessTicket reports whether the actor may open the ticket at all.
// Admins and production heads always pass. An operator needs the ticket's
// current step in their assigned set; when production has not started yet
// (no current step, ready_to_print), holding any of the ticket's active
// steps is enough.
func CanAccessTicket(t storage.Ticket, actor storage.User) bool {
	if isElevated(actor) {
		return true
	}

	if t.CurrentWorkflowStep != nil {
		return hasAssignedStep(actor, *t.CurrentWorkflowStep)
	}

	if t.Status == constants.StatusReadyToPrint {
		for _, def := range ActiveSteps(t.WorkflowConfig) {
			if hasAssignedStep(actor, def.Key) {
				return true
			}
		}
	}

	return false
}

// CanUpdateStep is the narrower per-step check used when selecting or
// submitting against a specific workflow step.
func CanUpdateStep(step string, actor storage.User) bool {
	if isElevated(actor) {
		return true
	}
	return hasAssignedStep(actor, step)
}
