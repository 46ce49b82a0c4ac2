package workflow

import (
	"fmt"
	"sort"

	"printdesk/internal/constants"
	"printdesk/internal/storage"
)

// EditSession is one operator's progress-entry session against one ticket.
// It is built fresh per request from the authoritative ticket aggregate,
// validated locally, and turned into a single ProgressUpdate. It never
// mutates the ticket itself.
//
// Multi-user attribution mode is fixed at session open: a ticket with
// assigned users takes per-user quantities, everything else takes the single
// input. The two modes are mutually exclusive.
type EditSession struct {
	ticket   storage.Ticket
	actor    storage.User
	progress map[string]storage.StepProgress

	multiUser bool

	// CurrentStep is "" for tickets whose job type activates no steps; those
	// fall back to the legacy single produced counter.
	CurrentStep  string
	Quantity     int
	Attributions map[int64]int
	Evidence     []storage.EvidenceFile
}

// NewEditSession opens a session for the actor on the ticket. The editable
// quantity starts from what the backend already knows for the ticket's
// current step (or the legacy counter when no steps are active).
func NewEditSession(details storage.TicketDetails, actor storage.User) (*EditSession, error) {
	t := details.Ticket

	if !CanAccessTicket(t, actor) {
		return nil, &AuthorizationError{Reason: "no access to this ticket"}
	}

	s := &EditSession{
		ticket:       t,
		actor:        actor,
		progress:     make(map[string]storage.StepProgress, len(details.Progress)),
		multiUser:    len(details.AssignedUsers) > 0,
		Attributions: make(map[int64]int),
	}
	for _, p := range details.Progress {
		s.progress[p.WorkflowStep] = p
	}

	switch {
	case t.CurrentWorkflowStep != nil:
		s.CurrentStep = *t.CurrentWorkflowStep
		s.Quantity = s.progress[s.CurrentStep].CompletedQuantity
	case len(ActiveSteps(t.WorkflowConfig)) == 0:
		s.Quantity = t.ProducedQuantity
	default:
		s.CurrentStep = FirstStep(t.WorkflowConfig)
		s.Quantity = s.progress[s.CurrentStep].CompletedQuantity
	}

	return s, nil
}

// MultiUser reports whether this session takes per-user attributions.
func (s *EditSession) MultiUser() bool {
	return s.multiUser
}

// SelectStep switches the session to another active step, forward or backward.
// The pending edit is replaced by the step's recorded quantity (0 when the
// step was never visited); switching does not warn about unsaved input.
func (s *EditSession) SelectStep(step string) error {
	if !IsActiveStep(s.ticket.WorkflowConfig, step) {
		return &ValidationError{Field: "current_workflow_step", Reason: fmt.Sprintf("step %q is not active for this job type", step)}
	}
	if !CanUpdateStep(step, s.actor) {
		return &AuthorizationError{Reason: fmt.Sprintf("step %q is not in your assigned steps", step)}
	}

	s.CurrentStep = step
	s.Quantity = s.progress[step].CompletedQuantity
	s.Attributions = make(map[int64]int)
	s.Evidence = nil
	return nil
}

// SetAttribution records one user's share of the current step quantity.
func (s *EditSession) SetAttribution(userID int64, quantity int) error {
	if quantity < 0 {
		return &ValidationError{Field: "user_quantities", Reason: "quantity must not be negative"}
	}
	s.Attributions[userID] = quantity
	return nil
}

// EffectiveQuantity is the value submissions are judged by: the attribution
// sum in multi-user mode (when any attribution was entered), the single
// input otherwise.
func (s *EditSession) EffectiveQuantity() int {
	if s.multiUser && len(s.Attributions) > 0 {
		total := 0
		for _, q := range s.Attributions {
			total += q
		}
		return total
	}
	return s.Quantity
}

// DetermineStatus computes the status a submission carries: completed only
// when the quantity has reached the target on the final active step,
// in_production everywhere else. The terminal ticket transition itself stays
// behind the explicit complete action.
func DetermineStatus(config map[string]bool, step string, quantity, total int) string {
	if quantity >= total && step != "" && IsLastStep(config, step) {
		return constants.StatusCompleted
	}
	return constants.StatusInProduction
}

// BuildUpdate validates the pending edit and shapes it into the update
// request sent to storage. The session itself stays untouched, so a rejected
// submission keeps the operator's input for retry.
func (s *EditSession) BuildUpdate() (storage.ProgressUpdate, error) {
	if s.CurrentStep != "" && !CanUpdateStep(s.CurrentStep, s.actor) {
		return storage.ProgressUpdate{}, &AuthorizationError{
			Reason: fmt.Sprintf("step %q is not in your assigned steps", s.CurrentStep),
		}
	}

	quantity := s.EffectiveQuantity()
	total := s.ticket.TotalQuantity()

	if quantity < 0 {
		return storage.ProgressUpdate{}, &ValidationError{Field: "produced_quantity", Reason: "quantity must not be negative"}
	}
	if quantity > total {
		return storage.ProgressUpdate{}, &ValidationError{
			Field:  "produced_quantity",
			Reason: fmt.Sprintf("quantity %d exceeds total of %d", quantity, total),
		}
	}

	update := storage.ProgressUpdate{
		Quantity:      quantity,
		Status:        DetermineStatus(s.ticket.WorkflowConfig, s.CurrentStep, quantity, total),
		StepCompleted: quantity >= total,
		EvidenceFiles: s.Evidence,
	}

	if s.CurrentStep != "" {
		step := s.CurrentStep
		update.WorkflowStep = &step
	}

	if s.multiUser && len(s.Attributions) > 0 {
		ids := make([]int64, 0, len(s.Attributions))
		for id := range s.Attributions {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
		for _, id := range ids {
			update.UserQuantities = append(update.UserQuantities, storage.UserQuantity{
				UserID:           id,
				QuantityProduced: s.Attributions[id],
			})
		}
	}

	return update, nil
}

// CompleteEligible reports whether the explicit complete action may be
// offered: the ticket's last active step recorded at full quantity.
func CompleteEligible(details storage.TicketDetails) bool {
	t := details.Ticket
	steps := ActiveSteps(t.WorkflowConfig)
	if len(steps) == 0 {
		return t.ProducedQuantity >= t.TotalQuantity()
	}

	last := steps[len(steps)-1].Key
	for _, p := range details.Progress {
		if p.WorkflowStep == last {
			return p.CompletedQuantity >= t.TotalQuantity()
		}
	}
	return false
}
