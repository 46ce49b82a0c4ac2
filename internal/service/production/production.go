// Package production coordinates queue actions: it runs operator input
// through a workflow edit session, persists the result and pushes status
// events. Ticket authority stays in storage; nothing here caches state
// between requests.
package production

import (
	"context"
	"fmt"

	"printdesk/internal/constants"
	"printdesk/internal/events"
	"printdesk/internal/storage"
	"printdesk/internal/workflow"
)

type Storage interface {
	GetTicketDetails(ctx context.Context, id int64) (*storage.TicketDetails, error)
	StartTicket(ctx context.Context, id int64, firstStep *string, status string) error
	ApplyProgressUpdate(ctx context.Context, id int64, update storage.ProgressUpdate) error
	CompleteTicket(ctx context.Context, id int64) error
	AssignUsers(ctx context.Context, id int64, assign storage.AssignUsers) error
}

type Publisher interface {
	Publish(ev events.TicketEvent)
}

type Service struct {
	storage    Storage
	publisher  Publisher
	uploadsDir string
}

func NewService(storage Storage, publisher Publisher, uploadsDir string) *Service {
	return &Service{storage: storage, publisher: publisher, uploadsDir: uploadsDir}
}

// UpdateInput is the decoded /queue/{id}/update body. Step is optional: when
// absent the ticket's current step (or the legacy counter) is used.
type UpdateInput struct {
	Step           *string
	Quantity       int
	UserQuantities []storage.UserQuantity
	Evidence       []EvidenceUpload
}

// Start moves a ready ticket into production on the first active step of its
// job type. Tickets whose job type activates no steps enter production with
// no step and fall back to the legacy counter.
func (s *Service) Start(ctx context.Context, ticketID int64, actor storage.User) (*storage.TicketDetails, error) {
	details, err := s.storage.GetTicketDetails(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	if !workflow.CanAccessTicket(details.Ticket, actor) {
		return nil, &workflow.AuthorizationError{Reason: "no access to this ticket"}
	}
	if details.Ticket.Status != constants.StatusReadyToPrint {
		return nil, &workflow.ValidationError{
			Field:  "status",
			Reason: fmt.Sprintf("ticket is %s, only ready_to_print tickets can be started", details.Ticket.Status),
		}
	}

	var firstStep *string
	if first := workflow.FirstStep(details.Ticket.WorkflowConfig); first != "" {
		firstStep = &first
	}

	if err := s.storage.StartTicket(ctx, ticketID, firstStep, constants.StatusInProduction); err != nil {
		return nil, err
	}

	s.publisher.Publish(events.TicketEvent{
		Type:         events.TicketStatusChanged,
		TicketID:     details.Ticket.ID,
		TicketNumber: details.Ticket.TicketNumber,
		Status:       constants.StatusInProduction,
	})

	return s.storage.GetTicketDetails(ctx, ticketID)
}

// Update validates and persists one progress submission. A completed status
// coming out of the session is recorded as last-step eligibility (the step
// row is marked complete); the ticket's terminal transition stays behind
// Complete.
func (s *Service) Update(ctx context.Context, ticketID int64, actor storage.User, input UpdateInput) (*storage.TicketDetails, error) {
	details, err := s.storage.GetTicketDetails(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	// completed is terminal, no submission may pull the ticket back
	if details.Ticket.Status == constants.StatusCompleted {
		return nil, &workflow.ValidationError{
			Field:  "status",
			Reason: "ticket is already completed",
		}
	}

	session, err := workflow.NewEditSession(*details, actor)
	if err != nil {
		return nil, err
	}

	if input.Step != nil {
		if err := session.SelectStep(*input.Step); err != nil {
			return nil, err
		}
	}

	session.Quantity = input.Quantity
	for _, uq := range input.UserQuantities {
		if err := session.SetAttribution(uq.UserID, uq.QuantityProduced); err != nil {
			return nil, err
		}
	}

	// validate before touching the disk or the database
	update, err := session.BuildUpdate()
	if err != nil {
		return nil, err
	}

	saved, err := s.saveEvidence(ticketID, input.Evidence)
	if err != nil {
		return nil, err
	}
	update.EvidenceFiles = saved

	if update.Status == constants.StatusCompleted {
		update.Status = constants.StatusInProduction
	}

	if err := s.storage.ApplyProgressUpdate(ctx, ticketID, update); err != nil {
		// no metadata row was written, drop the files too
		s.removeEvidence(ticketID, saved)
		return nil, err
	}

	s.publisher.Publish(events.TicketEvent{
		Type:         events.TicketStatusChanged,
		TicketID:     details.Ticket.ID,
		TicketNumber: details.Ticket.TicketNumber,
		Status:       update.Status,
	})

	return s.storage.GetTicketDetails(ctx, ticketID)
}

// Complete is the explicit terminal transition: last active step recorded at
// full quantity, actor allowed on that step.
func (s *Service) Complete(ctx context.Context, ticketID int64, actor storage.User) (*storage.TicketDetails, error) {
	details, err := s.storage.GetTicketDetails(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	t := details.Ticket

	if t.Status == constants.StatusCompleted {
		return nil, &workflow.ValidationError{Field: "status", Reason: "ticket is already completed"}
	}

	steps := workflow.ActiveSteps(t.WorkflowConfig)
	if len(steps) > 0 {
		last := steps[len(steps)-1].Key
		if !workflow.CanUpdateStep(last, actor) {
			return nil, &workflow.AuthorizationError{Reason: fmt.Sprintf("step %q is not in your assigned steps", last)}
		}
	} else if !workflow.CanAccessTicket(t, actor) {
		return nil, &workflow.AuthorizationError{Reason: "no access to this ticket"}
	}

	if !workflow.CompleteEligible(*details) {
		return nil, &workflow.ValidationError{
			Field:  "produced_quantity",
			Reason: "the final step has not reached the total quantity",
		}
	}

	if err := s.storage.CompleteTicket(ctx, ticketID); err != nil {
		return nil, err
	}

	// stock deduction is driven off this event by the inventory side
	s.publisher.Publish(events.TicketEvent{
		Type:         events.TicketStatusChanged,
		TicketID:     t.ID,
		TicketNumber: t.TicketNumber,
		Status:       constants.StatusCompleted,
	})

	return s.storage.GetTicketDetails(ctx, ticketID)
}

// Assign replaces the ticket's user assignment set. Only admins and
// production heads assign.
func (s *Service) Assign(ctx context.Context, ticketID int64, actor storage.User, assign storage.AssignUsers) (*storage.TicketDetails, error) {
	if actor.Role != constants.RoleAdmin && actor.Role != constants.RoleHead {
		return nil, &workflow.AuthorizationError{Reason: "only admins and heads assign users"}
	}
	if assign.WorkflowStep != nil && !constants.IsKnownStep(*assign.WorkflowStep) {
		return nil, &workflow.ValidationError{
			Field:  "workflow_step",
			Reason: fmt.Sprintf("unknown workflow step %q", *assign.WorkflowStep),
		}
	}

	if err := s.storage.AssignUsers(ctx, ticketID, assign); err != nil {
		return nil, err
	}
	return s.storage.GetTicketDetails(ctx, ticketID)
}
