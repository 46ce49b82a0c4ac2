package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"printdesk/internal/middleware/actor"
	"printdesk/internal/storage"
	"printdesk/internal/workflow"
)

type TicketList interface {
	GetTickets(ctx context.Context, filter storage.TicketFilter) ([]storage.Ticket, error)
}

type TicketDetails interface {
	GetTicketByNumber(ctx context.Context, number string) (storage.Ticket, error)
	GetTicketDetails(ctx context.Context, id int64) (*storage.TicketDetails, error)
}

// GetTicketsFilter lists tickets, narrowed to what the actor may see.
// Admins and heads get everything; operators only tickets whose current step
// (or, before start, any active step) is assigned to them.
func GetTicketsFilter(log *slog.Logger, tickets TicketList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tickets.get.GetTicketsFilter"

		user, ok := actor.FromContext(r.Context())
		if !ok {
			http.Error(w, "no actor", http.StatusForbidden)
			return
		}

		filter := storage.TicketFilter{
			Status:       r.URL.Query().Get("status"),
			WorkflowStep: r.URL.Query().Get("workflow_step"),
		}
		if v := r.URL.Query().Get("customer_id"); v != "" {
			customerID, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				http.Error(w, "Invalid customer_id", http.StatusBadRequest)
				return
			}
			filter.CustomerID = customerID
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		all, err := tickets.GetTickets(ctx, filter)
		if err != nil {
			log.Error("failed to list tickets", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		visible := make([]storage.Ticket, 0, len(all))
		for _, t := range all {
			if workflow.CanAccessTicket(t, user) {
				visible = append(visible, t)
			}
		}

		render.JSON(w, r, visible)
	}
}

func GetTicketByNumber(log *slog.Logger, tickets TicketDetails) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.tickets.get.GetTicketByNumber"

		user, ok := actor.FromContext(r.Context())
		if !ok {
			http.Error(w, "no actor", http.StatusForbidden)
			return
		}

		number := chi.URLParam(r, "ticketNumber")

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		ticket, err := tickets.GetTicketByNumber(ctx, number)
		if err != nil {
			log.Error("ticket not found", slog.String("op", op),
				slog.String("ticket_number", number), slog.String("error", err.Error()))
			http.Error(w, "Ticket not found", http.StatusNotFound)
			return
		}

		if !workflow.CanAccessTicket(ticket, user) {
			http.Error(w, "no access to this ticket", http.StatusForbidden)
			return
		}

		details, err := tickets.GetTicketDetails(ctx, ticket.ID)
		if err != nil {
			log.Error("failed to load ticket details", slog.String("op", op),
				slog.Int64("ticket_id", ticket.ID), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, details)
	}
}
