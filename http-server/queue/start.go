package queue

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
)

type Starter interface {
	Start(ctx context.Context, ticketID int64, actor storage.User) (*storage.TicketDetails, error)
}

func StartTicket(log *slog.Logger, service Starter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.queue.StartTicket"

		id, err := strconv.ParseInt(chi.URLParam(r, "ticketId"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid ticket ID", http.StatusBadRequest)
			return
		}

		user, ok := actor.FromContext(r.Context())
		if !ok {
			http.Error(w, "no actor", http.StatusForbidden)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		details, err := service.Start(ctx, id, user)
		if err != nil {
			log.Error("failed to start ticket", slog.String("op", op),
				slog.Int64("ticket_id", id), slog.String("error", err.Error()))
			renderError(w, r, err)
			return
		}

		log.Info("ticket started", slog.Int64("ticket_id", id),
			slog.String("ticket_number", details.Ticket.TicketNumber))

		render.JSON(w, r, details)
	}
}
