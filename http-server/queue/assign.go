package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"printdesk/internal/middleware/actor"
	"printdesk/internal/storage"
)

type Assigner interface {
	Assign(ctx context.Context, ticketID int64, actor storage.User, assign storage.AssignUsers) (*storage.TicketDetails, error)
}

func AssignUsers(log *slog.Logger, service Assigner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.queue.AssignUsers"

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

		var req storage.AssignUsers
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		details, err := service.Assign(ctx, id, user, req)
		if err != nil {
			log.Error("failed to assign users", slog.String("op", op),
				slog.Int64("ticket_id", id), slog.String("error", err.Error()))
			renderError(w, r, err)
			return
		}

		log.Info("users assigned", slog.Int64("ticket_id", id),
			slog.Int("count", len(req.UserIDs)))

		render.JSON(w, r, details)
	}
}
