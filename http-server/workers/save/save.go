package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"printdesk/internal/constants"
	"printdesk/internal/storage"
)

type WorkerSaver interface {
	SaveUser(ctx context.Context, user storage.SaveUser) (int64, error)
}

type Response struct {
	UserID int64  `json:"user_id"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

func SaveWorker(log *slog.Logger, workers WorkerSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.workers.save.SaveWorker"

		var req storage.SaveUser
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		for _, step := range req.AssignedSteps {
			if !constants.IsKnownStep(step) {
				http.Error(w, "Unknown workflow step: "+step, http.StatusBadRequest)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := workers.SaveUser(ctx, req)
		if err != nil {
			log.Error("failed to save worker", slog.String("op", op), slog.String("error", err.Error()))
			render.JSON(w, r, Response{Error: "failed to save worker"})
			return
		}

		render.JSON(w, r, Response{UserID: id, Status: "created"})
	}
}
