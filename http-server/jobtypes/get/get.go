package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"printdesk/internal/constants"
	"printdesk/internal/storage"
)

type JobTypes interface {
	GetJobTypes(ctx context.Context) ([]storage.JobType, error)
}

func GetJobTypes(log *slog.Logger, jobTypes JobTypes) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.jobtypes.get.GetJobTypes"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := jobTypes.GetJobTypes(ctx)
		if err != nil {
			log.Error("failed to list job types", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, list)
	}
}

// GetStepCatalog exposes the fixed workflow step catalog for admin forms.
func GetStepCatalog(log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, constants.WorkflowStepCatalog)
	}
}
