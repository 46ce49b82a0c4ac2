package update

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"printdesk/internal/constants"
	"printdesk/internal/storage"
)

type AdminUpdater interface {
	UpdateJobTypeConfig(ctx context.Context, id int64, update storage.UpdateJobTypeConfig) error
	UpdateUser(ctx context.Context, id int64, user storage.SaveUser) error
}

// UpdateJobTypeConfigAdmin rewrites the active-step set for a job type.
// Unknown step keys are rejected; tickets already in production keep their
// current step.
func UpdateJobTypeConfigAdmin(log *slog.Logger, admin AdminUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.update.UpdateJobTypeConfigAdmin"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req storage.UpdateJobTypeConfig
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		for key := range req.WorkflowConfig {
			if !constants.IsKnownStep(key) {
				http.Error(w, "Unknown workflow step: "+key, http.StatusBadRequest)
				return
			}
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := admin.UpdateJobTypeConfig(ctx, id, req); err != nil {
			log.Error("failed to update job type config", slog.String("op", op),
				slog.Int64("id", id), slog.String("error", err.Error()))
			http.Error(w, "Failed to update job type", http.StatusInternalServerError)
			return
		}

		log.Info("job type config updated", slog.Int64("id", id))

		render.JSON(w, r, map[string]any{
			"status":      strconv.Itoa(http.StatusOK),
			"job_type_id": id,
		})
	}
}

func UpdateEmployeeAdmin(log *slog.Logger, admin AdminUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.update.UpdateEmployeeAdmin"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req storage.SaveUser
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		switch req.Role {
		case constants.RoleAdmin, constants.RoleHead, constants.RoleOperator:
		default:
			http.Error(w, "Unknown role: "+req.Role, http.StatusBadRequest)
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

		if err := admin.UpdateUser(ctx, id, req); err != nil {
			log.Error("failed to update employee", slog.String("op", op),
				slog.Int64("id", id), slog.String("error", err.Error()))
			http.Error(w, "Failed to update employee", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]any{
			"status":  strconv.Itoa(http.StatusOK),
			"user_id": id,
		})
	}
}
