package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"printdesk/internal/storage"
)

type AdminStorage interface {
	GetJobTypes(ctx context.Context) ([]storage.JobType, error)
	GetAllUsers(ctx context.Context) ([]storage.User, error)
}

func GetJobTypesAdmin(log *slog.Logger, admin AdminStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.get.GetJobTypesAdmin"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		jobTypes, err := admin.GetJobTypes(ctx)
		if err != nil {
			log.Error("failed to list job types", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, jobTypes)
	}
}

func GetAllEmployeesAdmin(log *slog.Logger, admin AdminStorage) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.admin.get.GetAllEmployeesAdmin"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		users, err := admin.GetAllUsers(ctx)
		if err != nil {
			log.Error("failed to list employees", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, users)
	}
}
