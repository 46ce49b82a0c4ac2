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

	"printdesk/internal/storage"
)

type CustomerUpdater interface {
	UpdateCustomer(ctx context.Context, id int64, customer storage.SaveCustomer) error
}

func UpdateCustomer(log *slog.Logger, customers CustomerUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.customers.update.UpdateCustomer"

		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "Invalid ID", http.StatusBadRequest)
			return
		}

		var req storage.SaveCustomer
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := customers.UpdateCustomer(ctx, id, req); err != nil {
			log.Error("failed to update customer", slog.String("op", op),
				slog.Int64("id", id), slog.String("error", err.Error()))
			http.Error(w, "Failed to update customer", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, map[string]any{
			"status":      strconv.Itoa(http.StatusOK),
			"customer_id": id,
		})
	}
}
