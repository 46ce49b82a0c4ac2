package get

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"printdesk/internal/storage"
)

type Customers interface {
	GetCustomers(ctx context.Context) ([]storage.Customer, error)
}

func GetCustomers(log *slog.Logger, customers Customers) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.customers.get.GetCustomers"

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		list, err := customers.GetCustomers(ctx)
		if err != nil {
			log.Error("failed to list customers", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		render.JSON(w, r, list)
	}
}
