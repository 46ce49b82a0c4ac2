package save

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"

	"printdesk/internal/storage"
)

type CustomerSaver interface {
	SaveCustomer(ctx context.Context, customer storage.SaveCustomer) (int64, error)
}

type Response struct {
	CustomerID int64  `json:"customer_id"`
	Status     string `json:"status"`
	Error      string `json:"error,omitempty"`
}

func SaveCustomer(log *slog.Logger, customers CustomerSaver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.customers.save.SaveCustomer"

		var req storage.SaveCustomer
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("invalid JSON", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			http.Error(w, "Customer name is required", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		id, err := customers.SaveCustomer(ctx, req)
		if err != nil {
			log.Error("failed to save customer", slog.String("op", op), slog.String("error", err.Error()))
			render.JSON(w, r, Response{Error: "failed to save customer"})
			return
		}

		render.JSON(w, r, Response{CustomerID: id, Status: "created"})
	}
}
