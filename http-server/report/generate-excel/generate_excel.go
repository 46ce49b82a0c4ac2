package generate_excel

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"printdesk/internal/storage"
)

type ExcelGenerator interface {
	GenerateExcel(ctx context.Context, filter storage.TicketFilter) ([]byte, error)
}

func GenerateReportExcel(log *slog.Logger, generator ExcelGenerator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.report.GenerateReportExcel"

		filter := storage.TicketFilter{
			Status: r.URL.Query().Get("status"),
		}
		if v := r.URL.Query().Get("customer_id"); v != "" {
			customerID, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				http.Error(w, "Invalid customer_id", http.StatusBadRequest)
				return
			}
			filter.CustomerID = customerID
		}

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
		defer cancel()

		data, err := generator.GenerateExcel(ctx, filter)
		if err != nil {
			log.Error("failed to generate report", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Failed to generate report", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="production_report.xlsx"`)
		w.Write(data)
	}
}
