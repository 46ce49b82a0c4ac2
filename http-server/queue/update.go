package queue

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"printdesk/internal/middleware/actor"
	"printdesk/internal/service/production"
	"printdesk/internal/storage"
)

const maxUploadSize = 32 << 20

type Updater interface {
	Update(ctx context.Context, ticketID int64, actor storage.User, input production.UpdateInput) (*storage.TicketDetails, error)
}

type updateRequest struct {
	ProducedQuantity    int                    `json:"produced_quantity"`
	CurrentWorkflowStep *string                `json:"current_workflow_step"`
	Status              string                 `json:"status"`
	UserQuantities      []storage.UserQuantity `json:"user_quantities"`
}

// UpdateProgress takes one progress submission, JSON or multipart (when
// evidence files ride along). The submitted status field is accepted for
// compatibility with older clients and recomputed server-side.
func UpdateProgress(log *slog.Logger, service Updater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.queue.UpdateProgress"

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

		var input production.UpdateInput
		if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
			input, err = decodeMultipart(r)
		} else {
			input, err = decodeJSON(r)
		}
		if err != nil {
			log.Error("invalid update payload", slog.String("op", op), slog.String("error", err.Error()))
			http.Error(w, "Invalid data", http.StatusBadRequest)
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		defer cancel()

		details, err := service.Update(ctx, id, user, input)
		if err != nil {
			log.Error("failed to update progress", slog.String("op", op),
				slog.Int64("ticket_id", id), slog.String("error", err.Error()))
			renderError(w, r, err)
			return
		}

		log.Info("progress updated", slog.Int64("ticket_id", id),
			slog.Int("quantity", input.Quantity))

		render.JSON(w, r, details)
	}
}

func decodeJSON(r *http.Request) (production.UpdateInput, error) {
	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return production.UpdateInput{}, err
	}
	return production.UpdateInput{
		Step:           req.CurrentWorkflowStep,
		Quantity:       req.ProducedQuantity,
		UserQuantities: req.UserQuantities,
	}, nil
}

func decodeMultipart(r *http.Request) (production.UpdateInput, error) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		return production.UpdateInput{}, err
	}

	var input production.UpdateInput

	if v := r.FormValue("produced_quantity"); v != "" {
		quantity, err := strconv.Atoi(v)
		if err != nil {
			return production.UpdateInput{}, err
		}
		input.Quantity = quantity
	}
	if v := r.FormValue("current_workflow_step"); v != "" {
		step := v
		input.Step = &step
	}
	if v := r.FormValue("user_quantities"); v != "" {
		if err := json.Unmarshal([]byte(v), &input.UserQuantities); err != nil {
			return production.UpdateInput{}, err
		}
	}

	// evidence_file_users aligns by index with evidence_files
	userIDs := r.MultipartForm.Value["evidence_file_users[]"]

	for i, header := range r.MultipartForm.File["evidence_files[]"] {
		file, err := header.Open()
		if err != nil {
			return production.UpdateInput{}, err
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return production.UpdateInput{}, err
		}

		upload := production.EvidenceUpload{OriginalName: header.Filename, Data: data}
		if i < len(userIDs) && userIDs[i] != "" {
			userID, err := strconv.ParseInt(userIDs[i], 10, 64)
			if err != nil {
				return production.UpdateInput{}, err
			}
			upload.UserID = &userID
		}
		input.Evidence = append(input.Evidence, upload)
	}

	return input, nil
}
