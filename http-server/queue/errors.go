package queue

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"printdesk/internal/workflow"
)

type errorResponse struct {
	Error string `json:"error"`
}

// Validation failures come back as 422, authorization failures as 403,
// everything else is a 500 with the message passed through for the operator
// to see and retry on.
func renderError(w http.ResponseWriter, r *http.Request, err error) {
	var vErr *workflow.ValidationError
	var aErr *workflow.AuthorizationError

	switch {
	case errors.As(err, &vErr):
		render.Status(r, http.StatusUnprocessableEntity)
		render.JSON(w, r, errorResponse{Error: vErr.Error()})
	case errors.As(err, &aErr):
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, errorResponse{Error: aErr.Error()})
	default:
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, errorResponse{Error: err.Error()})
	}
}
