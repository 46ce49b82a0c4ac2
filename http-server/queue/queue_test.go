package queue

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"printdesk/internal/constants"
	"printdesk/internal/middleware/actor"
	"printdesk/internal/service/production"
	"printdesk/internal/storage"
	"printdesk/internal/workflow"
)

type MockProductionService struct {
	mock.Mock
}

func (m *MockProductionService) Start(ctx context.Context, ticketID int64, user storage.User) (*storage.TicketDetails, error) {
	args := m.Called(ctx, ticketID, user)
	return detailsArg(args.Get(0), args.Error(1))
}

func (m *MockProductionService) Update(ctx context.Context, ticketID int64, user storage.User, input production.UpdateInput) (*storage.TicketDetails, error) {
	args := m.Called(ctx, ticketID, user, input)
	return detailsArg(args.Get(0), args.Error(1))
}

func (m *MockProductionService) Complete(ctx context.Context, ticketID int64, user storage.User) (*storage.TicketDetails, error) {
	args := m.Called(ctx, ticketID, user)
	return detailsArg(args.Get(0), args.Error(1))
}

func (m *MockProductionService) Assign(ctx context.Context, ticketID int64, user storage.User, assign storage.AssignUsers) (*storage.TicketDetails, error) {
	args := m.Called(ctx, ticketID, user, assign)
	return detailsArg(args.Get(0), args.Error(1))
}

func detailsArg(v any, err error) (*storage.TicketDetails, error) {
	if v == nil {
		return nil, err
	}
	details, ok := v.(*storage.TicketDetails)
	if !ok {
		return nil, fmt.Errorf("expected *storage.TicketDetails, got %T", v)
	}
	return details, err
}

func testDetails() *storage.TicketDetails {
	return &storage.TicketDetails{
		Ticket: storage.Ticket{
			ID:           42,
			TicketNumber: "TKT-0042",
			Quantity:     100,
			Status:       constants.StatusInProduction,
		},
	}
}

func testActor() storage.User {
	return storage.User{ID: 1, Name: "Admin", Role: constants.RoleAdmin}
}

// serve runs a handler through a chi route so URL params resolve, with the
// actor already on the context.
func serve(t *testing.T, method, path string, body *strings.Reader, handler http.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()

	router := chi.NewRouter()
	router.MethodFunc(method, "/api/queue/{ticketId}/"+strings.Split(path, "/")[0], handler)

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, "/api/queue/42/"+path, body)
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, "/api/queue/42/"+path, nil)
	}
	req = req.WithContext(actor.WithUser(req.Context(), testActor()))

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestStartTicket_Success(t *testing.T) {
	mockService := new(MockProductionService)
	mockService.On("Start", mock.Anything, int64(42), testActor()).Return(testDetails(), nil)

	rr := serve(t, http.MethodPost, "start", nil, StartTicket(slog.Default(), mockService))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp storage.TicketDetails
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, "TKT-0042", resp.Ticket.TicketNumber)
	mockService.AssertExpectations(t)
}

func TestStartTicket_InvalidID(t *testing.T) {
	mockService := new(MockProductionService)

	router := chi.NewRouter()
	router.Post("/api/queue/{ticketId}/start", StartTicket(slog.Default(), mockService))

	req := httptest.NewRequest(http.MethodPost, "/api/queue/abc/start", nil)
	req = req.WithContext(actor.WithUser(req.Context(), testActor()))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockService.AssertNotCalled(t, "Start", mock.Anything, mock.Anything, mock.Anything)
}

func TestStartTicket_MissingActor(t *testing.T) {
	mockService := new(MockProductionService)

	router := chi.NewRouter()
	router.Post("/api/queue/{ticketId}/start", StartTicket(slog.Default(), mockService))

	req := httptest.NewRequest(http.MethodPost, "/api/queue/42/start", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestUpdateProgress_Success(t *testing.T) {
	mockService := new(MockProductionService)
	step := constants.StepPrinting
	mockService.On("Update", mock.Anything, int64(42), testActor(), mock.MatchedBy(func(input production.UpdateInput) bool {
		return input.Quantity == 80 && input.Step != nil && *input.Step == step
	})).Return(testDetails(), nil)

	body := strings.NewReader(`{"produced_quantity": 80, "current_workflow_step": "printing", "status": "in_production"}`)
	rr := serve(t, http.MethodPost, "update", body, UpdateProgress(slog.Default(), mockService))

	assert.Equal(t, http.StatusOK, rr.Code)
	mockService.AssertExpectations(t)
}

func TestUpdateProgress_UserQuantities(t *testing.T) {
	mockService := new(MockProductionService)
	mockService.On("Update", mock.Anything, int64(42), testActor(), mock.MatchedBy(func(input production.UpdateInput) bool {
		return len(input.UserQuantities) == 2 &&
			input.UserQuantities[0] == (storage.UserQuantity{UserID: 10, QuantityProduced: 60}) &&
			input.UserQuantities[1] == (storage.UserQuantity{UserID: 11, QuantityProduced: 40})
	})).Return(testDetails(), nil)

	body := strings.NewReader(`{
		"current_workflow_step": "printing",
		"user_quantities": [
			{"user_id": 10, "quantity_produced": 60},
			{"user_id": 11, "quantity_produced": 40}
		]
	}`)
	rr := serve(t, http.MethodPost, "update", body, UpdateProgress(slog.Default(), mockService))

	assert.Equal(t, http.StatusOK, rr.Code)
	mockService.AssertExpectations(t)
}

func TestUpdateProgress_ValidationErrorIs422(t *testing.T) {
	mockService := new(MockProductionService)
	mockService.On("Update", mock.Anything, int64(42), testActor(), mock.Anything).
		Return(nil, &workflow.ValidationError{Field: "produced_quantity", Reason: "quantity 150 exceeds total of 100"})

	body := strings.NewReader(`{"produced_quantity": 150}`)
	rr := serve(t, http.MethodPost, "update", body, UpdateProgress(slog.Default(), mockService))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var resp map[string]string
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Contains(t, resp["error"], "exceeds total")
}

func TestUpdateProgress_AuthorizationErrorIs403(t *testing.T) {
	mockService := new(MockProductionService)
	mockService.On("Update", mock.Anything, int64(42), testActor(), mock.Anything).
		Return(nil, &workflow.AuthorizationError{Reason: `step "printing" is not in your assigned steps`})

	body := strings.NewReader(`{"produced_quantity": 10, "current_workflow_step": "printing"}`)
	rr := serve(t, http.MethodPost, "update", body, UpdateProgress(slog.Default(), mockService))

	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestUpdateProgress_InvalidJSON(t *testing.T) {
	mockService := new(MockProductionService)

	body := strings.NewReader(`{`)
	rr := serve(t, http.MethodPost, "update", body, UpdateProgress(slog.Default(), mockService))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockService.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCompleteTicket_Success(t *testing.T) {
	mockService := new(MockProductionService)
	completed := testDetails()
	completed.Ticket.Status = constants.StatusCompleted
	mockService.On("Complete", mock.Anything, int64(42), testActor()).Return(completed, nil)

	rr := serve(t, http.MethodPost, "complete", nil, CompleteTicket(slog.Default(), mockService))

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp storage.TicketDetails
	require.NoError(t, render.DecodeJSON(strings.NewReader(rr.Body.String()), &resp))
	assert.Equal(t, constants.StatusCompleted, resp.Ticket.Status)
}

func TestCompleteTicket_NotEligibleIs422(t *testing.T) {
	mockService := new(MockProductionService)
	mockService.On("Complete", mock.Anything, int64(42), testActor()).
		Return(nil, &workflow.ValidationError{Field: "produced_quantity", Reason: "the final step has not reached the total quantity"})

	rr := serve(t, http.MethodPost, "complete", nil, CompleteTicket(slog.Default(), mockService))

	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
}

func TestAssignUsers_Success(t *testing.T) {
	mockService := new(MockProductionService)
	step := constants.StepCutting
	mockService.On("Assign", mock.Anything, int64(42), testActor(), mock.MatchedBy(func(assign storage.AssignUsers) bool {
		return len(assign.UserIDs) == 2 && assign.WorkflowStep != nil && *assign.WorkflowStep == step
	})).Return(testDetails(), nil)

	body := strings.NewReader(`{"user_ids": [10, 11], "workflow_step": "cutting"}`)
	rr := serve(t, http.MethodPost, "assign-users", body, AssignUsers(slog.Default(), mockService))

	assert.Equal(t, http.StatusOK, rr.Code)
	mockService.AssertExpectations(t)
}
