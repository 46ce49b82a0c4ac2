package storage

import "time"

type Ticket struct {
	ID                  int64   `json:"id"`
	TicketNumber        string  `json:"ticket_number"`
	CustomerID          int64   `json:"customer_id"`
	CustomerName        string  `json:"customer_name"`
	JobTypeID           int64   `json:"job_type_id"`
	Quantity            int     `json:"quantity"`
	FreeQuantity        int     `json:"free_quantity"`
	ProducedQuantity    int     `json:"produced_quantity"`
	CurrentWorkflowStep *string `json:"current_workflow_step"`
	Status              string  `json:"status"`

	WorkflowConfig map[string]bool `json:"workflow_config"`

	CreatedAT time.Time `json:"created_at"`
	UpdatedAT time.Time `json:"updated_at"`
}

// TotalQuantity is the production target: ordered plus free (bonus) pieces.
func (t Ticket) TotalQuantity() int {
	return t.Quantity + t.FreeQuantity
}

type StepProgress struct {
	TicketID          int64  `json:"ticket_id"`
	WorkflowStep      string `json:"workflow_step"`
	CompletedQuantity int    `json:"completed_quantity"`
	IsCompleted       bool   `json:"is_completed"`
}

type UserQuantity struct {
	UserID           int64 `json:"user_id"`
	QuantityProduced int   `json:"quantity_produced"`
}

type AssignedUser struct {
	UserID       int64   `json:"user_id"`
	Name         string  `json:"name"`
	WorkflowStep *string `json:"workflow_step,omitempty"`
}

type TicketDetails struct {
	Ticket        Ticket         `json:"ticket"`
	Progress      []StepProgress `json:"workflow_progress"`
	AssignedUsers []AssignedUser `json:"assigned_users"`
	Evidence      []EvidenceFile `json:"evidence_files"`
}

type TicketFilter struct {
	Status       string `json:"status"`
	WorkflowStep string `json:"workflow_step"`
	CustomerID   int64  `json:"customer_id"`
}

// ProgressUpdate is one validated submission against a single workflow step.
type ProgressUpdate struct {
	WorkflowStep   *string        `json:"current_workflow_step"`
	Quantity       int            `json:"produced_quantity"`
	Status         string         `json:"status"`
	StepCompleted  bool           `json:"step_completed"`
	UserQuantities []UserQuantity `json:"user_quantities,omitempty"`
	EvidenceFiles  []EvidenceFile `json:"evidence_files,omitempty"`
}
