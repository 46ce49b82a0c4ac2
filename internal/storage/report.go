package storage

// ReportRow is one ticket line of the production report, with per-step
// completed quantities keyed by workflow step.
type ReportRow struct {
	TicketNumber   string         `json:"ticket_number"`
	CustomerName   string         `json:"customer_name"`
	JobTypeName    string         `json:"job_type_name"`
	Status         string         `json:"status"`
	TotalQuantity  int            `json:"total_quantity"`
	StepQuantities map[string]int `json:"step_quantities"`
}
