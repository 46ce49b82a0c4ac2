package storage

import "time"

// EvidenceFile is a photo or scan attached to a progress submission.
// StoredName is the on-disk name under the uploads dir, OriginalName the
// client-supplied one. UserID is set when the file was attributed to a
// specific operator via evidence_file_users.
type EvidenceFile struct {
	ID           int64     `json:"id"`
	TicketID     int64     `json:"ticket_id"`
	WorkflowStep *string   `json:"workflow_step"`
	StoredName   string    `json:"stored_name"`
	OriginalName string    `json:"original_name"`
	UserID       *int64    `json:"user_id,omitempty"`
	CreatedAT    time.Time `json:"created_at"`
}
