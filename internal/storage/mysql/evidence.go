package mysql

import (
	"context"
	"fmt"

	"printdesk/internal/storage"
)

func (s *Storage) GetEvidenceFiles(ctx context.Context, ticketID int64) ([]storage.EvidenceFile, error) {
	const op = "storage.mysql.GetEvidenceFiles"

	stmt := `SELECT id, ticket_id, workflow_step, stored_name, original_name, user_id, created_at
		FROM ticket_evidence_files WHERE ticket_id = ? ORDER BY created_at`

	rows, err := s.db.QueryContext(ctx, stmt, ticketID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var files []storage.EvidenceFile
	for rows.Next() {
		var f storage.EvidenceFile
		err := rows.Scan(&f.ID, &f.TicketID, &f.WorkflowStep, &f.StoredName, &f.OriginalName, &f.UserID, &f.CreatedAT)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}
