package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"printdesk/internal/storage"
)

// GetProductionReport returns one row per ticket with per-step quantities
// folded in, optionally filtered by status.
func (s *Storage) GetProductionReport(ctx context.Context, filter storage.TicketFilter) ([]storage.ReportRow, error) {
	const op = "storage.mysql.GetProductionReport"

	stmt := `SELECT t.ticket_number, c.name, jt.name, t.status,
			t.quantity + t.free_quantity, sp.workflow_step, sp.completed_quantity
		FROM tickets t
		JOIN customers c ON c.id = t.customer_id
		JOIN job_types jt ON jt.id = t.job_type_id
		LEFT JOIN ticket_step_progress sp ON sp.ticket_id = t.id
		WHERE 1=1`
	var args []any

	if filter.Status != "" {
		stmt += " AND t.status = ?"
		args = append(args, filter.Status)
	}
	if filter.CustomerID != 0 {
		stmt += " AND t.customer_id = ?"
		args = append(args, filter.CustomerID)
	}
	stmt += " ORDER BY t.created_at DESC"

	rows, err := s.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var report []storage.ReportRow
	index := make(map[string]int)

	for rows.Next() {
		var (
			row      storage.ReportRow
			step     sql.NullString
			quantity sql.NullInt64
		)
		err := rows.Scan(&row.TicketNumber, &row.CustomerName, &row.JobTypeName,
			&row.Status, &row.TotalQuantity, &step, &quantity)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		i, seen := index[row.TicketNumber]
		if !seen {
			row.StepQuantities = make(map[string]int)
			report = append(report, row)
			i = len(report) - 1
			index[row.TicketNumber] = i
		}
		if step.Valid {
			report[i].StepQuantities[step.String] = int(quantity.Int64)
		}
	}
	return report, rows.Err()
}
