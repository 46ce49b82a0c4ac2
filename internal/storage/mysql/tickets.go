package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"printdesk/internal/storage"
)

var ErrTicketNotFound = errors.New("ticket not found")

const ticketColumns = `t.id, t.ticket_number, t.customer_id, c.name, t.job_type_id,
		t.quantity, t.free_quantity, t.produced_quantity, t.current_workflow_step,
		t.status, jt.workflow_config, t.created_at, t.updated_at`

func scanTicket(row interface{ Scan(...any) error }) (storage.Ticket, error) {
	var t storage.Ticket
	var rawConfig []byte

	err := row.Scan(&t.ID, &t.TicketNumber, &t.CustomerID, &t.CustomerName, &t.JobTypeID,
		&t.Quantity, &t.FreeQuantity, &t.ProducedQuantity, &t.CurrentWorkflowStep,
		&t.Status, &rawConfig, &t.CreatedAT, &t.UpdatedAT)
	if err != nil {
		return storage.Ticket{}, err
	}

	if len(rawConfig) > 0 {
		if err := json.Unmarshal(rawConfig, &t.WorkflowConfig); err != nil {
			return storage.Ticket{}, fmt.Errorf("decode workflow_config: %w", err)
		}
	}
	return t, nil
}

func (s *Storage) GetTickets(ctx context.Context, filter storage.TicketFilter) ([]storage.Ticket, error) {
	const op = "storage.mysql.GetTickets"

	stmt := `SELECT ` + ticketColumns + `
		FROM tickets t
		JOIN customers c ON c.id = t.customer_id
		JOIN job_types jt ON jt.id = t.job_type_id
		WHERE 1=1`
	var args []any

	if filter.Status != "" {
		stmt += " AND t.status = ?"
		args = append(args, filter.Status)
	}
	if filter.WorkflowStep != "" {
		stmt += " AND t.current_workflow_step = ?"
		args = append(args, filter.WorkflowStep)
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

	var tickets []storage.Ticket
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (s *Storage) GetTicketByID(ctx context.Context, id int64) (storage.Ticket, error) {
	const op = "storage.mysql.GetTicketByID"

	stmt := `SELECT ` + ticketColumns + `
		FROM tickets t
		JOIN customers c ON c.id = t.customer_id
		JOIN job_types jt ON jt.id = t.job_type_id
		WHERE t.id = ?`

	t, err := scanTicket(s.db.QueryRowContext(ctx, stmt, id))
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Ticket{}, fmt.Errorf("%s: %w", op, ErrTicketNotFound)
	}
	if err != nil {
		return storage.Ticket{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

func (s *Storage) GetTicketByNumber(ctx context.Context, number string) (storage.Ticket, error) {
	const op = "storage.mysql.GetTicketByNumber"

	stmt := `SELECT ` + ticketColumns + `
		FROM tickets t
		JOIN customers c ON c.id = t.customer_id
		JOIN job_types jt ON jt.id = t.job_type_id
		WHERE t.ticket_number = ?`

	t, err := scanTicket(s.db.QueryRowContext(ctx, stmt, number))
	if errors.Is(err, sql.ErrNoRows) {
		return storage.Ticket{}, fmt.Errorf("%s: %w", op, ErrTicketNotFound)
	}
	if err != nil {
		return storage.Ticket{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// GetTicketDetails assembles the full aggregate: the ticket row plus
// progress, assignments and evidence fetched in parallel.
func (s *Storage) GetTicketDetails(ctx context.Context, id int64) (*storage.TicketDetails, error) {
	const op = "storage.mysql.GetTicketDetails"

	ticket, err := s.GetTicketByID(ctx, id)
	if err != nil {
		return nil, err
	}

	details := &storage.TicketDetails{Ticket: ticket}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		details.Progress, err = s.GetStepProgress(gCtx, id)
		return err
	})
	g.Go(func() error {
		var err error
		details.AssignedUsers, err = s.GetAssignedUsers(gCtx, id)
		return err
	})
	g.Go(func() error {
		var err error
		details.Evidence, err = s.GetEvidenceFiles(gCtx, id)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return details, nil
}

func (s *Storage) GetStepProgress(ctx context.Context, ticketID int64) ([]storage.StepProgress, error) {
	const op = "storage.mysql.GetStepProgress"

	stmt := `SELECT ticket_id, workflow_step, completed_quantity, is_completed
		FROM ticket_step_progress WHERE ticket_id = ? ORDER BY id`

	rows, err := s.db.QueryContext(ctx, stmt, ticketID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var progress []storage.StepProgress
	for rows.Next() {
		var p storage.StepProgress
		if err := rows.Scan(&p.TicketID, &p.WorkflowStep, &p.CompletedQuantity, &p.IsCompleted); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		progress = append(progress, p)
	}
	return progress, rows.Err()
}

func (s *Storage) GetAssignedUsers(ctx context.Context, ticketID int64) ([]storage.AssignedUser, error) {
	const op = "storage.mysql.GetAssignedUsers"

	stmt := `SELECT au.user_id, u.name, au.workflow_step
		FROM ticket_assigned_users au
		JOIN users u ON u.id = au.user_id
		WHERE au.ticket_id = ?`

	rows, err := s.db.QueryContext(ctx, stmt, ticketID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var users []storage.AssignedUser
	for rows.Next() {
		var u storage.AssignedUser
		if err := rows.Scan(&u.UserID, &u.Name, &u.WorkflowStep); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// StartTicket moves a ready ticket into production on its first active step.
func (s *Storage) StartTicket(ctx context.Context, id int64, firstStep *string, status string) error {
	const op = "storage.mysql.StartTicket"

	stmt := `UPDATE tickets SET status = ?, current_workflow_step = ?, updated_at = NOW()
		WHERE id = ? AND status = 'ready_to_print'`

	res, err := s.db.ExecContext(ctx, stmt, status, firstStep, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: ticket %d is not ready to print", op, id)
	}
	return nil
}

// ApplyProgressUpdate persists one validated submission in a single
// transaction: the step progress row, per-user quantities, evidence
// metadata and the ticket's step/status columns.
func (s *Storage) ApplyProgressUpdate(ctx context.Context, ticketID int64, update storage.ProgressUpdate) error {
	const op = "storage.mysql.ApplyProgressUpdate"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	if update.WorkflowStep != nil {
		step := *update.WorkflowStep

		_, err = tx.ExecContext(ctx, `
			INSERT INTO ticket_step_progress (ticket_id, workflow_step, completed_quantity, is_completed)
			VALUES (?, ?, ?, ?)
			ON DUPLICATE KEY UPDATE
				completed_quantity = VALUES(completed_quantity),
				is_completed = VALUES(is_completed)`,
			ticketID, step, update.Quantity, update.StepCompleted)
		if err != nil {
			return fmt.Errorf("%s: save step progress: %w", op, err)
		}

		if len(update.UserQuantities) > 0 {
			_, err = tx.ExecContext(ctx,
				`DELETE FROM ticket_user_quantities WHERE ticket_id = ? AND workflow_step = ?`,
				ticketID, step)
			if err != nil {
				return fmt.Errorf("%s: clear user quantities: %w", op, err)
			}
			for _, uq := range update.UserQuantities {
				_, err = tx.ExecContext(ctx, `
					INSERT INTO ticket_user_quantities (ticket_id, workflow_step, user_id, quantity_produced)
					VALUES (?, ?, ?, ?)`,
					ticketID, step, uq.UserID, uq.QuantityProduced)
				if err != nil {
					return fmt.Errorf("%s: save user quantity: %w", op, err)
				}
			}
		}

		_, err = tx.ExecContext(ctx, `
			UPDATE tickets SET current_workflow_step = ?, status = ?, updated_at = NOW() WHERE id = ?`,
			step, update.Status, ticketID)
		if err != nil {
			return fmt.Errorf("%s: update ticket: %w", op, err)
		}
	} else {
		// legacy tickets without workflow steps track a single counter
		_, err = tx.ExecContext(ctx, `
			UPDATE tickets SET produced_quantity = ?, status = ?, updated_at = NOW() WHERE id = ?`,
			update.Quantity, update.Status, ticketID)
		if err != nil {
			return fmt.Errorf("%s: update legacy quantity: %w", op, err)
		}
	}

	for _, f := range update.EvidenceFiles {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO ticket_evidence_files (ticket_id, workflow_step, stored_name, original_name, user_id)
			VALUES (?, ?, ?, ?, ?)`,
			ticketID, update.WorkflowStep, f.StoredName, f.OriginalName, f.UserID)
		if err != nil {
			return fmt.Errorf("%s: save evidence file: %w", op, err)
		}
	}

	return tx.Commit()
}

// CompleteTicket is the terminal transition. Eligibility is checked by the
// caller; the WHERE clause only guards against double completion.
func (s *Storage) CompleteTicket(ctx context.Context, id int64) error {
	const op = "storage.mysql.CompleteTicket"

	res, err := s.db.ExecContext(ctx,
		`UPDATE tickets SET status = 'completed', updated_at = NOW() WHERE id = ? AND status <> 'completed'`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: ticket %d is already completed", op, id)
	}
	return nil
}

// AssignUsers replaces the ticket's assignment set.
func (s *Storage) AssignUsers(ctx context.Context, ticketID int64, assign storage.AssignUsers) error {
	const op = "storage.mysql.AssignUsers"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `DELETE FROM ticket_assigned_users WHERE ticket_id = ?`, ticketID)
	if err != nil {
		return fmt.Errorf("%s: clear assignments: %w", op, err)
	}

	for _, userID := range assign.UserIDs {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO ticket_assigned_users (ticket_id, user_id, workflow_step) VALUES (?, ?, ?)`,
			ticketID, userID, assign.WorkflowStep)
		if err != nil {
			return fmt.Errorf("%s: save assignment: %w", op, err)
		}
	}

	return tx.Commit()
}
