package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"printdesk/internal/storage"
)

var ErrUserNotFound = errors.New("user not found")

func (s *Storage) GetAllUsers(ctx context.Context) ([]storage.User, error) {
	const op = "storage.mysql.GetAllUsers"

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, role FROM users ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var users []storage.User
	for rows.Next() {
		var u storage.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Role); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for i := range users {
		steps, err := s.getUserSteps(ctx, users[i].ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		users[i].AssignedSteps = steps
	}
	return users, nil
}

func (s *Storage) GetUserByID(ctx context.Context, id int64) (storage.User, error) {
	const op = "storage.mysql.GetUserByID"

	var u storage.User
	err := s.db.QueryRowContext(ctx, `SELECT id, name, role FROM users WHERE id = ?`, id).
		Scan(&u.ID, &u.Name, &u.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.User{}, fmt.Errorf("%s: %w", op, ErrUserNotFound)
	}
	if err != nil {
		return storage.User{}, fmt.Errorf("%s: %w", op, err)
	}

	u.AssignedSteps, err = s.getUserSteps(ctx, id)
	if err != nil {
		return storage.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (s *Storage) getUserSteps(ctx context.Context, userID int64) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT workflow_step FROM user_workflow_steps WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var steps []string
	for rows.Next() {
		var step string
		if err := rows.Scan(&step); err != nil {
			return nil, err
		}
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

func (s *Storage) SaveUser(ctx context.Context, user storage.SaveUser) (int64, error) {
	const op = "storage.mysql.SaveUser"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO users (name, role) VALUES (?, ?)`, user.Name, user.Role)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	for _, step := range user.AssignedSteps {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO user_workflow_steps (user_id, workflow_step) VALUES (?, ?)`, id, step)
		if err != nil {
			return 0, fmt.Errorf("%s: save assigned step: %w", op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// UpdateUser rewrites role and assigned steps, used by the admin panel.
func (s *Storage) UpdateUser(ctx context.Context, id int64, user storage.SaveUser) error {
	const op = "storage.mysql.UpdateUser"

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `UPDATE users SET name = ?, role = ? WHERE id = ?`, user.Name, user.Role, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM user_workflow_steps WHERE user_id = ?`, id)
	if err != nil {
		return fmt.Errorf("%s: clear assigned steps: %w", op, err)
	}
	for _, step := range user.AssignedSteps {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO user_workflow_steps (user_id, workflow_step) VALUES (?, ?)`, id, step)
		if err != nil {
			return fmt.Errorf("%s: save assigned step: %w", op, err)
		}
	}

	return tx.Commit()
}
