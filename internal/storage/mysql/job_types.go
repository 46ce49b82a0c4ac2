package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"printdesk/internal/storage"
)

var ErrJobTypeNotFound = errors.New("job type not found")

func (s *Storage) GetJobTypes(ctx context.Context) ([]storage.JobType, error) {
	const op = "storage.mysql.GetJobTypes"

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, workflow_config FROM job_types ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var jobTypes []storage.JobType
	for rows.Next() {
		jt, err := scanJobType(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		jobTypes = append(jobTypes, jt)
	}
	return jobTypes, rows.Err()
}

func (s *Storage) GetJobTypeByID(ctx context.Context, id int64) (storage.JobType, error) {
	const op = "storage.mysql.GetJobTypeByID"

	jt, err := scanJobType(s.db.QueryRowContext(ctx,
		`SELECT id, name, workflow_config FROM job_types WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return storage.JobType{}, fmt.Errorf("%s: %w", op, ErrJobTypeNotFound)
	}
	if err != nil {
		return storage.JobType{}, fmt.Errorf("%s: %w", op, err)
	}
	return jt, nil
}

func scanJobType(row interface{ Scan(...any) error }) (storage.JobType, error) {
	var jt storage.JobType
	var rawConfig []byte

	if err := row.Scan(&jt.ID, &jt.Name, &rawConfig); err != nil {
		return storage.JobType{}, err
	}
	if len(rawConfig) > 0 {
		if err := json.Unmarshal(rawConfig, &jt.WorkflowConfig); err != nil {
			return storage.JobType{}, fmt.Errorf("decode workflow_config: %w", err)
		}
	}
	return jt, nil
}

// UpdateJobTypeConfig rewrites which workflow steps are active for a job
// type. Existing tickets keep their current step; the new config applies on
// the next read.
func (s *Storage) UpdateJobTypeConfig(ctx context.Context, id int64, update storage.UpdateJobTypeConfig) error {
	const op = "storage.mysql.UpdateJobTypeConfig"

	raw, err := json.Marshal(update.WorkflowConfig)
	if err != nil {
		return fmt.Errorf("%s: encode workflow_config: %w", op, err)
	}

	res, err := s.db.ExecContext(ctx, `UPDATE job_types SET workflow_config = ? WHERE id = ?`, raw, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if affected == 0 {
		return fmt.Errorf("%s: %w", op, ErrJobTypeNotFound)
	}
	return nil
}
