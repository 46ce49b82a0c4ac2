package mysql

import (
	"context"
	"fmt"

	"printdesk/internal/storage"
)

func (s *Storage) GetCustomers(ctx context.Context) ([]storage.Customer, error) {
	const op = "storage.mysql.GetCustomers"

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, phone, address, note, created_at FROM customers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var customers []storage.Customer
	for rows.Next() {
		var c storage.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Phone, &c.Address, &c.Note, &c.CreatedAT); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		customers = append(customers, c)
	}
	return customers, rows.Err()
}

func (s *Storage) SaveCustomer(ctx context.Context, customer storage.SaveCustomer) (int64, error) {
	const op = "storage.mysql.SaveCustomer"

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO customers (name, phone, address, note) VALUES (?, ?, ?, ?)`,
		customer.Name, customer.Phone, customer.Address, customer.Note)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return res.LastInsertId()
}

func (s *Storage) UpdateCustomer(ctx context.Context, id int64, customer storage.SaveCustomer) error {
	const op = "storage.mysql.UpdateCustomer"

	_, err := s.db.ExecContext(ctx,
		`UPDATE customers SET name = ?, phone = ?, address = ?, note = ? WHERE id = ?`,
		customer.Name, customer.Phone, customer.Address, customer.Note, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
