package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nziladragao/agenda-api/internal/model"
	"github.com/nziladragao/agenda-api/internal/repository"
)

func (r *clientRepository) Create(ctx context.Context, client *model.Client) error {
	query := `
		INSERT INTO clients (
			id, name, email, phone, birth_date, address, notes, status,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	client.ID = uuid.New()
	client.Status = model.ClientStatusActive
	client.CreatedAt = time.Now().UTC()
	client.UpdatedAt = client.CreatedAt

	_, err := r.db.ExecContext(ctx, query,
		client.ID,
		client.Name,
		client.Email,
		client.Phone,
		client.BirthDate,
		client.Address,
		client.Notes,
		client.Status,
		client.CreatedAt,
		client.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (r *clientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	query := `
		SELECT id, name, email, phone, birth_date, address, notes, status,
			   created_at, updated_at, deleted_at
		FROM clients
		WHERE id = $1
	`
	var client model.Client
	err := r.db.GetContext(ctx, &client, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}

func (r *clientRepository) GetSummary(ctx context.Context, id uuid.UUID) (*model.ClientSummary, error) {
	query := `SELECT id, name, email, phone FROM clients WHERE id = $1`
	var summary model.ClientSummary
	err := r.db.GetContext(ctx, &summary, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client summary: %w", err)
	}
	return &summary, nil
}

func (r *clientRepository) Update(ctx context.Context, client *model.Client) error {
	query := `
		UPDATE clients
		SET name = $1, email = $2, phone = $3, birth_date = $4, address = $5,
			notes = $6, updated_at = $7
		WHERE id = $8 AND deleted_at IS NULL
	`
	client.UpdatedAt = time.Now().UTC()

	result, err := r.db.ExecContext(ctx, query,
		client.Name,
		client.Email,
		client.Phone,
		client.BirthDate,
		client.Address,
		client.Notes,
		client.UpdatedAt,
		client.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update client: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Deactivate is the delete path: clients referenced by appointments are
// never removed, only flagged inactive.
func (r *clientRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE clients
		SET status = $1, deleted_at = $2, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
	`
	result, err := r.db.ExecContext(ctx, query, model.ClientStatusInactive, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to deactivate client: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *clientRepository) List(ctx context.Context, filters *model.ClientFilters) ([]*model.Client, error) {
	query := `
		SELECT id, name, email, phone, birth_date, address, notes, status,
			   created_at, updated_at, deleted_at
		FROM clients
		WHERE 1=1
	`
	args := []interface{}{}
	argCount := 1

	if !filters.IncludeInactive {
		query += " AND deleted_at IS NULL"
	}

	if filters.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argCount)
		args = append(args, filters.Status)
		argCount++
	}

	if filters.SearchTerm != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argCount)
		args = append(args, "%"+filters.SearchTerm+"%")
		argCount++
	}

	query += " ORDER BY name ASC"

	var clients []*model.Client
	err := r.db.SelectContext(ctx, &clients, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}
