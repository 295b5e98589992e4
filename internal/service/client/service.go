package client

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nziladragao/agenda-api/internal/model"
	"github.com/nziladragao/agenda-api/internal/repository"
	apperrors "github.com/nziladragao/agenda-api/pkg/errors"
)

type Service struct {
	repo repository.ClientRepository
}

func NewService(repo repository.ClientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.CreateClientRequest) (*model.Client, error) {
	client := &model.Client{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		BirthDate: req.BirthDate,
		Address:   req.Address,
		Notes:     req.Notes,
	}
	if err := s.repo.Create(ctx, client); err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	client, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("client", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return client, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.UpdateClientRequest) (*model.Client, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		client.Name = *req.Name
	}
	if req.Email != nil {
		client.Email = req.Email
	}
	if req.Phone != nil {
		client.Phone = req.Phone
	}
	if req.BirthDate != nil {
		client.BirthDate = req.BirthDate
	}
	if req.Address != nil {
		client.Address = req.Address
	}
	if req.Notes != nil {
		client.Notes = req.Notes
	}

	err = s.repo.Update(ctx, client)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("client", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update client: %w", err)
	}
	return client, nil
}

// Deactivate is the delete operation: the record stays for referential
// integrity with past appointments.
func (s *Service) Deactivate(ctx context.Context, id uuid.UUID) error {
	err := s.repo.Deactivate(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("client", err)
	}
	if err != nil {
		return fmt.Errorf("failed to deactivate client: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, filters *model.ClientFilters) ([]*model.Client, error) {
	clients, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}
