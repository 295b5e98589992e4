package client

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nziladragao/agenda-api/internal/model"
	"github.com/nziladragao/agenda-api/internal/repository"
	apperrors "github.com/nziladragao/agenda-api/pkg/errors"
)

type fakeClientRepo struct {
	clients     map[uuid.UUID]*model.Client
	deactivated []uuid.UUID
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{clients: make(map[uuid.UUID]*model.Client)}
}

func (f *fakeClientRepo) Create(ctx context.Context, c *model.Client) error {
	c.ID = uuid.New()
	c.Status = model.ClientStatusActive
	stored := *c
	f.clients[c.ID] = &stored
	return nil
}

func (f *fakeClientRepo) Get(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	c, ok := f.clients[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (f *fakeClientRepo) GetSummary(ctx context.Context, id uuid.UUID) (*model.ClientSummary, error) {
	c, err := f.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.ClientSummary{ID: c.ID.String(), Name: c.Name}, nil
}

func (f *fakeClientRepo) Update(ctx context.Context, c *model.Client) error {
	if _, ok := f.clients[c.ID]; !ok {
		return repository.ErrNotFound
	}
	stored := *c
	f.clients[c.ID] = &stored
	return nil
}

func (f *fakeClientRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	c, ok := f.clients[id]
	if !ok {
		return repository.ErrNotFound
	}
	c.Status = model.ClientStatusInactive
	f.deactivated = append(f.deactivated, id)
	return nil
}

func (f *fakeClientRepo) List(ctx context.Context, _ *model.ClientFilters) ([]*model.Client, error) {
	var out []*model.Client
	for _, c := range f.clients {
		copied := *c
		out = append(out, &copied)
	}
	return out, nil
}

func strPtr(s string) *string { return &s }

func TestCreateAndGet(t *testing.T) {
	repo := newFakeClientRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), &model.CreateClientRequest{
		Name:  "João Santos",
		Email: strPtr("joao@example.com"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.ClientStatusActive, created.Status)

	found, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "João Santos", found.Name)
}

func TestGetUnknownClient(t *testing.T) {
	svc := NewService(newFakeClientRepo())

	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}

func TestUpdateIsPartial(t *testing.T) {
	repo := newFakeClientRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), &model.CreateClientRequest{
		Name:  "João Santos",
		Email: strPtr("joao@example.com"),
		Phone: strPtr("+5511999990000"),
	})
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), created.ID, &model.UpdateClientRequest{
		Name: strPtr("João S. Oliveira"),
	})
	require.NoError(t, err)

	assert.Equal(t, "João S. Oliveira", updated.Name)
	require.NotNil(t, updated.Email)
	assert.Equal(t, "joao@example.com", *updated.Email)
	require.NotNil(t, updated.Phone)
	assert.Equal(t, "+5511999990000", *updated.Phone)
}

func TestDeactivate(t *testing.T) {
	repo := newFakeClientRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), &model.CreateClientRequest{Name: "Ana"})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), created.ID))
	assert.Contains(t, repo.deactivated, created.ID)

	err = svc.Deactivate(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrNotFound))
}
