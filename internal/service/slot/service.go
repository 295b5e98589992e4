package slot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/nziladragao/agenda-api/internal/model"
	"github.com/nziladragao/agenda-api/internal/repository"
	apperrors "github.com/nziladragao/agenda-api/pkg/errors"
)

const (
	listCacheTTL = 30 * time.Second

	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// Service is the slot registry: it publishes bookable windows and tracks
// their availability. Booking itself only happens through the appointment
// ledger's transaction; everything else goes through here.
type Service struct {
	repo  repository.SlotRepository
	cache *gocache.Cache
}

func NewService(repo repository.SlotRepository) *Service {
	return &Service{
		repo:  repo,
		cache: gocache.New(listCacheTTL, time.Minute),
	}
}

func (s *Service) Publish(ctx context.Context, req *model.PublishSlotRequest) (*model.Slot, error) {
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, apperrors.Validation("invalid date", err)
	}

	start, err := time.Parse(timeLayout, req.StartTime)
	if err != nil {
		return nil, apperrors.Validation("invalid start time", err)
	}
	end, err := time.Parse(timeLayout, req.EndTime)
	if err != nil {
		return nil, apperrors.Validation("invalid end time", err)
	}
	if !end.After(start) {
		return nil, apperrors.Validation("end time must be after start time", nil)
	}

	// Times are stored as zero-padded "HH:MM" strings so that string
	// comparison in SQL matches chronological order. Unpadded input like
	// "9:30" parses fine but would break the overlap check and ordering.
	startTime := start.Format(timeLayout)
	endTime := end.Format(timeLayout)

	overlaps, err := s.repo.HasOverlap(ctx, req.PractitionerID, date, startTime, endTime)
	if err != nil {
		return nil, fmt.Errorf("failed to check overlap: %w", err)
	}
	if overlaps {
		return nil, apperrors.Conflict("slot overlaps an existing window for this practitioner", nil)
	}

	slot := &model.Slot{
		Date:           date,
		StartTime:      startTime,
		EndTime:        endTime,
		PractitionerID: req.PractitionerID,
		Notes:          req.Notes,
	}
	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to publish slot: %w", err)
	}

	s.cache.Flush()
	return slot, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	slot, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("slot", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get slot: %w", err)
	}
	return slot, nil
}

// ListAvailable serves from a short-lived cache; every slot mutation
// flushes it, so a stale read window is bounded by the TTL.
func (s *Service) ListAvailable(ctx context.Context, filters *model.SlotFilters) ([]*model.Slot, error) {
	key := listCacheKey(filters)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]*model.Slot), nil
	}

	slots, err := s.repo.ListAvailable(ctx, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list available slots: %w", err)
	}

	s.cache.Set(key, slots, gocache.DefaultExpiration)
	return slots, nil
}

func (s *Service) Release(ctx context.Context, id uuid.UUID) (*model.Slot, error) {
	slot, err := s.repo.Release(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("slot", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to release slot: %w", err)
	}

	s.cache.Flush()
	return slot, nil
}

// InvalidateListings is called by the appointment ledger after it books or
// releases a slot inside its own transaction.
func (s *Service) InvalidateListings() {
	s.cache.Flush()
}

func listCacheKey(filters *model.SlotFilters) string {
	date := ""
	if filters.Date != nil {
		date = filters.Date.Format(dateLayout)
	}
	return fmt.Sprintf("slots:%s:%s", date, filters.PractitionerID)
}
