package hunt

import (
	"context"
	"fmt"

	"github.com/pota-logger/backend/internal/pota"
	"github.com/pota-logger/backend/internal/storage/models"
)

// SpotSource fetches the live activator spot feed.
type SpotSource interface {
	GetSpots(ctx context.Context) ([]pota.Spot, error)
}

// ContactSource lists the contacts logged in today's session.
type ContactSource interface {
	ListToday(ctx context.Context) ([]models.QSO, error)
}

// Service combines the spot feed with today's log.
type Service struct {
	spots    SpotSource
	contacts ContactSource
}

// NewService creates a hunt service.
func NewService(spots SpotSource, contacts ContactSource) *Service {
	return &Service{spots: spots, contacts: contacts}
}

// Spots fetches the current spots, narrows them by band and mode, and marks
// the ones already worked today. Spot feed errors are returned unwrapped so
// callers can inspect them.
func (s *Service) Spots(ctx context.Context, bandLabel, mode string) ([]pota.Spot, error) {
	spots, err := s.spots.GetSpots(ctx)
	if err != nil {
		return nil, err
	}

	qsos, err := s.contacts.ListToday(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading today's contacts: %w", err)
	}

	return Annotate(Filter(spots, bandLabel, mode), qsos), nil
}
