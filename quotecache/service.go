package quotecache

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	provider "hotel-broker/httpServices/provider"
	"hotel-broker/logger"
)

// RoomSearcher is the slice of the provider client the quote cache needs.
type RoomSearcher interface {
	SearchRooms(ctx context.Context, req provider.RoomSearchRequest) (*provider.RoomSearchResponse, error)
}

// Service performs live upstream searches and stores the results as
// bookable sessions. Price data is always live at quote time; there is no
// fallback to cached results on upstream failure.
type Service struct {
	searcher RoomSearcher
	store    Store
	feedID   string
	now      func() time.Time
}

func NewService(searcher RoomSearcher, store Store, feedID string) *Service {
	return &Service{searcher: searcher, store: store, feedID: feedID, now: time.Now}
}

const dateLayout = "2006-01-02"

// Search runs an upstream room search and stores the result set under a
// fresh session id valid for Validity from now.
func (s *Service) Search(ctx context.Context, criteria SearchCriteria) (*Session, error) {
	resp, err := s.searcher.SearchRooms(ctx, provider.RoomSearchRequest{
		FeedID:    s.feedID,
		HotelCode: criteria.HotelCode,
		CheckIn:   criteria.CheckIn.Format(dateLayout),
		CheckOut:  criteria.CheckOut.Format(dateLayout),
		Occupancy: provider.Occupancy{
			Adults:      criteria.Adults,
			Children:    criteria.Children,
			ChildrenAge: criteria.ChildrenAge,
		},
		Currency:    criteria.Currency,
		Nationality: criteria.Nationality,
	})
	if err != nil {
		return nil, err
	}

	now := s.now()
	session := &Session{
		ID:          uuid.NewString(),
		HotelCode:   criteria.HotelCode,
		CheckIn:     criteria.CheckIn,
		CheckOut:    criteria.CheckOut,
		Adults:      criteria.Adults,
		Children:    criteria.Children,
		Currency:    criteria.Currency,
		Nationality: criteria.Nationality,
		Rooms:       resp.Rooms,
		CreatedAt:   now,
		ExpiresAt:   now.Add(Validity),
	}

	if err := s.store.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("persist search session: %w", err)
	}

	logger.Info(fmt.Sprintf("search session %s created for hotel %s (%d rooms)", session.ID, session.HotelCode, len(session.Rooms)))
	return session, nil
}

// Lookup resolves a session id. A session past its validity window is
// reported as ErrExpired regardless of whether physical cleanup has run.
func (s *Service) Lookup(ctx context.Context, id string) (*Session, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.Expired(s.now()) {
		return nil, ErrExpired
	}
	return session, nil
}
