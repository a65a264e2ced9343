package sync

import (
	"context"
	"fmt"

	provider "hotel-broker/httpServices/provider"
	catalogModel "hotel-broker/models/catalog"
)

// HotelDetail combines the persisted hotel row with a live upstream fetch:
// local-owned fields (id, location link, manual flag) come from storage,
// upstream-owned content comes from the live response. Nothing is written
// back; this is a read model.
func (e *Engine) HotelDetail(ctx context.Context, feedID, hotelCode string) (*catalogModel.Hotel, error) {
	if feedID == "" {
		return nil, fmt.Errorf("hotel detail for %s: no feed id", hotelCode)
	}

	row, err := e.store.HotelByCode(ctx, hotelCode)
	if err != nil {
		return nil, err
	}

	live, err := e.source.GetHotelDetail(ctx, feedID, hotelCode)
	if err != nil {
		return nil, err
	}

	merged := *row
	applyHotel(&merged, provider.HotelListItem{
		Code:         live.Code,
		Name:         live.Name,
		Description:  live.Description,
		Stars:        live.Stars,
		Address:      live.Address,
		Images:       live.Images,
		LocationCode: live.LocationCode,
		Facilities:   live.Facilities,
		RevisionDate: live.RevisionDate,
	})
	return &merged, nil
}
