// Package sync incrementally merges upstream reference data and the hotel
// catalog into the local store. Upstream-owned fields are always overwritten;
// local-owned fields are never touched. One stage's failures never abort the
// stages after it.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	gosync "sync"
	"time"

	"hotel-broker/config"
	provider "hotel-broker/httpServices/provider"
	"hotel-broker/logger"
	catalogModel "hotel-broker/models/catalog"
	"hotel-broker/repository"
)

// ErrSyncInProgress is returned when a run is requested while another run is
// still executing. Concurrent runs could interleave upserts and break the
// stage ordering guarantee, so they are rejected rather than queued.
var ErrSyncInProgress = errors.New("a sync run is already in progress")

// CatalogSource is the slice of the provider client the engine fetches from.
type CatalogSource interface {
	GetCurrencies(ctx context.Context, feedID string) ([]provider.CurrencyItem, error)
	GetBoardTypes(ctx context.Context, feedID string) ([]provider.BoardTypeItem, error)
	GetFacilities(ctx context.Context, feedID string) ([]provider.FacilityItem, error)
	GetRoomAttributes(ctx context.Context, feedID string) ([]provider.RoomAttributeItem, error)
	GetLocations(ctx context.Context, feedID string) ([]provider.LocationItem, error)
	GetHotelList(ctx context.Context, feedID string, lastRevisionDate *time.Time) ([]provider.HotelListItem, error)
	GetHotelDetail(ctx context.Context, feedID, hotelCode string) (*provider.HotelDetailResponse, error)
}

// CatalogStore is the persistence interface the engine upserts through.
type CatalogStore interface {
	CurrencyByCode(ctx context.Context, code string) (*catalogModel.Currency, error)
	SaveCurrency(ctx context.Context, row *catalogModel.Currency) error
	BoardTypeByCode(ctx context.Context, code string) (*catalogModel.BoardType, error)
	SaveBoardType(ctx context.Context, row *catalogModel.BoardType) error
	FacilityByCode(ctx context.Context, code string) (*catalogModel.Facility, error)
	SaveFacility(ctx context.Context, row *catalogModel.Facility) error
	FacilitiesByCodes(ctx context.Context, codes []string) ([]catalogModel.Facility, error)
	RoomAttributeByCode(ctx context.Context, code string) (*catalogModel.RoomAttribute, error)
	SaveRoomAttribute(ctx context.Context, row *catalogModel.RoomAttribute) error
	LocationByCode(ctx context.Context, code string) (*catalogModel.Location, error)
	SaveLocation(ctx context.Context, row *catalogModel.Location) error
	HotelByCode(ctx context.Context, code string) (*catalogModel.Hotel, error)
	SaveHotel(ctx context.Context, row *catalogModel.Hotel) error
	ReplaceHotelFacilities(ctx context.Context, hotel *catalogModel.Hotel, facilities []catalogModel.Facility) error
	CreateSyncRun(ctx context.Context, run *catalogModel.SyncRun) error
	UpdateSyncRun(ctx context.Context, run *catalogModel.SyncRun) error
	LastSuccessfulSyncRun(ctx context.Context, feedID string) (*catalogModel.SyncRun, error)
}

// Stats counts the outcome of one entity type within a run.
type Stats struct {
	Created   int `json:"created"`
	Updated   int `json:"updated"`
	Unchanged int `json:"unchanged"`
	Failed    int `json:"failed"`
}

// Summary maps entity type to its run stats.
type Summary map[string]*Stats

// Engine runs the staged catalog sync. Runs are serialized: a second SyncAll
// while one is executing returns ErrSyncInProgress.
type Engine struct {
	source  CatalogSource
	store   CatalogStore
	running gosync.Mutex
	now     func() time.Time
}

func NewEngine(source CatalogSource, store CatalogStore) *Engine {
	return &Engine{source: source, store: store, now: time.Now}
}

// SyncAll fetches and upserts every stage in dependency order: currencies
// and board types first, then facilities and room attributes, then
// locations, then hotels (which reference locations and facilities). A
// failing row or a failing stage is counted and the run continues.
func (e *Engine) SyncAll(ctx context.Context, feedID string) (Summary, error) {
	if feedID == "" {
		return nil, config.ErrMissingFeedID
	}
	if !e.running.TryLock() {
		return nil, ErrSyncInProgress
	}
	defer e.running.Unlock()

	run := &catalogModel.SyncRun{FeedID: feedID, StartedAt: e.now()}
	if err := e.store.CreateSyncRun(ctx, run); err != nil {
		return nil, fmt.Errorf("record sync run: %w", err)
	}

	var lastRevision *time.Time
	if prev, err := e.store.LastSuccessfulSyncRun(ctx, feedID); err == nil {
		lastRevision = prev.LastRevisionDate
	}

	summary := Summary{
		"currencies":      &Stats{},
		"board_types":     &Stats{},
		"facilities":      &Stats{},
		"room_attributes": &Stats{},
		"locations":       &Stats{},
		"hotels":          &Stats{},
	}

	e.syncCurrencies(ctx, feedID, summary["currencies"])
	e.syncBoardTypes(ctx, feedID, summary["board_types"])
	e.syncFacilities(ctx, feedID, summary["facilities"])
	e.syncRoomAttributes(ctx, feedID, summary["room_attributes"])
	e.syncLocations(ctx, feedID, summary["locations"])
	maxRevision := e.syncHotels(ctx, feedID, lastRevision, summary["hotels"])

	finished := e.now()
	run.FinishedAt = &finished
	failed := 0
	for _, stats := range summary {
		failed += stats.Failed
	}
	// A run with failures must not become the incremental marker source:
	// a hotel whose upsert failed would sit below the marker and never be
	// refetched until upstream bumps its revision again.
	run.Succeeded = failed == 0
	if maxRevision != nil {
		run.LastRevisionDate = maxRevision
	} else {
		run.LastRevisionDate = lastRevision
	}
	if raw, err := json.Marshal(summary); err == nil {
		run.Summary = string(raw)
	}
	if err := e.store.UpdateSyncRun(ctx, run); err != nil {
		logger.Error("failed to finalize sync run", err)
	}

	logger.Success(fmt.Sprintf("sync run finished for feed %s: %s", feedID, run.Summary))
	return summary, nil
}

func (e *Engine) syncCurrencies(ctx context.Context, feedID string, stats *Stats) {
	items, err := e.source.GetCurrencies(ctx, feedID)
	if err != nil {
		logger.Error("sync: fetch currencies failed", err)
		stats.Failed++
		return
	}
	for _, item := range items {
		row, err := e.store.CurrencyByCode(ctx, item.Code)
		created := false
		if errors.Is(err, repository.ErrNotFound) {
			row = &catalogModel.Currency{}
			created = true
		} else if err != nil {
			stats.Failed++
			continue
		}
		changed := applyCurrency(row, item)
		if !created && !changed {
			stats.Unchanged++
			continue
		}
		if err := e.store.SaveCurrency(ctx, row); err != nil {
			logger.Error("sync: upsert currency "+item.Code+" failed", err)
			stats.Failed++
			continue
		}
		if created {
			stats.Created++
		} else {
			stats.Updated++
		}
	}
}

func (e *Engine) syncBoardTypes(ctx context.Context, feedID string, stats *Stats) {
	items, err := e.source.GetBoardTypes(ctx, feedID)
	if err != nil {
		logger.Error("sync: fetch board types failed", err)
		stats.Failed++
		return
	}
	for _, item := range items {
		row, err := e.store.BoardTypeByCode(ctx, item.Code)
		created := false
		if errors.Is(err, repository.ErrNotFound) {
			row = &catalogModel.BoardType{}
			created = true
		} else if err != nil {
			stats.Failed++
			continue
		}
		changed := applyBoardType(row, item)
		if !created && !changed {
			stats.Unchanged++
			continue
		}
		if err := e.store.SaveBoardType(ctx, row); err != nil {
			logger.Error("sync: upsert board type "+item.Code+" failed", err)
			stats.Failed++
			continue
		}
		if created {
			stats.Created++
		} else {
			stats.Updated++
		}
	}
}

func (e *Engine) syncFacilities(ctx context.Context, feedID string, stats *Stats) {
	items, err := e.source.GetFacilities(ctx, feedID)
	if err != nil {
		logger.Error("sync: fetch facilities failed", err)
		stats.Failed++
		return
	}
	for _, item := range items {
		row, err := e.store.FacilityByCode(ctx, item.Code)
		created := false
		if errors.Is(err, repository.ErrNotFound) {
			row = &catalogModel.Facility{}
			created = true
		} else if err != nil {
			stats.Failed++
			continue
		}
		changed := applyFacility(row, item)
		if !created && !changed {
			stats.Unchanged++
			continue
		}
		if err := e.store.SaveFacility(ctx, row); err != nil {
			logger.Error("sync: upsert facility "+item.Code+" failed", err)
			stats.Failed++
			continue
		}
		if created {
			stats.Created++
		} else {
			stats.Updated++
		}
	}
}

func (e *Engine) syncRoomAttributes(ctx context.Context, feedID string, stats *Stats) {
	items, err := e.source.GetRoomAttributes(ctx, feedID)
	if err != nil {
		logger.Error("sync: fetch room attributes failed", err)
		stats.Failed++
		return
	}
	for _, item := range items {
		row, err := e.store.RoomAttributeByCode(ctx, item.Code)
		created := false
		if errors.Is(err, repository.ErrNotFound) {
			row = &catalogModel.RoomAttribute{}
			created = true
		} else if err != nil {
			stats.Failed++
			continue
		}
		changed := applyRoomAttribute(row, item)
		if !created && !changed {
			stats.Unchanged++
			continue
		}
		if err := e.store.SaveRoomAttribute(ctx, row); err != nil {
			logger.Error("sync: upsert room attribute "+item.Code+" failed", err)
			stats.Failed++
			continue
		}
		if created {
			stats.Created++
		} else {
			stats.Updated++
		}
	}
}

// syncLocations upserts locations and resolves the parent hierarchy. Parent
// resolution runs as a fix-up pass because upstream ordering does not
// guarantee parents before children.
func (e *Engine) syncLocations(ctx context.Context, feedID string, stats *Stats) {
	items, err := e.source.GetLocations(ctx, feedID)
	if err != nil {
		logger.Error("sync: fetch locations failed", err)
		stats.Failed++
		return
	}

	type parentLink struct {
		childCode  string
		parentCode string
	}
	var links []parentLink

	for _, item := range items {
		row, err := e.store.LocationByCode(ctx, item.Code)
		created := false
		if errors.Is(err, repository.ErrNotFound) {
			row = &catalogModel.Location{}
			created = true
		} else if err != nil {
			stats.Failed++
			continue
		}
		changed := applyLocation(row, item)
		if created || changed {
			if err := e.store.SaveLocation(ctx, row); err != nil {
				logger.Error("sync: upsert location "+item.Code+" failed", err)
				stats.Failed++
				continue
			}
			if created {
				stats.Created++
			} else {
				stats.Updated++
			}
		} else {
			stats.Unchanged++
		}
		if item.ParentCode != "" {
			links = append(links, parentLink{childCode: item.Code, parentCode: item.ParentCode})
		}
	}

	for _, link := range links {
		child, err := e.store.LocationByCode(ctx, link.childCode)
		if err != nil {
			continue
		}
		parent, err := e.store.LocationByCode(ctx, link.parentCode)
		if err != nil {
			logger.Warning(fmt.Sprintf("sync: location %s references unknown parent %s", link.childCode, link.parentCode))
			continue
		}
		if child.ParentID != nil && *child.ParentID == parent.ID {
			continue
		}
		child.ParentID = &parent.ID
		if err := e.store.SaveLocation(ctx, child); err != nil {
			logger.Error("sync: link location parent for "+link.childCode+" failed", err)
			stats.Failed++
		}
	}
}

// syncHotels upserts the hotel catalog. With a lastRevisionDate only changed
// hotels are fetched; otherwise the whole catalog is refetched. Returns the
// highest revision date seen, for the next incremental run, or nil when any
// row failed so the failed hotels stay in scope of the next fetch.
func (e *Engine) syncHotels(ctx context.Context, feedID string, lastRevision *time.Time, stats *Stats) *time.Time {
	items, err := e.source.GetHotelList(ctx, feedID, lastRevision)
	if err != nil {
		logger.Error("sync: fetch hotel list failed", err)
		stats.Failed++
		return nil
	}

	var maxRevision *time.Time
	for _, item := range items {
		if item.RevisionDate != nil && (maxRevision == nil || item.RevisionDate.After(*maxRevision)) {
			rev := *item.RevisionDate
			maxRevision = &rev
		}

		row, err := e.store.HotelByCode(ctx, item.Code)
		created := false
		if errors.Is(err, repository.ErrNotFound) {
			row = &catalogModel.Hotel{}
			created = true
		} else if err != nil {
			stats.Failed++
			continue
		}

		changed := applyHotel(row, item)

		// The location link is derived from the upstream location code
		// but stored as a local foreign key.
		if item.LocationCode != "" {
			if loc, lerr := e.store.LocationByCode(ctx, item.LocationCode); lerr == nil {
				if row.LocationID == nil || *row.LocationID != loc.ID {
					row.LocationID = &loc.ID
					changed = true
				}
			}
		}

		facilityChanged := !sameFacilitySet(row.Facilities, item.Facilities)

		if !created && !changed && !facilityChanged {
			stats.Unchanged++
			continue
		}

		if created || changed {
			if err := e.store.SaveHotel(ctx, row); err != nil {
				logger.Error("sync: upsert hotel "+item.Code+" failed", err)
				stats.Failed++
				continue
			}
		}

		if facilityChanged {
			facilities, ferr := e.store.FacilitiesByCodes(ctx, item.Facilities)
			if ferr != nil {
				logger.Error("sync: resolve facilities for hotel "+item.Code+" failed", ferr)
				stats.Failed++
				continue
			}
			if err := e.store.ReplaceHotelFacilities(ctx, row, facilities); err != nil {
				logger.Error("sync: replace facilities for hotel "+item.Code+" failed", err)
				stats.Failed++
				continue
			}
		}

		if created {
			stats.Created++
		} else {
			stats.Updated++
		}
	}
	// Advance the marker only when every row landed.
	if stats.Failed > 0 {
		return nil
	}
	return maxRevision
}
