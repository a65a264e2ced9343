package sync

import (
	"time"

	provider "hotel-broker/httpServices/provider"
	catalogModel "hotel-broker/models/catalog"
)

// The apply functions below are the single place where field ownership is
// decided for each catalog entity: they copy every upstream-owned field onto
// the persisted row and nothing else. Local-owned fields (ids, foreign keys,
// manual flags) are simply never mentioned here, so sync cannot clobber
// them. Each returns whether anything changed.

func applyCurrency(dst *catalogModel.Currency, src provider.CurrencyItem) bool {
	changed := false
	if dst.Code != src.Code {
		dst.Code = src.Code
		changed = true
	}
	if dst.Name != src.Name {
		dst.Name = src.Name
		changed = true
	}
	if dst.Symbol != src.Symbol {
		dst.Symbol = src.Symbol
		changed = true
	}
	return changed
}

func applyBoardType(dst *catalogModel.BoardType, src provider.BoardTypeItem) bool {
	changed := false
	if dst.Code != src.Code {
		dst.Code = src.Code
		changed = true
	}
	if dst.Name != src.Name {
		dst.Name = src.Name
		changed = true
	}
	if dst.Description != src.Description {
		dst.Description = src.Description
		changed = true
	}
	return changed
}

func applyFacility(dst *catalogModel.Facility, src provider.FacilityItem) bool {
	changed := false
	if dst.Code != src.Code {
		dst.Code = src.Code
		changed = true
	}
	if dst.Name != src.Name {
		dst.Name = src.Name
		changed = true
	}
	if dst.Group != src.Group {
		dst.Group = src.Group
		changed = true
	}
	return changed
}

func applyRoomAttribute(dst *catalogModel.RoomAttribute, src provider.RoomAttributeItem) bool {
	changed := false
	if dst.Code != src.Code {
		dst.Code = src.Code
		changed = true
	}
	if dst.Name != src.Name {
		dst.Name = src.Name
		changed = true
	}
	return changed
}

func applyLocation(dst *catalogModel.Location, src provider.LocationItem) bool {
	changed := false
	if dst.Code != src.Code {
		dst.Code = src.Code
		changed = true
	}
	if dst.Name != src.Name {
		dst.Name = src.Name
		changed = true
	}
	if dst.Kind != src.Kind {
		dst.Kind = src.Kind
		changed = true
	}
	if dst.CountryCode != src.CountryCode {
		dst.CountryCode = src.CountryCode
		changed = true
	}
	return changed
}

func applyHotel(dst *catalogModel.Hotel, src provider.HotelListItem) bool {
	changed := false
	if dst.Code != src.Code {
		dst.Code = src.Code
		changed = true
	}
	if dst.Name != src.Name {
		dst.Name = src.Name
		changed = true
	}
	if dst.Description != src.Description {
		dst.Description = src.Description
		changed = true
	}
	if dst.Stars != src.Stars {
		dst.Stars = src.Stars
		changed = true
	}
	if dst.Address != src.Address {
		dst.Address = src.Address
		changed = true
	}
	if !equalStrings(dst.Images, src.Images) {
		dst.Images = src.Images
		changed = true
	}
	if !equalTimePtr(dst.RevisionDate, src.RevisionDate) {
		dst.RevisionDate = src.RevisionDate
		changed = true
	}
	return changed
}

func equalStrings(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func equalTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

// facilityCodes extracts the code set of a hotel's linked facilities.
func facilityCodes(facilities []catalogModel.Facility) map[string]bool {
	out := make(map[string]bool, len(facilities))
	for _, f := range facilities {
		out[f.Code] = true
	}
	return out
}

// sameFacilitySet reports whether the linked facilities already match the
// upstream code list.
func sameFacilitySet(current []catalogModel.Facility, upstream []string) bool {
	if len(current) != len(upstream) {
		return false
	}
	have := facilityCodes(current)
	for _, code := range upstream {
		if !have[code] {
			return false
		}
	}
	return true
}
