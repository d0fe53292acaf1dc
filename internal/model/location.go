package model

import (
	"slices"
	"strconv"
	"strings"
)

// Location is one discovered store page, immutable once constructed.
// Latitude, Longitude and the address heading are the required fields; a
// page missing any of them yields no Location at all.
type Location struct {
	ID          string  `json:"id"`
	Slug        string  `json:"slug"`
	Name        string  `json:"name"`
	CityState   string  `json:"city_state"`
	AddressLine string  `json:"address_line"`
	ZipCode     string  `json:"zip_code"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	URL         string  `json:"url"`
	ImageURL    string  `json:"image_url"`
}

// SortByID orders locations by the numeric value of their id, ascending.
// Ids that fail to parse (cannot happen for extracted records, whose ids are
// digit runs by construction) sort after numeric ones, by raw string.
func SortByID(locs []Location) {
	slices.SortStableFunc(locs, func(a, b Location) int {
		na, errA := strconv.Atoi(a.ID)
		nb, errB := strconv.Atoi(b.ID)
		switch {
		case errA == nil && errB == nil:
			return na - nb
		case errA == nil:
			return -1
		case errB == nil:
			return 1
		default:
			return strings.Compare(a.ID, b.ID)
		}
	})
}

// Collect flattens a result mapping into a numerically sorted slice.
func Collect(m map[string]Location) []Location {
	locs := make([]Location, 0, len(m))
	for _, loc := range m {
		locs = append(locs, loc)
	}
	SortByID(locs)
	return locs
}
