package database

import (
	"time"

	"github.com/zapponejosh/lunisolar-api/internal/calendar"
)

// SavedChart is a four-pillars chart stored under a generated id.
type SavedChart struct {
	ID        string             `json:"id"`
	Label     *string            `json:"label,omitempty"`
	Male      bool               `json:"male"`
	Birth     calendar.CivilTime `json:"birth"`
	BaZi      string             `json:"bazi"`
	Chart     calendar.Chart     `json:"chart"`
	CreatedAt time.Time          `json:"created_at"`
}

// CacheStats describes the almanac cache.
type CacheStats struct {
	Years     int  `json:"years"`
	FirstYear *int `json:"first_year,omitempty"`
	LastYear  *int `json:"last_year,omitempty"`
	Stale     int  `json:"stale"` // rows written by another schema version
}
