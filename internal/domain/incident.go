package domain

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type IncidentStatus string

const (
	StatusUnverified IncidentStatus = "unverified"
	StatusVerified   IncidentStatus = "verified"
	StatusHandled    IncidentStatus = "handled"
	StatusResolved   IncidentStatus = "resolved"
)

func (s IncidentStatus) Valid() bool {
	switch s {
	case StatusUnverified, StatusVerified, StatusHandled, StatusResolved:
		return true
	}
	return false
}

type Zone string

const (
	ZoneGreen  Zone = "green"
	ZoneYellow Zone = "yellow"
	ZoneRed    Zone = "red"
)

func (z Zone) Valid() bool {
	switch z {
	case ZoneGreen, ZoneYellow, ZoneRed:
		return true
	}
	return false
}

// statusTypeMap is the canonical status -> display type table. Type is a
// derived field; every status write must go through TypeForStatus so the
// two never desynchronize.
var statusTypeMap = map[IncidentStatus]string{
	StatusUnverified: "Unverified",
	StatusVerified:   "Verified",
	StatusHandled:    "Handled",
	StatusResolved:   "Resolved",
}

func TypeForStatus(s IncidentStatus) string {
	if t, ok := statusTypeMap[s]; ok {
		return t
	}
	return "Unverified"
}

type Coordinates struct {
	Lat float64 `json:"lat" validate:"lat"`
	Lng float64 `json:"lng" validate:"lng"`
}

// Valid reports whether the pair can be placed on a map. Records failing
// this are display-invalid but are still stored and listed.
func (c Coordinates) Valid() bool {
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return false
	}
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

type Incident struct {
	ID          uuid.UUID      `json:"id"`
	Type        string         `json:"type"`
	Status      IncidentStatus `json:"status"`
	Zone        Zone           `json:"zone,omitempty"`
	Location    string         `json:"location"`
	Address     string         `json:"address"`
	Description string         `json:"description"`
	Coordinates Coordinates    `json:"coordinates"`
	Confidence  int            `json:"confidence"` // 0-100
	CreatedBy   string         `json:"createdBy,omitempty"`
	Metadata    map[string]any `json:"metadata,omitempty"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// EffectiveZone applies the read-time convention: stored records may
// legitimately lack a zone, in which case they count as yellow.
func (i Incident) EffectiveZone() Zone {
	if i.Zone == "" {
		return ZoneYellow
	}
	return i.Zone
}
