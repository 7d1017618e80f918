package domain

type CreateIncidentRequest struct {
	Type        string         `json:"type" validate:"omitempty"`
	Status      IncidentStatus `json:"status" validate:"omitempty,incident_status"`
	Zone        Zone           `json:"zone" validate:"omitempty,zone"`
	Location    string         `json:"location"`
	Address     string         `json:"address"`
	Description string         `json:"description"`
	Coordinates Coordinates    `json:"coordinates" validate:"required"`
	Confidence  *int           `json:"confidence" validate:"omitempty,min=0,max=100"`
	CreatedBy   string         `json:"createdBy"`
	Metadata    map[string]any `json:"metadata"`
}

// UpdateIncidentRequest carries a partial merge. Nil pointers leave the
// stored value untouched; updatedAt is always refreshed.
type UpdateIncidentRequest struct {
	Type        *string         `json:"type"`
	Status      *IncidentStatus `json:"status" validate:"omitempty,incident_status"`
	Zone        *Zone           `json:"zone" validate:"omitempty,zone"`
	Location    *string         `json:"location"`
	Address     *string         `json:"address"`
	Description *string         `json:"description"`
	Confidence  *int            `json:"confidence" validate:"omitempty,min=0,max=100"`
	Metadata    map[string]any  `json:"metadata"`
}

type OrderDirection string

const (
	OrderAsc  OrderDirection = "asc"
	OrderDesc OrderDirection = "desc"
)

// ListFilter mirrors the store's query surface: equality on status,
// single-field ordering, result cap.
type ListFilter struct {
	Status         IncidentStatus `json:"status,omitempty" validate:"omitempty,incident_status"`
	OrderBy        string         `json:"orderBy,omitempty"`
	OrderDirection OrderDirection `json:"orderDirection,omitempty"`
	Limit          int            `json:"limit,omitempty" validate:"omitempty,min=1"`
}

const (
	DefaultListLimit  = 50
	BoundingBoxLimit  = 1000
	WorkingSetLimit   = 1000
	DefaultOrderField = "createdAt"
)

// Normalized fills the defaults from the original query contract:
// createdAt descending, cap 50.
func (f ListFilter) Normalized() ListFilter {
	if f.OrderBy == "" {
		f.OrderBy = DefaultOrderField
	}
	if f.OrderDirection == "" {
		f.OrderDirection = OrderDesc
	}
	if f.Limit <= 0 {
		f.Limit = DefaultListLimit
	}
	return f
}

type BoundingBox struct {
	MinLat float64 `json:"minLat" validate:"lat"`
	MaxLat float64 `json:"maxLat" validate:"lat"`
	MinLng float64 `json:"minLng" validate:"lng"`
	MaxLng float64 `json:"maxLng" validate:"lng"`
}

func (b BoundingBox) Contains(c Coordinates) bool {
	return c.Lat >= b.MinLat && c.Lat <= b.MaxLat &&
		c.Lng >= b.MinLng && c.Lng <= b.MaxLng
}

type TransitionRequest struct {
	Status IncidentStatus `json:"status" validate:"required,incident_status"`
}

type ReassignZoneRequest struct {
	Zone Zone `json:"zone" validate:"required,zone"`
}
