package domain

import "strings"

// FilterCriteria is the dashboard's view filter. "all" (or empty) on status
// and zone matches everything; empty search matches everything.
type FilterCriteria struct {
	Search string
	Status string
	Zone   string
}

const FilterAll = "all"

// Filter derives the displayed subset: case-insensitive substring search
// over description, location and type, ANDed with status and zone equality.
// Pure over its inputs; input order is preserved and the inputs are never
// mutated.
func Filter(incidents []Incident, c FilterCriteria) []Incident {
	search := strings.ToLower(c.Search)

	out := make([]Incident, 0, len(incidents))
	for _, inc := range incidents {
		if search != "" &&
			!strings.Contains(strings.ToLower(inc.Description), search) &&
			!strings.Contains(strings.ToLower(inc.Location), search) &&
			!strings.Contains(strings.ToLower(inc.Type), search) {
			continue
		}
		if c.Status != "" && c.Status != FilterAll && string(inc.Status) != c.Status {
			continue
		}
		if c.Zone != "" && c.Zone != FilterAll && string(inc.EffectiveZone()) != c.Zone {
			continue
		}
		out = append(out, inc)
	}
	return out
}
