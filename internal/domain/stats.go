package domain

type IncidentStats struct {
	Total             int     `json:"total"`
	Unverified        int     `json:"unverified"`
	Verified          int     `json:"verified"`
	Handled           int     `json:"handled"`
	Resolved          int     `json:"resolved"`
	GreenZone         int     `json:"greenZone"`
	YellowZone        int     `json:"yellowZone"`
	RedZone           int     `json:"redZone"`
	AverageConfidence float64 `json:"averageConfidence"`
}

// Aggregate derives summary counts from the current incident set. Absent
// zones count as yellow. The empty set yields all zeroes, never NaN.
func Aggregate(incidents []Incident) IncidentStats {
	stats := IncidentStats{Total: len(incidents)}

	sum := 0
	for _, inc := range incidents {
		switch inc.Status {
		case StatusUnverified:
			stats.Unverified++
		case StatusVerified:
			stats.Verified++
		case StatusHandled:
			stats.Handled++
		case StatusResolved:
			stats.Resolved++
		}
		switch inc.EffectiveZone() {
		case ZoneGreen:
			stats.GreenZone++
		case ZoneYellow:
			stats.YellowZone++
		case ZoneRed:
			stats.RedZone++
		}
		sum += inc.Confidence
	}

	if stats.Total > 0 {
		stats.AverageConfidence = float64(sum) / float64(stats.Total)
	}
	return stats
}
