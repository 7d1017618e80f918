package service

import (
	"time"

	"github.com/google/uuid"

	"github.com/KeyzarRasya/lativa/internal/domain"
)

// SampleIncidents returns the built-in demo set served when the store is
// unreachable, so dashboards degrade to stale-but-populated instead of
// blank. Fresh copies every call; callers may mutate freely.
func SampleIncidents() []*domain.Incident {
	base := time.Date(2025, 11, 3, 8, 0, 0, 0, time.UTC)

	seeds := []domain.Incident{
		{
			Type:        "Verified",
			Status:      domain.StatusVerified,
			Zone:        domain.ZoneRed,
			Location:    "Jl. Veteran, Kec. Purwakarta",
			Address:     "Jl. Veteran No. 45, Kec. Purwakarta",
			Description: "Terdeteksi aktivitas mencurigakan dengan potensi konflik antar kelompok di area persimpangan jalan veteran.",
			Coordinates: domain.Coordinates{Lat: -6.5550, Lng: 107.4410},
			Confidence:  92,
			Metadata:    map[string]any{"source": "ai_detection", "priority": "high", "category": "crime"},
		},
		{
			Type:        "Unverified",
			Status:      domain.StatusUnverified,
			Location:    "Kantor Kecamatan Jatiluhur",
			Address:     "Jl. Raya Jatiluhur, Kec. Jatiluhur",
			Description: "Laporan warga tentang aktivitas tidak biasa di area kantor kecamatan. Perlu verifikasi lebih lanjut dari petugas lapangan.",
			Coordinates: domain.Coordinates{Lat: -6.5700, Lng: 107.4600},
			Confidence:  88,
			Metadata:    map[string]any{"source": "citizen_report", "priority": "medium", "category": "social"},
		},
		{
			Type:        "Resolved",
			Status:      domain.StatusResolved,
			Zone:        domain.ZoneGreen,
			Location:    "Pasar Baru, Purwakarta",
			Address:     "Pasar Baru, Jl. Pasar No. 12, Purwakarta",
			Description: "Kasus pencurian berhasil ditangani, pelaku diamankan petugas. Barang bukti telah diamankan dan tersangka dalam proses hukum.",
			Coordinates: domain.Coordinates{Lat: -6.5580, Lng: 107.4450},
			Confidence:  95,
			Metadata:    map[string]any{"source": "manual", "priority": "low", "category": "crime"},
		},
		{
			Type:        "Handled",
			Status:      domain.StatusHandled,
			Zone:        domain.ZoneYellow,
			Location:    "Alun-alun Purwakarta",
			Address:     "Alun-alun Purwakarta, Jl. Veteran",
			Description: "Deteksi aktivitas demonstrasi spontan di area alun-alun. Tim keamanan telah disiagakan untuk monitoring.",
			Coordinates: domain.Coordinates{Lat: -6.5565, Lng: 107.4425},
			Confidence:  89,
			Metadata:    map[string]any{"source": "ai_detection", "priority": "high", "category": "public_order"},
		},
	}

	out := make([]*domain.Incident, len(seeds))
	for i := range seeds {
		inc := seeds[i]
		inc.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(inc.Location))
		inc.CreatedAt = base.Add(-time.Duration(i) * time.Hour)
		inc.UpdatedAt = inc.CreatedAt
		out[i] = &inc
	}
	return out
}
