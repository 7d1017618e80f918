package service

import (
	"context"
	"fmt"

	"github.com/KeyzarRasya/lativa/internal/domain"
	"github.com/KeyzarRasya/lativa/pkg/e"
)

// NoDeviceGeolocator is the Geolocator for hosts without a positioning
// device. Every request fails as position-unavailable, steering the
// workflow toward manual map capture.
type NoDeviceGeolocator struct{}

func (NoDeviceGeolocator) CurrentPosition(_ context.Context) (domain.Coordinates, error) {
	return domain.Coordinates{}, fmt.Errorf("service.NoDeviceGeolocator: %w", e.ErrGeoPositionUnavailable)
}
