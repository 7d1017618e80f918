package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/KeyzarRasya/lativa/internal/domain"
	"github.com/KeyzarRasya/lativa/internal/geocode"
	"github.com/KeyzarRasya/lativa/pkg/e"
)

// GeolocationTimeout is the one-shot device position budget. No cached
// position reuse.
const GeolocationTimeout = 10 * time.Second

// ZonePolicy maps the chosen danger zone to the report's confidence and
// priority. The default table is a placeholder heuristic, not a physical
// invariant, so it stays injectable.
type ZonePolicy func(zone domain.Zone) (confidence int, priority string)

func DefaultZonePolicy(zone domain.Zone) (int, string) {
	switch zone {
	case domain.ZoneRed:
		return 85, "high"
	case domain.ZoneGreen:
		return 95, "low"
	default:
		return 70, "medium"
	}
}

// ReportService drives the citizen reporting workflow: location
// acquisition, address resolution, zone selection, validation gate,
// submission.
type ReportService struct {
	incidents  IncidentCreator
	geolocator Geolocator
	geocoder   Geocoder
	zonePolicy ZonePolicy
	logger     *slog.Logger
}

func NewReportService(
	incidents IncidentCreator,
	geolocator Geolocator,
	geocoder Geocoder,
	zonePolicy ZonePolicy,
	logger *slog.Logger,
) *ReportService {
	if zonePolicy == nil {
		zonePolicy = DefaultZonePolicy
	}
	return &ReportService{
		incidents:  incidents,
		geolocator: geolocator,
		geocoder:   geocoder,
		zonePolicy: zonePolicy,
		logger:     logger,
	}
}

// UseDeviceLocation acquires a one-shot device position and resolves its
// address. On failure the form's coordinates stay nil and the error keeps
// its distinct geolocation kind so the caller can word the message per
// kind.
func (s *ReportService) UseDeviceLocation(ctx context.Context, form *domain.ReportForm) error {
	ctx, cancel := context.WithTimeout(ctx, GeolocationTimeout)
	defer cancel()

	coords, err := s.geolocator.CurrentPosition(ctx)
	if err != nil {
		s.logger.Warn("device geolocation failed", slog.Any("error", err))
		return err
	}
	return s.SetLocation(ctx, form, coords)
}

// SetLocation captures a manually chosen map coordinate and resolves its
// address. Geocode failure is absorbed by the coordinate-string fallback;
// the reporter can still edit the address by hand.
func (s *ReportService) SetLocation(ctx context.Context, form *domain.ReportForm, coords domain.Coordinates) error {
	const op = "service.Report.SetLocation"

	if !coords.Valid() {
		return fmt.Errorf("%s: %w", op, e.ErrInvalidCoordinates)
	}
	form.Coordinates = &coords

	addr, err := s.geocoder.Reverse(ctx, coords)
	if err != nil {
		s.logger.Warn("reverse geocode failed, using coordinate fallback", slog.Any("error", err))
		addr = geocode.FallbackAddress(coords)
	}
	form.Address = addr
	return nil
}

// Submit runs the validation gate and creates the incident. The form resets
// only after a successful create; on failure every entered field survives
// so the reporter can retry without re-entering data.
func (s *ReportService) Submit(ctx context.Context, form *domain.ReportForm, reporterID string) (uuid.UUID, error) {
	const op = "service.Report.Submit"

	if !form.CanSubmit() {
		return uuid.Nil, fmt.Errorf("%s: %w", op, e.ErrValidation)
	}

	zone := form.Zone
	if zone == "" {
		zone = domain.ZoneYellow
	}
	confidence, priority := s.zonePolicy(zone)

	req := domain.CreateIncidentRequest{
		Zone:        zone,
		Location:    form.Address,
		Address:     form.Address,
		Description: form.Description,
		Coordinates: *form.Coordinates,
		Confidence:  &confidence,
		CreatedBy:   reporterID,
		Metadata: map[string]any{
			"source":   "citizen_report",
			"priority": priority,
		},
	}

	id, err := s.incidents.Create(ctx, req)
	if err != nil {
		s.logger.Error("report submission failed", slog.Any("error", err))
		return uuid.Nil, err
	}

	form.Reset()
	s.logger.Info("citizen report submitted",
		slog.String("id", id.String()),
		slog.String("zone", string(zone)),
		slog.Int("confidence", confidence),
	)
	return id, nil
}
