package e

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func Wrap(message string, err error) error {
	return fmt.Errorf("%s: %w", message, err)
}

var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrValidation         = errors.New("validation failed")
	ErrStoreUnavailable   = errors.New("store unavailable")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrGeocodeUnavailable = errors.New("geocode unavailable")
	ErrInternal           = errors.New("internal error")
	ErrDeadline           = errors.New("deadline exceeded")
	ErrCanceled           = errors.New("context canceled")
	ErrUniqueViolation    = errors.New("unique violation")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidStatus      = errors.New("invalid status")
	ErrInvalidZone        = errors.New("invalid zone")
	ErrTransitionDenied   = errors.New("transition denied by policy")

	// Device geolocation failure kinds. Each stays a distinct sentinel so
	// the reporting workflow can surface a different message per kind.
	ErrGeoPermissionDenied    = errors.New("geolocation permission denied")
	ErrGeoPositionUnavailable = errors.New("geolocation position unavailable")
	ErrGeoTimeout             = errors.New("geolocation timed out")
)

func WrapError(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, ErrDeadline)
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, ErrCanceled)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return fmt.Errorf("%s: %w", op, ErrUniqueViolation)
		case "23503", "23514":
			return fmt.Errorf("%s: %w", op, ErrValidation)
		default:
			return fmt.Errorf("%s: pg error %s: %w", op, pgErr.Code, ErrStoreUnavailable)
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, ErrStoreUnavailable)
}
