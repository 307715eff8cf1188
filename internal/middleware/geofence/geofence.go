// Package geofence rejects authenticated requests whose reported location is
// outside every site carried in the caller's token.
package geofence

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mohit-mindspick/whatsapp/internal/geo"
	"github.com/mohit-mindspick/whatsapp/internal/logging"
	"github.com/mohit-mindspick/whatsapp/internal/metrics"
	"github.com/mohit-mindspick/whatsapp/internal/middleware/auth"
	"github.com/mohit-mindspick/whatsapp/internal/tokens"
)

const (
	ErrCoordinatesMissing = "ERR_GEOFENCE_COORDINATES_MISSING"
	ErrViolation          = "ERR_GEOFENCE_VIOLATION"
	ErrCheckFailed        = "ERR_GEOFENCE_CHECK_FAILED"

	coordinatesMissingMessage = "User has role with geofencing enabled. x-latitude/X-Latitude and x-longitude/X-Longitude headers are required"
)

type Options struct {
	OnUnexpectedError auth.ErrorPolicy
	Metrics           *metrics.Metrics
}

// Middleware must run after the authentication filter; it reads the verified
// claims from the installed identity.
func Middleware(opts Options) echo.MiddlewareFunc {
	if opts.OnUnexpectedError == "" {
		opts.OnUnexpectedError = auth.PassThrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if auth.IsPublic(c.Request().URL.Path) {
				return next(c)
			}
			id, ok := auth.IdentityFrom(c)
			if !ok || id.Claims == nil || id.Token == "" {
				return next(c)
			}
			sites := id.Claims.Sites
			if len(sites) == 0 {
				opts.Metrics.GeofenceDecision("disabled")
				return next(c)
			}

			l := logging.FromContext(c.Request().Context())

			point, ok := coordinates(c.Request())
			if !ok {
				opts.Metrics.GeofenceDecision("coordinates_missing")
				l.Warn("geofence_coordinates_missing", "user", id.Subject)
				return c.JSON(http.StatusBadRequest, map[string]string{
					"error":   ErrCoordinatesMissing,
					"message": coordinatesMissingMessage,
				})
			}

			inside, err := Inside(point, sites)
			switch {
			case err != nil:
				opts.Metrics.GeofenceDecision("error")
				l.Error("geofence_check_error", "user", id.Subject, "policy", string(opts.OnUnexpectedError), "error", err)
				if opts.OnUnexpectedError == auth.Reject {
					return c.JSON(http.StatusForbidden, map[string]string{
						"error":   ErrCheckFailed,
						"message": "Geofence check could not be completed",
					})
				}
				return next(c)
			case !inside:
				opts.Metrics.GeofenceDecision("violation")
				l.Warn("geofence_violation", "user", id.Subject,
					"latitude", point.Latitude, "longitude", point.Longitude, "sites", len(sites))
				return c.JSON(http.StatusForbidden, map[string]string{
					"error": ErrViolation,
					"message": fmt.Sprintf("Access denied: Location (%.6f, %.6f) is outside geofence boundaries",
						point.Latitude, point.Longitude),
				})
			}

			opts.Metrics.GeofenceDecision("inside")
			return next(c)
		}
	}
}

// Inside reports whether p lies within any site with a positive radius.
// Sites without a positive radius are skipped.
func Inside(p geo.Point, sites []tokens.Site) (bool, error) {
	if !p.Valid() {
		return false, fmt.Errorf("%w: (%f, %f)", geo.ErrInvalidCoordinate, p.Latitude, p.Longitude)
	}
	for _, s := range sites {
		if s.GeofenceRadiusMetres <= 0 {
			continue
		}
		centre := geo.Point{Latitude: s.Latitude, Longitude: s.Longitude}
		if !centre.Valid() {
			continue
		}
		within, err := geo.Within(p, centre, s.GeofenceRadiusMetres)
		if err != nil {
			return false, err
		}
		if within {
			return true, nil
		}
	}
	return false, nil
}

func coordinates(r *http.Request) (geo.Point, bool) {
	lat, ok := header(r, "x-latitude", "X-Latitude")
	if !ok {
		return geo.Point{}, false
	}
	lon, ok := header(r, "x-longitude", "X-Longitude")
	if !ok {
		return geo.Point{}, false
	}
	return geo.Point{Latitude: lat, Longitude: lon}, true
}

// header reads the lowercase spelling first, then the canonical one. Go
// canonicalizes names on ingestion, so the raw map is consulted for
// non-canonical keys set by hand.
func header(r *http.Request, names ...string) (float64, bool) {
	for _, name := range names {
		for _, v := range rawValues(r.Header, name) {
			v = strings.TrimSpace(v)
			if v == "" {
				continue
			}
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return 0, false
			}
			return f, true
		}
	}
	return 0, false
}

func rawValues(h http.Header, name string) []string {
	if vs, ok := h[name]; ok {
		return vs
	}
	return h.Values(name)
}
