package domain

import (
	"context"
	"log/slog"
)

// EnrichSite attempts to resolve an impact site with geocoding data.
// If geocoder is nil the site is returned untouched; if geocoding fails the
// site is returned with GeoSource set to "failed" (graceful degradation).
func EnrichSite(ctx context.Context, site ImpactSite, geocoder Geocoder, logger *slog.Logger) ImpactSite {
	if geocoder == nil {
		return site
	}

	// Forward geocode: place name → coordinates (when coords are missing).
	if !site.HasCoords() && site.Name != "" {
		result, err := geocoder.ForwardGeocode(ctx, site.Name, site.Region)
		if err != nil {
			logger.Warn("forward geocoding failed",
				"site", site.Name,
				"region", site.Region,
				"error", err,
			)
			site.GeoSource = GeoSourceFailed
			return site
		}
		if result.Lat != 0 || result.Lon != 0 {
			lat, lon := result.Lat, result.Lon
			site.Lat, site.Lon = &lat, &lon
			site.FormattedAddress = result.FormattedAddress
			site.PlaceName = result.PlaceName
			site.GeoConfidence = result.Confidence
			site.GeoSource = GeoSourceForward
			return site
		}
		site.GeoSource = GeoSourceOriginal
		return site
	}

	// Reverse geocode: coordinates → place details.
	if site.HasCoords() {
		result, err := geocoder.ReverseGeocode(ctx, *site.Lat, *site.Lon)
		if err != nil {
			logger.Warn("reverse geocoding failed",
				"lat", *site.Lat,
				"lon", *site.Lon,
				"error", err,
			)
			site.GeoSource = GeoSourceFailed
			return site
		}
		if result.FormattedAddress != "" {
			site.FormattedAddress = result.FormattedAddress
			site.PlaceName = result.PlaceName
			site.GeoConfidence = result.Confidence
			site.GeoSource = GeoSourceReverse
			return site
		}
	}

	site.GeoSource = GeoSourceOriginal
	return site
}
