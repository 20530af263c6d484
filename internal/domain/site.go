package domain

// Geo source labels reported on an enriched ImpactSite.
const (
	GeoSourceForward  = "forward"
	GeoSourceReverse  = "reverse"
	GeoSourceOriginal = "original"
	GeoSourceFailed   = "failed"
)

// ImpactSite is the optional ground-location context a client attaches to an
// impact request. Either coordinates or a place name may be supplied.
type ImpactSite struct {
	Lat    *float64 `json:"lat,omitempty"`
	Lon    *float64 `json:"lon,omitempty"`
	Name   string   `json:"name,omitempty"`
	Region string   `json:"region,omitempty"`

	// Geocoding enrichment fields.
	FormattedAddress string  `json:"formatted_address,omitempty"`
	PlaceName        string  `json:"place_name,omitempty"`
	GeoConfidence    float64 `json:"geo_confidence,omitempty"`
	GeoSource        string  `json:"geo_source,omitempty"`
}

// HasCoords reports whether both coordinates are set.
func (s ImpactSite) HasCoords() bool {
	return s.Lat != nil && s.Lon != nil
}

// Validate checks coordinate ranges when coordinates are present.
func (s ImpactSite) Validate() error {
	if (s.Lat == nil) != (s.Lon == nil) {
		return &InputError{Field: "site", Value: "partial coordinates", Range: "both lat and lon, or neither"}
	}
	if s.Lat != nil && !(*s.Lat >= -90 && *s.Lat <= 90) {
		return &InputError{Field: "site.lat", Value: *s.Lat, Range: "in [-90, 90]"}
	}
	if s.Lon != nil && !(*s.Lon >= -180 && *s.Lon <= 180) {
		return &InputError{Field: "site.lon", Value: *s.Lon, Range: "in [-180, 180]"}
	}
	return nil
}
