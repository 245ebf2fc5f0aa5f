package report

import (
	"encoding/json"
	"io"

	"github.com/woozymasta/gpxnear/internal/geo"
)

// WriteGeoJSON emits the report as a GeoJSON FeatureCollection: one point
// feature per result plus a marker for the reference coordinate, ready to
// drop onto a map.
func WriteGeoJSON(w io.Writer, rep Report, ref geo.Coordinate) error {
	fc := geo.NewFeatureCollection()

	fc.Features = append(fc.Features, geo.NewPointFeature(ref, map[string]interface{}{
		"role": "reference",
	}))

	for i := range rep.Within {
		fc.Features = append(fc.Features, resultFeature(&rep.Within[i], true))
	}
	if rep.NearestOutside != nil {
		fc.Features = append(fc.Features, resultFeature(rep.NearestOutside, false))
	}
	if rep.Closest != nil {
		fc.Features = append(fc.Features, resultFeature(rep.Closest, false))
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(fc)
}

func resultFeature(r *Result, within bool) geo.Feature {
	props := map[string]interface{}{
		"role":       "result",
		"distance_m": r.Distance,
		"path":       r.Path,
		"within":     within,
	}
	if r.Time != "" {
		props["time"] = r.Time
	}

	return geo.NewPointFeature(geo.Coordinate{Lat: r.Lat, Lon: r.Lon}, props)
}
