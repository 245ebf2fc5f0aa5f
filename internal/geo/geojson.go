// Package geo handles geographic coordinates, the reference-centered
// planar projection and GeoJSON structures.
package geo

// FeatureCollection is the root GeoJSON object emitted by the report and
// converter outputs.
type FeatureCollection struct {
	Type     string    `json:"type" yaml:"type"`
	Features []Feature `json:"features" yaml:"features"`
}

// Feature is a single geographic feature with geometry and properties.
type Feature struct {
	Properties map[string]interface{} `json:"properties" yaml:"properties"`
	Type       string                 `json:"type" yaml:"type"`
	Geometry   Geometry               `json:"geometry" yaml:"geometry"`
}

// Geometry holds the feature geometry; only points are produced here.
type Geometry struct {
	Type        string    `json:"type" yaml:"type"`
	Coordinates []float64 `json:"coordinates" yaml:"coordinates"` // [Lon, Lat]
}

// NewFeatureCollection returns an empty collection ready to be filled.
func NewFeatureCollection() FeatureCollection {
	return FeatureCollection{Type: "FeatureCollection", Features: []Feature{}}
}

// NewPointFeature wraps a coordinate into a GeoJSON point feature.
func NewPointFeature(c Coordinate, props map[string]interface{}) Feature {
	return Feature{
		Type: "Feature",
		Geometry: Geometry{
			Type:        "Point",
			Coordinates: []float64{c.Lon, c.Lat},
		},
		Properties: props,
	}
}
