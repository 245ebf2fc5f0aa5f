package geo

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Coordinate is a geographic position in signed decimal degrees,
// north and east positive.
type Coordinate struct {
	Lat float64
	Lon float64
}

// String renders the coordinate as "latitude, longitude" in decimal degrees.
func (c Coordinate) String() string {
	return formatDegrees(c.Lat) + ", " + formatDegrees(c.Lon)
}

// ParseAngle converts a single angle string to signed decimal degrees.
// Accepted forms are plain decimal ("48.1173", "-11.5") and
// hemisphere-prefixed degrees with decimal minutes and optional seconds
// ("N 48° 7.038", "S12 30.5", "W 3° 12 45.9"). S and W yield negative
// values, the degree sign is optional.
func ParseAngle(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty coordinate")
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}

	return parseDMS(s)
}

func parseDMS(s string) (float64, error) {
	sign := 1.0
	switch s[0] {
	case 'S', 's', 'W', 'w':
		sign = -1
	case 'N', 'n', 'E', 'e':
	default:
		return 0, fmt.Errorf("invalid coordinate %q", s)
	}

	fields := strings.Fields(strings.ReplaceAll(s[1:], "°", " "))
	if len(fields) == 0 || len(fields) > 3 {
		return 0, fmt.Errorf("invalid coordinate %q", s)
	}

	var parts [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid coordinate %q: %w", s, err)
		}
		parts[i] = v
	}

	return sign * (parts[0] + parts[1]/60 + parts[2]/3600), nil
}

// ParsePair converts a combined "latitude, longitude" string to a
// Coordinate. Both halves may use any form ParseAngle accepts:
// "48.2, 11.5", "48.2 11.5" or "N 48° 7.038, E 11° 34.563". A pair of
// degrees-minutes halves without a comma is split at the second
// hemisphere letter.
func ParsePair(s string) (Coordinate, error) {
	s = strings.TrimSpace(s)

	var first, second string
	if i := strings.IndexByte(s, ','); i >= 0 {
		first, second = s[:i], s[i+1:]
	} else if fields := strings.Fields(s); len(fields) == 2 {
		first, second = fields[0], fields[1]
	} else if i := secondHemisphere(s); i > 0 {
		first, second = s[:i], s[i:]
	} else {
		return Coordinate{}, fmt.Errorf("cannot split coordinate pair %q", s)
	}

	lat, err := ParseAngle(first)
	if err != nil {
		return Coordinate{}, err
	}

	lon, err := ParseAngle(second)
	if err != nil {
		return Coordinate{}, err
	}

	return Coordinate{Lat: lat, Lon: lon}, nil
}

// secondHemisphere returns the index of the second hemisphere letter in
// a combined degrees-minutes pair like "N 48° 7.038 E 11° 34.563", or -1.
func secondHemisphere(s string) int {
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case 'N', 'S', 'E', 'W', 'n', 's', 'e', 'w':
			return i
		}
	}

	return -1
}

// FormatDMS renders a coordinate as hemisphere-prefixed degrees and
// decimal minutes, e.g. "N 48° 7.038000 E 11° 34.563000".
func FormatDMS(c Coordinate) string {
	latHemi, lonHemi := "N", "E"
	if c.Lat < 0 {
		latHemi = "S"
	}
	if c.Lon < 0 {
		lonHemi = "W"
	}

	lat, lon := math.Abs(c.Lat), math.Abs(c.Lon)

	return fmt.Sprintf("%s %d° %.6f %s %d° %.6f",
		latHemi, int(lat), (lat-math.Trunc(lat))*60,
		lonHemi, int(lon), (lon-math.Trunc(lon))*60)
}

// formatDegrees prints a degree value without trailing zeros.
func formatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
