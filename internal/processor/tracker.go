// Package processor runs the per-file nearest-approach analysis and the
// parallel corpus pipeline around it.
package processor

import (
	"github.com/woozymasta/gpxnear/internal/geo"
	"github.com/woozymasta/gpxnear/internal/gpx"
	"github.com/woozymasta/gpxnear/internal/report"
)

// Tracker folds one file's track points into candidate results: one per
// closed zone, or the nearest miss when no zone ever forms. A zone is a
// contiguous run of points within the threshold and collapses to its
// minimum-distance member when a point beyond the threshold, or the end
// of the file, closes it. State is per file and thrown away afterwards.
type Tracker struct {
	proj      geo.Projector
	threshold float64
	path      string

	prev    geo.PlanarPoint
	hasPrev bool

	zone   *report.Result  // running minimum of the open zone, nil when closed
	closed []report.Result // collapsed zones in closure order
	miss   *report.Result  // nearest point beyond the threshold
}

// NewTracker returns a tracker for one file. threshold is in meters.
func NewTracker(proj geo.Projector, threshold float64, path string) *Tracker {
	return &Tracker{proj: proj, threshold: threshold, path: path}
}

// Observe folds the next track point into the zone state machine. The
// first point of a file is measured straight to the reference, every
// following one as the closest approach of the segment from its
// predecessor.
func (t *Tracker) Observe(pt gpx.Point) {
	cur := t.proj.Project(geo.Coordinate{Lat: pt.Lat, Lon: pt.Lon})

	dist := cur.Distance()
	if t.hasPrev {
		dist = geo.SegmentDistance(t.prev, cur)
	}

	if dist <= t.threshold {
		if t.zone == nil || dist < t.zone.Distance {
			t.zone = t.result(dist, pt)
		}
	} else {
		if t.zone != nil {
			t.closed = append(t.closed, *t.zone)
			t.zone = nil
		}
		if t.miss == nil || dist < t.miss.Distance {
			t.miss = t.result(dist, pt)
		}
	}

	t.prev = cur
	t.hasPrev = true
}

// Finish closes a still-open zone and returns the file's results: every
// collapsed zone, or the nearest miss when no zone closed, or nothing
// when the file had no usable points.
func (t *Tracker) Finish() []report.Result {
	if t.zone != nil {
		t.closed = append(t.closed, *t.zone)
		t.zone = nil
	}

	if len(t.closed) > 0 {
		return t.closed
	}
	if t.miss != nil {
		return []report.Result{*t.miss}
	}

	return nil
}

func (t *Tracker) result(dist float64, pt gpx.Point) *report.Result {
	return &report.Result{
		Distance: dist,
		Lat:      pt.Lat,
		Lon:      pt.Lon,
		Path:     t.path,
		Time:     pt.Time,
	}
}
