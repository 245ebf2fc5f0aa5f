// Package report assembles per-file candidate results into the final
// ordered, threshold-partitioned report and renders it.
package report

import "sort"

// Result is one candidate point: the closest approach of a zone or the
// nearest miss of a file. Ordering uses Distance only; equal distances
// keep discovery order.
type Result struct {
	Distance float64 `json:"distance_m"`
	Lat      float64 `json:"lat"`
	Lon      float64 `json:"lon"`
	Path     string  `json:"path"`
	Time     string  `json:"time,omitempty"`
}

// Report is the corpus-wide outcome of one run. Within holds every
// result at or under the threshold in ascending order. NearestOutside is
// the next result past the partition point when Within is not empty.
// Closest is the single nearest result when nothing fell within the
// threshold. At most one of NearestOutside and Closest is set.
type Report struct {
	Threshold      float64  `json:"threshold_m"`
	Within         []Result `json:"within"`
	NearestOutside *Result  `json:"nearest_outside,omitempty"`
	Closest        *Result  `json:"closest,omitempty"`
}

// Build sorts results ascending by distance and partitions them at the
// threshold. The sort is stable so equal distances stay in discovery
// order.
func Build(results []Result, threshold float64) Report {
	sorted := make([]Result, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Distance < sorted[j].Distance
	})

	cut := sort.Search(len(sorted), func(i int) bool {
		return sorted[i].Distance > threshold
	})

	rep := Report{
		Threshold: threshold,
		Within:    sorted[:cut],
	}

	switch {
	case cut > 0 && cut < len(sorted):
		rep.NearestOutside = &sorted[cut]
	case cut == 0 && len(sorted) > 0:
		rep.Closest = &sorted[0]
	}

	return rep
}
