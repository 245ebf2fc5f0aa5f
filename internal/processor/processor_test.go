package processor

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/woozymasta/gpxnear/internal/geo"
)

// writeTrack writes a GPX file whose points sit due north of the {0, 0}
// reference at the given distances in meters.
func writeTrack(t *testing.T, dir, name string, meters ...float64) string {
	t.Helper()

	proj := geo.NewProjector(geo.Coordinate{}, false)
	latScale := proj.Project(geo.Coordinate{Lat: 1}).Y

	var b strings.Builder
	b.WriteString("<gpx><trk><trkseg>\n")
	for _, m := range meters {
		lat := strconv.FormatFloat(m/latScale, 'f', -1, 64)
		b.WriteString(`<trkpt lat="` + lat + `" lon="0"></trkpt>` + "\n")
	}
	b.WriteString("</trkseg></trk></gpx>\n")

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o600))

	return path
}

func runOpts() Options {
	return Options{
		Reference:      geo.Coordinate{},
		DistanceMeters: 100,
		Workers:        2,
	}
}

func TestRunMergesSortedAcrossFiles(t *testing.T) {
	dir := t.TempDir()
	a := writeTrack(t, dir, "a.gpx", 20, 500, 90, 600)
	b := writeTrack(t, dir, "b.gpx", 5, 800, 70)

	rep, err := Run(context.Background(), []string{a, b}, runOpts())
	require.NoError(t, err)

	require.Len(t, rep.Within, 4)
	for i, want := range []float64{5, 20, 70, 90} {
		assert.InDelta(t, want, rep.Within[i].Distance, 1e-6)
	}
	assert.Nil(t, rep.NearestOutside)
	assert.Nil(t, rep.Closest)
}

func TestRunNearestOutside(t *testing.T) {
	dir := t.TempDir()
	a := writeTrack(t, dir, "a.gpx", 50, 150, 80, 30, 500)
	b := writeTrack(t, dir, "b.gpx", 150)

	rep, err := Run(context.Background(), []string{a, b}, runOpts())
	require.NoError(t, err)

	require.Len(t, rep.Within, 2)
	assert.InDelta(t, 30, rep.Within[0].Distance, 1e-6)
	assert.InDelta(t, 50, rep.Within[1].Distance, 1e-6)

	require.NotNil(t, rep.NearestOutside)
	assert.InDelta(t, 150, rep.NearestOutside.Distance, 1e-6)
	assert.Equal(t, b, rep.NearestOutside.Path)
	assert.Nil(t, rep.Closest)
}

func TestRunClosestFallback(t *testing.T) {
	dir := t.TempDir()
	a := writeTrack(t, dir, "a.gpx", 150, 300)

	rep, err := Run(context.Background(), []string{a}, runOpts())
	require.NoError(t, err)

	assert.Empty(t, rep.Within)
	assert.Nil(t, rep.NearestOutside)
	require.NotNil(t, rep.Closest)
	assert.InDelta(t, 150, rep.Closest.Distance, 1e-6)
}

func TestRunEmptyCorpus(t *testing.T) {
	rep, err := Run(context.Background(), nil, runOpts())
	require.NoError(t, err)
	assert.Empty(t, rep.Within)
	assert.Nil(t, rep.NearestOutside)
	assert.Nil(t, rep.Closest)
}

func TestRunDeterministic(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeTrack(t, dir, "a.gpx", 20, 500, 90, 600),
		writeTrack(t, dir, "b.gpx", 5, 800, 70),
		writeTrack(t, dir, "c.gpx", 40, 40, 40),
		writeTrack(t, dir, "d.gpx", 900),
	}

	opts := runOpts()
	opts.Workers = 4

	first, err := Run(context.Background(), paths, opts)
	require.NoError(t, err)
	second, err := Run(context.Background(), paths, opts)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunSkipsUnreadableFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeTrack(t, dir, "good.gpx", 60)
	missing := filepath.Join(dir, "missing.gpx")

	rep, err := Run(context.Background(), []string{missing, good}, runOpts())
	require.NoError(t, err)

	require.Len(t, rep.Within, 1)
	assert.InDelta(t, 60, rep.Within[0].Distance, 1e-6)
	assert.Equal(t, good, rep.Within[0].Path)
}

func TestRunProgress(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeTrack(t, dir, "a.gpx", 10),
		writeTrack(t, dir, "b.gpx", 20),
		writeTrack(t, dir, "c.gpx", 30),
	}

	var calls [][2]int
	opts := runOpts()
	opts.Progress = func(done, total int) {
		calls = append(calls, [2]int{done, total})
	}

	_, err := Run(context.Background(), paths, opts)
	require.NoError(t, err)

	require.Len(t, calls, 3)
	assert.Equal(t, [2]int{3, 3}, calls[2])
	for i, c := range calls {
		assert.Equal(t, i+1, c[0])
		assert.Equal(t, 3, c[1])
	}
}

func TestRunCanceledContext(t *testing.T) {
	dir := t.TempDir()
	a := writeTrack(t, dir, "a.gpx", 10)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, []string{a}, runOpts())
	assert.ErrorIs(t, err, context.Canceled)
}
