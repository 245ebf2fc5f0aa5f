// Package gpx streams track points out of GPX documents.
package gpx

import (
	"encoding/xml"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
)

// Point is one track point in document order. Time holds the raw text of
// a <time> element nested directly under the point's <trkpt>, empty when
// the point has none.
type Point struct {
	Lat  float64
	Lon  float64
	Time string
}

// Stats counts what happened during one parse.
type Stats struct {
	Points        int // points handed out by Next
	SkippedPoints int // trkpt elements dropped for missing or bad coordinates
	TokenFaults   int // low-level decode errors recovered by resync
}

// Parser extracts track points from one GPX document. A bad coordinate
// drops only its own point and malformed markup is skipped by seeking to
// the next element boundary, so Next keeps producing whatever can still
// be decoded. End of input is signaled by the ok return, not an error.
type Parser struct {
	path string
	r    io.ReadSeeker
	dec  *xml.Decoder
	base int64 // file offset the current decoder started at

	depth      int // element depth seen by the current decoder
	trkptDepth int // depth of the innermost open trkpt
	inTime     bool
	timeText   strings.Builder

	pending    Point
	hasPending bool

	stats Stats
	done  bool
}

// NewParser returns a parser reading one document from r. The reader
// must be seekable so decoding can resume past malformed tokens; path is
// used only in log messages.
func NewParser(path string, r io.ReadSeeker) *Parser {
	return &Parser{path: path, r: r, dec: xml.NewDecoder(r)}
}

// Stats reports counters for the parse so far.
func (p *Parser) Stats() Stats {
	return p.stats
}

// Next returns the next track point in document order. ok is false once
// the document is exhausted.
func (p *Parser) Next() (pt Point, ok bool) {
	for !p.done {
		tok, err := p.dec.Token()
		if err != nil {
			if err == io.EOF {
				p.done = true
				break
			}
			p.fault(err)
			if pt, ok := p.flush(); ok {
				return pt, true
			}
			continue
		}

		switch el := tok.(type) {
		case xml.StartElement:
			p.depth++
			switch el.Name.Local {
			case "trkpt":
				prev, hadPrev := p.flush()
				p.startPoint(el)
				if hadPrev {
					return prev, true
				}
			case "time":
				if p.hasPending && p.depth == p.trkptDepth+1 {
					p.inTime = true
					p.timeText.Reset()
				}
			}

		case xml.EndElement:
			if p.depth > 0 {
				p.depth--
			}
			switch el.Name.Local {
			case "time":
				if p.inTime {
					p.inTime = false
					p.bindTime()
				}
			case "trkpt":
				p.trkptDepth = 0
				if pt, ok := p.flush(); ok {
					return pt, true
				}
			}

		case xml.CharData:
			if p.inTime {
				p.timeText.Write(el)
			}
		}
	}

	return p.flush()
}

// startPoint begins a new pending point from a trkpt start tag. Points
// without both coordinate attributes are dropped silently, unparsable or
// non-finite values are dropped with a warning.
func (p *Parser) startPoint(el xml.StartElement) {
	p.trkptDepth = p.depth
	p.inTime = false
	p.hasPending = false

	var latStr, lonStr string
	var hasLat, hasLon bool
	for _, a := range el.Attr {
		switch a.Name.Local {
		case "lat":
			latStr, hasLat = a.Value, true
		case "lon":
			lonStr, hasLon = a.Value, true
		}
	}

	if !hasLat || !hasLon {
		p.stats.SkippedPoints++
		return
	}

	lat, ok := parseCoordAttr(latStr)
	if !ok {
		p.stats.SkippedPoints++
		log.Warn().Str("file", p.path).Str("lat", latStr).Msg("Invalid latitude in track point, skipping")
		return
	}

	lon, ok := parseCoordAttr(lonStr)
	if !ok {
		p.stats.SkippedPoints++
		log.Warn().Str("file", p.path).Str("lon", lonStr).Msg("Invalid longitude in track point, skipping")
		return
	}

	p.pending = Point{Lat: lat, Lon: lon}
	p.hasPending = true
}

// bindTime attaches the accumulated time text to the pending point. The
// first non-empty text wins.
func (p *Parser) bindTime() {
	text := strings.TrimSpace(p.timeText.String())
	p.timeText.Reset()

	if p.hasPending && p.pending.Time == "" && text != "" {
		p.pending.Time = text
	}
}

// flush hands out the pending point, if any.
func (p *Parser) flush() (Point, bool) {
	if !p.hasPending {
		return Point{}, false
	}

	pt := p.pending
	p.pending = Point{}
	p.hasPending = false
	p.stats.Points++

	return pt, true
}

// fault logs a malformed token and restarts the decoder just past it, so
// every fault strictly advances through the file.
func (p *Parser) fault(err error) {
	off := p.base + p.dec.InputOffset()
	log.Error().
		Err(err).
		Str("file", p.path).
		Int64("offset", off).
		Msg("Malformed token, resuming at next element")

	p.stats.TokenFaults++
	p.depth = 0
	p.trkptDepth = 0
	p.inTime = false
	p.timeText.Reset()

	if !p.resync(off + 1) {
		p.done = true
	}
}

// resync re-creates the decoder at the first markup boundary at or after
// off. It reports false when the rest of the file holds none.
func (p *Parser) resync(off int64) bool {
	if _, err := p.r.Seek(off, io.SeekStart); err != nil {
		return false
	}

	buf := make([]byte, 4096)
	for {
		n, err := p.r.Read(buf)
		for i := 0; i < n; i++ {
			if buf[i] != '<' {
				continue
			}

			pos := off + int64(i)
			if _, err := p.r.Seek(pos, io.SeekStart); err != nil {
				return false
			}

			p.base = pos
			p.dec = xml.NewDecoder(p.r)
			return true
		}

		off += int64(n)
		if err != nil {
			return false
		}
	}
}

func parseCoordAttr(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return v, true
}
