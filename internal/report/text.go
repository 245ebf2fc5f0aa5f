package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"
)

// Placeholders for results without a parsable timestamp.
const (
	noTime = "00:00:00"
	noDate = "0000-00-00"
)

// WriteText renders the report as semicolon-separated rows, one result
// per line as distance;time;date;path, with timestamps converted to
// local time.
func WriteText(w io.Writer, rep Report) error {
	switch {
	case len(rep.Within) > 0:
		_, err := fmt.Fprintf(w,
			"Found %d point(s) in your defined minimum distance (%sm):\ndist;time;date;path\n",
			len(rep.Within), formatMeters(rep.Threshold))
		if err != nil {
			return err
		}

		for i := range rep.Within {
			if err := writeRow(w, &rep.Within[i]); err != nil {
				return err
			}
		}

		if rep.NearestOutside != nil {
			if _, err := fmt.Fprintln(w, "Nearest point out of distance was:"); err != nil {
				return err
			}
			return writeRow(w, rep.NearestOutside)
		}

		return nil

	case rep.Closest != nil:
		_, err := fmt.Fprint(w,
			"Did not find any point in your defined minimum distance.\nClosest was:\ndist;time;date;path\n")
		if err != nil {
			return err
		}

		return writeRow(w, rep.Closest)

	default:
		_, err := fmt.Fprintln(w, "Did not find any points.")
		return err
	}
}

// WriteJSON emits the report as indented JSON.
func WriteJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func writeRow(w io.Writer, r *Result) error {
	timeStr, dateStr := noTime, noDate
	if r.Time != "" {
		if t, err := time.Parse(time.RFC3339, r.Time); err == nil {
			local := t.Local()
			timeStr = local.Format("15:04:05")
			dateStr = local.Format("2006-01-02")
		}
	}

	_, err := fmt.Fprintf(w, "%.1f;%s;%s;%s\n", r.Distance, timeStr, dateStr, r.Path)
	return err
}

// formatMeters prints the threshold without trailing zeros, "100" rather
// than "100.0".
func formatMeters(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
