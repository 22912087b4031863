// Package dataset loads OHLCV candle data from CSV files.
//
// The expected layout is a header row naming at least timestamp, open, high,
// low and close. A volume column is optional: its absence produces a series
// without volume, which is a first-class condition downstream, not an error.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hmasato/trader/internal/core"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// LoadFile reads an OHLCV series from a CSV file.
func LoadFile(path string) (core.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return core.Series{}, core.WrapError(core.ErrNoData, err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads an OHLCV series from CSV data. Bars are sorted by timestamp and
// the resulting series is validated before being returned.
func Load(r io.Reader) (core.Series, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return core.Series{}, core.WrapError(core.ErrNoData, fmt.Errorf("reading header: %w", err))
	}

	cols := map[string]int{}
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"timestamp", "open", "high", "low", "close"} {
		if _, ok := cols[required]; !ok {
			return core.Series{}, core.WrapError(core.ErrSeriesInvalid,
				fmt.Errorf("missing column %q", required))
		}
	}
	volCol, hasVolume := cols["volume"]

	series := core.Series{HasVolume: hasVolume}
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return core.Series{}, core.WrapError(core.ErrSeriesInvalid,
				fmt.Errorf("line %d: %w", line, err))
		}

		bar, err := parseBar(record, cols, volCol, hasVolume)
		if err != nil {
			return core.Series{}, core.WrapError(core.ErrSeriesInvalid,
				fmt.Errorf("line %d: %w", line, err))
		}
		series.Bars = append(series.Bars, bar)
	}

	if len(series.Bars) == 0 {
		return core.Series{}, core.WrapError(core.ErrNoData, fmt.Errorf("no data rows"))
	}

	sort.Slice(series.Bars, func(i, j int) bool {
		return series.Bars[i].Time.Before(series.Bars[j].Time)
	})

	if err := series.Validate(); err != nil {
		return core.Series{}, err
	}
	return series, nil
}

func parseBar(record []string, cols map[string]int, volCol int, hasVolume bool) (core.Bar, error) {
	ts, err := parseTime(record[cols["timestamp"]])
	if err != nil {
		return core.Bar{}, err
	}

	bar := core.Bar{Time: ts}
	for _, f := range []struct {
		name string
		dst  *float64
	}{
		{"open", &bar.Open},
		{"high", &bar.High},
		{"low", &bar.Low},
		{"close", &bar.Close},
	} {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[cols[f.name]]), 64)
		if err != nil {
			return core.Bar{}, fmt.Errorf("parsing %s: %w", f.name, err)
		}
		*f.dst = v
	}

	if hasVolume {
		raw := strings.TrimSpace(record[volCol])
		if raw != "" {
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return core.Bar{}, fmt.Errorf("parsing volume: %w", err)
			}
			bar.Volume = v
		}
	}
	return bar, nil
}

// parseTime accepts the common candle timestamp encodings: RFC3339, date and
// date-time strings, and millisecond epoch integers.
func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	if ms, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.UnixMilli(ms).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", raw)
}
