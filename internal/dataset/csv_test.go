package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hmasato/trader/internal/core"
)

func TestLoad_WithVolume(t *testing.T) {
	data := `timestamp,open,high,low,close,volume
2026-01-01,100,102,99,101,1500
2026-01-02,101,103,100,102,1800
2026-01-03,102,104,101,103,1200
`
	series, err := Load(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Len() != 3 {
		t.Fatalf("expected 3 bars, got %d", series.Len())
	}
	if !series.VolumeAvailable() {
		t.Error("expected volume to be available")
	}
	if series.Bars[1].Close != 102 || series.Bars[1].Volume != 1800 {
		t.Errorf("unexpected bar: %+v", series.Bars[1])
	}
}

func TestLoad_WithoutVolumeColumn(t *testing.T) {
	data := `timestamp,open,high,low,close
2026-01-01,100,102,99,101
2026-01-02,101,103,100,102
`
	series, err := Load(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.VolumeAvailable() {
		t.Error("series without a volume column must not report volume")
	}
}

func TestLoad_SortsByTimestamp(t *testing.T) {
	data := `timestamp,open,high,low,close,volume
2026-01-03,102,104,101,103,1200
2026-01-01,100,102,99,101,1500
2026-01-02,101,103,100,102,1800
`
	series, err := Load(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if !series.Bars[0].Time.Equal(want) {
		t.Errorf("bars should be sorted ascending, first = %v", series.Bars[0].Time)
	}
}

func TestLoad_EpochMillisTimestamps(t *testing.T) {
	data := `timestamp,open,high,low,close,volume
1767225600000,100,102,99,101,1500
1767312000000,101,103,100,102,1800
`
	series, err := Load(strings.NewReader(data))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	if !series.Bars[0].Time.Equal(want) {
		t.Errorf("expected %v, got %v", want, series.Bars[0].Time)
	}
}

func TestLoad_MissingColumn(t *testing.T) {
	data := `timestamp,open,high,close
2026-01-01,100,102,101
`
	_, err := Load(strings.NewReader(data))
	if !errors.Is(err, core.ErrSeriesInvalid) {
		t.Errorf("expected SERIES_INVALID, got %v", err)
	}
}

func TestLoad_BadPrice(t *testing.T) {
	data := `timestamp,open,high,low,close
2026-01-01,100,102,99,oops
`
	_, err := Load(strings.NewReader(data))
	if !errors.Is(err, core.ErrSeriesInvalid) {
		t.Errorf("expected SERIES_INVALID, got %v", err)
	}
}

func TestLoad_Empty(t *testing.T) {
	data := "timestamp,open,high,low,close\n"
	_, err := Load(strings.NewReader(data))
	if !errors.Is(err, core.ErrNoData) {
		t.Errorf("expected NO_DATA, got %v", err)
	}
}

func TestLoad_DuplicateTimestamps(t *testing.T) {
	data := `timestamp,open,high,low,close
2026-01-01,100,102,99,101
2026-01-01,101,103,100,102
`
	_, err := Load(strings.NewReader(data))
	if !errors.Is(err, core.ErrSeriesInvalid) {
		t.Errorf("duplicate timestamps must fail validation, got %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "BTCJPY.csv")
	data := "timestamp,open,high,low,close,volume\n2026-01-01,100,102,99,101,1500\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	series, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Len() != 1 {
		t.Errorf("expected 1 bar, got %d", series.Len())
	}
}

func TestLoadFile_Missing(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"))
	if !errors.Is(err, core.ErrNoData) {
		t.Errorf("expected NO_DATA, got %v", err)
	}
}
