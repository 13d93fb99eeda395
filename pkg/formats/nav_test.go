package formats

import (
	"errors"
	"path/filepath"
	"testing"
)

// createTestNAV creates a minimal valid NAV file for testing.
func createTestNAV(t *testing.T, width, height uint32, types []uint8, playable *NavRect) []byte {
	t.Helper()

	nav := &NAV{
		Width:    width,
		Height:   height,
		CellSize: 10,
		Playable: playable,
		Cells:    make([]NavCell, width*height),
	}
	for i := range nav.Cells {
		nav.Cells[i].Segment = -1
		if i < len(types) {
			nav.Cells[i].Type = types[i]
		}
	}

	data, err := EncodeNAV(nav)
	if err != nil {
		t.Fatalf("EncodeNAV failed: %v", err)
	}
	return data
}

func TestParseNAV_ValidFile(t *testing.T) {
	data := createTestNAV(t, 4, 3, nil, nil)

	nav, err := ParseNAV(data)
	if err != nil {
		t.Fatalf("ParseNAV failed: %v", err)
	}

	if nav.Version != NavVersionCurrent {
		t.Errorf("expected version %s, got %s", NavVersionCurrent, nav.Version)
	}
	if nav.Width != 4 || nav.Height != 3 {
		t.Errorf("expected 4x3, got %dx%d", nav.Width, nav.Height)
	}
	if nav.CellSize != 10 {
		t.Errorf("expected cell size 10, got %v", nav.CellSize)
	}
	if nav.Playable != nil {
		t.Error("expected no playable area")
	}
	if len(nav.Cells) != 12 {
		t.Errorf("expected 12 cells, got %d", len(nav.Cells))
	}
	if nav.Cells[0].Segment != -1 {
		t.Errorf("expected segment -1, got %d", nav.Cells[0].Segment)
	}
}

func TestParseNAV_PlayableAndTypes(t *testing.T) {
	rect := &NavRect{MinX: 1, MinZ: 1, MaxX: 2, MaxZ: 2}
	data := createTestNAV(t, 3, 3, []uint8{0, 1, 2, 3, 4, 5, 6}, rect)

	nav, err := ParseNAV(data)
	if err != nil {
		t.Fatalf("ParseNAV failed: %v", err)
	}

	if nav.Playable == nil || *nav.Playable != *rect {
		t.Errorf("expected playable %+v, got %+v", rect, nav.Playable)
	}

	counts := nav.CountByType()
	if counts[0] != 3 {
		t.Errorf("expected 3 type-0 cells, got %d", counts[0])
	}
	for code := uint8(1); code <= 6; code++ {
		if counts[code] != 1 {
			t.Errorf("expected 1 cell of type %d, got %d", code, counts[code])
		}
	}
}

func TestParseNAV_Errors(t *testing.T) {
	valid := createTestNAV(t, 2, 2, nil, nil)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"too short", []byte("NAV"), ErrTruncatedNavData},
		{"bad magic", append([]byte("GRAT"), valid[4:]...), ErrInvalidNavMagic},
		{"bad version", append([]byte("NAVG\x00\x02"), valid[6:]...), ErrUnsupportedNavVersion},
		{"truncated header", valid[:10], ErrTruncatedNavData},
		{"truncated cells", valid[:len(valid)-3], ErrTruncatedNavData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNAV(tt.data)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseNAV_InvalidDimensions(t *testing.T) {
	nav := &NAV{Width: 0, Height: 0, CellSize: 10}
	data, err := EncodeNAV(nav)
	if err != nil {
		t.Fatalf("EncodeNAV failed: %v", err)
	}
	if _, err := ParseNAV(data); err == nil {
		t.Error("expected error for 0x0 grid")
	}
}

func TestEncodeNAV_CountMismatch(t *testing.T) {
	nav := &NAV{Width: 2, Height: 2, CellSize: 10, Cells: make([]NavCell, 3)}
	if _, err := EncodeNAV(nav); err == nil {
		t.Error("expected error for mismatched cell count")
	}
}

func TestNAVFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.nav")
	nav := &NAV{
		Width:    2,
		Height:   1,
		CellSize: 5,
		Cells: []NavCell{
			{Type: 2, Flags: 0x0c, Segment: 3, Height: 1.5},
			{Type: 0, Segment: -1, Height: -2},
		},
	}
	if err := WriteNAVFile(path, nav); err != nil {
		t.Fatalf("WriteNAVFile failed: %v", err)
	}

	got, err := ParseNAVFile(path)
	if err != nil {
		t.Fatalf("ParseNAVFile failed: %v", err)
	}
	if got.Cells[0] != nav.Cells[0] || got.Cells[1] != nav.Cells[1] {
		t.Errorf("cells differ: %+v vs %+v", got.Cells, nav.Cells)
	}

	lo, hi := got.GetAltitudeRange()
	if lo != -2 || hi != 1.5 {
		t.Errorf("expected altitude range [-2, 1.5], got [%v, %v]", lo, hi)
	}
}

func TestParseNAVFile_Missing(t *testing.T) {
	if _, err := ParseNAVFile("/nonexistent/map.nav"); err == nil {
		t.Error("expected error for missing file")
	}
}
