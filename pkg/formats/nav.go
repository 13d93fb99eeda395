package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
)

// NAV format errors.
var (
	ErrInvalidNavMagic       = errors.New("invalid NAV magic: expected 'NAVG'")
	ErrUnsupportedNavVersion = errors.New("unsupported NAV version")
	ErrTruncatedNavData      = errors.New("truncated NAV data")
)

const navMagic = "NAVG"

// NavVersionCurrent is the version EncodeNAV writes.
var NavVersionCurrent = NavVersion{Major: 1, Minor: 0}

// NavVersion represents the NAV file version.
type NavVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v NavVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// NavCell is one cell record as stored on disk.
type NavCell struct {
	Type    uint8
	Flags   uint8
	Segment int16
	Height  float32
}

// NavRect is an inclusive cell rectangle.
type NavRect struct {
	MinX, MinZ, MaxX, MaxZ int32
}

// NAV represents a parsed navigation grid file.
type NAV struct {
	Version  NavVersion
	Width    uint32
	Height   uint32
	CellSize float32
	Playable *NavRect
	Cells    []NavCell
}

// ParseNAV parses a NAV file from raw bytes.
func ParseNAV(data []byte) (*NAV, error) {
	if len(data) < 6 {
		return nil, ErrTruncatedNavData
	}

	if string(data[0:4]) != navMagic {
		return nil, ErrInvalidNavMagic
	}

	// Version is stored as [minor, major]
	version := NavVersion{
		Major: data[5],
		Minor: data[4],
	}
	if version.Major != 1 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedNavVersion, version)
	}

	r := bytes.NewReader(data[6:])

	var header struct {
		Width       uint32
		Height      uint32
		CellSize    float32
		HasPlayable uint8
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("%w: reading header", ErrTruncatedNavData)
	}

	if header.Width == 0 || header.Height == 0 || header.Width > 4096 || header.Height > 4096 {
		return nil, fmt.Errorf("invalid NAV dimensions: %dx%d", header.Width, header.Height)
	}
	if header.CellSize <= 0 {
		return nil, fmt.Errorf("invalid NAV cell size: %v", header.CellSize)
	}

	nav := &NAV{
		Version:  version,
		Width:    header.Width,
		Height:   header.Height,
		CellSize: header.CellSize,
	}

	if header.HasPlayable != 0 {
		var rect NavRect
		if err := binary.Read(r, binary.LittleEndian, &rect); err != nil {
			return nil, fmt.Errorf("%w: reading playable area", ErrTruncatedNavData)
		}
		nav.Playable = &rect
	}

	cellCount := int(header.Width * header.Height)
	nav.Cells = make([]NavCell, cellCount)
	if err := binary.Read(r, binary.LittleEndian, nav.Cells); err != nil {
		return nil, fmt.Errorf("%w: reading %d cells", ErrTruncatedNavData, cellCount)
	}

	return nav, nil
}

// ParseNAVFile parses a NAV file from disk.
func ParseNAVFile(path string) (*NAV, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading NAV file: %w", err)
	}
	return ParseNAV(data)
}

// EncodeNAV serializes nav in the current version.
func EncodeNAV(nav *NAV) ([]byte, error) {
	if int(nav.Width*nav.Height) != len(nav.Cells) {
		return nil, fmt.Errorf("NAV cell count %d does not match %dx%d", len(nav.Cells), nav.Width, nav.Height)
	}

	buf := new(bytes.Buffer)
	buf.WriteString(navMagic)
	buf.WriteByte(NavVersionCurrent.Minor)
	buf.WriteByte(NavVersionCurrent.Major)

	var hasPlayable uint8
	if nav.Playable != nil {
		hasPlayable = 1
	}
	fields := []any{nav.Width, nav.Height, nav.CellSize, hasPlayable}
	if nav.Playable != nil {
		fields = append(fields, *nav.Playable)
	}
	fields = append(fields, nav.Cells)

	for _, f := range fields {
		if err := binary.Write(buf, binary.LittleEndian, f); err != nil {
			return nil, fmt.Errorf("encoding NAV: %w", err)
		}
	}
	return buf.Bytes(), nil
}

// WriteNAVFile encodes nav to path.
func WriteNAVFile(path string, nav *NAV) error {
	data, err := EncodeNAV(nav)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CountByType returns the count of cells for each raw type code.
func (n *NAV) CountByType() map[uint8]int {
	counts := make(map[uint8]int)
	for _, cell := range n.Cells {
		counts[cell.Type]++
	}
	return counts
}

// GetAltitudeRange returns the minimum and maximum cell height.
func (n *NAV) GetAltitudeRange() (min, max float32) {
	if len(n.Cells) == 0 {
		return 0, 0
	}

	min = n.Cells[0].Height
	max = n.Cells[0].Height
	for _, cell := range n.Cells {
		if cell.Height < min {
			min = cell.Height
		}
		if cell.Height > max {
			max = cell.Height
		}
	}
	return min, max
}
