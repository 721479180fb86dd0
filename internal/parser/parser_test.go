package parser

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_UnsupportedFormat(t *testing.T) {
	res := New(nil).Parse([]byte(gpxWithMetadata), Format("kml"))

	assert.True(t, res.Failed)
	assert.Equal(t, "Unsupported File Type (kml)", res.Name)
	assert.Empty(t, res.Points)
}

func TestParse_FITGarbage(t *testing.T) {
	res := New(nil).Parse([]byte("definitely not a fit file"), FormatFIT)

	assert.True(t, res.Failed)
	assert.Equal(t, NameFITParseError, res.Name)
	assert.Empty(t, res.Points)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ride.gpx")
	require.NoError(t, os.WriteFile(path, []byte(gpxWithMetadata), 0o644))

	res, err := New(nil).ParseFile(path, FormatGPX)
	require.NoError(t, err)
	assert.Equal(t, "Morning Loop", res.Name)
	assert.Len(t, res.Points, 4)
}

func TestParseFile_Missing(t *testing.T) {
	_, err := New(nil).ParseFile(filepath.Join(t.TempDir(), "missing.gpx"), FormatGPX)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFileUnreadable))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestParseReader_ReadError(t *testing.T) {
	_, err := New(nil).ParseReader(failingReader{}, FormatTCX)
	assert.True(t, errors.Is(err, ErrFileUnreadable))

	res, err := New(nil).ParseReader(strings.NewReader(tcxCourseDoc), FormatTCX)
	require.NoError(t, err)
	assert.Len(t, res.Points, 2)
}

func TestFormatFromFilename(t *testing.T) {
	tests := []struct {
		name   string
		want   Format
		wantOK bool
	}{
		{"ride.gpx", FormatGPX, true},
		{"RIDE.TCX", FormatTCX, true},
		{"garmin/2024-05-01.fit", FormatFIT, true},
		{"notes.txt", Format("txt"), false},
		{"noext", Format(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FormatFromFilename(tt.name)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatGPX, ParseFormat(" .GPX "))
	assert.Equal(t, FormatTCX, ParseFormat("tcx"))
}
