package parser

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/jengzang/routescore-backend-go/internal/logger"
	"github.com/jengzang/routescore-backend-go/internal/models"
)

// Format identifies a route file format
type Format string

const (
	FormatGPX Format = "gpx"
	FormatTCX Format = "tcx"
	FormatFIT Format = "fit"
)

// Diagnostic route names reported instead of an error for unusable documents
const (
	NameGPXParseError       = "N/A (GPX Parse Error)"
	NameTCXParseError       = "N/A (TCX Parse Error)"
	NameTCXUnknownStructure = "N/A (Unknown TCX Structure)"
	NameFITParseError       = "N/A (FIT Parse Error)"
)

// ErrFileUnreadable is returned when the route file cannot be opened or read.
// It is the only failure the parser reports as an error.
var ErrFileUnreadable = errors.New("route file unreadable")

// Result is the uniform output of every format adapter
type Result struct {
	Name   string
	Points []models.TrackPoint
	// Failed is set when Name is a diagnostic rather than a route name
	Failed bool
}

// Parser converts route files into track point sequences
type Parser struct {
	log *zap.Logger
}

// New creates a parser; a nil logger discards output
func New(log *zap.Logger) *Parser {
	return &Parser{log: logger.OrNop(log).Named("parser")}
}

// SupportedFormats lists the formats Parse understands
func SupportedFormats() []Format {
	return []Format{FormatGPX, FormatTCX, FormatFIT}
}

// ParseFormat normalizes a format tag such as "GPX" or ".tcx"
func ParseFormat(tag string) Format {
	return Format(strings.TrimPrefix(strings.ToLower(strings.TrimSpace(tag)), "."))
}

// FormatFromFilename derives the format from a file extension
func FormatFromFilename(name string) (Format, bool) {
	f := ParseFormat(filepath.Ext(name))
	for _, s := range SupportedFormats() {
		if f == s {
			return f, true
		}
	}
	return f, false
}

// UnsupportedName is the diagnostic name for an unknown format tag
func UnsupportedName(format Format) string {
	return fmt.Sprintf("Unsupported File Type (%s)", format)
}

// ParseFile reads and parses a route file. Only I/O failures return an error.
func (p *Parser) ParseFile(path string, format Format) (Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrFileUnreadable, path, err)
	}
	defer file.Close()

	return p.ParseReader(file, format)
}

// ParseReader reads the whole stream and parses it
func (p *Parser) ParseReader(r io.Reader, format Format) (Result, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrFileUnreadable, err)
	}
	return p.Parse(data, format), nil
}

// Parse converts raw file bytes into track points. It never fails: malformed or
// unrecognised documents produce a diagnostic name and no points.
func (p *Parser) Parse(data []byte, format Format) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error("parser panicked", zap.String("format", string(format)), zap.Any("panic", r))
			res = failed(crashName(format))
		}
	}()

	switch format {
	case FormatGPX:
		return p.parseGPX(data)
	case FormatTCX:
		return p.parseTCX(data)
	case FormatFIT:
		return p.parseFIT(data)
	default:
		p.log.Warn("unsupported file format", zap.String("format", string(format)))
		return failed(UnsupportedName(format))
	}
}

func failed(name string) Result {
	return Result{Name: name, Points: []models.TrackPoint{}, Failed: true}
}

func crashName(format Format) string {
	switch format {
	case FormatGPX:
		return NameGPXParseError
	case FormatTCX:
		return NameTCXParseError
	case FormatFIT:
		return NameFITParseError
	}
	return UnsupportedName(format)
}

func floatPtr(v float64) *float64 {
	return &v
}
