package pkg

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/djherbis/times"
	dexif "github.com/dsoprea/go-exif/v3"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/rwcarlsen/goexif/tiff"
	"github.com/spf13/afero"
)

// ErrNoExifDate is returned when EXIF data is found but no suitable date tag is present.
var ErrNoExifDate = fmt.Errorf("no EXIF date tag found")

// DateSource tells where a resolved timestamp came from.
type DateSource string

const (
	SourceExif     DateSource = "EXIF"
	SourceFilename DateSource = "Filename"
	SourceModTime  DateSource = "FileModTime"
	SourceOperator DateSource = "Operator"
)

// ResolvedTime is a best-effort "taken at" timestamp.
type ResolvedTime struct {
	Time   time.Time
	Source DateSource
}

// Certain reports whether the time came from capture metadata or was
// confirmed by the operator.
func (r ResolvedTime) Certain() bool {
	return r.Source == SourceExif || r.Source == SourceOperator
}

// MetadataReader extracts a capture time from a file's embedded metadata.
type MetadataReader interface {
	Name() string
	CaptureTime(r io.Reader) (time.Time, error)
}

// exifDateFields are tried in order.
var exifDateFields = []exif.FieldName{exif.DateTimeOriginal, exif.DateTimeDigitized, exif.DateTime}

// GoexifReader reads EXIF from JPEG APP1 segments and TIFF-based files.
type GoexifReader struct{}

func (GoexifReader) Name() string { return "goexif" }

// CaptureTime prioritizes DateTimeOriginal, then DateTimeDigitized, then DateTime.
// Returns ErrNoExifDate if no suitable date tag is found. Only a bounds-checked
// EXIF block is handed to goexif.
func (GoexifReader) CaptureTime(r io.Reader) (time.Time, error) {
	payload, err := exifPayload(r)
	if err != nil {
		return time.Time{}, err
	}

	x, err := exif.Decode(bytes.NewReader(payload))
	if err != nil && (x == nil || exif.IsCriticalError(err)) {
		return time.Time{}, fmt.Errorf("failed to decode EXIF data: %w", err)
	}

	for _, field := range exifDateFields {
		tag, err := x.Get(field)
		if err != nil {
			continue
		}
		if t, err := parseExifDateTime(tag); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrNoExifDate
}

// parseExifDateTime is a helper to parse an EXIF datetime tag.
func parseExifDateTime(tag *tiff.Tag) (time.Time, error) {
	if tag == nil {
		return time.Time{}, fmt.Errorf("tag is nil")
	}
	dateStr, err := tag.StringVal()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get string value from EXIF date tag: %w", err)
	}
	return ParseExifDateString(dateStr)
}

// ParseExifDateString parses "YYYY:MM:DD HH:MM:SS", falling back to the
// date-only form "YYYY:MM:DD".
func ParseExifDateString(dateStr string) (time.Time, error) {
	dateStr = strings.TrimSpace(strings.TrimRight(dateStr, "\x00"))

	layout := "2006:01:02 15:04:05"
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		layoutDateOnly := "2006:01:02"
		t, errDateOnly := time.Parse(layoutDateOnly, dateStr)
		if errDateOnly != nil {
			return time.Time{}, fmt.Errorf("failed to parse EXIF date string '%s' with layout '%s' or '%s': %w", dateStr, layout, layoutDateOnly, err)
		}
		return t, nil
	}
	return t, nil
}

// ExifSearchReader finds an EXIF block anywhere in the byte stream. It covers
// containers goexif does not understand, such as PNG eXIf chunks and HEIF.
type ExifSearchReader struct{}

func (ExifSearchReader) Name() string { return "go-exif" }

func (ExifSearchReader) CaptureTime(r io.Reader) (t time.Time, err error) {
	// go-exif reports some malformed input by panicking.
	defer func() {
		if rec := recover(); rec != nil {
			t, err = time.Time{}, fmt.Errorf("EXIF search failed: %v", rec)
		}
	}()

	raw, err := dexif.SearchAndExtractExifWithReader(r)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to locate EXIF data: %w", err)
	}
	if err := checkTIFFBounds(raw); err != nil {
		return time.Time{}, err
	}

	entries, _, err := dexif.GetFlatExifDataUniversalSearch(raw, nil, true)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse EXIF data: %w", err)
	}

	values := make(map[string]string)
	for _, entry := range entries {
		s, ok := entry.Value.(string)
		if !ok {
			continue
		}
		if _, seen := values[entry.TagName]; !seen {
			values[entry.TagName] = s
		}
	}
	for _, field := range exifDateFields {
		s, ok := values[string(field)]
		if !ok {
			continue
		}
		if t, err := ParseExifDateString(s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrNoExifDate
}

// TimestampResolver produces a best-effort "taken at" timestamp for a file.
type TimestampResolver struct {
	fs      afero.Fs
	readers []MetadataReader
	log     *Logger
}

// NewTimestampResolver returns a resolver reading metadata with goexif first
// and the EXIF search reader second.
func NewTimestampResolver(fs afero.Fs, log *Logger) *TimestampResolver {
	return &TimestampResolver{
		fs:      fs,
		readers: []MetadataReader{GoexifReader{}, ExifSearchReader{}},
		log:     log,
	}
}

// Resolve returns the capture time from metadata when present. Otherwise it
// uses the time encoded in an already canonical file name, and finally the
// file's modification time. Metadata errors never fail the call; only a
// failure to stat the file does.
func (r *TimestampResolver) Resolve(path string) (ResolvedTime, error) {
	t, err := r.CaptureTime(path)
	if err == nil {
		return ResolvedTime{Time: t, Source: SourceExif}, nil
	}
	r.log.Debugf("  - %v", err)

	if t, _, ok := ParseCanonicalName(filepath.Base(path)); ok {
		return ResolvedTime{Time: t, Source: SourceFilename}, nil
	}

	info, err := r.fs.Stat(path)
	if err != nil {
		return ResolvedTime{}, &IOError{Op: "stat", Path: path, Err: err}
	}
	return ResolvedTime{Time: info.ModTime(), Source: SourceModTime}, nil
}

// CaptureTime asks each metadata reader in turn. All failures are folded
// into a single *MetadataReadError.
func (r *TimestampResolver) CaptureTime(path string) (time.Time, error) {
	var errs []error
	for _, reader := range r.readers {
		t, err := r.readWith(reader, path)
		if err == nil {
			return t, nil
		}
		errs = append(errs, fmt.Errorf("%s: %w", reader.Name(), err))
	}
	return time.Time{}, &MetadataReadError{Path: path, Err: errors.Join(errs...)}
}

func (r *TimestampResolver) readWith(reader MetadataReader, path string) (time.Time, error) {
	file, err := r.fs.Open(path)
	if err != nil {
		return time.Time{}, err
	}
	defer file.Close()
	return reader.CaptureTime(file)
}

// BirthTime returns the file's creation time when the filesystem reports one.
// Only the OS filesystem carries birth times.
func (r *TimestampResolver) BirthTime(path string) (time.Time, bool) {
	if _, ok := r.fs.(*afero.OsFs); !ok {
		return time.Time{}, false
	}
	ts, err := times.Stat(path)
	if err != nil || !ts.HasBirthTime() {
		return time.Time{}, false
	}
	return ts.BirthTime(), true
}
