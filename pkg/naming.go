package pkg

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
)

const (
	// MonthKeyLayout formats the name of a month folder, e.g. "2022-02".
	MonthKeyLayout = "2006-01"
	// CanonicalTimeLayout is the timestamp part of an organized file name.
	CanonicalTimeLayout = "2006-01-02 15:04:05"
)

var (
	monthDirPattern      = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
	canonicalNamePattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) (\d{3,})\.[^.]+$`)
)

// MonthKey returns the YYYY-MM key for t.
func MonthKey(t time.Time) string {
	return t.Format(MonthKeyLayout)
}

// IsMonthDirName reports whether name looks like a month folder (YYYY-MM).
func IsMonthDirName(name string) bool {
	return monthDirPattern.MatchString(name)
}

// CanonicalName builds "YYYY-MM-DD HH:MM:SS NNN<ext>".
func CanonicalName(t time.Time, seq int, ext string) string {
	return fmt.Sprintf("%s %03d%s", t.Format(CanonicalTimeLayout), seq, ext)
}

// ParseCanonicalName extracts the timestamp and sequence number from an
// organized file name. ok is false when name does not have the canonical form.
func ParseCanonicalName(name string) (t time.Time, seq int, ok bool) {
	m := canonicalNamePattern.FindStringSubmatch(name)
	if m == nil {
		return time.Time{}, 0, false
	}
	t, err := time.ParseInLocation(CanonicalTimeLayout, m[1], time.Local)
	if err != nil {
		return time.Time{}, 0, false
	}
	seq, err = strconv.Atoi(m[2])
	if err != nil {
		return time.Time{}, 0, false
	}
	return t, seq, true
}

// MonthBucket tracks the names taken in one month folder, both on disk and
// assigned during the current run. Names compare case-insensitively.
type MonthBucket struct {
	Key   string
	Dir   string
	names map[string]struct{}
}

// NewMonthBucket returns an empty bucket for key under root.
func NewMonthBucket(root, key string) *MonthBucket {
	return &MonthBucket{
		Key:   key,
		Dir:   filepath.Join(root, key),
		names: make(map[string]struct{}),
	}
}

// LoadMonthBucket builds the bucket for key, reading the names already present
// in <root>/<key>. A missing folder yields an empty bucket.
func LoadMonthBucket(fs afero.Fs, root, key string) (*MonthBucket, error) {
	b := NewMonthBucket(root, key)
	entries, err := afero.ReadDir(fs, b.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return b, nil
		}
		return nil, fmt.Errorf("failed to read month folder %s: %w", b.Dir, err)
	}
	for _, entry := range entries {
		b.Reserve(entry.Name())
	}
	return b, nil
}

// Has reports whether name is already taken.
func (b *MonthBucket) Has(name string) bool {
	_, ok := b.names[strings.ToLower(name)]
	return ok
}

// Reserve marks name as taken.
func (b *MonthBucket) Reserve(name string) {
	b.names[strings.ToLower(name)] = struct{}{}
}

// NextName returns the canonical name for t with the lowest sequence number,
// starting at 001, that is not yet taken. It does not reserve the name.
func (b *MonthBucket) NextName(t time.Time, ext string) string {
	for seq := 1; ; seq++ {
		name := CanonicalName(t, seq, ext)
		if !b.Has(name) {
			return name
		}
	}
}
