package photorganize

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"github.com/user/photorganize/pkg"
)

// DuplicatePolicy decides what happens to a file whose content is already organized.
type DuplicatePolicy string

const (
	LeaveInPlace     DuplicatePolicy = "leave-in-place"
	DeleteDuplicates DuplicatePolicy = "delete"
	// AskPerDuplicate asks the operator about each duplicate. Without a
	// terminal to ask on, duplicates are left in place.
	AskPerDuplicate DuplicatePolicy = "ask"
)

// ParseDuplicatePolicy accepts "leave-in-place" (or "leave", "keep"), "delete"
// and "ask".
func ParseDuplicatePolicy(s string) (DuplicatePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "leave-in-place", "leave", "keep":
		return LeaveInPlace, nil
	case "delete":
		return DeleteDuplicates, nil
	case "ask":
		return AskPerDuplicate, nil
	}
	return "", &pkg.InvocationError{Msg: fmt.Sprintf("unknown duplicate policy %q (want leave-in-place, delete or ask)", s)}
}

// Environment variables read by ConfigFromEnv.
const (
	EnvPrefix         = "PHOTORGANIZE_"
	EnvHash           = EnvPrefix + "HASH"
	EnvDuplicates     = EnvPrefix + "DUPLICATES"
	EnvNonInteractive = EnvPrefix + "NON_INTERACTIVE"
	EnvExtensions     = EnvPrefix + "EXTENSIONS"
)

// Config is the whole configuration of a run. It is passed explicitly to the
// Organizer; nothing reads global state.
type Config struct {
	Root            string
	HashAlgorithm   string
	DuplicatePolicy DuplicatePolicy
	Interactive     bool
	DryRun          bool
	Verbose         bool
	Extensions      []string
	ReportPath      string
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		HashAlgorithm:   pkg.DefaultHashAlgorithm,
		DuplicatePolicy: LeaveInPlace,
		Interactive:     true,
		Extensions:      append([]string(nil), pkg.DefaultExtensions...),
	}
}

// LoadEnv loads variables from a .env file in the working directory, if any.
func LoadEnv() {
	// Ignore error if .env file doesn't exist
	_ = godotenv.Load()
}

// EnvFileLookup returns a lookup function over the variables of a .env file.
func EnvFileLookup(path string) (func(string) (string, bool), error) {
	vars, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}, nil
}

// ChainLookup returns a lookup that asks each of lookups in order and returns
// the first value found.
func ChainLookup(lookups ...func(string) (string, bool)) func(string) (string, bool) {
	return func(key string) (string, bool) {
		for _, lookup := range lookups {
			if v, ok := lookup(key); ok {
				return v, true
			}
		}
		return "", false
	}
}

// ConfigFromEnv overlays environment values on DefaultConfig. Values that do
// not parse are kept as-is and rejected later by Validate.
func ConfigFromEnv(lookup func(string) (string, bool)) Config {
	cfg := DefaultConfig()
	if v, ok := lookup(EnvHash); ok && v != "" {
		cfg.HashAlgorithm = v
	}
	if v, ok := lookup(EnvDuplicates); ok && v != "" {
		cfg.DuplicatePolicy = DuplicatePolicy(v)
	}
	if v, ok := lookup(EnvNonInteractive); ok && v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Interactive = !b
		}
	}
	if v, ok := lookup(EnvExtensions); ok && v != "" {
		cfg.Extensions = SplitList(v)
	}
	return cfg
}

// SplitList splits a comma- or space-separated list, dropping empty items.
func SplitList(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Validate normalizes cfg and checks it against fs. Every failure is an
// *pkg.InvocationError; nothing on disk is touched.
func (c Config) Validate(fs afero.Fs) (Config, error) {
	if strings.TrimSpace(c.Root) == "" {
		return c, &pkg.InvocationError{Msg: "a directory to organize is required"}
	}
	root, err := filepath.Abs(c.Root)
	if err != nil {
		return c, &pkg.InvocationError{Msg: fmt.Sprintf("invalid directory %q", c.Root), Err: err}
	}
	info, err := fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return c, &pkg.InvocationError{Msg: fmt.Sprintf("directory '%s' does not exist", root)}
		}
		return c, &pkg.InvocationError{Msg: fmt.Sprintf("could not stat directory '%s'", root), Err: err}
	}
	if !info.IsDir() {
		return c, &pkg.InvocationError{Msg: fmt.Sprintf("path '%s' is not a directory", root)}
	}
	c.Root = root

	if _, err := pkg.NewHasher(fs, c.HashAlgorithm); err != nil {
		return c, err
	}
	c.HashAlgorithm = strings.ToLower(strings.TrimSpace(c.HashAlgorithm))
	if c.HashAlgorithm == "" {
		c.HashAlgorithm = pkg.DefaultHashAlgorithm
	}

	policy, err := ParseDuplicatePolicy(string(c.DuplicatePolicy))
	if err != nil {
		return c, err
	}
	c.DuplicatePolicy = policy

	c.Extensions = pkg.NewExtensionSet(c.Extensions).List()
	return c, nil
}
