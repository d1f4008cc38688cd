package pkg

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"sort"
	"strings"

	"github.com/cespare/xxhash"
	"github.com/spf13/afero"
	"github.com/twmb/murmur3"
	"lukechampine.com/blake3"
)

// DefaultHashAlgorithm is used when no algorithm is configured.
const DefaultHashAlgorithm = "sha256"

// Blake3Size is the digest length in bytes used for blake3.
const Blake3Size = 32

var hashConstructors = map[string]func() hash.Hash{
	"sha256":  sha256.New,
	"sha1":    sha1.New,
	"sha512":  sha512.New,
	"md5":     md5.New,
	"blake3":  func() hash.Hash { return blake3.New(Blake3Size, nil) },
	"xxhash":  func() hash.Hash { return xxhash.New() },
	"murmur3": func() hash.Hash { return murmur3.New128() },
}

// SupportedHashAlgorithms returns the accepted algorithm names, sorted.
func SupportedHashAlgorithms() []string {
	names := make([]string, 0, len(hashConstructors))
	for name := range hashConstructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Hasher computes content digests used as duplicate-detection keys.
type Hasher struct {
	fs        afero.Fs
	algorithm string
	newHash   func() hash.Hash
}

// NewHasher returns a Hasher for the named algorithm. An empty name selects
// DefaultHashAlgorithm. Unknown names yield an *InvocationError.
func NewHasher(fs afero.Fs, algorithm string) (*Hasher, error) {
	algorithm = strings.ToLower(strings.TrimSpace(algorithm))
	if algorithm == "" {
		algorithm = DefaultHashAlgorithm
	}
	ctor, ok := hashConstructors[algorithm]
	if !ok {
		return nil, &InvocationError{
			Msg: fmt.Sprintf("unsupported hash algorithm %q (supported: %s)", algorithm, strings.Join(SupportedHashAlgorithms(), ", ")),
		}
	}
	return &Hasher{fs: fs, algorithm: algorithm, newHash: ctor}, nil
}

// Algorithm returns the normalized algorithm name.
func (h *Hasher) Algorithm() string { return h.algorithm }

// Digest streams the file's full content through the hash and returns the
// hex-encoded sum. Failures are reported as *IOError.
func (h *Hasher) Digest(filePath string) (string, error) {
	file, err := h.fs.Open(filePath)
	if err != nil {
		return "", &IOError{Op: "read", Path: filePath, Err: err}
	}
	defer file.Close()

	hasher := h.newHash()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", &IOError{Op: "hash", Path: filePath, Err: err}
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// GetImageResolution decodes the image configuration to get its width and height.
// Formats are those registered with the image package (JPEG, PNG and GIF here,
// HEIF when the caller registers a decoder).
func GetImageResolution(fs afero.Fs, filePath string) (width int, height int, err error) {
	file, err := fs.Open(filePath)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to open image file %s for resolution: %w", filePath, err)
	}
	defer file.Close()

	config, _, err := image.DecodeConfig(file)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to decode image config for %s: %w", filePath, err)
	}

	return config.Width, config.Height, nil
}
