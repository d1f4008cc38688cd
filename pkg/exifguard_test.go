package pkg

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/user/photorganize/pkg/phototest"
)

// tiffOf returns the TIFF block of an ExifJPEG fixture.
func tiffOf(t *testing.T, data []byte) []byte {
	t.Helper()
	require.Equal(t, "Exif\x00\x00", string(data[6:12]))
	size := int(binary.BigEndian.Uint16(data[4:6])) - 2
	return append([]byte(nil), data[12:6+size]...)
}

func TestCheckTIFFBounds(t *testing.T) {
	data, err := phototest.ExifJPEG("2022:03:05 08:09:10", 1)
	require.NoError(t, err)
	valid := tiffOf(t, data)
	require.NoError(t, checkTIFFBounds(valid))

	tests := []struct {
		name    string
		mutate  func(b []byte) []byte
		wantErr string
	}{
		{"huge count", func(b []byte) []byte { b[17] = 0x80; return b }, "declares"},
		{"value past end", func(b []byte) []byte { return b[:len(b)-4] }, "outside the block"},
		{"bad byte order", func(b []byte) []byte { b[0] = 'X'; return b }, "byte order"},
		{"bad magic", func(b []byte) []byte { b[2] = 0; return b }, "magic"},
		{"IFD offset past end", func(b []byte) []byte {
			binary.LittleEndian.PutUint32(b[4:8], 4096)
			return b
		}, "outside EXIF block"},
		{"too short", func(b []byte) []byte { return b[:6] }, "too short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := tt.mutate(append([]byte(nil), valid...))
			assert.ErrorContains(t, checkTIFFBounds(b), tt.wantErr)
		})
	}
}

func TestCheckTIFFBoundsStopsOnIFDLoop(t *testing.T) {
	data, err := phototest.ExifJPEG("2022:03:05 08:09:10", 1)
	require.NoError(t, err)
	b := tiffOf(t, data)
	// Point IFD0's next-IFD offset back at IFD0.
	binary.LittleEndian.PutUint32(b[22:26], 8)
	assert.NoError(t, checkTIFFBounds(b))
}

func TestExifPayload(t *testing.T) {
	data, err := phototest.ExifJPEG("2022:03:05 08:09:10", 2)
	require.NoError(t, err)

	payload, err := exifPayload(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "Exif\x00\x00", string(payload[:6]))
	assert.Equal(t, tiffOf(t, data), payload[6:])

	tiff := tiffOf(t, data)
	whole, err := exifPayload(bytes.NewReader(tiff))
	require.NoError(t, err)
	assert.Equal(t, tiff, whole)

	plain, err := phototest.PlainJPEG(2)
	require.NoError(t, err)
	_, err = exifPayload(bytes.NewReader(plain))
	assert.ErrorIs(t, err, errNoExifSegment)

	_, err = exifPayload(bytes.NewReader([]byte("\x89PNG\r\n\x1a\n")))
	assert.ErrorIs(t, err, errUnsupportedFormat)
}
