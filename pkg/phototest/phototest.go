// Package phototest builds photo fixtures for tests: JPEGs carrying a real
// EXIF capture time, and an afero filesystem that fails on demand.
package phototest

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"time"

	"github.com/spf13/afero"
)

const (
	tagExifIFDPointer   = 0x8769
	tagDateTimeOriginal = 0x9003
	typeASCII           = 2
	typeLong            = 4
)

// PlainJPEG returns a small JPEG without capture metadata. seed varies the
// pixel color and is also stored in a COM segment, so different seeds always
// give different bytes.
func PlainJPEG(seed byte) ([]byte, error) {
	encoded, err := encodeJPEG(seed)
	if err != nil {
		return nil, err
	}
	comment := []byte{'s', 'e', 'e', 'd', seed}
	var out bytes.Buffer
	out.Write(encoded[:2])
	out.Write([]byte{0xFF, 0xFE})
	binary.Write(&out, binary.BigEndian, uint16(len(comment)+2))
	out.Write(comment)
	out.Write(encoded[2:])
	return out.Bytes(), nil
}

func encodeJPEG(seed byte) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	c := color.RGBA{R: seed, G: 255 - seed, B: 100, A: 255}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExifJPEG returns a JPEG whose APP1 segment carries DateTimeOriginal set to
// dateTimeOriginal ("YYYY:MM:DD HH:MM:SS").
func ExifJPEG(dateTimeOriginal string, seed byte) ([]byte, error) {
	body, err := PlainJPEG(seed)
	if err != nil {
		return nil, err
	}

	payload := append([]byte("Exif\x00\x00"), exifTIFF(dateTimeOriginal)...)

	var out bytes.Buffer
	out.Write([]byte{0xFF, 0xD8})
	out.Write([]byte{0xFF, 0xE1})
	binary.Write(&out, binary.BigEndian, uint16(len(payload)+2))
	out.Write(payload)
	out.Write(body[2:]) // skip the encoder's SOI
	return out.Bytes(), nil
}

// ExifTime formats t the way cameras write DateTimeOriginal.
func ExifTime(t time.Time) string {
	return t.Format("2006:01:02 15:04:05")
}

// exifTIFF lays out a little-endian TIFF block: IFD0 holding only the Exif
// sub-IFD pointer, and the Exif IFD holding only DateTimeOriginal.
func exifTIFF(dateTimeOriginal string) []byte {
	value := append([]byte(dateTimeOriginal), 0)

	const (
		ifd0Offset  = 8
		exifOffset  = ifd0Offset + 2 + 12 + 4
		valueOffset = exifOffset + 2 + 12 + 4
	)

	var b bytes.Buffer
	le := binary.LittleEndian
	b.WriteString("II")
	binary.Write(&b, le, uint16(42))
	binary.Write(&b, le, uint32(ifd0Offset))

	binary.Write(&b, le, uint16(1))
	writeEntry(&b, tagExifIFDPointer, typeLong, 1, exifOffset)
	binary.Write(&b, le, uint32(0))

	binary.Write(&b, le, uint16(1))
	writeEntry(&b, tagDateTimeOriginal, typeASCII, uint32(len(value)), valueOffset)
	binary.Write(&b, le, uint32(0))

	b.Write(value)
	return b.Bytes()
}

func writeEntry(b *bytes.Buffer, tag, typ uint16, count, value uint32) {
	le := binary.LittleEndian
	binary.Write(b, le, tag)
	binary.Write(b, le, typ)
	binary.Write(b, le, count)
	binary.Write(b, le, value)
}

// FailingFs wraps an afero.Fs and fails selected operations by path.
type FailingFs struct {
	afero.Fs
	OpenErrors   map[string]error
	RenameErrors map[string]error
	RemoveErrors map[string]error
}

func NewFailingFs(base afero.Fs) *FailingFs {
	return &FailingFs{
		Fs:           base,
		OpenErrors:   map[string]error{},
		RenameErrors: map[string]error{},
		RemoveErrors: map[string]error{},
	}
}

func (f *FailingFs) Open(name string) (afero.File, error) {
	if err, ok := f.OpenErrors[name]; ok {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}
	return f.Fs.Open(name)
}

func (f *FailingFs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if err, ok := f.OpenErrors[name]; ok {
		return nil, &os.PathError{Op: "open", Path: name, Err: err}
	}
	return f.Fs.OpenFile(name, flag, perm)
}

// Rename fails when oldname is registered in RenameErrors.
func (f *FailingFs) Rename(oldname, newname string) error {
	if err, ok := f.RenameErrors[oldname]; ok {
		return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: err}
	}
	return f.Fs.Rename(oldname, newname)
}

func (f *FailingFs) Remove(name string) error {
	if err, ok := f.RemoveErrors[name]; ok {
		return &os.PathError{Op: "remove", Path: name, Err: err}
	}
	return f.Fs.Remove(name)
}
