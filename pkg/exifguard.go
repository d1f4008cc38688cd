package pkg

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	errNoExifSegment     = errors.New("no EXIF segment found")
	errUnsupportedFormat = errors.New("not a JPEG or TIFF file")
)

// maxIFDs bounds the IFD walk so offset loops in damaged files terminate.
const maxIFDs = 32

// Sub-IFD pointer tags followed by the walk.
var subIFDTags = map[uint16]bool{
	0x8769: true, // Exif IFD
	0x8825: true, // GPS IFD
	0xA005: true, // Interoperability IFD
}

// tiffTypeSize returns the byte size of one value of a TIFF field type.
// Unknown types count as one byte.
func tiffTypeSize(typ uint16) uint64 {
	switch typ {
	case 3, 8: // SHORT, SSHORT
		return 2
	case 4, 9, 11: // LONG, SLONG, FLOAT
		return 4
	case 5, 10, 12: // RATIONAL, SRATIONAL, DOUBLE
		return 8
	}
	return 1
}

// exifPayload returns the bytes goexif should decode: the APP1 payload
// ("Exif\x00\x00" plus TIFF) of a JPEG, or the whole of a TIFF-based file.
// The TIFF structure is checked with checkTIFFBounds first, so a corrupt
// entry count can never drive an allocation larger than the block itself.
func exifPayload(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4)
	if err != nil {
		return nil, fmt.Errorf("failed to read file header: %w", err)
	}

	switch {
	case string(head) == "II*\x00" || string(head) == "MM\x00*":
		data, err := io.ReadAll(br)
		if err != nil {
			return nil, fmt.Errorf("failed to read TIFF data: %w", err)
		}
		if err := checkTIFFBounds(data); err != nil {
			return nil, err
		}
		return data, nil
	case head[0] == 0xFF && head[1] == 0xD8:
		payload, err := jpegExifSegment(br)
		if err != nil {
			return nil, err
		}
		if err := checkTIFFBounds(payload[6:]); err != nil {
			return nil, err
		}
		return payload, nil
	}
	return nil, errUnsupportedFormat
}

// jpegExifSegment walks the JPEG marker segments up to the start of scan and
// returns the payload of the first APP1 segment carrying EXIF.
func jpegExifSegment(br *bufio.Reader) ([]byte, error) {
	if _, err := br.Discard(2); err != nil {
		return nil, err
	}
	for {
		b, err := br.ReadByte()
		if err != nil {
			return nil, errNoExifSegment
		}
		if b != 0xFF {
			return nil, fmt.Errorf("malformed JPEG: expected marker, got 0x%02X", b)
		}
		marker, err := br.ReadByte()
		for err == nil && marker == 0xFF {
			marker, err = br.ReadByte()
		}
		if err != nil {
			return nil, errNoExifSegment
		}

		switch {
		case marker == 0xD9 || marker == 0xDA: // EOI, SOS
			return nil, errNoExifSegment
		case marker == 0x01 || (marker >= 0xD0 && marker <= 0xD7):
			continue
		}

		var length uint16
		if err := binary.Read(br, binary.BigEndian, &length); err != nil {
			return nil, errNoExifSegment
		}
		if length < 2 {
			return nil, fmt.Errorf("malformed JPEG: segment length %d", length)
		}
		size := int(length) - 2

		if marker != 0xE1 {
			if _, err := br.Discard(size); err != nil {
				return nil, errNoExifSegment
			}
			continue
		}
		payload := make([]byte, size)
		if _, err := io.ReadFull(br, payload); err != nil {
			return nil, fmt.Errorf("truncated APP1 segment: %w", err)
		}
		if len(payload) >= 6 && bytes.Equal(payload[:6], []byte("Exif\x00\x00")) {
			return payload, nil
		}
	}
}

// checkTIFFBounds walks the IFD chain of a TIFF block (IFD0, its successors
// and the Exif, GPS and Interoperability sub-IFDs) and fails when any IFD or
// entry value lies outside the block.
func checkTIFFBounds(tiff []byte) error {
	size := uint64(len(tiff))
	if size < 8 {
		return fmt.Errorf("EXIF block too short (%d bytes)", size)
	}
	var order binary.ByteOrder
	switch string(tiff[:2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return fmt.Errorf("EXIF block has invalid byte order %q", tiff[:2])
	}
	if order.Uint16(tiff[2:4]) != 42 {
		return errors.New("EXIF block has invalid TIFF magic")
	}

	queue := []uint64{uint64(order.Uint32(tiff[4:8]))}
	seen := make(map[uint64]bool)
	for len(queue) > 0 {
		off := queue[0]
		queue = queue[1:]
		if off == 0 || seen[off] {
			continue
		}
		if len(seen) >= maxIFDs {
			return errors.New("EXIF block has too many IFDs")
		}
		seen[off] = true

		if off+2 > size {
			return fmt.Errorf("IFD offset %d outside EXIF block of %d bytes", off, size)
		}
		n := uint64(order.Uint16(tiff[off : off+2]))
		end := off + 2 + n*12
		if end+4 > size {
			return fmt.Errorf("IFD at %d with %d entries overruns EXIF block of %d bytes", off, n, size)
		}

		for i := uint64(0); i < n; i++ {
			e := tiff[off+2+i*12 : off+2+(i+1)*12]
			tag := order.Uint16(e[0:2])
			count := uint64(order.Uint32(e[4:8]))
			valueOff := uint64(order.Uint32(e[8:12]))

			total := count * tiffTypeSize(order.Uint16(e[2:4]))
			if total > size {
				return fmt.Errorf("EXIF tag 0x%04X declares %d bytes in a %d byte block", tag, total, size)
			}
			if total > 4 && valueOff+total > size {
				return fmt.Errorf("EXIF tag 0x%04X value lies outside the block", tag)
			}
			if subIFDTags[tag] {
				queue = append(queue, valueOff)
			}
		}
		queue = append(queue, uint64(order.Uint32(tiff[end:end+4])))
	}
	return nil
}
