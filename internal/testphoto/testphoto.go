// Package testphoto builds small JPEGs carrying just enough EXIF to drive
// hdframe: Make, Orientation, DateTime and the Exif pixel dimensions.
package testphoto

import (
	"bytes"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
)

// Gradient returns an image with no black pixels away from its top-left corner.
func Gradient(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x * 255) / width),
				G: uint8((y * 255) / height),
				B: uint8((x + y) % 255),
				A: 255,
			})
		}
	}
	return img
}

// Fields are the tags written by EXIF. Zero values are left out.
type Fields struct {
	Make        string
	Orientation int
	DateTime    string
	Width       int
	Height      int
}

type entry struct {
	tag, typ uint16
	count    uint32
	data     []byte
}

var le = binary.LittleEndian

func ascii(tag uint16, s string) entry {
	b := append([]byte(s), 0)
	return entry{tag, 2, uint32(len(b)), b}
}

func short(tag uint16, v int) entry {
	return entry{tag, 3, 1, le.AppendUint16(nil, uint16(v))}
}

func long(tag uint16, v int) entry {
	return entry{tag, 4, 1, le.AppendUint32(nil, uint32(v))}
}

func ifdSize(n int) int { return 2 + 12*n + 4 }

// EXIF returns a little-endian APP1 segment holding IFD0 and, when a
// dimension is set, an Exif sub-IFD with PixelXDimension/PixelYDimension.
func EXIF(f Fields) []byte {
	var ifd0, sub []entry
	if f.Make != "" {
		ifd0 = append(ifd0, ascii(0x010f, f.Make))
	}
	if f.Orientation != 0 {
		ifd0 = append(ifd0, short(0x0112, f.Orientation))
	}
	if f.DateTime != "" {
		ifd0 = append(ifd0, ascii(0x0132, f.DateTime))
	}
	if f.Width != 0 {
		sub = append(sub, long(0xa002, f.Width))
	}
	if f.Height != 0 {
		sub = append(sub, long(0xa003, f.Height))
	}

	const ifd0Off = 8
	n0 := len(ifd0)
	if len(sub) > 0 {
		n0++
	}
	subOff := ifd0Off + ifdSize(n0)
	dataOff := subOff
	if len(sub) > 0 {
		dataOff += ifdSize(len(sub))
		ifd0 = append(ifd0, long(0x8769, subOff))
	}

	var data []byte
	writeIFD := func(entries []entry) []byte {
		b := le.AppendUint16(nil, uint16(len(entries)))
		for _, e := range entries {
			b = le.AppendUint16(b, e.tag)
			b = le.AppendUint16(b, e.typ)
			b = le.AppendUint32(b, e.count)
			if len(e.data) <= 4 {
				v := make([]byte, 4)
				copy(v, e.data)
				b = append(b, v...)
				continue
			}
			b = le.AppendUint32(b, uint32(dataOff+len(data)))
			data = append(data, e.data...)
			if len(data)%2 == 1 {
				data = append(data, 0)
			}
		}
		return le.AppendUint32(b, 0)
	}

	tiff := []byte{'I', 'I'}
	tiff = le.AppendUint16(tiff, 42)
	tiff = le.AppendUint32(tiff, ifd0Off)
	tiff = append(tiff, writeIFD(ifd0)...)
	if len(sub) > 0 {
		tiff = append(tiff, writeIFD(sub)...)
	}
	tiff = append(tiff, data...)

	payload := append([]byte("Exif\x00\x00"), tiff...)
	size := len(payload) + 2
	return append([]byte{0xff, 0xe1, byte(size >> 8), byte(size)}, payload...)
}

// Encode writes img as a JPEG, with the EXIF segment right after SOI when
// fields is non-nil.
func Encode(w io.Writer, img image.Image, fields *Fields, quality int) error {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return err
	}
	b := buf.Bytes()
	if fields != nil {
		out := append([]byte{}, b[:2]...)
		out = append(out, EXIF(*fields)...)
		b = append(out, b[2:]...)
	}
	_, err := w.Write(b)
	return err
}

// Write encodes img to path, creating parent directories.
func Write(path string, img image.Image, fields *Fields) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, img, fields, 90); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
