package internal

import (
	"image"
	"image/color"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"hdframe/internal/testphoto"
)

type exifFields = testphoto.Fields

func createTestImage(width, height int) image.Image {
	return testphoto.Gradient(width, height)
}

func solidImage(width, height int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// writeJPEG encodes img to path with EXIF when fields is non-nil.
func writeJPEG(t *testing.T, path string, img image.Image, fields *exifFields) {
	t.Helper()
	if err := testphoto.Write(path, img, fields); err != nil {
		t.Fatal(err)
	}
}

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)
	return zap.New(core), logs
}
