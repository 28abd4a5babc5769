package main

import (
	"fmt"
	"os"
	"path/filepath"

	"hdframe/internal/testphoto"
)

// Writes a small memory card worth of photos covering each vendor policy,
// for trying hdframe by hand:
//
//	go run ./test samples && hdframe normalize samples/* -o frames
func main() {
	root := "samples"
	if len(os.Args) > 1 {
		root = os.Args[1]
	}

	photos := []struct {
		path   string
		w, h   int
		fields *testphoto.Fields
	}{
		// Sensor-oriented landscape pixels tagged portrait: rotated.
		{"100_FUJI/DSCF0001.jpg", 400, 300, &testphoto.Fields{Make: "FUJIFILM", Orientation: 6, DateTime: "2017:03:05 14:07:09", Width: 4000, Height: 3000}},
		{"100_FUJI/DSCF0002.jpg", 400, 300, &testphoto.Fields{Make: "FUJIFILM", Orientation: 8, DateTime: "2017:03:05 14:08:00", Width: 4000, Height: 3000}},
		{"100_FUJI/DSCF0003.jpg", 400, 300, &testphoto.Fields{Make: "FUJIFILM", Orientation: 1, DateTime: "2017:03:05 14:09:00", Width: 4000, Height: 3000}},
		{"100NIKON/DSC_0001.jpg", 300, 200, &testphoto.Fields{Make: "NIKON CORPORATION", Orientation: 3, DateTime: "2018:07:14 09:00:00", Width: 6000, Height: 4000}},
		// Already upright, orientation tag ignored.
		{"LG/20190101_120000.jpg", 300, 400, &testphoto.Fields{Make: "LGE", Orientation: 6, DateTime: "2019:01:01 12:00:00"}},
		// Before the default cutoff.
		{"OLD/IMG_0001.jpg", 400, 300, &testphoto.Fields{Make: "Canon", Orientation: 1, DateTime: "2015:06:01 10:00:00", Width: 4000, Height: 3000}},
		// Unknown vendor.
		{"PHONE/IMG_1234.jpg", 400, 300, &testphoto.Fields{Make: "Apple", Orientation: 1, DateTime: "2020:05:05 05:05:05", Width: 4032, Height: 3024}},
		// No EXIF at all.
		{"PHONE/signal_20240315_143022.jpg", 400, 300, nil},
	}

	for _, p := range photos {
		path := filepath.Join(root, p.path)
		if err := testphoto.Write(path, testphoto.Gradient(p.w, p.h), p.fields); err != nil {
			fmt.Printf("Error creating %s: %v\n", path, err)
			continue
		}
		fmt.Printf("Created %s\n", path)
	}

	fmt.Println("\nSample photos created.")
}
