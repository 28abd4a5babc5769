package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hdframe/internal/testphoto"
)

// runRoot executes the root command with args. Flags keep their values
// between runs, so callers pass every flag they rely on.
func runRoot(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return out.String(), errOut.String(), err
}

func writeCard(t *testing.T) string {
	t.Helper()
	card := filepath.Join(t.TempDir(), "card")
	photos := map[string]*testphoto.Fields{
		"DSCF0001.jpg": {Make: "FUJIFILM", Orientation: 6, DateTime: "2017:03:05 14:07:09", Width: 4000, Height: 3000},
		"DSCF0002.jpg": {Make: "LGE", DateTime: "2019:01:01 12:00:00"},
		"DSCF0003.jpg": {Make: "Canon", Orientation: 1, DateTime: "2015:06:01 10:00:00", Width: 4000, Height: 3000},
	}
	for name, fields := range photos {
		if err := testphoto.Write(filepath.Join(card, name), testphoto.Gradient(80, 60), fields); err != nil {
			t.Fatal(err)
		}
	}
	// Wrong extension for directory expansion.
	if err := testphoto.Write(filepath.Join(card, "DSCF0004.JPG"), testphoto.Gradient(80, 60), nil); err != nil {
		t.Fatal(err)
	}
	return card
}

func TestNormalize_Directory(t *testing.T) {
	card := writeCard(t)
	out := filepath.Join(t.TempDir(), "frames")

	stdout, _, err := runRoot(t, "", "normalize", card, "-o", out, "--cutoff", "2016-12-24T00:00:00", "--dry-run=false", "--log-level", "error")
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}

	if !strings.Contains(stdout, "Found 3 photos") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
	if !strings.Contains(stdout, "Processed 3: 2 written, 1 excluded by date, 0 failed") {
		t.Errorf("unexpected summary:\n%s", stdout)
	}

	for _, name := range []string{"20170305-140709.jpg", "20190101-120000.jpg"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing output %s: %v", name, err)
		}
	}
	entries, _ := os.ReadDir(out)
	if len(entries) != 2 {
		t.Errorf("expected 2 outputs, got %d", len(entries))
	}
}

func TestNormalize_FailuresReturnError(t *testing.T) {
	card := writeCard(t)
	broken := filepath.Join(card, "DSCF0004.JPG")
	out := filepath.Join(t.TempDir(), "frames")

	stdout, stderr, err := runRoot(t, "", "normalize", card, broken, "-o", out, "--cutoff", "2016-12-24T00:00:00", "--dry-run=false", "--log-level", "error")
	if err == nil {
		t.Fatal("expected an error when a file fails")
	}
	if !strings.Contains(err.Error(), "1 of 4 files failed") {
		t.Errorf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "2 written, 1 excluded by date, 1 failed") {
		t.Errorf("unexpected summary:\n%s", stdout)
	}
	if !strings.Contains(stderr, "metadata_missing: 1") {
		t.Errorf("report missing from stderr:\n%s", stderr)
	}
}

func TestNormalize_StdinDryRun(t *testing.T) {
	card := writeCard(t)
	out := filepath.Join(t.TempDir(), "frames")
	list := filepath.Join(card, "DSCF0001.jpg") + "\n\n" + filepath.Join(card, "DSCF0002.jpg") + "\n"

	stdout, _, err := runRoot(t, list, "normalize", "-", "-o", out, "--cutoff", "2016-12-24T00:00:00", "--dry-run", "--log-level", "error")
	if err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if !strings.Contains(stdout, "Dry run mode") || !strings.Contains(stdout, "2 planned") {
		t.Errorf("unexpected output:\n%s", stdout)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("dry run created the output directory")
	}
}

func TestNormalize_InvalidConfiguration(t *testing.T) {
	card := writeCard(t)
	out := filepath.Join(t.TempDir(), "frames")

	_, _, err := runRoot(t, "", "normalize", card, "-o", out, "--cutoff", "2016-12-24T00:00:00", "--dry-run=false", "--log-level", "error", "--background", "plaid")
	if err == nil || !strings.Contains(err.Error(), "invalid configuration") {
		t.Errorf("expected an invalid configuration error, got %v", err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("output directory created despite bad configuration")
	}

	// Reset for later tests sharing the command.
	normalizeCmd.Flags().Set("background", "black")
}
