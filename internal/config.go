package internal

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/image/colornames"
)

type Config struct {
	Output      string   `mapstructure:"output"`
	Cutoff      string   `mapstructure:"cutoff"`
	Width       int      `mapstructure:"width"`
	Height      int      `mapstructure:"height"`
	Background  string   `mapstructure:"background"`
	Extensions  []string `mapstructure:"extensions"`
	Quality     int      `mapstructure:"quality"`
	Filter      string   `mapstructure:"filter"`
	UseExifTool bool     `mapstructure:"exiftool"`
	DryRun      bool     `mapstructure:"dry_run"`
	LogLevel    string   `mapstructure:"log_level"`
	LogFile     string   `mapstructure:"log_file"`
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"output":     "output",
	"cutoff":     "cutoff",
	"width":      "width",
	"height":     "height",
	"background": "background",
	"ext":        "extensions",
	"quality":    "quality",
	"filter":     "filter",
	"exiftool":   "exiftool",
	"dry-run":    "dry_run",
	"log-level":  "log_level",
	"log-file":   "log_file",
}

// LoadConfig merges defaults, the user's hdframe.toml, HDFRAME_* environment
// variables and any flags the caller set, in increasing priority.
func LoadConfig(flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetConfigName("hdframe")
	v.SetConfigType("toml")
	if configDir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(configDir, "hdframe"))
	}

	v.SetDefault("output", filepath.Join(os.TempDir(), "hdframe"))
	v.SetDefault("cutoff", DefaultCutoff)
	v.SetDefault("width", 1920)
	v.SetDefault("height", 1080)
	v.SetDefault("background", "black")
	v.SetDefault("extensions", []string{".jpg"})
	v.SetDefault("quality", 95)
	v.SetDefault("filter", "lanczos")
	v.SetDefault("exiftool", false)
	v.SetDefault("dry_run", false)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")

	v.SetEnvPrefix("HDFRAME")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
				}
			}
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// CutoffTime parses the configured cutoff instant.
func (c *Config) CutoffTime() (time.Time, error) {
	return ParseCutoff(c.Cutoff)
}

// Compositor validates the canvas settings and returns the compositor they describe.
func (c *Config) Compositor() (Compositor, error) {
	if c.Width <= 0 || c.Height <= 0 {
		return Compositor{}, fmt.Errorf("canvas size must be positive, got %dx%d", c.Width, c.Height)
	}
	bg, err := ParseColor(c.Background)
	if err != nil {
		return Compositor{}, err
	}
	filter, err := ParseFilter(c.Filter)
	if err != nil {
		return Compositor{}, err
	}
	return Compositor{
		Width:      c.Width,
		Height:     c.Height,
		Background: bg,
		Filter:     filter,
	}, nil
}

// ParseColor accepts an SVG colour name ("black", "darkslategray") or #rrggbb.
func ParseColor(s string) (color.Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if c, ok := colornames.Map[s]; ok {
		return c, nil
	}
	if strings.HasPrefix(s, "#") && len(s) == 7 {
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err == nil {
			return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, nil
		}
	}
	return nil, fmt.Errorf("unknown background colour %q", s)
}

var filters = map[string]imaging.ResampleFilter{
	"lanczos":    imaging.Lanczos,
	"catmullrom": imaging.CatmullRom,
	"linear":     imaging.Linear,
	"box":        imaging.Box,
	"nearest":    imaging.NearestNeighbor,
}

func ParseFilter(name string) (imaging.ResampleFilter, error) {
	f, ok := filters[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return imaging.ResampleFilter{}, fmt.Errorf("unknown resample filter %q", name)
	}
	return f, nil
}

// EnsureOutputDir creates dir if needed and checks that files can be created in it.
func EnsureOutputDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	probe, err := os.CreateTemp(dir, ".hdframe-probe-*")
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	probe.Close()
	return os.Remove(probe.Name())
}
