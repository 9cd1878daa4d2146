package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is looked up in the working directory when no
// --config flag is given; it is allowed to be absent.
const DefaultFileName = "bidstool.toml"

// Log contains logging configuration.
type Log struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Sorting contains defaults for the sort command.
type Sorting struct {
	Pattern string `toml:"pattern"`
	Workers int    `toml:"workers"`
}

// Counters configures the counter token formats used by the archive
// layout and by %DateID%/%SeriesID% template tokens.
type Counters struct {
	DatePrefix   string `toml:"date_prefix"`
	DateWidth    int    `toml:"date_width"`
	SeriesPrefix string `toml:"series_prefix"`
	SeriesWidth  int    `toml:"series_width"`
	ImagePrefix  string `toml:"image_prefix"`
	ImageWidth   int    `toml:"image_width"`
}

// Filter configures the series acceptance predicate.
type Filter struct {
	Digit      string   `toml:"digit"`
	Substrings []string `toml:"substrings"`
}

// Config is the optional TOML configuration file. Command-line flags
// override any value set here.
type Config struct {
	Log      Log      `toml:"log"`
	Sorting  Sorting  `toml:"sorting"`
	Counters Counters `toml:"counters"`
	Filter   Filter   `toml:"filter"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: Log{
			Level:  "info",
			Format: "console",
		},
		Sorting: Sorting{
			Pattern: "%PatientID%/%StudyDate%/%SeriesDescription%",
			Workers: 0, // auto
		},
		Counters: Counters{
			DatePrefix:   "DAT",
			DateWidth:    4,
			SeriesPrefix: "SEQ",
			SeriesWidth:  4,
			ImagePrefix:  "IM",
			ImageWidth:   6,
		},
		Filter: Filter{
			Digit:      "1",
			Substrings: []string{"T1", "T2", "FLAIR"},
		},
	}
}

// Load reads path over the defaults. A missing file is only an error
// when the path was explicitly requested.
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("could not read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("could not parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the engine cannot work
// with.
func (c *Config) Validate() error {
	if c.Sorting.Workers < 0 {
		return fmt.Errorf("sorting.workers must not be negative (got %d)", c.Sorting.Workers)
	}
	if c.Counters.DateWidth <= 0 || c.Counters.SeriesWidth <= 0 || c.Counters.ImageWidth <= 0 {
		return errors.New("counter widths must be positive")
	}
	if len(c.Filter.Digit) != 1 {
		return fmt.Errorf("filter.digit must be a single digit (got %q)", c.Filter.Digit)
	}
	if len(c.Filter.Substrings) == 0 {
		return errors.New("filter.substrings must not be empty")
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("log.format: unsupported value %q", c.Log.Format)
	}
	return nil
}
