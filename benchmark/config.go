package benchmark

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/go-deteval/charts"
	"github.com/nvr-ai/go-deteval/util"
)

// Defaults reproduce the layout of a darknet evaluation workspace.
const (
	DefaultDataDir     = "data"
	DefaultFilePattern = "{size}_yolov4_5000_cell_data.txt"
	DefaultOutputDir   = "results"
)

// DefaultResolutions are the input sizes evaluated when none are configured.
var DefaultResolutions = []int{512, 608, 800}

// PlotConfig controls the precision-recall plots.
type PlotConfig struct {
	Enabled      bool          `json:"enabled"      yaml:"enabled"`
	Format       charts.Format `json:"format"       yaml:"format"`
	WidthInches  float64       `json:"widthInches"  yaml:"widthInches"`
	HeightInches float64       `json:"heightInches" yaml:"heightInches"`
	HTML         bool          `json:"html"         yaml:"html"`
}

// Options converts the plot configuration to renderer options.
func (pc PlotConfig) Options() charts.Options {
	return charts.Options{
		Format: pc.Format,
		Width:  vg.Length(pc.WidthInches) * vg.Inch,
		Height: vg.Length(pc.HeightInches) * vg.Inch,
	}
}

// Config represents the overall evaluation run configuration.
type Config struct {
	Resolutions    []int      `json:"resolutions"    yaml:"resolutions"`
	DataDir        string     `json:"dataDir"        yaml:"dataDir"`
	FilePattern    string     `json:"filePattern"    yaml:"filePattern"`
	OutputDir      string     `json:"outputDir"      yaml:"outputDir"`
	Concurrency    int        `json:"concurrency"    yaml:"concurrency"`
	TimeoutSeconds int        `json:"timeoutSeconds" yaml:"timeoutSeconds"`
	WriteJSON      bool       `json:"writeJSON"      yaml:"writeJSON"`
	WriteCSV       bool       `json:"writeCSV"       yaml:"writeCSV"`
	Plots          PlotConfig `json:"plots"          yaml:"plots"`
}

// DefaultConfig returns the default run configuration.
func DefaultConfig() *Config {
	resolutions := make([]int, len(DefaultResolutions))
	copy(resolutions, DefaultResolutions)

	return &Config{
		Resolutions:    resolutions,
		DataDir:        DefaultDataDir,
		FilePattern:    DefaultFilePattern,
		OutputDir:      DefaultOutputDir,
		Concurrency:    0,
		TimeoutSeconds: 300,
		WriteJSON:      true,
		WriteCSV:       true,
		Plots: PlotConfig{
			Enabled:      true,
			Format:       charts.FormatPNG,
			WidthInches:  6.4,
			HeightInches: 4.8,
		},
	}
}

// Validate checks the configuration for values the suite cannot run with.
func (c *Config) Validate() error {
	if len(c.Resolutions) == 0 {
		return errors.New("no resolutions configured")
	}
	seen := make(map[int]bool, len(c.Resolutions))
	for _, res := range c.Resolutions {
		if res <= 0 {
			return errors.Errorf("resolution %d must be positive", res)
		}
		if seen[res] {
			return errors.Errorf("resolution %d listed twice", res)
		}
		seen[res] = true
	}
	if !strings.Contains(c.FilePattern, util.SizePlaceholder) {
		return errors.Errorf("file pattern %q has no %s placeholder", c.FilePattern, util.SizePlaceholder)
	}
	if c.OutputDir == "" {
		return errors.New("output directory is empty")
	}
	if c.Concurrency < 0 {
		return errors.Errorf("concurrency %d must not be negative", c.Concurrency)
	}
	if c.TimeoutSeconds < 0 {
		return errors.Errorf("timeout %d must not be negative", c.TimeoutSeconds)
	}
	if c.Plots.Enabled {
		if !c.Plots.Format.Valid() {
			return errors.Errorf("unsupported plot format %q", c.Plots.Format)
		}
		if c.Plots.WidthInches <= 0 || c.Plots.HeightInches <= 0 {
			return errors.New("plot dimensions must be positive")
		}
	}
	return nil
}

// SaveConfig saves the configuration to a YAML file.
func (c *Config) SaveConfig(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}

	return nil
}

// LoadConfig loads a configuration from a YAML or JSON file. Fields omitted
// from the file keep their default values.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", filename)
	}

	return config, nil
}
