package benchmark

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/go-deteval/evaluation"
	"github.com/nvr-ai/go-deteval/images"
	"github.com/nvr-ai/go-deteval/util"
)

// Scenario defines the records evaluated for one input resolution.
type Scenario struct {
	Name        string `json:"name"        yaml:"name"`
	Resolution  int    `json:"resolution"  yaml:"resolution"`
	RecordsPath string `json:"recordsPath" yaml:"recordsPath"`

	// Records, when set, are evaluated instead of reading RecordsPath.
	Records []evaluation.DetectionRecord `json:"records,omitempty" yaml:"records,omitempty"`
}

// ScenarioBuilder helps build scenarios with fluent API
type ScenarioBuilder struct {
	scenario Scenario
}

// NewScenarioBuilder creates a new scenario builder
func NewScenarioBuilder(name string) *ScenarioBuilder {
	return &ScenarioBuilder{
		scenario: Scenario{Name: name},
	}
}

// WithResolution sets the input resolution
func (sb *ScenarioBuilder) WithResolution(size int) *ScenarioBuilder {
	sb.scenario.Resolution = size
	return sb
}

// WithRecordsPath sets the records file to load
func (sb *ScenarioBuilder) WithRecordsPath(path string) *ScenarioBuilder {
	sb.scenario.RecordsPath = path
	return sb
}

// WithRecords sets already parsed records
func (sb *ScenarioBuilder) WithRecords(records []evaluation.DetectionRecord) *ScenarioBuilder {
	sb.scenario.Records = records
	return sb
}

// Build returns the configured scenario
func (sb *ScenarioBuilder) Build() Scenario {
	return sb.scenario
}

// ScenarioSet represents a collection of related scenarios
type ScenarioSet struct {
	Name        string     `json:"name"        yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Scenarios   []Scenario `json:"scenarios"   yaml:"scenarios"`
}

func scenarioName(size int) string {
	return fmt.Sprintf("resolution_%d", size)
}

// ScenariosFromConfig builds one scenario per configured resolution, in
// configuration order.
func ScenariosFromConfig(cfg *Config) *ScenarioSet {
	scenarios := make([]Scenario, 0, len(cfg.Resolutions))
	for _, size := range cfg.Resolutions {
		scenarios = append(scenarios, NewScenarioBuilder(scenarioName(size)).
			WithResolution(size).
			WithRecordsPath(util.RecordsPath(cfg.DataDir, cfg.FilePattern, size)).
			Build())
	}

	return &ScenarioSet{
		Name:        "Resolution Comparison",
		Description: fmt.Sprintf("Compares %d input resolutions from %s", len(scenarios), cfg.DataDir),
		Scenarios:   scenarios,
	}
}

// DiscoverScenarios builds one scenario per records file found in dataDir,
// ordered by ascending resolution.
func DiscoverScenarios(dataDir, pattern string) (*ScenarioSet, error) {
	files, err := util.LoadDirectoryRecordFiles(dataDir, pattern)
	if err != nil {
		return nil, errors.Wrap(err, "discover records files")
	}

	scenarios := make([]Scenario, 0, len(files))
	for _, f := range files {
		scenarios = append(scenarios, NewScenarioBuilder(scenarioName(f.Size)).
			WithResolution(f.Size).
			WithRecordsPath(f.Path).
			WithRecords(f.Records).
			Build())
	}

	return &ScenarioSet{
		Name:        "Discovered Resolutions",
		Description: fmt.Sprintf("Resolutions found in %s", dataDir),
		Scenarios:   scenarios,
	}, nil
}

// Describe returns a one-line description of the scenario's resolution.
func (s Scenario) Describe() string {
	return fmt.Sprintf("%s @ %s", s.Name, images.Label(s.Resolution))
}

// SaveScenarioSet saves a scenario set to a YAML file
func SaveScenarioSet(scenarioSet *ScenarioSet, filename string) error {
	data, err := yaml.Marshal(scenarioSet)
	if err != nil {
		return errors.Wrap(err, "failed to marshal scenario set")
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write scenario file")
	}

	return nil
}

// LoadScenarioSet loads a scenario set from a YAML or JSON file
func LoadScenarioSet(filename string) (*ScenarioSet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read scenario file")
	}

	var scenarioSet ScenarioSet
	if err := yaml.Unmarshal(data, &scenarioSet); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal scenario set")
	}

	return &scenarioSet, nil
}
