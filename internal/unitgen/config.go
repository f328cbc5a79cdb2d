// Package unitgen generates systemd units that bind a per-stream CSV parser
// service to the stream-quality probe service it follows.
package unitgen

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DiscoveryMode selects how the per-instance data file path is resolved.
type DiscoveryMode string

const (
	// DiscoveryGlob resolves the data file by globbing the data directory
	// for <instance-id>*<data-suffix> and requires exactly one match.
	DiscoveryGlob DiscoveryMode = "glob"

	// DiscoveryFixed constructs the data file path deterministically as
	// <instance-id>_<fixed-suffix><data-suffix> without checking existence.
	DiscoveryFixed DiscoveryMode = "fixed"
)

const (
	// DefaultUnitDir is the default directory scanned for base units and
	// written with generated units.
	DefaultUnitDir = "/etc/systemd/system"

	// DefaultDataDir is the default directory holding per-stream CSV files.
	DefaultDataDir = "/var/lib/stream-quality"

	// DefaultLogDir is the default directory for parser log files.
	DefaultLogDir = "/var/log/csv-parser"

	// DefaultWorkDir is the default working directory of generated services.
	DefaultWorkDir = "/var/lib/qwire"

	// DefaultExecPath is the default executable for generated services.
	DefaultExecPath = "/usr/local/bin/qwire"

	// DefaultWorkerPath is the default worker argument passed to the
	// executable. With the qwire binary this is the tail subcommand; fleets
	// still running the legacy Python worker set exec_path to the
	// interpreter and worker_path to the script instead.
	DefaultWorkerPath = "tail"

	// DefaultBasePrefix is the filename prefix of base probe units.
	DefaultBasePrefix = "checking_stream_quality_"

	// DefaultNewPrefix is the filename prefix of generated parser units.
	DefaultNewPrefix = "csv-parser_"

	// DefaultUnitSuffix is the unit file extension.
	DefaultUnitSuffix = ".service"

	// DefaultDataSuffix is the data file extension.
	DefaultDataSuffix = ".csv"

	// DefaultFixedSuffix is the data file stem suffix used by DiscoveryFixed.
	DefaultFixedSuffix = "prod"

	// DefaultOutputExt is the extension of the converted output file.
	DefaultOutputExt = ".jsonl"

	// DefaultLogPrefix is the stem prefix of per-instance parser log files.
	DefaultLogPrefix = "csv_parser"
)

// Config holds the naming conventions and directories the generator works
// with. Config is populated from a YAML file via ParseConfig or constructed
// directly; zero-valued fields are filled by ApplyDefaults.
type Config struct {
	// UnitDir is the directory scanned for base units. Generated units are
	// written here as well. Must exist.
	UnitDir string `yaml:"unit_dir"`

	// DataDir is the directory holding per-stream CSV data files.
	// Must exist when Discovery is "glob".
	DataDir string `yaml:"data_dir"`

	// LogDir is the directory referenced by generated units for parser logs.
	LogDir string `yaml:"log_dir"`

	// WorkDir is the WorkingDirectory of generated services.
	WorkDir string `yaml:"work_dir"`

	// ExecPath is the executable invoked by generated services.
	ExecPath string `yaml:"exec_path"`

	// WorkerPath is the worker argument appended after ExecPath.
	WorkerPath string `yaml:"worker_path"`

	// BasePrefix and NewPrefix are the filename prefixes of base and
	// generated units.
	BasePrefix string `yaml:"base_prefix"`
	NewPrefix  string `yaml:"new_prefix"`

	// UnitSuffix and DataSuffix are the unit and data file extensions.
	UnitSuffix string `yaml:"unit_suffix"`
	DataSuffix string `yaml:"data_suffix"`

	// FixedSuffix is the data file stem suffix used by DiscoveryFixed.
	FixedSuffix string `yaml:"fixed_suffix"`

	// OutputExt replaces the data file extension to form the output path.
	OutputExt string `yaml:"output_ext"`

	// LogPrefix is the stem prefix of per-instance parser log files.
	LogPrefix string `yaml:"log_prefix"`

	// Discovery selects the data file resolution mode: "glob" or "fixed".
	// The two modes are deliberately exclusive; a deployment picks one.
	// Default: "glob"
	Discovery DiscoveryMode `yaml:"discovery"`

	// SkipActivation disables the per-instance enable --now call. Unit files
	// are still written and the final daemon-reload still runs.
	SkipActivation bool `yaml:"skip_activation"`
}

// ApplyDefaults sets default values for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.UnitDir == "" {
		c.UnitDir = DefaultUnitDir
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.LogDir == "" {
		c.LogDir = DefaultLogDir
	}
	if c.WorkDir == "" {
		c.WorkDir = DefaultWorkDir
	}
	if c.ExecPath == "" {
		c.ExecPath = DefaultExecPath
	}
	if c.WorkerPath == "" {
		c.WorkerPath = DefaultWorkerPath
	}
	if c.BasePrefix == "" {
		c.BasePrefix = DefaultBasePrefix
	}
	if c.NewPrefix == "" {
		c.NewPrefix = DefaultNewPrefix
	}
	if c.UnitSuffix == "" {
		c.UnitSuffix = DefaultUnitSuffix
	}
	if c.DataSuffix == "" {
		c.DataSuffix = DefaultDataSuffix
	}
	if c.FixedSuffix == "" {
		c.FixedSuffix = DefaultFixedSuffix
	}
	if c.OutputExt == "" {
		c.OutputExt = DefaultOutputExt
	}
	if c.LogPrefix == "" {
		c.LogPrefix = DefaultLogPrefix
	}
	if c.Discovery == "" {
		c.Discovery = DiscoveryGlob
	}
}

// Validate checks that required fields are set and values are acceptable.
func (c *Config) Validate() error {
	if c.UnitDir == "" {
		return fmt.Errorf("unitgen: config: unit_dir is required")
	}
	if c.DataDir == "" {
		return fmt.Errorf("unitgen: config: data_dir is required")
	}
	if c.BasePrefix == "" {
		return fmt.Errorf("unitgen: config: base_prefix is required")
	}
	if c.NewPrefix == "" {
		return fmt.Errorf("unitgen: config: new_prefix is required")
	}
	if c.BasePrefix == c.NewPrefix {
		return fmt.Errorf("unitgen: config: base_prefix and new_prefix must differ (generated units would qualify as base units)")
	}
	if !strings.HasPrefix(c.UnitSuffix, ".") {
		return fmt.Errorf("unitgen: config: unit_suffix %q must start with a dot", c.UnitSuffix)
	}
	if !strings.HasPrefix(c.DataSuffix, ".") {
		return fmt.Errorf("unitgen: config: data_suffix %q must start with a dot", c.DataSuffix)
	}
	if !strings.HasPrefix(c.OutputExt, ".") {
		return fmt.Errorf("unitgen: config: output_ext %q must start with a dot", c.OutputExt)
	}
	if c.Discovery != DiscoveryGlob && c.Discovery != DiscoveryFixed {
		return fmt.Errorf("unitgen: config: invalid discovery mode %q (must be %q or %q)", c.Discovery, DiscoveryGlob, DiscoveryFixed)
	}
	return nil
}

// ParseConfig reads a YAML configuration file and returns a Config with
// defaults applied and values validated.
func ParseConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unitgen: config: read %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("unitgen: config: parse %s: %w", path, err)
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
