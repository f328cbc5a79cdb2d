package unitgen

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/streamlens/qwire/internal/fsutil"
)

// Generator scans the unit directory for base probe units and writes one
// parser unit per qualifying instance.
type Generator struct {
	cfg    Config
	init   InitController
	priv   PrivilegeChecker
	logger *slog.Logger
}

// NewGenerator creates a Generator with config defaults applied.
func NewGenerator(cfg Config, init InitController, priv PrivilegeChecker, logger *slog.Logger) *Generator {
	cfg.ApplyDefaults()
	return &Generator{
		cfg:    cfg,
		init:   init,
		priv:   priv,
		logger: logger.With("component", "unitgen"),
	}
}

// Run executes one generation pass. Fatal preconditions (privilege, missing
// directories, unavailable systemd) abort before any side effect; everything
// after the scan starts is per-instance and recoverable. The summary holds
// one result per matched base unit. Finding no base units is a successful
// "nothing to do" run.
func (g *Generator) Run() (*Summary, error) {
	if err := g.checkPreconditions(); err != nil {
		return nil, err
	}
	if g.cfg.Discovery == DiscoveryGlob {
		if err := requireDir(g.cfg.DataDir); err != nil {
			return nil, err
		}
	}

	matches, err := filepath.Glob(g.cfg.baseUnitGlob())
	if err != nil {
		return nil, fmt.Errorf("unitgen: scan %s: %w", g.cfg.UnitDir, err)
	}
	if len(matches) == 0 {
		g.logger.Info("no base units found, nothing to do", "dir", g.cfg.UnitDir, "pattern", g.cfg.BasePrefix+"*"+g.cfg.UnitSuffix)
	}

	summary := &Summary{}
	for _, path := range matches {
		summary.Results = append(summary.Results, g.processBaseUnit(filepath.Base(path)))
	}

	// One reload per run, regardless of how many instances were skipped.
	if err := g.init.DaemonReload(); err != nil {
		return summary, fmt.Errorf("unitgen: daemon-reload: %w", err)
	}
	summary.Reloaded = true

	generated, skipped, activationFailed := summary.Counts()
	g.logger.Info("generation pass complete",
		"matched", len(summary.Results),
		"generated", generated,
		"skipped", skipped,
		"activation_failed", activationFailed,
	)
	return summary, nil
}

// processBaseUnit handles a single matched base unit filename.
func (g *Generator) processBaseUnit(baseUnit string) InstanceResult {
	res := InstanceResult{BaseUnit: baseUnit}

	id, ok := InstanceID(baseUnit, g.cfg.BasePrefix, g.cfg.UnitSuffix)
	if !ok {
		res.Outcome = OutcomeMalformedID
		g.logger.Warn("base unit yields empty instance id, skipping", "unit", baseUnit)
		return res
	}
	res.InstanceID = id

	dataPath, outcome, err := g.resolveDataFile(id)
	if outcome != "" {
		res.Outcome = outcome
		res.Err = err
		g.logger.Warn("data file resolution failed, skipping",
			"instance", id, "outcome", string(outcome), "error", err)
		return res
	}
	res.DataPath = dataPath

	unitName := g.cfg.GeneratedUnitName(id)
	res.UnitName = unitName
	content := GenerateUnitFile(g.cfg, id, dataPath)

	// Regeneration overwrites an existing unit of the same name. That is
	// the accepted contract: re-running refreshes every generated unit.
	unitPath := filepath.Join(g.cfg.UnitDir, unitName)
	if err := fsutil.WriteFileAtomic(unitPath, []byte(content), 0o644); err != nil {
		res.Outcome = OutcomeWriteFailed
		res.Err = fmt.Errorf("unitgen: write %s: %w", unitPath, err)
		g.logger.Warn("unit write failed, skipping", "instance", id, "error", res.Err)
		return res
	}
	g.logger.Info("unit written", "instance", id, "unit", unitName, "data", dataPath)

	if !g.cfg.SkipActivation {
		if err := g.init.EnableNow(unitName); err != nil {
			// The unit file stays on disk; the next run or a manual
			// systemctl call can still activate it.
			res.Outcome = OutcomeActivationFailed
			res.Err = err
			g.logger.Warn("activation failed", "instance", id, "unit", unitName, "error", err)
			return res
		}
		g.logger.Info("unit enabled and started", "instance", id, "unit", unitName)
	}

	res.Outcome = OutcomeGenerated
	return res
}

// resolveDataFile resolves the data file path for an instance. A non-empty
// outcome means the instance must be skipped.
func (g *Generator) resolveDataFile(instanceID string) (string, Outcome, error) {
	switch g.cfg.Discovery {
	case DiscoveryFixed:
		return g.cfg.FixedDataPath(instanceID), "", nil
	default:
		matches, err := filepath.Glob(g.cfg.dataFileGlob(instanceID))
		if err != nil {
			return "", OutcomeNoDataFile, fmt.Errorf("unitgen: glob data files for %s: %w", instanceID, err)
		}
		switch len(matches) {
		case 1:
			return matches[0], "", nil
		case 0:
			return "", OutcomeNoDataFile, fmt.Errorf("unitgen: no data file matches %s", g.cfg.dataFileGlob(instanceID))
		default:
			return "", OutcomeAmbiguousDataFile, fmt.Errorf("unitgen: %d data files match %s, want exactly 1", len(matches), g.cfg.dataFileGlob(instanceID))
		}
	}
}

// Clean removes previously generated parser units: each unit is stopped,
// disabled, and deleted, followed by a single daemon-reload. Stop and
// disable errors are logged and do not prevent removal.
func (g *Generator) Clean() (*Summary, error) {
	if err := g.checkPreconditions(); err != nil {
		return nil, err
	}

	pattern := filepath.Join(g.cfg.UnitDir, g.cfg.NewPrefix+"*"+g.cfg.UnitSuffix)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("unitgen: scan %s: %w", g.cfg.UnitDir, err)
	}
	if len(matches) == 0 {
		g.logger.Info("no generated units found, nothing to do", "dir", g.cfg.UnitDir)
	}

	summary := &Summary{}
	for _, path := range matches {
		unitName := filepath.Base(path)
		res := InstanceResult{UnitName: unitName}
		if id, ok := InstanceID(unitName, g.cfg.NewPrefix, g.cfg.UnitSuffix); ok {
			res.InstanceID = id
		}

		if err := g.init.Stop(unitName); err != nil {
			g.logger.Warn("stop failed", "unit", unitName, "error", err)
		}
		if err := g.init.Disable(unitName); err != nil {
			g.logger.Warn("disable failed", "unit", unitName, "error", err)
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			res.Outcome = OutcomeRemoveFailed
			res.Err = fmt.Errorf("unitgen: remove %s: %w", path, err)
			g.logger.Warn("unit removal failed", "unit", unitName, "error", res.Err)
			summary.Results = append(summary.Results, res)
			continue
		}
		res.Outcome = OutcomeRemoved
		g.logger.Info("unit removed", "unit", unitName)
		summary.Results = append(summary.Results, res)
	}

	if err := g.init.DaemonReload(); err != nil {
		return summary, fmt.Errorf("unitgen: daemon-reload: %w", err)
	}
	summary.Reloaded = true
	return summary, nil
}

// checkPreconditions verifies privilege, systemd availability, and the unit
// directory. No side effects happen before these pass.
func (g *Generator) checkPreconditions() error {
	if !g.priv.IsPrivileged() {
		return errors.New("unitgen: writing system units requires root privileges")
	}
	if !g.init.IsAvailable() {
		return errors.New("unitgen: systemd is not available")
	}
	return requireDir(g.cfg.UnitDir)
}

func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("unitgen: directory %s: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("unitgen: %s is not a directory", path)
	}
	return nil
}
