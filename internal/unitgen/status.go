package unitgen

import (
	"fmt"
	"path/filepath"
)

// UnitStatus describes one generated unit found on disk.
type UnitStatus struct {
	UnitName   string
	InstanceID string
	Active     bool
}

// Status reports every generated parser unit in the unit directory and
// whether it is currently running. Unlike Run and Clean, Status has no side
// effects and does not require privileges.
func (g *Generator) Status() ([]UnitStatus, error) {
	if !g.init.IsAvailable() {
		return nil, fmt.Errorf("unitgen: systemd is not available")
	}
	if err := requireDir(g.cfg.UnitDir); err != nil {
		return nil, err
	}

	pattern := filepath.Join(g.cfg.UnitDir, g.cfg.NewPrefix+"*"+g.cfg.UnitSuffix)
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("unitgen: scan %s: %w", g.cfg.UnitDir, err)
	}

	statuses := make([]UnitStatus, 0, len(matches))
	for _, path := range matches {
		unitName := filepath.Base(path)
		st := UnitStatus{
			UnitName: unitName,
			Active:   g.init.IsActive(unitName),
		}
		if id, ok := InstanceID(unitName, g.cfg.NewPrefix, g.cfg.UnitSuffix); ok {
			st.InstanceID = id
		}
		statuses = append(statuses, st)
	}
	return statuses, nil
}
