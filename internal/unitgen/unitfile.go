package unitgen

import (
	"fmt"
)

// GenerateUnitFile renders the parser unit for one instance. The unit is
// ordered after and bound to the probe unit: when the probe stops or
// disappears, systemd stops the parser with it.
//
// PYTHONUNBUFFERED is inert for the qwire worker and kept for fleets whose
// exec_path still points at the Python interpreter; without it the legacy
// worker buffers stdout and its service log lags by minutes.
func GenerateUnitFile(cfg Config, instanceID, dataPath string) string {
	baseUnit := cfg.BaseUnitName(instanceID)
	outputPath := OutputPath(dataPath, cfg.OutputExt)

	return fmt.Sprintf(`[Unit]
Description=CSV to JSONL parser for stream %s
After=%s
BindsTo=%s

[Service]
Type=simple
ExecStart=%s %s "%s" "%s" --log-file %s
User=root
WorkingDirectory=%s
Restart=always
Environment=PYTHONUNBUFFERED=1

[Install]
WantedBy=%s
`, instanceID, baseUnit, baseUnit,
		cfg.ExecPath, cfg.WorkerPath, dataPath, outputPath, cfg.LogPath(instanceID),
		cfg.WorkDir, baseUnit)
}
