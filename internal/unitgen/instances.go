package unitgen

import (
	"path/filepath"
	"strings"
)

// Filename derivations are pure string functions so they can be tested
// without a real directory tree.

// InstanceID extracts the instance identifier from a base unit filename by
// stripping prefix from the front and suffix from the back. The second
// return value is false when the filename does not carry both markers or
// when stripping leaves an empty id.
func InstanceID(filename, prefix, suffix string) (string, bool) {
	if !strings.HasPrefix(filename, prefix) || !strings.HasSuffix(filename, suffix) {
		return "", false
	}
	id := filename[len(prefix) : len(filename)-len(suffix)]
	if id == "" {
		return "", false
	}
	return id, true
}

// BaseUnitName returns the unit name of the probe service for an instance.
func (c Config) BaseUnitName(instanceID string) string {
	return c.BasePrefix + instanceID + c.UnitSuffix
}

// GeneratedUnitName returns the unit name of the parser service for an
// instance.
func (c Config) GeneratedUnitName(instanceID string) string {
	return c.NewPrefix + instanceID + c.UnitSuffix
}

// baseUnitGlob is the pattern matched against the unit directory.
func (c Config) baseUnitGlob() string {
	return filepath.Join(c.UnitDir, c.BasePrefix+"*"+c.UnitSuffix)
}

// dataFileGlob is the pattern matched against the data directory in glob
// discovery mode.
func (c Config) dataFileGlob(instanceID string) string {
	return filepath.Join(c.DataDir, instanceID+"*"+c.DataSuffix)
}

// FixedDataPath returns the deterministic data file path used by fixed
// discovery mode. The file is not required to exist.
func (c Config) FixedDataPath(instanceID string) string {
	return filepath.Join(c.DataDir, instanceID+"_"+c.FixedSuffix+c.DataSuffix)
}

// OutputPath derives the converted output path from a data file path by
// swapping the extension. A data path without an extension gets ext appended.
func OutputPath(dataPath, ext string) string {
	return strings.TrimSuffix(dataPath, filepath.Ext(dataPath)) + ext
}

// LogPath returns the per-instance parser log file path.
func (c Config) LogPath(instanceID string) string {
	return filepath.Join(c.LogDir, c.LogPrefix+"_"+instanceID+".log")
}
