// Package paths resolves the configuration, data and report output
// directories of cabplanner.
package paths

import (
	"os"
	"path/filepath"
)

// Working-directory-relative defaults.
const (
	DefaultConfigDirName = ".cabplanner"
	DefaultDataDirName   = ".cabplanner-db"
)

// Environment variables that override the defaults.
const (
	EnvConfigDir = "CABPLANNER_CONFIG_DIR"
	EnvDataDir   = "CABPLANNER_DATA_DIR"
)

// getwd is replaced in tests.
var getwd = os.Getwd

// ResolveConfigDir returns the configuration directory:
// flag > CABPLANNER_CONFIG_DIR > $(CWD)/.cabplanner.
func ResolveConfigDir(flag string) (string, error) {
	return resolve(DefaultConfigDirName, flag, os.Getenv(EnvConfigDir))
}

// ResolveDataDir returns the data directory:
// flag > config.yaml data_dir > CABPLANNER_DATA_DIR > $(CWD)/.cabplanner-db.
func ResolveDataDir(flag, configValue string) (string, error) {
	return resolve(DefaultDataDirName, flag, configValue, os.Getenv(EnvDataDir))
}

// ResolveOutputDir returns the directory reports are written to:
// flag > config.yaml report.output_dir > $(CWD).
func ResolveOutputDir(flag, configValue string) (string, error) {
	return resolve("", flag, configValue)
}

// resolve returns the first non-empty candidate as an absolute path, or
// def joined to the working directory.
func resolve(def string, candidates ...string) (string, error) {
	for _, c := range candidates {
		if c != "" {
			return filepath.Abs(c)
		}
	}
	cwd, err := getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, def), nil
}
