package config

import (
	"os"
	"path/filepath"
)

const defaultBaseDir = ".switchboard"

// Paths holds resolved filesystem paths for Switchboard data.
type Paths struct {
	Base    string // ~/.switchboard
	Config  string // ~/.switchboard/config.yaml
	Uploads string // ~/.switchboard/uploads
	Logs    string // ~/.switchboard/logs
}

// ResolvePaths computes all standard paths from the home directory.
// If SWITCHBOARD_HOME is set, it overrides the default base directory.
func ResolvePaths() (Paths, error) {
	base := os.Getenv("SWITCHBOARD_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Paths{}, err
		}
		base = filepath.Join(home, defaultBaseDir)
	}

	return Paths{
		Base:    base,
		Config:  filepath.Join(base, "config.yaml"),
		Uploads: filepath.Join(base, "uploads"),
		Logs:    filepath.Join(base, "logs"),
	}, nil
}

// EnsureDirs creates all standard directories if they don't exist.
func (p Paths) EnsureDirs() error {
	for _, d := range []string{p.Base, p.Uploads, p.Logs} {
		if err := os.MkdirAll(d, 0o700); err != nil {
			return err
		}
	}
	return nil
}
