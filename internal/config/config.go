// Package config handles the ezimage preference file.
//
// Preferences live in a small INI file under the user's home directory.
// Every read degrades gracefully: a missing or malformed file behaves like
// an empty one, and callers substitute their own defaults.
package config

import (
	"os"
	"path/filepath"
)

// Location of the preference file, relative to the user's home directory.
const (
	VendorDir = "AudioNyq"
	FileName  = "EZImage.conf"
)

// Well-known sections and keys.
const (
	SectionGUI   = "GUI"
	KeyTheme     = "Theme"
	SectionFiles = "Files"
	KeyLastDir   = "LastDirectory"
)

// ConfigPath returns the path to the preference file,
// ~/.config/AudioNyq/EZImage.conf.
// Returns an empty string if the home directory cannot be determined.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", VendorDir, FileName)
}
