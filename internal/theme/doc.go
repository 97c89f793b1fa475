// Package theme chooses the visual theme at startup and mirrors the user's
// choice into the preference file. The set of themes belongs to the
// presentation layer; this package only decides which one is active.
package theme
