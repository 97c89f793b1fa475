// Package app ties the preference store and theme selector together and
// exposes the actions the presentation layer invokes.
package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/audionyq/ezimage/internal/config"
	"github.com/audionyq/ezimage/internal/theme"
)

// Version is the application version, set via ldflags.
var Version = "0.0.1"

// HomePage is the project home page shown in the About view.
const HomePage = "https://github.com/SteveDaulton/Tkinter-Test-Project"

// ImageExtensions are the file types offered by the file chooser's image filter.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".gif"}

// ErrNotAFile reports a chosen path that is not a regular file.
var ErrNotAFile = errors.New("not a regular file")

// Actions are the user actions the presentation layer reports to the core,
// one method per action.
type Actions interface {
	OnThemeSelected(name string) error
	OnFileChosen(path string) error
}

// App is the core of ezimage.
type App struct {
	mu       sync.RWMutex
	store    *config.Store
	selector *theme.Selector
	logger   *slog.Logger
	filename string
}

var _ Actions = (*App)(nil)

// New creates an App.
func New(store *config.Store, selector *theme.Selector, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		store:    store,
		selector: selector,
		logger:   logger,
	}
}

// Selector returns the theme selector.
func (a *App) Selector() *theme.Selector {
	return a.selector
}

// Theme returns the active theme, or "" for the toolkit default.
func (a *App) Theme() string {
	return a.selector.Current()
}

// Store returns the preference store.
func (a *App) Store() *config.Store {
	return a.store
}

// OnThemeSelected applies and saves the chosen theme.
// An error wrapping theme.ErrNotPersisted is a notice, not a failure:
// the theme is active for this session.
func (a *App) OnThemeSelected(name string) error {
	return a.selector.Select(name)
}

// OnFileChosen records path as the current file and remembers its
// directory for the next time the chooser opens.
func (a *App) OnFileChosen(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("choose file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("choose file %s: %w", path, ErrNotAFile)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	a.mu.Lock()
	a.filename = abs
	a.mu.Unlock()

	a.logger.Info("file chosen", "path", abs)

	if err := a.store.Write(config.SectionFiles, config.KeyLastDir, filepath.Dir(abs)); err != nil {
		a.logger.Warn("failed to remember directory", "error", err)
	}
	return nil
}

// Filename returns the current file, or "" if none has been chosen.
func (a *App) Filename() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.filename
}

// StartDirectory returns the directory the file chooser opens in:
// the last used directory if it still exists, else the home directory.
func (a *App) StartDirectory() string {
	if dir, ok := a.store.Lookup(config.SectionFiles, config.KeyLastDir); ok {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
		a.logger.Debug("remembered directory is gone", "dir", dir)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

// IsImage reports whether path has one of the ImageExtensions.
func IsImage(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// About returns the body text of the About view.
func About() string {
	return fmt.Sprintf("EZ-Image version: %s\n\nReleased under the terms of GPL v3.", Version)
}
