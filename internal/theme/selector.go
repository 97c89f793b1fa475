package theme

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/audionyq/ezimage/internal/config"
)

// PreferredTheme is applied when no theme has been saved yet,
// provided the presentation layer offers it.
const PreferredTheme = "clam"

var (
	// ErrUnknownTheme reports a theme the presentation layer does not offer.
	ErrUnknownTheme = errors.New("theme: not available")

	// ErrNotPersisted reports a theme that is active for this session
	// but could not be saved.
	ErrNotPersisted = errors.New("theme: applied but not saved")
)

// Storage persists the active theme.
// *config.Store satisfies it.
type Storage interface {
	Read(section, key string) (string, error)
	Write(section, key, value string) error
}

// Presenter is the presentation layer that owns the set of themes and
// paints them.
type Presenter interface {
	// AvailableThemes returns the names of the themes that can be applied.
	AvailableThemes() []string
	// ApplyTheme makes name the active theme of the live interface.
	ApplyTheme(name string) error
}

// Selector tracks the active theme.
type Selector struct {
	mu        sync.Mutex
	storage   Storage
	presenter Presenter
	logger    *slog.Logger
	preferred string
	current   string
}

// NewSelector creates a selector. Nothing is applied until Startup.
func NewSelector(storage Storage, presenter Presenter, logger *slog.Logger) *Selector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Selector{
		storage:   storage,
		presenter: presenter,
		logger:    logger,
		preferred: PreferredTheme,
	}
}

// SetPreferred sets the fallback theme used when none is saved.
// An empty name disables the fallback.
func (s *Selector) SetPreferred(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.preferred = name
}

// Current returns the active theme, or "" while the toolkit default is in use.
func (s *Selector) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// ReadTheme returns the saved theme, if any.
func (s *Selector) ReadTheme() (string, bool) {
	value, err := s.storage.Read(config.SectionGUI, config.KeyTheme)
	if err != nil {
		if !errors.Is(err, config.ErrNotFound) {
			s.logger.Warn("failed to read saved theme", "error", err)
		}
		return "", false
	}
	return value, true
}

// SaveTheme persists name as the saved theme.
func (s *Selector) SaveTheme(name string) error {
	if err := s.storage.Write(config.SectionGUI, config.KeyTheme, name); err != nil {
		return fmt.Errorf("save theme %q: %w", name, err)
	}
	return nil
}

// Startup applies the saved theme. Without one it applies the preferred
// theme if available, and otherwise leaves the toolkit default active.
// Returns the applied theme name, or "" for the toolkit default.
func (s *Selector) Startup() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if name, ok := s.ReadTheme(); ok {
		err := s.presenter.ApplyTheme(name)
		if err == nil {
			s.current = name
			s.logger.Info("applied saved theme", "theme", name)
			return name
		}
		s.logger.Warn("saved theme could not be applied", "theme", name, "error", err)
	}

	if s.preferred != "" && slices.Contains(s.presenter.AvailableThemes(), s.preferred) {
		err := s.presenter.ApplyTheme(s.preferred)
		if err == nil {
			s.current = s.preferred
			s.logger.Info("applied preferred theme", "theme", s.preferred)
			return s.preferred
		}
		s.logger.Warn("preferred theme could not be applied", "theme", s.preferred, "error", err)
	}

	s.current = ""
	s.logger.Debug("using toolkit default theme")
	return ""
}

// Select applies name to the live interface and then saves it.
// If saving fails the theme stays active for this session and the
// returned error wraps ErrNotPersisted.
func (s *Selector) Select(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !slices.Contains(s.presenter.AvailableThemes(), name) {
		return fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}

	if err := s.presenter.ApplyTheme(name); err != nil {
		return fmt.Errorf("apply theme %q: %w", name, err)
	}
	s.current = name
	s.logger.Info("theme selected", "theme", name)

	if err := s.SaveTheme(name); err != nil {
		s.logger.Warn("theme not saved", "theme", name, "error", err)
		return fmt.Errorf("%w: %w", ErrNotPersisted, err)
	}
	return nil
}

// Reload re-reads the saved theme and applies it if it differs from the
// active one. Returns true if the active theme changed.
func (s *Selector) Reload() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name, ok := s.ReadTheme()
	if !ok || name == s.current {
		return false, nil
	}

	if !slices.Contains(s.presenter.AvailableThemes(), name) {
		return false, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	if err := s.presenter.ApplyTheme(name); err != nil {
		return false, fmt.Errorf("apply theme %q: %w", name, err)
	}

	s.logger.Info("reloaded theme", "theme", name, "previous", s.current)
	s.current = name
	return true, nil
}
