package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"gopkg.in/ini.v1"
)

// loadOptions keeps values verbatim: "#" and ";" inside a value are data,
// a trailing backslash does not continue the line and surrounding quotes
// are part of the value.
var loadOptions = ini.LoadOptions{
	IgnoreInlineComment:     true,
	IgnoreContinuation:      true,
	PreserveSurroundedQuote: true,
}

// Store reads and writes the preference file.
// It is the only component that touches the file path.
//
// Files are parsed with ini.v1 but written by editing the raw text, so
// sections a write does not touch keep their exact bytes, and no ini.v1
// package-level formatting settings are changed.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

// NewStore creates a store for the file at path.
// If path is empty, uses the default config path.
func NewStore(path string, logger *slog.Logger) *Store {
	if path == "" {
		path = ConfigPath()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		path:   path,
		logger: logger,
	}
}

// Path returns the path of the preference file.
func (s *Store) Path() string {
	return s.path
}

// Read returns the value of key in section.
// A missing, unreadable or malformed file, a missing section and a missing
// key all return ErrNotFound; the underlying cause is logged.
func (s *Store) Read(section, key string) (string, error) {
	if err := validateNames(section, key); err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotFound, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, f, err := s.load()
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("config unreadable, using defaults", "path", s.path, "error", err)
		}
		return "", fmt.Errorf("%w: [%s] %s", ErrNotFound, section, key)
	}

	sec, err := f.GetSection(section)
	if err != nil {
		s.logger.Debug("config section missing, using defaults", "section", section)
		return "", fmt.Errorf("%w: [%s]", ErrNotFound, section)
	}
	if !hasKey(sec, key) {
		s.logger.Debug("config key missing, using default", "section", section, "key", key)
		return "", fmt.Errorf("%w: [%s] %s", ErrNotFound, section, key)
	}

	return sec.Key(key).String(), nil
}

// Lookup is Read with a boolean result.
func (s *Store) Lookup(section, key string) (string, bool) {
	value, err := s.Read(section, key)
	if err != nil {
		return "", false
	}
	return value, true
}

// Write stores value under section/key and rewrites the file.
// Other sections and keys are preserved. A malformed file is replaced
// with a well-formed one. Parent directories are created as needed.
func (s *Store) Write(section, key, value string) error {
	if err := validateNames(section, key); err != nil {
		return err
	}
	if strings.ContainsAny(value, "\r\n") {
		return fmt.Errorf("%w: value for [%s] %s spans lines", ErrInvalidValue, section, key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, f, err := s.loadForUpdate()
	if err != nil {
		return err
	}

	want := snapshot(f)
	if want[section] == nil {
		want[section] = make(map[string]string)
	}
	want[section][key] = value

	doc := parseDocument(raw)
	doc.set(section, key, value)
	// NewKey, not Key: Key would resolve a dotted section's parent key
	_, _ = f.Section(section).NewKey(key, value)

	if err := s.commit(doc.String(), f, want); err != nil {
		return err
	}

	s.logger.Debug("config value written", "section", section, "key", key, "path", s.path)
	return nil
}

// Delete removes key from section. The section itself is removed once it
// has no keys left. Returns ErrNotFound if the key does not exist.
func (s *Store) Delete(section, key string) error {
	if err := validateNames(section, key); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	raw, f, err := s.load()
	if err != nil {
		var perr *ParseError
		if errors.As(err, &perr) {
			s.logger.Warn("config malformed, nothing to delete", "path", s.path, "error", perr.Err)
			return fmt.Errorf("%w: [%s] %s", ErrNotFound, section, key)
		}
		return err
	}

	sec, err := f.GetSection(section)
	if err != nil || !hasKey(sec, key) {
		return fmt.Errorf("%w: [%s] %s", ErrNotFound, section, key)
	}

	want := snapshot(f)
	delete(want[section], key)
	drop := false
	if len(want[section]) == 0 {
		delete(want, section)
		drop = section != ini.DefaultSection
	}

	doc := parseDocument(raw)
	doc.remove(section, key, drop)
	sec.DeleteKey(key)
	if drop {
		f.DeleteSection(section)
	}

	return s.commit(doc.String(), f, want)
}

// Data returns a snapshot of every section and key in the file.
// A missing file yields an empty map; a malformed one a *ParseError.
func (s *Store) Data() (map[string]map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, f, err := s.load()
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return map[string]map[string]string{}, nil
		}
		return nil, err
	}
	return snapshot(f), nil
}

// EnsureDir creates the directory that holds the preference file.
func (s *Store) EnsureDir() error {
	if s.path == "" {
		return &IOError{Op: "mkdir", Path: s.path, Err: errors.New("unable to determine config path")}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return &IOError{Op: "mkdir", Path: s.path, Err: err}
	}
	return nil
}

// load reads and parses the file. Returns ErrNotFound if it does not exist,
// *IOError if it cannot be read and *ParseError if it is not valid INI.
func (s *Store) load() ([]byte, *ini.File, error) {
	if s.path == "" {
		return nil, nil, &IOError{Op: "read", Path: s.path, Err: errors.New("unable to determine config path")}
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		// ENOTDIR: a parent of the path is a regular file
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, &IOError{Op: "read", Path: s.path, Err: err}
	}

	f, err := ini.LoadSources(loadOptions, data)
	if err != nil {
		return nil, nil, &ParseError{Path: s.path, Err: err}
	}
	return data, f, nil
}

// loadForUpdate returns the current contents to merge a change into.
// Missing and malformed files both start from an empty document; an
// unreadable file is an error so its contents are never clobbered.
func (s *Store) loadForUpdate() ([]byte, *ini.File, error) {
	raw, f, err := s.load()
	if err == nil {
		return raw, f, nil
	}

	var perr *ParseError
	switch {
	case errors.Is(err, ErrNotFound):
		return nil, ini.Empty(loadOptions), nil
	case errors.As(err, &perr):
		s.logger.Warn("replacing malformed config file", "path", s.path, "error", perr.Err)
		return nil, ini.Empty(loadOptions), nil
	default:
		return nil, nil, err
	}
}

// commit replaces the file with text once it is known to read back as want.
// If the in-place edit does not, the file is laid out again from f, which
// drops comments but keeps every value.
func (s *Store) commit(text string, f *ini.File, want map[string]map[string]string) error {
	if !parsesTo(text, want) {
		s.logger.Warn("config file cannot be edited in place, rewriting it", "path", s.path)
		text = renderFile(f)
		if !parsesTo(text, want) {
			return fmt.Errorf("%w: not representable in the config file", ErrInvalidValue)
		}
	}
	return writeFileAtomic(s.path, []byte(text))
}

func writeFileAtomic(path string, data []byte) error {
	if path == "" {
		return &IOError{Op: "write", Path: path, Err: errors.New("unable to determine config path")}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

func validateNames(section, key string) error {
	if !validName(section) || strings.ContainsAny(section, "[]") {
		return fmt.Errorf("%w: section %q", ErrInvalidName, section)
	}
	// A leading "#" or ";" makes a comment, "[" a header and a quote a
	// quoted name; "=" and ":" end the key and "-" is an auto-numbered key.
	if !validName(key) || key == "-" ||
		strings.ContainsAny(key, "=:") ||
		strings.ContainsAny(key[:1], "#;[\"`") {
		return fmt.Errorf("%w: key %q", ErrInvalidName, key)
	}
	return nil
}

// validName rejects names the INI parser would not give back unchanged.
func validName(name string) bool {
	return name != "" &&
		strings.TrimSpace(name) == name &&
		!strings.ContainsAny(name, "\r\n")
}
