package theme

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audionyq/ezimage/internal/config"
)

// fakePresenter records applied themes.
type fakePresenter struct {
	themes  []string
	applied []string
	broken  map[string]bool
}

func (p *fakePresenter) AvailableThemes() []string {
	return p.themes
}

func (p *fakePresenter) ApplyTheme(name string) error {
	if p.broken[name] {
		return fmt.Errorf("cannot paint %s", name)
	}
	p.applied = append(p.applied, name)
	return nil
}

func (p *fakePresenter) active() string {
	if len(p.applied) == 0 {
		return ""
	}
	return p.applied[len(p.applied)-1]
}

// failingStorage reads nothing and never writes.
type failingStorage struct{}

func (failingStorage) Read(section, key string) (string, error) {
	return "", config.ErrNotFound
}

func (failingStorage) Write(section, key, value string) error {
	return &config.IOError{Op: "write", Path: "/read-only/EZImage.conf", Err: errors.New("read-only file system")}
}

func writeRaw(path, content string) error {
	return os.WriteFile(path, []byte(content), 0644)
}

func newTestStore(t *testing.T) *config.Store {
	t.Helper()
	return config.NewStore(filepath.Join(t.TempDir(), "EZImage.conf"), nil)
}

func TestSelector_StartupSavedTheme(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Write("GUI", "Theme", "alt"))

	p := &fakePresenter{themes: []string{"default", "clam", "alt"}}
	s := NewSelector(store, p, nil)

	assert.Equal(t, "alt", s.Startup())
	assert.Equal(t, "alt", s.Current())
	assert.Equal(t, []string{"alt"}, p.applied)
}

func TestSelector_StartupPreferredFallback(t *testing.T) {
	p := &fakePresenter{themes: []string{"default", "clam", "alt"}}
	s := NewSelector(newTestStore(t), p, nil)

	assert.Equal(t, PreferredTheme, s.Startup())
	assert.Equal(t, []string{"clam"}, p.applied)
}

func TestSelector_StartupToolkitDefault(t *testing.T) {
	p := &fakePresenter{themes: []string{"default", "alt"}}
	s := NewSelector(newTestStore(t), p, nil)

	assert.Equal(t, "", s.Startup())
	assert.Equal(t, "", s.Current())
	assert.Empty(t, p.applied, "the toolkit default must be left untouched")
}

func TestSelector_StartupSavedThemeUnusable(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.Write("GUI", "Theme", "vanished"))

	p := &fakePresenter{
		themes: []string{"default", "clam"},
		broken: map[string]bool{"vanished": true},
	}
	s := NewSelector(store, p, nil)

	assert.Equal(t, "clam", s.Startup())
	assert.Equal(t, []string{"clam"}, p.applied)
}

func TestSelector_StartupCustomPreferred(t *testing.T) {
	p := &fakePresenter{themes: []string{"default", "clam", "classic"}}
	s := NewSelector(newTestStore(t), p, nil)
	s.SetPreferred("classic")

	assert.Equal(t, "classic", s.Startup())

	s2 := NewSelector(newTestStore(t), &fakePresenter{themes: []string{"clam"}}, nil)
	s2.SetPreferred("")
	assert.Equal(t, "", s2.Startup())
}

func TestSelector_StartupCorruptConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "EZImage.conf")
	require.NoError(t, writeRaw(path, "[GUI\nTheme = alt\n"))

	p := &fakePresenter{themes: []string{"clam", "alt"}}
	s := NewSelector(config.NewStore(path, nil), p, nil)

	assert.Equal(t, "clam", s.Startup())
}

func TestSelector_Select(t *testing.T) {
	store := newTestStore(t)
	p := &fakePresenter{themes: []string{"default", "clam", "alt"}}
	s := NewSelector(store, p, nil)
	s.Startup()

	require.NoError(t, s.Select("alt"))
	assert.Equal(t, "alt", s.Current())
	assert.Equal(t, "alt", p.active())

	saved, ok := s.ReadTheme()
	require.True(t, ok)
	assert.Equal(t, "alt", saved)

	// A fresh session restores it
	p2 := &fakePresenter{themes: []string{"default", "clam", "alt"}}
	assert.Equal(t, "alt", NewSelector(store, p2, nil).Startup())
}

func TestSelector_SelectUnknown(t *testing.T) {
	store := newTestStore(t)
	p := &fakePresenter{themes: []string{"default", "clam"}}
	s := NewSelector(store, p, nil)
	s.Startup()

	err := s.Select("nope")
	assert.ErrorIs(t, err, ErrUnknownTheme)
	assert.Equal(t, "clam", s.Current())

	_, ok := s.ReadTheme()
	assert.False(t, ok)
}

func TestSelector_SelectApplyFailure(t *testing.T) {
	store := newTestStore(t)
	p := &fakePresenter{
		themes: []string{"clam", "alt"},
		broken: map[string]bool{"alt": true},
	}
	s := NewSelector(store, p, nil)
	s.Startup()

	err := s.Select("alt")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotPersisted)
	assert.Equal(t, "clam", s.Current())

	_, ok := s.ReadTheme()
	assert.False(t, ok, "a theme that failed to apply must not be saved")
}

func TestSelector_SelectNotPersisted(t *testing.T) {
	p := &fakePresenter{themes: []string{"default", "clam", "alt"}}
	s := NewSelector(failingStorage{}, p, nil)
	s.Startup()

	err := s.Select("alt")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotPersisted)

	var ioErr *config.IOError
	assert.ErrorAs(t, err, &ioErr)

	// The session keeps the new theme
	assert.Equal(t, "alt", s.Current())
	assert.Equal(t, "alt", p.active())
}

func TestSelector_Reload(t *testing.T) {
	store := newTestStore(t)
	p := &fakePresenter{themes: []string{"default", "clam", "alt", "classic"}}
	s := NewSelector(store, p, nil)
	require.NoError(t, s.Select("alt"))

	// Our own write: nothing to do
	changed, err := s.Reload()
	require.NoError(t, err)
	assert.False(t, changed)

	// External edit
	require.NoError(t, store.Write("GUI", "Theme", "classic"))
	changed, err = s.Reload()
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "classic", s.Current())
	assert.Equal(t, "classic", p.active())

	// Unknown theme written externally
	require.NoError(t, store.Write("GUI", "Theme", "bogus"))
	changed, err = s.Reload()
	assert.ErrorIs(t, err, ErrUnknownTheme)
	assert.False(t, changed)
	assert.Equal(t, "classic", s.Current())

	// Key removed: keep the active theme
	require.NoError(t, store.Delete("GUI", "Theme"))
	changed, err = s.Reload()
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, "classic", s.Current())
}

func TestSelector_SaveTheme(t *testing.T) {
	s := NewSelector(failingStorage{}, &fakePresenter{}, nil)

	err := s.SaveTheme("clam")
	var ioErr *config.IOError
	assert.ErrorAs(t, err, &ioErr)
}
