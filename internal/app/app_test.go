package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/audionyq/ezimage/internal/config"
	"github.com/audionyq/ezimage/internal/theme"
)

type stubPresenter struct {
	active string
}

func (p *stubPresenter) AvailableThemes() []string {
	return []string{"default", "clam", "alt"}
}

func (p *stubPresenter) ApplyTheme(name string) error {
	p.active = name
	return nil
}

func newTestApp(t *testing.T) (*App, *stubPresenter) {
	t.Helper()
	store := config.NewStore(filepath.Join(t.TempDir(), "EZImage.conf"), nil)
	p := &stubPresenter{}
	sel := theme.NewSelector(store, p, nil)
	sel.Startup()
	return New(store, sel, nil), p
}

func TestApp_OnThemeSelected(t *testing.T) {
	a, p := newTestApp(t)
	assert.Equal(t, "clam", p.active)

	require.NoError(t, a.OnThemeSelected("alt"))
	assert.Equal(t, "alt", p.active)
	assert.Equal(t, "alt", a.Selector().Current())

	saved, ok := a.Store().Lookup("GUI", "Theme")
	require.True(t, ok)
	assert.Equal(t, "alt", saved)

	assert.ErrorIs(t, a.OnThemeSelected("missing"), theme.ErrUnknownTheme)
}

func TestApp_OnFileChosen(t *testing.T) {
	a, _ := newTestApp(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	require.NoError(t, os.WriteFile(path, []byte("png"), 0644))

	require.NoError(t, a.OnFileChosen(path))
	assert.Equal(t, path, a.Filename())

	last, ok := a.Store().Lookup("Files", "LastDirectory")
	require.True(t, ok)
	assert.Equal(t, dir, last)
	assert.Equal(t, dir, a.StartDirectory())
}

func TestApp_OnFileChosenRejects(t *testing.T) {
	a, _ := newTestApp(t)
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
	}{
		{"directory", dir},
		{"missing", filepath.Join(dir, "missing.png")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, a.OnFileChosen(tt.path))
			assert.Empty(t, a.Filename())
		})
	}

	assert.ErrorIs(t, a.OnFileChosen(dir), ErrNotAFile)
}

func TestApp_StartDirectoryDefaultsToHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	a, _ := newTestApp(t)
	assert.Equal(t, home, a.StartDirectory())

	// A remembered directory that no longer exists is ignored
	require.NoError(t, a.Store().Write("Files", "LastDirectory", filepath.Join(home, "gone")))
	assert.Equal(t, home, a.StartDirectory())
}

func TestIsImage(t *testing.T) {
	tests := []struct {
		path     string
		expected bool
	}{
		{"a.png", true},
		{"a.PNG", true},
		{"b.jpg", true},
		{"b.jpeg", true},
		{"c.gif", true},
		{"d.bmp", false},
		{"noext", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsImage(tt.path))
		})
	}
}

func TestAbout(t *testing.T) {
	text := About()
	assert.Contains(t, text, Version)
	assert.Contains(t, text, "GPL v3")
}
