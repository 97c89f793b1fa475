package tui

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// DefaultPalette is the palette active before any theme is applied.
const DefaultPalette = "default"

// Palette is a named set of colors.
type Palette struct {
	Name       string
	Label      string // Shown in the theme menu
	Foreground lipgloss.TerminalColor
	Background lipgloss.TerminalColor
	Accent     lipgloss.TerminalColor
	Muted      lipgloss.TerminalColor
	Error      lipgloss.TerminalColor
	Link       lipgloss.TerminalColor
	LinkHover  lipgloss.TerminalColor
}

// palettes are listed in menu order.
var palettes = []Palette{
	{
		Name:       DefaultPalette,
		Label:      "toolkit default",
		Foreground: lipgloss.NoColor{},
		Background: lipgloss.NoColor{},
		Accent:     lipgloss.Color("12"),
		Muted:      lipgloss.Color("8"),
		Error:      lipgloss.Color("9"),
		Link:       lipgloss.Color("12"),
		LinkHover:  lipgloss.Color("9"),
	},
	{
		Name:       "clam",
		Label:      "clam",
		Foreground: lipgloss.Color("#000000"),
		Background: lipgloss.Color("#dcdad5"),
		Accent:     lipgloss.Color("#4a6984"),
		Muted:      lipgloss.Color("#7a7a7a"),
		Error:      lipgloss.Color("#b22222"),
		Link:       lipgloss.Color("#0000ff"),
		LinkHover:  lipgloss.Color("#ee0000"),
	},
	{
		Name:       "alt",
		Label:      "alt",
		Foreground: lipgloss.Color("#000000"),
		Background: lipgloss.Color("#d9d9d9"),
		Accent:     lipgloss.Color("#4a6984"),
		Muted:      lipgloss.Color("#a3a3a3"),
		Error:      lipgloss.Color("#c00000"),
		Link:       lipgloss.Color("#0000ff"),
		LinkHover:  lipgloss.Color("#ee0000"),
	},
	{
		Name:       "classic",
		Label:      "classic",
		Foreground: lipgloss.Color("#000000"),
		Background: lipgloss.Color("#d9d9d9"),
		Accent:     lipgloss.Color("#00008b"),
		Muted:      lipgloss.Color("#828282"),
		Error:      lipgloss.Color("#8b0000"),
		Link:       lipgloss.Color("#00008b"),
		LinkHover:  lipgloss.Color("#ee0000"),
	},
	{
		Name:       "dark",
		Label:      "dark",
		Foreground: lipgloss.Color("#cdd6f4"),
		Background: lipgloss.Color("#1e1e2e"),
		Accent:     lipgloss.Color("#89b4fa"),
		Muted:      lipgloss.Color("#6c7086"),
		Error:      lipgloss.Color("#f38ba8"),
		Link:       lipgloss.Color("#89dceb"),
		LinkHover:  lipgloss.Color("#f38ba8"),
	},
}

// Skin is the terminal presenter: it owns the palettes and paints the
// active one. It implements theme.Presenter.
type Skin struct {
	mu      sync.RWMutex
	current Palette
}

// NewSkin returns a skin with the default palette active.
func NewSkin() *Skin {
	return &Skin{current: palettes[0]}
}

// AvailableThemes returns the palette names in menu order.
func (s *Skin) AvailableThemes() []string {
	names := make([]string, len(palettes))
	for i, p := range palettes {
		names[i] = p.Name
	}
	return names
}

// ApplyTheme makes the named palette active.
func (s *Skin) ApplyTheme(name string) error {
	p, ok := paletteByName(name)
	if !ok {
		return fmt.Errorf("no palette named %q", name)
	}

	s.mu.Lock()
	s.current = p
	s.mu.Unlock()
	return nil
}

// Palette returns the active palette.
func (s *Skin) Palette() Palette {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// Styles returns styles built from the active palette.
func (s *Skin) Styles() Styles {
	return newStyles(s.Palette())
}

// Label returns the menu label for a theme name.
func Label(name string) string {
	if p, ok := paletteByName(name); ok {
		return p.Label
	}
	return name
}

func paletteByName(name string) (Palette, bool) {
	for _, p := range palettes {
		if p.Name == name {
			return p, true
		}
	}
	return Palette{}, false
}

// Styles are the lipgloss styles derived from a palette.
type Styles struct {
	App       lipgloss.Style
	Title     lipgloss.Style
	Text      lipgloss.Style
	Muted     lipgloss.Style
	Key       lipgloss.Style
	Status    lipgloss.Style
	StatusErr lipgloss.Style
	Link      lipgloss.Style
	LinkHover lipgloss.Style
}

func newStyles(p Palette) Styles {
	base := lipgloss.NewStyle().
		Foreground(p.Foreground).
		Background(p.Background)

	return Styles{
		App:       base.Padding(1, 2),
		Title:     base.Bold(true).Foreground(p.Accent).MarginBottom(1),
		Text:      base,
		Muted:     base.Foreground(p.Muted),
		Key:       base.Foreground(p.Accent),
		Status:    base.Foreground(p.Muted),
		StatusErr: base.Foreground(p.Error),
		Link:      base.Foreground(p.Link).Underline(true),
		LinkHover: base.Foreground(p.LinkHover).Bold(true),
	}
}

// link returns the style of a hyperlink label, resting or hovered.
func (s Styles) link(hover bool) lipgloss.Style {
	if hover {
		return s.LinkHover
	}
	return s.Link
}
