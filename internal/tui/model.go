// Package tui provides the BubbleTea-based terminal front end: the theme
// menu, the image file chooser and the About view.
package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/audionyq/ezimage/internal/app"
	"github.com/audionyq/ezimage/internal/config"
	"github.com/audionyq/ezimage/internal/theme"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeHome Mode = iota
	ModeThemes
	ModeFiles
	ModeAbout
	ModeHelp
)

// Core is what the TUI needs from the application.
type Core interface {
	app.Actions
	Filename() string
	StartDirectory() string
	Theme() string
}

// Model is the main TUI model.
type Model struct {
	core Core
	skin *Skin

	mode Mode

	// Components
	themes list.Model
	picker filepicker.Model
	help   help.Model

	// State
	imagesOnly  bool
	linkFocused bool
	width       int
	height      int
	ready       bool

	keys KeyMap

	// Status message
	statusMsg string
	statusErr bool

	openURL func(string) error
}

// themeItem wraps a theme name for the list component.
type themeItem struct {
	name   string
	active bool
}

func (i themeItem) Title() string {
	if i.active {
		return "(•) " + Label(i.name)
	}
	return "( ) " + Label(i.name)
}

func (i themeItem) Description() string { return "" }

func (i themeItem) FilterValue() string { return i.name }

// New creates a new TUI model.
func New(core Core, skin *Skin) Model {
	l := list.New(nil, newThemeDelegate(skin.Palette()), 0, 0)
	l.Title = "Style Selection"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	fp := filepicker.New()
	fp.AllowedTypes = app.ImageExtensions
	// esc leaves the chooser, so the parent directory is on h/left/backspace only
	fp.KeyMap.Back = key.NewBinding(
		key.WithKeys("h", "backspace", "left"),
		key.WithHelp("h", "back"),
	)

	m := Model{
		core:       core,
		skin:       skin,
		mode:       ModeHome,
		themes:     l,
		picker:     fp,
		help:       help.New(),
		imagesOnly: true,
		keys:       DefaultKeyMap(),
		openURL:    openURL,
	}
	m.applyPalette()
	return m
}

// newThemeDelegate creates a compact list delegate colored by p.
func newThemeDelegate(p Palette) list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	d.SetSpacing(0)
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.
		Foreground(p.Accent).
		BorderLeftForeground(p.Accent)
	return d
}

// applyPalette restyles the child components after a theme change.
func (m *Model) applyPalette() {
	p := m.skin.Palette()
	styles := m.skin.Styles()

	m.themes.SetDelegate(newThemeDelegate(p))
	m.themes.Styles.Title = m.themes.Styles.Title.Background(p.Accent)
	m.themes.SetItems(m.themeItems())

	m.picker.Styles.Selected = m.picker.Styles.Selected.Foreground(p.Accent)
	m.picker.Styles.Cursor = m.picker.Styles.Cursor.Foreground(p.Accent)
	m.help.Styles.ShortKey = styles.Key
	m.help.Styles.FullKey = styles.Key
}

func (m Model) themeItems() []list.Item {
	current := m.core.Theme()
	if current == "" {
		current = DefaultPalette
	}

	names := m.skin.AvailableThemes()
	items := make([]list.Item, len(names))
	for i, name := range names {
		items[i] = themeItem{name: name, active: name == current}
	}
	return items
}

// Init initializes the TUI.
func (m Model) Init() tea.Cmd {
	return nil
}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type openResultMsg struct {
	err error
}

// themeReloadedMsg is sent when the preference file changed the theme.
type themeReloadedMsg struct{}

func status(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.themes.SetSize(msg.Width, msg.Height-2)

		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(t time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case themeReloadedMsg:
		m.applyPalette()
		return m, status("Style changed to "+Label(m.core.Theme()), false)

	case openResultMsg:
		if msg.err != nil {
			return m, status("Could not open home page: "+msg.err.Error(), true)
		}
		return m, nil
	}

	if m.mode == ModeFiles {
		return m.updatePicker(msg)
	}
	return m, nil
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global keys
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModeHome
		} else {
			m.mode = ModeHelp
		}
		return m, nil
	}

	switch m.mode {
	case ModeHome:
		return m.handleHomeKey(msg)
	case ModeThemes:
		return m.handleThemesKey(msg)
	case ModeFiles:
		return m.handleFilesKey(msg)
	case ModeAbout:
		return m.handleAboutKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeHome
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Themes):
		m.mode = ModeThemes
		m.themes.SetItems(m.themeItems())
		for i, item := range m.themes.Items() {
			if ti, ok := item.(themeItem); ok && ti.active {
				m.themes.Select(i)
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		m.mode = ModeFiles
		m.picker.CurrentDirectory = m.core.StartDirectory()
		return m, m.picker.Init()

	case key.Matches(msg, m.keys.About):
		m.mode = ModeAbout
		m.linkFocused = false
		return m, nil
	}
	return m, nil
}

func (m Model) handleThemesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = ModeHome
		return m, nil

	case key.Matches(msg, m.keys.Enter):
		item, ok := m.themes.SelectedItem().(themeItem)
		if !ok {
			return m, nil
		}
		err := m.core.OnThemeSelected(item.name)
		m.applyPalette()
		switch {
		case err == nil:
			return m, status("Loaded '"+Label(item.name)+"' style", false)
		case errors.Is(err, theme.ErrNotPersisted):
			return m, status("Style applied for this session only: preferences could not be saved", true)
		default:
			return m, status("Could not apply style: "+err.Error(), true)
		}
	}

	var cmd tea.Cmd
	m.themes, cmd = m.themes.Update(msg)
	return m, cmd
}

func (m Model) handleFilesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = ModeHome
		return m, nil

	case key.Matches(msg, m.keys.ToggleHidden):
		m.picker.ShowHidden = !m.picker.ShowHidden
		return m, m.picker.Init()

	case key.Matches(msg, m.keys.ToggleFilter):
		m.imagesOnly = !m.imagesOnly
		if m.imagesOnly {
			m.picker.AllowedTypes = app.ImageExtensions
		} else {
			m.picker.AllowedTypes = nil
		}
		return m, m.picker.Init()
	}

	return m.updatePicker(msg)
}

// updatePicker forwards msg to the file picker and reports a chosen file.
func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	if ok, path := m.picker.DidSelectFile(msg); ok {
		return m.fileChosen(path)
	}

	if ok, path := m.picker.DidSelectDisabledFile(msg); ok {
		return m, tea.Batch(cmd, status(filepath.Base(path)+" is not an image file", true))
	}

	return m, cmd
}

// fileChosen hands path to the core and reports the outcome.
// With the "all files" filter a non-image can be chosen; it is kept but flagged.
func (m Model) fileChosen(path string) (tea.Model, tea.Cmd) {
	m.mode = ModeHome
	if err := m.core.OnFileChosen(path); err != nil {
		return m, status(err.Error(), true)
	}
	if !app.IsImage(path) {
		return m, status("Selected "+filepath.Base(path)+" (not an image type)", false)
	}
	return m, status("Selected "+filepath.Base(path), false)
}

func (m Model) handleAboutKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = ModeHome
		return m, nil

	case key.Matches(msg, m.keys.Focus):
		m.linkFocused = !m.linkFocused
		return m, nil

	case key.Matches(msg, m.keys.Open), m.linkFocused && key.Matches(msg, m.keys.Enter):
		open := m.openURL
		return m, func() tea.Msg {
			return openResultMsg{err: open(app.HomePage)}
		}
	}
	return m, nil
}

// View renders the TUI.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	styles := m.skin.Styles()

	var body string
	switch m.mode {
	case ModeHome:
		body = m.viewHome(styles)
	case ModeThemes:
		body = m.themes.View()
	case ModeFiles:
		body = m.viewFiles(styles)
	case ModeAbout:
		body = m.viewAbout(styles)
	case ModeHelp:
		body = m.viewHelp(styles)
	}

	var footer string
	if m.statusMsg != "" {
		if m.statusErr {
			footer = styles.StatusErr.Render(m.statusMsg)
		} else {
			footer = styles.Status.Render(m.statusMsg)
		}
	} else {
		footer = m.buildKeybindBar(styles)
	}

	page := lipgloss.JoinVertical(lipgloss.Left, body, "", footer)
	return styles.App.
		Width(m.width).
		Height(m.height).
		Render(page)
}

func (m Model) viewHome(styles Styles) string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("EZ-Image"))
	b.WriteString("\n")
	b.WriteString(styles.Text.Render("A very simple GUI!"))
	b.WriteString("\n\n")

	file := m.core.Filename()
	if file == "" {
		file = "(none)"
	}
	b.WriteString(styles.Muted.Render("Image: ") + styles.Text.Render(file) + "\n")

	current := m.core.Theme()
	if current == "" {
		current = DefaultPalette
	}
	b.WriteString(styles.Muted.Render("Style: ") + styles.Text.Render(Label(current)))

	return b.String()
}

func (m Model) viewFiles(styles Styles) string {
	filter := "image files (" + strings.Join(app.ImageExtensions, " ") + ")"
	if !m.imagesOnly {
		filter = "all files"
	}
	hidden := "hidden"
	if m.picker.ShowHidden {
		hidden = "shown"
	}

	header := styles.Title.Render("Select image file") + "\n" +
		styles.Muted.Render(fmt.Sprintf("%s  |  showing %s  |  dotfiles %s",
			m.picker.CurrentDirectory, filter, hidden))

	return header + "\n" + m.picker.View()
}

func (m Model) viewAbout(styles Styles) string {
	return styles.Title.Render("About EZ-Image") + "\n" +
		styles.Text.Render(app.About()) + "\n\n" +
		styles.link(m.linkFocused).Render("Home page") + "\n" +
		styles.Muted.Render(app.HomePage)
}

func (m Model) viewHelp(styles Styles) string {
	m.help.ShowAll = true
	return styles.Title.Render("Keyboard Shortcuts") + "\n" +
		m.help.View(m.keys) + "\n\n" +
		styles.Muted.Render("Press ? or esc to return")
}

// keybind represents a single keybind for the status bar.
type keybind struct {
	key  string
	desc string
}

// buildKeybindBar builds a keybind bar that fits within the model's width.
func (m Model) buildKeybindBar(styles Styles) string {
	var binds []keybind

	switch m.mode {
	case ModeHome:
		binds = []keybind{{"q", "quit"}, {"o", "open"}, {"t", "style"}, {"a", "about"}, {"?", "help"}}
	case ModeThemes:
		binds = []keybind{{"enter", "apply"}, {"esc", "back"}, {"↑/↓", "navigate"}, {"q", "quit"}}
	case ModeFiles:
		binds = []keybind{{"enter", "select"}, {"esc", "close"}, {"h/l", "up/into"}, {".", "dotfiles"}, {"f", "filter"}}
	case ModeAbout:
		binds = []keybind{{"tab", "focus link"}, {"enter", "open link"}, {"esc", "close"}}
	case ModeHelp:
		binds = []keybind{{"esc", "back"}, {"q", "quit"}}
	}

	const separator = "  "
	result := ""
	for _, b := range binds {
		item := styles.Key.Render(b.key) + styles.Muted.Render(" "+b.desc)
		width := lipgloss.Width(result) + len(separator) + lipgloss.Width(b.key+" "+b.desc)
		if m.width > 0 && width > m.width-4 {
			break
		}
		if result != "" {
			result += styles.Muted.Render(separator)
		}
		result += item
	}
	return result
}

// RunOptions configures the TUI.
type RunOptions struct {
	Store  *config.Store
	Logger *slog.Logger
	Watch  bool // Re-apply the theme when the preference file changes
}

// Run starts the TUI with the given options.
func Run(opts RunOptions) error {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	skin := NewSkin()
	selector := theme.NewSelector(opts.Store, skin, logger)
	selector.Startup()

	core := app.New(opts.Store, selector, logger)
	p := tea.NewProgram(New(core, skin), tea.WithAltScreen())

	if opts.Watch {
		if err := opts.Store.EnsureDir(); err != nil {
			logger.Warn("failed to create config directory", "error", err)
		}

		watcher, err := config.NewWatcher(opts.Store.Path(), func() {
			changed, err := selector.Reload()
			if err != nil {
				logger.Warn("failed to reload theme", "error", err)
				return
			}
			if changed {
				p.Send(themeReloadedMsg{})
			}
		}, logger)
		if err != nil {
			logger.Warn("failed to create config watcher", "error", err)
		} else if err := watcher.Start(); err != nil {
			logger.Warn("failed to start config watcher", "error", err)
		} else {
			defer watcher.Stop()
		}
	}

	_, err := p.Run()
	return err
}
