package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/sahilm/fuzzy"

	"github.com/matzehuels/magdock/pkg/apps"
	"github.com/matzehuels/magdock/pkg/dock"
	"github.com/matzehuels/magdock/pkg/dock/sink"
)

// =============================================================================
// Key Bindings
// =============================================================================

type keyMap struct {
	Left     key.Binding
	Right    key.Binding
	Activate key.Binding
	Search   key.Binding
	Clear    key.Binding
	Copy     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next")),
		Activate: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("⏎", "open/close")),
		Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Clear:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy svg")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Activate, k.Search, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Left, k.Right, k.Activate},
		{k.Search, k.Clear, k.Copy},
		{k.Help, k.Quit},
	}
}

// =============================================================================
// Messages
// =============================================================================

// manifestMsg carries a reloaded manifest from the file watcher.
type manifestMsg struct {
	manifest *apps.Manifest
	err      error
}

// copiedMsg reports the outcome of copying a snapshot to the clipboard.
type copiedMsg struct {
	bytes int
	err   error
}

// =============================================================================
// Styles
// =============================================================================

var (
	styleWindow      = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(colorGray).Padding(0, 1)
	styleWindowTitle = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	styleStatus      = lipgloss.NewStyle().Foreground(colorGray)
	styleLabel       = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
)

// =============================================================================
// dockModel - Interactive terminal dock
// =============================================================================

// dockModel hosts a dock controller inside bubbletea. Terminal cells map to
// cellSize pixels; mouse motion over the dock drives the pointer.
type dockModel struct {
	manifest *apps.Manifest
	ctrl     *dock.Controller
	sched    *teaScheduler
	size     cellSize
	logger   *log.Logger

	width, height int // terminal size in cells
	hovering      bool
	focus         int // keyboard-selected slot, -1 for none
	open          string // id of the open app, "" for none

	keys      keyMap
	help      help.Model
	search    textinput.Model
	searching bool
	status    string

	writeClipboard func(string) error
}

func newDockModel(m *apps.Manifest, bounce dock.BounceEffect, size cellSize, logger *log.Logger) *dockModel {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	ti := textinput.New()
	ti.Placeholder = "app name"
	ti.Prompt = "/ "
	ti.CharLimit = 32

	dm := &dockModel{
		manifest: m,
		sched:    &teaScheduler{},
		size:     size,
		logger:   logger,
		focus:    -1,
		keys:     defaultKeyMap(),
		help:     help.New(),
		search:   ti,

		writeClipboard: clipboard.WriteAll,
	}
	dm.ctrl = dock.NewController(apps.Slots(m.Apps), dock.DefaultConfig,
		dock.WithScheduler(dm.sched),
		dock.WithBounce(bounce),
		dock.WithOverrides(m.Dock),
		dock.WithLogger(logger),
		dock.WithActivator(dock.ActivatorFunc(dm.toggle)),
	)
	return dm
}

func (m *dockModel) Init() tea.Cmd { return textinput.Blink }

func (m *dockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.ctrl.Resize(float64(msg.Width)*m.size.w, float64(msg.Height)*m.size.h)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			cmds = append(cmds, cmd)
		}

	case frameMsg:
		m.sched.fire(msg)

	case manifestMsg:
		m.applyManifest(msg)

	case copiedMsg:
		if msg.err != nil {
			m.status = "copy failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("copied %d bytes of svg", msg.bytes)
		}

	default:
		if m.searching {
			var cmd tea.Cmd
			m.search, cmd = m.search.Update(msg)
			cmds = append(cmds, cmd)
		}
	}
	cmds = append(cmds, m.sched.cmd())
	return m, tea.Batch(cmds...)
}

// =============================================================================
// Input
// =============================================================================

// dockArea is where the dock canvas sits on screen.
type dockArea struct {
	left, top  int // first column and row of the canvas
	cols, rows int
	frame      dock.Frame
}

func (a dockArea) contains(col, row int) bool {
	return col >= a.left && col < a.left+a.cols && row >= a.top && row < a.top+a.rows
}

// footerRows is the status line plus the help line.
const footerRows = 2

func (m *dockModel) area() dockArea {
	f := m.ctrl.Frame()
	cv := dockCanvas(f, m.size)
	return dockArea{
		left:  max((m.width-cv.cols)/2, 0),
		top:   max(m.height-footerRows-cv.rows, 0),
		cols:  cv.cols,
		rows:  cv.rows,
		frame: f,
	}
}

func (m *dockModel) handleMouse(msg tea.MouseMsg) {
	a := m.area()
	if !a.contains(msg.X, msg.Y) {
		if m.hovering {
			m.hovering = false
			m.ctrl.PointerLeave()
		}
		return
	}

	clientX := (float64(msg.X) + 0.5) * m.size.w
	dockLeft := float64(a.left) * m.size.w
	switch {
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		if i := a.frame.SlotAt(clientX - dockLeft - a.frame.Padding); i >= 0 {
			m.activate(a.frame.Slots[i].ID)
		}
	case msg.Action == tea.MouseActionMotion:
		m.hovering = true
		m.focus = -1
		m.ctrl.PointerMove(clientX, dockLeft)
	}
}

func (m *dockModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.searching {
		return m.handleSearchKey(msg)
	}
	n := len(m.manifest.Apps)
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.ctrl.Close()
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Left) && n > 0:
		m.setFocus((max(m.focus, 0) + n - 1) % n)
	case key.Matches(msg, m.keys.Right) && n > 0:
		m.setFocus((m.focus + 1) % n)
	case key.Matches(msg, m.keys.Activate):
		if m.focus >= 0 && m.focus < n {
			m.activate(m.manifest.Apps[m.focus].ID)
		}
	case key.Matches(msg, m.keys.Search):
		m.searching = true
		m.search.SetValue("")
		return m.search.Focus()
	case key.Matches(msg, m.keys.Clear):
		m.focus = -1
		m.ctrl.PointerLeave()
	case key.Matches(msg, m.keys.Copy):
		return m.copySnapshot()
	}
	return nil
}

// copySnapshot puts the current frame on the clipboard as SVG.
func (m *dockModel) copySnapshot() tea.Cmd {
	f := m.ctrl.Frame()
	f.MarkOpen(m.open)
	svg := string(sink.RenderSVG(f, sink.WithLabels(), sink.WithTitle(appName)))
	write := m.writeClipboard
	return func() tea.Msg {
		return copiedMsg{bytes: len(svg), err: write(svg)}
	}
}

func (m *dockModel) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.searching = false
		m.search.Blur()
		return nil
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		if m.focus >= 0 {
			m.activate(m.manifest.Apps[m.focus].ID)
		}
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if i := m.bestMatch(m.search.Value()); i >= 0 {
		m.setFocus(i)
	}
	return cmd
}

// bestMatch returns the index of the app that best fuzzy-matches query.
func (m *dockModel) bestMatch(query string) int {
	query = strings.TrimSpace(query)
	if query == "" {
		return -1
	}
	names := make([]string, len(m.manifest.Apps))
	for i, a := range m.manifest.Apps {
		names[i] = a.Name + " " + a.ID
	}
	matches := fuzzy.Find(query, names)
	if len(matches) == 0 {
		return -1
	}
	return matches[0].Index
}

// setFocus selects slot i and magnifies it as if the pointer rested on it.
func (m *dockModel) setFocus(i int) {
	m.focus = i
	m.hovering = false
	m.ctrl.SetPointer(dock.At(dock.NormalCenter(i, m.ctrl.Config())))
}

func (m *dockModel) activate(id string) {
	if err := m.ctrl.Activate(id); err != nil {
		m.status = err.Error()
	}
}

// toggle is the controller's activator. Only one app is open at a time:
// activating the open app closes it, any other app replaces it.
func (m *dockModel) toggle(id string) {
	if m.open == id {
		m.open = ""
		m.status = "closed " + m.appName(id)
		return
	}
	m.open = id
	m.status = "opened " + m.appName(id)
}

func (m *dockModel) appName(id string) string {
	if a, ok := apps.Find(m.manifest.Apps, id); ok {
		return a.Name
	}
	return id
}

func (m *dockModel) applyManifest(msg manifestMsg) {
	if msg.err != nil {
		m.status = "reload failed: " + msg.err.Error()
		m.logger.Warn("manifest reload failed", "err", msg.err)
		return
	}
	m.manifest = msg.manifest
	m.ctrl.SetSlots(apps.Slots(msg.manifest.Apps))
	if _, ok := apps.Find(msg.manifest.Apps, m.open); !ok {
		m.open = ""
	}
	if m.focus >= len(msg.manifest.Apps) {
		m.focus = -1
	}
	m.status = fmt.Sprintf("reloaded %d apps", len(msg.manifest.Apps))
}

// =============================================================================
// View
// =============================================================================

func (m *dockModel) View() string {
	if m.width == 0 {
		return ""
	}
	a := m.area()
	f := a.frame
	f.MarkOpen(m.open)
	cv := dockCanvas(f, m.size)

	var lines []string
	if m.open != "" {
		lines = append(lines, strings.Split(m.window(), "\n")...)
	}

	labelLine := ""
	if i := m.labelled(f); i >= 0 {
		g := f.Slots[i]
		col := a.left + int((f.Padding+g.Center)/m.size.w)
		labelLine = styleLabel.Render(centeredLabel(g.Label, col, m.width))
	}
	for len(lines) < a.top-1 {
		lines = append(lines, "")
	}
	lines = append(lines, labelLine)

	pad := strings.Repeat(" ", a.left)
	for _, l := range cv.lines() {
		lines = append(lines, pad+l)
	}

	status := m.status
	if m.searching {
		status = m.search.View()
	}
	lines = append(lines, styleStatus.Render(status), m.help.View(m.keys))
	if extra := len(lines) - m.height; extra > 0 {
		lines = lines[extra:]
	}
	return strings.Join(lines, "\n")
}

// labelled returns the slot whose label is shown: the focused slot, or the
// slot under the pointer.
func (m *dockModel) labelled(f dock.Frame) int {
	if m.focus >= 0 && m.focus < len(f.Slots) {
		return m.focus
	}
	if f.Pointer != nil {
		return f.SlotAt(*f.Pointer)
	}
	return -1
}

// window renders the open app's panel.
func (m *dockModel) window() string {
	return styleWindow.Render(
		styleWindowTitle.Render(m.appName(m.open)) + "\n" + StyleDim.Render(m.open),
	)
}
