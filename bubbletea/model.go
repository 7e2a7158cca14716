// Package bubbletea provides the terminal shell for capturing clipboard
// images using the Bubble Tea framework.
package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/pathifier"
	"github.com/fwojciec/pathifier/raster"
	"github.com/rs/zerolog"
)

// listWidth is the width of the image list column.
const listWidth = 24

const pasteTip = "Tip: terminal tools that accept images paste them with Ctrl+V, not Cmd+V."

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

type status struct {
	kind statusKind
	text string
}

// Model is the Bubble Tea model for the capture shell.
type Model struct {
	// Dependencies
	ctx           context.Context
	svc           pathifier.Service
	saver         *settingsSaver
	platform      pathifier.Platform
	changes       <-chan struct{}
	themeFor      func(pathifier.ThemeName) pathifier.Theme
	renderer      *lipgloss.Renderer
	logger        zerolog.Logger

	// Data
	settings pathifier.Settings
	images   []pathifier.StoredImage
	selected int
	focus    string // Path to select once the next listing arrives
	thumbs   map[string]pathifier.Bitmap

	// Request ordering
	reqSeq      uint64
	appliedReq  uint64
	listSeq     uint64
	appliedList uint64
	saveSeq     uint64

	// UI
	palette      pathifier.Palette
	keymap       KeyMap
	help         help.Model
	status       status
	tipDismissed bool
	preview      string

	// Rendering
	width, height int
	ready         bool
}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithContext sets the context passed to service requests.
func WithContext(ctx context.Context) ModelOption {
	return func(m *Model) {
		m.ctx = ctx
	}
}

// WithPlatform sets the host capabilities. The WSL toggle is only offered
// where the platform supports translation.
func WithPlatform(p pathifier.Platform) ModelOption {
	return func(m *Model) {
		m.platform = p
	}
}

// WithSettingsStore persists settings changed from the shell.
func WithSettingsStore(s pathifier.SettingsStore) ModelOption {
	return func(m *Model) {
		m.saver = nil
		if s != nil {
			m.saver = &settingsSaver{store: s}
		}
	}
}

// WithChanges refreshes the listing whenever changes receives a value.
func WithChanges(changes <-chan struct{}) ModelOption {
	return func(m *Model) {
		m.changes = changes
	}
}

// WithThemeFunc sets how theme names map to palettes.
func WithThemeFunc(fn func(pathifier.ThemeName) pathifier.Theme) ModelOption {
	return func(m *Model) {
		m.themeFor = fn
	}
}

// WithRenderer sets a custom lipgloss renderer for the model.
func WithRenderer(r *lipgloss.Renderer) ModelOption {
	return func(m *Model) {
		m.renderer = r
	}
}

// WithLogger sets the logger for background failures.
func WithLogger(l zerolog.Logger) ModelOption {
	return func(m *Model) {
		m.logger = l
	}
}

// NewModel creates a new Model driving svc.
func NewModel(svc pathifier.Service, opts ...ModelOption) Model {
	m := Model{
		ctx:     context.Background(),
		svc:     svc,
		logger:  zerolog.Nop(),
		thumbs:  make(map[string]pathifier.Bitmap),
		listSeq: 1,
		keymap:  DefaultKeyMap(),
		help:    help.New(),
	}

	for _, opt := range opts {
		opt(&m)
	}

	m.settings = svc.Settings()
	m.keymap.ToggleWSL.SetEnabled(m.platform.WSLTranslation)
	m.keymap.DismissTip.SetEnabled(m.platform.PasteTip)
	m.keymap.DismissTipForever.SetEnabled(m.platform.PasteTip)
	m.applyTheme()
	return m
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(listImages(m.ctx, m.svc, m.listSeq), waitForChange(m.changes))
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeys(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.refreshPreview()
		return m, nil

	case resultMsg:
		return m.handleResult(msg)

	case listMsg:
		return m.handleList(msg)

	case thumbsMsg:
		m.handleThumbs(msg)
		return m, nil

	case changedMsg:
		cmd := m.refresh()
		return m, tea.Batch(cmd, waitForChange(m.changes))

	case settingsSavedMsg:
		if msg.err != nil {
			m.logger.Error().Err(msg.err).Msg("saving settings")
			m.status = status{statusError, "Saving settings failed: " + msg.err.Error()}
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Capture):
		m.reqSeq++
		m.status = status{statusInfo, "Reading clipboard..."}
		return m, captureImage(m.ctx, m.svc, m.reqSeq)

	case key.Matches(msg, m.keymap.Copy):
		if len(m.images) == 0 {
			m.status = status{statusWarning, "No images to copy"}
			return m, nil
		}
		m.reqSeq++
		return m, copyPath(m.ctx, m.svc, m.reqSeq, m.images[m.selected].Path)

	case key.Matches(msg, m.keymap.Up):
		if m.selected > 0 {
			m.selected--
			m.refreshPreview()
		}
		return m, nil

	case key.Matches(msg, m.keymap.Down):
		if m.selected < len(m.images)-1 {
			m.selected++
			m.refreshPreview()
		}
		return m, nil

	case key.Matches(msg, m.keymap.ToggleWSL):
		s := m.settings
		s.WSLMode = !s.WSLMode
		return m.applySettings(s)

	case key.Matches(msg, m.keymap.MoreImages):
		s := m.settings
		s.MaxImages++
		return m.applySettings(s)

	case key.Matches(msg, m.keymap.FewerImages):
		if m.settings.MaxImages <= 1 {
			return m, nil
		}
		s := m.settings
		s.MaxImages--
		return m.applySettings(s)

	case key.Matches(msg, m.keymap.CycleTheme):
		s := m.settings
		s.Theme = s.Theme.Next()
		return m.applySettings(s)

	case key.Matches(msg, m.keymap.Refresh):
		cmd := m.refresh()
		return m, cmd

	case key.Matches(msg, m.keymap.DismissTip):
		m.tipDismissed = true
		m.refreshPreview()
		return m, nil

	case key.Matches(msg, m.keymap.DismissTipForever):
		m.tipDismissed = true
		s := m.settings
		s.ShowMacOSTip = false
		return m.applySettings(s)

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.refreshPreview()
		return m, nil
	}

	return m, nil
}

// applySettings hands s to the service and, once accepted, persists it.
func (m Model) applySettings(s pathifier.Settings) (tea.Model, tea.Cmd) {
	if err := m.svc.UpdateSettings(s); err != nil {
		m.status = status{statusError, "Settings rejected: " + err.Error()}
		return m, nil
	}
	themeChanged := s.Theme != m.settings.Theme
	m.settings = s
	if themeChanged {
		m.applyTheme()
	}
	m.refreshPreview()
	m.saveSeq++
	return m, saveSettings(m.saver, m.saveSeq, s)
}

func (m *Model) refresh() tea.Cmd {
	m.listSeq++
	return listImages(m.ctx, m.svc, m.listSeq)
}

func (m Model) handleResult(msg resultMsg) (tea.Model, tea.Cmd) {
	if msg.seq < m.appliedReq {
		return m, nil
	}
	m.appliedReq = msg.seq

	verb := "Capture"
	if msg.op == pathifier.OpCopy {
		verb = "Copy"
	}
	switch {
	case errors.Is(msg.err, pathifier.ErrNoImage):
		m.status = status{statusWarning, "No image on clipboard"}
		return m, nil
	case msg.err != nil:
		m.status = status{statusError, fmt.Sprintf("%s failed: %v", verb, msg.err)}
		return m, nil
	}

	if msg.op == pathifier.OpCopy {
		m.status = status{statusSuccess, "Copied " + msg.res.Path}
		return m, nil
	}
	m.status = status{statusSuccess, fmt.Sprintf("Saved %s, copied %s", msg.res.Image.Name(), msg.res.Path)}
	m.focus = msg.res.Image.Path
	cmd := m.refresh()
	return m, cmd
}

func (m Model) handleList(msg listMsg) (tea.Model, tea.Cmd) {
	if msg.seq < m.appliedList {
		return m, nil
	}
	m.appliedList = msg.seq
	if msg.err != nil {
		m.status = status{statusError, "Listing images failed: " + msg.err.Error()}
		return m, nil
	}

	want := m.focus
	if want == "" && m.selected < len(m.images) {
		want = m.images[m.selected].Path
	}
	m.focus = ""
	m.images = msg.images
	m.selected = 0
	for i, img := range m.images {
		if img.Path == want {
			m.selected = i
			break
		}
	}

	keep := make(map[string]bool, len(m.images))
	var missing []pathifier.StoredImage
	for _, img := range m.images {
		k := thumbKey(img)
		keep[k] = true
		if _, ok := m.thumbs[k]; !ok {
			missing = append(missing, img)
		}
	}
	for k := range m.thumbs {
		if !keep[k] {
			delete(m.thumbs, k)
		}
	}

	m.refreshPreview()
	return m, loadThumbnails(missing, m.settings.ThumbnailSize)
}

func (m *Model) handleThumbs(msg thumbsMsg) {
	if msg.err != nil {
		m.logger.Warn().Err(msg.err).Msg("loading thumbnails")
	}
	if msg.size != m.settings.ThumbnailSize {
		return
	}
	for k, b := range msg.thumbs {
		m.thumbs[k] = b
	}
	m.refreshPreview()
}

func (m *Model) applyTheme() {
	if m.themeFor != nil {
		m.palette = m.themeFor(m.settings.Theme).Palette()
	}
	keyStyle := m.newStyle().Foreground(lipgloss.Color(m.palette.Accent))
	descStyle := m.newStyle().Foreground(lipgloss.Color(m.palette.Muted))
	m.help.Styles.ShortKey = keyStyle
	m.help.Styles.FullKey = keyStyle
	m.help.Styles.ShortDesc = descStyle
	m.help.Styles.FullDesc = descStyle
}

// showTip reports whether the paste tip is visible.
func (m Model) showTip() bool {
	return m.platform.ShowPasteTip(m.settings) && !m.tipDismissed
}

// bodyHeight returns the rows left for the list and preview.
func (m Model) bodyHeight() int {
	header := 3 // Title, options, blank
	if m.showTip() {
		header++
	}
	footer := 2 + lipgloss.Height(m.help.View(m.keymap)) // Blank, status, help
	return max(m.height-header-footer, 1)
}

// refreshPreview re-renders the preview of the selected image to fit the
// space left beside the list.
func (m *Model) refreshPreview() {
	m.preview = ""
	if !m.ready || len(m.images) == 0 {
		return
	}
	b, ok := m.thumbs[thumbKey(m.images[m.selected])]
	if !ok {
		return
	}
	maxDim := min(m.settings.ThumbnailSize, m.width-listWidth-2, m.bodyHeight()*2)
	if maxDim < 1 {
		return
	}
	if b.Width > maxDim || b.Height > maxDim {
		scaled, err := raster.Thumbnail(b, maxDim)
		if err != nil {
			return
		}
		b = scaled
	}
	renderer := m.renderer
	if renderer == nil {
		renderer = lipgloss.DefaultRenderer()
	}
	m.preview = renderPreview(b, m.palette.Background, renderer)
}

// newStyle creates a new lipgloss style using the model's renderer.
func (m Model) newStyle() lipgloss.Style {
	if m.renderer != nil {
		return m.renderer.NewStyle()
	}
	return lipgloss.NewStyle()
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	var s strings.Builder
	s.WriteString(m.headerView())
	s.WriteString("\n")
	s.WriteString(m.optionsView())
	s.WriteString("\n")
	if m.showTip() {
		s.WriteString(m.newStyle().Foreground(lipgloss.Color(m.palette.Warning)).Render(pasteTip + "  [x] hide  [X] don't show again"))
		s.WriteString("\n")
	}
	s.WriteString("\n")
	s.WriteString(m.bodyView())
	s.WriteString("\n\n")
	s.WriteString(m.statusView())
	s.WriteString("\n")
	s.WriteString(m.help.View(m.keymap))

	return s.String()
}

func (m Model) headerView() string {
	title := m.newStyle().Bold(true).Foreground(lipgloss.Color(m.palette.Accent)).Render("pathifier")
	counts := fmt.Sprintf("Images: %d/%d | Dir: ", len(m.images), m.settings.MaxImages)
	dir := TruncateLeft(m.settings.SaveDirectory, m.width-lipgloss.Width(title)-2-lipgloss.Width(counts))
	return title + "  " + m.newStyle().Foreground(lipgloss.Color(m.palette.Muted)).Render(counts+dir)
}

func (m Model) optionsView() string {
	var parts []string
	if m.platform.WSLTranslation {
		wsl := "off"
		if m.settings.WSLMode {
			wsl = "on"
		}
		parts = append(parts, "WSL paths: "+wsl)
	}
	parts = append(parts, "Theme: "+string(m.settings.Theme))
	return m.newStyle().Foreground(lipgloss.Color(m.palette.Muted)).Render(strings.Join(parts, " | "))
}

func (m Model) bodyView() string {
	rows := m.bodyHeight()
	muted := m.newStyle().Foreground(lipgloss.Color(m.palette.Muted))
	if len(m.images) == 0 {
		return muted.Render("No images yet. Copy an image and press v.")
	}

	start := 0
	if m.selected >= rows {
		start = m.selected - rows + 1
	}
	end := min(len(m.images), start+rows)

	selStyle := m.newStyle().
		Background(lipgloss.Color(m.palette.Selection)).
		Foreground(lipgloss.Color(m.palette.Foreground)).
		Bold(true)
	latest := m.newStyle().Foreground(lipgloss.Color(m.palette.Accent)).Render(" latest")

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		name := m.images[i].Name()
		var line string
		if i == m.selected {
			line = selStyle.Render("> " + name)
		} else {
			line = "  " + name
		}
		if i == 0 {
			line += latest
		}
		lines = append(lines, line)
	}
	list := m.newStyle().Width(listWidth).Render(strings.Join(lines, "\n"))

	preview := m.preview
	if preview == "" {
		preview = muted.Render("(no preview)")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, list, "  ", preview)
}

func (m Model) statusView() string {
	if m.status.text == "" {
		if len(m.images) == 0 {
			return ""
		}
		return m.newStyle().Foreground(lipgloss.Color(m.palette.Muted)).Render(TruncateLeft(m.images[m.selected].Path, m.width))
	}

	color := m.palette.Foreground
	switch m.status.kind {
	case statusSuccess:
		color = m.palette.Success
	case statusWarning:
		color = m.palette.Warning
	case statusError:
		color = m.palette.Error
	}
	return m.newStyle().Foreground(lipgloss.Color(color)).Render(m.status.text)
}

// Run displays the shell and blocks until the user quits or ctx is done.
func Run(ctx context.Context, svc pathifier.Service, opts ...ModelOption) error {
	m := NewModel(svc, append(opts, WithContext(ctx))...)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
