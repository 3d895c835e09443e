// Package tui implements the interactive review interface: a diff viewer
// driven by the core navigator, with inline comment entry.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/0xd219b/cr-helper/internal/core/comment"
	"github.com/0xd219b/cr-helper/internal/core/config"
	"github.com/0xd219b/cr-helper/internal/core/diff"
	"github.com/0xd219b/cr-helper/internal/core/session"
)

const chromeHeight = 3 // header (2 incl border) + status bar

// Model is the review TUI: a viewport over the current file's hunks with
// a cursor driven by the diff navigator.
type Model struct {
	nav       *diff.Navigator
	sess      *session.Session
	sessions  *session.Manager
	validator *comment.Validator
	highlight *Highlighter
	parser    *diff.Parser
	log       zerolog.Logger

	viewport viewport.Model
	modal    *CommentModal
	width    int
	height   int
	ready    bool
	status   string
	saveErr  error
}

// New creates a review TUI over the session's diff.
func New(sess *session.Session, sessions *session.Manager, cfg *config.Config, log zerolog.Logger) Model {
	// "default" is the config's unset value, not a chroma style name.
	theme := cfg.UI.Theme
	if theme == "" || theme == "default" {
		theme = cfg.Diff.Delta.Theme
	}
	if theme == "" {
		theme = "monokai"
	}
	parser := diff.NewParser(log)
	parser.SetMaxFileSize(cfg.Diff.MaxFileSize)

	return Model{
		nav:       diff.NewNavigator(sess.DiffData),
		sess:      sess,
		sessions:  sessions,
		validator: comment.WithLengthBounds(cfg.Review.MinCommentLength, cfg.Review.MaxCommentLength),
		highlight: NewHighlighter(theme),
		parser:    parser,
		log:       log,
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-chromeHeight)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - chromeHeight
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if m.modal != nil {
			return m.updateModal(msg)
		}
		return m.updateKeys(msg)
	}

	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		if err := m.sessions.Save(m.sess); err != nil {
			m.saveErr = err
			m.log.Error().Err(err).Msg("save session on quit")
		}
		return m, tea.Quit

	case "j", "down":
		m.nav.NextLine()
	case "k", "up":
		m.nav.PrevLine()
	case "J":
		m.nav.NextHunk()
	case "K":
		m.nav.PrevHunk()
	case "]", "l", "right":
		m.nav.NextFile()
	case "[", "h", "left":
		m.nav.PrevFile()
	case "g", "home":
		m.nav.GotoTop()
	case "G", "end":
		m.nav.GotoBottom()
	case "ctrl+d":
		m.nav.MoveDown(m.viewport.Height / 2)
	case "ctrl+u":
		m.nav.MoveUp(m.viewport.Height / 2)

	case "c":
		file := m.nav.CurrentFile()
		line := m.nav.CurrentLine()
		if file == nil || line == nil {
			m.status = "no line selected"
			break
		}
		loc := file.DisplayPath()
		if n := line.DisplayLineNum(); n != 0 {
			loc = fmt.Sprintf("%s:%d", loc, n)
		}
		modal := NewCommentModal(loc, line.Content, m.width)
		m.modal = &modal
		return m, nil

	default:
		return m, nil
	}

	m.status = ""
	m.refresh()
	return m, nil
}

func (m Model) updateModal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	modal, cmd := m.modal.Update(msg)
	m.modal = &modal

	switch {
	case modal.Cancelled():
		m.modal = nil
	case modal.Submitted():
		m.modal = nil
		m.addComment(modal.Value(), modal.Severity())
		m.refresh()
	}
	return m, cmd
}

func (m *Model) addComment(content string, severity comment.Severity) {
	file := m.nav.CurrentFile()
	line := m.nav.CurrentLine()
	if file == nil || line == nil {
		return
	}

	side := comment.SideNew
	if line.Type == diff.LineDeleted {
		side = comment.SideOld
	}

	c, err := comment.NewBuilder(file.ID, line.ID, side).
		Content(content).
		Severity(severity).
		Source("tui").
		FilePath(file.DisplayPath()).
		LineNumber(line.DisplayLineNum()).
		Build()
	if err != nil {
		m.status = err.Error()
		return
	}

	if err := m.validator.Validate(c, m.sess.DiffData); err != nil {
		m.status = err.Error()
		return
	}

	if _, err := m.sess.Comments.Add(c); err != nil {
		m.status = err.Error()
		return
	}

	m.status = fmt.Sprintf("comment added (%s)", severity)
	if saved, err := m.sessions.AutoSave(m.sess); err != nil {
		m.log.Warn().Err(err).Msg("autosave failed")
	} else if saved {
		m.log.Debug().Str("session", m.sess.ID.String()).Msg("autosaved")
	}
}

// refresh re-renders the current file into the viewport and keeps the
// cursor visible.
func (m *Model) refresh() {
	if !m.ready {
		return
	}

	content, cursorRow := m.renderFile()
	m.viewport.SetContent(content)

	// Scroll the viewport so the cursor row stays in view.
	top := m.viewport.YOffset
	bottom := top + m.viewport.Height - 1
	switch {
	case cursorRow < top:
		m.viewport.SetYOffset(cursorRow)
	case cursorRow > bottom:
		m.viewport.SetYOffset(cursorRow - m.viewport.Height + 1)
	}
}

// loadLazy materializes an untracked file's content the first time the
// viewer lands on it. Load failures leave the file lazy and surface in
// the status bar.
func (m *Model) loadLazy(file *diff.FileDiff) {
	root := m.sess.DiffData.Metadata.Repository
	if err := m.parser.LoadLazyFile(file, root); err != nil {
		m.status = fmt.Sprintf("load %s: %v", file.DisplayPath(), err)
		m.log.Warn().Err(err).Str("path", file.DisplayPath()).Msg("lazy file load failed")
	}
}

// renderFile renders every hunk of the current file and returns the
// rendered text plus the row index of the cursor line.
func (m *Model) renderFile() (string, int) {
	file := m.nav.CurrentFile()
	if file == nil {
		return statusStyle.Render("no changes to review"), 0
	}
	if file.NeedsLoading() {
		m.loadLazy(file)
	}
	if file.IsBinary() {
		return statusStyle.Render("binary file"), 0
	}
	if file.NeedsLoading() {
		return statusStyle.Render("file not loaded"), 0
	}

	pos := m.nav.Pos()
	path := file.DisplayPath()

	var rows []string
	cursorRow := 0
	for hi, hunk := range file.Hunks {
		rows = append(rows, hunkHeaderStyle.Render(hunk.Header))
		for li, line := range hunk.Lines {
			row := m.renderLine(path, line)
			if hi == pos.HunkIdx && li == pos.LineIdx {
				cursorRow = len(rows)
				row = cursorLineStyle.Render(row)
			}
			rows = append(rows, row)
		}
	}

	return strings.Join(rows, "\n"), cursorRow
}

func (m *Model) renderLine(path string, line diff.Line) string {
	marker := " "
	if m.sess.Comments.HasLine(line.ID) {
		marker = commentMarkerStyle.Render("●")
	}

	num := "    "
	if n := line.DisplayLineNum(); n != 0 {
		num = fmt.Sprintf("%4d", n)
	}

	content := m.highlight.Highlight(path, line.Content)
	prefix := line.Type.Prefix()
	switch line.Type {
	case diff.LineAdded:
		prefix = addedStyle.Render(prefix)
	case diff.LineDeleted:
		prefix = deletedStyle.Render(prefix)
	}

	return fmt.Sprintf("%s %s %s%s", marker, lineNumStyle.Render(num), prefix, content)
}

func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	if m.modal != nil {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, m.modal.View())
	}

	return strings.Join([]string{
		m.headerView(),
		m.viewport.View(),
		m.statusView(),
	}, "\n")
}

func (m Model) headerView() string {
	file := m.nav.CurrentFile()
	title := "no changes"
	if file != nil {
		pos := m.nav.Pos()
		title = fmt.Sprintf("%s %s  (file %d/%d)",
			file.Mode.Indicator(), file.DisplayPath(), pos.FileIdx+1, m.nav.FileCount())
	}
	return headerStyle.Width(m.width).Render(title)
}

func (m Model) statusView() string {
	parts := []string{
		fmt.Sprintf("%d comments", m.sess.CommentCount()),
		"j/k: line • J/K: hunk • [/]: file • c: comment • q: save+quit",
	}
	left := statusStyle.Render(strings.Join(parts, "  "))
	if m.status != "" {
		return left + "  " + statusMsgStyle.Render(m.status)
	}
	return left
}

// SaveErr reports a save failure from quitting, for the caller to surface
// after the program exits.
func (m Model) SaveErr() error {
	return m.saveErr
}
