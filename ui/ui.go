// Package ui provides the terminal UI of brl: a pager for transliterated
// documents and a live editor.
package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/brl/braille"
	"github.com/dgnsrekt/brl/internal/cache"
	"github.com/dgnsrekt/brl/internal/source"
	"golang.org/x/text/unicode/norm"
)

const (
	statusMessageTimeout = time.Second * 3 // how long to show status messages like "copied!"
	ellipsis             = "…"
	keyEsc               = "esc"
)

// NewProgram returns a new Tea program.
func NewProgram(cfg Config, content string) *tea.Program {
	log.Debug(
		"Starting brl",
		"path", cfg.Path,
		"editor", cfg.Editor,
		"width", cfg.Width,
	)

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.EnableMouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	m := newModel(cfg, content)
	return tea.NewProgram(m, opts...)
}

type errMsg struct{ err error }

func (e errMsg) Error() string { return e.err.Error() }

type statusMessageTimeoutMsg applicationContext

// applicationContext indicates the area of the application something applies
// to. Occasionally used as an argument to commands and messages.
type applicationContext int

const (
	pagerContext applicationContext = iota
	editorContext
)

// state is the top-level application state.
type state int

const (
	stateShowDocument state = iota
	stateEdit
)

func (s state) String() string {
	return map[state]string{
		stateShowDocument: "showing document",
		stateEdit:         "editing",
	}[s]
}

// Common stuff we'll need to access in all models.
type commonModel struct {
	cfg     Config
	encoder *braille.Encoder
	cache   *cache.Encoder // documents, so unchanged reloads are free
	width   int
	height  int
}

type model struct {
	common   *commonModel
	state    state
	fatalErr error

	// Sub-models
	pager  pagerModel
	editor editorModel

	// Initial content, when piped in.
	content string
}

func newEncoder(cfg Config) *braille.Encoder {
	if cfg.Normalize {
		return braille.NewEncoder(braille.WithNormalization(norm.NFC))
	}
	return braille.NewEncoder()
}

func newCommonModel(cfg Config) *commonModel {
	enc := newEncoder(cfg)
	return &commonModel{
		cfg:     cfg,
		encoder: enc,
		cache:   cache.NewEncoder(enc, cache.DefaultCapacity),
	}
}

func newModel(cfg Config, content string) model {
	common := newCommonModel(cfg)

	m := model{
		common:  common,
		state:   stateShowDocument,
		pager:   newPagerModel(common),
		editor:  newEditorModel(common),
		content: content,
	}

	if cfg.Editor || (cfg.Path == "" && content == "") {
		m.state = stateEdit
		m.editor.focus()
		return m
	}

	if cfg.Path != "" {
		if _, err := os.Stat(cfg.Path); err != nil {
			log.Error("unable to stat file", "file", cfg.Path, "error", err)
			m.fatalErr = err
		}
	}
	return m
}

func (m model) Init() tea.Cmd {
	log.Debug("Init() called", "state", m.state)

	var cmds []tea.Cmd
	switch {
	case m.common.cfg.Path != "":
		cmds = append(cmds, loadDocument(m.common, m.common.cfg.Path))
	case m.content != "":
		cmds = append(cmds, encodeDocument(m.common, "", "stdin", m.content))
	}
	if m.state == stateEdit {
		cmds = append(cmds, textarea.Blink)
	}
	return tea.Batch(cmds...)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// If there's been an error, any key exits
	if m.fatalErr != nil {
		if _, ok := msg.(tea.KeyMsg); ok {
			return m, tea.Quit
		}
	}

	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		// Ctrl+C always quits no matter where in the application you are.
		case "ctrl+c":
			m.pager.unload()
			return m, tea.Quit

		case "ctrl+z":
			return m, tea.Suspend

		case "q":
			if m.state == stateShowDocument && m.pager.state == pagerStateBrowse {
				m.pager.unload()
				return m, tea.Quit
			}

		case keyEsc:
			if m.state == stateEdit {
				m.pager.unload()
				return m, tea.Quit
			}

		case "tab":
			return m.switchState()
		}

	// Window size is received when starting up and on every resize
	case tea.WindowSizeMsg:
		m.common.width = msg.Width
		m.common.height = msg.Height
		m.pager.setSize(msg.Width, msg.Height)
		m.editor.setSize(msg.Width, msg.Height)

		// Both children re-wrap on resize.
		var cmd tea.Cmd
		m.pager, cmd = m.pager.update(msg)
		cmds = append(cmds, cmd)
		m.editor, cmd = m.editor.update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)

	case errMsg:
		m.fatalErr = msg.err
		return m, nil

	case documentLoadedMsg, reloadMsg:
		// Documents always go to the pager, even while editing.
		newPagerModel, cmd := m.pager.update(msg)
		m.pager = newPagerModel
		return m, cmd

	case statusMessageTimeoutMsg:
		switch applicationContext(msg) {
		case pagerContext:
			m.pager, _ = m.pager.update(msg)
		case editorContext:
			m.editor, _ = m.editor.update(msg)
		}
		return m, nil
	}

	switch m.state {
	case stateShowDocument:
		newPagerModel, cmd := m.pager.update(msg)
		m.pager = newPagerModel
		cmds = append(cmds, cmd)

	case stateEdit:
		newEditorModel, cmd := m.editor.update(msg)
		m.editor = newEditorModel
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// switchState toggles between the pager and the editor. The editor starts
// out with the text of the current document; leaving it shows what was
// typed in the pager.
func (m model) switchState() (tea.Model, tea.Cmd) {
	switch m.state {
	case stateShowDocument:
		m.state = stateEdit
		if m.editor.value() == "" && m.pager.currentDocument.Text != "" {
			m.editor.setValue(m.pager.currentDocument.Text)
		}
		return m, m.editor.focus()

	default:
		m.state = stateShowDocument
		m.editor.blur()
		text := m.editor.value()
		if text == m.pager.currentDocument.Text {
			return m, nil
		}
		m.pager.unwatchFile()
		return m, encodeDocument(m.common, "", "editor", text)
	}
}

func (m model) View() string {
	if m.fatalErr != nil {
		return errorView(m.fatalErr, true)
	}

	switch m.state { //nolint:exhaustive
	case stateEdit:
		return m.editor.View()
	default:
		return m.pager.View()
	}
}

func errorView(err error, fatal bool) string {
	exitMsg := "press any key to "
	if fatal {
		exitMsg += "exit"
	} else {
		exitMsg += "return"
	}
	s := fmt.Sprintf("%s\n\n%v\n\n%s",
		errorTitleStyle.Render("ERROR"),
		err,
		subtleStyle.Render(exitMsg),
	)
	return "\n" + indent(s, 3)
}

// COMMANDS

// loadDocument reads, prepares and transliterates the file at path.
func loadDocument(common *commonModel, path string) tea.Cmd {
	cfg := common.cfg
	return func() tea.Msg {
		src, err := source.OpenFile(path)
		if err != nil {
			log.Error("unable to open file", "file", path, "error", err)
			return errMsg{err}
		}
		text, err := src.ReadAll()
		if err != nil {
			log.Error("unable to read file", "file", path, "error", err)
			return errMsg{err}
		}
		text = source.Prepare(text, cfg.Markdown || src.IsMarkdown())

		cwd, _ := os.Getwd()
		return encodeDocument(common, src.Name, stripAbsolutePath(src.Name, cwd), text)()
	}
}

func encodeDocument(common *commonModel, path, note, text string) tea.Cmd {
	return func() tea.Msg {
		out, stats := common.cache.EncodeStats(text)
		log.Debug("encoded document",
			"note", note,
			"runes", stats.Runes,
			"cells", stats.Cells,
			"unmapped", stats.Unmapped)
		return documentLoadedMsg{
			localPath: path,
			Note:      note,
			Text:      text,
			Braille:   out,
			Stats:     stats,
		}
	}
}

func waitForStatusMessageTimeout(appCtx applicationContext, t *time.Timer) tea.Cmd {
	return func() tea.Msg {
		<-t.C
		return statusMessageTimeoutMsg(appCtx)
	}
}

// ETC

func stripAbsolutePath(fullPath, cwd string) string {
	fp, _ := filepath.EvalSymlinks(fullPath)
	cp, _ := filepath.EvalSymlinks(cwd)
	return strings.ReplaceAll(fp, cp+string(os.PathSeparator), "")
}

// Lightweight version of reflow's indent function.
func indent(s string, n int) string {
	if n <= 0 || s == "" {
		return s
	}
	l := strings.Split(s, "\n")
	b := strings.Builder{}
	i := strings.Repeat(" ", n)
	for _, v := range l {
		fmt.Fprintf(&b, "%s%s\n", i, v)
	}
	return b.String()
}
