package ui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/brl/braille"
	"github.com/dgnsrekt/brl/internal/watch"
	"github.com/dgnsrekt/brl/utils"
	runewidth "github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/termenv"
)

const (
	statusBarHeight = 1
)

var (
	pagerHelpHeight int

	mintGreen = lipgloss.AdaptiveColor{Light: "#89F0CB", Dark: "#89F0CB"}
	darkGreen = lipgloss.AdaptiveColor{Light: "#1C8760", Dark: "#1C8760"}

	statusBarNoteFg = lipgloss.AdaptiveColor{Light: "#656565", Dark: "#7D7D7D"}
	statusBarBg     = lipgloss.AdaptiveColor{Light: "#E6E6E6", Dark: "#242424"}

	statusBarScrollPosStyle = lipgloss.NewStyle().
				Foreground(lipgloss.AdaptiveColor{Light: "#949494", Dark: "#5A5A5A"}).
				Background(statusBarBg).
				Render

	statusBarNoteStyle = lipgloss.NewStyle().
				Foreground(statusBarNoteFg).
				Background(statusBarBg).
				Render

	statusBarHelpStyle = lipgloss.NewStyle().
				Foreground(statusBarNoteFg).
				Background(lipgloss.AdaptiveColor{Light: "#DCDCDC", Dark: "#323232"}).
				Render

	statusBarMessageStyle = lipgloss.NewStyle().
				Foreground(mintGreen).
				Background(darkGreen).
				Render

	statusBarMessageScrollPosStyle = lipgloss.NewStyle().
					Foreground(mintGreen).
					Background(darkGreen).
					Render

	statusBarMessageHelpStyle = lipgloss.NewStyle().
					Foreground(lipgloss.Color("#B6FFE4")).
					Background(green).
					Render

	helpViewStyle = lipgloss.NewStyle().
			Foreground(statusBarNoteFg).
			Background(lipgloss.AdaptiveColor{Light: "#f2f2f2", Dark: "#1B1B1B"}).
			Render
)

type (
	documentLoadedMsg document
	reloadMsg         struct{}
)

// document is a loaded text and its transliteration. We keep both around so
// we can re-wrap on resize and toggle between them.
type document struct {
	localPath string
	Note      string
	Text      string
	Braille   string
	Stats     braille.Stats
}

type pagerState int

const (
	pagerStateBrowse pagerState = iota
	pagerStateStatusMessage
)

type pagerModel struct {
	common     *commonModel
	viewport   viewport.Model
	state      pagerState
	showHelp   bool
	showSource bool

	statusMessage      string
	statusMessageTimer *time.Timer

	currentDocument document

	watcher     *watch.Watcher
	stopWatcher func()
}

func newPagerModel(common *commonModel) pagerModel {
	vp := viewport.New(0, 0)
	vp.YPosition = 0

	return pagerModel{
		common:     common,
		state:      pagerStateBrowse,
		viewport:   vp,
		showSource: common.cfg.ShowSource,
	}
}

func (m *pagerModel) setSize(w, h int) {
	m.viewport.Width = w
	m.viewport.Height = h - statusBarHeight

	if m.showHelp {
		if pagerHelpHeight == 0 {
			pagerHelpHeight = strings.Count(m.helpView(), "\n")
		}
		m.viewport.Height -= (statusBarHeight + pagerHelpHeight)
	}
}

// wrapWidth is the configured width clamped to the window.
func (m pagerModel) wrapWidth() int {
	width := m.viewport.Width
	if w := int(m.common.cfg.Width); w > 0 && (width == 0 || w < width) { //nolint:gosec
		width = w
	}
	return width
}

// render puts the current document into the viewport.
func (m *pagerModel) render() {
	var content string
	if m.showSource {
		content = m.currentDocument.Text
	} else {
		content = utils.WrapBraille(m.currentDocument.Braille, m.wrapWidth())
	}
	m.viewport.SetContent(content)
}

func (m *pagerModel) toggleHelp() {
	m.showHelp = !m.showHelp
	m.setSize(m.common.width, m.common.height)
	if m.viewport.PastBottom() {
		m.viewport.GotoBottom()
	}
}

type pagerStatusMessage struct {
	message string
	isError bool
}

func (m *pagerModel) showStatusMessage(msg pagerStatusMessage) tea.Cmd {
	m.state = pagerStateStatusMessage
	m.statusMessage = msg.message
	if msg.isError {
		log.Warn("pager status", "message", msg.message)
	}
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
	m.statusMessageTimer = time.NewTimer(statusMessageTimeout)

	return waitForStatusMessageTimeout(pagerContext, m.statusMessageTimer)
}

func (m *pagerModel) unload() {
	log.Debug("unload")
	if m.showHelp {
		m.toggleHelp()
	}
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
	m.state = pagerStateBrowse
	m.viewport.SetContent("")
	m.viewport.YOffset = 0
	m.unwatchFile()
}

func (m pagerModel) update(msg tea.Msg) (pagerModel, tea.Cmd) {
	var (
		cmd  tea.Cmd
		cmds []tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", keyEsc:
			if m.state != pagerStateBrowse {
				m.state = pagerStateBrowse
				return m, nil
			}
		case "home", "g":
			m.viewport.GotoTop()
		case "end", "G":
			m.viewport.GotoBottom()
		case "d":
			m.viewport.HalfViewDown()
		case "u":
			m.viewport.HalfViewUp()

		case "c":
			copyToClipboard(m.currentDocument.Braille)
			cmds = append(cmds, m.showStatusMessage(pagerStatusMessage{"Copied Braille", false}))

		case "s":
			m.showSource = !m.showSource
			m.render()

		case "r":
			if m.currentDocument.localPath != "" {
				return m, loadDocument(m.common, m.currentDocument.localPath)
			}

		case "?":
			m.toggleHelp()
		}

	case documentLoadedMsg:
		log.Info("document loaded", "note", msg.Note, "cells", msg.Stats.Cells)
		m.currentDocument = document(msg)
		m.render()
		if m.currentDocument.localPath != "" && m.watcher == nil {
			cmds = append(cmds, m.watchFile())
		}
		if msg.Stats.Unmapped > 0 {
			cmds = append(cmds, m.showStatusMessage(pagerStatusMessage{
				fmt.Sprintf("%d unmapped characters", msg.Stats.Unmapped), false,
			}))
		}

	// The file was changed on disk and we're reloading it
	case reloadMsg:
		m.common.cache.Forget(m.currentDocument.Text)
		s := m.common.cache.Stats()
		log.Debug("encode cache", "items", s.Items, "size", s.Size, "hit_rate", s.HitRate)
		cmds = append(cmds, loadDocument(m.common, m.currentDocument.localPath))
		if m.watcher != nil {
			cmds = append(cmds, waitForChange(m.watcher))
		}

	// We've received terminal dimensions, either for the first time or
	// after a resize
	case tea.WindowSizeMsg:
		m.render()

	case statusMessageTimeoutMsg:
		m.state = pagerStateBrowse
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

func (m pagerModel) View() string {
	var b strings.Builder
	fmt.Fprint(&b, m.viewport.View()+"\n")

	// Footer
	m.statusBarView(&b)

	if m.showHelp {
		fmt.Fprint(&b, "\n"+m.helpView())
	}

	return b.String()
}

func (m pagerModel) statusBarView(b *strings.Builder) {
	const (
		minPercent               float64 = 0.0
		maxPercent               float64 = 1.0
		percentToStringMagnitude float64 = 100.0
	)

	showStatusMessage := m.state == pagerStateStatusMessage

	// Logo
	logo := brlLogoView()

	// Scroll percent
	percent := math.Max(minPercent, math.Min(maxPercent, m.viewport.ScrollPercent()))
	scrollPercent := fmt.Sprintf(" %3.f%% ", percent*percentToStringMagnitude)
	if showStatusMessage {
		scrollPercent = statusBarMessageScrollPosStyle(scrollPercent)
	} else {
		scrollPercent = statusBarScrollPosStyle(scrollPercent)
	}

	// "Help" note
	var helpNote string
	if showStatusMessage {
		helpNote = statusBarMessageHelpStyle(" ? Help ")
	} else {
		helpNote = statusBarHelpStyle(" ? Help ")
	}

	// Note
	var note string
	switch {
	case showStatusMessage:
		note = m.statusMessage
	case m.showSource:
		note = m.currentDocument.Note + " (source)"
	default:
		note = m.currentDocument.Note
	}
	note = truncate.StringWithTail(" "+note+" ", uint(max(0, //nolint:gosec
		m.common.width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(scrollPercent)-
			ansi.PrintableRuneWidth(helpNote),
	)), ellipsis)
	if showStatusMessage {
		note = statusBarMessageStyle(note)
	} else {
		note = statusBarNoteStyle(note)
	}

	// Empty space
	padding := max(0,
		m.common.width-
			ansi.PrintableRuneWidth(logo)-
			ansi.PrintableRuneWidth(note)-
			ansi.PrintableRuneWidth(scrollPercent)-
			ansi.PrintableRuneWidth(helpNote),
	)
	emptySpace := strings.Repeat(" ", padding)
	if showStatusMessage {
		emptySpace = statusBarMessageStyle(emptySpace)
	} else {
		emptySpace = statusBarNoteStyle(emptySpace)
	}

	fmt.Fprintf(b, "%s%s%s%s%s",
		logo,
		note,
		emptySpace,
		scrollPercent,
		helpNote,
	)
}

func (m pagerModel) helpView() (s string) {
	col1 := []string{
		"g/home  go to top",
		"G/end   go to bottom",
		"c       copy braille",
		"s       toggle source text",
		"r       reload this document",
		"tab     open editor",
		"q       quit",
	}

	s += "\n"
	s += "k/↑      up                  " + col1[0] + "\n"
	s += "j/↓      down                " + col1[1] + "\n"
	s += "b/pgup   page up             " + col1[2] + "\n"
	s += "f/pgdn   page down           " + col1[3] + "\n"
	s += "u        ½ page up           " + col1[4] + "\n"
	s += "d        ½ page down         " + col1[5] + "\n"
	s += "                             " + col1[6]

	s = indent(s, 2)

	// Fill up empty cells with spaces for background coloring
	if m.common.width > 0 {
		lines := strings.Split(s, "\n")
		for i := 0; i < len(lines); i++ {
			l := runewidth.StringWidth(lines[i])
			n := max(m.common.width-l, 0)
			lines[i] += strings.Repeat(" ", n)
		}

		s = strings.Join(lines, "\n")
	}

	return helpViewStyle(s)
}

// COMMANDS

func (m *pagerModel) watchFile() tea.Cmd {
	w, err := watch.New(m.currentDocument.localPath, watch.DefaultInterval)
	if err != nil {
		log.Error("unable to watch file", "file", m.currentDocument.localPath, "error", err)
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		if err := w.Run(ctx); err != nil {
			log.Error("file watcher stopped", "error", err)
		}
	}()

	m.watcher = w
	m.stopWatcher = cancel
	return waitForChange(w)
}

func waitForChange(w *watch.Watcher) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-w.Events(); !ok {
			return nil
		}
		return reloadMsg{}
	}
}

func (m *pagerModel) unwatchFile() {
	if m.watcher == nil {
		return
	}
	m.stopWatcher()
	if err := m.watcher.Close(); err != nil {
		log.Error("fsnotify fail to unwatch file", "file", m.watcher.Path(), "error", err)
	}
	m.watcher = nil
	m.stopWatcher = nil
}

func copyToClipboard(s string) {
	// Copy using OSC 52
	termenv.Copy(s)
	// Copy using native system clipboard
	if err := clipboard.WriteAll(s); err != nil {
		log.Debug("native clipboard unavailable", "error", err)
	}
}
