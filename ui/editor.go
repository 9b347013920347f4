package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/dgnsrekt/brl/braille"
	"github.com/dgnsrekt/brl/utils"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/truncate"
)

const (
	editorTitleHeight  = 1
	editorStatusHeight = 1
	editorDividers     = 1
)

// editorModel is a text input with a live Braille rendition below it.
type editorModel struct {
	common   *commonModel
	textarea textarea.Model
	viewport viewport.Model

	output string
	stats  braille.Stats

	statusMessage      string
	statusMessageTimer *time.Timer
}

func newEditorModel(common *commonModel) editorModel {
	ta := textarea.New()
	ta.Placeholder = "Type something to transliterate..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 0

	return editorModel{
		common:   common,
		textarea: ta,
		viewport: viewport.New(0, 0),
	}
}

func (m *editorModel) setSize(w, h int) {
	inputHeight := max(1, (h-editorTitleHeight-editorStatusHeight-editorDividers)/3)
	m.textarea.SetWidth(w)
	m.textarea.SetHeight(inputHeight)
	m.viewport.Width = w
	m.viewport.Height = max(0, h-inputHeight-editorTitleHeight-editorStatusHeight-editorDividers)
	m.refresh()
}

func (m *editorModel) focus() tea.Cmd { return m.textarea.Focus() }
func (m *editorModel) blur()          { m.textarea.Blur() }
func (m editorModel) value() string   { return m.textarea.Value() }

func (m *editorModel) setValue(s string) {
	m.textarea.SetValue(s)
	m.refresh()
}

// refresh re-encodes the input and puts it into the viewport.
func (m *editorModel) refresh() {
	m.output, m.stats = m.common.encoder.EncodeStats(m.textarea.Value())

	width := m.viewport.Width
	if w := int(m.common.cfg.Width); w > 0 && (width == 0 || w < width) { //nolint:gosec
		width = w
	}
	m.viewport.SetContent(utils.WrapBraille(m.output, width))
	if m.viewport.PastBottom() {
		m.viewport.GotoBottom()
	}
}

func (m *editorModel) showStatusMessage(s string) tea.Cmd {
	m.statusMessage = s
	if m.statusMessageTimer != nil {
		m.statusMessageTimer.Stop()
	}
	m.statusMessageTimer = time.NewTimer(statusMessageTimeout)
	return waitForStatusMessageTimeout(editorContext, m.statusMessageTimer)
}

func (m editorModel) update(msg tea.Msg) (editorModel, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+l":
			m.textarea.Reset()
			m.refresh()
			return m, nil

		case "ctrl+y":
			if m.output == "" {
				return m, nil
			}
			copyToClipboard(m.output)
			log.Debug("copied editor output", "cells", m.stats.Cells)
			return m, m.showStatusMessage("Copied Braille")

		case "pgup":
			m.viewport.HalfViewUp()
			return m, nil

		case "pgdown":
			m.viewport.HalfViewDown()
			return m, nil
		}

		before := m.textarea.Value()
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
		if m.textarea.Value() != before {
			m.refresh()
		}

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)

	case statusMessageTimeoutMsg:
		m.statusMessage = ""

	default:
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m editorModel) View() string {
	var b strings.Builder

	fmt.Fprintln(&b, brlLogoView()+editorTitleStyle.Render("Editor"))
	fmt.Fprintln(&b, m.textarea.View())
	fmt.Fprintln(&b, dividerStyle.Render(strings.Repeat("─", max(0, m.common.width))))
	fmt.Fprintln(&b, m.viewport.View())
	b.WriteString(m.statusView())

	return b.String()
}

func (m editorModel) statusView() string {
	var status string
	if m.statusMessage != "" {
		status = " " + m.statusMessage + " "
	} else {
		status = fmt.Sprintf(" %s cells", humanize.Comma(int64(m.stats.Cells)))
		if m.stats.Unmapped > 0 {
			status += " · " + unmappedStyle.Render(fmt.Sprintf("%d unmapped", m.stats.Unmapped))
		}
		status += " · ctrl+l clear · ctrl+y copy · tab pager · esc quit "
	}
	if m.common.width > 0 {
		status = truncate.StringWithTail(status, uint(m.common.width), ellipsis) //nolint:gosec
	}
	return editorStatusStyle.Render(status)
}
