// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat view component for the TUI.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	chatctl "github.com/Aiaugie/deepseek-chat-buddy-85/internal/chat"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/ui/styles"
)

// =============================================================================
// CHAT STATE
// =============================================================================

// State represents the current state of the chat view.
type State int

const (
	StateReady   State = iota // Ready for input
	StateWaiting              // Waiting for a completion
)

// =============================================================================
// CHAT MODEL
// =============================================================================

// Model is the Bubble Tea model for the chat view.
type Model struct {
	// State
	state State

	// Styling
	theme *styles.Theme

	// Dimensions
	width  int
	height int

	// Conversation controller; owns the guard and the single-flight rule
	controller *chatctl.Controller

	// Cancellation for the in-flight request
	requestCtx    context.Context
	cancelRequest context.CancelFunc

	// UI components
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model

	// Markdown renderer for assistant replies; rebuilt on resize
	renderer *glamour.TermRenderer

	// Key bindings
	keyMap KeyMap

	// Transient notice shown above the input (rejections, API errors).
	// noticeIsInfo selects the informational style over the error style.
	notice       string
	noticeIsInfo bool

	// Help overlay
	showHelp bool

	waitingSince time.Time
}

// New creates a new chat model around a conversation controller.
func New(theme *styles.Theme, controller *chatctl.Controller) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Type a message..."
	ti.CharLimit = 4096
	ti.Focus()

	vp := viewport.New(80, 20)
	vp.SetContent("")

	// ASCII-compatible spinner frames
	sp := spinner.New()
	sp.Spinner = spinner.Spinner{
		Frames: []string{"|", "/", "-", "\\"},
		FPS:    time.Second / 10,
	}
	sp.Style = theme.Spinner

	ctx, cancel := context.WithCancel(context.Background())

	m := Model{
		state:         StateReady,
		theme:         theme,
		controller:    controller,
		requestCtx:    ctx,
		cancelRequest: cancel,
		viewport:      vp,
		input:         ti,
		spinner:       sp,
		keyMap:        DefaultKeyMap(),
	}
	m.rebuildRenderer(78)
	m.updateViewport()
	return m
}

// rebuildRenderer recreates the glamour renderer at the given word-wrap
// width. A nil renderer means assistant replies are shown as plain text.
func (m *Model) rebuildRenderer(wrap int) {
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		m.renderer = nil
		return
	}
	m.renderer = r
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case CompletionMsg:
		return m.handleCompletion(msg)

	case CompletionErrMsg:
		return m.handleCompletionErr(msg)

	case ExportDoneMsg:
		return m.handleExportDone(msg)

	case spinner.TickMsg:
		if m.state == StateWaiting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			// Spinner frame lives inside viewport content
			m.updateViewport()
			m.viewport.GotoBottom()
			return m, cmd
		}
		return m, nil

	default:
		var cmds []tea.Cmd
		if m.state == StateReady {
			var inputCmd tea.Cmd
			m.input, inputCmd = m.input.Update(msg)
			cmds = append(cmds, inputCmd)
		}
		var vpCmd tea.Cmd
		m.viewport, vpCmd = m.viewport.Update(msg)
		cmds = append(cmds, vpCmd)
		return m, tea.Batch(cmds...)
	}
}

// View renders the chat view.
func (m Model) View() string {
	return m.renderChat()
}

// =============================================================================
// MESSAGE HANDLERS
// =============================================================================

func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.width = msg.Width
	m.height = msg.Height

	// Layout: header + viewport (dynamic) + notice/input area + status bar.
	// Conservative estimates prevent viewport overflow; renderChat measures
	// actual heights and clamps if these drift.
	const (
		headerHeight    = 2
		inputAreaHeight = 4
		statusBarHeight = 2
	)

	viewportHeight := m.height - headerHeight - inputAreaHeight - statusBarHeight
	if viewportHeight < 1 {
		viewportHeight = 1
	}
	viewportWidth := m.width
	if viewportWidth < 1 {
		viewportWidth = 1
	}
	m.viewport.Width = viewportWidth
	m.viewport.Height = viewportHeight

	const promptLen = 2 // "> "
	inputWidth := m.width - 6 - promptLen
	if inputWidth < 10 {
		inputWidth = 10
	}
	m.input.Width = inputWidth

	if m.theme != nil {
		m.theme.SetSize(m.width, m.height)
	}

	// Wrap markdown a little narrower than the bubble width
	m.rebuildRenderer(m.width - 12)
	m.updateViewport()

	var vpCmd tea.Cmd
	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, vpCmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keyStr := msg.String()

	// Emergency exit works in any state
	if keyStr == "ctrl+q" || keyStr == "ctrl+c" {
		return m, tea.Quit
	}

	if m.showHelp {
		switch keyStr {
		case "ctrl+h", "esc", "q", "enter":
			m.showHelp = false
		}
		return m, nil
	}

	switch keyStr {
	case "ctrl+h":
		m.showHelp = true
		return m, nil

	case "ctrl+l":
		m.controller.Reset()
		m.notice = ""
		m.updateViewport()
		return m, nil
	}

	if m.state == StateWaiting {
		if keyStr == "esc" {
			// Cancel the in-flight request; the pending submitCmd returns
			// a CompletionErrMsg with context.Canceled.
			m.cancelRequest()
			m.requestCtx, m.cancelRequest = context.WithCancel(context.Background())
			return m, nil
		}
		return m.handleNavigationKeys(msg)
	}

	switch keyStr {
	case "enter":
		if strings.TrimSpace(m.input.Value()) != "" {
			return m.submitInput()
		}
		return m, nil

	case "pgup", "pgdown", "up", "down", "home", "end":
		return m.handleNavigationKeys(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleNavigationKeys handles viewport scrolling.
func (m Model) handleNavigationKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "pgup", "ctrl+u":
		m.viewport.HalfViewUp()
	case "pgdown", "ctrl+d":
		m.viewport.HalfViewDown()
	case "up":
		m.viewport.LineUp(1)
	case "down":
		m.viewport.LineDown(1)
	case "home":
		m.viewport.GotoTop()
	case "end":
		m.viewport.GotoBottom()
	}
	return m, nil
}

func (m Model) handleCompletion(_ CompletionMsg) (tea.Model, tea.Cmd) {
	m.state = StateReady
	m.notice = ""
	m.updateViewport()
	m.viewport.GotoBottom()
	m.input.Focus()
	return m, textinput.Blink
}

func (m Model) handleCompletionErr(msg CompletionErrMsg) (tea.Model, tea.Cmd) {
	m.state = StateReady
	m.notice = chatctl.NoticeFor(msg.Err)
	m.noticeIsInfo = false
	m.updateViewport()
	m.viewport.GotoBottom()
	m.input.Focus()
	return m, textinput.Blink
}

func (m Model) handleExportDone(msg ExportDoneMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.notice = "Export failed: " + msg.Err.Error()
		m.noticeIsInfo = false
	} else {
		m.notice = "Saved transcript to " + msg.Path
		m.noticeIsInfo = true
	}
	return m, nil
}

// =============================================================================
// INPUT SUBMISSION
// =============================================================================

func (m Model) submitInput() (tea.Model, tea.Cmd) {
	raw := m.input.Value()
	m.input.Reset()
	m.notice = ""

	if strings.HasPrefix(strings.TrimSpace(raw), "/") {
		return m.handleCommand(strings.TrimSpace(raw))
	}

	m.state = StateWaiting
	m.waitingSince = time.Now()
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(m.spinner.Tick, m.submitCmd(raw))
}

// =============================================================================
// VIEWPORT UPDATE
// =============================================================================

func (m *Model) updateViewport() {
	m.viewport.SetContent(m.renderMessages())
}

// =============================================================================
// GETTERS
// =============================================================================

// GetState returns the current state.
func (m *Model) GetState() State {
	return m.state
}

// Controller returns the underlying conversation controller.
func (m *Model) Controller() *chatctl.Controller {
	return m.controller
}
