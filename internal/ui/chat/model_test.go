// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatctl "github.com/Aiaugie/deepseek-chat-buddy-85/internal/chat"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/guard"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/model"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/openrouter"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/ui/styles"
)

type stubClient struct {
	reply string
	err   error
}

func (s *stubClient) Chat(ctx context.Context, messages []openrouter.ChatMessage) (*openrouter.ChatResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	resp := &openrouter.ChatResponse{}
	resp.Choices = append(resp.Choices, struct {
		Message      openrouter.ChatMessage `json:"message"`
		FinishReason string                 `json:"finish_reason"`
	}{Message: openrouter.NewAssistantMessage(s.reply), FinishReason: "stop"})
	return resp, nil
}

func (s *stubClient) IsConfigured() bool { return true }

// blockingClient holds the request open until release is closed.
type blockingClient struct {
	stubClient
	release chan struct{}
}

func (b *blockingClient) Chat(ctx context.Context, messages []openrouter.ChatMessage) (*openrouter.ChatResponse, error) {
	select {
	case <-b.release:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return b.stubClient.Chat(ctx, messages)
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	ctrl := chatctl.NewController(&stubClient{reply: "ok"}, guard.New(1000, time.Millisecond))
	m := New(styles.NewTheme(), ctrl)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func TestNew_StartsReady(t *testing.T) {
	m := newTestModel(t)
	assert.Equal(t, StateReady, m.state)
	assert.NotNil(t, m.controller)
}

func TestSubmitInput_EntersWaiting(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("hello there")

	updated, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.Equal(t, StateWaiting, m.state)
	assert.NotNil(t, cmd, "a completion command must be dispatched")
	assert.Empty(t, m.input.Value(), "input is cleared on submit")
}

func TestSubmit_EmptyInputIgnored(t *testing.T) {
	m := newTestModel(t)
	m.input.SetValue("   ")

	updated, cmd := m.handleKey(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	assert.Equal(t, StateReady, m.state)
	assert.Nil(t, cmd)
}

func TestCompletionMsg_ReturnsToReady(t *testing.T) {
	m := newTestModel(t)
	m.state = StateWaiting

	updated, _ := m.Update(CompletionMsg{Reply: model.NewAssistantMessage("done")})
	m = updated.(Model)

	assert.Equal(t, StateReady, m.state)
	assert.Empty(t, m.notice)
}

func TestCompletionErrMsg_ShowsNotice(t *testing.T) {
	m := newTestModel(t)
	m.state = StateWaiting

	updated, _ := m.Update(CompletionErrMsg{Err: guard.ErrTooSoon})
	m = updated.(Model)

	assert.Equal(t, StateReady, m.state)
	assert.Contains(t, m.notice, "too quickly")
}

func TestSlashCommands(t *testing.T) {
	t.Run("clear resets conversation", func(t *testing.T) {
		m := newTestModel(t)
		m.controller.Conversation().AddUserMessage("something")
		require.Greater(t, m.controller.Conversation().MessageCount(), 1)

		updated, _ := m.handleCommand("/clear")
		m = updated.(Model)

		assert.Equal(t, 1, m.controller.Conversation().MessageCount())
	})

	t.Run("help opens overlay", func(t *testing.T) {
		m := newTestModel(t)
		updated, _ := m.handleCommand("/help")
		m = updated.(Model)
		assert.True(t, m.showHelp)
	})

	t.Run("unknown command shows notice", func(t *testing.T) {
		m := newTestModel(t)
		updated, _ := m.handleCommand("/bogus")
		m = updated.(Model)
		assert.Contains(t, m.notice, "Unknown command")
	})
}

func TestHelpOverlay_DismissedByEsc(t *testing.T) {
	m := newTestModel(t)
	m.showHelp = true

	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)

	assert.False(t, m.showHelp)
}

func TestWaiting_EscCancelsRequest(t *testing.T) {
	m := newTestModel(t)
	m.state = StateWaiting
	oldCtx := m.requestCtx

	updated, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyEsc})
	m = updated.(Model)

	assert.Error(t, oldCtx.Err(), "old request context is cancelled")
	assert.NoError(t, m.requestCtx.Err(), "a fresh context is ready for the next request")
}

func TestSubmitCmd_DeliversReply(t *testing.T) {
	m := newTestModel(t)

	msg := m.submitCmd("hello")()
	comp, ok := msg.(CompletionMsg)
	require.True(t, ok, "expected CompletionMsg, got %T", msg)
	assert.Equal(t, "ok", comp.Reply.Content)
}

func TestSubmitCmd_DeliversError(t *testing.T) {
	ctrl := chatctl.NewController(&stubClient{err: openrouter.ErrUnavailable}, guard.New(1000, time.Millisecond))
	m := New(styles.NewTheme(), ctrl)

	msg := m.submitCmd("hello")()
	errMsg, ok := msg.(CompletionErrMsg)
	require.True(t, ok, "expected CompletionErrMsg, got %T", msg)
	assert.True(t, errors.Is(errMsg.Err, openrouter.ErrUnavailable))
}

func TestView_RendersWithoutSize(t *testing.T) {
	ctrl := chatctl.NewController(&stubClient{reply: "ok"}, guard.New(1000, time.Millisecond))
	m := New(styles.NewTheme(), ctrl)
	assert.Equal(t, "Loading...", m.View())
}

func TestRenderMessages_IncludesGreeting(t *testing.T) {
	m := newTestModel(t)
	out := m.renderMessages()
	assert.Contains(t, out, "Buddy")
}

func TestRender_SafeWhileRequestInFlight(t *testing.T) {
	client := &blockingClient{stubClient: stubClient{reply: "ok"}, release: make(chan struct{})}
	ctrl := chatctl.NewController(client, guard.New(1000, time.Millisecond))
	m := New(styles.NewTheme(), ctrl)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = updated.(Model)

	done := make(chan tea.Msg, 1)
	cmd := m.submitCmd("hello")
	go func() { done <- cmd() }()

	// Keep re-rendering while the submit goroutine appends to the history.
	deadline := time.After(50 * time.Millisecond)
	for rendering := true; rendering; {
		select {
		case <-deadline:
			rendering = false
		default:
			_ = m.renderMessages()
			_ = m.renderHeader()
		}
	}

	close(client.release)
	msg := <-done
	comp, ok := msg.(CompletionMsg)
	require.True(t, ok, "expected CompletionMsg, got %T", msg)
	assert.Equal(t, "ok", comp.Reply.Content)
}

func TestRenderHeader_ClampsSubtitleWidth(t *testing.T) {
	m := newTestModel(t)
	m.controller.Conversation().Title = strings.Repeat("宽", 120)

	out := m.renderHeader()
	// Double-width runes are clamped to the column budget, not rune count.
	assert.LessOrEqual(t, strings.Count(out, "宽"), 40)
	assert.Contains(t, out, "...")
}
