// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/guard"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/model"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/openrouter"
)

// fakeClient is a scriptable CompletionClient.
type fakeClient struct {
	configured bool
	reply      string
	err        error

	// When set, Chat blocks until the channel is closed.
	block chan struct{}

	calls    int
	lastSent []openrouter.ChatMessage
}

func (f *fakeClient) Chat(ctx context.Context, messages []openrouter.ChatMessage) (*openrouter.ChatResponse, error) {
	f.calls++
	f.lastSent = messages
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	resp := &openrouter.ChatResponse{}
	if f.reply != "" {
		resp.Choices = append(resp.Choices, struct {
			Message      openrouter.ChatMessage `json:"message"`
			FinishReason string                 `json:"finish_reason"`
		}{Message: openrouter.NewAssistantMessage(f.reply), FinishReason: "stop"})
	}
	return resp, nil
}

func (f *fakeClient) IsConfigured() bool {
	return f.configured
}

func newTestController(client *fakeClient) *Controller {
	g := guard.New(1000, time.Millisecond)
	return NewController(client, g)
}

// =============================================================================
// SUBMIT TESTS
// =============================================================================

func TestSubmit_Success(t *testing.T) {
	client := &fakeClient{configured: true, reply: "Paris is the capital."}
	ctrl := newTestController(client)

	reply, err := ctrl.Submit(context.Background(), "capital of France?")
	require.NoError(t, err)

	assert.Equal(t, model.RoleAssistant, reply.Role)
	assert.Equal(t, "Paris is the capital.", reply.Content)

	// greeting + user + assistant
	conv := ctrl.Conversation()
	require.Equal(t, 3, conv.MessageCount())
	assert.Equal(t, "capital of France?", conv.Messages[1].Content)
	assert.False(t, ctrl.Pending())
}

func TestSubmit_SendsFullHistory(t *testing.T) {
	client := &fakeClient{configured: true, reply: "ok"}
	ctrl := newTestController(client)

	_, err := ctrl.Submit(context.Background(), "hello")
	require.NoError(t, err)

	// Greeting plus the new user message, in order.
	require.Len(t, client.lastSent, 2)
	assert.Equal(t, "assistant", client.lastSent[0].Role)
	assert.Equal(t, model.Greeting, client.lastSent[0].Content)
	assert.Equal(t, "user", client.lastSent[1].Role)
	assert.Equal(t, "hello", client.lastSent[1].Content)
}

func TestSubmit_NoCredential(t *testing.T) {
	client := &fakeClient{configured: false}
	ctrl := newTestController(client)

	_, err := ctrl.Submit(context.Background(), "hello")
	assert.ErrorIs(t, err, ErrCredentialRequired)
	assert.Equal(t, 0, client.calls, "no request without a credential")
	assert.Equal(t, 1, ctrl.Conversation().MessageCount(), "conversation unchanged")
	assert.False(t, ctrl.Pending())
}

func TestSubmit_GuardRejection(t *testing.T) {
	client := &fakeClient{configured: true, reply: "ok"}
	ctrl := newTestController(client)

	_, err := ctrl.Submit(context.Background(), "   ")
	assert.ErrorIs(t, err, guard.ErrEmpty)
	assert.Equal(t, 0, client.calls)
	assert.Equal(t, 1, ctrl.Conversation().MessageCount())
}

func TestSubmit_RateLimitedLocally(t *testing.T) {
	client := &fakeClient{configured: true, reply: "ok"}
	g := guard.New(1000, time.Hour) // second submit can never pass
	ctrl := NewController(client, g)

	_, err := ctrl.Submit(context.Background(), "first")
	require.NoError(t, err)
	before := ctrl.Conversation().MessageCount()

	_, err = ctrl.Submit(context.Background(), "second")
	assert.ErrorIs(t, err, guard.ErrTooSoon)
	assert.Equal(t, before, ctrl.Conversation().MessageCount(), "sequence length unchanged")
	assert.Equal(t, 1, client.calls)
}

func TestSubmit_AuthFailure(t *testing.T) {
	client := &fakeClient{configured: true, err: openrouter.ErrAuthFailed}
	ctrl := newTestController(client)

	_, err := ctrl.Submit(context.Background(), "hello")
	assert.ErrorIs(t, err, openrouter.ErrAuthFailed)

	// The user message stays, no assistant message is appended.
	conv := ctrl.Conversation()
	require.Equal(t, 2, conv.MessageCount())
	assert.Equal(t, model.RoleUser, conv.GetLastMessage().Role)
	assert.False(t, ctrl.Pending())
}

func TestSubmit_ServiceUnavailable(t *testing.T) {
	client := &fakeClient{configured: true, err: openrouter.ErrUnavailable}
	ctrl := newTestController(client)

	_, err := ctrl.Submit(context.Background(), "hello")
	assert.ErrorIs(t, err, openrouter.ErrUnavailable)
	assert.False(t, ctrl.Pending())
}

func TestSubmit_PlaceholderOnEmptyContent(t *testing.T) {
	client := &fakeClient{configured: true, reply: ""} // 200 with no choices
	ctrl := newTestController(client)

	reply, err := ctrl.Submit(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, PlaceholderReply, reply.Content)
}

func TestSubmit_BusyWhilePending(t *testing.T) {
	client := &fakeClient{configured: true, reply: "done", block: make(chan struct{})}
	ctrl := newTestController(client)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := ctrl.Submit(context.Background(), "slow one")
		assert.NoError(t, err)
	}()

	// Wait until the first submit is in flight.
	require.Eventually(t, ctrl.Pending, time.Second, time.Millisecond)

	_, err := ctrl.Submit(context.Background(), "impatient")
	assert.ErrorIs(t, err, ErrBusy)

	close(client.block)
	<-done

	assert.False(t, ctrl.Pending())
	assert.Equal(t, 1, client.calls)
}

func TestSubmit_ConcurrentReadersSeeConsistentHistory(t *testing.T) {
	client := &fakeClient{configured: true, reply: "done", block: make(chan struct{})}
	ctrl := newTestController(client)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := ctrl.Submit(context.Background(), "hello")
		assert.NoError(t, err)
	}()

	// Hammer the read-side accessors while the request is in flight.
	deadline := time.After(50 * time.Millisecond)
	for reading := true; reading; {
		select {
		case <-deadline:
			reading = false
		default:
			_ = ctrl.Messages()
			_ = ctrl.Title()
			_ = ctrl.Snapshot()
			_ = ctrl.Pending()
		}
	}

	close(client.block)
	<-done

	msgs := ctrl.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "done", msgs[2].Content)
}

func TestMessages_ReturnsCopy(t *testing.T) {
	ctrl := newTestController(&fakeClient{configured: true})

	msgs := ctrl.Messages()
	require.Len(t, msgs, 1)
	msgs[0] = nil

	assert.NotNil(t, ctrl.Messages()[0], "mutating the returned slice must not touch the history")
}

func TestSnapshot_UnaffectedByLaterAppends(t *testing.T) {
	client := &fakeClient{configured: true, reply: "ok"}
	ctrl := newTestController(client)

	snap := ctrl.Snapshot()
	_, err := ctrl.Submit(context.Background(), "hello")
	require.NoError(t, err)

	assert.Equal(t, 1, snap.MessageCount())
	assert.Equal(t, 3, ctrl.Snapshot().MessageCount())
}

func TestSubmit_PendingClearedOnFailure(t *testing.T) {
	client := &fakeClient{configured: true, err: openrouter.ErrRateLimited}
	ctrl := newTestController(client)

	_, err := ctrl.Submit(context.Background(), "hello")
	require.Error(t, err)
	assert.False(t, ctrl.Pending())

	// The controller accepts new submissions again.
	client.err = nil
	client.reply = "recovered"
	time.Sleep(2 * time.Millisecond) // clear the guard interval
	reply, err := ctrl.Submit(context.Background(), "retry")
	require.NoError(t, err)
	assert.Equal(t, "recovered", reply.Content)
}

// =============================================================================
// RESET TESTS
// =============================================================================

func TestReset(t *testing.T) {
	client := &fakeClient{configured: true, reply: "ok"}
	ctrl := newTestController(client)

	_, err := ctrl.Submit(context.Background(), "hello")
	require.NoError(t, err)
	require.Greater(t, ctrl.Conversation().MessageCount(), 1)

	ctrl.Reset()

	conv := ctrl.Conversation()
	require.Equal(t, 1, conv.MessageCount())
	assert.Equal(t, model.Greeting, conv.GetLastMessage().Content)
	assert.False(t, ctrl.Pending())
}

// =============================================================================
// NOTICE TESTS
// =============================================================================

func TestNoticeFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"busy", ErrBusy, "still working"},
		{"no credential", ErrCredentialRequired, "No API key"},
		{"empty", guard.ErrEmpty, "type a message"},
		{"too long", guard.ErrTooLong, "too long"},
		{"too soon", guard.ErrTooSoon, "too quickly"},
		{"auth", openrouter.ErrAuthFailed, "rejected your key"},
		{"rate limited", openrouter.ErrRateLimited, "rate limiting"},
		{"unavailable", openrouter.ErrUnavailable, "unavailable"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			notice := NoticeFor(tc.err)
			if tc.want == "" {
				assert.Empty(t, notice)
			} else {
				assert.Contains(t, notice, tc.want)
			}
		})
	}
}
