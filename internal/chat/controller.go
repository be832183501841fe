// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat coordinates the conversation, the input guard, and the
// completion client.
package chat

import (
	"context"
	"errors"
	"sync"

	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/guard"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/model"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/openrouter"
)

// PlaceholderReply is appended when a successful response carries no
// usable content.
const PlaceholderReply = "Sorry, I could not generate a response."

var (
	// ErrCredentialRequired indicates no API key is configured. No request
	// is made and the conversation is left unchanged.
	ErrCredentialRequired = errors.New("credential required")

	// ErrBusy indicates a request is already in flight. Submissions are
	// rejected while pending, never queued.
	ErrBusy = errors.New("a request is already in flight")
)

// CompletionClient is the remote surface the controller needs. Satisfied
// by *openrouter.Client.
type CompletionClient interface {
	Chat(ctx context.Context, messages []openrouter.ChatMessage) (*openrouter.ChatResponse, error)
	IsConfigured() bool
}

// Controller owns a conversation and drives the submit cycle:
// guard check, append user message, one completion request, append the
// reply. At most one request is in flight at a time.
type Controller struct {
	mu      sync.Mutex
	conv    *model.Conversation
	client  CompletionClient
	guard   *guard.Guard
	pending bool
}

// NewController creates a controller over a fresh conversation.
func NewController(client CompletionClient, g *guard.Guard) *Controller {
	return &Controller{
		conv:   model.NewConversation(),
		client: client,
		guard:  g,
	}
}

// Conversation returns the live conversation. For single-goroutine
// callers only; anything reading concurrently with Submit must go
// through Messages, Title, or Snapshot instead.
func (c *Controller) Conversation() *model.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conv
}

// Messages returns a point-in-time copy of the history. Safe to call
// while a Submit runs on another goroutine.
func (c *Controller) Messages() []*model.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	msgs := make([]*model.Message, len(c.conv.Messages))
	copy(msgs, c.conv.Messages)
	return msgs
}

// Title returns the conversation title under lock.
func (c *Controller) Title() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conv.GetTitle()
}

// Snapshot returns a copy of the conversation. Safe to export while a
// Submit runs on another goroutine.
func (c *Controller) Snapshot() *model.Conversation {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conv.Clone()
}

// Pending reports whether a request is in flight.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

// MaxInputLen returns the guard's post-sanitization length limit in runes.
func (c *Controller) MaxInputLen() int {
	return c.guard.MaxLen()
}

// Reset discards the history, reseeds the greeting, and clears pending.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conv.Reset()
	c.pending = false
}

// Submit runs one full submission cycle for raw user input and returns
// the appended assistant message.
//
// Rejections leave the conversation unchanged: ErrBusy while a request is
// in flight, ErrCredentialRequired without a key, and the guard's typed
// errors for bad input. On acceptance the user message is appended first;
// a failed request then surfaces one of the client's sentinel errors and
// appends nothing. Pending is cleared on every path.
func (c *Controller) Submit(ctx context.Context, raw string) (*model.Message, error) {
	c.mu.Lock()

	if c.pending {
		c.mu.Unlock()
		return nil, ErrBusy
	}
	if !c.client.IsConfigured() {
		c.mu.Unlock()
		return nil, ErrCredentialRequired
	}

	clean, err := c.guard.Check(raw)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}

	c.conv.AddUserMessage(clean)
	c.pending = true
	history := c.conv.ToChatMessages()
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.pending = false
		c.mu.Unlock()
	}()

	resp, err := c.client.Chat(ctx, history)
	if err != nil {
		return nil, err
	}

	content := resp.GetContent()
	if content == "" {
		content = PlaceholderReply
	}

	c.mu.Lock()
	reply := c.conv.AddAssistantMessage(content)
	c.mu.Unlock()
	return reply, nil
}

// NoticeFor maps a Submit error to a short notice for display. Returns
// an empty string for nil.
func NoticeFor(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBusy):
		return "Hold on, I'm still working on your last message."
	case errors.Is(err, ErrCredentialRequired), errors.Is(err, openrouter.ErrNotConfigured):
		return "No API key configured. Run 'chatbuddy auth login' first."
	case errors.Is(err, guard.ErrEmpty):
		return "Please type a message first."
	case errors.Is(err, guard.ErrTooLong):
		return "That message is too long. Keep it under the limit and try again."
	case errors.Is(err, guard.ErrTooSoon):
		return "You're sending messages too quickly. Wait a moment."
	case errors.Is(err, openrouter.ErrAuthFailed):
		return "The API rejected your key. Run 'chatbuddy auth login' to update it."
	case errors.Is(err, openrouter.ErrRateLimited):
		return "The service is rate limiting us. Try again shortly."
	case errors.Is(err, context.Canceled):
		return "Request cancelled."
	default:
		return "The service is unavailable right now. Try again later."
	}
}
