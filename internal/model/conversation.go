// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/openrouter"
)

// Greeting is the assistant message every fresh conversation starts with.
const Greeting = "Hi! I'm your chat buddy. Ask me anything."

// =============================================================================
// CONVERSATION TYPE
// =============================================================================

// Conversation holds an ordered, append-only chat history. A conversation
// is never empty: it always starts with the assistant greeting, and Reset
// returns it to exactly that state.
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Messages []*Message `json:"messages"`

	Model string `json:"model"`
}

// NewConversation creates a new conversation seeded with the greeting.
func NewConversation() *Conversation {
	c := &Conversation{
		ID:        uuid.NewString(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	c.Messages = []*Message{NewAssistantMessage(Greeting)}
	return c
}

// NewConversationWithModel creates a new conversation tagged with a model.
func NewConversationWithModel(model string) *Conversation {
	conv := NewConversation()
	conv.Model = model
	return conv
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message to the conversation. History is append-only;
// nothing is ever dropped short of a full Reset.
func (c *Conversation) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.updateTitle()
}

// AddUserMessage creates and appends a user message.
func (c *Conversation) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddAssistantMessage creates and appends an assistant message.
func (c *Conversation) AddAssistantMessage(content string) *Message {
	msg := NewAssistantMessage(content)
	c.AddMessage(msg)
	return msg
}

// Reset discards the history and reseeds the greeting. The conversation
// holds exactly one assistant message afterwards.
func (c *Conversation) Reset() {
	c.Messages = []*Message{NewAssistantMessage(Greeting)}
	c.Title = ""
	c.UpdatedAt = time.Now()
}

// GetLastMessage returns the most recent message, or nil if empty.
func (c *Conversation) GetLastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// GetLastUserMessage returns the most recent user message.
func (c *Conversation) GetLastUserMessage() *Message {
	for i := len(c.Messages) - 1; i >= 0; i-- {
		if c.Messages[i].Role == RoleUser {
			return c.Messages[i]
		}
	}
	return nil
}

// MessageCount returns the number of messages.
func (c *Conversation) MessageCount() int {
	return len(c.Messages)
}

// GetHistory returns the message history for display.
func (c *Conversation) GetHistory() []*Message {
	return c.Messages
}

// =============================================================================
// WIRE CONVERSION
// =============================================================================

// ToChatMessages serializes the full history into the completion wire
// format, skipping empty messages.
func (c *Conversation) ToChatMessages() []openrouter.ChatMessage {
	messages := make([]openrouter.ChatMessage, 0, len(c.Messages))
	for _, msg := range c.Messages {
		if msg.Content == "" {
			continue
		}
		switch msg.Role {
		case RoleUser, RoleAssistant:
			messages = append(messages, openrouter.ChatMessage{
				Role:    msg.Role.String(),
				Content: msg.Content,
			})
		}
	}
	return messages
}

// =============================================================================
// TOKEN TRACKING
// =============================================================================

// EstimateTokens estimates the total token count of the conversation.
// Each message carries ~4 tokens of structural overhead.
func (c *Conversation) EstimateTokens() int {
	total := 0
	for _, msg := range c.Messages {
		total += msg.EstimateTokens() + 4
	}
	return total
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// updateTitle auto-generates a title from the first user message if not set.
func (c *Conversation) updateTitle() {
	if c.Title != "" {
		return
	}
	for _, msg := range c.Messages {
		if msg.Role == RoleUser {
			c.Title = msg.Preview(50)
			return
		}
	}
}

// GetTitle returns the conversation title or a default.
func (c *Conversation) GetTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "New Conversation"
}

// Preview returns a short preview of the conversation.
func (c *Conversation) Preview() string {
	last := c.GetLastUserMessage()
	if last == nil {
		last = c.Messages[0]
	}
	return last.Preview(100)
}

// =============================================================================
// SNAPSHOTS
// =============================================================================

// Clone returns a copy with its own message slice. Messages are immutable
// once created, so the copy shares them.
func (c *Conversation) Clone() *Conversation {
	dup := *c
	dup.Messages = make([]*Message, len(c.Messages))
	copy(dup.Messages, c.Messages)
	return &dup
}
