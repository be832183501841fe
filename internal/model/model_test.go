// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// MESSAGE TESTS
// =============================================================================

func TestNewMessage_GeneratesUniqueIDs(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		msg := NewUserMessage("hello")
		require.True(t, strings.HasPrefix(msg.ID, "msg_"), "ID should have msg_ prefix")
		assert.False(t, seen[msg.ID], "IDs should be unique")
		seen[msg.ID] = true
	}
}

func TestNewMessage_SetsFields(t *testing.T) {
	msg := NewAssistantMessage("hi there")
	assert.Equal(t, RoleAssistant, msg.Role)
	assert.Equal(t, "hi there", msg.Content)
	assert.False(t, msg.Timestamp.IsZero())
}

func TestMessage_Preview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		maxLen  int
		want    string
	}{
		{"short", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"truncated", "hello world", 8, "hello..."},
		{"unicode", "héllo wörld", 8, "héllo..."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := NewUserMessage(tc.content)
			assert.Equal(t, tc.want, msg.Preview(tc.maxLen))
		})
	}
}

func TestMessage_EstimateTokens(t *testing.T) {
	msg := NewUserMessage("12345678") // 8 chars -> 2 tokens
	assert.Equal(t, 2, msg.EstimateTokens())
}

func TestRole_DisplayName(t *testing.T) {
	assert.Equal(t, "You", RoleUser.DisplayName())
	assert.Equal(t, "Buddy", RoleAssistant.DisplayName())
}

// =============================================================================
// CONVERSATION TESTS
// =============================================================================

func TestNewConversation_SeedsGreeting(t *testing.T) {
	conv := NewConversation()

	require.Equal(t, 1, conv.MessageCount())
	greeting := conv.GetLastMessage()
	assert.Equal(t, RoleAssistant, greeting.Role)
	assert.Equal(t, Greeting, greeting.Content)
	assert.NotEmpty(t, conv.ID)
}

func TestConversation_AddMessagesKeepsOrder(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("first")
	conv.AddAssistantMessage("second")
	conv.AddUserMessage("third")

	require.Equal(t, 4, conv.MessageCount())
	assert.Equal(t, "first", conv.Messages[1].Content)
	assert.Equal(t, "second", conv.Messages[2].Content)
	assert.Equal(t, "third", conv.Messages[3].Content)
}

func TestConversation_Reset(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("hello")
	conv.AddAssistantMessage("hi")

	conv.Reset()

	require.Equal(t, 1, conv.MessageCount())
	msg := conv.GetLastMessage()
	assert.Equal(t, RoleAssistant, msg.Role)
	assert.Equal(t, Greeting, msg.Content)
}

func TestConversation_ResetTwiceStillOneGreeting(t *testing.T) {
	conv := NewConversation()
	conv.Reset()
	conv.Reset()
	assert.Equal(t, 1, conv.MessageCount())
}

func TestConversation_ToChatMessages(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("question")
	conv.AddAssistantMessage("answer")

	wire := conv.ToChatMessages()

	require.Len(t, wire, 3)
	assert.Equal(t, "assistant", wire[0].Role)
	assert.Equal(t, Greeting, wire[0].Content)
	assert.Equal(t, "user", wire[1].Role)
	assert.Equal(t, "question", wire[1].Content)
	assert.Equal(t, "assistant", wire[2].Role)
	assert.Equal(t, "answer", wire[2].Content)
}

func TestConversation_ToChatMessagesSkipsEmpty(t *testing.T) {
	conv := NewConversation()
	conv.AddMessage(NewUserMessage(""))
	conv.AddUserMessage("real")

	wire := conv.ToChatMessages()
	require.Len(t, wire, 2)
	assert.Equal(t, "real", wire[1].Content)
}

func TestConversation_TitleFromFirstUserMessage(t *testing.T) {
	conv := NewConversation()
	assert.Equal(t, "New Conversation", conv.GetTitle())

	conv.AddUserMessage("what is the capital of France?")
	assert.Equal(t, "what is the capital of France?", conv.GetTitle())
}

func TestConversation_HistoryNeverDropped(t *testing.T) {
	conv := NewConversation()
	for i := 0; i < 1500; i++ {
		conv.AddUserMessage("filler")
	}

	assert.Equal(t, 1501, conv.MessageCount())
	assert.Equal(t, Greeting, conv.Messages[0].Content)
}

func TestConversation_Clone(t *testing.T) {
	conv := NewConversation()
	conv.AddUserMessage("hello")

	dup := conv.Clone()
	conv.AddAssistantMessage("reply")

	assert.Equal(t, 2, dup.MessageCount(), "clone is unaffected by later appends")
	assert.Equal(t, 3, conv.MessageCount())
	assert.Equal(t, conv.ID, dup.ID)
}

func TestConversation_GetLastUserMessage(t *testing.T) {
	conv := NewConversation()
	assert.Nil(t, conv.GetLastUserMessage())

	conv.AddUserMessage("one")
	conv.AddAssistantMessage("reply")
	conv.AddUserMessage("two")

	last := conv.GetLastUserMessage()
	require.NotNil(t, last)
	assert.Equal(t, "two", last.Content)
}
