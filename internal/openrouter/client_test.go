// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package openrouter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "sk-or-v1-0123456789abcdef0123456789abcdef"

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client := NewClient(testKey).WithBaseURL(srv.URL)
	return srv, client
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestChat_Success(t *testing.T) {
	var gotReq ChatRequest
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer "+testKey, r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"id": "gen-123",
			"model": "deepseek/deepseek-chat",
			"choices": [{"message": {"role": "assistant", "content": "Paris."}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 3, "total_tokens": 13}
		}`))
	})

	resp, err := client.Chat(context.Background(), []ChatMessage{
		NewUserMessage("capital of France?"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Paris.", resp.GetContent())

	// Fixed generation parameters ride along on every request.
	assert.Equal(t, DefaultModel, gotReq.Model)
	assert.InDelta(t, DefaultTemperature, gotReq.Temperature, 0.001)
	assert.Equal(t, DefaultMaxTokens, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
}

func TestChat_NotConfigured(t *testing.T) {
	client := NewClient("")
	_, err := client.Chat(context.Background(), []ChatMessage{NewUserMessage("hi")})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestChat_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"unauthorized", 401, `{"error":{"code":"invalid_key","message":"bad key"}}`, ErrAuthFailed},
		{"unauthorized no body", 401, ``, ErrAuthFailed},
		{"rate limited", 429, `{"error":{"message":"slow down"}}`, ErrRateLimited},
		{"server error", 500, `{"error":{"message":"boom"}}`, ErrUnavailable},
		{"bad gateway", 502, `oops`, ErrUnavailable},
		{"not found", 404, `{"error":{"message":"no such model"}}`, ErrUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				w.Write([]byte(tc.body))
			})

			_, err := client.Chat(context.Background(), []ChatMessage{NewUserMessage("hi")})
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestChat_TransportErrorIsUnavailable(t *testing.T) {
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close() // Connection refused from here on.

	_, err := client.Chat(context.Background(), []ChatMessage{NewUserMessage("hi")})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestChat_SingleAttempt(t *testing.T) {
	calls := 0
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.Chat(context.Background(), []ChatMessage{NewUserMessage("hi")})
	require.Error(t, err)
	assert.Equal(t, 1, calls, "a failed request must not be retried")
}

func TestChat_EmptyChoices(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"id": "gen-1", "choices": []}`))
	})

	resp, err := client.Chat(context.Background(), []ChatMessage{NewUserMessage("hi")})
	require.NoError(t, err)
	assert.Equal(t, "", resp.GetContent())
}

// =============================================================================
// KEY VERIFICATION TESTS
// =============================================================================

func TestVerifyKey(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{"accepted", 200, nil},
		{"unauthorized", 401, ErrAuthFailed},
		{"forbidden", 403, ErrAuthFailed},
		{"server error", 500, ErrUnavailable},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodGet, r.Method)
				assert.Equal(t, "/models", r.URL.Path)
				assert.Equal(t, "Bearer "+testKey, r.Header.Get("Authorization"))
				w.WriteHeader(tc.status)
			})

			err := client.VerifyKey(context.Background())
			if tc.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}

func TestVerifyKey_NetworkVsAuthDistinguishable(t *testing.T) {
	srv, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	err := client.VerifyKey(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.NotErrorIs(t, err, ErrAuthFailed)
}

func TestVerifyKey_NotConfigured(t *testing.T) {
	err := NewClient("").VerifyKey(context.Background())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

// =============================================================================
// MODEL LISTING TESTS
// =============================================================================

func TestListModels(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": [
			{"id": "deepseek/deepseek-chat", "name": "DeepSeek Chat", "context_length": 64000},
			{"id": "openai/gpt-4o", "name": "GPT-4o", "context_length": 128000}
		]}`))
	})

	models, err := client.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "deepseek/deepseek-chat", models[0].ID)
	assert.Equal(t, 64000, models[0].ContextSize)
}

// =============================================================================
// KEY FORMAT AND MASKING TESTS
// =============================================================================

func TestValidateAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want bool
	}{
		{"sk-or-v1-0123456789abcdef", true},
		{"  sk-or-v1-abc  ", true},
		{"sk-or-v2-0123456789abcdef", false},
		{"sk-ant-0123456789abcdef", false},
		{"", false},
		{"random", false},
	}

	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidateAPIKey(tc.key))
		})
	}
}

func TestAPIKeyMasked_NeverExposesKey(t *testing.T) {
	client := NewClient(testKey)
	masked := client.APIKeyMasked()
	assert.NotContains(t, masked, "sk-or", "masked form must not contain key material")
	assert.Contains(t, masked, "REDACTED")

	assert.Equal(t, "[not set]", NewClient("").APIKeyMasked())
}

func TestKeyFingerprint_StablePerKey(t *testing.T) {
	a := NewClient(testKey)
	b := NewClient(testKey)
	c := NewClient("sk-or-v1-different")

	assert.Equal(t, a.KeyFingerprint(), b.KeyFingerprint())
	assert.NotEqual(t, a.KeyFingerprint(), c.KeyFingerprint())
	assert.Len(t, a.KeyFingerprint(), 8)
}
