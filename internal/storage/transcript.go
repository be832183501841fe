// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides explicit transcript export for chat-buddy.
//
// Conversations live in memory only; nothing is persisted automatically.
// Export writes a one-off copy of the current conversation when the user
// asks for one.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/model"
	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/util"
)

// Format selects the export encoding.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// =============================================================================
// TRANSCRIPT TYPE
// =============================================================================

// Transcript is a point-in-time snapshot of a conversation for export.
type Transcript struct {
	ID         string              `json:"id"`
	Title      string              `json:"title"`
	Model      string              `json:"model,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
	ExportedAt time.Time           `json:"exported_at"`
	Messages   []TranscriptMessage `json:"messages"`
}

// TranscriptMessage is one exported message.
type TranscriptMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// FromConversation snapshots a conversation into a Transcript.
func FromConversation(conv *model.Conversation) *Transcript {
	t := &Transcript{
		ID:         conv.ID,
		Title:      conv.GetTitle(),
		Model:      conv.Model,
		CreatedAt:  conv.CreatedAt,
		ExportedAt: time.Now(),
		Messages:   make([]TranscriptMessage, 0, conv.MessageCount()),
	}
	for _, msg := range conv.GetHistory() {
		t.Messages = append(t.Messages, TranscriptMessage{
			ID:        msg.ID,
			Role:      msg.Role.String(),
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		})
	}
	return t
}

// MessageCount returns the number of exported messages.
func (t *Transcript) MessageCount() int {
	return len(t.Messages)
}

// =============================================================================
// EXPORT ENCODINGS
// =============================================================================

// ExportMarkdown renders the transcript as Markdown with role labels and
// timestamps.
func (t *Transcript) ExportMarkdown() string {
	var sb strings.Builder
	sb.WriteString("# " + t.Title + "\n\n")
	sb.WriteString("Created: " + t.CreatedAt.Format(time.RFC3339) + "\n\n")
	sb.WriteString("---\n\n")

	for _, msg := range t.Messages {
		role := "**You**"
		if msg.Role == "assistant" {
			role = "**Buddy**"
		}
		sb.WriteString(role + " (" + msg.Timestamp.Format("15:04") + "):\n\n")
		sb.WriteString(msg.Content)
		sb.WriteString("\n\n---\n\n")
	}

	return sb.String()
}

// ExportJSON renders the transcript as pretty-printed JSON.
func (t *Transcript) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(t, "", "  ")
}

// =============================================================================
// EXPORTER
// =============================================================================

// Exporter writes transcripts into a target directory.
type Exporter struct {
	// Dir is the directory export files are written to.
	Dir string
}

// NewExporter creates an exporter targeting ~/.chatbuddy/exports.
func NewExporter() (*Exporter, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return &Exporter{Dir: filepath.Join(home, ".chatbuddy", "exports")}, nil
}

// NewExporterWithDir creates an exporter targeting dir. Used by tests.
func NewExporterWithDir(dir string) *Exporter {
	return &Exporter{Dir: dir}
}

// Write exports the transcript in the given format and returns the path
// of the file written. File names carry a fresh UUID so repeated exports
// never collide.
func (e *Exporter) Write(t *Transcript, format Format) (string, error) {
	var (
		data []byte
		ext  string
		err  error
	)

	switch format {
	case FormatJSON:
		data, err = t.ExportJSON()
		if err != nil {
			return "", fmt.Errorf("failed to encode transcript: %w", err)
		}
		ext = "json"
	case FormatMarkdown:
		data = []byte(t.ExportMarkdown())
		ext = "md"
	default:
		return "", fmt.Errorf("unknown export format %q", format)
	}

	name := fmt.Sprintf("chat-%s-%s.%s", t.ExportedAt.Format("20060102-150405"), uuid.NewString()[:8], ext)
	path := filepath.Join(e.Dir, name)

	if err := util.AtomicWriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export: %w", err)
	}
	return path, nil
}
