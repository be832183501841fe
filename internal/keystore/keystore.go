// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package keystore persists the OpenRouter API key.
//
// The key is stored in a single fixed file under the config directory,
// base64 encoded with 0600 permissions. The encoding is reversible and is
// NOT encryption; it only keeps the key out of casual shoulder-surfing and
// accidental grep output. Anyone with read access to the file can recover
// the key.
package keystore

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Aiaugie/deepseek-chat-buddy-85/internal/util"
)

// EnvKey is the environment variable checked before the stored file.
const EnvKey = "OPENROUTER_API_KEY"

// keyPrefix is the format every issued OpenRouter key starts with.
const keyPrefix = "sk-or-v1-"

// credentialFile is the fixed file name under the config directory.
const credentialFile = "credential"

// ErrNoCredential indicates no usable credential is stored. A corrupt
// file reports the same way as a missing one: silently absent.
var ErrNoCredential = errors.New("no credential stored")

// Store reads and writes the persisted credential.
type Store struct {
	dir string
}

// NewStore creates a store rooted at the default config directory
// (~/.chatbuddy).
func NewStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return &Store{dir: filepath.Join(home, ".chatbuddy")}, nil
}

// NewStoreWithDir creates a store rooted at dir. Used by tests.
func NewStoreWithDir(dir string) *Store {
	return &Store{dir: dir}
}

// Path returns the credential file path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, credentialFile)
}

// Load returns the stored key. Absence, unreadable files, and decode
// failures all return ErrNoCredential.
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		return "", ErrNoCredential
	}

	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(data)))
	if err != nil {
		return "", ErrNoCredential
	}

	key := strings.TrimSpace(string(decoded))
	if key == "" {
		return "", ErrNoCredential
	}
	return key, nil
}

// Save encodes and persists the key atomically with 0600 permissions.
func (s *Store) Save(key string) error {
	encoded := base64.StdEncoding.EncodeToString([]byte(strings.TrimSpace(key)))
	if err := util.AtomicWriteFile(s.Path(), []byte(encoded), 0600); err != nil {
		return fmt.Errorf("failed to save credential: %w", err)
	}
	return nil
}

// Clear removes the stored credential. Clearing an empty store is not
// an error.
func (s *Store) Clear() error {
	err := os.Remove(s.Path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear credential: %w", err)
	}
	return nil
}

// FromEnv returns the key from the environment, or empty.
func FromEnv() string {
	return strings.TrimSpace(os.Getenv(EnvKey))
}

// Resolve returns the active key: the environment override wins, then the
// stored file. Returns ErrNoCredential when neither is set.
func (s *Store) Resolve() (string, error) {
	if key := FromEnv(); key != "" {
		return key, nil
	}
	return s.Load()
}

// ValidateFormat reports whether the key has OpenRouter's issued format.
// Local check only, no network call.
func ValidateFormat(key string) bool {
	return strings.HasPrefix(strings.TrimSpace(key), keyPrefix)
}
