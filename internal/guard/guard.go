// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package guard screens user input before it reaches the completion client.
package guard

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrEmpty indicates the input was empty after sanitization.
	ErrEmpty = errors.New("message is empty")

	// ErrTooLong indicates the input exceeded the maximum length.
	ErrTooLong = errors.New("message is too long")

	// ErrTooSoon indicates the input arrived before the minimum interval
	// since the last accepted submission elapsed.
	ErrTooSoon = errors.New("message submitted too soon")
)

// =============================================================================
// SANITIZATION
// =============================================================================

// Removal patterns for markup that has no business in a chat prompt.
// This is best-effort hygiene, not a security boundary.
var (
	scriptRe  = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script\s*>`)
	jsURIRe   = regexp.MustCompile(`(?i)javascript:`)
	handlerRe = regexp.MustCompile(`(?i)\son\w+\s*=\s*(?:"[^"]*"|'[^']*'|[^\s>]+)`)
)

// Sanitize strips script blocks, javascript: URI schemes, and inline event
// handler attributes, then trims surrounding whitespace. Removal repeats
// until a fixpoint so that text reassembled by a removal (for example
// "jjavascript:avascript:") cannot survive a single pass. Sanitize is
// idempotent: Sanitize(Sanitize(s)) == Sanitize(s).
func Sanitize(raw string) string {
	s := raw
	for {
		next := scriptRe.ReplaceAllString(s, "")
		next = jsURIRe.ReplaceAllString(next, "")
		next = handlerRe.ReplaceAllString(next, "")
		if next == s {
			break
		}
		s = next
	}
	return strings.TrimSpace(s)
}

// =============================================================================
// GUARD
// =============================================================================

// Guard runs the full input pipeline: sanitize, then validate in a fixed
// order so every rejection carries exactly one reason, then advance the
// rate gate on acceptance.
type Guard struct {
	maxLen  int
	limiter *rate.Limiter
	now     func() time.Time
}

// Option customizes a Guard.
type Option func(*Guard)

// WithClock replaces the time source. Used by tests to drive the rate
// gate deterministically.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) {
		g.now = now
	}
}

// New creates a Guard enforcing a maximum input length in runes and a
// minimum interval between accepted submissions. The rate gate has burst 1:
// the first submission passes, then one more per interval.
func New(maxLen int, minInterval time.Duration, opts ...Option) *Guard {
	g := &Guard{
		maxLen:  maxLen,
		limiter: rate.NewLimiter(rate.Every(minInterval), 1),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Check sanitizes raw input and validates it. On acceptance it returns the
// sanitized text and consumes one rate token. On rejection it returns one
// of ErrEmpty, ErrTooLong, or ErrTooSoon, checked in that order, and the
// rate gate is left untouched.
func (g *Guard) Check(raw string) (string, error) {
	clean := Sanitize(raw)

	if clean == "" {
		return "", ErrEmpty
	}
	if len([]rune(clean)) > g.maxLen {
		return "", ErrTooLong
	}
	if !g.limiter.AllowN(g.now(), 1) {
		return "", ErrTooSoon
	}

	return clean, nil
}

// MaxLen returns the configured maximum input length in runes.
func (g *Guard) MaxLen() int {
	return g.maxLen
}
