// Package llm wraps the text-generation providers used for free-form
// conversation turns.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotConfigured is returned by a Generator that has no provider behind it.
var ErrNotConfigured = errors.New("language model not configured")

// Generator turns a prompt into text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Disabled is a Generator that always fails with ErrNotConfigured. Callers
// fall back to canned replies.
type Disabled struct{}

func (Disabled) Generate(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

// Options selects and configures a provider.
type Options struct {
	Provider    string // "gemini" or "claude"
	GeminiKey   string
	GeminiModel string
	ClaudeKey   string
	ClaudeModel string
	Temperature float64
}

// New builds the Generator named by opts.Provider. A provider without an API
// key yields Disabled rather than an error.
func New(ctx context.Context, opts Options) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Provider)) {
	case "", "gemini":
		if opts.GeminiKey == "" {
			return Disabled{}, nil
		}
		return NewGeminiClient(ctx, opts.GeminiKey, opts.GeminiModel)
	case "claude", "anthropic":
		client := NewClaudeClient(opts.ClaudeKey, opts.ClaudeModel, opts.Temperature)
		if !client.IsConfigured() {
			return Disabled{}, nil
		}
		return client, nil
	case "none", "off":
		return Disabled{}, nil
	default:
		return nil, fmt.Errorf("unknown language model provider %q", opts.Provider)
	}
}
