package llm

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabled_Generate(t *testing.T) {
	_, err := Disabled{}.Generate(context.Background(), "anything")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	t.Run("gemini without key is disabled", func(t *testing.T) {
		gen, err := New(ctx, Options{Provider: "gemini"})
		require.NoError(t, err)
		assert.IsType(t, Disabled{}, gen)
	})

	t.Run("claude with key", func(t *testing.T) {
		gen, err := New(ctx, Options{Provider: "Claude", ClaudeKey: "k"})
		require.NoError(t, err)
		assert.IsType(t, &ClaudeClient{}, gen)
	})

	t.Run("claude without key is disabled", func(t *testing.T) {
		gen, err := New(ctx, Options{Provider: "claude"})
		require.NoError(t, err)
		assert.IsType(t, Disabled{}, gen)
	})

	t.Run("explicitly off", func(t *testing.T) {
		gen, err := New(ctx, Options{Provider: "none", GeminiKey: "k"})
		require.NoError(t, err)
		assert.IsType(t, Disabled{}, gen)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := New(ctx, Options{Provider: "markov"})
		assert.Error(t, err)
	})
}

func TestCandidateText(t *testing.T) {
	t.Run("joins text parts", func(t *testing.T) {
		resp := &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Text("Sure, "), genai.Text("happy to help.")}},
			}},
		}
		text, err := candidateText(resp)
		require.NoError(t, err)
		assert.Equal(t, "Sure, happy to help.", text)
	})

	t.Run("no candidates", func(t *testing.T) {
		_, err := candidateText(&genai.GenerateContentResponse{})
		assert.Error(t, err)
	})

	t.Run("nil content", func(t *testing.T) {
		_, err := candidateText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}})
		assert.Error(t, err)
	})
}
