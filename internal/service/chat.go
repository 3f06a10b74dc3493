package service

import (
	"context"
	"errors"
	"strings"

	"github.com/clearmed/clearmed-api/config"
	"github.com/clearmed/clearmed-api/internal/core"
	"github.com/clearmed/clearmed-api/internal/domain/model"
)

var (
	// ErrChatNotConfigured means no completion provider API key is set.
	ErrChatNotConfigured = errors.New("chat completion provider is not configured")

	// ErrEmptyMessage is returned for blank chat messages.
	ErrEmptyMessage = errors.New("chat message is empty")
)

// ChatServiceOptions groups dependencies for ChatService.
type ChatServiceOptions struct {
	Completions core.CompletionClient
	Assembler   *core.ContextAssembler
	Config      config.ChatConfig
}

// ChatService answers user questions about their scan, grounding the
// assistant on the normalized scan result rather than raw backend payloads.
type ChatService struct {
	completions core.CompletionClient
	assembler   *core.ContextAssembler
	cfg         config.ChatConfig
}

// NewChatService constructs a new ChatService.
func NewChatService(opts ChatServiceOptions) *ChatService {
	return &ChatService{
		completions: opts.Completions,
		assembler:   opts.Assembler,
		cfg:         opts.Config,
	}
}

// Reply produces one assistant reply. A scan result supplied inline takes
// precedence over one resolved from executionID; with neither, the assistant
// answers without scan context.
func (s *ChatService) Reply(
	ctx context.Context,
	message string,
	inline *model.ScanResult,
	executionID string,
) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", ErrEmptyMessage
	}
	if !s.cfg.Enabled() {
		return "", ErrChatNotConfigured
	}

	content := "User message: " + message
	if block := s.assembler.ContextBlock(ctx, inline, executionID); block != "" {
		content = strings.TrimLeft(block, "\n") + "\n" + content
	}

	return s.completions.Complete(ctx, core.SystemPrompt(), content)
}
