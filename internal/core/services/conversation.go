package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Conversation holds an ordered chat history against an LLM.
// It is not safe for concurrent use.
type Conversation struct {
	llm      driven.LLMService
	opts     driven.ChatOptions
	messages []driven.ChatMessage
}

// NewConversation creates an empty conversation.
func NewConversation(llm driven.LLMService, opts driven.ChatOptions) *Conversation {
	return &Conversation{llm: llm, opts: opts}
}

// SetMessages replaces the history.
func (c *Conversation) SetMessages(msgs []driven.ChatMessage) {
	c.messages = append([]driven.ChatMessage(nil), msgs...)
}

// Messages returns a copy of the history.
func (c *Conversation) Messages() []driven.ChatMessage {
	return append([]driven.ChatMessage(nil), c.messages...)
}

// Reset empties the history.
func (c *Conversation) Reset() {
	c.messages = nil
}

// Prompt appends text as a user message, sends the history and records the reply.
func (c *Conversation) Prompt(ctx context.Context, text string) (string, error) {
	if c.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	c.messages = append(c.messages, driven.ChatMessage{Role: driven.RoleUser, Content: text})
	reply, err := c.llm.Chat(ctx, c.messages, c.opts)
	if err != nil {
		return "", fmt.Errorf("chat with %s: %w", c.llm.ModelName(), err)
	}
	c.messages = append(c.messages, driven.ChatMessage{Role: driven.RoleAssistant, Content: reply})
	return reply, nil
}
