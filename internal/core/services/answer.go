package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
	"github.com/custodia-labs/sercha-rag/internal/textproc"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// AnswerService answers questions by retrieving context across all
// collections and synthesising a reply. Each call starts from an empty
// conversation.
type AnswerService struct {
	collections  driving.CollectionService
	conversation *Conversation
	promptStore  driven.PromptStore
	numDocuments int

	mu sync.Mutex
}

// NewAnswerService creates a new answer service.
// The llmService parameter is optional (can be nil); Ask then fails with
// domain.ErrLLMUnavailable.
func NewAnswerService(
	collections driving.CollectionService,
	llmService driven.LLMService,
	opts driven.ChatOptions,
) *AnswerService {
	return &AnswerService{
		collections:  collections,
		conversation: NewConversation(llmService, opts),
		numDocuments: domain.DefaultNumDocuments,
	}
}

// SetPromptStore sets the prompt store for the synthesis instructions.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// SetNumDocuments sets the default number of retrieved documents.
func (s *AnswerService) SetNumDocuments(n int) {
	if n > 0 {
		s.numDocuments = n
	}
}

// Ask retrieves context for question and returns the synthesised answer.
func (s *AnswerService) Ask(ctx context.Context, question string, numDocuments int) (*domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: empty question", domain.ErrInvalidInput)
	}
	if s.conversation.llm == nil {
		return nil, domain.ErrLLMUnavailable
	}
	if numDocuments <= 0 {
		numDocuments = s.numDocuments
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	s.conversation.Reset()

	logger.Section("Retrieval")
	results := s.collections.QueryAllCollections(ctx, question, numDocuments)
	for _, r := range results {
		logger.Debug("Context Selected:\n%s\nCategory: %s - Source: %s - Page: %d\n",
			r.Document, r.Collection, r.Metadata.Source, r.Metadata.PageNumber)
	}

	prompt := BuildSynthesisPrompt(question, results, s.instructions())

	logger.Section("Synthesis")
	reply, err := s.conversation.Prompt(ctx, prompt)
	if err != nil {
		return nil, err
	}

	return &domain.Answer{
		Text:    textproc.StripReasoning(reply),
		Context: results,
		Elapsed: time.Since(start),
	}, nil
}

// instructions loads the synthesis instructions, falling back to the default.
func (s *AnswerService) instructions() string {
	if s.promptStore == nil {
		return domain.DefaultSynthesisInstructions
	}
	text, err := s.promptStore.Load(driven.PromptSynthesisInstructions)
	if err != nil {
		logger.Warn("Failed to load synthesis instructions: %v", err)
		return domain.DefaultSynthesisInstructions
	}
	return NormaliseInstructions(text)
}
