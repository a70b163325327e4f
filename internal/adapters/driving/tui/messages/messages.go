// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// AskRequested is a command to answer a question.
type AskRequested struct {
	Question string
}

// AnswerReceived carries an answer, or the error that prevented one, back
// to the model.
type AnswerReceived struct {
	Question string
	Answer   *domain.Answer
	Err      error
}

// CollectionsLoaded carries the collections shown in the header.
type CollectionsLoaded struct {
	Collections []domain.Collection
	Err         error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
