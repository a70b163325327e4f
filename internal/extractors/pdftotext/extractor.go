// Package pdftotext extracts per-page text from PDF files using poppler's
// pdftotext command.
package pdftotext

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Name is the extractor name used in configuration.
const Name = "pdftotext"

// ErrPDFToolNotFound is returned when the pdftotext binary is not in PATH.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// CommandRunner executes an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor shells out to pdftotext.
type Extractor struct {
	runner   CommandRunner
	priority int
}

// Option configures the extractor.
type Option func(*Extractor)

// WithRunner injects a command runner.
func WithRunner(r CommandRunner) Option {
	return func(e *Extractor) {
		e.runner = r
	}
}

// WithPriority overrides the selection priority.
func WithPriority(p int) Option {
	return func(e *Extractor) {
		e.priority = p
	}
}

// New creates a pdftotext extractor.
func New(opts ...Option) *Extractor {
	e := &Extractor{runner: execRunner{}, priority: 50}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CheckAvailable returns ErrPDFToolNotFound if pdftotext is not installed.
func CheckAvailable() error {
	if _, err := exec.LookPath("pdftotext"); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions describes how to install poppler.
func InstallInstructions() string {
	return `pdftotext is provided by poppler:
  macOS:  brew install poppler
  Debian: apt install poppler-utils
  Fedora: dnf install poppler-utils`
}

// Name returns the extractor name.
func (e *Extractor) Name() string { return Name }

// Extensions returns the handled extensions.
func (e *Extractor) Extensions() []string { return []string{".pdf"} }

// Priority returns the selection priority.
func (e *Extractor) Priority() int { return e.priority }

// Extract runs pdftotext and splits its output on form feeds, one per page.
func (e *Extractor) Extract(ctx context.Context, path string) ([]domain.Page, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("stat pdf: %w", err)
	}

	out, err := e.runner.Run(ctx, "pdftotext", "-enc", "UTF-8", path, "-")
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}

	return SplitPages(string(out)), nil
}

// SplitPages splits form-feed separated text into numbered pages.
// pdftotext terminates every page with a form feed, so a trailing empty
// segment is dropped.
func SplitPages(text string) []domain.Page {
	parts := strings.Split(text, "\f")
	if len(parts) > 1 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}

	pages := make([]domain.Page, 0, len(parts))
	for i, part := range parts {
		pages = append(pages, domain.Page{Number: i + 1, Text: part})
	}
	return pages
}
