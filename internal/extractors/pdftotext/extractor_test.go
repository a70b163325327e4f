package pdftotext

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output []byte
	err    error
	args   []string
}

func (m *mockRunner) Run(_ context.Context, _ string, args ...string) ([]byte, error) {
	m.args = args
	return m.output, m.err
}

func fakePDF(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "doc.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4 fake"), 0o600))
	return path
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.TextExtractor = (*Extractor)(nil)
}

func TestExtract_WithMockRunner(t *testing.T) {
	runner := &mockRunner{output: []byte("Page one text\n\fPage two\n\f\f")}
	e := New(WithRunner(runner))
	path := fakePDF(t)

	pages, err := e.Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []domain.Page{
		{Number: 1, Text: "Page one text\n"},
		{Number: 2, Text: "Page two\n"},
		{Number: 3, Text: ""},
	}, pages)
	assert.Contains(t, runner.args, path)
	assert.Contains(t, runner.args, "UTF-8")
}

func TestExtract_RunnerError(t *testing.T) {
	e := New(WithRunner(&mockRunner{err: errors.New("pdftotext crashed")}))

	pages, err := e.Extract(context.Background(), fakePDF(t))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "pdftotext failed")
	assert.Nil(t, pages)
}

func TestExtract_MissingFile(t *testing.T) {
	runner := &mockRunner{}
	_, err := New(WithRunner(runner)).Extract(context.Background(), "/nope/missing.pdf")
	assert.Error(t, err)
	assert.Nil(t, runner.args, "runner must not be invoked")
}

func TestSplitPages(t *testing.T) {
	assert.Equal(t, []domain.Page{{Number: 1, Text: "only"}}, SplitPages("only"))
	assert.Equal(t, []domain.Page{{Number: 1, Text: ""}}, SplitPages(""))
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
}
