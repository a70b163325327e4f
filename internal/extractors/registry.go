// Package extractors provides text extractors that turn source files into
// ordered pages, and a registry that picks one by file extension.
//
// Extractors are registered with the Registry at startup.
package extractors

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/extractors/pdf"
	"github.com/custodia-labs/sercha-rag/internal/extractors/pdftotext"
	"github.com/custodia-labs/sercha-rag/internal/extractors/plaintext"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure Registry implements the interface.
var _ driven.ExtractorRegistry = (*Registry)(nil)

// Registry maps file extensions to extractors.
type Registry struct {
	mu     sync.RWMutex
	byExt  map[string][]driven.TextExtractor
	sorted bool
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byExt: make(map[string][]driven.TextExtractor),
	}
}

// NewDefaultRegistry registers the plain text extractor and the PDF
// extractor named by preferred ("pdf" or "pdftotext").
// The other PDF extractor is kept as a lower priority fallback.
func NewDefaultRegistry(preferred string) (*Registry, error) {
	r := NewRegistry()
	r.Register(plaintext.New())

	switch preferred {
	case "", pdf.Name:
		r.Register(pdf.New())
		if pdftotext.CheckAvailable() == nil {
			r.Register(pdftotext.New(pdftotext.WithPriority(10)))
		}
	case pdftotext.Name:
		if err := pdftotext.CheckAvailable(); err != nil {
			return nil, fmt.Errorf("%w\n%s", err, pdftotext.InstallInstructions())
		}
		r.Register(pdftotext.New())
		r.Register(pdf.New(pdf.WithPriority(10)))
	default:
		return nil, fmt.Errorf("%w: unknown extractor %q", domain.ErrInvalidInput, preferred)
	}

	return r, nil
}

// Register adds an extractor for each of its extensions.
func (r *Registry) Register(extractor driven.TextExtractor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ext := range extractor.Extensions() {
		ext = strings.ToLower(ext)
		r.byExt[ext] = append(r.byExt[ext], extractor)
	}
	r.sorted = false
}

// Extract runs the highest priority extractor registered for path.
func (r *Registry) Extract(ctx context.Context, path string) ([]domain.Page, error) {
	extractor := r.lookup(path)
	if extractor == nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedType, filepath.Ext(path))
	}

	logger.Debug("extracting %s with %s", path, extractor.Name())
	pages, err := extractor.Extract(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", extractor.Name(), err)
	}
	return pages, nil
}

// Supports reports whether an extractor handles path's extension.
func (r *Registry) Supports(path string) bool {
	return r.lookup(path) != nil
}

// Extensions returns every registered extension in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

func (r *Registry) lookup(path string) driven.TextExtractor {
	ext := strings.ToLower(filepath.Ext(path))

	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.sorted {
		for _, list := range r.byExt {
			sort.SliceStable(list, func(i, j int) bool {
				return list[i].Priority() > list[j].Priority()
			})
		}
		r.sorted = true
	}

	list := r.byExt[ext]
	if len(list) == 0 {
		return nil
	}
	return list[0]
}
