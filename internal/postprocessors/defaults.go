package postprocessors

import (
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/postprocessors/chunker"
	"github.com/custodia-labs/sercha-rag/internal/postprocessors/minlength"
)

// RegisterDefaults registers all built-in processors with the registry.
func RegisterDefaults(r *Registry) {
	r.Register("chunker", buildChunker)
	r.Register("min_length", buildMinLength)
}

// BuildDefaultPipeline returns chunker followed by min_length (when
// minChars is positive).
func BuildDefaultPipeline(chunkSize, minChars int) (*Pipeline, error) {
	r := NewRegistry()
	RegisterDefaults(r)

	chunk, err := r.Build("chunker", map[string]any{"chunk_size": chunkSize})
	if err != nil {
		return nil, err
	}
	p := NewPipeline(chunk)

	if minChars > 0 {
		filter, err := r.Build("min_length", map[string]any{"min_chars": minChars})
		if err != nil {
			return nil, err
		}
		p.Add(filter)
	}
	return p, nil
}

// buildChunker creates a chunker processor from generic config.
// Supported config keys:
//   - chunk_size (int): Maximum characters per chunk (default: 300)
func buildChunker(cfg map[string]any) (driven.PostProcessor, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "chunk_size"); size > 0 {
			opts = append(opts, chunker.WithChunkSize(size))
		}
	}

	return chunker.New(opts...), nil
}

// buildMinLength creates a short-chunk filter.
// Supported config keys:
//   - min_chars (int): Chunks shorter than this are dropped
func buildMinLength(cfg map[string]any) (driven.PostProcessor, error) {
	return minlength.New(getIntFromConfig(cfg, "min_chars")), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
