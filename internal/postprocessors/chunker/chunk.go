package chunker

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
	"strings"
	"unicode/utf8"
)

// paragraphBreak matches a blank-line paragraph boundary.
var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// paragraphSeparator joins paragraphs that share a chunk.
const paragraphSeparator = "\n\n"

// GenerateHash returns the hex SHA-256 digest of the UTF-8 bytes of text.
// The digest is the chunk's de-duplication key and storage id.
func GenerateHash(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// ChunkIntelligent splits text on blank-line paragraph boundaries and packs
// consecutive paragraphs into chunks of at most maxChunkSize characters.
//
// When the next paragraph would push the running chunk over budget the chunk
// is finished and a new one starts with that paragraph. A paragraph that is
// longer than maxChunkSize on its own becomes a single oversized chunk; it is
// never split or truncated. Finished chunks are trimmed and blank chunks are
// never returned. Sizes are counted in characters (runes), not bytes.
func ChunkIntelligent(text string, maxChunkSize int) []string {
	if maxChunkSize <= 0 {
		maxChunkSize = DefaultChunkSize
	}

	text = strings.ReplaceAll(text, "\r\n", "\n")
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var (
		chunks  []string
		current strings.Builder
		size    int
	)

	flush := func() {
		if chunk := strings.TrimSpace(current.String()); chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
		size = 0
	}

	sepSize := utf8.RuneCountInString(paragraphSeparator)
	for _, paragraph := range paragraphBreak.Split(text, -1) {
		paragraph = strings.TrimSpace(paragraph)
		if paragraph == "" {
			continue
		}
		paraSize := utf8.RuneCountInString(paragraph)

		if size > 0 && size+sepSize+paraSize > maxChunkSize {
			flush()
		}

		if size > 0 {
			current.WriteString(paragraphSeparator)
			size += sepSize
		}
		current.WriteString(paragraph)
		size += paraSize

		// Oversized paragraph: emit it alone.
		if size > maxChunkSize {
			flush()
		}
	}
	flush()

	return chunks
}
