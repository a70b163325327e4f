package domain

// Page is the text of a single page of a source document.
// Pages are produced once per document by a text extractor and are
// ordered by Number. Missing page text is represented as an empty string.
type Page struct {
	// Number is the 1-based page number.
	Number int

	// Text is the extracted page text. May be empty.
	Text string
}

// IsBlank reports whether the page has no text worth chunking.
func (p Page) IsBlank() bool {
	for _, r := range p.Text {
		switch r {
		case ' ', '\t', '\n', '\r', '\f', '\v':
			continue
		default:
			return false
		}
	}
	return true
}

// Chunk is a bounded span of page text and the atomic unit of storage.
type Chunk struct {
	// ID is the content hash of Text. Identical text always yields the
	// same ID regardless of source document or page, which makes it the
	// de-duplication key and the stored record id.
	ID string

	// Text is the raw chunk text as produced by the chunker.
	Text string

	// PageNumber is the page the chunk was cut from.
	PageNumber int
}

// Chunks is an ordered list of chunks.
type Chunks []Chunk

// IDs returns the chunk ids in order.
func (c Chunks) IDs() []string {
	ids := make([]string, len(c))
	for i := range c {
		ids[i] = c[i].ID
	}
	return ids
}

// Texts returns the chunk texts in order.
func (c Chunks) Texts() []string {
	texts := make([]string, len(c))
	for i := range c {
		texts[i] = c[i].Text
	}
	return texts
}
