package domain

import (
	"fmt"
	"time"
)

// Metadata keys used when records are persisted as generic maps.
const (
	MetaSource         = "source"
	MetaClassification = "classification"
	MetaConfidence     = "confidence"
	MetaPageNumber     = "page_number"
)

// RecordMetadata describes where a stored record came from and how it was classified.
type RecordMetadata struct {
	// Source identifies the originating document (e.g. a file name).
	Source string

	// Classification is the predicted category, equal to the collection name.
	Classification string

	// Confidence is the classifier score for Classification.
	Confidence float64

	// PageNumber is the page the underlying chunk was cut from.
	PageNumber int
}

// Map returns the metadata in its stored key/value form.
func (m RecordMetadata) Map() map[string]any {
	return map[string]any{
		MetaSource:         m.Source,
		MetaClassification: m.Classification,
		MetaConfidence:     m.Confidence,
		MetaPageNumber:     m.PageNumber,
	}
}

// MetadataFromMap rebuilds RecordMetadata from its stored form.
// Numeric values decoded from JSON arrive as float64 and are converted.
// Unknown keys are ignored; missing keys leave zero values.
func MetadataFromMap(m map[string]any) RecordMetadata {
	var md RecordMetadata
	if m == nil {
		return md
	}
	if v, ok := m[MetaSource].(string); ok {
		md.Source = v
	}
	if v, ok := m[MetaClassification].(string); ok {
		md.Classification = v
	}
	md.Confidence = toFloat(m[MetaConfidence])
	md.PageNumber = int(toFloat(m[MetaPageNumber]))
	return md
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case int32:
		return float64(n)
	default:
		return 0
	}
}

// StoredRecord is a (document, metadata, id) triple inside one collection.
type StoredRecord struct {
	// ID is the content hash of the raw chunk, or a generated UUID for ad-hoc documents.
	ID string

	// Document is the stored text: the raw chunk or its summary.
	Document string

	// Metadata describes the record's origin and classification.
	Metadata RecordMetadata
}

// Collection is a named, independently searchable set of records.
type Collection struct {
	// Name is the collection name; for category collections it equals the label.
	Name string

	// Description is a human-readable description recorded at creation.
	Description string

	// CreatedAt is when the collection was created in the backing store.
	CreatedAt time.Time

	// Count is the number of records, when known.
	Count int
}

// CollectionDescription returns the description given to a new collection.
func CollectionDescription(name string) string {
	return fmt.Sprintf("This is the collection containing documents about %s", name)
}

// Outcome is the result of one step of a best-effort batch operation.
// A nil Err means the step succeeded.
type Outcome struct {
	Name string
	Err  error
}

// OK reports whether the step succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Succeeded returns the names of successful outcomes in order.
func Succeeded(outcomes []Outcome) []string {
	names := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		if o.OK() {
			names = append(names, o.Name)
		}
	}
	return names
}
