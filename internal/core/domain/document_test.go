package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPage_IsBlank(t *testing.T) {
	assert.True(t, Page{Number: 1}.IsBlank())
	assert.True(t, Page{Number: 2, Text: " \n\t\f\r "}.IsBlank())
	assert.False(t, Page{Number: 3, Text: "\n\nScope\n"}.IsBlank())
}

func TestChunks_IDsAndTexts(t *testing.T) {
	chunks := Chunks{
		{ID: "a", Text: "first", PageNumber: 1},
		{ID: "b", Text: "second", PageNumber: 2},
	}

	assert.Equal(t, []string{"a", "b"}, chunks.IDs())
	assert.Equal(t, []string{"first", "second"}, chunks.Texts())
	assert.Empty(t, Chunks(nil).IDs())
}

func TestRecordMetadata_RoundTripThroughJSONTypes(t *testing.T) {
	md := RecordMetadata{Source: "rfi.pdf", Classification: "Requirements", Confidence: 0.87, PageNumber: 4}

	// JSON decoding yields float64 for every number.
	stored := map[string]any{
		"source":         "rfi.pdf",
		"classification": "Requirements",
		"confidence":     0.87,
		"page_number":    float64(4),
	}

	assert.Equal(t, md, MetadataFromMap(stored))
	assert.Equal(t, md, MetadataFromMap(md.Map()))
	assert.Equal(t, RecordMetadata{}, MetadataFromMap(nil))
}

func TestCollectionDescription(t *testing.T) {
	assert.Equal(t,
		"This is the collection containing documents about Requirements",
		CollectionDescription("Requirements"))
}

func TestOutcome(t *testing.T) {
	outcomes := []Outcome{
		{Name: "A"},
		{Name: "B", Err: errors.New("boom")},
		{Name: "C"},
	}

	assert.True(t, outcomes[0].OK())
	assert.False(t, outcomes[1].OK())
	assert.Equal(t, []string{"A", "C"}, Succeeded(outcomes))
}

func TestErrors_Wrapping(t *testing.T) {
	err := fmt.Errorf("insert into %q: %w", "Pricing", ErrCollectionNotFound)

	assert.ErrorIs(t, err, ErrCollectionNotFound)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.Equal(t, "collection not found", ErrCollectionNotFound.Error())
}
