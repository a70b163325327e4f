package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// collectionNamePattern restricts labels to names every collection backend accepts.
var collectionNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]{0,62}$`)

// DefaultCategories are the labels used when none are configured.
func DefaultCategories() []string {
	return []string{
		"Scope_of_Work",
		"Requirements",
		"Technical_Documentation",
	}
}

// CategorySet is the closed, ordered set of classification labels.
// Each label names exactly one collection.
type CategorySet struct {
	labels []string
	index  map[string]int
}

// NewCategorySet validates labels and returns the set.
// Labels must be non-empty, unique and valid collection names.
func NewCategorySet(labels []string) (CategorySet, error) {
	if len(labels) == 0 {
		return CategorySet{}, fmt.Errorf("%w: category set is empty", ErrInvalidInput)
	}

	set := CategorySet{
		labels: make([]string, 0, len(labels)),
		index:  make(map[string]int, len(labels)),
	}
	for _, label := range labels {
		label = strings.TrimSpace(label)
		if label == "" {
			return CategorySet{}, fmt.Errorf("%w: blank category label", ErrInvalidInput)
		}
		if !collectionNamePattern.MatchString(label) {
			return CategorySet{}, fmt.Errorf("%w: category %q is not a valid collection name", ErrInvalidInput, label)
		}
		if _, dup := set.index[label]; dup {
			return CategorySet{}, fmt.Errorf("%w: duplicate category %q", ErrInvalidInput, label)
		}
		set.index[label] = len(set.labels)
		set.labels = append(set.labels, label)
	}

	return set, nil
}

// MustCategorySet is like NewCategorySet but panics on invalid input.
func MustCategorySet(labels ...string) CategorySet {
	set, err := NewCategorySet(labels)
	if err != nil {
		panic(err)
	}
	return set
}

// Labels returns a copy of the labels in configured order.
func (c CategorySet) Labels() []string {
	out := make([]string, len(c.labels))
	copy(out, c.labels)
	return out
}

// Contains reports whether label belongs to the set.
func (c CategorySet) Contains(label string) bool {
	_, ok := c.index[label]
	return ok
}

// Len returns the number of labels.
func (c CategorySet) Len() int {
	return len(c.labels)
}

// String returns the labels as a comma separated list.
func (c CategorySet) String() string {
	return strings.Join(c.labels, ", ")
}

// ClassificationResult is the top label assigned to a text and its confidence.
type ClassificationResult struct {
	// Label is one of the configured categories.
	Label string

	// Confidence is the classifier score in [0,1].
	Confidence float64
}
