package textproc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"the", "cat's", "hat", "costs", "42", "ñandú"},
		Tokenize("The cat's HAT costs 42 — Ñandú!"))
	assert.Empty(t, Tokenize("  ...  "))
}

func TestContentTokens(t *testing.T) {
	assert.Equal(t, []string{"quick", "fox", "jumps"}, ContentTokens("The quick fox jumps over the"))
}

func TestSentences(t *testing.T) {
	got := Sentences("First one. Second?! third without stop")
	assert.Equal(t, []string{"First one.", "Second?!", "third without stop"}, got)
	assert.Empty(t, Sentences("   "))
}

func TestIsStopword(t *testing.T) {
	assert.True(t, IsStopword("the"))
	assert.False(t, IsStopword("ledger"))
}
