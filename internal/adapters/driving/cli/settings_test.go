package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "hf_1234567890abcdefghijklmnop",
			expected: "hf_1...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestShowKey(t *testing.T) {
	assert.Equal(t, "(not set)", showKey(""))
	assert.Equal(t, "sk-1...cdef", showKey("sk-1234567890abcdef"))
}

// Settings command tests

func TestSettingsCmd_HasSubcommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range settingsCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.ElementsMatch(t, []string{"show", "set", "keys", "check"}, names)
}

func TestSettingsCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := clearServices()
	defer cleanup()

	for _, args := range [][]string{
		{"settings"},
		{"settings", "set", "llm.model", "x"},
		{"settings", "keys"},
		{"settings", "check"},
	} {
		_, err := execute(args, "")
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "settings service not configured")
	}
}

func TestSettingsShowCmd_Defaults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute([]string{"settings", "show"}, "")
	require.NoError(t, err)

	for _, section := range []string{
		"[Categories]", "[Classifier]", "[Summarizer]", "[Embedding]",
		"[LLM]", "[Store]", "[Ingest]", "[Retrieval]",
	} {
		assert.Contains(t, out, section)
	}
	assert.Contains(t, out, "Backend: sqlite")
	assert.Contains(t, out, "Chunk size: 300")
	assert.Contains(t, out, "Documents per question: 3")
}

func TestSettingsSetCmd_UpdatesValue(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute([]string{"settings", "set", "ingest.chunk_size", "500"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Set ingest.chunk_size = 500")

	settings, err := testSvc.settings.Get()
	require.NoError(t, err)
	assert.Equal(t, 500, settings.Ingest.ChunkSize)
}

func TestSettingsSetCmd_Categories(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute([]string{"settings", "set", "categories", "Law, Medicine"}, "")
	require.NoError(t, err)

	out, err := execute([]string{"settings"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Law, Medicine")
}

func TestSettingsSetCmd_MasksAPIKey(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute([]string{"settings", "set", "llm.api_key", "sk-1234567890abcdef"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "sk-1...cdef")
	assert.NotContains(t, out, "1234567890ab")
}

func TestSettingsSetCmd_InvalidValue(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute([]string{"settings", "set", "store.backend", "postgres"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set store.backend")
}

func TestSettingsSetCmd_RequiresKeyAndValue(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := execute([]string{"settings", "set", "llm.model"}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestSettingsKeysCmd(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute([]string{"settings", "keys"}, "")
	require.NoError(t, err)

	for _, key := range testSvc.settings.Keys() {
		assert.Contains(t, out, key)
	}
}

func TestSettingsCheckCmd_NoValidator(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := execute([]string{"settings", "check"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "Embedding: ok")
	assert.Contains(t, out, "LLM: ok")
}
