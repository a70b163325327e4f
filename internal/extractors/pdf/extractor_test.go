package pdf

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	e := New()
	require.NotNil(t, e)
	assert.Equal(t, Name, e.Name())
	assert.Equal(t, []string{".pdf"}, e.Extensions())
	assert.Equal(t, 50, e.Priority())
	assert.Equal(t, 7, New(WithPriority(7)).Priority())
}

func TestExtract_MissingFile(t *testing.T) {
	_, err := New().Extract(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)
}

func TestExtract_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.pdf")
	require.NoError(t, os.WriteFile(path, []byte("this is not a pdf"), 0o600))

	pages, err := New().Extract(context.Background(), path)
	assert.Error(t, err)
	assert.Nil(t, pages)
}
