// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem under the application
// home directory ($SERCHA_RAG_HOME, or ~/.sercha-rag).
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable prompt templates
package file

import (
	"os"
	"path/filepath"
)

// HomeEnv overrides the application home directory.
const HomeEnv = "SERCHA_RAG_HOME"

// HomeDir returns the application home directory.
func HomeDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".sercha-rag"), nil
}
