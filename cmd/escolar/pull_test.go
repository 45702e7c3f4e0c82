package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dump.json")
	require.NoError(t, writeJSONFile(path, map[string]any{"user": "u1"}))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]any
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "u1", got["user"])
}

func TestWriteJSONFile_PropagaErrores(t *testing.T) {
	err := writeJSONFile(filepath.Join(t.TempDir(), "no", "existe.json"), 1)
	assert.Error(t, err, "directorio inexistente")

	if _, statErr := os.Stat("/dev/full"); statErr != nil {
		t.Skip("sin /dev/full")
	}
	assert.Error(t, writeJSONFile("/dev/full", map[string]string{"k": "v"}), "una escritura fallida no se reporta como éxito")
}
