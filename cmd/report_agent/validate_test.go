package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetValidateFlags() {
	validateInputFile = "-"
	validateOutputFile = ""
	validateMaxSpanTextLen = 0
	validateMaxSpansPerBlock = 0
	validateMaxBlocks = 0
	validateStrict = false
}

func TestRunValidate_CleanDocument(t *testing.T) {
	resetValidateFlags()
	validateInputFile = writeMarkdownFile(t, "# Heading\n\nShort paragraph.")
	validateOutputFile = filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, runValidate(nil, nil))

	data, err := os.ReadFile(validateOutputFile)
	require.NoError(t, err)

	var out validateReport
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Len(t, out.Blocks, 2)
	assert.Empty(t, out.Issues)
}

func TestRunValidate_ReportsRepairs(t *testing.T) {
	resetValidateFlags()
	validateInputFile = writeMarkdownFile(t, "one two three four five six")
	validateOutputFile = filepath.Join(t.TempDir(), "out.json")
	validateMaxSpanTextLen = 10

	require.NoError(t, runValidate(nil, nil))

	data, err := os.ReadFile(validateOutputFile)
	require.NoError(t, err)

	var out validateReport
	require.NoError(t, json.Unmarshal(data, &out))
	assert.NotEmpty(t, out.Issues)
}

func TestRunValidate_MissingInput(t *testing.T) {
	resetValidateFlags()
	validateInputFile = filepath.Join(t.TempDir(), "missing.md")

	assert.Error(t, runValidate(nil, nil))
}

func TestLimitsFromFlags(t *testing.T) {
	limits := limitsFromFlags(0, 0, 0)
	assert.Equal(t, 2000, limits.MaxSpanTextLen)

	limits = limitsFromFlags(100, 5, 10)
	assert.Equal(t, 100, limits.MaxSpanTextLen)
	assert.Equal(t, 5, limits.MaxSpansPerBlock)
	assert.Equal(t, 10, limits.MaxBlocks)
}
