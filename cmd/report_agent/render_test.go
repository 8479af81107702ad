package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMarkdownFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.md")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func resetRenderFlags() {
	renderInputFile = "-"
	renderOutputFile = ""
	renderDestination = "workspace"
	renderMaxSpanTextLen = 0
	renderMaxSpansPerBlock = 0
	renderMaxBlocks = 0
}

func TestRunRender_Workspace(t *testing.T) {
	resetRenderFlags()
	renderInputFile = writeMarkdownFile(t, "# Field Day\n\nWe played **games**.")
	renderOutputFile = filepath.Join(t.TempDir(), "out.json")

	require.NoError(t, runRender(nil, nil))

	data, err := os.ReadFile(renderOutputFile)
	require.NoError(t, err)

	var blocks []map[string]any
	require.NoError(t, json.Unmarshal(data, &blocks))
	require.Len(t, blocks, 2)
	assert.Equal(t, "heading_1", blocks[0]["type"])
	assert.Equal(t, "paragraph", blocks[1]["type"])
}

func TestRunRender_StaticPage(t *testing.T) {
	resetRenderFlags()
	renderInputFile = writeMarkdownFile(t, "# Field Day\n\n- games\n- snacks")
	renderOutputFile = filepath.Join(t.TempDir(), "out.html")
	renderDestination = "static_page"

	require.NoError(t, runRender(nil, nil))

	data, err := os.ReadFile(renderOutputFile)
	require.NoError(t, err)
	html := string(data)
	assert.Contains(t, html, "<h1>Field Day</h1>")
	assert.Contains(t, html, "<ul>")
}

func TestRunRender_UnknownDestination(t *testing.T) {
	resetRenderFlags()
	renderDestination = "fax"

	assert.Error(t, runRender(nil, nil))
}

func TestRunRender_MissingInput(t *testing.T) {
	resetRenderFlags()
	renderInputFile = filepath.Join(t.TempDir(), "missing.md")

	assert.Error(t, runRender(nil, nil))
}
