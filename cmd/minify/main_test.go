package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckHooks(t *testing.T) {
	assert.NoError(t, checkHooks(`<select id="display"></select><div id="message"></div><div id="map"></div>`))

	err := checkHooks(`<div id="map"></div>`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "display, message")
}

func TestBuildPage(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	write("style.css", "body {\n  margin: 0;\n}\n")
	write("script.js", "var answer = 42;\n")
	write("index.html.tpl", `<html><head><style>{{ .CSS }}</style></head>
<body><select id="display"></select><div id="message"></div><div id="map"></div>
<script>{{ .JS }}</script></body></html>`)

	page, err := buildPage(dir)
	require.NoError(t, err)
	assert.Contains(t, string(page), "margin:0")
	assert.Contains(t, string(page), "answer=42")
	assert.Contains(t, string(page), `id=map`)
}

func TestBuildPageRejectsTemplateWithoutHooks(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html.tpl"), []byte(`<div id="map"></div>`), 0o600))

	_, err := buildPage(dir)
	assert.ErrorContains(t, err, "missing element ids")
}

func TestShippedTemplateHasHooks(t *testing.T) {
	tpl, err := os.ReadFile(filepath.Join("..", "..", "assets", "index.html.tpl"))
	require.NoError(t, err)
	assert.NoError(t, checkHooks(string(tpl)))
}
