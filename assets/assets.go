// Package assets embeds the web client.
package assets

import _ "embed"

// Index is the map page built by cmd/minify from index.html.tpl, style.css and script.js.
//
//go:embed index.html
var Index []byte
