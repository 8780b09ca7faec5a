// Package static embeds the browser assets served under /static.
package static

import "embed"

// FS holds app.css and app.js.
//
//go:embed app.css app.js
var FS embed.FS
