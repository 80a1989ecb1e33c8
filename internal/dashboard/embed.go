// Package dashboard embeds the HTML templates and stylesheet of the dashboard.
package dashboard

import "embed"

//go:embed templates/*.html
var Templates embed.FS

//go:embed assets/style.css
var Assets embed.FS
