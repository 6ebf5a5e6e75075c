package handlers

import "embed"

// TemplatesFS embeds the HTML templates for the feedback pages
//
//go:embed templates/*.html
var TemplatesFS embed.FS
