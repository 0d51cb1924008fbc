// Package web embeds the dashboard UI so the server ships as a
// single binary.
package web

import "embed"

// TemplatesFS holds the HTML templates for server-side rendering.
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and the HTMX glue script.
//
//go:embed static/*
var StaticFS embed.FS
