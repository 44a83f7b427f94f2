package web

import "embed"

// TemplatesFS holds the server-rendered pages (login, signup, dashboard).
//
//go:embed templates/*.html
var TemplatesFS embed.FS

// StaticFS holds the stylesheet and front-end scripts served under /static/.
//
//go:embed static/*
var StaticFS embed.FS
