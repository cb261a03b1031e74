package marksite

import "embed"

// EmbeddedAssets holds framework-owned static files served under /public/.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
