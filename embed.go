package website

import "embed"

// EmbeddedAssets contains scripts shipped with the site: search.js
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
