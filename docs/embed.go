// Copyright © 2024 The vuehelper authors

// Package docs embeds the vuehelper user guide for use by the CLI.
package docs

import _ "embed"

//go:embed guide.md
var UserGuide string
