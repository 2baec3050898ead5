// Package migrations embeds the warehouse schema.
package migrations

import "embed"

// FS holds the golang-migrate up/down files.
//
//go:embed *.sql
var FS embed.FS
