// Package migrations embeds the SQL schema for the goose provider used at
// server start and in integration tests.
package migrations

import "embed"

// FS holds every *.sql migration.
//
//go:embed *.sql
var FS embed.FS
