package migrations

import "embed"

// FS embeds the SQL migration files shipped with the binary.
//
//go:embed sqlite/*.sql
var FS embed.FS
