// Package db embeds the SQL migrations so the schema ships with the binary.
package db

import "embed"

//go:embed sqlite/*.sql
var Migrations embed.FS

// MigrationFolder is the path inside Migrations holding the SQLite migration
// files.
const MigrationFolder = "sqlite"
