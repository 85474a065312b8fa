// Package migrations embeds the SQL schema migrations so the binary can
// bring a fresh database up to date on its own.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
