// Package migrations embeds the forward-only SQL schema applied at startup.
package migrations

import "embed"

//go:embed *.up.sql
var FS embed.FS
