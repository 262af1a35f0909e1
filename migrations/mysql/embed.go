// Package mysql embeds the MySQL schema migrations.
package mysql

import "embed"

//go:embed *.sql
var FS embed.FS
