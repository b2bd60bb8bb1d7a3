// Package migrations embebe los scripts SQL del esquema.
package migrations

import "embed"

// FS scripts *.sql, aplicados en orden por nombre.
//
//go:embed *.sql
var FS embed.FS
