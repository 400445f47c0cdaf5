// Package migrations embeds the goose SQL migrations for both databases.
package migrations

import "embed"

// Directories inside FS
const (
	PostgresDir   = "postgres"
	ClickHouseDir = "clickhouse"
)

//go:embed postgres/*.sql clickhouse/*.sql
var FS embed.FS
