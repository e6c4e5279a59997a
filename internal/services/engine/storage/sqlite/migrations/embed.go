// Package migrations contains embedded SQL migrations for the journal.
package migrations

import "embed"

// JournalFS holds the journal schema under journal/.
//
//go:embed journal/*.sql
var JournalFS embed.FS
