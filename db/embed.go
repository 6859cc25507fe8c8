// Package db embeds the catalog schema.
package db

import _ "embed"

// Schema contains the DDL for the read-only catalog tables.
//
//go:embed migrations/001_schema.sql
var Schema string
