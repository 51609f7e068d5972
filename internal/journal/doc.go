// Package journal persists import run history in SQLite.
//
// Each run records its options and one row per processed media unit with the
// final outcome. The journal is an operator-facing audit trail; the catalog
// remains the source of truth for what was imported. Schema changes bump the
// version in schema.go; users clear the database to adopt the new schema.
package journal
