// Package journal persists a history of extraction batches in SQLite.
//
// Each batch becomes one row in runs, and each video in that batch one row
// in outcomes, keyed by the run's UUID. The journal is optional and only
// opened when journal.enabled is set; "vx history" reads it back.
//
// The schema is versioned through a schema_version table. A database
// written by a different schema version is rejected with ErrSchemaMismatch
// rather than migrated.
package journal
