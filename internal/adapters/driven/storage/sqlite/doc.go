// Package sqlite implements the scan catalog on SQLite using the pure-Go
// modernc.org/sqlite driver. The schema is managed through embedded SQL
// migrations applied at open time.
package sqlite
