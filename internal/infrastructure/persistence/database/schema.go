package database

import "fmt"

// schemaStatements creates the tables MenuStack needs on first boot. The
// post_meta table mirrors the WordPress layout the menu data originated
// from, so exported attribute rows import unchanged.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS menu_documents (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		elements TEXT NOT NULL DEFAULT '[]',
		created DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		changed DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS post_meta (
		post_id INTEGER NOT NULL,
		meta_key TEXT NOT NULL,
		meta_value TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (post_id, meta_key)
	)`,
	`CREATE TABLE IF NOT EXISTS attachments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT NOT NULL,
		url TEXT NOT NULL,
		alt TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL DEFAULT '',
		created DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

// EnsureSchema creates any missing tables.
func (db *DB) EnsureSchema() error {
	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
