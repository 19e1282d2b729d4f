package repository

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteDB creates and initializes a SQLite database
func NewSQLiteDB(dbPath string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, err
	}

	// Create tables
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	schema := `
	-- Users table
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		email TEXT UNIQUE NOT NULL,
		api_key_hash TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		is_active INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_users_api_key_hash ON users(api_key_hash);
	CREATE INDEX IF NOT EXISTS idx_users_username ON users(username);

	-- Email verification tokens
	CREATE TABLE IF NOT EXISTS verification_tokens (
		id TEXT PRIMARY KEY,
		token_hash TEXT NOT NULL,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		expires_at DATETIME NOT NULL,
		used INTEGER NOT NULL DEFAULT 0,
		used_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_verification_token_hash ON verification_tokens(token_hash);
	CREATE INDEX IF NOT EXISTS idx_verification_user ON verification_tokens(user_id);

	-- Collections table. active=0 is a permanent soft delete.
	CREATE TABLE IF NOT EXISTS collections (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		description TEXT,
		active INTEGER NOT NULL DEFAULT 1,
		is_link_shareable INTEGER NOT NULL DEFAULT 0,
		share_permission TEXT NOT NULL DEFAULT 'view',
		share_token TEXT NOT NULL UNIQUE,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_collections_owner_id ON collections(owner_id);
	CREATE INDEX IF NOT EXISTS idx_collections_share_token ON collections(share_token);

	-- Shared grants. The unique pair constraint is the upsert anchor:
	-- concurrent re-shares serialize on it instead of app-level locking.
	CREATE TABLE IF NOT EXISTS shared_grants (
		id TEXT PRIMARY KEY,
		collection_id TEXT NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		permission TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(collection_id, user_id)
	);

	CREATE INDEX IF NOT EXISTS idx_shared_grants_collection_id ON shared_grants(collection_id);
	CREATE INDEX IF NOT EXISTS idx_shared_grants_user_id ON shared_grants(user_id);

	-- Tasks table
	CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		collection_id TEXT NOT NULL REFERENCES collections(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		details TEXT,
		due_date DATETIME,
		start_time TEXT NOT NULL DEFAULT '',
		end_time TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT '',
		completed INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_collection_id ON tasks(collection_id);
	CREATE INDEX IF NOT EXISTS idx_tasks_owner_id ON tasks(owner_id);

	-- Notes table
	CREATE TABLE IF NOT EXISTS notes (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		task_id TEXT NOT NULL REFERENCES tasks(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		content TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_notes_task_id ON notes(task_id);

	-- Notifications table
	CREATE TABLE IF NOT EXISTS notifications (
		id TEXT PRIMARY KEY,
		recipient_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		sender_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		message TEXT NOT NULL,
		link TEXT,
		is_read INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_notifications_recipient_id ON notifications(recipient_id);

	-- Outlook calendar tokens
	CREATE TABLE IF NOT EXISTS outlook_tokens (
		user_id TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		access_token TEXT NOT NULL,
		refresh_token TEXT NOT NULL,
		expires_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

	_, err := db.Exec(schema)
	return err
}
