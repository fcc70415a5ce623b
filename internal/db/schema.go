package db

// SchemaSQL is the complete schema for fresh provreg installs.
//
// This is the single source of truth for the database schema. All tests load
// it via GetSchemaSQL() so repository code and tests cannot drift: a column
// referenced by an adapter but missing here fails immediately with
// "no such column".
const SchemaSQL = `
-- Registry owner (single row, set once)
CREATE TABLE IF NOT EXISTS registry_owner (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	identity TEXT NOT NULL,
	initialized_at DATETIME NOT NULL
);

-- Tasks (one row per registered task identifier)
CREATE TABLE IF NOT EXISTS tasks (
	id TEXT PRIMARY KEY,
	latest_version INTEGER NOT NULL DEFAULT 1,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

-- Versions (append-only, immutable once inserted)
CREATE TABLE IF NOT EXISTS versions (
	task_id TEXT NOT NULL,
	version INTEGER NOT NULL,
	hash BLOB NOT NULL CHECK (length(hash) = 32),
	timestamp INTEGER NOT NULL,
	PRIMARY KEY (task_id, version),
	FOREIGN KEY (task_id) REFERENCES tasks(id)
);

-- Audit trail (append-only record of successful mutations)
CREATE TABLE IF NOT EXISTS audit_log (
	id TEXT PRIMARY KEY,
	op TEXT NOT NULL CHECK (op IN ('init', 'register_task', 'publish_version')),
	caller TEXT NOT NULL,
	task_id TEXT,
	version INTEGER,
	at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_audit_at ON audit_log(at);
`

// GetSchemaSQL returns the authoritative schema. Tests must use this instead
// of hardcoding CREATE TABLE statements.
func GetSchemaSQL() string {
	return SchemaSQL
}
