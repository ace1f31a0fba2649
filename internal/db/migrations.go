package db

// schema is the SQL schema for the promptctl record database.
const schema = `
-- Prompts pushed to the registry
CREATE TABLE IF NOT EXISTS prompts (
    id TEXT PRIMARY KEY,
    remote_id TEXT NOT NULL,
    arn TEXT NOT NULL DEFAULT '',
    name TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    variant_name TEXT NOT NULL,
    model_id TEXT NOT NULL DEFAULT '',
    kind TEXT NOT NULL,
    variables TEXT NOT NULL DEFAULT '[]',
    created_at DATETIME NOT NULL,
    updated_at DATETIME NOT NULL
);

-- Version snapshots
CREATE TABLE IF NOT EXISTS prompt_versions (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    prompt_id TEXT NOT NULL,
    version TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    created_at DATETIME NOT NULL,
    FOREIGN KEY (prompt_id) REFERENCES prompts(id)
);

-- Indexes for common lookups
CREATE INDEX IF NOT EXISTS idx_prompts_remote ON prompts(remote_id);
CREATE INDEX IF NOT EXISTS idx_prompts_name ON prompts(name);
CREATE INDEX IF NOT EXISTS idx_versions_prompt ON prompt_versions(prompt_id);
`

// Migrate runs all database migrations to ensure the schema is up to date.
func (d *DB) Migrate() error {
	_, err := d.conn.Exec(schema)
	return err
}
