package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/gerund/promptctl/internal/log"
)

// ErrNotFound is returned when a requested record is not found.
var ErrNotFound = errors.New("record not found")

// DB holds the database connection and provides methods for data access.
type DB struct {
	conn *sql.DB
}

// New creates a new database connection.
// If the path is ":memory:", an in-memory database is created.
// Otherwise, the parent directory is created if it doesn't exist.
func New(path string) (*DB, error) {
	// Create parent directory if needed (not for in-memory DB)
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Open database with foreign keys enabled
	conn, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Verify connection
	if err := conn.Ping(); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			log.Warn("failed to close connection after ping failure", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db := &DB{conn: conn}

	// Run migrations automatically
	if err := db.Migrate(); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			log.Warn("failed to close connection after migration failure", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.conn != nil {
		return d.conn.Close()
	}
	return nil
}

// =============================================================================
// Prompt Record Methods
// =============================================================================

// RecordPrompt inserts a new prompt record.
func (d *DB) RecordPrompt(record *PromptRecord) error {
	now := time.Now()
	record.CreatedAt = now
	record.UpdatedAt = now

	variables, err := json.Marshal(record.Variables)
	if err != nil {
		return fmt.Errorf("failed to encode variables: %w", err)
	}

	_, err = d.conn.Exec(`
		INSERT INTO prompts (id, remote_id, arn, name, description, variant_name, model_id, kind, variables, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.RemoteID, record.ARN, record.Name, record.Description,
		record.VariantName, record.ModelID, record.Kind, string(variables),
		record.CreatedAt, record.UpdatedAt,
	)
	return err
}

// GetPromptByRemoteID retrieves a prompt record by its registry id.
func (d *DB) GetPromptByRemoteID(remoteID string) (*PromptRecord, error) {
	return d.getPrompt(`WHERE remote_id = ? ORDER BY updated_at DESC LIMIT 1`, remoteID)
}

// GetPromptByName retrieves the most recent prompt record with the given name.
func (d *DB) GetPromptByName(name string) (*PromptRecord, error) {
	return d.getPrompt(`WHERE name = ? ORDER BY updated_at DESC LIMIT 1`, name)
}

// LastPrompt returns the most recently recorded prompt, or nil if there
// are no records.
func (d *DB) LastPrompt() (*PromptRecord, error) {
	record, err := d.getPrompt(`ORDER BY updated_at DESC LIMIT 1`)
	if errors.Is(err, ErrNotFound) {
		return nil, nil // Return nil, not error, when no records exist
	}
	return record, err
}

func (d *DB) getPrompt(clause string, args ...any) (*PromptRecord, error) {
	record := &PromptRecord{}
	var variables string
	err := d.conn.QueryRow(`
		SELECT id, remote_id, arn, name, description, variant_name, model_id, kind, variables, created_at, updated_at
		FROM prompts `+clause, args...,
	).Scan(
		&record.ID, &record.RemoteID, &record.ARN, &record.Name, &record.Description,
		&record.VariantName, &record.ModelID, &record.Kind, &variables,
		&record.CreatedAt, &record.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(variables), &record.Variables); err != nil {
		return nil, fmt.Errorf("failed to decode variables: %w", err)
	}
	return record, nil
}

// ListPrompts returns all prompt records ordered by updated_at descending.
func (d *DB) ListPrompts() ([]*PromptRecord, error) {
	rows, err := d.conn.Query(`
		SELECT id, remote_id, arn, name, description, variant_name, model_id, kind, variables, created_at, updated_at
		FROM prompts ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", "operation", "ListPrompts", "error", closeErr)
		}
	}()

	var records []*PromptRecord
	for rows.Next() {
		record := &PromptRecord{}
		var variables string
		if err := rows.Scan(
			&record.ID, &record.RemoteID, &record.ARN, &record.Name, &record.Description,
			&record.VariantName, &record.ModelID, &record.Kind, &variables,
			&record.CreatedAt, &record.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(variables), &record.Variables); err != nil {
			return nil, fmt.Errorf("failed to decode variables: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// DeletePromptByRemoteID removes a prompt record and its version records.
func (d *DB) DeletePromptByRemoteID(remoteID string) error {
	record, err := d.GetPromptByRemoteID(remoteID)
	if err != nil {
		return err
	}

	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() {
		if rbErr := tx.Rollback(); rbErr != nil && rbErr != sql.ErrTxDone {
			log.Warn("failed to rollback transaction", "operation", "DeletePromptByRemoteID", "error", rbErr)
		}
	}()

	if _, err := tx.Exec(`DELETE FROM prompt_versions WHERE prompt_id = ?`, record.ID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM prompts WHERE id = ?`, record.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// =============================================================================
// Version Record Methods
// =============================================================================

// RecordVersion inserts a new version record.
func (d *DB) RecordVersion(record *VersionRecord) error {
	record.CreatedAt = time.Now()

	result, err := d.conn.Exec(`
		INSERT INTO prompt_versions (prompt_id, version, description, created_at)
		VALUES (?, ?, ?, ?)`,
		record.PromptID, record.Version, record.Description, record.CreatedAt,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	record.ID = id
	return nil
}

// GetVersionsByPrompt returns all version records for a prompt ordered by created_at.
func (d *DB) GetVersionsByPrompt(promptID string) ([]*VersionRecord, error) {
	rows, err := d.conn.Query(`
		SELECT id, prompt_id, version, description, created_at
		FROM prompt_versions WHERE prompt_id = ? ORDER BY created_at`, promptID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn("failed to close rows", "operation", "GetVersionsByPrompt", "error", closeErr)
		}
	}()

	var records []*VersionRecord
	for rows.Next() {
		record := &VersionRecord{}
		if err := rows.Scan(
			&record.ID, &record.PromptID, &record.Version, &record.Description, &record.CreatedAt,
		); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
