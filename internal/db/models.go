// Package db keeps local records of prompts pushed to the registry.
package db

import "time"

// PromptKind distinguishes chat-structured prompts from plain templates.
type PromptKind string

const (
	KindChat  PromptKind = "chat"
	KindPlain PromptKind = "plain"
)

// PromptRecord is the local record of a prompt pushed to the registry.
type PromptRecord struct {
	ID          string // Local record id (uuid)
	RemoteID    string // Registry prompt id
	ARN         string
	Name        string
	Description string
	VariantName string
	ModelID     string
	Kind        PromptKind
	Variables   []string // Declared input variable names
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VersionRecord is the local record of a prompt version snapshot.
type VersionRecord struct {
	ID          int64
	PromptID    string // Local prompt record id
	Version     string // Registry version label
	Description string
	CreatedAt   time.Time
}
