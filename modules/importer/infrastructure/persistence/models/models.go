package models

import (
	"time"

	"github.com/google/uuid"
)

type ImportJob struct {
	ID            uuid.UUID
	Kind          string
	Status        string
	TotalRows     int
	ProcessedRows int
	ImportedCount int
	UpdatedCount  int
	SkippedCount  int
	Errors        []byte
	RowDetails    []byte
	DetailLimit   int
	StartedAt     *time.Time
	FinishedAt    *time.Time
	CreatedAt     time.Time
}

type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type RowDetail struct {
	RowKey  string `json:"row_key"`
	Outcome string `json:"outcome"`
	Message string `json:"message,omitempty"`
}
