// Package store keeps a history of solve runs.
//
// Every solved graph can be recorded as a [Record] so that batch runs and the
// HTTP server can report widths over time. Two implementations exist:
// [MemoryStore] for tests and single-process use, and [MongoStore] for a
// shared MongoDB deployment.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Get when no record has the requested ID.
var ErrNotFound = errors.New("record not found")

// Record summarises one solve run.
type Record struct {
	ID           string        `json:"id" bson:"_id"`
	Name         string        `json:"name" bson:"name"`
	GraphHash    string        `json:"graph_hash" bson:"graph_hash"`
	Vertices     int           `json:"vertices" bson:"vertices"`
	Edges        int           `json:"edges" bson:"edges"`
	Width        int           `json:"width" bson:"width"`
	Contractions int           `json:"contractions" bson:"contractions"`
	Duration     time.Duration `json:"duration_ns" bson:"duration_ns"`
	CacheHit     bool          `json:"cache_hit" bson:"cache_hit"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at"`
}

// ListOptions filters and pages [Store.List].
type ListOptions struct {
	// Name restricts results to records with this graph name.
	Name string
	// Limit caps the number of records. Zero means DefaultListLimit.
	Limit int
}

// DefaultListLimit is the page size when ListOptions.Limit is zero.
const DefaultListLimit = 50

// Store persists solve records.
type Store interface {
	// Save assigns an ID and CreatedAt when they are empty and stores rec.
	Save(ctx context.Context, rec *Record) error
	// Get returns the record with id or ErrNotFound.
	Get(ctx context.Context, id string) (*Record, error)
	// List returns records newest first.
	List(ctx context.Context, opts ListOptions) ([]*Record, error)
	// Close releases the store's resources.
	Close(ctx context.Context) error
}

// prepare fills in the generated fields of rec.
func prepare(rec *Record) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
}

func (o ListOptions) limit() int {
	if o.Limit <= 0 {
		return DefaultListLimit
	}
	return o.Limit
}
