//go:build integration

package store

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run with: GTWW_MONGO_URI=mongodb://localhost:27017 go test -tags integration ./pkg/store
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("GTWW_MONGO_URI")
	if uri == "" {
		t.Skip("GTWW_MONGO_URI not set")
	}
	ctx := context.Background()
	db := "gtww_test_" + uuid.NewString()[:8]

	s, err := NewMongoStore(ctx, uri, db)
	require.NoError(t, err)
	defer func() {
		_ = s.client.Database(db).Drop(ctx)
		_ = s.Close(ctx)
	}()

	rec := &Record{Name: "star.gr", Vertices: 4, Edges: 3, Width: 0, Contractions: 3}
	require.NoError(t, s.Save(ctx, rec))

	got, err := s.Get(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec.Name, got.Name)
	assert.Equal(t, rec.Contractions, got.Contractions)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	recs, err := s.List(ctx, ListOptions{Name: "star.gr"})
	require.NoError(t, err)
	assert.Len(t, recs, 1)
}
