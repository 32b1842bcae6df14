package search

import (
	"context"
	"testing"
	"time"

	"jobber/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewMemOnly()
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	return idx
}

func doc(id, title string, created time.Time) model.SearchDocument {
	return model.SearchDocument{
		ID:          id,
		Title:       title,
		Description: "Build backend services.",
		Company:     "Acme",
		Location:    "Limassol,Cyprus",
		JobType:     "Full Time",
		Tags:        "go,distributed-systems",
		Created:     created,
	}
}

func TestAddAndSearchByTitle(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.AddDocument(ctx, doc("1", "Senior Go Engineer", time.Now())))

	hits, err := idx.Search(ctx, "engineer", OrderNone, 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "1", hits[0].ID)
	assert.Equal(t, "Senior Go Engineer", hits[0].Title)
	assert.Equal(t, "Acme", hits[0].Company)
	assert.Equal(t, "Full Time", hits[0].JobType)
}

func TestSearchMatchesCommaListFields(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.AddDocument(ctx, doc("1", "Backend Engineer", time.Now())))

	// Tags and location split on commas, not whitespace, so multi-word
	// entries stay one term.
	hits, err := idx.Search(ctx, "distributed-systems", OrderNone, 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	hits, err = idx.Search(ctx, "cyprus", OrderNone, 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
}

func TestSearchNoMatch(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.AddDocument(ctx, doc("1", "Backend Engineer", time.Now())))

	hits, err := idx.Search(ctx, "astronaut", OrderNone, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestUpdateDocumentReplaces(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.AddDocument(ctx, doc("1", "Junior Engineer", time.Now())))

	updated := doc("1", "Principal Engineer", time.Now())
	require.NoError(t, idx.UpdateDocument(ctx, updated))

	hits, err := idx.Search(ctx, "engineer", OrderNone, 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "Principal Engineer", hits[0].Title)

	hits, err = idx.Search(ctx, "junior", OrderNone, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestDeleteAbsentDocumentIsNoOp(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.DeleteDocument(ctx, "does-not-exist"))
}

func TestDeleteRemovesFromResults(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	require.NoError(t, idx.AddDocument(ctx, doc("1", "Backend Engineer", time.Now())))
	require.NoError(t, idx.DeleteDocument(ctx, "1"))

	hits, err := idx.Search(ctx, "engineer", OrderNone, 0)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestAddDocumentBulk(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	now := time.Now()
	docs := []model.SearchDocument{
		doc("1", "Go Engineer", now.Add(-2*time.Hour)),
		doc("2", "Go Engineer", now.Add(-1*time.Hour)),
		doc("3", "Go Engineer", now),
	}
	require.NoError(t, idx.AddDocumentBulk(ctx, docs))

	hits, err := idx.Search(ctx, "engineer", OrderNone, 0)
	require.NoError(t, err)
	assert.Len(t, hits, 3)
}

// Rebuilding from an unchanged document set must reproduce the same stored
// documents, and leftovers from the previous index must not survive.
func TestRebuildIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	now := time.Now().UTC().Truncate(time.Second)
	docs := []model.SearchDocument{
		doc("1", "Go Engineer", now.Add(-2*time.Hour)),
		doc("2", "Data Engineer", now.Add(-time.Hour)),
		doc("3", "Platform Engineer", now),
	}

	rebuild := func() []model.SearchDocument {
		idx, err := Create(dir)
		require.NoError(t, err)
		require.NoError(t, idx.AddDocumentBulk(ctx, docs))
		hits, err := idx.Search(ctx, "engineer", OrderAsc, 0)
		require.NoError(t, err)
		require.NoError(t, idx.Close())
		return hits
	}

	first := rebuild()
	require.Len(t, first, len(docs))

	// Pollute the index between rebuilds; Create starts from scratch.
	idx, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, idx.AddDocument(ctx, doc("9", "Stray Engineer", now)))
	require.NoError(t, idx.Close())

	second := rebuild()
	assert.Equal(t, first, second)
}

func TestSearchOrderAndLimit(t *testing.T) {
	idx := newTestIndex(t)
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, idx.AddDocumentBulk(ctx, []model.SearchDocument{
		doc("old", "Go Engineer", now.Add(-48*time.Hour)),
		doc("mid", "Go Engineer", now.Add(-24*time.Hour)),
		doc("new", "Go Engineer", now),
	}))

	hits, err := idx.Search(ctx, "engineer", OrderDesc, 0)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, "new", hits[0].ID)
	assert.Equal(t, "old", hits[2].ID)

	hits, err = idx.Search(ctx, "engineer", OrderAsc, 2)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "old", hits[0].ID)
	assert.Equal(t, "mid", hits[1].ID)
}
