package archive

import (
	"context"
	"testing"
	"time"

	"worksearch/internal/catalogue"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) Store {
	t.Helper()
	store, err := Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleResult() catalogue.SearchResult {
	return catalogue.SearchResult{
		Found: true,
		Count: 2,
		Results: []catalogue.SongRecord{
			{
				WorkID:          "GW74660605",
				Title:           "ORDINARY",
				Writers:         []string{"WARREN ALEXANDER", "KIRKPATRICK ADAM"},
				Performers:      []string{"ALEX WARREN", "ALEX WARREN & JELLY ROLL", "SING KING"},
				Publishers:      []string{"BIG MUSIC"},
				AmcosControl:    "100%",
				AlternateTitles: []string{"ORDINARY (SPED UP)"},
			},
			{
				WorkID:          "GW10000002",
				Title:           "ORDINARY LOVE",
				Writers:         []string{},
				Performers:      []string{},
				Publishers:      []string{},
				AlternateTitles: []string{},
				LocalWork:       true,
			},
		},
		Message:   "Found 2 result(s)",
		SearchURL: "https://www.apraamcos.com.au/works-search?title=ordinary&works=true",
		Outcome:   catalogue.OutcomeFound,
	}
}

func TestSaveLoad(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	query := catalogue.SearchQuery{Title: "ordinary", Performer: "alex warren"}
	searchedAt := time.Unix(1700000000, 0)
	result := sampleResult()

	id, err := store.Save(ctx, query, result, searchedAt)
	require.NoError(t, err)

	entry, err := store.Load(ctx, id)
	require.NoError(t, err)
	require.Equal(t, id, entry.ID)
	require.Equal(t, query, entry.Query)
	require.True(t, searchedAt.Equal(entry.SearchedAt))

	diff := cmp.Diff(result, entry.Result)
	if diff != "" {
		t.Fatal(diff)
	}
}

func TestSaveEmpty(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	result := catalogue.SearchResult{
		Results: []catalogue.SongRecord{},
		Message: catalogue.MessageUnrecognised,
		Outcome: catalogue.OutcomeUnrecognised,
		Source:  "saved.html",
	}
	id, err := store.Save(ctx, catalogue.SearchQuery{Performer: "nobody"}, result, time.Unix(5, 0))
	require.NoError(t, err)

	entry, err := store.Load(ctx, id)
	require.NoError(t, err)
	require.Equal(t, result, entry.Result)
}

func TestLatest(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	query := catalogue.SearchQuery{Title: "ordinary"}
	_, err := store.Latest(ctx, query)
	require.ErrorIs(t, err, ErrNotFound)

	older := sampleResult()
	older.Results = older.Results[:1]
	older.Count = 1
	_, err = store.Save(ctx, query, older, time.Unix(100, 0))
	require.NoError(t, err)
	newestId, err := store.Save(ctx, query, sampleResult(), time.Unix(200, 0))
	require.NoError(t, err)

	entry, err := store.Latest(ctx, query)
	require.NoError(t, err)
	require.Equal(t, newestId, entry.ID)
	require.Equal(t, 2, entry.Result.Count)

	_, err = store.Latest(ctx, catalogue.SearchQuery{Title: "ordinary", Writer: "someone"})
	require.ErrorIs(t, err, ErrNotFound)

	entry, err = store.Latest(ctx, catalogue.SearchQuery{Title: "  ordinary "})
	require.NoError(t, err)
	require.Equal(t, newestId, entry.ID)
}

func TestTimesSeen(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	seen, err := store.TimesSeen(ctx, "GW74660605")
	require.NoError(t, err)
	require.Equal(t, int64(0), seen)

	for _, title := range []string{"ordinary", "ordinary love"} {
		_, err := store.Save(ctx, catalogue.SearchQuery{Title: title}, sampleResult(), time.Unix(100, 0))
		require.NoError(t, err)
	}

	seen, err = store.TimesSeen(ctx, "GW74660605")
	require.NoError(t, err)
	require.Equal(t, int64(2), seen)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	for i, title := range []string{"first", "second", "third"} {
		_, err := store.Save(ctx, catalogue.SearchQuery{Title: title}, sampleResult(), time.Unix(int64(i), 0))
		require.NoError(t, err)
	}

	entries, err := store.List(ctx, 2)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "third", entries[0].Query.Title)
	require.Equal(t, "second", entries[1].Query.Title)
	// listing does not load records
	require.Empty(t, entries[0].Result.Results)
}

func TestLoadMissing(t *testing.T) {
	_, err := openTestStore(t).Load(context.Background(), 42)
	require.ErrorIs(t, err, ErrNotFound)
}
