package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueries(t *testing.T) {
	ctx := context.Background()
	database, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer database.Close()

	qry := New(database)

	searchId, err := qry.CreateSearch(ctx, CreateSearchParams{
		Title:      "ordinary",
		Performer:  "alex warren",
		SearchUrl:  "https://example.com/works-search?title=ordinary",
		Found:      true,
		Message:    "Found 1 result(s)",
		SearchedAt: 100,
	})
	require.NoError(t, err)

	workId, err := qry.CreateWork(ctx, CreateWorkParams{
		SearchID:     searchId,
		WorkID:       "GW74660605",
		Title:        "ORDINARY",
		AmcosControl: "100%",
	})
	require.NoError(t, err)

	for i, value := range []string{"WARREN ALEXANDER", "KEEFE MAGS"} {
		err = qry.CreateWorkValue(ctx, CreateWorkValueParams{
			WorkID:   workId,
			Kind:     VALUE_WRITER,
			Position: int64(i),
			Value:    value,
		})
		require.NoError(t, err)
	}

	search, err := qry.GetSearch(ctx, searchId)
	require.NoError(t, err)
	require.True(t, search.Found)
	require.Equal(t, "alex warren", search.Performer)

	latest, err := qry.GetLatestSearch(ctx, GetLatestSearchParams{Title: "ordinary", Performer: "alex warren"})
	require.NoError(t, err)
	require.Equal(t, searchId, latest.ID)

	_, err = qry.GetLatestSearch(ctx, GetLatestSearchParams{Title: "missing"})
	require.True(t, errors.Is(err, sql.ErrNoRows))

	works, err := qry.GetWorks(ctx, searchId)
	require.NoError(t, err)
	require.Len(t, works, 1)
	require.False(t, works[0].LocalWork)

	values, err := qry.GetWorkValues(ctx, workId)
	require.NoError(t, err)
	require.Len(t, values, 2)
	require.Equal(t, "KEEFE MAGS", values[1].Value)

	count, err := qry.CountWorkSearches(ctx, "GW74660605")
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestMakeTxDiscard(t *testing.T) {
	ctx := context.Background()
	database, err := Open(ctx, ":memory:")
	require.NoError(t, err)
	defer database.Close()

	makeTx := NewMakeTx(database)
	tx, discard, _, err := makeTx(ctx)
	require.NoError(t, err)
	_, err = tx.CreateSearch(ctx, CreateSearchParams{Title: "discarded"})
	require.NoError(t, err)
	require.NoError(t, discard())

	searches, err := New(database).ListSearches(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, searches)
}
