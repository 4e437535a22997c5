package catalogue

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatRecord(t *testing.T) {
	record := SongRecord{
		WorkID:          "GW74660605",
		Title:           "ORDINARY",
		Writers:         []string{"WARREN ALEXANDER", "KEEFE MAGS"},
		Performers:      []string{"A", "B", "C", "D", "E", "F", "G"},
		Publishers:      []string{"BIG MUSIC"},
		AmcosControl:    "100%",
		AlternateTitles: []string{"ORDINARY (SPED UP)"},
	}

	expected := strings.Join([]string{
		"Title: ORDINARY",
		"Work ID: GW74660605",
		"AMCOS Control: 100%",
		"Local Work: No",
		"Writers (2): WARREN ALEXANDER, KEEFE MAGS",
		"Performers (7): A, B, C, D, E... (+2 more)",
		"Publishers (1): BIG MUSIC",
		"Alternate Titles: ORDINARY (SPED UP)",
	}, "\n")
	require.Equal(t, expected, FormatRecord(record))

	// display truncation never touches the stored sequence
	require.Len(t, record.Performers, 7)
}

func TestFormatRecordOmitsEmpty(t *testing.T) {
	record := newSongRecord()
	record.Title = "SILENCE"
	record.LocalWork = true

	out := FormatRecord(record)
	require.Equal(t, "Title: SILENCE\nWork ID: \nAMCOS Control: \nLocal Work: Yes", out)
	for _, label := range []string{"Writers", "Performers", "Publishers", "Alternate Titles"} {
		require.NotContains(t, out, label)
	}
}

func TestFormatRecordShortPerformers(t *testing.T) {
	record := newSongRecord()
	record.Performers = []string{"A", "B", "C", "D", "E"}
	require.Contains(t, FormatRecord(record), "Performers (5): A, B, C, D, E")
	require.NotContains(t, FormatRecord(record), "more")
}

func TestFormatResult(t *testing.T) {
	require.Equal(t, MessageNotFound, FormatResult(SearchResult{
		Results: []SongRecord{},
		Message: MessageNotFound,
	}))

	result := Extract(multiplePage)
	out := FormatResult(result)
	require.True(t, strings.HasPrefix(out, "Found 3 result(s):\n"+resultSeparator+"\nTitle: HELLO WORLD"))
	require.Equal(t, 2, strings.Count(out, recordSeparator))
	for _, record := range result.Results {
		require.Contains(t, out, fmt.Sprintf("Work ID: %s", record.WorkID))
	}
}
