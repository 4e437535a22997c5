package catalogue

import (
	"fmt"
	"strings"
)

// performers beyond this are summarized as "(+N more)" when displayed
const performerDisplayLimit = 5

const (
	resultSeparator = "=================================================="
	recordSeparator = "--------------------------------------------------"
)

// FormatRecord renders a record for display. Lines for empty sequences are
// left out rather than printed empty.
func FormatRecord(record SongRecord) string {
	lines := []string{
		fmt.Sprintf("Title: %s", record.Title),
		fmt.Sprintf("Work ID: %s", record.WorkID),
		fmt.Sprintf("AMCOS Control: %s", record.AmcosControl),
		fmt.Sprintf("Local Work: %s", yesNo(record.LocalWork)),
	}

	if len(record.Writers) > 0 {
		lines = append(lines, fmt.Sprintf("Writers (%d): %s", len(record.Writers), strings.Join(record.Writers, ", ")))
	}
	if len(record.Performers) > 0 {
		lines = append(lines, fmt.Sprintf(
			"Performers (%d): %s",
			len(record.Performers),
			FormatPerformers(record.Performers),
		))
	}
	if len(record.Publishers) > 0 {
		lines = append(lines, fmt.Sprintf("Publishers (%d): %s", len(record.Publishers), strings.Join(record.Publishers, ", ")))
	}
	if len(record.AlternateTitles) > 0 {
		lines = append(lines, fmt.Sprintf("Alternate Titles: %s", strings.Join(record.AlternateTitles, ", ")))
	}

	return strings.Join(lines, "\n")
}

// FormatResult renders the whole result, or just its message when nothing was found.
func FormatResult(result SearchResult) string {
	if !result.Found {
		return result.Message
	}

	var out strings.Builder
	fmt.Fprintf(&out, "Found %d result(s):\n", result.Count)
	out.WriteString(resultSeparator)
	for i, record := range result.Results {
		out.WriteString("\n")
		if i > 0 {
			out.WriteString(recordSeparator)
			out.WriteString("\n")
		}
		out.WriteString(FormatRecord(record))
	}
	return out.String()
}

// FormatPerformers joins performers for display, long lists are cut short.
func FormatPerformers(performers []string) string {
	return truncateList(performers, performerDisplayLimit)
}

func truncateList(values []string, limit int) string {
	if len(values) <= limit {
		return strings.Join(values, ", ")
	}
	return fmt.Sprintf("%s... (+%d more)", strings.Join(values[:limit], ", "), len(values)-limit)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
