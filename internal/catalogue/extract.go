package catalogue

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"worksearch/lib/htmlutil"
	"worksearch/lib/textutil"

	"github.com/PuerkitoBio/goquery"
)

var (
	resultCountRegex   = regexp.MustCompile(`(?i)(\d+)\s+results?`)
	resultBlockIdRegex = regexp.MustCompile(`^GW\d+$`)
	// "SONY MUSIC PUBLISHING - APRA 50% - AMCOS 100%"
	publisherAffiliationRegex = regexp.MustCompile(`(?i)\s*-\s*APRA.*?-\s*AMCOS.*$`)
)

// phrases the catalogue shows in place of the results list
var noResultsPhrases = []string{
	"no results",
	"no works found",
	"did not match any",
}

// local work is rendered as a green tick (or a red cross when false)
const localWorkTickFill = "#0B9C00"

type field int

const (
	fieldUnknown field = iota
	fieldWorkId
	fieldWriters
	fieldPerformers
	fieldPublishers
	fieldAmcosControl
	fieldAlternateTitles
	fieldTitle
	fieldLocalWork
)

// checked in order, the first label fragment contained in the label wins
var labelFields = []struct {
	fragment string
	field    field
}{
	{fragment: "work id", field: fieldWorkId},
	{fragment: "writer", field: fieldWriters},
	{fragment: "performer", field: fieldPerformers},
	{fragment: "publisher", field: fieldPublishers},
	{fragment: "amcos control", field: fieldAmcosControl},
	{fragment: "alternate title", field: fieldAlternateTitles},
	{fragment: "title", field: fieldTitle},
	{fragment: "local work", field: fieldLocalWork},
}

func fieldForLabel(label string) field {
	label = strings.ToLower(textutil.Collapse(label))
	label = strings.TrimSuffix(label, ":")
	for _, l := range labelFields {
		if strings.Contains(label, l.fragment) {
			return l.field
		}
	}
	return fieldUnknown
}

// Extract parses a catalogue results page.
func Extract(html string) SearchResult {
	result, err := ExtractReader(strings.NewReader(html))
	if err != nil {
		return SearchResult{
			Results: []SongRecord{},
			Message: MessageUnrecognised,
			Outcome: OutcomeUnrecognised,
		}
	}
	return result
}

func ExtractReader(r io.Reader) (SearchResult, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return SearchResult{}, fmt.Errorf("parse results page: %w", err)
	}
	return ExtractDocument(doc), nil
}

func ExtractDocument(doc *goquery.Document) SearchResult {
	blocks := resultBlocks(doc.Selection)

	records := make([]SongRecord, 0, blocks.Length())
	blocks.Each(func(_ int, block *goquery.Selection) {
		records = append(records, extractRecord(block))
	})

	if len(records) > 0 {
		return SearchResult{
			Found:   true,
			Count:   len(records),
			Results: records,
			Message: fmt.Sprintf("Found %d result(s)", len(records)),
			Outcome: OutcomeFound,
		}
	}

	result := SearchResult{
		Results: []SongRecord{},
		Message: MessageUnrecognised,
		Outcome: OutcomeUnrecognised,
	}
	count, hasCount := reportedCount(doc)
	// a header claiming results without any blocks means the markup moved
	if (hasCount && count == 0) || (!hasCount && hasNoResultsPhrase(doc)) {
		result.Message = MessageNotFound
		result.Outcome = OutcomeEmpty
	}
	return result
}

// HasResultMarkers reports whether a page contains at least one result block.
func HasResultMarkers(html string) bool {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return false
	}
	return resultBlocks(doc.Selection).Length() > 0
}

func resultBlocks(sel *goquery.Selection) *goquery.Selection {
	return htmlutil.FilterAttrMatch(sel.Find("div[id]"), "id", resultBlockIdRegex)
}

// reportedCount reads the "<n> results" header above the results list.
func reportedCount(doc *goquery.Document) (int, bool) {
	count := -1
	doc.Find("h6").EachWithBreak(func(_ int, h *goquery.Selection) bool {
		groups := resultCountRegex.FindStringSubmatch(h.Text())
		if len(groups) < 2 {
			return true
		}
		n, err := strconv.Atoi(groups[1])
		if err != nil {
			return true
		}
		count = n
		return false
	})
	return count, count >= 0
}

func hasNoResultsPhrase(doc *goquery.Document) bool {
	if len(doc.Nodes) == 0 {
		return false
	}
	text := strings.ToLower(textutil.Collapse(htmlutil.GetVisibleText(doc.Nodes[0])))
	for _, phrase := range noResultsPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

func extractRecord(block *goquery.Selection) SongRecord {
	record := newSongRecord()
	record.WorkID = strings.TrimSpace(block.AttrOr("id", ""))
	// highlight spans split the title into several text nodes
	record.Title = textutil.Normalize(block.Find("h4").First().Text())

	block.Find("li.grid").Each(func(_ int, item *goquery.Selection) {
		label := item.Find("div.font-medium").First()
		content := item.Find("div.caption").First()
		if label.Length() == 0 || content.Length() == 0 {
			return
		}

		switch fieldForLabel(label.Text()) {
		case fieldWorkId:
			id := textutil.Collapse(content.Text())
			if id != "" {
				record.WorkID = id
			}
		case fieldWriters:
			record.Writers = listValues(content, textutil.Normalize)
		case fieldPerformers:
			record.Performers = listValues(content, textutil.Normalize)
		case fieldPublishers:
			record.Publishers = listValues(content, cleanPublisher)
		case fieldAmcosControl:
			record.AmcosControl = textutil.Collapse(content.Text())
		case fieldAlternateTitles:
			record.AlternateTitles = alternateTitles(content, record.Title)
		case fieldTitle:
			// the heading wins when there is one
			if record.Title == "" {
				record.Title = textutil.Normalize(content.Text())
			}
		case fieldLocalWork:
			record.LocalWork = isLocalWork(content)
		}
	})

	return record
}

// listValues reads a multi-value caption, either a list or comma-joined text.
func listValues(content *goquery.Selection, clean func(string) string) []string {
	items := content.Find("li")
	if items.Length() == 0 {
		return textutil.SplitList(content.Text(), ",", clean)
	}

	values := []string{}
	items.Each(func(_ int, li *goquery.Selection) {
		value := clean(li.Text())
		if value != "" {
			values = append(values, value)
		}
	})
	return values
}

func cleanPublisher(text string) string {
	text = textutil.Collapse(text)
	text = publisherAffiliationRegex.ReplaceAllString(text, "")
	return textutil.Normalize(text)
}

// titles may contain commas, so plain caption text is a single title
func alternateTitles(content *goquery.Selection, title string) []string {
	if content.Find("li").Length() > 0 {
		return listValues(content, textutil.Normalize)
	}
	text := textutil.Normalize(content.Text())
	if text == "" || text == title {
		return []string{}
	}
	return []string{text}
}

func isLocalWork(content *goquery.Selection) bool {
	if htmlutil.HasAttrFold(content, "path", "fill", localWorkTickFill) {
		return true
	}
	return strings.EqualFold(textutil.Collapse(content.Text()), "yes")
}
