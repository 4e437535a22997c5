package catalogue

import (
	"fmt"
	"net/url"
	"strings"
)

// SearchQuery holds the terms of a single catalogue search. Title or Performer
// must be given, Writer only narrows a search and is never enough by itself.
type SearchQuery struct {
	Title     string
	Writer    string
	Performer string
	Verbose   bool
}

func (q SearchQuery) normalized() SearchQuery {
	q.Title = strings.TrimSpace(q.Title)
	q.Writer = strings.TrimSpace(q.Writer)
	q.Performer = strings.TrimSpace(q.Performer)
	return q
}

func (q SearchQuery) Validate() error {
	q = q.normalized()
	if q.Title != "" || q.Performer != "" {
		return nil
	}
	if q.Writer != "" {
		return fmt.Errorf("%w: writer must be combined with a title or performer", ErrInvalidQuery)
	}
	return fmt.Errorf("%w: title or performer is required", ErrInvalidQuery)
}

// Params returns the query string / form values the catalogue expects.
func (q SearchQuery) Params() url.Values {
	q = q.normalized()
	values := url.Values{"works": {"true"}}
	if q.Title != "" {
		values.Set("title", q.Title)
	}
	if q.Writer != "" {
		values.Set("writer", q.Writer)
	}
	if q.Performer != "" {
		values.Set("performer", q.Performer)
	}
	return values
}

func searchURL(base *url.URL, params url.Values) string {
	link := *base
	link.RawQuery = params.Encode()
	return link.String()
}
