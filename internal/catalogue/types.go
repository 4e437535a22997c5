package catalogue

// SongRecord is a single work as listed by the catalogue.
type SongRecord struct {
	WorkID          string   `json:"work_id"`
	Title           string   `json:"title"`
	Writers         []string `json:"writers"`
	Performers      []string `json:"performers"`
	Publishers      []string `json:"publishers"`
	AmcosControl    string   `json:"amcos_control"`
	AlternateTitles []string `json:"alternate_titles"`
	LocalWork       bool     `json:"local_work"`
}

func newSongRecord() SongRecord {
	return SongRecord{
		Writers:         []string{},
		Performers:      []string{},
		Publishers:      []string{},
		AlternateTitles: []string{},
	}
}

// Outcome tells apart the ways a results page can come back without any works.
type Outcome int

const (
	// OutcomeUnrecognised means the page did not look like a results page at all
	// (an error page, a bot wall, or changed markup).
	OutcomeUnrecognised Outcome = iota
	// OutcomeEmpty means the catalogue itself reported zero results.
	OutcomeEmpty
	OutcomeFound
)

func (o Outcome) String() string {
	switch o {
	case OutcomeEmpty:
		return "empty"
	case OutcomeFound:
		return "found"
	default:
		return "unrecognised"
	}
}

const (
	MessageNotFound     = "No results found"
	MessageUnrecognised = "No results found (unrecognised page)"
)

// SearchResult is the envelope returned for every search.
type SearchResult struct {
	Found     bool         `json:"found"`
	Count     int          `json:"count"`
	Results   []SongRecord `json:"results"`
	Message   string       `json:"message"`
	SearchURL string       `json:"search_url"`
	// Source is the file a saved page was parsed from.
	Source string `json:"source,omitempty"`

	Outcome Outcome `json:"-"`
}
