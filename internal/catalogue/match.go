package catalogue

import (
	"worksearch/lib/textutil"

	"github.com/antzucaro/matchr"
)

// BestMatch picks the record most similar to the query. The score of a record is
// the mean Jaro-Winkler similarity over the title, writer and performer terms
// that the query supplies, the writer and performer terms are compared against
// the closest name in the record. Ties keep the earlier record.
func BestMatch(query SearchQuery, records []SongRecord) (SongRecord, float64, bool) {
	if len(records) == 0 {
		return SongRecord{}, 0, false
	}

	best := 0
	bestScore := -1.0
	for i, record := range records {
		score := matchScore(query, record)
		if score > bestScore {
			best = i
			bestScore = score
		}
	}
	return records[best], bestScore, true
}

func matchScore(query SearchQuery, record SongRecord) float64 {
	query = query.normalized()

	var total float64
	var terms int
	if query.Title != "" {
		total += titleSimilarity(textutil.Normalize(query.Title), record)
		terms++
	}
	if query.Writer != "" {
		total += closestSimilarity(textutil.Normalize(query.Writer), record.Writers)
		terms++
	}
	if query.Performer != "" {
		total += closestSimilarity(textutil.Normalize(query.Performer), record.Performers)
		terms++
	}
	if terms == 0 {
		return 0
	}
	return total / float64(terms)
}

func titleSimilarity(title string, record SongRecord) float64 {
	score := similarity(title, record.Title)
	alternate := closestSimilarity(title, record.AlternateTitles)
	if alternate > score {
		return alternate
	}
	return score
}

func closestSimilarity(term string, candidates []string) float64 {
	var best float64
	for _, candidate := range candidates {
		score := similarity(term, candidate)
		if score > best {
			best = score
		}
	}
	return best
}

func similarity(a, b string) float64 {
	if a == "" || b == "" {
		return 0
	}
	if a == b {
		return 1
	}
	return matchr.JaroWinkler(a, b, false)
}
