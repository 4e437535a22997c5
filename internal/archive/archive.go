// Package archive keeps the results of past searches in a sqlite database so
// they can be listed and printed again without asking the catalogue.
package archive

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"worksearch/internal/catalogue"
	"worksearch/internal/db"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("worksearch/archive")

var ErrNotFound = errors.New("search not found in archive")

// Entry is a search as it was saved.
type Entry struct {
	ID         int64
	Query      catalogue.SearchQuery
	Result     catalogue.SearchResult
	SearchedAt time.Time
}

type Store struct {
	db     *sql.DB
	qry    *db.Queries
	makeTx db.MakeTx
}

func Open(ctx context.Context, path string) (Store, error) {
	database, err := db.Open(ctx, path)
	if err != nil {
		return Store{}, fmt.Errorf("open archive %s: %w", path, err)
	}
	return NewStore(database), nil
}

func NewStore(database *sql.DB) Store {
	return Store{
		db:     database,
		qry:    db.New(database),
		makeTx: db.NewMakeTx(database),
	}
}

func (s Store) Close() error {
	return s.db.Close()
}

// Save writes the query and every record of the result in one transaction and
// returns the id of the saved search.
func (s Store) Save(ctx context.Context, query catalogue.SearchQuery, result catalogue.SearchResult, searchedAt time.Time) (int64, error) {
	ctx, span := tracer.Start(ctx, "Save")
	defer span.End()

	tx, discard, commit, err := s.makeTx(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	defer discard()

	query = trimTerms(query)
	searchId, err := tx.CreateSearch(ctx, db.CreateSearchParams{
		Title:      query.Title,
		Writer:     query.Writer,
		Performer:  query.Performer,
		SearchUrl:  result.SearchURL,
		Source:     result.Source,
		Found:      result.Found,
		Message:    result.Message,
		SearchedAt: searchedAt.Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	for i, record := range result.Results {
		workId, err := tx.CreateWork(ctx, db.CreateWorkParams{
			SearchID:     searchId,
			Position:     int64(i),
			WorkID:       record.WorkID,
			Title:        record.Title,
			AmcosControl: record.AmcosControl,
			LocalWork:    record.LocalWork,
		})
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return 0, err
		}

		err = saveValues(ctx, tx, workId, record)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return 0, err
		}
	}

	err = commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	span.SetAttributes(attribute.Int64("search_id", searchId))
	return searchId, nil
}

func saveValues(ctx context.Context, tx *db.Queries, workId int64, record catalogue.SongRecord) error {
	sequences := []struct {
		kind   db.ValueKind
		values []string
	}{
		{kind: db.VALUE_WRITER, values: record.Writers},
		{kind: db.VALUE_PERFORMER, values: record.Performers},
		{kind: db.VALUE_PUBLISHER, values: record.Publishers},
		{kind: db.VALUE_ALTERNATE_TITLE, values: record.AlternateTitles},
	}
	for _, seq := range sequences {
		for i, value := range seq.values {
			err := tx.CreateWorkValue(ctx, db.CreateWorkValueParams{
				WorkID:   workId,
				Kind:     seq.kind,
				Position: int64(i),
				Value:    value,
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Load reads back a saved search.
func (s Store) Load(ctx context.Context, id int64) (Entry, error) {
	ctx, span := tracer.Start(ctx, "Load")
	defer span.End()

	search, err := s.qry.GetSearch(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Entry{}, err
	}
	return s.entry(ctx, search)
}

// Latest returns the most recent saved search with exactly the same terms.
func (s Store) Latest(ctx context.Context, query catalogue.SearchQuery) (Entry, error) {
	ctx, span := tracer.Start(ctx, "Latest")
	defer span.End()

	query = trimTerms(query)
	search, err := s.qry.GetLatestSearch(ctx, db.GetLatestSearchParams{
		Title:     query.Title,
		Writer:    query.Writer,
		Performer: query.Performer,
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return Entry{}, err
	}
	return s.entry(ctx, search)
}

// TimesSeen counts the saved searches that returned the work.
func (s Store) TimesSeen(ctx context.Context, workId string) (int64, error) {
	return s.qry.CountWorkSearches(ctx, workId)
}

// List returns the saved searches, newest first, without their records.
func (s Store) List(ctx context.Context, limit int) ([]Entry, error) {
	searches, err := s.qry.ListSearches(ctx, int64(limit))
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(searches))
	for _, search := range searches {
		entries = append(entries, Entry{
			ID:         search.ID,
			Query:      searchQuery(search),
			Result:     searchResult(search),
			SearchedAt: time.Unix(search.SearchedAt, 0),
		})
	}
	return entries, nil
}

func (s Store) entry(ctx context.Context, search db.Search) (Entry, error) {
	works, err := s.qry.GetWorks(ctx, search.ID)
	if err != nil {
		return Entry{}, err
	}

	result := searchResult(search)
	for _, work := range works {
		record, err := s.record(ctx, work)
		if err != nil {
			return Entry{}, err
		}
		result.Results = append(result.Results, record)
	}
	result.Count = len(result.Results)

	return Entry{
		ID:         search.ID,
		Query:      searchQuery(search),
		Result:     result,
		SearchedAt: time.Unix(search.SearchedAt, 0),
	}, nil
}

func (s Store) record(ctx context.Context, work db.Work) (catalogue.SongRecord, error) {
	values, err := s.qry.GetWorkValues(ctx, work.ID)
	if err != nil {
		return catalogue.SongRecord{}, err
	}

	record := catalogue.SongRecord{
		WorkID:          work.WorkID,
		Title:           work.Title,
		Writers:         []string{},
		Performers:      []string{},
		Publishers:      []string{},
		AmcosControl:    work.AmcosControl,
		AlternateTitles: []string{},
		LocalWork:       work.LocalWork,
	}
	// values come back ordered by kind then position
	for _, v := range values {
		switch v.Kind {
		case db.VALUE_WRITER:
			record.Writers = append(record.Writers, v.Value)
		case db.VALUE_PERFORMER:
			record.Performers = append(record.Performers, v.Value)
		case db.VALUE_PUBLISHER:
			record.Publishers = append(record.Publishers, v.Value)
		case db.VALUE_ALTERNATE_TITLE:
			record.AlternateTitles = append(record.AlternateTitles, v.Value)
		}
	}
	return record, nil
}

func trimTerms(query catalogue.SearchQuery) catalogue.SearchQuery {
	query.Title = strings.TrimSpace(query.Title)
	query.Writer = strings.TrimSpace(query.Writer)
	query.Performer = strings.TrimSpace(query.Performer)
	return query
}

func searchQuery(search db.Search) catalogue.SearchQuery {
	return catalogue.SearchQuery{
		Title:     search.Title,
		Writer:    search.Writer,
		Performer: search.Performer,
	}
}

func searchResult(search db.Search) catalogue.SearchResult {
	outcome := catalogue.OutcomeEmpty
	if search.Found {
		outcome = catalogue.OutcomeFound
	} else if search.Message == catalogue.MessageUnrecognised {
		outcome = catalogue.OutcomeUnrecognised
	}
	return catalogue.SearchResult{
		Found:     search.Found,
		Results:   []catalogue.SongRecord{},
		Message:   search.Message,
		SearchURL: search.SearchUrl,
		Source:    search.Source,
		Outcome:   outcome,
	}
}
