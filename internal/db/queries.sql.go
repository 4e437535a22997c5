package db

import (
	"context"
)

const createSearch = `-- name: CreateSearch :one
insert into search (title, writer, performer, search_url, source, found, message, searched_at)
values (?, ?, ?, ?, ?, ?, ?, ?)
returning id
`

type CreateSearchParams struct {
	Title      string
	Writer     string
	Performer  string
	SearchUrl  string
	Source     string
	Found      bool
	Message    string
	SearchedAt int64
}

func (q *Queries) CreateSearch(ctx context.Context, arg CreateSearchParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createSearch,
		arg.Title,
		arg.Writer,
		arg.Performer,
		arg.SearchUrl,
		arg.Source,
		arg.Found,
		arg.Message,
		arg.SearchedAt,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const createWork = `-- name: CreateWork :one
insert into work (search_id, position, work_id, title, amcos_control, local_work)
values (?, ?, ?, ?, ?, ?)
returning id
`

type CreateWorkParams struct {
	SearchID     int64
	Position     int64
	WorkID       string
	Title        string
	AmcosControl string
	LocalWork    bool
}

func (q *Queries) CreateWork(ctx context.Context, arg CreateWorkParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, createWork,
		arg.SearchID,
		arg.Position,
		arg.WorkID,
		arg.Title,
		arg.AmcosControl,
		arg.LocalWork,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

const createWorkValue = `-- name: CreateWorkValue :exec
insert into work_value (work_id, kind, position, value)
values (?, ?, ?, ?)
`

type CreateWorkValueParams struct {
	WorkID   int64
	Kind     ValueKind
	Position int64
	Value    string
}

func (q *Queries) CreateWorkValue(ctx context.Context, arg CreateWorkValueParams) error {
	_, err := q.db.ExecContext(ctx, createWorkValue,
		arg.WorkID,
		int64(arg.Kind),
		arg.Position,
		arg.Value,
	)
	return err
}

const getSearch = `-- name: GetSearch :one
select id, title, writer, performer, search_url, source, found, message, searched_at from search
where id = ?
`

func (q *Queries) GetSearch(ctx context.Context, id int64) (Search, error) {
	row := q.db.QueryRowContext(ctx, getSearch, id)
	var i Search
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Writer,
		&i.Performer,
		&i.SearchUrl,
		&i.Source,
		&i.Found,
		&i.Message,
		&i.SearchedAt,
	)
	return i, err
}

const getLatestSearch = `-- name: GetLatestSearch :one
select id, title, writer, performer, search_url, source, found, message, searched_at from search
where title = ? and writer = ? and performer = ?
order by searched_at desc, id desc
limit 1
`

type GetLatestSearchParams struct {
	Title     string
	Writer    string
	Performer string
}

func (q *Queries) GetLatestSearch(ctx context.Context, arg GetLatestSearchParams) (Search, error) {
	row := q.db.QueryRowContext(ctx, getLatestSearch, arg.Title, arg.Writer, arg.Performer)
	var i Search
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Writer,
		&i.Performer,
		&i.SearchUrl,
		&i.Source,
		&i.Found,
		&i.Message,
		&i.SearchedAt,
	)
	return i, err
}

const listSearches = `-- name: ListSearches :many
select id, title, writer, performer, search_url, source, found, message, searched_at from search
order by searched_at desc, id desc
limit ?
`

func (q *Queries) ListSearches(ctx context.Context, limit int64) ([]Search, error) {
	rows, err := q.db.QueryContext(ctx, listSearches, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Search
	for rows.Next() {
		var i Search
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Writer,
			&i.Performer,
			&i.SearchUrl,
			&i.Source,
			&i.Found,
			&i.Message,
			&i.SearchedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getWorks = `-- name: GetWorks :many
select id, search_id, position, work_id, title, amcos_control, local_work from work
where search_id = ?
order by position asc
`

func (q *Queries) GetWorks(ctx context.Context, searchID int64) ([]Work, error) {
	rows, err := q.db.QueryContext(ctx, getWorks, searchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Work
	for rows.Next() {
		var i Work
		if err := rows.Scan(
			&i.ID,
			&i.SearchID,
			&i.Position,
			&i.WorkID,
			&i.Title,
			&i.AmcosControl,
			&i.LocalWork,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const getWorkValues = `-- name: GetWorkValues :many
select work_id, kind, position, value from work_value
where work_id = ?
order by kind asc, position asc
`

func (q *Queries) GetWorkValues(ctx context.Context, workID int64) ([]WorkValue, error) {
	rows, err := q.db.QueryContext(ctx, getWorkValues, workID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []WorkValue
	for rows.Next() {
		var i WorkValue
		if err := rows.Scan(
			&i.WorkID,
			&i.Kind,
			&i.Position,
			&i.Value,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countWorkSearches = `-- name: CountWorkSearches :one
select count(distinct search_id) from work
where work_id = ?
`

func (q *Queries) CountWorkSearches(ctx context.Context, workID string) (int64, error) {
	row := q.db.QueryRowContext(ctx, countWorkSearches, workID)
	var count int64
	err := row.Scan(&count)
	return count, err
}
