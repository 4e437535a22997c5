package db

import _ "embed"

//go:embed schema.sql
var Schema string

// ValueKind is the sequence of a work a row in work_value belongs to.
type ValueKind int64

const (
	VALUE_WRITER ValueKind = iota
	VALUE_PERFORMER
	VALUE_PUBLISHER
	VALUE_ALTERNATE_TITLE
)
