package db

type Search struct {
	ID         int64
	Title      string
	Writer     string
	Performer  string
	SearchUrl  string
	Source     string
	Found      bool
	Message    string
	SearchedAt int64
}

type Work struct {
	ID           int64
	SearchID     int64
	Position     int64
	WorkID       string
	Title        string
	AmcosControl string
	LocalWork    bool
}

type WorkValue struct {
	WorkID   int64
	Kind     ValueKind
	Position int64
	Value    string
}
