package storage

import "time"

// Place is one visited town as stored in the visits database.
type Place struct {
	Source  string
	City    string
	Country string
	Lat     float64
	Lng     float64
	Years   []string
}

// Change captures a single change event for auditing or printing.
type Change struct {
	OccurredAt time.Time

	Source     string
	City       string
	Country    string
	ChangeType string // added | updated | removed
}

// SourceStats summarizes the places imported from one source.
type SourceStats struct {
	Source     string
	PlaceCount int
	Countries  int
	FirstYear  string
	LastYear   string
}
