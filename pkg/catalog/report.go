package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrMalformedCoordinate   = errors.New("malformed coordinate")
	ErrDataSourceUnavailable = errors.New("data source unavailable")
	ErrUnmatchedRegionName   = errors.New("region has no visited record")
)

type IssueKind string

const (
	MalformedCoordinate   IssueKind = "MalformedCoordinate"
	DataSourceUnavailable IssueKind = "DataSourceUnavailable"
	// UnmatchedRegionName is informational: the region is kept, unfilled.
	UnmatchedRegionName IssueKind = "UnmatchedRegionName"
)

// Issue is a single data-quality finding. None of them stop a build.
type Issue struct {
	Kind   IssueKind `json:"kind"`
	Source string    `json:"source,omitempty"`
	Record string    `json:"record,omitempty"`
	Line   int       `json:"line,omitempty"`
	Err    error     `json:"-"`
}

func (i Issue) Error() string {
	where := i.Source
	if i.Line > 0 {
		where = fmt.Sprintf("%s:%d", where, i.Line)
	}
	if where == "" {
		return fmt.Sprintf("%s %q: %v", i.Kind, i.Record, i.Err)
	}
	return fmt.Sprintf("%s %q (%s): %v", i.Kind, i.Record, where, i.Err)
}

func (i Issue) Unwrap() error { return i.Err }

// Informational reports whether the issue is a notice rather than data loss.
func (i Issue) Informational() bool { return i.Kind == UnmatchedRegionName }

func (i Issue) MarshalJSON() ([]byte, error) {
	type alias Issue
	msg := ""
	if i.Err != nil {
		msg = i.Err.Error()
	}
	return json.Marshal(struct {
		alias
		Message string `json:"message,omitempty"`
	}{alias(i), msg})
}

// Report collects the issues found while loading and building a catalog.
type Report struct {
	Issues []Issue `json:"issues"`
}

func (r *Report) Add(issue Issue) { r.Issues = append(r.Issues, issue) }

// Merge appends the issues of other, keeping their order.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Issues = append(r.Issues, other.Issues...)
}

func (r *Report) Count(kind IssueKind) int {
	n := 0
	for _, i := range r.Issues {
		if i.Kind == kind {
			n++
		}
	}
	return n
}

// Errors returns the issues that dropped data, skipping informational ones.
func (r *Report) Errors() []error {
	var out []error
	for _, i := range r.Issues {
		if !i.Informational() {
			out = append(out, i)
		}
	}
	return out
}
