package sources

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/murraystephenson/TravelMap/pkg/catalog"
)

// Logger abstracts logging so callers can use logrus, stdlib log, or any
// other logger that satisfies this interface.
type Logger interface {
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// nopLogger silently discards all messages.
type nopLogger struct{}

func (nopLogger) Infof(string, ...interface{})  {}
func (nopLogger) Warnf(string, ...interface{})  {}
func (nopLogger) Errorf(string, ...interface{}) {}
func (nopLogger) Debugf(string, ...interface{}) {}

// Status holds the result of the last load of a single source.
type Status struct {
	Source    string        `json:"source"`
	StartedAt time.Time     `json:"startedAt"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Places    int           `json:"places"`
	Regions   int           `json:"regions"`
	Error     string        `json:"error,omitempty"`
}

// Result is the merged output of every source, in source order.
type Result struct {
	Dataset
	Statuses []Status
	Report   *catalog.Report
}

// Load runs every source concurrently and returns once all of them finished.
// A failing source contributes one DataSourceUnavailable issue and nothing
// else; Load itself never fails.
func Load(ctx context.Context, srcs []Source, log Logger) *Result {
	if log == nil {
		log = nopLogger{}
	}

	type outcome struct {
		ds     Dataset
		err    error
		status Status
	}
	outcomes := make([]outcome, len(srcs))

	var wg sync.WaitGroup
	for i, src := range srcs {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			start := time.Now()
			ds, err := src.Load(ctx)
			outcomes[i] = outcome{ds: ds, err: err, status: Status{
				Source:    src.Name(),
				StartedAt: start,
				Duration:  time.Since(start),
				Success:   err == nil,
				Places:    len(ds.Places),
				Regions:   len(ds.Regions),
			}}
		}(i, src)
	}
	wg.Wait()

	res := &Result{Report: &catalog.Report{}}
	for _, o := range outcomes {
		if o.err != nil {
			log.Warnf("Source %s unavailable: %v", o.status.Source, o.err)
			o.status.Error = o.err.Error()
			o.status.Places, o.status.Regions = 0, 0
			res.Report.Add(catalog.Issue{
				Kind:   catalog.DataSourceUnavailable,
				Source: o.status.Source,
				Err:    fmt.Errorf("%w: %v", catalog.ErrDataSourceUnavailable, o.err),
			})
			res.Statuses = append(res.Statuses, o.status)
			continue
		}
		log.Debugf("Source %s loaded %d places and %d regions in %s", o.status.Source, len(o.ds.Places), len(o.ds.Regions), o.status.Duration)
		res.Places = append(res.Places, o.ds.Places...)
		res.Regions = append(res.Regions, o.ds.Regions...)
		res.Statuses = append(res.Statuses, o.status)
	}
	return res
}

// BuildCatalog loads every source and builds the catalog in one step. The
// report holds both source failures and per-record issues.
func BuildCatalog(ctx context.Context, srcs []Source, b *catalog.Builder, log Logger) (*catalog.Catalog, *Result) {
	if log == nil {
		log = nopLogger{}
	}
	if b == nil {
		b = &catalog.Builder{}
	}
	res := Load(ctx, srcs, log)
	c, report := b.Build(res.Places, res.Regions)
	for _, issue := range report.Issues {
		if issue.Informational() {
			log.Debugf("%v", issue)
		} else {
			log.Warnf("%v", issue)
		}
	}
	res.Report.Merge(report)
	log.Infof("Catalog ready: %d entities from %d sources", c.Len(), len(srcs))
	return c, res
}
