package storage

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/murraystephenson/TravelMap/pkg/catalog"
)

// ErrAbortingWipe is returned when an import would delete every place of a
// source that already has data, which usually means the source broke.
var ErrAbortingWipe = errors.New("refusing to remove every place of a source")

type DB struct {
	sql *sql.DB
}

func Open(path string) (*DB, error) {
	dsn := "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}
	// Ensure schema exists for convenience.
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS places (
  id             INTEGER PRIMARY KEY,
  source         TEXT NOT NULL,
  identity       TEXT NOT NULL,
  city           TEXT NOT NULL,
  country        TEXT,
  lat            REAL NOT NULL,
  lng            REAL NOT NULL,
  run_id         INTEGER NOT NULL DEFAULT 0,
  first_seen_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  last_seen_at   DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(source, identity)
);
CREATE INDEX IF NOT EXISTS idx_places_source ON places(source);
CREATE TABLE IF NOT EXISTS place_years (
  place_id  INTEGER NOT NULL REFERENCES places(id) ON DELETE CASCADE,
  year      TEXT NOT NULL,
  PRIMARY KEY(place_id, year)
);
CREATE INDEX IF NOT EXISTS idx_place_years_year ON place_years(year);
CREATE TABLE IF NOT EXISTS place_changes (
  id           INTEGER PRIMARY KEY,
  occurred_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
  source       TEXT NOT NULL,
  city         TEXT NOT NULL,
  country      TEXT,
  change_type  TEXT NOT NULL CHECK (change_type IN ('added','updated','removed'))
);
CREATE INDEX IF NOT EXISTS idx_changes_time ON place_changes(occurred_at);
    `); err != nil {
		return nil, err
	}
	return &DB{sql: db}, nil
}

func (d *DB) Close() error {
	if d == nil || d.sql == nil {
		return nil
	}
	return d.sql.Close()
}

// UpsertPlaces replaces the places of source with places: new ones are
// inserted, changed ones updated and missing ones swept. Every change is also
// written to place_changes.
func (d *DB) UpsertPlaces(ctx context.Context, source string, places []Place) (changes []Change, err error) {
	now := time.Now().UTC()
	runID := now.UnixNano()

	tx, err := d.sql.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	type existing struct {
		id       int64
		lat, lng float64
		country  string
		years    string
	}
	existingMap := make(map[string]existing)

	rows, err := tx.QueryContext(ctx, `
SELECT p.id, p.identity, p.lat, p.lng, COALESCE(p.country, ''), COALESCE(GROUP_CONCAT(y.year), '')
FROM places p LEFT JOIN place_years y ON y.place_id = p.id
WHERE p.source = ?
GROUP BY p.id`, source)
	if err != nil {
		return nil, err
	}
	for rows.Next() {
		var (
			ex       existing
			identity string
			years    string
		)
		if err = rows.Scan(&ex.id, &identity, &ex.lat, &ex.lng, &ex.country, &years); err != nil {
			rows.Close()
			return nil, err
		}
		ex.years = yearsKey(splitYears(years))
		existingMap[identity] = ex
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}

	if len(places) == 0 && len(existingMap) > 0 {
		err = ErrAbortingWipe
		return nil, err
	}

	for _, p := range places {
		key := identityKey(p.City, p.Country)
		ex, existed := existingMap[key]
		yk := yearsKey(p.Years)

		switch {
		case !existed:
			var res sql.Result
			res, err = tx.ExecContext(ctx, `INSERT INTO places(source, identity, city, country, lat, lng, run_id) VALUES(?,?,?,?,?,?,?)`,
				source, key, p.City, nullIfEmpty(p.Country), p.Lat, p.Lng, runID)
			if err != nil {
				return nil, err
			}
			if ex.id, err = res.LastInsertId(); err != nil {
				return nil, err
			}
			if err = writeYears(ctx, tx, ex.id, p.Years); err != nil {
				return nil, err
			}
			changes = append(changes, Change{OccurredAt: now, Source: source, City: p.City, Country: p.Country, ChangeType: "added"})
			existingMap[key] = existing{id: ex.id, lat: p.Lat, lng: p.Lng, country: p.Country, years: yk}
		case ex.lat != p.Lat || ex.lng != p.Lng || ex.years != yk || ex.country != p.Country:
			_, err = tx.ExecContext(ctx, `UPDATE places SET city = ?, country = ?, lat = ?, lng = ?, run_id = ?, last_seen_at = CURRENT_TIMESTAMP WHERE id = ?`,
				p.City, nullIfEmpty(p.Country), p.Lat, p.Lng, runID, ex.id)
			if err != nil {
				return nil, err
			}
			if _, err = tx.ExecContext(ctx, `DELETE FROM place_years WHERE place_id = ?`, ex.id); err != nil {
				return nil, err
			}
			if err = writeYears(ctx, tx, ex.id, p.Years); err != nil {
				return nil, err
			}
			changes = append(changes, Change{OccurredAt: now, Source: source, City: p.City, Country: p.Country, ChangeType: "updated"})
		default:
			_, err = tx.ExecContext(ctx, `UPDATE places SET run_id = ?, last_seen_at = CURRENT_TIMESTAMP WHERE id = ?`, runID, ex.id)
			if err != nil {
				return nil, err
			}
		}
	}

	// Sweep: places not touched in this run were removed from the source.
	staleRows, err := tx.QueryContext(ctx, `SELECT id, city, COALESCE(country, '') FROM places WHERE source = ? AND run_id != ?`, source, runID)
	if err != nil {
		return nil, err
	}
	type staleEntry struct {
		id            int64
		city, country string
	}
	var toRemove []staleEntry
	for staleRows.Next() {
		var s staleEntry
		if err = staleRows.Scan(&s.id, &s.city, &s.country); err != nil {
			staleRows.Close()
			return nil, err
		}
		toRemove = append(toRemove, s)
	}
	if err = staleRows.Close(); err != nil {
		return nil, err
	}

	for _, s := range toRemove {
		if _, err = tx.ExecContext(ctx, `DELETE FROM place_years WHERE place_id = ?`, s.id); err != nil {
			return nil, err
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM places WHERE id = ?`, s.id); err != nil {
			return nil, err
		}
		changes = append(changes, Change{OccurredAt: now, Source: source, City: s.city, Country: s.country, ChangeType: "removed"})
	}

	for _, c := range changes {
		_, err = tx.ExecContext(ctx, `INSERT INTO place_changes(occurred_at, source, city, country, change_type) VALUES(?, ?, ?, ?, ?)`,
			c.OccurredAt.Format(sqliteTime), c.Source, c.City, nullIfEmpty(c.Country), c.ChangeType)
		if err != nil {
			return nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, err
	}
	return changes, nil
}

func writeYears(ctx context.Context, tx *sql.Tx, placeID int64, years []string) error {
	for _, y := range years {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO place_years(place_id, year) VALUES(?, ?)`, placeID, y); err != nil {
			return err
		}
	}
	return nil
}

// ListOptions controls selection when listing places.
type ListOptions struct {
	Source  string
	Country string
	Year    string
}

// ListPlaces returns stored places in insertion order.
func (d *DB) ListPlaces(ctx context.Context, opts ListOptions) ([]Place, error) {
	where := "WHERE 1=1"
	args := []interface{}{}
	if opts.Source != "" {
		where += " AND p.source = ?"
		args = append(args, opts.Source)
	}
	if opts.Country != "" {
		where += " AND LOWER(TRIM(p.country)) = ?"
		args = append(args, normalizeName(opts.Country))
	}
	if opts.Year != "" {
		where += " AND EXISTS (SELECT 1 FROM place_years f WHERE f.place_id = p.id AND f.year = ?)"
		args = append(args, opts.Year)
	}

	q := `SELECT p.source, p.city, COALESCE(p.country, ''), p.lat, p.lng, COALESCE(GROUP_CONCAT(y.year), '')
FROM places p LEFT JOIN place_years y ON y.place_id = p.id ` + where + ` GROUP BY p.id ORDER BY p.id`
	rows, err := d.sql.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Place
	for rows.Next() {
		var p Place
		var years string
		if err := rows.Scan(&p.Source, &p.City, &p.Country, &p.Lat, &p.Lng, &years); err != nil {
			return nil, err
		}
		p.Years = splitYears(years)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const sqliteTime = "2006-01-02 15:04:05"

// ListRecentChanges returns the most recent N changes across all sources.
func (d *DB) ListRecentChanges(ctx context.Context, limit int) ([]Change, error) {
	if limit <= 0 {
		limit = 50
	}
	q := "SELECT occurred_at, source, city, COALESCE(country, ''), change_type FROM place_changes ORDER BY occurred_at DESC, id DESC LIMIT ?"
	rows, err := d.sql.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	changes := []Change{}
	for rows.Next() {
		var c Change
		var occurredAtStr string
		if err := rows.Scan(&occurredAtStr, &c.Source, &c.City, &c.Country, &c.ChangeType); err != nil {
			return nil, err
		}
		// Parse SQLite CURRENT_TIMESTAMP format, then RFC3339
		if t, perr := time.Parse(sqliteTime, occurredAtStr); perr == nil {
			c.OccurredAt = t
		} else if t2, perr2 := time.Parse(time.RFC3339, occurredAtStr); perr2 == nil {
			c.OccurredAt = t2
		}
		changes = append(changes, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return changes, nil
}

func (d *DB) GetStats(ctx context.Context) ([]SourceStats, error) {
	query := `
		SELECT
			p.source,
			COUNT(DISTINCT p.id),
			COUNT(DISTINCT LOWER(TRIM(p.country))),
			COALESCE(MIN(y.year), ''),
			COALESCE(MAX(y.year), '')
		FROM
			places p LEFT JOIN place_years y ON y.place_id = p.id
		GROUP BY
			p.source
		ORDER BY
			p.source;
	`
	rows, err := d.sql.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []SourceStats
	for rows.Next() {
		var s SourceStats
		if err := rows.Scan(&s.Source, &s.PlaceCount, &s.Countries, &s.FirstYear, &s.LastYear); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return stats, nil
}

func splitYears(s string) []string {
	if s == "" {
		return nil
	}
	years := strings.Split(s, ",")
	for i := range years {
		years[i] = strings.TrimSpace(years[i])
	}
	// GROUP_CONCAT order is unspecified.
	catalog.SortYears(years)
	return years
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
