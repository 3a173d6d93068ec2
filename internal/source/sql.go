package source

import (
	"context"
	"database/sql"
	"fmt"

	// Registered drivers for report queries.
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ukaji3/xlsxpack-go/pkg/xlsxpack/models"
)

// Query names a SQL statement whose rows fill one sheet.
type Query struct {
	Sheet string
	SQL   string
	Args  []any
}

// Open opens a database handle for driver ("sqlite3" or "postgres") and checks
// the connection.
func Open(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	if driver == "sqlite3" {
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// QuerySection runs q and turns each row into a record keyed by column name,
// in column order.
func QuerySection(ctx context.Context, db *sql.DB, q Query) (models.Section, error) {
	sec := models.Section{Name: q.Sheet}

	rows, err := db.QueryContext(ctx, q.SQL, q.Args...)
	if err != nil {
		return sec, NewSectionError(q.Sheet, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return sec, NewSectionError(q.Sheet, err)
	}

	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return sec, NewSectionError(q.Sheet, err)
		}
		rec := make(models.Record, len(cols))
		for i, col := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			rec[i] = models.Field{Key: col, Value: v}
		}
		sec.Records = append(sec.Records, rec)
	}
	if err := rows.Err(); err != nil {
		return sec, NewSectionError(q.Sheet, err)
	}
	return sec, nil
}

// QuerySections runs queries in order and stops at the first failure.
func QuerySections(ctx context.Context, db *sql.DB, queries []Query) ([]models.Section, error) {
	sections := make([]models.Section, 0, len(queries))
	for _, q := range queries {
		sec, err := QuerySection(ctx, db, q)
		if err != nil {
			return nil, err
		}
		sections = append(sections, sec)
	}
	return sections, nil
}
