package insights

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore runs the aggregate queries against the report tables.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) TotalReports(ctx context.Context) (int, error) {
	var total int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM reports_raw`).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count reports: %w", err)
	}
	return total, nil
}

func (s *PostgresStore) TopCountries(ctx context.Context, limit int) ([]CountItem, error) {
	query := `
		SELECT er.country, COUNT(*) AS cnt
		FROM reports_raw r
		JOIN employer_refs er ON er.id = r.employer_ref_id
		GROUP BY er.country
		ORDER BY cnt DESC, er.country
		LIMIT $1
	`
	return s.queryCounts(ctx, query, limit, "top countries")
}

func (s *PostgresStore) TopRoles(ctx context.Context, limit int) ([]CountItem, error) {
	query := `
		SELECT job_title, COUNT(*) AS cnt
		FROM reports_raw
		GROUP BY job_title
		ORDER BY cnt DESC, job_title
		LIMIT $1
	`
	return s.queryCounts(ctx, query, limit, "top roles")
}

func (s *PostgresStore) TopIssueTypes(ctx context.Context, limit int) ([]CountItem, error) {
	query := `
		SELECT t, COUNT(*) AS cnt
		FROM reports_raw, unnest(issue_types) AS t
		GROUP BY t
		ORDER BY cnt DESC, t
		LIMIT $1
	`
	return s.queryCounts(ctx, query, limit, "top issue types")
}

func (s *PostgresStore) queryCounts(ctx context.Context, query string, limit int, what string) ([]CountItem, error) {
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", what, err)
	}
	defer rows.Close()

	var items []CountItem
	for rows.Next() {
		var item CountItem
		if err := rows.Scan(&item.Label, &item.Count); err != nil {
			return nil, fmt.Errorf("scan %s: %w", what, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate %s: %w", what, err)
	}
	return items, nil
}
