package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/KhuatDuy04/crawl/internal/domain"
)

// Filter narrows FindJobs and CountJobs. Empty fields do not filter.
type Filter struct {
	// Keyword matches title or company, case-insensitively.
	Keyword string
	// Location matches as a case-insensitive substring.
	Location string
	// JobType matches exactly.
	JobType string
}

func (f Filter) where() (string, []any) {
	var conds []string
	var args []any

	if f.Keyword != "" {
		p := containsPattern(f.Keyword)
		conds = append(conds, `(ufold(title) LIKE ? ESCAPE '\' OR ufold(company) LIKE ? ESCAPE '\')`)
		args = append(args, p, p)
	}
	if f.Location != "" {
		conds = append(conds, `ufold(location) LIKE ? ESCAPE '\'`)
		args = append(args, containsPattern(f.Location))
	}
	if f.JobType != "" {
		conds = append(conds, `job_type = ?`)
		args = append(args, f.JobType)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

// FindJobs returns one page of matching jobs. No ORDER BY is applied, so rows
// come back in SQLite's scan order (rowid, i.e. first insertion); callers
// must not rely on it beyond that.
func (d *DB) FindJobs(ctx context.Context, f Filter, skip, take int) ([]domain.JobRecord, error) {
	where, args := f.where()
	query := fmt.Sprintf(`
SELECT %s
FROM jobs
%s
LIMIT ? OFFSET ?;
`, strings.Join(jobColumns, ", "), where)

	rows, err := d.Pool.QueryContext(ctx, query, append(args, take, skip)...)
	if err != nil {
		return nil, fmt.Errorf("find jobs: %w", err)
	}
	defer rows.Close()

	out := []domain.JobRecord{}
	for rows.Next() {
		var r domain.JobRecord
		if err := rows.Scan(jobDest(&r)...); err != nil {
			return nil, fmt.Errorf("scan job: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// CountJobs counts every job matching f.
func (d *DB) CountJobs(ctx context.Context, f Filter) (int, error) {
	where, args := f.where()
	var n int
	if err := d.Pool.QueryRowContext(ctx, "SELECT COUNT(*) FROM jobs "+where+";", args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count jobs: %w", err)
	}
	return n, nil
}

// GetJob returns the job stored under link, or sql.ErrNoRows.
func (d *DB) GetJob(ctx context.Context, link string) (domain.JobRecord, error) {
	var r domain.JobRecord
	query := fmt.Sprintf(`SELECT %s FROM jobs WHERE link = ?;`, strings.Join(jobColumns, ", "))
	err := d.Pool.QueryRowContext(ctx, query, link).Scan(jobDest(&r)...)
	return r, err
}
