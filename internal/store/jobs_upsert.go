package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/KhuatDuy04/crawl/internal/domain"
)

// jobColumns is the column order shared by jobArgs and jobDest.
var jobColumns = []string{
	"link", "job_type",
	"title", "company", "salary", "location", "experience", "level",
	"working_form", "deadline", "shift", "degree", "age", "quantity", "field",
	"description", "requirement", "benefit",
	"company_logo", "company_size", "company_headquarters", "contact_name", "contact_phone",
}

func jobArgs(r domain.JobRecord) []any {
	return []any{
		r.Link, r.JobType,
		r.Title, r.Company, r.Salary, r.Location, r.Experience, r.Level,
		r.WorkingForm, r.Deadline, r.Shift, r.Degree, r.Age, r.Quantity, r.Field,
		r.Description, r.Requirement, r.Benefit,
		r.CompanyLogo, r.CompanySize, r.CompanyHeadquarters, r.ContactName, r.ContactPhone,
	}
}

func jobDest(r *domain.JobRecord) []any {
	return []any{
		&r.Link, &r.JobType,
		&r.Title, &r.Company, &r.Salary, &r.Location, &r.Experience, &r.Level,
		&r.WorkingForm, &r.Deadline, &r.Shift, &r.Degree, &r.Age, &r.Quantity, &r.Field,
		&r.Description, &r.Requirement, &r.Benefit,
		&r.CompanyLogo, &r.CompanySize, &r.CompanyHeadquarters, &r.ContactName, &r.ContactPhone,
	}
}

var upsertJobSQL = func() string {
	sets := make([]string, 0, len(jobColumns))
	for _, c := range jobColumns[1:] {
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
	}
	sets = append(sets, "updated_at = excluded.updated_at")

	return fmt.Sprintf(`
INSERT INTO jobs (%s, created_at, updated_at)
VALUES (%s, ?, ?)
ON CONFLICT(link) DO UPDATE SET
  %s;`,
		strings.Join(jobColumns, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(jobColumns)), ", "),
		strings.Join(sets, ",\n  "),
	)
}()

// UpsertJob stores r under r.Link, replacing every field of an existing row.
func (d *DB) UpsertJob(ctx context.Context, r domain.JobRecord) error {
	if r.Link == "" {
		return fmt.Errorf("upsert job: empty link")
	}
	now := time.Now().UTC().Format(time.RFC3339)
	args := append(jobArgs(r), now, now)
	if _, err := d.Pool.ExecContext(ctx, upsertJobSQL, args...); err != nil {
		return fmt.Errorf("upsert job %s: %w", r.Link, err)
	}
	return nil
}
