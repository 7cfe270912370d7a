package store

import (
	"database/sql"
)

// Migrate brings the schema to the current user_version.
func Migrate(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var v int
	if err := tx.QueryRow(`PRAGMA user_version;`).Scan(&v); err != nil {
		return err
	}

	if v >= 1 {
		return tx.Commit()
	}

	// ---- Schema v1 ----

	if _, err := tx.Exec(`
CREATE TABLE IF NOT EXISTS jobs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  link TEXT NOT NULL UNIQUE,
  job_type TEXT NOT NULL DEFAULT '',
  title TEXT NOT NULL DEFAULT '',
  company TEXT NOT NULL DEFAULT '',
  salary TEXT NOT NULL DEFAULT '',
  location TEXT NOT NULL DEFAULT '',
  experience TEXT NOT NULL DEFAULT '',
  level TEXT NOT NULL DEFAULT '',
  working_form TEXT NOT NULL DEFAULT '',
  deadline TEXT NOT NULL DEFAULT '',
  shift TEXT NOT NULL DEFAULT '',
  degree TEXT NOT NULL DEFAULT '',
  age TEXT NOT NULL DEFAULT '',
  quantity TEXT NOT NULL DEFAULT '',
  field TEXT NOT NULL DEFAULT '',
  description TEXT NOT NULL DEFAULT '',
  requirement TEXT NOT NULL DEFAULT '',
  benefit TEXT NOT NULL DEFAULT '',
  company_logo TEXT NOT NULL DEFAULT '',
  company_size TEXT NOT NULL DEFAULT '',
  company_headquarters TEXT NOT NULL DEFAULT '',
  contact_name TEXT NOT NULL DEFAULT '',
  contact_phone TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL
);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`
CREATE INDEX IF NOT EXISTS idx_jobs_job_type
ON jobs(job_type);
`); err != nil {
		return err
	}

	if _, err := tx.Exec(`PRAGMA user_version = 1;`); err != nil {
		return err
	}

	return tx.Commit()
}
