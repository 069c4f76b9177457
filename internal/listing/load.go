package listing

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/yaml.v3"
)

// LoadFile reads a YAML or JSON listing file. The document is either a
// sequence of listings or a mapping with a "jobs" sequence.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read listings: %w", err)
	}
	jobs, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return NewCatalog(jobs)
}

func parse(data []byte) ([]Job, error) {
	var list []Job
	if err := yaml.Unmarshal(data, &list); err == nil {
		return list, nil
	}
	var doc struct {
		Jobs []Job `yaml:"jobs"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc.Jobs, nil
}

// LoadPostgres reads every row of the job_listings table.
func LoadPostgres(ctx context.Context, pool *pgxpool.Pool) (*Catalog, error) {
	rows, err := pool.Query(ctx,
		`SELECT id, title, company,
		        COALESCE(location, ''), COALESCE(mode, ''), COALESCE(experience, ''),
		        COALESCE(salary_range, ''), COALESCE(skills, '{}'::text[]),
		        COALESCE(description, ''), COALESCE(source, ''),
		        posted_days_ago, COALESCE(apply_url, '')
		 FROM job_listings
		 ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("query job_listings: %w", err)
	}
	defer rows.Close()

	var jobs []Job
	for rows.Next() {
		var j Job
		if err := rows.Scan(
			&j.ID, &j.Title, &j.Company,
			&j.Location, &j.Mode, &j.Experience,
			&j.SalaryRange, &j.Skills,
			&j.Description, &j.Source,
			&j.PostedDaysAgo, &j.ApplyURL,
		); err != nil {
			return nil, fmt.Errorf("scan job_listings: %w", err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job_listings: %w", err)
	}
	return NewCatalog(jobs)
}
