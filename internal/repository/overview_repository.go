package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SubjectCounters is the minimal per-subject slice of data the overview needs.
// The safe/at-risk decision stays in the attendance package, so only raw
// counters are pulled from the database.
type SubjectCounters struct {
	TotalClasses    int
	AttendedClasses int
	RequiredPercent float64
}

// OverviewRepository handles aggregate dashboard data access.
type OverviewRepository struct {
	pool *pgxpool.Pool
}

// NewOverviewRepository creates a new OverviewRepository.
func NewOverviewRepository(pool *pgxpool.Pool) *OverviewRepository {
	return &OverviewRepository{pool: pool}
}

// GetCounters retrieves the attendance counters of every subject.
func (r *OverviewRepository) GetCounters(ctx context.Context) ([]SubjectCounters, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT total_classes, attended_classes, required_percent FROM subjects`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counters []SubjectCounters
	for rows.Next() {
		var c SubjectCounters
		if err := rows.Scan(&c.TotalClasses, &c.AttendedClasses, &c.RequiredPercent); err != nil {
			return nil, err
		}
		counters = append(counters, c)
	}
	return counters, rows.Err()
}
