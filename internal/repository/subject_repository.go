package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bunkmate/bunkmate-backend/internal/model"
)

// ErrSubjectNotFound is returned when a subject id does not exist.
var ErrSubjectNotFound = errors.New("subject not found")

// ErrSubjectNameTaken is returned when a subject name collides with an existing one.
var ErrSubjectNameTaken = errors.New("subject name already exists")

type SubjectRepository struct {
	pool *pgxpool.Pool
}

func NewSubjectRepository(pool *pgxpool.Pool) *SubjectRepository {
	return &SubjectRepository{pool: pool}
}

func (r *SubjectRepository) Create(ctx context.Context, s *model.Subject) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO subjects (name, total_classes, attended_classes, required_percent)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		s.Name, s.TotalClasses, s.AttendedClasses, s.RequiredPercent,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	return translateError(err)
}

func (r *SubjectRepository) GetAll(ctx context.Context) ([]model.Subject, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, total_classes, attended_classes, required_percent, created_at, updated_at
		 FROM subjects ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []model.Subject
	for rows.Next() {
		var s model.Subject
		if err := rows.Scan(&s.ID, &s.Name, &s.TotalClasses, &s.AttendedClasses, &s.RequiredPercent, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func (r *SubjectRepository) GetByID(ctx context.Context, id int) (*model.Subject, error) {
	var s model.Subject
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, total_classes, attended_classes, required_percent, created_at, updated_at
		 FROM subjects WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.TotalClasses, &s.AttendedClasses, &s.RequiredPercent, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSubjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Update replaces all mutable fields. Last write wins; there is no version check.
func (r *SubjectRepository) Update(ctx context.Context, s *model.Subject) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE subjects
		 SET name = $1, total_classes = $2, attended_classes = $3, required_percent = $4, updated_at = NOW()
		 WHERE id = $5
		 RETURNING created_at, updated_at`,
		s.Name, s.TotalClasses, s.AttendedClasses, s.RequiredPercent, s.ID,
	).Scan(&s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrSubjectNotFound
	}
	return translateError(err)
}

func (r *SubjectRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM subjects WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrSubjectNotFound
	}
	return nil
}

// MarkAttended atomically records one held and attended class.
func (r *SubjectRepository) MarkAttended(ctx context.Context, id int) (*model.Subject, error) {
	return r.mark(ctx, id, true)
}

// MarkSkipped atomically records one held but unattended class.
func (r *SubjectRepository) MarkSkipped(ctx context.Context, id int) (*model.Subject, error) {
	return r.mark(ctx, id, false)
}

func (r *SubjectRepository) mark(ctx context.Context, id int, attended bool) (*model.Subject, error) {
	attendedInc := 0
	if attended {
		attendedInc = 1
	}

	var s model.Subject
	err := r.pool.QueryRow(ctx,
		`UPDATE subjects
		 SET total_classes = total_classes + 1,
		     attended_classes = attended_classes + $1,
		     updated_at = NOW()
		 WHERE id = $2
		 RETURNING id, name, total_classes, attended_classes, required_percent, created_at, updated_at`,
		attendedInc, id,
	).Scan(&s.ID, &s.Name, &s.TotalClasses, &s.AttendedClasses, &s.RequiredPercent, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrSubjectNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// translateError maps unique-constraint violations onto the domain sentinel.
func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrSubjectNameTaken
	}
	return err
}
