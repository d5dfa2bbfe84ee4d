package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/bunkmate/bunkmate-backend/internal/attendance"
	"github.com/bunkmate/bunkmate-backend/internal/config"
	"github.com/bunkmate/bunkmate-backend/internal/model"
	"github.com/bunkmate/bunkmate-backend/internal/repository"
)

// Domain Errors
var (
	// ErrCountersInconsistent is returned under the strict count policy when a
	// write claims more attended classes than were held.
	ErrCountersInconsistent = errors.New("attended classes exceed total classes")
)

// SubjectEventType labels a subject change event on the pub/sub channel.
type SubjectEventType string

const (
	SubjectCreated SubjectEventType = "subject_created"
	SubjectUpdated SubjectEventType = "subject_updated"
	SubjectDeleted SubjectEventType = "subject_deleted"
)

// SubjectEvent is the payload published to redis on every subject write and
// fanned out to websocket clients.
type SubjectEvent struct {
	Type      SubjectEventType        `json:"type"`
	SubjectID int                     `json:"subject_id"`
	Subject   *model.SubjectWithStats `json:"subject,omitempty"`
}

// SubjectService handles subject business logic: CRUD, stats derivation,
// count-policy enforcement, and change-event publishing.
type SubjectService struct {
	subjectRepo *repository.SubjectRepository
	rdb         *redis.Client
	cfg         *config.Config
	log         zerolog.Logger
}

func NewSubjectService(subjectRepo *repository.SubjectRepository, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *SubjectService {
	return &SubjectService{
		subjectRepo: subjectRepo,
		rdb:         rdb,
		cfg:         cfg,
		log:         log.With().Str("component", "subject_service").Logger(),
	}
}

// WithStats computes fresh projection stats for a subject. Under the lenient
// count policy stored counters may be inconsistent; reads cap attended at total
// before computing.
func (s *SubjectService) WithStats(sub model.Subject) (model.SubjectWithStats, error) {
	attended := sub.AttendedClasses
	if attended > sub.TotalClasses {
		attended = sub.TotalClasses
	}
	stats, err := attendance.Compute(attended, sub.TotalClasses, sub.RequiredPercent)
	if err != nil {
		return model.SubjectWithStats{}, err
	}
	return model.SubjectWithStats{Subject: sub, Stats: stats}, nil
}

func (s *SubjectService) GetAll(ctx context.Context) ([]model.SubjectWithStats, error) {
	subjects, err := s.subjectRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]model.SubjectWithStats, 0, len(subjects))
	for _, sub := range subjects {
		ws, err := s.WithStats(sub)
		if err != nil {
			return nil, err
		}
		result = append(result, ws)
	}
	return result, nil
}

func (s *SubjectService) GetByID(ctx context.Context, id int) (*model.SubjectWithStats, error) {
	sub, err := s.subjectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ws, err := s.WithStats(*sub)
	if err != nil {
		return nil, err
	}
	return &ws, nil
}

func (s *SubjectService) Create(ctx context.Context, req *model.CreateSubjectRequest) (*model.SubjectWithStats, error) {
	sub := model.Subject{
		Name:            req.Name,
		RequiredPercent: s.cfg.DefaultRequiredPercent,
	}
	if req.TotalClasses != nil {
		sub.TotalClasses = *req.TotalClasses
	}
	if req.AttendedClasses != nil {
		sub.AttendedClasses = *req.AttendedClasses
	}
	if req.RequiredPercent != nil {
		sub.RequiredPercent = *req.RequiredPercent
	}

	if err := s.checkCounters(sub.AttendedClasses, sub.TotalClasses); err != nil {
		return nil, err
	}

	if err := s.subjectRepo.Create(ctx, &sub); err != nil {
		return nil, err
	}

	ws, err := s.WithStats(sub)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, SubjectCreated, sub.ID, &ws)
	return &ws, nil
}

// Update is a full replacement of name and counters. Last write wins on
// concurrent updates; there is no optimistic-concurrency check.
func (s *SubjectService) Update(ctx context.Context, id int, req *model.UpdateSubjectRequest) (*model.SubjectWithStats, error) {
	if err := s.checkCounters(*req.AttendedClasses, *req.TotalClasses); err != nil {
		return nil, err
	}

	sub := model.Subject{
		ID:              id,
		Name:            req.Name,
		TotalClasses:    *req.TotalClasses,
		AttendedClasses: *req.AttendedClasses,
		RequiredPercent: *req.RequiredPercent,
	}
	if err := s.subjectRepo.Update(ctx, &sub); err != nil {
		return nil, err
	}

	ws, err := s.WithStats(sub)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, SubjectUpdated, id, &ws)
	return &ws, nil
}

func (s *SubjectService) Delete(ctx context.Context, id int) error {
	if err := s.subjectRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.publishEvent(ctx, SubjectDeleted, id, nil)
	return nil
}

// MarkAttended records one held and attended class in a single atomic increment.
func (s *SubjectService) MarkAttended(ctx context.Context, id int) (*model.SubjectWithStats, error) {
	sub, err := s.subjectRepo.MarkAttended(ctx, id)
	if err != nil {
		return nil, err
	}
	ws, err := s.WithStats(*sub)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, SubjectUpdated, id, &ws)
	return &ws, nil
}

// MarkSkipped records one held but unattended class.
func (s *SubjectService) MarkSkipped(ctx context.Context, id int) (*model.SubjectWithStats, error) {
	sub, err := s.subjectRepo.MarkSkipped(ctx, id)
	if err != nil {
		return nil, err
	}
	ws, err := s.WithStats(*sub)
	if err != nil {
		return nil, err
	}
	s.publishEvent(ctx, SubjectUpdated, id, &ws)
	return &ws, nil
}

func (s *SubjectService) checkCounters(attended, total int) error {
	if s.cfg.CountPolicy == config.CountPolicyStrict && attended > total {
		return ErrCountersInconsistent
	}
	return nil
}

// publishEvent pushes the change onto the pub/sub channel and drops the cached
// overview. Failures are logged, never surfaced: the write already succeeded.
func (s *SubjectService) publishEvent(ctx context.Context, eventType SubjectEventType, id int, subject *model.SubjectWithStats) {
	payload, err := json.Marshal(SubjectEvent{Type: eventType, SubjectID: id, Subject: subject})
	if err != nil {
		s.log.Error().Err(err).Int("subject_id", id).Msg("marshal subject event")
		return
	}

	pipe := s.rdb.Pipeline()
	pipe.Publish(ctx, config.CacheKey.SubjectEventsChannel(), payload)
	pipe.Del(ctx, config.CacheKey.OverviewKey())
	if _, err := pipe.Exec(ctx); err != nil {
		s.log.Warn().Err(err).Int("subject_id", id).Msg("publish subject event")
	}
}
