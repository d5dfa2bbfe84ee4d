package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/bunkmate/bunkmate-backend/internal/attendance"
	"github.com/bunkmate/bunkmate-backend/internal/config"
	"github.com/bunkmate/bunkmate-backend/internal/repository"
)

// Overview consolidates aggregate attendance metrics across all subjects.
type Overview struct {
	TotalSubjects      int       `json:"total_subjects"`
	TotalClasses       int       `json:"total_classes"`
	AttendedClasses    int       `json:"attended_classes"`
	OverallPercent     float64   `json:"overall_percent"`
	SafeSubjects       int       `json:"safe_subjects"`
	AtRiskSubjects     int       `json:"at_risk_subjects"`
	NotStartedSubjects int       `json:"not_started_subjects"`
	GeneratedAt        time.Time `json:"generated_at"`
}

// OverviewService computes and caches the aggregate dashboard.
type OverviewService struct {
	overviewRepo *repository.OverviewRepository
	rdb          *redis.Client
	cfg          *config.Config
	log          zerolog.Logger
}

func NewOverviewService(overviewRepo *repository.OverviewRepository, rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *OverviewService {
	return &OverviewService{
		overviewRepo: overviewRepo,
		rdb:          rdb,
		cfg:          cfg,
		log:          log.With().Str("component", "overview_service").Logger(),
	}
}

// Get returns the overview, serving from redis when warm and recomputing on miss.
func (s *OverviewService) Get(ctx context.Context) (*Overview, error) {
	data, err := s.rdb.Get(ctx, config.CacheKey.OverviewKey()).Bytes()
	if err == nil {
		var o Overview
		if err := json.Unmarshal(data, &o); err == nil {
			return &o, nil
		}
		s.log.Warn().Msg("cached overview is corrupt, recomputing")
	} else if !errors.Is(err, redis.Nil) {
		// Redis being down should not take the dashboard with it.
		s.log.Warn().Err(err).Msg("overview cache read failed")
	}

	return s.Refresh(ctx)
}

// buildOverview folds per-subject counters into the aggregate dashboard.
// A subject is safe when its target is reachable and already met, at risk
// otherwise; subjects with no classes held yet are counted separately.
func buildOverview(counters []repository.SubjectCounters) (*Overview, error) {
	o := &Overview{
		TotalSubjects: len(counters),
		GeneratedAt:   time.Now().UTC(),
	}
	for _, c := range counters {
		attended := c.AttendedClasses
		if attended > c.TotalClasses {
			// Lenient-policy rows; cap at read time like subject reads do.
			attended = c.TotalClasses
		}
		o.TotalClasses += c.TotalClasses
		o.AttendedClasses += attended

		p, err := attendance.Compute(attended, c.TotalClasses, c.RequiredPercent)
		if err != nil {
			return nil, err
		}
		switch {
		case c.TotalClasses == 0:
			o.NotStartedSubjects++
		case p.TargetReachable && p.NeedToAttend == 0:
			o.SafeSubjects++
		default:
			o.AtRiskSubjects++
		}
	}
	if o.TotalClasses > 0 {
		o.OverallPercent = math.Round(float64(o.AttendedClasses)/float64(o.TotalClasses)*100*100) / 100
	}
	return o, nil
}

// Refresh recomputes the overview from the database and rewrites the cache.
func (s *OverviewService) Refresh(ctx context.Context) (*Overview, error) {
	counters, err := s.overviewRepo.GetCounters(ctx)
	if err != nil {
		return nil, err
	}

	o, err := buildOverview(counters)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(o)
	if err != nil {
		return nil, err
	}
	if err := s.rdb.Set(ctx, config.CacheKey.OverviewKey(), payload, s.cfg.OverviewCacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Msg("overview cache write failed")
	}

	return o, nil
}
