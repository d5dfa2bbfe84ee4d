package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bunkmate/bunkmate-backend/internal/config"
	"github.com/bunkmate/bunkmate-backend/internal/model"
)

func newTestSubjectService(policy config.CountPolicy) *SubjectService {
	cfg := &config.Config{
		DefaultRequiredPercent: 75,
		CountPolicy:            policy,
	}
	return NewSubjectService(nil, nil, cfg, zerolog.Nop())
}

func TestWithStatsCapsInconsistentCounters(t *testing.T) {
	svc := newTestSubjectService(config.CountPolicyLenient)

	// A lenient-policy row can claim more attended classes than were held.
	// Stats must be computed as if every held class was attended.
	ws, err := svc.WithStats(model.Subject{
		Name:            "Databases",
		TotalClasses:    10,
		AttendedClasses: 12,
		RequiredPercent: 75,
	})
	if err != nil {
		t.Fatalf("WithStats() error = %v", err)
	}

	if ws.Stats.CurrentPercent != 100 {
		t.Errorf("CurrentPercent = %v, want 100", ws.Stats.CurrentPercent)
	}
	if ws.Stats.CanBunk != 3 {
		t.Errorf("CanBunk = %d, want 3", ws.Stats.CanBunk)
	}
	if ws.Stats.NeedToAttend != 0 {
		t.Errorf("NeedToAttend = %d, want 0", ws.Stats.NeedToAttend)
	}
	// Stored counters are returned as-is; only the derived stats are capped.
	if ws.AttendedClasses != 12 {
		t.Errorf("AttendedClasses = %d, want 12", ws.AttendedClasses)
	}
}

func TestWithStatsConsistentCountersUnchanged(t *testing.T) {
	svc := newTestSubjectService(config.CountPolicyLenient)

	ws, err := svc.WithStats(model.Subject{
		Name:            "Networks",
		TotalClasses:    20,
		AttendedClasses: 10,
		RequiredPercent: 75,
	})
	if err != nil {
		t.Fatalf("WithStats() error = %v", err)
	}
	if ws.Stats.CurrentPercent != 50 {
		t.Errorf("CurrentPercent = %v, want 50", ws.Stats.CurrentPercent)
	}
	if ws.Stats.NeedToAttend != 20 {
		t.Errorf("NeedToAttend = %d, want 20", ws.Stats.NeedToAttend)
	}
}

func TestCheckCountersPolicy(t *testing.T) {
	strict := newTestSubjectService(config.CountPolicyStrict)
	lenient := newTestSubjectService(config.CountPolicyLenient)

	if err := strict.checkCounters(12, 10); !errors.Is(err, ErrCountersInconsistent) {
		t.Errorf("strict checkCounters(12, 10) = %v, want ErrCountersInconsistent", err)
	}
	if err := strict.checkCounters(10, 10); err != nil {
		t.Errorf("strict checkCounters(10, 10) = %v, want nil", err)
	}
	if err := lenient.checkCounters(12, 10); err != nil {
		t.Errorf("lenient checkCounters(12, 10) = %v, want nil", err)
	}
}

func TestCreateRejectsInconsistentCountersStrict(t *testing.T) {
	svc := newTestSubjectService(config.CountPolicyStrict)

	total, attended := 10, 12
	_, err := svc.Create(context.Background(), &model.CreateSubjectRequest{
		Name:            "Compilers",
		TotalClasses:    &total,
		AttendedClasses: &attended,
	})
	if !errors.Is(err, ErrCountersInconsistent) {
		t.Errorf("Create() error = %v, want ErrCountersInconsistent", err)
	}
}

func TestUpdateRejectsInconsistentCountersStrict(t *testing.T) {
	svc := newTestSubjectService(config.CountPolicyStrict)

	total, attended := 10, 12
	required := 75.0
	_, err := svc.Update(context.Background(), 1, &model.UpdateSubjectRequest{
		Name:            "Compilers",
		TotalClasses:    &total,
		AttendedClasses: &attended,
		RequiredPercent: &required,
	})
	if !errors.Is(err, ErrCountersInconsistent) {
		t.Errorf("Update() error = %v, want ErrCountersInconsistent", err)
	}
}
