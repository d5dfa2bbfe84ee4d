package service

import (
	"testing"

	"github.com/bunkmate/bunkmate-backend/internal/repository"
)

func TestBuildOverviewClassification(t *testing.T) {
	counters := []repository.SubjectCounters{
		// No classes held yet.
		{TotalClasses: 0, AttendedClasses: 0, RequiredPercent: 75},
		// Above target: 19/22 is 86.36%, can still skip 3.
		{TotalClasses: 22, AttendedClasses: 19, RequiredPercent: 75},
		// Below target: 10/20 needs 20 straight classes.
		{TotalClasses: 20, AttendedClasses: 10, RequiredPercent: 75},
		// 100% target with a missed class can never be reached.
		{TotalClasses: 12, AttendedClasses: 11, RequiredPercent: 100},
		// Lenient-policy row: capped to 10/10 before classification.
		{TotalClasses: 10, AttendedClasses: 12, RequiredPercent: 75},
	}

	o, err := buildOverview(counters)
	if err != nil {
		t.Fatalf("buildOverview() error = %v", err)
	}

	if o.TotalSubjects != 5 {
		t.Errorf("TotalSubjects = %d, want 5", o.TotalSubjects)
	}
	if o.SafeSubjects != 2 {
		t.Errorf("SafeSubjects = %d, want 2", o.SafeSubjects)
	}
	if o.AtRiskSubjects != 2 {
		t.Errorf("AtRiskSubjects = %d, want 2", o.AtRiskSubjects)
	}
	if o.NotStartedSubjects != 1 {
		t.Errorf("NotStartedSubjects = %d, want 1", o.NotStartedSubjects)
	}
	if o.TotalClasses != 64 {
		t.Errorf("TotalClasses = %d, want 64", o.TotalClasses)
	}
	// The inconsistent row contributes at most its held classes.
	if o.AttendedClasses != 50 {
		t.Errorf("AttendedClasses = %d, want 50", o.AttendedClasses)
	}
	// 50/64 is exactly 78.125, rounded half away from zero.
	if o.OverallPercent != 78.13 {
		t.Errorf("OverallPercent = %v, want 78.13", o.OverallPercent)
	}
	if o.GeneratedAt.IsZero() {
		t.Error("GeneratedAt is zero")
	}
}

func TestBuildOverviewEmpty(t *testing.T) {
	o, err := buildOverview(nil)
	if err != nil {
		t.Fatalf("buildOverview() error = %v", err)
	}
	if o.TotalSubjects != 0 || o.SafeSubjects != 0 || o.AtRiskSubjects != 0 || o.NotStartedSubjects != 0 {
		t.Errorf("counts = %d/%d/%d/%d, want all zero",
			o.TotalSubjects, o.SafeSubjects, o.AtRiskSubjects, o.NotStartedSubjects)
	}
	if o.OverallPercent != 0 {
		t.Errorf("OverallPercent = %v, want 0", o.OverallPercent)
	}
}
