package attendance

import (
	"errors"
	"math"
	"testing"
)

func TestComputeNoClassesYet(t *testing.T) {
	for _, attended := range []int{0} {
		p, err := Compute(attended, 0, 75)
		if err != nil {
			t.Fatalf("Compute(%d, 0, 75): %v", attended, err)
		}
		if p.CurrentPercent != 0 || p.CanBunk != 0 || p.NeedToAttend != 0 {
			t.Errorf("expected zeroed projection, got %+v", p)
		}
		if !p.TargetReachable {
			t.Errorf("empty subject must report target reachable")
		}
		if p.Message != "No classes conducted yet." {
			t.Errorf("unexpected message: %q", p.Message)
		}
	}
}

func TestComputeBranches(t *testing.T) {
	tests := []struct {
		name            string
		attended, total int
		required        float64
		wantPercent     float64
		wantCanBunk     int
		wantNeed        int
	}{
		{"exactly at threshold", 75, 100, 75, 75, 0, 0},
		{"safe with margin", 80, 100, 75, 80, 6, 0},
		{"deep below target", 50, 100, 75, 50, 0, 100},
		{"perfect attendance", 10, 10, 75, 100, 3, 0},
		{"one short of half target", 4, 10, 50, 40, 0, 2},
		{"single class attended", 1, 1, 75, 100, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Compute(tt.attended, tt.total, tt.required)
			if err != nil {
				t.Fatalf("Compute: %v", err)
			}
			if p.CurrentPercent != tt.wantPercent {
				t.Errorf("current percent = %v, want %v", p.CurrentPercent, tt.wantPercent)
			}
			if p.CanBunk != tt.wantCanBunk {
				t.Errorf("can bunk = %d, want %d", p.CanBunk, tt.wantCanBunk)
			}
			if p.NeedToAttend != tt.wantNeed {
				t.Errorf("need to attend = %d, want %d", p.NeedToAttend, tt.wantNeed)
			}
			if !p.TargetReachable {
				t.Errorf("target must be reachable for %+v", tt)
			}
		})
	}
}

// The projections must actually hold: skipping CanBunk classes keeps the subject
// at/above target and skipping one more drops it below; attending NeedToAttend
// classes reaches target and attending one fewer does not.
func TestComputeProjectionsAreTight(t *testing.T) {
	percent := func(attended, total int) float64 {
		return float64(attended) / float64(total) * 100
	}

	// Targets whose fraction is exact in binary, so the boundary arithmetic
	// carries no float noise and the tight bounds below are well-defined.
	for total := 1; total <= 60; total++ {
		for attended := 0; attended <= total; attended++ {
			for _, required := range []float64{25, 50, 75, 87.5} {
				p, err := Compute(attended, total, required)
				if err != nil {
					t.Fatalf("Compute(%d, %d, %v): %v", attended, total, required, err)
				}

				if percent(attended, total) >= required {
					if p.CanBunk > 0 && percent(attended, total+p.CanBunk) < required {
						t.Fatalf("(%d/%d @%v) skipping %d drops below target", attended, total, required, p.CanBunk)
					}
					if percent(attended, total+p.CanBunk+1) >= required {
						t.Fatalf("(%d/%d @%v) canBunk=%d is not maximal", attended, total, required, p.CanBunk)
					}
				}
				if p.NeedToAttend > 0 {
					if percent(attended+p.NeedToAttend, total+p.NeedToAttend) < required {
						t.Fatalf("(%d/%d @%v) attending %d does not reach target", attended, total, required, p.NeedToAttend)
					}
					if percent(attended+p.NeedToAttend-1, total+p.NeedToAttend-1) >= required {
						t.Fatalf("(%d/%d @%v) needToAttend=%d is not minimal", attended, total, required, p.NeedToAttend)
					}
				}
			}
		}
	}
}

// Exactly one of the two projections may be nonzero, except at the exact
// threshold where both are zero.
func TestComputeBranchExclusivity(t *testing.T) {
	for total := 1; total <= 40; total++ {
		for attended := 0; attended <= total; attended++ {
			p, err := Compute(attended, total, 75)
			if err != nil {
				t.Fatalf("Compute(%d, %d, 75): %v", attended, total, err)
			}
			if p.CanBunk > 0 && p.NeedToAttend > 0 {
				t.Fatalf("(%d/%d) both projections nonzero: %+v", attended, total, p)
			}
			if p.CanBunk < 0 || p.NeedToAttend < 0 {
				t.Fatalf("(%d/%d) negative projection: %+v", attended, total, p)
			}
		}
	}
}

func TestComputeMonotonicInAttended(t *testing.T) {
	const total = 30
	prevBunk, prevNeed := -1, math.MaxInt
	for attended := 0; attended <= total; attended++ {
		p, err := Compute(attended, total, 75)
		if err != nil {
			t.Fatalf("Compute(%d, %d, 75): %v", attended, total, err)
		}
		if p.CanBunk < prevBunk {
			t.Errorf("canBunk decreased at attended=%d", attended)
		}
		if p.NeedToAttend > prevNeed {
			t.Errorf("needToAttend increased at attended=%d", attended)
		}
		prevBunk, prevNeed = p.CanBunk, p.NeedToAttend
	}
}

func TestComputeIdempotent(t *testing.T) {
	a, err := Compute(42, 57, 80)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compute(42, 57, 80)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Errorf("identical inputs produced different projections: %+v vs %+v", a, b)
	}
}

func TestComputeHundredPercentTarget(t *testing.T) {
	// Every class attended so far: still reachable, nothing to spare.
	p, err := Compute(12, 12, 100)
	if err != nil {
		t.Fatal(err)
	}
	if !p.TargetReachable || p.CanBunk != 0 || p.NeedToAttend != 0 {
		t.Errorf("full attendance at 100%% target: %+v", p)
	}

	// One class missed: mathematically unreachable, never NaN/Inf.
	p, err = Compute(11, 12, 100)
	if err != nil {
		t.Fatal(err)
	}
	if p.TargetReachable {
		t.Errorf("missed class must make 100%% target unreachable: %+v", p)
	}
	if p.NeedToAttend != 0 || p.CanBunk != 0 {
		t.Errorf("unreachable target must zero both projections: %+v", p)
	}
	if math.IsNaN(p.CurrentPercent) || math.IsInf(p.CurrentPercent, 0) {
		t.Errorf("current percent must stay finite: %v", p.CurrentPercent)
	}
}

func TestComputeRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name            string
		attended, total int
		required        float64
	}{
		{"negative attended", -1, 10, 75},
		{"negative total", 0, -5, 75},
		{"attended above total", 11, 10, 75},
		{"zero required percent", 5, 10, 0},
		{"negative required percent", 5, 10, -10},
		{"required percent above 100", 5, 10, 101},
		{"NaN required percent", 5, 10, math.NaN()},
		{"Inf required percent", 5, 10, math.Inf(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compute(tt.attended, tt.total, tt.required)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Compute(%d, %d, %v) err = %v, want ErrInvalidInput", tt.attended, tt.total, tt.required, err)
			}
		})
	}
}

func TestComputeRounding(t *testing.T) {
	// 2/3 = 66.666...% — rounded for display, full precision for the branch.
	p, err := Compute(2, 3, 66.6)
	if err != nil {
		t.Fatal(err)
	}
	if p.CurrentPercent != 66.67 {
		t.Errorf("current percent = %v, want 66.67", p.CurrentPercent)
	}
	if p.NeedToAttend != 0 {
		t.Errorf("66.666... is above 66.6, expected safe branch: %+v", p)
	}

	// Display rounding on a repeating fraction below 50%.
	p, err = Compute(1, 3, 30)
	if err != nil {
		t.Fatal(err)
	}
	if p.CurrentPercent != 33.33 {
		t.Errorf("current percent = %v, want 33.33", p.CurrentPercent)
	}
	if p.CanBunk != 0 {
		t.Errorf("33.33%% against a 30%% target leaves no class to spare: %+v", p)
	}
}
