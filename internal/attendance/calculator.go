package attendance

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when counters or the target percent are out of range.
var ErrInvalidInput = errors.New("invalid attendance input")

// Projection is the derived attendance statistics for a subject.
// It is computed fresh from the subject's counters on every read and never stored.
type Projection struct {
	// CurrentPercent is attended/total*100, rounded to 2 decimals. 0 when total is 0.
	CurrentPercent float64 `json:"current_percent"`
	// CanBunk is how many more classes can be missed while staying at/above target.
	CanBunk int `json:"can_bunk"`
	// NeedToAttend is how many consecutive classes must be attended to reach target.
	NeedToAttend int `json:"need_to_attend"`
	// TargetReachable is false only when the target is 100% and a class was already missed.
	TargetReachable bool   `json:"target_reachable"`
	Message         string `json:"message"`
}

// Compute derives the attendance projection for the given counters and target percent.
//
// The target is a percentage in (0, 100]. Counters must be non-negative and
// attended must not exceed total; violations return ErrInvalidInput instead of
// propagating nonsense through the arithmetic.
//
// Pure function. Safe for concurrent use.
func Compute(attended, total int, requiredPercent float64) (Projection, error) {
	if math.IsNaN(requiredPercent) || math.IsInf(requiredPercent, 0) {
		return Projection{}, fmt.Errorf("%w: required percent is not a finite number", ErrInvalidInput)
	}
	if requiredPercent <= 0 || requiredPercent > 100 {
		return Projection{}, fmt.Errorf("%w: required percent %.2f outside (0, 100]", ErrInvalidInput, requiredPercent)
	}
	if attended < 0 || total < 0 {
		return Projection{}, fmt.Errorf("%w: negative class count", ErrInvalidInput)
	}
	if attended > total {
		return Projection{}, fmt.Errorf("%w: attended %d exceeds total %d", ErrInvalidInput, attended, total)
	}

	if total == 0 {
		return Projection{
			TargetReachable: true,
			Message:         "No classes conducted yet.",
		}, nil
	}

	r := requiredPercent / 100
	// Branch on the unrounded percent. Rounding first could flip the branch
	// right at the threshold.
	current := float64(attended) / float64(total) * 100

	p := Projection{
		CurrentPercent:  round2(current),
		TargetReachable: true,
	}

	if current >= requiredPercent {
		// Solve attended/(total+n) >= r for the largest integer n.
		canBunk := int(math.Floor((float64(attended) - r*float64(total)) / r))
		if canBunk < 0 {
			// Float noise at exact equality.
			canBunk = 0
		}
		p.CanBunk = canBunk
		if canBunk == 0 {
			p.Message = fmt.Sprintf("You are at %.2f%%. You cannot afford to skip any class.", p.CurrentPercent)
		} else {
			p.Message = fmt.Sprintf("You are at %.2f%%. You can skip %d more %s.", p.CurrentPercent, canBunk, pluralClasses(canBunk))
		}
		return p, nil
	}

	if r >= 1 {
		// A missed class can never be recovered when the target is 100%.
		p.TargetReachable = false
		p.Message = fmt.Sprintf("You are at %.2f%%. A 100%% target is no longer reachable.", p.CurrentPercent)
		return p, nil
	}

	// Solve (attended+x)/(total+x) >= r for the smallest integer x.
	need := int(math.Ceil((r*float64(total) - float64(attended)) / (1 - r)))
	if need < 0 {
		need = 0
	}
	p.NeedToAttend = need
	p.Message = fmt.Sprintf("You are at %.2f%%. Attend the next %d %s to reach %.2f%%.",
		p.CurrentPercent, need, pluralClasses(need), requiredPercent)
	return p, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func pluralClasses(n int) string {
	if n == 1 {
		return "class"
	}
	return "classes"
}
