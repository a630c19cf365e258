package clips

import (
	"fmt"
	"math"
)

type Policy string

const (
	PolicyUniform Policy = "uniform"
	PolicySpaced  Policy = "spaced"
)

// Plan holds the start offsets selected for one job plus the shared clip
// duration. Offsets are seconds from the start of the source, strictly
// increasing, and are never mutated after selection.
type Plan struct {
	Offsets      []float64
	ClipDuration float64
}

func (p Plan) Len() int {
	return len(p.Offsets)
}

// Select computes a clip plan for the given policy. It is pure: identical
// inputs always yield identical plans.
func Select(policy Policy, totalDuration, clipDuration float64, desiredCount int, margin float64) (Plan, error) {
	switch policy {
	case PolicyUniform, "":
		return Uniform(totalDuration, clipDuration), nil
	case PolicySpaced:
		return Spaced(totalDuration, clipDuration, desiredCount, margin), nil
	default:
		return Plan{}, fmt.Errorf("unknown clip policy: %q", policy)
	}
}

// Uniform tiles the source back to back: floor(total/clip) offsets at
// 0, clip, 2*clip, ... A source shorter than one clip yields an empty plan.
func Uniform(totalDuration, clipDuration float64) Plan {
	plan := Plan{ClipDuration: clipDuration}
	if totalDuration <= 0 || clipDuration <= 0 {
		return plan
	}
	n := int(math.Floor(totalDuration / clipDuration))
	for i := 0; i < n; i++ {
		plan.Offsets = append(plan.Offsets, round2(float64(i)*clipDuration))
	}
	return plan
}

// Spaced samples desiredCount evenly spaced offsets between edge margins.
// The usable window excludes the margin at both ends and the final clip
// length; when the window collapses the plan degrades to a single offset
// at the margin start.
func Spaced(totalDuration, clipDuration float64, desiredCount int, margin float64) Plan {
	plan := Plan{ClipDuration: clipDuration}
	if totalDuration <= 0 || clipDuration <= 0 || desiredCount < 1 {
		return plan
	}

	usable := totalDuration - clipDuration - 2*margin
	if usable <= 0 {
		plan.Offsets = []float64{round2(margin)}
		return plan
	}

	actual := int(math.Floor(usable / clipDuration))
	if actual > desiredCount {
		actual = desiredCount
	}
	if actual <= 0 {
		plan.Offsets = []float64{round2(margin)}
		return plan
	}

	step := usable / float64(actual)
	for i := 0; i < actual; i++ {
		plan.Offsets = append(plan.Offsets, round2(margin+float64(i)*step))
	}
	return plan
}

// round2 keeps offsets reproducible across runs: rounding, not ad hoc
// truncation, so repeated selections are byte identical.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
