package clips

import (
	"reflect"
	"testing"
)

func TestUniform(t *testing.T) {
	tests := []struct {
		name     string
		total    float64
		clipDur  float64
		want     []float64
	}{
		{"exact tiling", 21, 7, []float64{0, 7, 14}},
		{"remainder dropped", 25, 7, []float64{0, 7, 14}},
		{"single clip", 7, 7, []float64{0}},
		{"too short", 6.9, 7, nil},
		{"zero duration", 0, 7, nil},
		{"fractional clip duration", 10, 2.5, []float64{0, 2.5, 5, 7.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Uniform(tt.total, tt.clipDur)
			if !reflect.DeepEqual(plan.Offsets, tt.want) {
				t.Errorf("Uniform(%v, %v) = %v, want %v", tt.total, tt.clipDur, plan.Offsets, tt.want)
			}
			if plan.ClipDuration != tt.clipDur {
				t.Errorf("ClipDuration = %v, want %v", plan.ClipDuration, tt.clipDur)
			}
		})
	}
}

func TestUniform_invariants(t *testing.T) {
	for _, total := range []float64{7, 13.5, 21, 60, 3600} {
		plan := Uniform(total, 7)
		last := -1.0
		for _, off := range plan.Offsets {
			if off <= last {
				t.Errorf("offsets not strictly increasing at %v (total=%v)", off, total)
			}
			if off < 0 || off+plan.ClipDuration > total {
				t.Errorf("offset %v violates plan invariant for total %v", off, total)
			}
			last = off
		}
	}
}

func TestSpaced(t *testing.T) {
	tests := []struct {
		name    string
		total   float64
		clipDur float64
		desired int
		margin  float64
		want    []float64
	}{
		{
			// usable = 60-7-4 = 49, actual = min(5, 7) = 5, step 9.8
			name: "reference case", total: 60, clipDur: 7, desired: 5, margin: 2,
			want: []float64{2, 11.8, 21.6, 31.4, 41.2},
		},
		{
			name: "desired capped by window", total: 30, clipDur: 7, desired: 10, margin: 2,
			// usable = 19, floor(19/7) = 2
			want: []float64{2, 11.5},
		},
		{
			name: "collapsed window falls back to margin", total: 10, clipDur: 7, desired: 5, margin: 2,
			want: []float64{2},
		},
		{
			name: "single requested clip", total: 60, clipDur: 7, desired: 1, margin: 2,
			want: []float64{2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := Spaced(tt.total, tt.clipDur, tt.desired, tt.margin)
			if !reflect.DeepEqual(plan.Offsets, tt.want) {
				t.Errorf("Spaced() = %v, want %v", plan.Offsets, tt.want)
			}
		})
	}
}

func TestSpaced_deterministic(t *testing.T) {
	first := Spaced(187.37, 7, 5, 2)
	for i := 0; i < 100; i++ {
		again := Spaced(187.37, 7, 5, 2)
		if !reflect.DeepEqual(first.Offsets, again.Offsets) {
			t.Fatalf("run %d produced %v, first run produced %v", i, again.Offsets, first.Offsets)
		}
	}
}

func TestSelect(t *testing.T) {
	if _, err := Select("scene", 60, 7, 5, 2); err == nil {
		t.Error("expected error for unknown policy")
	}

	plan, err := Select("", 21, 7, 5, 2)
	if err != nil {
		t.Fatalf("empty policy: %v", err)
	}
	if plan.Len() != 3 {
		t.Errorf("empty policy should default to uniform, got %d offsets", plan.Len())
	}

	plan, err = Select(PolicySpaced, 60, 7, 5, 2)
	if err != nil {
		t.Fatalf("spaced policy: %v", err)
	}
	if plan.Len() != 5 {
		t.Errorf("spaced plan length = %d, want 5", plan.Len())
	}
}
