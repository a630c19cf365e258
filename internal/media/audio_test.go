package media

import (
	"reflect"
	"testing"
)

func TestFitTrack(t *testing.T) {
	tests := []struct {
		name     string
		trackDur float64
		target   float64
		wantReps int
	}{
		{"track longer than target", 10, 7, 0},
		{"track equals target", 7, 7, 0},
		// ceil(7/3)+1 = 4 plays, 3 extra repeats
		{"short track loops", 3, 7, 3},
		// ceil(7/6.9)+1 = 3 plays
		{"barely short track", 6.9, 7, 2},
		{"very short track", 0.5, 7, 14},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := FitTrack(tt.trackDur, tt.target, 0.85)
			if spec.Repetitions != tt.wantReps {
				t.Errorf("Repetitions = %d, want %d", spec.Repetitions, tt.wantReps)
			}
			if spec.TrimTo != tt.target {
				t.Errorf("TrimTo = %v, want %v", spec.TrimTo, tt.target)
			}
			if spec.Volume != 0.85 {
				t.Errorf("Volume = %v, want 0.85", spec.Volume)
			}
			// enough material must exist before the trim
			if tt.trackDur > 0 {
				total := tt.trackDur * float64(spec.Repetitions+1)
				if total < tt.target {
					t.Errorf("looped length %v shorter than target %v", total, tt.target)
				}
			}
		})
	}
}

func TestLoopSpec_InputArgs(t *testing.T) {
	spec := FitTrack(10, 7, 0.85)
	if got := spec.InputArgs("beat.mp3"); !reflect.DeepEqual(got, []string{"-i", "beat.mp3"}) {
		t.Errorf("no-loop args = %v", got)
	}

	spec = FitTrack(3, 7, 0.85)
	want := []string{"-stream_loop", "3", "-i", "beat.mp3"}
	if got := spec.InputArgs("beat.mp3"); !reflect.DeepEqual(got, want) {
		t.Errorf("loop args = %v, want %v", got, want)
	}
}

func TestLoopSpec_Filter(t *testing.T) {
	spec := FitTrack(3, 7, 0.85)
	want := "atrim=0:7,asetpts=PTS-STARTPTS,volume=0.85"
	if got := spec.Filter(); got != want {
		t.Errorf("Filter() = %q, want %q", got, want)
	}
}
