package media

import (
	"math"
	"strconv"
)

// Track is a loaded music asset. It is shared read-only by every clip of a
// job; each clip derives its own LoopSpec instead of mutating the track.
type Track struct {
	Path     string
	Duration float64
}

// LoopSpec describes how a track is fitted to a clip: how many extra times
// the input repeats, where the result is trimmed, and the volume scale
// applied after length adjustment.
type LoopSpec struct {
	Repetitions int
	TrimTo      float64
	Volume      float64
}

// FitTrack computes the loop arithmetic for one clip. A track at least as
// long as the target plays once and is trimmed. A shorter track repeats
// ceil(target/track)+1 times in total, guaranteeing enough material before
// the trim, matching the behavior of a naive concat loop.
func FitTrack(trackDuration, targetDuration, volume float64) LoopSpec {
	spec := LoopSpec{TrimTo: targetDuration, Volume: volume}
	if trackDuration <= 0 || targetDuration <= 0 {
		return spec
	}
	if trackDuration >= targetDuration {
		return spec
	}
	plays := int(math.Ceil(targetDuration/trackDuration)) + 1
	// -stream_loop counts repeats beyond the first play
	spec.Repetitions = plays - 1
	return spec
}

// InputArgs returns the ffmpeg input arguments that realize the loop.
func (s LoopSpec) InputArgs(path string) []string {
	if s.Repetitions > 0 {
		return []string{"-stream_loop", strconv.Itoa(s.Repetitions), "-i", path}
	}
	return []string{"-i", path}
}

// Filter returns the audio filter chain: trim to the exact target duration,
// reset timestamps, then scale volume.
func (s LoopSpec) Filter() string {
	return "atrim=0:" + formatSeconds(s.TrimTo) +
		",asetpts=PTS-STARTPTS,volume=" + formatSeconds(s.Volume)
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
