package media

import (
	"strings"
	"testing"

	"github.com/clipforge/clipforge/internal/config"
)

func testClipsCfg() config.ClipsConfig {
	return config.ClipsConfig{
		ClipDuration:   7,
		FadeInSeconds:  0.3,
		FadeOutSeconds: 0.3,
		AudioVolume:    0.85,
		OutputFPS:      30,
		FrameWidth:     1080,
		FrameHeight:    1920,
	}
}

func argsContainPair(args []string, flag, value string) bool {
	for i := 0; i < len(args)-1; i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}

func TestBuildComposeArgs_noTrack(t *testing.T) {
	args := buildComposeArgs(testClipsCfg(), ComposeRequest{
		SourcePath: "source.mp4",
		Start:      14,
		Duration:   7,
		Index:      3,
		OutputPath: "out/clip_003.mp4",
	})

	for flag, value := range map[string]string{
		"-ss":       "14",
		"-i":        "source.mp4",
		"-t":        "7",
		"-c:v":      "libx264",
		"-r":        "30",
		"-movflags": "+faststart",
	} {
		if !argsContainPair(args, flag, value) {
			t.Errorf("missing %s %s in args: %v", flag, value, args)
		}
	}
	if args[len(args)-1] != "out/clip_003.mp4" {
		t.Errorf("output path must be last arg, got %v", args[len(args)-1])
	}

	joined := strings.Join(args, " ")
	if strings.Contains(joined, "-stream_loop") || strings.Contains(joined, "-map") {
		t.Errorf("trackless compose must keep original audio without remapping: %v", joined)
	}
}

func TestBuildComposeArgs_withTrack(t *testing.T) {
	args := buildComposeArgs(testClipsCfg(), ComposeRequest{
		SourcePath: "source.mp4",
		Start:      0,
		Duration:   7,
		Index:      1,
		Track:      &Track{Path: "beat.mp3", Duration: 3},
		OutputPath: "out/clip_001.mp4",
	})

	if !argsContainPair(args, "-stream_loop", "3") {
		t.Errorf("expected 3 extra repetitions for a 3s track and 7s target: %v", args)
	}
	if !argsContainPair(args, "-map", "0:v:0") || !argsContainPair(args, "-map", "1:a:0") {
		t.Errorf("expected video from source and audio from track: %v", args)
	}
	if !argsContainPair(args, "-af", "atrim=0:7,asetpts=PTS-STARTPTS,volume=0.85") {
		t.Errorf("expected trim+volume audio filter: %v", args)
	}
}

func TestBuildVideoFilter(t *testing.T) {
	cfg := testClipsCfg()
	req := ComposeRequest{
		Duration: 7,
		Overlay:  &Overlay{Filters: []string{"drawtext=text='a':x=0:y=0"}},
	}
	vf := buildVideoFilter(cfg, req)

	terms := strings.Split(vf, ",")
	wantOrder := []string{"scale=", "pad=", "fade=t=in", "fade=t=out", "drawtext="}
	if len(terms) != len(wantOrder) {
		t.Fatalf("expected %d filter terms, got %d: %s", len(wantOrder), len(terms), vf)
	}
	for i, prefix := range wantOrder {
		if !strings.HasPrefix(terms[i], prefix) {
			t.Errorf("term %d = %q, want prefix %q", i, terms[i], prefix)
		}
	}

	if !strings.Contains(vf, "fade=t=out:st=6.7:d=0.3") {
		t.Errorf("fade-out must start duration-fade before the end: %s", vf)
	}
	if !strings.Contains(vf, "scale=1080:1920:force_original_aspect_ratio=decrease") {
		t.Errorf("expected vertical scale: %s", vf)
	}
}

func TestBuildVideoFilter_shortClipClampsFadeOut(t *testing.T) {
	cfg := testClipsCfg()
	cfg.FadeOutSeconds = 5
	vf := buildVideoFilter(cfg, ComposeRequest{Duration: 3})
	if !strings.Contains(vf, "fade=t=out:st=0:d=5") {
		t.Errorf("fade-out start must clamp at 0: %s", vf)
	}
}
