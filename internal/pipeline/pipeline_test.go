package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/clipforge/clipforge/internal/clips"
	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/media"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/pkg/errors"
)

type fakeProber struct {
	duration float64
	probeErr error
	audioDur float64
	audioErr error
}

func (f *fakeProber) Probe(ctx context.Context, path string) (*media.Info, error) {
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	return &media.Info{Path: path, Duration: f.duration, Width: 1920, Height: 1080, HasAudio: true}, nil
}

func (f *fakeProber) ProbeAudio(ctx context.Context, path string) (float64, error) {
	if f.audioErr != nil {
		return 0, f.audioErr
	}
	return f.audioDur, nil
}

type fakeCaptions struct {
	texts    []string
	buildErr error
}

func (f *fakeCaptions) Build(ctx context.Context, text string, frameW, frameH int) (*media.Overlay, error) {
	f.texts = append(f.texts, text)
	if f.buildErr != nil {
		return nil, f.buildErr
	}
	if text == "" {
		return nil, nil
	}
	return &media.Overlay{Filters: []string{"drawtext=text='" + text + "'"}}, nil
}

type fakeCompositor struct {
	requests  []media.ComposeRequest
	failIndex map[int]bool
}

func (f *fakeCompositor) Compose(ctx context.Context, req media.ComposeRequest) error {
	f.requests = append(f.requests, req)
	if f.failIndex[req.Index] {
		return fmt.Errorf("encode exploded")
	}
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		Clips: config.ClipsConfig{
			Policy:         "uniform",
			ClipDuration:   7,
			TargetClips:    5,
			EdgeMargin:     2,
			FadeInSeconds:  0.3,
			FadeOutSeconds: 0.3,
			AudioVolume:    0.85,
			OutputFPS:      30,
			FrameWidth:     1080,
			FrameHeight:    1920,
		},
	}
}

type nopLogger struct{}

func (nopLogger) InitLogger()                          {}
func (nopLogger) Debug(args ...interface{})            {}
func (nopLogger) Debugf(t string, args ...interface{}) {}
func (nopLogger) Info(args ...interface{})             {}
func (nopLogger) Infof(t string, args ...interface{})  {}
func (nopLogger) Warn(args ...interface{})             {}
func (nopLogger) Warnf(t string, args ...interface{})  {}
func (nopLogger) Error(args ...interface{})            {}
func (nopLogger) Errorf(t string, args ...interface{}) {}
func (nopLogger) Fatal(args ...interface{})            {}
func (nopLogger) Fatalf(t string, args ...interface{}) {}

func newTestPipeline(prober *fakeProber, captions *fakeCaptions, comp *fakeCompositor) *Pipeline {
	return New(testConfig(), prober, captions, comp, nopLogger{})
}

func TestRun_unreadableSource(t *testing.T) {
	prober := &fakeProber{probeErr: errors.Wrap(media.ErrUnreadableMedia, "ffprobe: boom")}
	comp := &fakeCompositor{}
	p := newTestPipeline(prober, &fakeCaptions{}, comp)

	result, err := p.Run(context.Background(), Params{JobID: "j1", InputPath: "in.mp4", OutputDir: t.TempDir()})
	if !errors.Is(err, media.ErrUnreadableMedia) {
		t.Fatalf("expected ErrUnreadableMedia, got %v", err)
	}
	if result.Status != models.JobStatusFatal {
		t.Errorf("status = %s, want fatal", result.Status)
	}
	if len(comp.requests) != 0 {
		t.Errorf("no clip must be attempted after a probe failure")
	}
}

func TestRun_insufficientDuration(t *testing.T) {
	prober := &fakeProber{duration: 5}
	comp := &fakeCompositor{}
	p := newTestPipeline(prober, &fakeCaptions{}, comp)

	result, err := p.Run(context.Background(), Params{JobID: "j1", InputPath: "in.mp4", OutputDir: t.TempDir()})
	if !errors.Is(err, ErrInsufficientDuration) {
		t.Fatalf("expected ErrInsufficientDuration, got %v", err)
	}
	if result.Status != models.JobStatusFatal || result.ClipCount != 0 {
		t.Errorf("result = %s/%d, want fatal/0", result.Status, result.ClipCount)
	}
	if len(comp.requests) != 0 {
		t.Errorf("no clip must be attempted for a zero-length plan")
	}
}

func TestRun_done(t *testing.T) {
	prober := &fakeProber{duration: 21}
	comp := &fakeCompositor{}
	outDir := t.TempDir()
	p := newTestPipeline(prober, &fakeCaptions{}, comp)

	result, err := p.Run(context.Background(), Params{
		JobID:     "j1",
		InputPath: "in.mp4",
		OutputDir: outDir,
		Titles:    []string{"Follow for more"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != models.JobStatusDone {
		t.Errorf("status = %s, want done", result.Status)
	}
	if result.ClipCount != 3 || len(result.Errors) != 0 {
		t.Errorf("clip_count = %d, errors = %v", result.ClipCount, result.Errors)
	}
	for i, want := range []string{"clip_001.mp4", "clip_002.mp4", "clip_003.mp4"} {
		if got := filepath.Base(result.ClipPaths[i]); got != want {
			t.Errorf("clip path %d = %s, want %s", i, got, want)
		}
	}
	// ordinals match planned offset order
	for i, req := range comp.requests {
		if req.Index != i+1 {
			t.Errorf("request %d has ordinal %d", i, req.Index)
		}
		if req.Start != float64(i)*7 {
			t.Errorf("request %d start = %v, want %v", i, req.Start, float64(i)*7)
		}
	}
}

func TestRun_partialFailure(t *testing.T) {
	prober := &fakeProber{duration: 35} // 5 uniform clips
	comp := &fakeCompositor{failIndex: map[int]bool{3: true}}
	p := newTestPipeline(prober, &fakeCaptions{}, comp)

	result, err := p.Run(context.Background(), Params{JobID: "j1", InputPath: "in.mp4", OutputDir: t.TempDir()})
	if err != nil {
		t.Fatalf("per-clip failures must not surface as a run error: %v", err)
	}
	if result.Status != models.JobStatusPartial {
		t.Errorf("status = %s, want partial", result.Status)
	}
	if result.ClipCount != 4 {
		t.Errorf("clip_count = %d, want 4", result.ClipCount)
	}
	if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "Clip 3: ") {
		t.Errorf("errors = %v, want single entry tagged Clip 3", result.Errors)
	}
	if len(comp.requests) != 5 {
		t.Errorf("all 5 clips must be attempted, got %d", len(comp.requests))
	}
	for _, p := range result.ClipPaths {
		if filepath.Base(p) == "clip_003.mp4" {
			t.Errorf("failed clip must not appear in clip_paths: %v", result.ClipPaths)
		}
	}
	if len(result.Clips) != 5 {
		t.Fatalf("per-clip results = %d, want 5", len(result.Clips))
	}
	for _, cr := range result.Clips {
		if wantOK := cr.Index != 3; cr.OK() != wantOK {
			t.Errorf("clip %d OK() = %v, want %v", cr.Index, cr.OK(), wantOK)
		}
	}
}

func TestRun_allClipsFail(t *testing.T) {
	prober := &fakeProber{duration: 21}
	comp := &fakeCompositor{failIndex: map[int]bool{1: true, 2: true, 3: true}}
	p := newTestPipeline(prober, &fakeCaptions{}, comp)

	result, err := p.Run(context.Background(), Params{JobID: "j1", InputPath: "in.mp4", OutputDir: t.TempDir()})
	if err != nil {
		t.Fatalf("total per-clip failure still returns a result, got error %v", err)
	}
	if result.Status != models.JobStatusFatal {
		t.Errorf("status = %s, want fatal when zero clips succeed", result.Status)
	}
	if len(result.Errors) != 3 {
		t.Errorf("errors = %v, want 3 entries", result.Errors)
	}
}

func TestRun_captionRotation(t *testing.T) {
	prober := &fakeProber{duration: 49} // 7 uniform clips
	captions := &fakeCaptions{}
	p := newTestPipeline(prober, captions, &fakeCompositor{})

	_, err := p.Run(context.Background(), Params{
		JobID:     "j1",
		InputPath: "in.mp4",
		OutputDir: t.TempDir(),
		Titles:    []string{"a", "b", "c"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"a", "b", "c", "a", "b", "c", "a"}
	if len(captions.texts) != len(want) {
		t.Fatalf("captions built = %d, want %d", len(captions.texts), len(want))
	}
	for i := range want {
		if captions.texts[i] != want[i] {
			t.Errorf("clip %d title = %q, want %q", i+1, captions.texts[i], want[i])
		}
	}
}

func TestRun_audioLoadDegrades(t *testing.T) {
	prober := &fakeProber{duration: 21, audioErr: errors.Wrap(media.ErrAudioLoad, "corrupt mp3")}
	comp := &fakeCompositor{}
	p := newTestPipeline(prober, &fakeCaptions{}, comp)

	result, err := p.Run(context.Background(), Params{
		JobID:     "j1",
		InputPath: "in.mp4",
		OutputDir: t.TempDir(),
		SoundPath: "broken.mp3",
	})
	if err != nil {
		t.Fatalf("audio load failure must not fail the job: %v", err)
	}
	if result.Status != models.JobStatusDone {
		t.Errorf("status = %s, want done", result.Status)
	}
	for _, req := range comp.requests {
		if req.Track != nil {
			t.Errorf("clips must keep original audio when the track fails to load")
		}
	}
}

func TestRun_trackSharedAcrossClips(t *testing.T) {
	prober := &fakeProber{duration: 21, audioDur: 3}
	comp := &fakeCompositor{}
	p := newTestPipeline(prober, &fakeCaptions{}, comp)

	_, err := p.Run(context.Background(), Params{
		JobID:     "j1",
		InputPath: "in.mp4",
		OutputDir: t.TempDir(),
		SoundPath: "beat.mp3",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(comp.requests) != 3 {
		t.Fatalf("expected 3 clips, got %d", len(comp.requests))
	}
	first := comp.requests[0].Track
	if first == nil || first.Duration != 3 {
		t.Fatalf("track not loaded: %+v", first)
	}
	for _, req := range comp.requests[1:] {
		if req.Track != first {
			t.Errorf("all clips must reference the same loaded track")
		}
	}
}

func TestRun_captionErrorCostsOnlyCaption(t *testing.T) {
	prober := &fakeProber{duration: 21}
	captions := &fakeCaptions{buildErr: errors.Wrap(media.ErrCaptionRender, "no font")}
	comp := &fakeCompositor{}
	p := newTestPipeline(prober, captions, comp)

	result, err := p.Run(context.Background(), Params{
		JobID:     "j1",
		InputPath: "in.mp4",
		OutputDir: t.TempDir(),
		Titles:    []string{"t"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Status != models.JobStatusDone {
		t.Errorf("status = %s, want done (captionless clips still count)", result.Status)
	}
	for _, req := range comp.requests {
		if req.Overlay != nil {
			t.Errorf("failed caption must yield a nil overlay")
		}
	}
}

func TestRun_spacedPolicy(t *testing.T) {
	prober := &fakeProber{duration: 60}
	comp := &fakeCompositor{}
	p := newTestPipeline(prober, &fakeCaptions{}, comp)

	result, err := p.Run(context.Background(), Params{
		JobID:     "j1",
		InputPath: "in.mp4",
		OutputDir: t.TempDir(),
		Policy:    clips.PolicySpaced,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ClipCount != 5 {
		t.Fatalf("clip_count = %d, want 5", result.ClipCount)
	}
	wantStarts := []float64{2, 11.8, 21.6, 31.4, 41.2}
	for i, req := range comp.requests {
		if req.Start != wantStarts[i] {
			t.Errorf("clip %d start = %v, want %v", i+1, req.Start, wantStarts[i])
		}
	}
}
