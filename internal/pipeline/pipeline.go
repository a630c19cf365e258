package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/clipforge/clipforge/internal/clips"
	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/internal/media"
	"github.com/clipforge/clipforge/internal/models"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/pkg/errors"
)

// ErrInsufficientDuration means the source is shorter than one clip: the
// plan is empty and the job aborts before any clip attempt.
var ErrInsufficientDuration = errors.New("insufficient duration")

// Params are the per-job inputs. Zero values fall back to the configured
// clip defaults.
type Params struct {
	JobID        string
	InputPath    string
	OutputDir    string
	Titles       []string
	SoundPath    string
	Policy       clips.Policy
	ClipDuration float64
	TargetClips  int
}

type CaptionBuilder interface {
	Build(ctx context.Context, text string, frameW, frameH int) (*media.Overlay, error)
}

// Pipeline drives one job: probe, plan, compose each clip, aggregate.
// Clips within a job run sequentially; jobs run concurrently on separate
// workers.
type Pipeline struct {
	cfg        *config.Config
	prober     media.Prober
	captions   CaptionBuilder
	compositor media.Compositor
	log        logger.Logger
}

func New(cfg *config.Config, prober media.Prober, captions CaptionBuilder, compositor media.Compositor, log logger.Logger) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		prober:     prober,
		captions:   captions,
		compositor: compositor,
		log:        log,
	}
}

// Run executes the full job and returns its aggregate result. The returned
// error is non-nil only for pipeline-setup failures (unreadable source,
// empty plan, unusable output dir); per-clip failures are recorded in the
// result and never abort the remaining clips.
func (p *Pipeline) Run(ctx context.Context, params Params) (*models.JobResult, error) {
	result := &models.JobResult{
		JobID:     params.JobID,
		Status:    models.JobStatusFatal,
		OutputDir: params.OutputDir,
		Errors:    []string{},
		ClipPaths: []string{},
	}

	clipDuration := params.ClipDuration
	if clipDuration <= 0 {
		clipDuration = p.cfg.Clips.ClipDuration
	}
	targetClips := params.TargetClips
	if targetClips <= 0 {
		targetClips = p.cfg.Clips.TargetClips
	}
	policy := params.Policy
	if policy == "" {
		policy = clips.Policy(p.cfg.Clips.Policy)
	}

	info, err := p.prober.Probe(ctx, params.InputPath)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result, err
	}
	p.log.Infof("[%s] source duration: %.1fs (%dx%d)", params.JobID, info.Duration, info.Width, info.Height)

	plan, err := clips.Select(policy, info.Duration, clipDuration, targetClips, p.cfg.Clips.EdgeMargin)
	if err != nil {
		result.Errors = append(result.Errors, err.Error())
		return result, err
	}
	if plan.Len() == 0 {
		err = errors.Wrapf(ErrInsufficientDuration,
			"video too short: %.1fs source, minimum %.0fs required", info.Duration, clipDuration)
		result.Errors = append(result.Errors, err.Error())
		return result, err
	}
	p.log.Infof("[%s] generating %d clips of %.0fs each (policy=%s)", params.JobID, plan.Len(), clipDuration, policy)

	if err := os.MkdirAll(params.OutputDir, 0755); err != nil {
		err = errors.Wrap(err, "create output dir")
		result.Errors = append(result.Errors, err.Error())
		return result, err
	}

	// One shared read-only track per job; each clip derives its own fit.
	// A broken track degrades the whole job to original segment audio.
	var track *media.Track
	if params.SoundPath != "" {
		dur, err := p.prober.ProbeAudio(ctx, params.SoundPath)
		if err != nil {
			p.log.Warnf("[%s] could not load sound, keeping original audio: %v", params.JobID, err)
		} else {
			track = &media.Track{Path: params.SoundPath, Duration: dur}
		}
	}

	frameW, frameH := p.cfg.Clips.FrameWidth, p.cfg.Clips.FrameHeight

	for i, offset := range plan.Offsets {
		ordinal := i + 1

		var title string
		if len(params.Titles) > 0 {
			title = params.Titles[i%len(params.Titles)]
		}

		// Caption failure only costs this clip its caption.
		overlay, err := p.captions.Build(ctx, title, frameW, frameH)
		if err != nil {
			p.log.Warnf("[%s] clip %d: caption render failed, continuing without: %v", params.JobID, ordinal, err)
			overlay = nil
		}

		outPath := filepath.Join(params.OutputDir, fmt.Sprintf("clip_%03d.mp4", ordinal))
		err = p.compositor.Compose(ctx, media.ComposeRequest{
			SourcePath: params.InputPath,
			Start:      offset,
			Duration:   plan.ClipDuration,
			Index:      ordinal,
			Overlay:    overlay,
			Track:      track,
			OutputPath: outPath,
		})
		if err != nil {
			msg := fmt.Sprintf("Clip %d: %v", ordinal, err)
			result.Clips = append(result.Clips, models.ClipResult{Index: ordinal, Error: msg})
			result.Errors = append(result.Errors, msg)
			p.log.Errorf("[%s] clip %d failed: %v", params.JobID, ordinal, err)
			continue
		}

		result.Clips = append(result.Clips, models.ClipResult{Index: ordinal, OutputPath: outPath})
		result.ClipPaths = append(result.ClipPaths, outPath)
		result.TitlesUsed = append(result.TitlesUsed, title)
		p.log.Infof("[%s] clip %d/%d done", params.JobID, ordinal, plan.Len())
	}

	result.ClipCount = len(result.ClipPaths)
	switch {
	case result.ClipCount == 0:
		result.Status = models.JobStatusFatal
	case len(result.Errors) > 0:
		result.Status = models.JobStatusPartial
	default:
		result.Status = models.JobStatusDone
	}
	return result, nil
}
