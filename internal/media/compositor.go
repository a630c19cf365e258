package media

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/pkg/errors"
)

// ComposeRequest is one clip's worth of work: extract [Start, Start+Duration)
// from the source, fade, overlay the caption if present, attach the fitted
// track if present, and encode to OutputPath.
type ComposeRequest struct {
	SourcePath string
	Start      float64
	Duration   float64
	Index      int
	Overlay    *Overlay
	Track      *Track
	OutputPath string
}

type Compositor interface {
	Compose(ctx context.Context, req ComposeRequest) error
}

type ffCompositor struct {
	cfg        config.ClipsConfig
	ffmpegPath string
	log        logger.Logger
}

func NewCompositor(cfg config.ClipsConfig, log logger.Logger) Compositor {
	return &ffCompositor{
		cfg:        cfg,
		ffmpegPath: "ffmpeg",
		log:        log,
	}
}

// Compose runs a single ffmpeg invocation for the clip. A failed run never
// leaves a partial file behind: the output is removed before the error is
// reported.
func (c *ffCompositor) Compose(ctx context.Context, req ComposeRequest) error {
	if req.Duration <= 0 {
		return fmt.Errorf("invalid clip duration: %f", req.Duration)
	}

	args := buildComposeArgs(c.cfg, req)
	cmd := exec.CommandContext(ctx, c.ffmpegPath, args...)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		os.Remove(req.OutputPath)
		return errors.Wrapf(err, "ffmpeg compose failed: %s", stderrTail(stderr.String()))
	}

	st, err := os.Stat(req.OutputPath)
	if err != nil || st.Size() == 0 {
		os.Remove(req.OutputPath)
		return fmt.Errorf("ffmpeg produced no output at %s", req.OutputPath)
	}

	c.log.Debugf("composed clip %d -> %s", req.Index, req.OutputPath)
	return nil
}

// buildComposeArgs assembles the full argument list. Kept separate from
// Compose so the command shape is testable without ffmpeg installed.
func buildComposeArgs(cfg config.ClipsConfig, req ComposeRequest) []string {
	args := []string{
		"-y",
		"-ss", formatSeconds(req.Start),
		"-i", req.SourcePath,
	}

	var loop LoopSpec
	if req.Track != nil {
		loop = FitTrack(req.Track.Duration, req.Duration, cfg.AudioVolume)
		args = append(args, loop.InputArgs(req.Track.Path)...)
	}

	args = append(args, "-t", formatSeconds(req.Duration))
	args = append(args, "-vf", buildVideoFilter(cfg, req))

	if req.Track != nil {
		args = append(args,
			"-map", "0:v:0",
			"-map", "1:a:0",
			"-af", loop.Filter(),
			"-shortest",
		)
	}

	args = append(args,
		"-c:v", "libx264",
		"-preset", "fast",
		"-crf", "23",
		"-r", strconv.Itoa(cfg.OutputFPS),
		"-c:a", "aac",
		"-b:a", "128k",
		"-movflags", "+faststart",
		req.OutputPath,
	)
	return args
}

// buildVideoFilter chains vertical scale/pad, fades, and caption terms.
func buildVideoFilter(cfg config.ClipsConfig, req ComposeRequest) string {
	filters := []string{
		fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=decrease", cfg.FrameWidth, cfg.FrameHeight),
		fmt.Sprintf("pad=%d:%d:(ow-iw)/2:(oh-ih)/2:black", cfg.FrameWidth, cfg.FrameHeight),
	}
	if cfg.FadeInSeconds > 0 {
		filters = append(filters, fmt.Sprintf("fade=t=in:st=0:d=%s", formatSeconds(cfg.FadeInSeconds)))
	}
	if cfg.FadeOutSeconds > 0 {
		st := req.Duration - cfg.FadeOutSeconds
		if st < 0 {
			st = 0
		}
		filters = append(filters, fmt.Sprintf("fade=t=out:st=%s:d=%s",
			formatSeconds(st), formatSeconds(cfg.FadeOutSeconds)))
	}
	if req.Overlay != nil {
		filters = append(filters, req.Overlay.Filters...)
	}
	return strings.Join(filters, ",")
}

func stderrTail(s string) string {
	const max = 400
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}
