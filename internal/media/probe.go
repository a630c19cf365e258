package media

import (
	"context"
	"encoding/json"
	"os/exec"
	"strconv"

	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/pkg/errors"
)

// Info describes a probed media file. Duration is seconds.
type Info struct {
	Path     string
	Duration float64
	Width    int
	Height   int
	HasAudio bool
}

type Prober interface {
	Probe(ctx context.Context, path string) (*Info, error)
	ProbeAudio(ctx context.Context, path string) (float64, error)
}

type ffProber struct {
	ffprobePath string
	logger      logger.Logger
}

func NewProber(log logger.Logger) Prober {
	return &ffProber{
		ffprobePath: "ffprobe",
		logger:      log,
	}
}

// Probe opens the file with ffprobe and reports duration and stream layout.
// Any failure to open or parse, and any file without a video stream, maps to
// ErrUnreadableMedia.
func (p *ffProber) Probe(ctx context.Context, path string) (*Info, error) {
	if path == "" {
		return nil, errors.Wrap(ErrUnreadableMedia, "empty path")
	}

	cmd := exec.CommandContext(ctx, p.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return nil, errors.Wrapf(ErrUnreadableMedia, "ffprobe: %v", err)
	}

	var probe probeResult
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, errors.Wrapf(ErrUnreadableMedia, "parse ffprobe output: %v", err)
	}

	info := &Info{Path: path}
	if dur, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
		info.Duration = dur
	}

	hasVideo := false
	for _, stream := range probe.Streams {
		switch stream.CodecType {
		case "video":
			hasVideo = true
			info.Width = stream.Width
			info.Height = stream.Height
		case "audio":
			info.HasAudio = true
		}
	}

	if !hasVideo {
		return nil, errors.Wrapf(ErrUnreadableMedia, "no video stream in %s", path)
	}
	if info.Duration <= 0 {
		return nil, errors.Wrapf(ErrUnreadableMedia, "no duration reported for %s", path)
	}

	return info, nil
}

// ProbeAudio reports the duration of an audio file in seconds. Failures map
// to ErrAudioLoad so callers can degrade instead of failing the job.
func (p *ffProber) ProbeAudio(ctx context.Context, path string) (float64, error) {
	if path == "" {
		return 0, errors.Wrap(ErrAudioLoad, "empty path")
	}

	cmd := exec.CommandContext(ctx, p.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return 0, errors.Wrapf(ErrAudioLoad, "ffprobe: %v", err)
	}

	var probe probeResult
	if err := json.Unmarshal(output, &probe); err != nil {
		return 0, errors.Wrapf(ErrAudioLoad, "parse ffprobe output: %v", err)
	}
	dur, err := strconv.ParseFloat(probe.Format.Duration, 64)
	if err != nil || dur <= 0 {
		return 0, errors.Wrapf(ErrAudioLoad, "no duration reported for %s", path)
	}
	return dur, nil
}

// probeResult matches ffprobe JSON output structure.
type probeResult struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		Width     int    `json:"width"`
		Height    int    `json:"height"`
	} `json:"streams"`
}
