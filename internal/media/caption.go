package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/clipforge/clipforge/internal/config"
	"github.com/clipforge/clipforge/pkg/logger"
	"github.com/pkg/errors"
)

// Overlay is a rendered caption layer: one or more drawtext filter terms in
// paint order. When a drop shadow is configured the shadow term comes first
// so the main text lands on top of it.
type Overlay struct {
	Filters []string
}

type CaptionBuilder struct {
	cfg   config.CaptionConfig
	fonts *FontResolver
	log   logger.Logger
}

func NewCaptionBuilder(cfg config.CaptionConfig, log logger.Logger) *CaptionBuilder {
	return &CaptionBuilder{
		cfg:   cfg,
		fonts: NewFontResolver(cfg.FallbackFont, nil),
		log:   log,
	}
}

// NewCaptionBuilderWithFonts injects a font resolver, used by tests and by
// callers that share one resolver across builders.
func NewCaptionBuilderWithFonts(cfg config.CaptionConfig, log logger.Logger, fonts *FontResolver) *CaptionBuilder {
	return &CaptionBuilder{cfg: cfg, fonts: fonts, log: log}
}

// Build produces the overlay for one caption. Text reflows to fit 90% of the
// frame width and is horizontally centered; vertical placement follows the
// configured anchor, or a fixed fraction from the top when TopFraction is
// set. Empty text yields a nil overlay, which the compositor tolerates.
func (b *CaptionBuilder) Build(ctx context.Context, text string, frameW, frameH int) (*Overlay, error) {
	if strings.TrimSpace(text) == "" {
		return nil, nil
	}
	if frameW <= 0 || frameH <= 0 {
		return nil, errors.Wrapf(ErrCaptionRender, "invalid frame size %dx%d", frameW, frameH)
	}

	font := b.fonts.Resolve(ctx, b.cfg.Fonts)
	wrapped := wrapCaption(text, maxCharsPerLine(frameW, b.cfg.FontSize))
	escaped := escapeDrawtext(wrapped)

	x := "(w-text_w)/2"
	y, err := b.yExpr(frameH)
	if err != nil {
		return nil, err
	}

	base := fmt.Sprintf("drawtext=text='%s':font='%s':fontsize=%d", escaped, font, b.cfg.FontSize)

	overlay := &Overlay{}
	if b.cfg.Shadow {
		off := b.cfg.ShadowOffset
		shadow := fmt.Sprintf("%s:fontcolor=black@%.2f:x=%s+%d:y=%s+%d",
			base, b.cfg.ShadowAlpha, x, off, y, off)
		overlay.Filters = append(overlay.Filters, shadow)
		overlay.Filters = append(overlay.Filters,
			fmt.Sprintf("%s:fontcolor=%s:x=%s:y=%s", base, b.cfg.Color, x, y))
		return overlay, nil
	}

	overlay.Filters = append(overlay.Filters,
		fmt.Sprintf("%s:fontcolor=%s:borderw=%d:bordercolor=%s:x=%s:y=%s",
			base, b.cfg.Color, b.cfg.StrokeWidth, b.cfg.StrokeColor, x, y))
	return overlay, nil
}

func (b *CaptionBuilder) yExpr(frameH int) (string, error) {
	if b.cfg.TopFraction > 0 {
		if b.cfg.TopFraction >= 1 {
			return "", errors.Wrapf(ErrCaptionRender, "top fraction %.2f out of range", b.cfg.TopFraction)
		}
		return fmt.Sprintf("%d", int(b.cfg.TopFraction*float64(frameH))), nil
	}
	switch b.cfg.Position {
	case "bottom", "":
		return fmt.Sprintf("h-text_h-%d", b.cfg.MarginBottom), nil
	case "top":
		return fmt.Sprintf("%d", b.cfg.MarginTop), nil
	case "center":
		return "(h-text_h)/2", nil
	default:
		return "", errors.Wrapf(ErrCaptionRender, "unknown caption position %q", b.cfg.Position)
	}
}

// maxCharsPerLine estimates how many glyphs fit in 90% of the frame width.
// Average glyph width is taken as 0.55 of the font size.
func maxCharsPerLine(frameW, fontSize int) int {
	if fontSize <= 0 {
		fontSize = 52
	}
	n := int(0.9 * float64(frameW) / (0.55 * float64(fontSize)))
	if n < 8 {
		n = 8
	}
	return n
}

// wrapCaption reflows text onto multiple lines within the width cap. Words
// longer than the cap stay on their own line rather than being split.
func wrapCaption(text string, maxChars int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var lines []string
	line := words[0]
	for _, word := range words[1:] {
		if len(line)+1+len(word) > maxChars {
			lines = append(lines, line)
			line = word
			continue
		}
		line += " " + word
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

func escapeDrawtext(text string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `'\''`,
		`:`, `\:`,
		`%`, `\%`,
	)
	return r.Replace(text)
}
