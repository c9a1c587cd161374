package watermark

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/kiesman99/gridmark/pkg/layout"
)

// Defaults used when nothing is configured
const (
	DefaultText          = "Watermark text"
	DefaultCount         = 40
	DefaultStretchFactor = 1.5
	DefaultFontSize      = 50
	DefaultFontFamily    = "sans-serif"
	DefaultOpacity       = 0.5
)

// Align is the horizontal text alignment around an anchor
type Align int

// Alignments
const (
	AlignCenter Align = iota
	AlignLeft
	AlignRight
)

// anchor returns the fraction of the text width left of the anchor point
func (a Align) anchor() float64 {
	switch a {
	case AlignLeft:
		return 0
	case AlignRight:
		return 1
	}
	return 0.5
}

func (a Align) String() string {
	switch a {
	case AlignLeft:
		return "left"
	case AlignRight:
		return "right"
	}
	return "center"
}

// ParseAlign parses "center", "left" or "right"
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "center", "centre":
		return AlignCenter, nil
	case "left", "start":
		return AlignLeft, nil
	case "right", "end":
		return AlignRight, nil
	}
	return AlignCenter, fmt.Errorf("unknown text alignment %q", s)
}

// FontSpec selects a font face by pixel size and family
type FontSpec struct {
	Size   float64
	Family string
}

func (f FontSpec) String() string {
	return strconv.FormatFloat(f.Size, 'g', -1, 64) + "px " + f.Family
}

// Style describes how the watermark text is drawn
type Style struct {
	Text  string
	Fill  color.NRGBA
	Font  FontSpec
	Align Align
}

// Options contains all watermarking parameters for one render
type Options struct {
	Style         Style
	Count         int
	StretchFactor float64

	// Rand drives the layout jitter; nil uses the process-wide generator.
	// A *rand.Rand is not safe for concurrent use, so share one per render.
	Rand layout.Source
}

// DefaultStyle returns semi-transparent white 50px sans-serif text, centered
func DefaultStyle() Style {
	return Style{
		Text:  DefaultText,
		Fill:  color.NRGBA{R: 255, G: 255, B: 255, A: 128},
		Font:  FontSpec{Size: DefaultFontSize, Family: DefaultFontFamily},
		Align: AlignCenter,
	}
}

// DefaultOptions returns the options used by the upload endpoint
func DefaultOptions() Options {
	return Options{
		Style:         DefaultStyle(),
		Count:         DefaultCount,
		StretchFactor: DefaultStretchFactor,
	}
}

// Validate checks the options before any surface is allocated
func (o Options) Validate() error {
	if o.Count < 0 {
		return fmt.Errorf("count must not be negative, got %d", o.Count)
	}
	if o.Count > layout.MaxCount {
		return fmt.Errorf("count must be at most %d, got %d", layout.MaxCount, o.Count)
	}
	if !(o.StretchFactor > 0) || math.IsInf(o.StretchFactor, 0) {
		return fmt.Errorf("stretch factor must be positive, got %g", o.StretchFactor)
	}
	if !(o.Style.Font.Size > 0) || math.IsInf(o.Style.Font.Size, 0) {
		return fmt.Errorf("font size must be positive, got %g", o.Style.Font.Size)
	}
	return nil
}

// ParseColor parses a fill color and scales its alpha by opacity.
// Accepted forms are "#rgb", "#rrggbb", "rgb(r, g, b)" and "rgba(r, g, b, a)".
func ParseColor(s string, opacity float64) (color.NRGBA, error) {
	if opacity < 0 || opacity > 1 || math.IsNaN(opacity) {
		return color.NRGBA{}, fmt.Errorf("opacity must be between 0 and 1, got %g", opacity)
	}

	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.HasPrefix(s, "#"):
		c, err := colorful.Hex(s)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid hex color %q: %w", s, err)
		}
		r, g, b := c.RGB255()
		return color.NRGBA{R: r, G: g, B: b, A: Alpha8(opacity)}, nil

	case strings.HasPrefix(s, "rgba(") || strings.HasPrefix(s, "rgb("):
		lp, rp := strings.IndexByte(s, '('), strings.LastIndexByte(s, ')')
		if rp < lp {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: missing ')'", s)
		}
		parts := strings.Split(s[lp+1:rp], ",")
		isRGBA := strings.HasPrefix(s, "rgba(")
		if (isRGBA && len(parts) != 4) || (!isRGBA && len(parts) != 3) {
			return color.NRGBA{}, fmt.Errorf("invalid color %q: wrong number of components", s)
		}

		var rgb [3]uint8
		for i := 0; i < 3; i++ {
			v, err := strconv.Atoi(strings.TrimSpace(parts[i]))
			if err != nil || v < 0 || v > 255 {
				return color.NRGBA{}, fmt.Errorf("invalid color %q: component %d out of range", s, i)
			}
			rgb[i] = uint8(v)
		}

		a := 1.0
		if isRGBA {
			v, err := strconv.ParseFloat(strings.TrimSpace(parts[3]), 64)
			if err != nil || v < 0 || v > 1 {
				return color.NRGBA{}, fmt.Errorf("invalid color %q: alpha must be between 0 and 1", s)
			}
			a = v
		}
		return color.NRGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: Alpha8(a * opacity)}, nil
	}

	return color.NRGBA{}, fmt.Errorf("unsupported color %q", s)
}

// Alpha8 converts an opacity in [0, 1] to an 8-bit alpha
func Alpha8(a float64) uint8 {
	return uint8(math.Round(a * 255))
}

// ParseFont parses a CSS-style font shorthand such as "50px Arial"
func ParseFont(s string) (FontSpec, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return FontSpec{}, errors.New("empty font")
	}

	sizeStr, ok := strings.CutSuffix(strings.ToLower(fields[0]), "px")
	if !ok {
		return FontSpec{}, fmt.Errorf("font %q must start with a pixel size", s)
	}
	size, err := strconv.ParseFloat(sizeStr, 64)
	if err != nil || !(size > 0) {
		return FontSpec{}, fmt.Errorf("invalid font size in %q", s)
	}

	family := DefaultFontFamily
	if len(fields) > 1 {
		family = strings.Join(fields[1:], " ")
	}
	return FontSpec{Size: size, Family: family}, nil
}
