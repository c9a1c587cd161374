package watermark

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// builtinFonts maps family names to embedded Go fonts.
// Unknown families fall back to Go Regular.
var builtinFonts = map[string][]byte{
	"sans-serif":      goregular.TTF,
	"sans":            goregular.TTF,
	"go":              goregular.TTF,
	"arial":           goregular.TTF,
	"helvetica":       goregular.TTF,
	"bold":            gobold.TTF,
	"sans-serif-bold": gobold.TTF,
	"go-bold":         gobold.TTF,
	"monospace":       gomono.TTF,
	"mono":            gomono.TTF,
	"go-mono":         gomono.TTF,
	"courier":         gomono.TTF,
}

// fontCache holds parsed fonts; parsed fonts are read-only and shared
var fontCache = struct {
	mu    sync.Mutex
	fonts map[string]*opentype.Font
}{fonts: make(map[string]*opentype.Font)}

// loadFont resolves a family name or font file path to a parsed font
func loadFont(family string) (*opentype.Font, error) {
	key := strings.ToLower(strings.Trim(strings.TrimSpace(family), `"'`))
	isFile := false
	switch strings.ToLower(filepath.Ext(key)) {
	case ".ttf", ".otf":
		key = strings.Trim(strings.TrimSpace(family), `"'`)
		isFile = true
	}
	if _, ok := builtinFonts[key]; !ok && !isFile {
		key = DefaultFontFamily
	}

	fontCache.mu.Lock()
	defer fontCache.mu.Unlock()

	if f, ok := fontCache.fonts[key]; ok {
		return f, nil
	}

	data := builtinFonts[key]
	if isFile {
		var err error
		data, err = os.ReadFile(key)
		if err != nil {
			return nil, fmt.Errorf("failed to read font file: %w", err)
		}
	}

	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %q: %w", family, err)
	}
	fontCache.fonts[key] = f
	return f, nil
}

// newFace creates a face for spec. Faces are not safe for concurrent use,
// so each render gets its own.
func newFace(spec FontSpec) (font.Face, error) {
	f, err := loadFont(spec.Family)
	if err != nil {
		return nil, err
	}

	// At 72 DPI one point is one pixel.
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    spec.Size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
