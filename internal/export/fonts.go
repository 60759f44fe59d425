// file: internal/export/fonts.go
// version: 1.1.0
// guid: 3a9d6e15-c0b7-4f82-a4e9-58d1b2c7f063

package export

import (
	"fmt"
	"image"
	"log"
	"math"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// systemFallbackFonts are tried in order when no fallback font is
// configured. Each covers the Arabic block.
var systemFallbackFonts = []string{
	"/usr/share/fonts/truetype/noto/NotoSansArabic-Regular.ttf",
	"/usr/share/fonts/opentype/noto/NotoSansArabic-Regular.ttf",
	"/usr/share/fonts/noto/NotoSansArabic-Regular.ttf",
	"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
	"/usr/share/fonts/TTF/DejaVuSans.ttf",
	"/Library/Fonts/Arial Unicode.ttf",
	"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
	`C:\Windows\Fonts\arial.ttf`,
}

// fontSet holds the parsed typefaces shared by every surface of a pool.
type fontSet struct {
	regular  *opentype.Font
	bold     *opentype.Font
	fallback *opentype.Font
}

// loadFonts parses the bundled Go fonts, or the TTF/OTF file at path when
// one is configured. A custom font is used for both weights. The fallback
// font fills in glyphs the main fonts lack; the Go fonts have no Arabic.
func loadFonts(path, fallbackPath string) (*fontSet, error) {
	set := &fontSet{}
	if path != "" {
		f, err := parseFontFile(path)
		if err != nil {
			return nil, err
		}
		set.regular, set.bold = f, f
	} else {
		regular, err := opentype.Parse(goregular.TTF)
		if err != nil {
			return nil, fmt.Errorf("parse regular font: %w", err)
		}
		bold, err := opentype.Parse(gobold.TTF)
		if err != nil {
			return nil, fmt.Errorf("parse bold font: %w", err)
		}
		set.regular, set.bold = regular, bold
	}

	if fallbackPath != "" {
		f, err := parseFontFile(fallbackPath)
		if err != nil {
			return nil, err
		}
		set.fallback = f
		return set, nil
	}
	for _, candidate := range systemFallbackFonts {
		if _, err := os.Stat(candidate); err != nil {
			continue
		}
		f, err := parseFontFile(candidate)
		if err != nil {
			log.Printf("[WARN] skipping fallback font: %v", err)
			continue
		}
		log.Printf("[INFO] using %s for glyphs missing from the main font", candidate)
		set.fallback = f
		return set, nil
	}
	log.Printf("[WARN] no fallback font found; Arabic text will render as empty boxes (set export_fallback_font)")
	return set, nil
}

func parseFontFile(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return f, nil
}

// glyphCoverage reports whether f has a real glyph for a rune. The
// returned func keeps a buffer and is not safe for concurrent use.
func glyphCoverage(f *opentype.Font) func(rune) bool {
	var buf sfnt.Buffer
	return func(r rune) bool {
		idx, err := f.GlyphIndex(&buf, r)
		return err == nil && idx != 0
	}
}

// fallbackFace draws each rune with primary when it has the glyph and
// with fallback otherwise. Letters are drawn in their isolated forms; no
// contextual shaping is applied.
type fallbackFace struct {
	primary  font.Face
	fallback font.Face
	covers   func(rune) bool
}

func (f *fallbackFace) pick(r rune) font.Face {
	if f.covers(r) {
		return f.primary
	}
	return f.fallback
}

func (f *fallbackFace) Close() error {
	err := f.primary.Close()
	if ferr := f.fallback.Close(); err == nil {
		err = ferr
	}
	return err
}

func (f *fallbackFace) Glyph(dot fixed.Point26_6, r rune) (image.Rectangle, image.Image, image.Point, fixed.Int26_6, bool) {
	return f.pick(r).Glyph(dot, r)
}

func (f *fallbackFace) GlyphBounds(r rune) (fixed.Rectangle26_6, fixed.Int26_6, bool) {
	return f.pick(r).GlyphBounds(r)
}

func (f *fallbackFace) GlyphAdvance(r rune) (fixed.Int26_6, bool) {
	return f.pick(r).GlyphAdvance(r)
}

func (f *fallbackFace) Kern(r0, r1 rune) fixed.Int26_6 {
	a, b := f.pick(r0), f.pick(r1)
	if a != b {
		return 0
	}
	return a.Kern(r0, r1)
}

// Metrics keeps the primary face's line metrics so mixed text shares one
// baseline and line height.
func (f *fallbackFace) Metrics() font.Metrics {
	return f.primary.Metrics()
}

type faceKey struct {
	size int
	bold bool
}

// faceCache creates faces on demand. Faces are not safe for concurrent use,
// so every surface owns its own cache.
type faceCache struct {
	fonts *fontSet
	faces map[faceKey]font.Face
}

func newFaceCache(fonts *fontSet) *faceCache {
	return &faceCache{fonts: fonts, faces: map[faceKey]font.Face{}}
}

func (c *faceCache) face(size float64, bold bool) font.Face {
	key := faceKey{size: int(math.Round(max(size, 1) * 4)), bold: bold}
	if f, ok := c.faces[key]; ok {
		return f
	}
	src := c.fonts.regular
	if bold {
		src = c.fonts.bold
	}
	f := newFace(src, key.size)
	if c.fonts.fallback != nil {
		f = &fallbackFace{
			primary:  f,
			fallback: newFace(c.fonts.fallback, key.size),
			covers:   glyphCoverage(src),
		}
	}
	c.faces[key] = f
	return f
}

// newFace builds a face at quarterPoints/4 points.
func newFace(src *opentype.Font, quarterPoints int) font.Face {
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    float64(quarterPoints) / 4,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// Only reachable with a corrupt font; parse already validated it.
		panic(fmt.Sprintf("create font face: %v", err))
	}
	return f
}

func (c *faceCache) close() {
	for k, f := range c.faces {
		f.Close()
		delete(c.faces, k)
	}
}
