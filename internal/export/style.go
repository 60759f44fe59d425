// file: internal/export/style.go
// version: 1.0.0
// guid: 7e2b5d90-4a1c-4f38-b6e7-0c9d3a5f8e12

package export

import (
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// style is the subset of CSS the rasterizer understands. Lengths are CSS
// pixels; they are scaled to device pixels during layout.
type style struct {
	color      color.Color
	background color.Color
	fontSize   float64
	bold       bool
	align      string
	rtl        bool

	display     string
	padding     [4]float64
	margin      [4]float64
	width       float64
	height      float64
	border      float64
	borderColor color.Color
}

const (
	top = iota
	right
	bottom
	left
)

func rootStyle(bg color.Color) style {
	return style{color: color.Black, background: bg, fontSize: 16, align: "left", display: "block"}
}

// inherit copies the inherited properties of parent into a fresh style.
func inherit(parent style) style {
	return style{
		color:    parent.color,
		fontSize: parent.fontSize,
		bold:     parent.bold,
		align:    parent.align,
		rtl:      parent.rtl,
		display:  "block",
	}
}

var inlineElements = map[atom.Atom]bool{
	atom.A: true, atom.Abbr: true, atom.B: true, atom.Bdi: true, atom.Bdo: true,
	atom.Br: true, atom.Code: true, atom.Em: true, atom.I: true, atom.Label: true,
	atom.Mark: true, atom.Q: true, atom.S: true, atom.Small: true, atom.Span: true,
	atom.Strong: true, atom.Sub: true, atom.Sup: true, atom.Time: true, atom.U: true,
	atom.Font: true,
}

var skippedElements = map[atom.Atom]bool{
	atom.Head: true, atom.Script: true, atom.Style: true, atom.Meta: true,
	atom.Link: true, atom.Title: true, atom.Noscript: true, atom.Template: true,
	atom.Iframe: true, atom.Svg: true, atom.Button: true, atom.Input: true,
	atom.Select: true, atom.Textarea: true,
}

// computeStyle applies element defaults, presentational attributes and the
// inline style attribute, in that order.
func computeStyle(n *html.Node, parent style) style {
	s := inherit(parent)
	if inlineElements[n.DataAtom] {
		s.display = "inline"
	}

	switch n.DataAtom {
	case atom.H1:
		s.fontSize, s.bold, s.margin[bottom] = 28, true, 12
	case atom.H2:
		s.fontSize, s.bold, s.margin[bottom] = 22, true, 10
	case atom.H3:
		s.fontSize, s.bold, s.margin[bottom] = 18, true, 8
	case atom.H4, atom.H5, atom.H6:
		s.bold, s.margin[bottom] = true, 6
	case atom.P, atom.Ul, atom.Ol:
		s.margin[bottom] = 8
	case atom.B, atom.Strong:
		s.bold = true
	case atom.Small:
		s.fontSize = parent.fontSize * 0.85
	case atom.Tr:
		s.display = "row"
	case atom.Td:
		s.padding = [4]float64{4, 6, 4, 6}
	case atom.Th:
		s.bold, s.padding = true, [4]float64{4, 6, 4, 6}
	case atom.Li:
		s.padding[left] = 12
	}

	if dir := strings.ToLower(attr(n, "dir")); dir == "rtl" {
		s.rtl, s.align = true, "right"
	} else if dir == "ltr" {
		s.rtl, s.align = false, "left"
	}
	if a := strings.ToLower(attr(n, "align")); a == "left" || a == "right" || a == "center" {
		s.align = a
	}
	if c, ok := parseColor(attr(n, "bgcolor")); ok {
		s.background = c
	}
	if hasClass(n, "hidden") {
		s.display = "none"
	}

	applyDeclarations(&s, attr(n, "style"), parent)
	return s
}

func applyDeclarations(s *style, decl string, parent style) {
	for _, d := range strings.Split(decl, ";") {
		key, val, ok := strings.Cut(d, ":")
		if !ok {
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(val), "!important"))

		switch key {
		case "color":
			if c, ok := parseColor(val); ok && c != nil {
				s.color = c
			}
		case "background", "background-color":
			if c, ok := parseColor(firstField(val)); ok {
				s.background = c
			}
		case "font-size":
			if v, ok := parseLength(val, parent.fontSize); ok && v > 0 {
				s.fontSize = v
			}
		case "font-weight":
			s.bold = val == "bold" || val == "bolder" || (len(val) == 3 && val >= "600")
		case "text-align":
			switch val {
			case "left", "right", "center":
				s.align = val
			case "start":
				s.align = startSide(s.rtl)
			case "end":
				s.align = startSide(!s.rtl)
			}
		case "direction":
			s.rtl = val == "rtl"
			if s.rtl {
				s.align = "right"
			}
		case "display":
			switch val {
			case "none":
				s.display = "none"
			case "flex", "inline-flex", "table-row", "grid":
				s.display = "row"
			case "inline", "inline-block":
				s.display = "inline"
			default:
				s.display = "block"
			}
		case "visibility":
			if val == "hidden" {
				s.display = "none"
			}
		case "width", "max-width":
			if v, ok := parseLength(val, s.fontSize); ok {
				s.width = v
			}
		case "height", "min-height":
			if v, ok := parseLength(val, s.fontSize); ok {
				s.height = v
			}
		case "padding":
			s.padding = parseBox(val, s.fontSize, s.padding)
		case "padding-top", "padding-right", "padding-bottom", "padding-left":
			setSide(&s.padding, key, val, s.fontSize)
		case "margin":
			s.margin = parseBox(val, s.fontSize, s.margin)
		case "margin-top", "margin-right", "margin-bottom", "margin-left":
			setSide(&s.margin, key, val, s.fontSize)
		case "border":
			for _, f := range strings.Fields(val) {
				if v, ok := parseLength(f, s.fontSize); ok {
					s.border = v
				} else if c, ok := parseColor(f); ok && c != nil {
					s.borderColor = c
				}
			}
			if s.border > 0 && s.borderColor == nil {
				s.borderColor = color.Black
			}
		case "border-color":
			if c, ok := parseColor(val); ok {
				s.borderColor = c
			}
		}
	}
}

func startSide(rtl bool) string {
	if rtl {
		return "right"
	}
	return "left"
}

func setSide(box *[4]float64, key, val string, fontSize float64) {
	v, ok := parseLength(val, fontSize)
	if !ok {
		return
	}
	switch {
	case strings.HasSuffix(key, "-top"):
		box[top] = v
	case strings.HasSuffix(key, "-right"):
		box[right] = v
	case strings.HasSuffix(key, "-bottom"):
		box[bottom] = v
	case strings.HasSuffix(key, "-left"):
		box[left] = v
	}
}

// parseBox reads the 1 to 4 value CSS shorthand.
func parseBox(val string, fontSize float64, current [4]float64) [4]float64 {
	var vals []float64
	for _, f := range strings.Fields(val) {
		v, ok := parseLength(f, fontSize)
		if !ok {
			v = 0
		}
		vals = append(vals, v)
	}
	switch len(vals) {
	case 1:
		return [4]float64{vals[0], vals[0], vals[0], vals[0]}
	case 2:
		return [4]float64{vals[0], vals[1], vals[0], vals[1]}
	case 3:
		return [4]float64{vals[0], vals[1], vals[2], vals[1]}
	case 4:
		return [4]float64{vals[0], vals[1], vals[2], vals[3]}
	}
	return current
}

// parseLength converts px, pt, em and rem lengths to CSS pixels.
func parseLength(v string, fontSize float64) (float64, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	mult := 1.0
	switch {
	case strings.HasSuffix(v, "px"):
		v = strings.TrimSuffix(v, "px")
	case strings.HasSuffix(v, "rem"):
		v, mult = strings.TrimSuffix(v, "rem"), 16
	case strings.HasSuffix(v, "em"):
		v, mult = strings.TrimSuffix(v, "em"), fontSize
	case strings.HasSuffix(v, "pt"):
		v, mult = strings.TrimSuffix(v, "pt"), 4.0/3.0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		return 0, false
	}
	return f * mult, true
}

var namedColors = map[string]color.Color{
	"black":  color.Black,
	"white":  color.White,
	"red":    color.RGBA{R: 0xff, A: 0xff},
	"green":  color.RGBA{G: 0x80, A: 0xff},
	"blue":   color.RGBA{B: 0xff, A: 0xff},
	"gray":   color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	"grey":   color.RGBA{R: 0x80, G: 0x80, B: 0x80, A: 0xff},
	"navy":   color.RGBA{B: 0x80, A: 0xff},
	"orange": color.RGBA{R: 0xff, G: 0xa5, A: 0xff},
	"gold":   color.RGBA{R: 0xff, G: 0xd7, A: 0xff},
}

// ParseColor parses a CSS color value: hex, rgb()/rgba() or a basic
// named color. Transparent yields (nil, true).
func ParseColor(v string) (color.Color, bool) {
	return parseColor(v)
}

// parseColor returns (nil, true) for transparent.
func parseColor(v string) (color.Color, bool) {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return nil, false
	}
	if v == "transparent" || v == "none" {
		return nil, true
	}
	if c, ok := namedColors[v]; ok {
		return c, true
	}
	if strings.HasPrefix(v, "#") {
		return parseHex(v[1:])
	}
	if strings.HasPrefix(v, "rgb") {
		open, closing := strings.IndexByte(v, '('), strings.IndexByte(v, ')')
		if open < 0 || closing < open {
			return nil, false
		}
		parts := strings.FieldsFunc(v[open+1:closing], func(r rune) bool { return r == ',' || r == ' ' || r == '/' })
		if len(parts) < 3 {
			return nil, false
		}
		var rgb [3]uint8
		for i := range rgb {
			n, err := strconv.ParseFloat(parts[i], 64)
			if err != nil {
				return nil, false
			}
			rgb[i] = uint8(max(0, min(255, n)))
		}
		if len(parts) == 4 {
			if a, err := strconv.ParseFloat(parts[3], 64); err == nil && a == 0 {
				return nil, true
			}
		}
		return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xff}, true
	}
	return nil, false
}

func parseHex(h string) (color.Color, bool) {
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) != 6 && len(h) != 8 {
		return nil, false
	}
	n, err := strconv.ParseUint(h[:6], 16, 32)
	if err != nil {
		return nil, false
	}
	return color.RGBA{R: uint8(n >> 16), G: uint8(n >> 8), B: uint8(n), A: 0xff}, true
}

func firstField(v string) string {
	if f := strings.Fields(v); len(f) > 0 {
		return f[0]
	}
	return v
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// excluded reports whether n is flagged to be left out of the capture.
func excluded(n *html.Node) bool {
	return hasClass(n, "print:hidden") || hasClass(n, "no-export") || attr(n, "data-export") == "exclude"
}
