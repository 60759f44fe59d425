// file: internal/export/layout.go
// version: 1.0.0
// guid: e4a1c7f3-92b6-4d05-8f3e-1b7a6c0d9e28

package export

import (
	"image"
	"image/color"
	"math"
	"strings"
	"unicode"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

type boxKind int

const (
	blockBox boxKind = iota
	textBox
	imageBox
)

// run is a fragment of inline text with its own style.
type run struct {
	text  string
	style style
	br    bool
}

type box struct {
	kind     boxKind
	style    style
	children []*box
	runs     []run
	src      string
	attrW    float64
	attrH    float64

	// Layout results in device pixels, relative to the canvas.
	x, y, w, h int
	lines      []line
}

type segment struct {
	text  string
	style style
	x     int
	width int
}

type line struct {
	segments []segment
	y        int
	ascent   int
	height   int
}

// buildBoxes converts the DOM subtree at n into a box tree, skipping
// excluded and hidden elements.
func buildBoxes(n *html.Node, parent style) *box {
	st := computeStyle(n, parent)
	b := &box{kind: blockBox, style: st}
	var para []run

	flush := func() {
		if p := trimRuns(para); len(p) > 0 {
			b.children = append(b.children, &box{kind: textBox, style: st, runs: p})
		}
		para = nil
	}

	var walk func(c *html.Node, inl style)
	walk = func(c *html.Node, inl style) {
		switch c.Type {
		case html.TextNode:
			if t := collapseSpace(c.Data); t != "" {
				para = append(para, run{text: t, style: inl})
			}
			return
		case html.ElementNode:
		default:
			return
		}
		if skippedElements[c.DataAtom] || excluded(c) {
			return
		}
		cs := computeStyle(c, inl)
		if cs.display == "none" {
			return
		}
		switch {
		case c.DataAtom == atom.Br:
			para = append(para, run{br: true, style: inl})
		case c.DataAtom == atom.Img:
			flush()
			img := &box{kind: imageBox, style: cs, src: attr(c, "src")}
			img.attrW, _ = parseLength(attr(c, "width"), cs.fontSize)
			img.attrH, _ = parseLength(attr(c, "height"), cs.fontSize)
			if cs.width > 0 {
				img.attrW = cs.width
			}
			if cs.height > 0 {
				img.attrH = cs.height
			}
			b.children = append(b.children, img)
		case cs.display == "inline":
			for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
				walk(gc, cs)
			}
		default:
			flush()
			child := buildBoxes(c, inl)
			if c.DataAtom == atom.Li {
				addBullet(child)
			}
			b.children = append(b.children, child)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, st)
	}
	flush()
	return b
}

func addBullet(b *box) {
	bullet := run{text: "• ", style: b.style}
	if len(b.children) > 0 && b.children[0].kind == textBox {
		b.children[0].runs = append([]run{bullet}, b.children[0].runs...)
		return
	}
	b.children = append([]*box{{kind: textBox, style: b.style, runs: []run{bullet}}}, b.children...)
}

func collapseSpace(s string) string {
	var sb strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			space = true
			continue
		}
		if space {
			sb.WriteByte(' ')
			space = false
		}
		sb.WriteRune(r)
	}
	if space {
		sb.WriteByte(' ')
	}
	return sb.String()
}

func trimRuns(runs []run) []run {
	for len(runs) > 0 && !runs[0].br && strings.TrimSpace(runs[0].text) == "" {
		runs = runs[1:]
	}
	for len(runs) > 0 && !runs[len(runs)-1].br && strings.TrimSpace(runs[len(runs)-1].text) == "" {
		runs = runs[:len(runs)-1]
	}
	if len(runs) == 0 {
		return nil
	}
	out := append([]run(nil), runs...)
	if !out[0].br {
		out[0].text = strings.TrimLeft(out[0].text, " ")
	}
	if last := len(out) - 1; !out[last].br {
		out[last].text = strings.TrimRight(out[last].text, " ")
	}
	return out
}

// layouter lays a box tree out at a fixed device pixel ratio.
type layouter struct {
	scale  float64
	faces  func(size float64, bold bool) font.Face
	images func(src string) image.Image
}

func (l *layouter) px(v float64) int {
	return int(math.Round(v * l.scale))
}

// layout positions b inside the horizontal span [x, x+avail) starting at y
// and returns the outer height including margins.
func (l *layouter) layout(b *box, x, y, avail int) int {
	st := b.style
	x += l.px(st.margin[left])
	y += l.px(st.margin[top])
	w := avail - l.px(st.margin[left]) - l.px(st.margin[right])
	if st.width > 0 && b.kind != imageBox {
		w = min(w, l.px(st.width))
	}
	w = max(w, 0)

	bw := l.px(st.border)
	cx := x + bw + l.px(st.padding[left])
	cy := y + bw + l.px(st.padding[top])
	cw := max(w-2*bw-l.px(st.padding[left])-l.px(st.padding[right]), 0)

	var ch int
	switch b.kind {
	case textBox:
		ch = l.wrap(b, cx, cy, cw)
	case imageBox:
		iw, ih := l.imageSize(b, cw)
		b.x, b.y, b.w, b.h = cx, cy, iw, ih
		return ih + l.px(st.margin[top]) + l.px(st.margin[bottom])
	default:
		if st.display == "row" && len(b.children) > 0 {
			ch = l.row(b.children, cx, cy, cw)
		} else {
			for _, c := range b.children {
				ch += l.layout(c, cx, cy+ch, cw)
			}
		}
	}

	h := ch + 2*bw + l.px(st.padding[top]) + l.px(st.padding[bottom])
	if mh := l.px(st.height); mh > h {
		h = mh
	}
	b.x, b.y, b.w, b.h = x, y, w, h
	return h + l.px(st.margin[top]) + l.px(st.margin[bottom])
}

// row places children side by side. Children with an explicit width keep
// it; the rest share the remaining space equally.
func (l *layouter) row(children []*box, x, y, avail int) int {
	fixedW, flex := 0, 0
	for _, c := range children {
		if c.style.width > 0 {
			fixedW += l.px(c.style.width)
		} else {
			flex++
		}
	}
	share := 0
	if flex > 0 {
		share = max(avail-fixedW, 0) / flex
	}

	h := 0
	cx := x
	for _, c := range children {
		w := share
		if c.style.width > 0 {
			w = l.px(c.style.width)
		}
		h = max(h, l.layout(c, cx, y, w))
		cx += w
	}
	return h
}

func (l *layouter) imageSize(b *box, avail int) (int, int) {
	var nw, nh float64
	if img := l.images(b.src); img != nil {
		nw, nh = float64(img.Bounds().Dx()), float64(img.Bounds().Dy())
	}
	w, h := b.attrW, b.attrH
	switch {
	case w > 0 && h > 0:
	case w > 0 && nw > 0:
		h = w * nh / nw
	case h > 0 && nh > 0:
		w = h * nw / nh
	case nw > 0:
		w, h = nw, nh
	}
	dw, dh := l.px(w), l.px(h)
	if dw > avail && dw > 0 {
		dh = dh * avail / dw
		dw = avail
	}
	return dw, dh
}

// wrap breaks the runs of b into lines no wider than avail.
func (l *layouter) wrap(b *box, x, y, avail int) int {
	b.lines = nil
	startY := y
	cur := line{}
	curW := 0

	newLine := func() {
		l.finishLine(&cur, b.style, x, avail, curW)
		b.lines = append(b.lines, cur)
		y += cur.height
		cur = line{y: y}
		curW = 0
	}
	cur.y = y

	for _, r := range b.runs {
		if r.br {
			l.growLine(&cur, r.style)
			newLine()
			continue
		}
		face := l.faces(l.fontPx(r.style), r.style.bold)
		for _, word := range splitKeepSpace(r.text) {
			ww := font.MeasureString(face, word).Ceil()
			if curW+ww > avail && curW > 0 {
				if strings.TrimSpace(word) == "" {
					continue
				}
				newLine()
			}
			if ww > avail && avail > 0 {
				for _, piece := range breakWord(face, word, avail) {
					pw := font.MeasureString(face, piece).Ceil()
					if curW > 0 && curW+pw > avail {
						newLine()
					}
					l.appendSegment(&cur, piece, r.style, curW, pw)
					curW += pw
				}
				continue
			}
			if curW == 0 && strings.TrimSpace(word) == "" {
				continue
			}
			l.appendSegment(&cur, word, r.style, curW, ww)
			curW += ww
		}
	}
	if len(cur.segments) > 0 {
		newLine()
	}

	total := 0
	for _, ln := range b.lines {
		total += ln.height
	}
	b.x, b.y, b.w, b.h = x, startY, avail, total
	return total
}

func (l *layouter) appendSegment(ln *line, text string, st style, x, w int) {
	ln.segments = append(ln.segments, segment{text: text, style: st, x: x, width: w})
	l.growLine(ln, st)
}

func (l *layouter) growLine(ln *line, st style) {
	m := l.faces(l.fontPx(st), st.bold).Metrics()
	ln.ascent = max(ln.ascent, m.Ascent.Ceil())
	ln.height = max(ln.height, int(math.Ceil(l.fontPx(st)*1.4)))
}

// finishLine trims trailing space and applies horizontal alignment.
func (l *layouter) finishLine(ln *line, st style, x, avail, used int) {
	if n := len(ln.segments); n > 0 && strings.TrimSpace(ln.segments[n-1].text) == "" {
		used -= ln.segments[n-1].width
		ln.segments = ln.segments[:n-1]
	}
	offset := 0
	switch st.align {
	case "right":
		offset = avail - used
	case "center":
		offset = (avail - used) / 2
	}
	for i := range ln.segments {
		ln.segments[i].x += x + max(offset, 0)
	}
	if ln.height == 0 {
		ln.height = int(math.Ceil(l.fontPx(st) * 1.4))
	}
}

func (l *layouter) fontPx(st style) float64 {
	return st.fontSize * l.scale
}

// splitKeepSpace splits s into words and single spaces.
func splitKeepSpace(s string) []string {
	var out []string
	start := 0
	for i, r := range s {
		if r == ' ' {
			if i > start {
				out = append(out, s[start:i])
			}
			out = append(out, " ")
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}

func breakWord(face font.Face, word string, avail int) []string {
	var out []string
	var cur []rune
	for _, r := range word {
		next := append(cur, r)
		if len(cur) > 0 && font.MeasureString(face, string(next)).Ceil() > avail {
			out = append(out, string(cur))
			cur = []rune{r}
			continue
		}
		cur = next
	}
	if len(cur) > 0 {
		out = append(out, string(cur))
	}
	return out
}

// paint draws b and its descendants onto dst.
func (l *layouter) paint(dst *image.RGBA, b *box) {
	r := image.Rect(b.x, b.y, b.x+b.w, b.y+b.h)
	switch b.kind {
	case imageBox:
		if img := l.images(b.src); img != nil && b.w > 0 && b.h > 0 {
			draw.CatmullRom.Scale(dst, r, img, img.Bounds(), draw.Over, nil)
		}
		return
	case textBox:
		for _, ln := range b.lines {
			for _, seg := range ln.segments {
				d := font.Drawer{
					Dst:  dst,
					Src:  image.NewUniform(seg.style.color),
					Face: l.faces(l.fontPx(seg.style), seg.style.bold),
					Dot:  fixed.P(seg.x, ln.y+(ln.height+ln.ascent)/2),
				}
				d.DrawString(seg.text)
			}
		}
		return
	}

	if b.style.background != nil {
		draw.Draw(dst, r, image.NewUniform(b.style.background), image.Point{}, draw.Over)
	}
	if bw := l.px(b.style.border); bw > 0 && b.style.borderColor != nil {
		paintBorder(dst, r, bw, b.style.borderColor)
	}
	for _, c := range b.children {
		l.paint(dst, c)
	}
}

func paintBorder(dst *image.RGBA, r image.Rectangle, w int, c color.Color) {
	src := image.NewUniform(c)
	for _, edge := range []image.Rectangle{
		image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+w),
		image.Rect(r.Min.X, r.Max.Y-w, r.Max.X, r.Max.Y),
		image.Rect(r.Min.X, r.Min.Y, r.Min.X+w, r.Max.Y),
		image.Rect(r.Max.X-w, r.Min.Y, r.Max.X, r.Max.Y),
	} {
		draw.Draw(dst, edge.Intersect(r), src, image.Point{}, draw.Over)
	}
}
