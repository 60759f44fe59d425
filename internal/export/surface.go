// file: internal/export/surface.go
// version: 1.1.0
// guid: 6c0b8e43-d5a2-4971-b3f8-2e7d9a1c4b50

package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	_ "image/gif" // decoders for <img> sources
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/net/html"
)

const maxResourceBytes = 16 << 20

// SurfaceOptions configures off-screen surfaces.
type SurfaceOptions struct {
	ViewportWidth int
	PixelRatio    float64
	Background    color.Color
	ResourceWait  time.Duration
	LayoutWait    time.Duration
	PollInterval  time.Duration
	RootClass     string
	FontPath      string
	// FallbackFontPath supplies glyphs FontPath lacks. When empty a few
	// common system fonts with Arabic coverage are tried.
	FallbackFontPath string
	HTTPClient       *http.Client
}

// DefaultSurfaceOptions mirrors the capture settings of the gallery pages.
func DefaultSurfaceOptions() SurfaceOptions {
	return SurfaceOptions{
		ViewportWidth: 1200,
		PixelRatio:    2,
		Background:    color.White,
		ResourceWait:  10 * time.Second,
		LayoutWait:    2 * time.Second,
		PollInterval:  50 * time.Millisecond,
		RootClass:     "cv-template",
		HTTPClient:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (o *SurfaceOptions) normalize() {
	d := DefaultSurfaceOptions()
	if o.ViewportWidth <= 0 {
		o.ViewportWidth = d.ViewportWidth
	}
	if o.PixelRatio <= 0 {
		o.PixelRatio = d.PixelRatio
	}
	if o.Background == nil {
		o.Background = d.Background
	}
	if o.ResourceWait <= 0 {
		o.ResourceWait = d.ResourceWait
	}
	if o.LayoutWait <= 0 {
		o.LayoutWait = d.LayoutWait
	}
	if o.PollInterval <= 0 {
		o.PollInterval = d.PollInterval
	}
	if o.RootClass == "" {
		o.RootClass = d.RootClass
	}
	if o.HTTPClient == nil {
		o.HTTPClient = d.HTTPClient
	}
}

// Surface is an isolated off-screen document. It is only valid between
// SurfacePool.Acquire and SurfacePool.Release.
type Surface struct {
	opts  *SurfaceOptions
	faces *faceCache

	doc  *html.Node
	base *url.URL

	mu     sync.Mutex
	images map[string]image.Image

	loads  sync.WaitGroup
	cancel context.CancelFunc
}

func newSurface(opts *SurfaceOptions, fonts *fontSet) *Surface {
	return &Surface{opts: opts, faces: newFaceCache(fonts), images: map[string]image.Image{}}
}

// Load parses the template and fetches its images. It waits at most
// ResourceWait for them; stragglers keep loading in the background until
// the surface is released.
func (s *Surface) Load(ctx context.Context, tpl *Template) error {
	doc, err := html.Parse(bytes.NewReader(tpl.HTML))
	if err != nil {
		return fmt.Errorf("%w: parse template: %w", ErrRenderFailure, err)
	}
	s.doc, s.base = doc, tpl.BaseURL

	lctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel

	done := make(chan struct{})
	var pending sync.WaitGroup
	for _, src := range imageSources(doc) {
		pending.Add(1)
		s.loads.Add(1)
		go func() {
			defer s.loads.Done()
			defer pending.Done()
			s.loadImage(lctx, src)
		}()
	}
	go func() {
		pending.Wait()
		close(done)
	}()

	timer := time.NewTimer(s.opts.ResourceWait)
	defer timer.Stop()
	select {
	case <-done:
	case <-timer.C:
		log.Printf("[WARN] export: resources still loading after %s, continuing", s.opts.ResourceWait)
	case <-ctx.Done():
	}
	return nil
}

func (s *Surface) loadImage(ctx context.Context, src string) {
	data, err := s.fetch(ctx, src)
	if err != nil {
		log.Printf("[WARN] export: image %s: %v", shorten(src), err)
		return
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		log.Printf("[WARN] export: decode image %s: %v", shorten(src), err)
		return
	}
	s.mu.Lock()
	s.images[src] = img
	s.mu.Unlock()
}

func (s *Surface) fetch(ctx context.Context, src string) ([]byte, error) {
	if strings.HasPrefix(src, "data:") {
		return decodeDataURI(src)
	}
	u, err := url.Parse(src)
	if err != nil {
		return nil, err
	}
	if s.base != nil {
		u = s.base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.opts.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxResourceBytes))
}

func (s *Surface) image(src string) image.Image {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.images[src]
}

// Root returns the single element carrying the root class.
func (s *Surface) Root() (*html.Node, error) {
	if s.doc == nil {
		return nil, renderError("no template loaded")
	}
	var roots []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, s.opts.RootClass) {
			roots = append(roots, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(s.doc)

	switch len(roots) {
	case 1:
		return roots[0], nil
	case 0:
		return nil, renderError("template root .%s not found", s.opts.RootClass)
	default:
		return nil, renderError("template has %d .%s roots, want exactly one", len(roots), s.opts.RootClass)
	}
}

// Capture lays the root element out, polling until it has a non-zero size
// or LayoutWait passes, then rasterizes it on an opaque background.
func (s *Surface) Capture(ctx context.Context) (image.Image, error) {
	root, err := s.Root()
	if err != nil {
		return nil, err
	}

	l := &layouter{scale: s.opts.PixelRatio, faces: s.faces.face, images: s.image}
	bg := rootStyle(s.opts.Background)
	viewport := l.px(float64(s.opts.ViewportWidth))

	deadline := time.Now().Add(s.opts.LayoutWait)
	var b *box
	var w, h int
	for {
		b = buildBoxes(root, bg)
		b.style.margin = [4]float64{}
		h = l.layout(b, 0, 0, viewport)
		w = b.w
		if (w > 0 && h > 0) || !time.Now().Before(deadline) {
			break
		}
		select {
		case <-ctx.Done():
			return nil, renderError("layout interrupted: %v", ctx.Err())
		case <-time.After(s.opts.PollInterval):
		}
	}
	if w <= 0 || h <= 0 {
		return nil, renderError("template root has no content after %s", s.opts.LayoutWait)
	}

	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(opaque(s.opts.Background)), image.Point{}, draw.Src)
	l.paint(canvas, b)
	return canvas, nil
}

// reset tears the document down so the surface can be reused.
func (s *Surface) reset() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.loads.Wait()
	s.doc, s.base = nil, nil
	s.mu.Lock()
	s.images = map[string]image.Image{}
	s.mu.Unlock()
}

func imageSources(doc *html.Node) []string {
	seen := map[string]bool{}
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && excluded(n) {
			return
		}
		if n.Type == html.ElementNode && n.Data == "img" {
			if src := strings.TrimSpace(attr(n, "src")); src != "" && !seen[src] {
				seen[src] = true
				out = append(out, src)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return out
}

func decodeDataURI(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("malformed data uri")
	}
	if strings.HasSuffix(meta, ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	s, err := url.PathUnescape(payload)
	return []byte(s), err
}

func opaque(c color.Color) color.Color {
	r, g, b, _ := c.RGBA()
	return color.RGBA64{R: uint16(r), G: uint16(g), B: uint16(b), A: 0xffff}
}

func shorten(s string) string {
	if len(s) > 64 {
		return s[:61] + "..."
	}
	return s
}

// SurfacePool hands out a bounded number of surfaces.
type SurfacePool struct {
	opts  SurfaceOptions
	slots chan *Surface
	size  int
}

// NewSurfacePool creates a pool of size surfaces sharing one font set.
func NewSurfacePool(size int, opts SurfaceOptions) (*SurfacePool, error) {
	opts.normalize()
	if size <= 0 {
		size = 1
	}
	fonts, err := loadFonts(opts.FontPath, opts.FallbackFontPath)
	if err != nil {
		return nil, err
	}
	p := &SurfacePool{opts: opts, slots: make(chan *Surface, size), size: size}
	for range size {
		p.slots <- newSurface(&p.opts, fonts)
	}
	return p, nil
}

// Acquire waits for a free surface.
func (p *SurfacePool) Acquire(ctx context.Context) (*Surface, error) {
	select {
	case s := <-p.slots:
		return s, nil
	case <-ctx.Done():
		return nil, fmt.Errorf("acquire surface: %w", ctx.Err())
	}
}

// Release resets s and returns it to the pool.
func (p *SurfacePool) Release(s *Surface) {
	if s == nil {
		return
	}
	s.reset()
	p.slots <- s
}

// With runs fn on an acquired surface and always releases it.
func (p *SurfacePool) With(ctx context.Context, fn func(*Surface) error) error {
	s, err := p.Acquire(ctx)
	if err != nil {
		return err
	}
	defer p.Release(s)
	return fn(s)
}

// Available reports how many surfaces are free.
func (p *SurfacePool) Available() int {
	return len(p.slots)
}

// Close releases font faces held by idle surfaces.
func (p *SurfacePool) Close() {
	for range p.size {
		s := <-p.slots
		s.faces.close()
	}
}
