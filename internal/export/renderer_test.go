// file: internal/export/renderer_test.go
// version: 1.0.0
// guid: 0c5e9b27-a3d1-4f68-9b40-e2d7c1a8f593

package export

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elsayedebiad/qsr-final-sub001/internal/models"
)

type staticTemplates map[string]string

func (s staticTemplates) Template(_ context.Context, id string) (*Template, error) {
	h, ok := s[id]
	if !ok {
		return nil, fmt.Errorf("no template for %s", id)
	}
	return &Template{HTML: []byte(h)}, nil
}

func testPool(t *testing.T, mutate func(*SurfaceOptions)) *SurfacePool {
	t.Helper()
	opts := DefaultSurfaceOptions()
	opts.LayoutWait = 100 * time.Millisecond
	opts.PollInterval = 10 * time.Millisecond
	opts.ResourceWait = 500 * time.Millisecond
	if mutate != nil {
		mutate(&opts)
	}
	pool, err := NewSurfacePool(1, opts)
	require.NoError(t, err)
	return pool
}

func solidPNG(t *testing.T, c color.Color, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func hasColor(img image.Image, want color.RGBA) bool {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			if near(r>>8, want.R) && near(g>>8, want.G) && near(bl>>8, want.B) {
				return true
			}
		}
	}
	return false
}

func near(got uint32, want uint8) bool {
	d := int(got) - int(want)
	return d >= -8 && d <= 8
}

var (
	red  = color.RGBA{R: 0xff, A: 0xff}
	blue = color.RGBA{B: 0xff, A: 0xff}
)

func TestRenderExcludesFlaggedElements(t *testing.T) {
	tpl := staticTemplates{"1": `<html><body>
		<div class="cv-template" style="width:100px">
			<div style="background:#0000ff; height:20px"></div>
			<div class="print:hidden" style="background:#ff0000; height:30px"></div>
			<div class="no-export" style="background:#ff0000; height:30px"></div>
			<div data-export="exclude" style="background:#ff0000; height:30px"></div>
		</div></body></html>`}
	pool := testPool(t, nil)
	img, err := NewSurfaceRenderer(tpl, pool).Render(context.Background(), "1")
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 200, 40), img.Bounds(), "2x pixel ratio and excluded elements take no space")
	assert.True(t, hasColor(img, blue))
	assert.False(t, hasColor(img, red))
	assert.Equal(t, 1, pool.Available())
}

func TestRenderBackgroundIsOpaque(t *testing.T) {
	tpl := staticTemplates{"1": `<div class="cv-template" style="width:50px; height:10px"></div>`}
	img, err := NewSurfaceRenderer(tpl, testPool(t, nil)).Render(context.Background(), "1")
	require.NoError(t, err)
	_, _, _, a := img.At(5, 5).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	r, g, b, _ := img.At(5, 5).RGBA()
	assert.Equal(t, [3]uint32{0xffff, 0xffff, 0xffff}, [3]uint32{r, g, b})
}

func TestRenderRootErrors(t *testing.T) {
	tpl := staticTemplates{
		"none":  `<div class="card">no root</div>`,
		"two":   `<div class="cv-template">a</div><div class="cv-template">b</div>`,
		"empty": `<div class="cv-template"></div>`,
	}
	pool := testPool(t, nil)
	r := NewSurfaceRenderer(tpl, pool)

	for _, id := range []string{"none", "two", "empty", "missing"} {
		_, err := r.Render(context.Background(), id)
		assert.ErrorIs(t, err, ErrRenderFailure, id)
		assert.Equal(t, 1, pool.Available(), "surface released after %s", id)
	}
}

func TestRenderDataURIImage(t *testing.T) {
	green := color.RGBA{G: 0xff, A: 0xff}
	src := "data:image/png;base64," + base64.StdEncoding.EncodeToString(solidPNG(t, green, 4, 4))
	tpl := staticTemplates{"1": fmt.Sprintf(`<div class="cv-template" style="width:40px"><img src="%s" width="10" height="5"></div>`, src)}

	img, err := NewSurfaceRenderer(tpl, testPool(t, nil)).Render(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dy())
	r, g, b, _ := img.At(10, 5).RGBA()
	assert.True(t, near(r>>8, 0) && near(g>>8, 0xff) && near(b>>8, 0), "expected green, got %d %d %d", r>>8, g>>8, b>>8)
}

func TestRenderHTTPImagesBestEffort(t *testing.T) {
	fast := solidPNG(t, blue, 2, 2)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/img/fast.png":
			w.Header().Set("Content-Type", "image/png")
			_, _ = w.Write(fast)
		case "/img/slow.png":
			select {
			case <-time.After(2 * time.Second):
			case <-r.Context().Done():
			}
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	base, _ := url.Parse(srv.URL + "/cv/1/template")
	tpl := templateFunc(func(context.Context, string) (*Template, error) {
		return &Template{BaseURL: base, HTML: []byte(`<div class="cv-template" style="width:20px">
			<img src="/img/fast.png" width="20" height="20">
			<img src="/img/slow.png" width="20" height="20">
			<img src="/img/missing.png" width="20" height="20">
		</div>`)}, nil
	})

	pool := testPool(t, func(o *SurfaceOptions) { o.ResourceWait = 100 * time.Millisecond })
	start := time.Now()
	img, err := NewSurfaceRenderer(tpl, pool).Render(context.Background(), "1")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 1500*time.Millisecond)
	assert.Equal(t, 120, img.Bounds().Dy())
	assert.True(t, hasColor(img, blue))
	assert.Equal(t, 1, pool.Available())
}

type templateFunc func(context.Context, string) (*Template, error)

func (f templateFunc) Template(ctx context.Context, id string) (*Template, error) { return f(ctx, id) }

func TestRenderRecordCard(t *testing.T) {
	rec := &models.CandidateRecord{
		ID:             "42",
		FullName:       "Maria Santos",
		FullNameArabic: "ماريا سانتوس",
		ReferenceCode:  "QSR-042",
		Nationality:    "FILIPINO",
		Position:       "Housemaid",
		Age:            30,
		Cleaning:       models.LevelYes,
		ArabicLevel:    models.LevelWilling,
	}
	src := NewRecordTemplateSource(func(id string) (*models.CandidateRecord, bool) {
		return rec, id == "42"
	}, "")

	var buf bytes.Buffer
	require.NoError(t, src.Write(&buf, rec))
	assert.Contains(t, buf.String(), `class="cv-template"`)
	assert.Contains(t, buf.String(), "QSR-042")
	assert.Contains(t, buf.String(), `class="print:hidden"`)

	r := NewSurfaceRenderer(src, testPool(t, nil))
	img, err := r.Render(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, 1600, img.Bounds().Dx())
	assert.Greater(t, img.Bounds().Dy(), 400)

	_, err = r.Render(context.Background(), "7")
	assert.ErrorIs(t, err, ErrRenderFailure)
}

func TestHTTPTemplateSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/cv/a%20b/template" && r.URL.EscapedPath() != "/cv/a%20b/template" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`<div class="cv-template">x</div>`))
	}))
	defer srv.Close()

	_, err := NewHTTPTemplateSource(srv.URL+"/cv/template", "")
	assert.Error(t, err)

	src, err := NewHTTPTemplateSource(srv.URL+"/cv/{id}/template", "tok")
	require.NoError(t, err)
	tpl, err := src.Template(context.Background(), "a b")
	require.NoError(t, err)
	assert.Contains(t, string(tpl.HTML), "cv-template")
	assert.Equal(t, "/cv/a%20b/template", tpl.BaseURL.EscapedPath())

	_, err = src.Template(context.Background(), "other")
	assert.Error(t, err)
}

func TestSurfacePoolWith(t *testing.T) {
	pool := testPool(t, nil)
	err := pool.With(context.Background(), func(s *Surface) error {
		assert.Equal(t, 0, pool.Available())
		return fmt.Errorf("boom")
	})
	assert.EqualError(t, err, "boom")
	assert.Equal(t, 1, pool.Available())

	s, err := pool.Acquire(context.Background())
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = pool.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	pool.Release(s)
	pool.Close()
}
