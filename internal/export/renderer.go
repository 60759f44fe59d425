// file: internal/export/renderer.go
// version: 1.0.0
// guid: b7c2e9a4-1f53-4d86-9e0a-3c5f8d2b6e17

package export

import (
	"context"
	"fmt"
	"image"
)

// SurfaceRenderer renders records through pooled off-screen surfaces.
type SurfaceRenderer struct {
	templates TemplateSource
	pool      *SurfacePool
}

// NewSurfaceRenderer creates a renderer drawing templates from src.
func NewSurfaceRenderer(src TemplateSource, pool *SurfacePool) *SurfaceRenderer {
	return &SurfaceRenderer{templates: src, pool: pool}
}

// Render implements Renderer. The surface is released on every path.
func (r *SurfaceRenderer) Render(ctx context.Context, recordID string) (image.Image, error) {
	var img image.Image
	err := r.pool.With(ctx, func(s *Surface) error {
		tpl, err := r.templates.Template(ctx, recordID)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrRenderFailure, err)
		}
		if err := s.Load(ctx, tpl); err != nil {
			return err
		}
		img, err = s.Capture(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}
