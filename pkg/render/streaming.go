package render

import (
	"io"
	"net/http"
)

// StreamingRenderer renders pages to a writer that may be an http.Flusher,
// flushing once the head is written and again at the end of the document.
type StreamingRenderer struct {
	*Renderer
	w io.Writer
}

// NewStreamingRenderer creates a streaming renderer that writes to w.
func NewStreamingRenderer(w io.Writer, config RendererConfig) *StreamingRenderer {
	return &StreamingRenderer{Renderer: NewRenderer(config), w: w}
}

// RenderPage renders a complete HTML document with incremental flushing.
func (s *StreamingRenderer) RenderPage(page PageData) error {
	p := &pageWriter{w: s.w}
	for _, group := range [][]section{headSections, bodySections} {
		for _, sec := range group {
			sec(s.Renderer, p, page)
		}
		if p.err != nil {
			return p.err
		}
		if f, ok := s.w.(http.Flusher); ok {
			f.Flush()
		}
	}
	return nil
}
