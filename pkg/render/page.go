package render

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/morphonent/morphonent/pkg/dom"
)

// PageData describes a full document built around a live container.
type PageData struct {
	Root  *dom.Node
	Title string
	Lang  string // defaults to "en"

	Meta        []MetaTag
	StyleSheets []string
	Styles      []string
	Scripts     []ScriptTag

	// SessionID and LiveURL are published to the client as
	// window.__MORPHONENT__ so it can attach to its live session.
	SessionID string
	LiveURL   string

	// ClientScript is inlined at the end of the body.
	ClientScript string
}

// MetaTag is a named meta element.
type MetaTag struct {
	Name    string
	Content string
}

// ScriptTag is a script element. Deferred scripts go in the head, the rest
// after the content.
type ScriptTag struct {
	Src    string
	Module bool
	Defer  bool
	Inline string
}

// pageWriter remembers the first write error so page sections read as a
// flat list of writes.
type pageWriter struct {
	w   io.Writer
	err error
}

func (p *pageWriter) printf(format string, args ...any) {
	if p.err == nil {
		_, p.err = fmt.Fprintf(p.w, format, args...)
	}
}

func (p *pageWriter) raw(s string) {
	if p.err == nil {
		_, p.err = io.WriteString(p.w, s)
	}
}

// section writes one part of the page. Streaming output flushes between
// sections.
type section func(r *Renderer, p *pageWriter, page PageData)

var (
	headSections = []section{writePrologue, writeHead}
	bodySections = []section{writeBody}
)

// RenderPage renders a complete HTML document to w.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	p := &pageWriter{w: w}
	for _, s := range append(append([]section{}, headSections...), bodySections...) {
		s(r, p, page)
	}
	return p.err
}

func writePrologue(_ *Renderer, p *pageWriter, page PageData) {
	lang := page.Lang
	if lang == "" {
		lang = "en"
	}
	p.printf("<!DOCTYPE html>\n<html lang=\"%s\">\n", escapeAttr(lang))
}

func writeHead(_ *Renderer, p *pageWriter, page PageData) {
	p.raw("<head>\n")
	p.raw(`  <meta charset="utf-8">` + "\n")
	p.raw(`  <meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")
	if page.Title != "" {
		p.printf("  <title>%s</title>\n", escapeText(page.Title))
	}
	for _, m := range page.Meta {
		p.printf("  <meta name=\"%s\" content=\"%s\">\n", escapeAttr(m.Name), escapeAttr(m.Content))
	}
	for _, href := range page.StyleSheets {
		p.printf("  <link rel=\"stylesheet\" href=\"%s\">\n", escapeAttr(href))
	}
	for _, css := range page.Styles {
		p.printf("  <style>%s</style>\n", css)
	}
	writeScripts(p, page.Scripts, true)
	p.raw("</head>\n")
}

func writeBody(r *Renderer, p *pageWriter, page PageData) {
	p.raw("<body>\n")
	if p.err == nil {
		p.err = r.RenderToWriter(p.w, page.Root)
	}
	p.raw("\n")
	if p.err == nil {
		p.err = r.writeClientConfig(p, page)
	}
	writeScripts(p, page.Scripts, false)
	if page.ClientScript != "" {
		p.printf("  <script>%s</script>\n", page.ClientScript)
	}
	p.raw("</body>\n</html>\n")
}

func writeScripts(p *pageWriter, scripts []ScriptTag, deferred bool) {
	for _, s := range scripts {
		if s.Defer != deferred {
			continue
		}
		p.raw("  <script")
		if s.Src != "" {
			p.printf(" src=\"%s\"", escapeAttr(s.Src))
		}
		if s.Module {
			p.raw(` type="module"`)
		}
		if s.Defer {
			p.raw(" defer")
		}
		p.printf(">%s</script>\n", s.Inline)
	}
}

// clientConfig is exposed to the client as window.__MORPHONENT__.
type clientConfig struct {
	Session string `json:"session,omitempty"`
	Live    string `json:"live,omitempty"`
	Marker  string `json:"marker"`
}

func (r *Renderer) writeClientConfig(p *pageWriter, page PageData) error {
	if page.SessionID == "" && page.LiveURL == "" {
		return nil
	}
	data, err := json.Marshal(clientConfig{
		Session: page.SessionID,
		Live:    page.LiveURL,
		Marker:  r.config.Marker,
	})
	if err != nil {
		return fmt.Errorf("render: marshal client config: %w", err)
	}
	p.printf("  <script>window.__MORPHONENT__=%s;</script>\n", data)
	return p.err
}
