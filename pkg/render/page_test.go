package render

import (
	"bytes"
	"io"
	"strings"
	"testing"

	. "github.com/morphonent/morphonent/pkg/component"
)

func TestRenderPage(t *testing.T) {
	root := live(t, H("p", nil, Text("hello")))
	var buf bytes.Buffer
	err := NewRenderer(RendererConfig{}).RenderPage(&buf, PageData{
		Root:         root,
		Title:        "A & B",
		Meta:         []MetaTag{{Name: "description", Content: "demo"}},
		StyleSheets:  []string{"/app.css"},
		Scripts:      []ScriptTag{{Src: "/head.js", Defer: true}, {Src: "/tail.js"}},
		SessionID:    "abc",
		LiveURL:      "/live",
		ClientScript: "boot()",
	})
	if err != nil {
		t.Fatal(err)
	}
	got := buf.String()

	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<title>A &amp; B</title>",
		`<meta name="description" content="demo">`,
		`<link rel="stylesheet" href="/app.css">`,
		`<script src="/head.js" defer></script>`,
		`<div data-morphonent-id="R"><p data-morphonent-id="R/0">hello</p></div>`,
		`window.__MORPHONENT__={"session":"abc","live":"/live","marker":"data-morphonent-id"};`,
		`<script src="/tail.js"></script>`,
		"<script>boot()</script>",
		"</body>\n</html>\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("page missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "/head.js") > strings.Index(got, "</head>") {
		t.Error("deferred script should be in the head")
	}
}

func TestRenderPageWithoutSession(t *testing.T) {
	root := live(t, Text("static"))
	var buf bytes.Buffer
	if err := NewRenderer(RendererConfig{}).RenderPage(&buf, PageData{Root: root, Lang: "fr"}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "__MORPHONENT__") {
		t.Error("client config rendered without a session")
	}
	if !strings.Contains(buf.String(), `<html lang="fr">`) {
		t.Error("lang not applied")
	}
}

func TestStreamingRendererFlushes(t *testing.T) {
	root := live(t, Text("streamed"))
	var buf bytes.Buffer
	w := &flushCounter{Writer: &buf}

	if err := NewStreamingRenderer(w, RendererConfig{}).RenderPage(PageData{Root: root}); err != nil {
		t.Fatal(err)
	}
	if w.flushes != 2 {
		t.Errorf("flushes = %d, want 2", w.flushes)
	}
	if !strings.Contains(buf.String(), "streamed") {
		t.Errorf("body missing: %s", buf.String())
	}
}

type flushCounter struct {
	io.Writer
	flushes int
}

func (w *flushCounter) Flush() { w.flushes++ }
