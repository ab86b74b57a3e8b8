package morph

import (
	"testing"

	"github.com/morphonent/morphonent/pkg/async"
	"github.com/morphonent/morphonent/pkg/bus"
	. "github.com/morphonent/morphonent/pkg/component"
	"github.com/morphonent/morphonent/pkg/dom"
	"github.com/morphonent/morphonent/pkg/registry"
)

func serverRendered(t *testing.T, markup string) (*dom.Document, *dom.Node) {
	t.Helper()
	doc := dom.NewDocument()
	container, err := doc.CreateElement("div")
	if err != nil {
		t.Fatal(err)
	}
	if err := container.SetAttribute(DefaultMarker, "R"); err != nil {
		t.Fatal(err)
	}
	if err := container.SetInnerHTML(markup); err != nil {
		t.Fatal(err)
	}
	if err := doc.Body().AppendChild(container); err != nil {
		t.Fatal(err)
	}
	doc.ResetWrites()
	return doc, container
}

func TestHydrationAdoptsServerMarkup(t *testing.T) {
	doc, container := serverRendered(t, `<span data-morphonent-id="R/0">TEXT</span>`)
	span := container.FirstChild()
	e := New(async.NewLoop(), WithBus(bus.New()))

	if err := e.Render(container, H("span", nil, Text("TEXT"))); err != nil {
		t.Fatal(err)
	}

	if got := doc.StructuralWrites(); got != 0 {
		t.Errorf("StructuralWrites() = %d, want 0", got)
	}
	if container.FirstChild() != span {
		t.Error("server-rendered span was replaced")
	}
	if got := container.InnerHTML(); got != "<span>TEXT</span>" {
		t.Errorf("html = %q, want markers stripped", got)
	}
	if container.HasAttribute(DefaultMarker) {
		t.Error("root marker not stripped")
	}
	if e.Registry(container).Get(registry.Root().Child(0)) != span {
		t.Error("span not registered under R/0")
	}
}

func TestHydrationNestedTree(t *testing.T) {
	doc, container := serverRendered(t,
		`<ul data-morphonent-id="R/0">`+
			`<li data-morphonent-id="R/0/0/0">Go</li>`+
			`<li data-morphonent-id="R/0/0/1">Rust</li>`+
			`</ul>`)
	ul := container.FirstChild()
	e := New(async.NewLoop(), WithBus(bus.New()))

	if err := e.Render(container, H("ul", nil, List{H("li", nil, Text("Go")), H("li", nil, Text("Rust"))})); err != nil {
		t.Fatal(err)
	}

	if got := doc.StructuralWrites(); got != 0 {
		t.Errorf("StructuralWrites() = %d, want 0", got)
	}
	if container.FirstChild() != ul {
		t.Error("ul was replaced")
	}
	if got, want := container.InnerHTML(), "<ul><li>Go</li><li>Rust</li></ul>"; got != want {
		t.Errorf("html = %q, want %q", got, want)
	}
}

func TestHydrationHandlersAreLive(t *testing.T) {
	_, container := serverRendered(t, `<button data-morphonent-id="R/0">0</button>`)
	e := New(async.NewLoop(), WithBus(bus.New()))

	var view func(n int) Component
	view = func(n int) Component {
		return H("button", Props{OnClick(func(*dom.Event) Component { return view(n + 1) })}, Number(n))
	}
	if err := e.Render(container, view(0)); err != nil {
		t.Fatal(err)
	}
	if err := container.FirstChild().Click(); err != nil {
		t.Fatal(err)
	}
	if got := container.InnerHTML(); got != "<button>1</button>" {
		t.Errorf("html = %q", got)
	}
}

func TestHydrationSkipsInvalidMarkers(t *testing.T) {
	_, container := serverRendered(t, `<p data-morphonent-id="X/9">stale</p>`)
	e := New(async.NewLoop(), WithBus(bus.New()))

	if err := e.Render(container, H("p", nil, Text("fresh"))); err != nil {
		t.Fatal(err)
	}
	// The root had no valid annotated child, so its contents were cleared
	// and rebuilt.
	if got := container.InnerHTML(); got != "<p>fresh</p>" {
		t.Errorf("html = %q", got)
	}
}

func TestHydrationOnlyOnFirstRender(t *testing.T) {
	doc := dom.NewDocument()
	container, _ := doc.CreateElement("div")
	_ = doc.Body().AppendChild(container)
	e := New(async.NewLoop(), WithBus(bus.New()))

	if err := e.Render(container, Text("first")); err != nil {
		t.Fatal(err)
	}
	// Markers added after the first render are ordinary attributes.
	_ = container.SetAttribute(DefaultMarker, "R")
	if err := e.Render(container, Text("second")); err != nil {
		t.Fatal(err)
	}
	if got, _ := container.GetAttribute(DefaultMarker); got != "R" {
		t.Errorf("marker = %q, want it left alone", got)
	}
	if got := container.InnerHTML(); got != "second" {
		t.Errorf("html = %q", got)
	}
}

func TestCustomMarker(t *testing.T) {
	doc := dom.NewDocument()
	container, _ := doc.CreateElement("div")
	_ = container.SetAttribute("data-pid", "R")
	_ = container.SetInnerHTML(`<em data-pid="R/0">x</em>`)
	_ = doc.Body().AppendChild(container)
	em := container.FirstChild()
	e := New(async.NewLoop(), WithBus(bus.New()), WithMarker("data-pid"))

	if err := e.Render(container, H("em", nil, Text("x"))); err != nil {
		t.Fatal(err)
	}
	if container.FirstChild() != em {
		t.Error("custom-marked node was not adopted")
	}
}

func TestHydrationMixedContentWithTextMarkers(t *testing.T) {
	doc, container := serverRendered(t,
		`<p data-morphonent-id="R/0">`+
			`<!--data-morphonent-id=R/0/0-->hi`+
			`<b data-morphonent-id="R/0/1">x</b>`+
			`</p>`)
	p := container.FirstChild()
	text := p.FirstChild().NextSibling()
	e := New(async.NewLoop(), WithBus(bus.New()))

	if err := e.Render(container, H("p", nil, Text("hi"), H("b", nil, Text("x")))); err != nil {
		t.Fatal(err)
	}

	if got := doc.StructuralWrites(); got != 0 {
		t.Errorf("StructuralWrites() = %d, want 0", got)
	}
	if got, want := container.InnerHTML(), "<p>hi<b>x</b></p>"; got != want {
		t.Errorf("html = %q, want %q", got, want)
	}
	if p.FirstChild() != text {
		t.Error("marked text node was not adopted")
	}
}
