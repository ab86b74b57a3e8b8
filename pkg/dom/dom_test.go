package dom

import (
	"errors"
	"testing"
)

func newContainer(t *testing.T) (*Document, *Node) {
	t.Helper()
	doc := NewDocument()
	div, err := doc.CreateElement("div")
	if err != nil {
		t.Fatalf("CreateElement: %v", err)
	}
	if err := doc.Body().AppendChild(div); err != nil {
		t.Fatalf("AppendChild: %v", err)
	}
	doc.ResetWrites()
	return doc, div
}

func TestNewDocumentHasBody(t *testing.T) {
	doc := NewDocument()
	if doc.Body() == nil {
		t.Fatal("Body() = nil")
	}
	if doc.Head() == nil {
		t.Fatal("Head() = nil")
	}
	if got := doc.DocumentElement().TagName(); got != "html" {
		t.Errorf("DocumentElement().TagName() = %q, want html", got)
	}
}

func TestCreateElementInvalidName(t *testing.T) {
	doc := NewDocument()
	for _, name := range []string{"", "1div", "di v", "<p>"} {
		_, err := doc.CreateElement(name)
		if !errors.Is(err, ErrInvalidCharacter) {
			t.Errorf("CreateElement(%q) error = %v, want ErrInvalidCharacter", name, err)
		}
	}
}

func TestCreateElementLowercasesHTML(t *testing.T) {
	doc := NewDocument()
	n, err := doc.CreateElement("SPAN")
	if err != nil {
		t.Fatal(err)
	}
	if n.TagName() != "span" {
		t.Errorf("TagName() = %q, want span", n.TagName())
	}

	svg, err := doc.CreateElementNS(NamespaceSVG, "linearGradient")
	if err != nil {
		t.Fatal(err)
	}
	if svg.TagName() != "linearGradient" || svg.Namespace() != NamespaceSVG {
		t.Errorf("svg element = %s/%s", svg.Namespace(), svg.TagName())
	}
}

func TestWrapperIdentityIsStable(t *testing.T) {
	_, div := newContainer(t)
	if div.ParentNode().FirstChild() != div {
		t.Error("wrapper for the same node differs between lookups")
	}
}

func TestRemovedNodesAreNotPinned(t *testing.T) {
	doc, div := newContainer(t)
	before := len(doc.tree.nodes)

	for i := 0; i < 1000; i++ {
		text := doc.CreateTextNode("tick")
		if err := div.AppendChild(text); err != nil {
			t.Fatal(err)
		}
		text.Remove()
	}
	if got := len(doc.tree.nodes); got != before {
		t.Errorf("document wrappers = %d, want %d", got, before)
	}

	a := doc.CreateTextNode("a")
	if err := div.AppendChild(a); err != nil {
		t.Fatal(err)
	}
	if err := div.ReplaceChild(doc.CreateTextNode("b"), a); err != nil {
		t.Fatal(err)
	}
	div.SetTextContent("c")
	if got := len(doc.tree.nodes); got != before {
		t.Errorf("document wrappers after replace = %d, want %d", got, before)
	}
}

func TestDetachedSubtreeKeepsIdentity(t *testing.T) {
	doc, div := newContainer(t)
	section, _ := doc.CreateElement("section")
	span, _ := doc.CreateElement("span")
	if err := section.AppendChild(span); err != nil {
		t.Fatal(err)
	}
	if err := div.AppendChild(section); err != nil {
		t.Fatal(err)
	}
	span.Attach("key", "kept")
	span.SetProperty("value", "v")

	section.Remove()
	if section.FirstChild() != span {
		t.Error("detached subtree lost its wrappers")
	}
	if span.IsConnected() {
		t.Error("span still connected after its parent was removed")
	}

	if err := doc.Body().AppendChild(section); err != nil {
		t.Fatal(err)
	}
	got := doc.Body().LastChild().FirstChild()
	if got != span {
		t.Fatal("re-inserted subtree has new wrappers")
	}
	if got.Attached("key") != "kept" || got.Value() != "v" {
		t.Errorf("state lost: attached = %v, value = %q", got.Attached("key"), got.Value())
	}
}

func TestIsConnected(t *testing.T) {
	doc, div := newContainer(t)
	span, _ := doc.CreateElement("span")
	if span.IsConnected() {
		t.Error("detached node reports connected")
	}
	_ = div.AppendChild(span)
	if !span.IsConnected() {
		t.Error("attached node reports disconnected")
	}
	div.Remove()
	if span.IsConnected() {
		t.Error("node under removed subtree reports connected")
	}
}

func TestAppendChildRejectsCycles(t *testing.T) {
	doc, div := newContainer(t)
	span, _ := doc.CreateElement("span")
	_ = div.AppendChild(span)
	if err := span.AppendChild(div); !errors.Is(err, ErrHierarchyRequest) {
		t.Errorf("AppendChild(ancestor) error = %v, want ErrHierarchyRequest", err)
	}
	text := doc.CreateTextNode("x")
	if err := text.AppendChild(span); !errors.Is(err, ErrHierarchyRequest) {
		t.Errorf("text.AppendChild error = %v, want ErrHierarchyRequest", err)
	}
}

func TestReplaceChildKeepsPosition(t *testing.T) {
	doc, div := newContainer(t)
	a := doc.CreateTextNode("a")
	b := doc.CreateTextNode("b")
	c := doc.CreateTextNode("c")
	for _, n := range []*Node{a, b, c} {
		_ = div.AppendChild(n)
	}
	x := doc.CreateTextNode("x")
	if err := div.ReplaceChild(x, b); err != nil {
		t.Fatal(err)
	}
	if got := div.TextContent(); got != "axc" {
		t.Errorf("TextContent() = %q, want axc", got)
	}
	if b.ParentNode() != nil {
		t.Error("replaced node still attached")
	}
}

func TestAttributesAndWrites(t *testing.T) {
	doc, div := newContainer(t)
	if err := div.SetAttribute("Class", "card"); err != nil {
		t.Fatal(err)
	}
	if v, ok := div.GetAttribute("class"); !ok || v != "card" {
		t.Errorf("GetAttribute(class) = %q, %v", v, ok)
	}
	if err := div.SetAttribute("bad name", "x"); !errors.Is(err, ErrInvalidCharacter) {
		t.Errorf("SetAttribute(bad name) error = %v", err)
	}
	div.RemoveAttribute("class")
	if div.HasAttribute("class") {
		t.Error("attribute still present after RemoveAttribute")
	}
	if doc.WritesOf(OpSetAttribute) != 1 || doc.WritesOf(OpRemoveAttribute) != 1 {
		t.Errorf("attribute writes = %d/%d, want 1/1",
			doc.WritesOf(OpSetAttribute), doc.WritesOf(OpRemoveAttribute))
	}
	if doc.StructuralWrites() != 0 {
		t.Errorf("StructuralWrites() = %d, want 0", doc.StructuralWrites())
	}
}

func TestStructuralWritesIgnoreText(t *testing.T) {
	doc, div := newContainer(t)
	_ = div.AppendChild(doc.CreateTextNode("hello"))
	if doc.StructuralWrites() != 0 {
		t.Errorf("StructuralWrites() = %d after text append, want 0", doc.StructuralWrites())
	}
	span, _ := doc.CreateElement("span")
	_ = div.AppendChild(span)
	if doc.StructuralWrites() != 2 {
		t.Errorf("StructuralWrites() = %d, want 2 (create + insert)", doc.StructuralWrites())
	}
}

func TestObserve(t *testing.T) {
	doc, div := newContainer(t)
	var ops []WriteOp
	doc.Observe(func(w Write) { ops = append(ops, w.Op) })
	div.SetTextContent("hi")
	div.SetProperty("value", "v")
	if len(ops) != 2 || ops[0] != OpSetText || ops[1] != OpSetProperty {
		t.Errorf("observed %v", ops)
	}
}

func TestDispatchEventBubbles(t *testing.T) {
	doc, div := newContainer(t)
	button, _ := doc.CreateElement("button")
	_ = div.AppendChild(button)

	var order []string
	button.SetHandler("click", func(e *Event) error {
		order = append(order, "button")
		return nil
	})
	div.AddEventListener("click", func(e *Event) error {
		order = append(order, "div")
		if e.Target != button {
			t.Errorf("Target = %v, want button", e.Target)
		}
		return nil
	})
	if err := button.Click(); err != nil {
		t.Fatal(err)
	}
	if len(order) != 2 || order[0] != "button" || order[1] != "div" {
		t.Errorf("order = %v", order)
	}
}

func TestSetHandlerReplaces(t *testing.T) {
	_, div := newContainer(t)
	calls := 0
	div.SetHandler("click", func(*Event) error { calls += 10; return nil })
	div.SetHandler("click", func(*Event) error { calls++; return nil })
	_ = div.Click()
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestInputSetsValue(t *testing.T) {
	doc, div := newContainer(t)
	input, _ := doc.CreateElement("input")
	_ = input.SetAttribute("value", "initial")
	_ = div.AppendChild(input)
	if input.Value() != "initial" {
		t.Errorf("Value() = %q, want attribute fallback", input.Value())
	}
	_ = input.Input("typed")
	if input.Value() != "typed" {
		t.Errorf("Value() = %q, want typed", input.Value())
	}
	if v, _ := input.GetAttribute("value"); v != "initial" {
		t.Errorf("attribute changed to %q", v)
	}
}

func TestQuerySelector(t *testing.T) {
	doc, div := newContainer(t)
	_ = div.SetAttribute("id", "unique")
	if err := div.SetInnerHTML(`<p class="x">one</p><p class="x">two</p>`); err != nil {
		t.Fatal(err)
	}
	got, err := doc.QuerySelector("#unique")
	if err != nil || got != div {
		t.Fatalf("QuerySelector(#unique) = %v, %v", got, err)
	}
	all, err := doc.QuerySelectorAll("#unique .x")
	if err != nil || len(all) != 2 {
		t.Fatalf("QuerySelectorAll = %d, %v", len(all), err)
	}
	if all[1].TextContent() != "two" {
		t.Errorf("second match = %q", all[1].TextContent())
	}
	if _, err := doc.QuerySelector("[["); !errors.Is(err, ErrSyntax) {
		t.Errorf("invalid selector error = %v", err)
	}
	missing, err := doc.QuerySelector("#nope")
	if err != nil || missing != nil {
		t.Errorf("QuerySelector(#nope) = %v, %v", missing, err)
	}
}

func TestWindowDispatch(t *testing.T) {
	w := NewWindow()
	var got any
	w.AddEventListener("custom", func(e *Event) error {
		got = e.Detail
		return nil
	})
	if err := w.DispatchEvent(NewCustomEvent("custom", 42)); err != nil {
		t.Fatal(err)
	}
	if got != 42 {
		t.Errorf("Detail = %v, want 42", got)
	}
	if w.ListenerCount("custom") != 1 {
		t.Errorf("ListenerCount = %d", w.ListenerCount("custom"))
	}
}

func TestAttachIsNotAWrite(t *testing.T) {
	doc, div := newContainer(t)
	type key struct{}
	div.Attach(key{}, "value")
	if div.Attached(key{}) != "value" {
		t.Errorf("Attached = %v", div.Attached(key{}))
	}
	div.Attach(key{}, nil)
	if div.Attached(key{}) != nil {
		t.Error("Attach(nil) did not clear")
	}
	if doc.Writes() != 0 {
		t.Errorf("Writes() = %d, want 0", doc.Writes())
	}
}
