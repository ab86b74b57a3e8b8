package dom

import (
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Well-known namespaces accepted by CreateElementNS.
const (
	NamespaceHTML   = ""
	NamespaceSVG    = "svg"
	NamespaceMathML = "math"
)

const blankDocument = "<!DOCTYPE html><html><head></head><body></body></html>"

// Document owns a host tree and every Node wrapper handed out for it.
type Document struct {
	root      *html.Node
	tree      *tree
	stats     writeStats
	observers []WriteObserver
}

// NewDocument creates an empty HTML document with a head and a body.
func NewDocument() *Document {
	d, err := Parse(strings.NewReader(blankDocument))
	if err != nil {
		// The blank document is a constant; failing to parse it is a bug.
		panic(fmt.Sprintf("dom: parse blank document: %v", err))
	}
	return d
}

// Parse reads a complete HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return &Document{root: root, tree: newTree()}, nil
}

// wrap returns the stable wrapper for a node connected to the document.
func (d *Document) wrap(raw *html.Node) *Node {
	return d.tree.wrap(d, raw)
}

// tree indexes the wrappers of one connected piece of the host tree: the
// document itself or a detached subtree. A wrapper points at its tree, so a
// detached subtree and its wrappers are collected together once nothing
// references any of them.
type tree struct {
	nodes map[*html.Node]*Node
}

func newTree() *tree {
	return &tree{nodes: make(map[*html.Node]*Node)}
}

func (t *tree) wrap(d *Document, raw *html.Node) *Node {
	if raw == nil {
		return nil
	}
	if n, ok := t.nodes[raw]; ok {
		return n
	}
	n := &Node{raw: raw, doc: d, tree: t}
	t.nodes[raw] = n
	return n
}

// move transfers the wrappers of raw and its descendants to dst.
func (t *tree) move(raw *html.Node, dst *tree) {
	if t == dst {
		return
	}
	var walk func(*html.Node)
	walk = func(r *html.Node) {
		if n, ok := t.nodes[r]; ok {
			delete(t.nodes, r)
			dst.nodes[r] = n
			n.tree = dst
		}
		for c := r.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(raw)
}

// Root returns the document node.
func (d *Document) Root() *Node {
	return d.wrap(d.root)
}

// DocumentElement returns the <html> element.
func (d *Document) DocumentElement() *Node {
	return d.findElement(d.root, atom.Html)
}

// Head returns the <head> element.
func (d *Document) Head() *Node {
	return d.findElement(d.root, atom.Head)
}

// Body returns the <body> element.
func (d *Document) Body() *Node {
	return d.findElement(d.root, atom.Body)
}

func (d *Document) findElement(raw *html.Node, a atom.Atom) *Node {
	if raw.Type == html.ElementNode && raw.DataAtom == a {
		return d.wrap(raw)
	}
	for c := raw.FirstChild; c != nil; c = c.NextSibling {
		if n := d.findElement(c, a); n != nil {
			return n
		}
	}
	return nil
}

// CreateElement creates a detached HTML element.
func (d *Document) CreateElement(tag string) (*Node, error) {
	return d.CreateElementNS(NamespaceHTML, tag)
}

// CreateElementNS creates a detached element in the given namespace. HTML
// tag names are lower-cased; foreign element names keep their case.
func (d *Document) CreateElementNS(namespace, tag string) (*Node, error) {
	if !validName(tag) {
		return nil, &DOMError{Err: ErrInvalidCharacter, Op: "createElement", Name: tag}
	}
	if namespace == NamespaceHTML {
		tag = strings.ToLower(tag)
	}
	raw := &html.Node{
		Type:      html.ElementNode,
		Data:      tag,
		DataAtom:  atom.Lookup([]byte(tag)),
		Namespace: namespace,
	}
	n := newTree().wrap(d, raw)
	d.record(OpCreate, n)
	return n, nil
}

// CreateTextNode creates a detached text node.
func (d *Document) CreateTextNode(text string) *Node {
	n := newTree().wrap(d, &html.Node{Type: html.TextNode, Data: text})
	d.record(OpCreate, n)
	return n
}

// QuerySelector returns the first element in document order matching sel,
// or nil when nothing matches.
func (d *Document) QuerySelector(sel string) (*Node, error) {
	return d.Root().QuerySelector(sel)
}

// QuerySelectorAll returns every element matching sel in document order.
func (d *Document) QuerySelectorAll(sel string) ([]*Node, error) {
	return d.Root().QuerySelectorAll(sel)
}

func compileSelector(sel string) (cascadia.Selector, error) {
	s, err := cascadia.Compile(sel)
	if err != nil {
		return nil, &DOMError{Err: ErrSyntax, Op: "querySelector", Name: sel, Cause: err}
	}
	return s, nil
}

// Render writes the whole document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// validName reports whether name is acceptable as an element or attribute
// name: a letter, underscore or colon followed by name characters.
func validName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r == '_', r == ':':
		case i > 0 && (r >= '0' && r <= '9' || r == '-' || r == '.'):
		case r > 0x7f:
		default:
			return false
		}
	}
	return true
}
