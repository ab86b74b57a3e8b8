package dom

import (
	"errors"
	"strings"

	"golang.org/x/net/html"
)

// NodeType is the node type discriminator.
type NodeType uint8

const (
	ElementNode  NodeType = iota // <div>, <span>, etc.
	TextNode                     // character data
	DocumentNode                 // the document itself
	CommentNode                  // <!-- ... -->
	OtherNode                    // doctype and anything else
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case DocumentNode:
		return "Document"
	case CommentNode:
		return "Comment"
	default:
		return "Other"
	}
}

// Attribute is a single attribute of an element.
type Attribute struct {
	Key   string
	Value string
}

// Node is a live host node. Wrappers are stable: the same underlying node
// is always represented by the same *Node, so pointer equality is identity.
type Node struct {
	raw  *html.Node
	doc  *Document
	tree *tree

	props     map[string]any
	handlers  map[string]Listener
	listeners map[string][]Listener
	attached  map[any]any
}

// Type returns the node type.
func (n *Node) Type() NodeType {
	switch n.raw.Type {
	case html.ElementNode:
		return ElementNode
	case html.TextNode:
		return TextNode
	case html.DocumentNode:
		return DocumentNode
	case html.CommentNode:
		return CommentNode
	default:
		return OtherNode
	}
}

// OwnerDocument returns the document that created the node.
func (n *Node) OwnerDocument() *Document {
	return n.doc
}

// TagName returns the element's tag name, or "" for non-elements.
func (n *Node) TagName() string {
	if n.raw.Type != html.ElementNode {
		return ""
	}
	return n.raw.Data
}

// NodeName returns the tag name for elements and "#text", "#comment" or
// "#document" otherwise.
func (n *Node) NodeName() string {
	switch n.raw.Type {
	case html.ElementNode:
		return n.raw.Data
	case html.TextNode:
		return "#text"
	case html.CommentNode:
		return "#comment"
	case html.DocumentNode:
		return "#document"
	default:
		return "#other"
	}
}

// Namespace returns the element namespace ("" for HTML).
func (n *Node) Namespace() string {
	return n.raw.Namespace
}

// Data returns the character data of a text or comment node.
func (n *Node) Data() string {
	return n.raw.Data
}

// ParentNode returns the parent, or nil when detached.
func (n *Node) ParentNode() *Node {
	return n.wrap(n.raw.Parent)
}

// FirstChild returns the first child node, or nil.
func (n *Node) FirstChild() *Node {
	return n.wrap(n.raw.FirstChild)
}

// LastChild returns the last child node, or nil.
func (n *Node) LastChild() *Node {
	return n.wrap(n.raw.LastChild)
}

// NextSibling returns the following sibling, or nil.
func (n *Node) NextSibling() *Node {
	return n.wrap(n.raw.NextSibling)
}

// PreviousSibling returns the preceding sibling, or nil.
func (n *Node) PreviousSibling() *Node {
	return n.wrap(n.raw.PrevSibling)
}

// ChildNodes returns all children, text included.
func (n *Node) ChildNodes() []*Node {
	var out []*Node
	for c := n.raw.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, n.wrap(c))
	}
	return out
}

// Children returns the element children only.
func (n *Node) Children() []*Node {
	var out []*Node
	for c := n.raw.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, n.wrap(c))
		}
	}
	return out
}

// ChildCount returns the number of child nodes, text included.
func (n *Node) ChildCount() int {
	count := 0
	for c := n.raw.FirstChild; c != nil; c = c.NextSibling {
		count++
	}
	return count
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	if other == nil {
		return false
	}
	for p := other.raw; p != nil; p = p.Parent {
		if p == n.raw {
			return true
		}
	}
	return false
}

// IsConnected reports whether the node is reachable from its document.
func (n *Node) IsConnected() bool {
	for p := n.raw; p != nil; p = p.Parent {
		if p == n.doc.root {
			return true
		}
	}
	return false
}

// TextContent returns the concatenated text of the node and its descendants.
func (n *Node) TextContent() string {
	if n.raw.Type == html.TextNode || n.raw.Type == html.CommentNode {
		return n.raw.Data
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(r *html.Node) {
		for c := r.FirstChild; c != nil; c = c.NextSibling {
			switch c.Type {
			case html.TextNode:
				b.WriteString(c.Data)
			case html.ElementNode:
				walk(c)
			}
		}
	}
	walk(n.raw)
	return b.String()
}

// SetTextContent replaces the node's data (text nodes) or all of its
// children with a single text node (elements). An empty string leaves an
// element with no children.
func (n *Node) SetTextContent(text string) {
	if n.raw.Type == html.TextNode || n.raw.Type == html.CommentNode {
		n.raw.Data = text
		n.doc.record(OpSetText, n)
		return
	}
	n.detachChildren()
	if text != "" {
		n.raw.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
	n.doc.record(OpSetText, n)
}

// ClearChildren removes all children. It is recorded as a single text write,
// the same as assigning an empty text content.
func (n *Node) ClearChildren() {
	if n.raw.FirstChild == nil {
		return
	}
	n.SetTextContent("")
}

func (n *Node) detachChildren() {
	for c := n.raw.FirstChild; c != nil; {
		next := c.NextSibling
		n.raw.RemoveChild(c)
		n.tree.move(c, newTree())
		c = next
	}
}

// wrap returns the wrapper of raw, which must be in the same tree as n.
func (n *Node) wrap(raw *html.Node) *Node {
	return n.tree.wrap(n.doc, raw)
}

// adopt moves the wrappers of a freshly inserted child into n's tree.
func (n *Node) adopt(child *Node) {
	child.tree.move(child.raw, n.tree)
}

func (n *Node) checkInsert(child *Node) error {
	if child == nil || child.doc != n.doc {
		return &DOMError{Err: ErrHierarchyRequest, Op: "insert"}
	}
	if n.raw.Type != html.ElementNode && n.raw.Type != html.DocumentNode {
		return &DOMError{Err: ErrHierarchyRequest, Op: "insert", Name: n.NodeName()}
	}
	if child.Contains(n) {
		return &DOMError{Err: ErrHierarchyRequest, Op: "insert", Name: child.NodeName()}
	}
	return nil
}

// detach unlinks n from its parent and gives its subtree a tree of its own.
func (n *Node) detach() {
	if n.raw.Parent != nil {
		n.raw.Parent.RemoveChild(n.raw)
		n.tree.move(n.raw, newTree())
	}
}

// AppendChild appends child, moving it if it is already in the tree.
func (n *Node) AppendChild(child *Node) error {
	if err := n.checkInsert(child); err != nil {
		return err
	}
	child.detach()
	n.raw.AppendChild(child.raw)
	n.adopt(child)
	n.doc.record(OpInsert, child)
	return nil
}

// InsertBefore inserts child before ref. A nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) error {
	if ref == nil {
		return n.AppendChild(child)
	}
	if ref.raw.Parent != n.raw {
		return &DOMError{Err: ErrNotFound, Op: "insertBefore"}
	}
	if err := n.checkInsert(child); err != nil {
		return err
	}
	if child == ref {
		return nil
	}
	child.detach()
	n.raw.InsertBefore(child.raw, ref.raw)
	n.adopt(child)
	n.doc.record(OpInsert, child)
	return nil
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) error {
	if child == nil || child.raw.Parent != n.raw {
		return &DOMError{Err: ErrNotFound, Op: "removeChild"}
	}
	child.detach()
	n.doc.record(OpRemove, child)
	return nil
}

// ReplaceChild puts replacement where old is and detaches old.
func (n *Node) ReplaceChild(replacement, old *Node) error {
	if old == nil || old.raw.Parent != n.raw {
		return &DOMError{Err: ErrNotFound, Op: "replaceChild"}
	}
	if err := n.checkInsert(replacement); err != nil {
		return err
	}
	if replacement == old {
		return nil
	}
	replacement.detach()
	n.raw.InsertBefore(replacement.raw, old.raw)
	n.adopt(replacement)
	old.detach()
	n.doc.record(OpReplace, replacement)
	return nil
}

// Remove detaches the node from its parent, if any.
func (n *Node) Remove() {
	if p := n.ParentNode(); p != nil {
		_ = p.RemoveChild(n)
	}
}

func (n *Node) attrKey(key string) string {
	if n.raw.Namespace == NamespaceHTML {
		return strings.ToLower(key)
	}
	return key
}

// GetAttribute returns the attribute value and whether it is present.
func (n *Node) GetAttribute(key string) (string, bool) {
	key = n.attrKey(key)
	for _, a := range n.raw.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttribute reports whether the attribute is present.
func (n *Node) HasAttribute(key string) bool {
	_, ok := n.GetAttribute(key)
	return ok
}

// SetAttribute writes an attribute.
func (n *Node) SetAttribute(key, value string) error {
	if n.raw.Type != html.ElementNode {
		return &DOMError{Err: ErrHierarchyRequest, Op: "setAttribute", Name: n.NodeName()}
	}
	if !validName(key) {
		return &DOMError{Err: ErrInvalidCharacter, Op: "setAttribute", Name: key}
	}
	key = n.attrKey(key)
	for i, a := range n.raw.Attr {
		if a.Namespace == "" && a.Key == key {
			n.raw.Attr[i].Val = value
			n.doc.record(OpSetAttribute, n)
			return nil
		}
	}
	n.raw.Attr = append(n.raw.Attr, html.Attribute{Key: key, Val: value})
	n.doc.record(OpSetAttribute, n)
	return nil
}

// RemoveAttribute deletes an attribute if present.
func (n *Node) RemoveAttribute(key string) {
	key = n.attrKey(key)
	for i, a := range n.raw.Attr {
		if a.Namespace == "" && a.Key == key {
			n.raw.Attr = append(n.raw.Attr[:i], n.raw.Attr[i+1:]...)
			n.doc.record(OpRemoveAttribute, n)
			return
		}
	}
}

// Attributes returns a copy of the element's attributes in source order.
func (n *Node) Attributes() []Attribute {
	out := make([]Attribute, 0, len(n.raw.Attr))
	for _, a := range n.raw.Attr {
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + ":" + a.Key
		}
		out = append(out, Attribute{Key: key, Value: a.Val})
	}
	return out
}

// Property returns a live property and whether it was ever set.
func (n *Node) Property(key string) (any, bool) {
	v, ok := n.props[key]
	return v, ok
}

// SetProperty writes a live property. Properties are not reflected in the
// markup, like an input's current value in a browser.
func (n *Node) SetProperty(key string, value any) {
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[key] = value
	n.doc.record(OpSetProperty, n)
}

// Value returns the live "value" property, falling back to the attribute.
func (n *Node) Value() string {
	if v, ok := n.props["value"]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	v, _ := n.GetAttribute("value")
	return v
}

// Attach stores an arbitrary value on the node under key. Attachments are
// not part of the tree and are not counted as writes.
func (n *Node) Attach(key, value any) {
	if n.attached == nil {
		n.attached = make(map[any]any)
	}
	if value == nil {
		delete(n.attached, key)
		return
	}
	n.attached[key] = value
}

// Attached returns the value stored under key, or nil.
func (n *Node) Attached(key any) any {
	return n.attached[key]
}

// SetHandler installs the inline handler for an event type, replacing any
// previous one, the way assigning element.onclick does. A nil listener
// removes it.
func (n *Node) SetHandler(typ string, l Listener) {
	if l == nil {
		delete(n.handlers, typ)
		return
	}
	if n.handlers == nil {
		n.handlers = make(map[string]Listener)
	}
	n.handlers[typ] = l
}

// Handler returns the inline handler for an event type, or nil.
func (n *Node) Handler(typ string) Listener {
	return n.handlers[typ]
}

// HandlerTypes returns the event types with an inline handler installed.
func (n *Node) HandlerTypes() []string {
	out := make([]string, 0, len(n.handlers))
	for typ := range n.handlers {
		out = append(out, typ)
	}
	return out
}

// AddEventListener implements EventTarget.
func (n *Node) AddEventListener(typ string, l Listener) {
	if l == nil {
		return
	}
	if n.listeners == nil {
		n.listeners = make(map[string][]Listener)
	}
	n.listeners[typ] = append(n.listeners[typ], l)
}

// DispatchEvent implements EventTarget. The inline handler runs before added
// listeners on each node; bubbling events continue to the ancestors.
func (n *Node) DispatchEvent(e *Event) error {
	if e.Target == nil {
		e.Target = n
	}
	var errs []error
	for cur := n; cur != nil; cur = cur.ParentNode() {
		e.CurrentTarget = cur
		if h := cur.handlers[e.Type]; h != nil {
			if err := h(e); err != nil {
				errs = append(errs, err)
			}
		}
		for _, l := range append([]Listener(nil), cur.listeners[e.Type]...) {
			if err := l(e); err != nil {
				errs = append(errs, err)
			}
		}
		if !e.Bubbles || e.stopped {
			break
		}
	}
	e.CurrentTarget = nil
	return errors.Join(errs...)
}

// Click dispatches a bubbling click event.
func (n *Node) Click() error {
	return n.DispatchEvent(NewEvent("click"))
}

// Input sets the live value and dispatches a bubbling input event.
func (n *Node) Input(value string) error {
	n.SetProperty("value", value)
	return n.DispatchEvent(NewEvent("input"))
}

// QuerySelector returns the first descendant-or-self element matching sel.
func (n *Node) QuerySelector(sel string) (*Node, error) {
	s, err := compileSelector(sel)
	if err != nil {
		return nil, err
	}
	return n.wrap(s.MatchFirst(n.raw)), nil
}

// QuerySelectorAll returns every descendant-or-self element matching sel.
func (n *Node) QuerySelectorAll(sel string) ([]*Node, error) {
	s, err := compileSelector(sel)
	if err != nil {
		return nil, err
	}
	matches := s.MatchAll(n.raw)
	out := make([]*Node, 0, len(matches))
	for _, m := range matches {
		out = append(out, n.wrap(m))
	}
	return out, nil
}
