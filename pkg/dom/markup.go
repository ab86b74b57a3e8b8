package dom

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// SetInnerHTML replaces the element's children with the parsed markup.
func (n *Node) SetInnerHTML(markup string) error {
	if n.raw.Type != html.ElementNode {
		return &DOMError{Err: ErrHierarchyRequest, Op: "innerHTML", Name: n.NodeName()}
	}
	parsed, err := html.ParseFragment(strings.NewReader(markup), n.raw)
	if err != nil {
		return &DOMError{Err: ErrSyntax, Op: "innerHTML", Cause: err}
	}
	for _, c := range n.ChildNodes() {
		_ = n.RemoveChild(c)
	}
	for _, raw := range parsed {
		n.raw.AppendChild(raw)
		n.doc.record(OpInsert, n.wrap(raw))
	}
	return nil
}

// InnerHTML serializes the node's children.
func (n *Node) InnerHTML() string {
	var buf bytes.Buffer
	for c := n.raw.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return fmt.Sprintf("<!-- %v -->", err)
		}
	}
	return buf.String()
}

// OuterHTML serializes the node itself. Live properties, handlers and
// attachments are not part of the output.
func (n *Node) OuterHTML() string {
	var buf bytes.Buffer
	if err := html.Render(&buf, n.raw); err != nil {
		return fmt.Sprintf("<!-- %v -->", err)
	}
	return buf.String()
}
