package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/morphonent/morphonent/pkg/dom"
	"github.com/morphonent/morphonent/pkg/morph"
	"github.com/morphonent/morphonent/pkg/registry"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Pretty output adds whitespace text and does not hydrate cleanly, so
	// it is for inspection only.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// Marker is the attribute carrying path ids.
	// Defaults to morph.DefaultMarker.
	Marker string

	// TextMarkers precedes every registered text node with a comment naming
	// its path id, so hydration can adopt text in mixed content. Without
	// them, hydration only supports element-only or text-only content.
	TextMarkers bool

	// EventMarkers adds data-on-<event>="true" to elements with handlers,
	// for clients that forward events to a live session.
	EventMarkers bool
}

// Renderer serializes live host subtrees to HTML annotated for hydration.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	if config.Marker == "" {
		config.Marker = morph.DefaultMarker
	}
	return &Renderer{config: config}
}

// Marker returns the attribute carrying path ids.
func (r *Renderer) Marker() string {
	return r.config.Marker
}

// RenderToString renders root and its subtree to a string.
func (r *Renderer) RenderToString(root *dom.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, root); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams root and its subtree to w. root is annotated as the
// hydration root; descendants are annotated with the ids they were rendered
// at.
func (r *Renderer) RenderToWriter(w io.Writer, root *dom.Node) error {
	if root == nil {
		return nil
	}
	if root.Type() != dom.ElementNode {
		return fmt.Errorf("render: root must be an element, got %s", root.Type())
	}
	return r.renderElement(w, root, 0, registry.Root())
}

// RenderChildren streams the children of root without root itself.
func (r *Renderer) RenderChildren(w io.Writer, root *dom.Node) error {
	if root == nil {
		return nil
	}
	for _, child := range root.ChildNodes() {
		if err := r.renderNode(w, child, 0); err != nil {
			return err
		}
	}
	return nil
}

// renderNode dispatches rendering based on node type.
func (r *Renderer) renderNode(w io.Writer, n *dom.Node, depth int) error {
	switch n.Type() {
	case dom.ElementNode:
		id, _ := registry.StampOf(n)
		return r.renderElement(w, n, depth, id)
	case dom.TextNode:
		return r.renderText(w, n, false)
	case dom.CommentNode:
		_, err := fmt.Fprintf(w, "<!--%s-->", n.Data())
		return err
	default:
		return r.RenderChildren(w, n)
	}
}

// renderElement renders an element with its attributes and children. An
// empty id leaves the element unannotated.
func (r *Renderer) renderElement(w io.Writer, n *dom.Node, depth int, id registry.ID) error {
	tag := n.TagName()

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, n); err != nil {
		return err
	}
	if id != "" {
		if _, err := fmt.Fprintf(w, ` %s="%s"`, r.config.Marker, escapeAttr(id.String())); err != nil {
			return err
		}
	}
	if r.config.EventMarkers {
		if err := r.renderEventMarkers(w, n); err != nil {
			return err
		}
	}
	if _, err := w.Write([]byte{'>'}); err != nil {
		return err
	}

	if isVoidElement(tag) {
		if r.config.Pretty {
			w.Write([]byte{'\n'})
		}
		return nil
	}

	children := n.ChildNodes()
	block := r.config.Pretty && len(children) > 0 && !isInlineElement(tag)
	if block {
		w.Write([]byte{'\n'})
	}

	raw := isRawTextElement(tag)
	for _, child := range children {
		var err error
		if child.Type() == dom.TextNode {
			err = r.renderText(w, child, raw)
		} else {
			err = r.renderNode(w, child, depth+1)
		}
		if err != nil {
			return err
		}
	}

	if block {
		r.writeIndent(w, depth)
	}
	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	if r.config.Pretty {
		w.Write([]byte{'\n'})
	}
	return nil
}

// renderText renders a text node, preceded by its marker comment when text
// markers are enabled.
func (r *Renderer) renderText(w io.Writer, n *dom.Node, raw bool) error {
	if r.config.TextMarkers && !raw {
		if id, ok := registry.StampOf(n); ok && n.Data() != "" {
			if _, err := fmt.Fprintf(w, "<!--%s=%s-->", r.config.Marker, id); err != nil {
				return err
			}
		}
	}
	text := n.Data()
	if !raw {
		text = escapeText(text)
	}
	_, err := io.WriteString(w, text)
	return err
}

// renderAttributes renders the element's attributes sorted by name. The
// live value property wins over the value attribute, and stale markers are
// dropped.
func (r *Renderer) renderAttributes(w io.Writer, n *dom.Node) error {
	attrs := make(map[string]string)
	for _, a := range n.Attributes() {
		if a.Key == r.config.Marker {
			continue
		}
		attrs[a.Key] = a.Value
	}
	if v, ok := n.Property("value"); ok {
		attrs["value"] = fmt.Sprint(v)
	}

	keys := make([]string, 0, len(attrs))
	for key := range attrs {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := attrs[key]
		if isBooleanAttr(key) {
			switch value {
			case "false":
				continue
			case "", "true", key:
				if _, err := fmt.Fprintf(w, " %s", key); err != nil {
					return err
				}
				continue
			}
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, key, escapeAttr(value)); err != nil {
			return err
		}
	}
	return nil
}

// renderEventMarkers marks the events the element has handlers for.
func (r *Renderer) renderEventMarkers(w io.Writer, n *dom.Node) error {
	types := n.HandlerTypes()
	sort.Strings(types)
	for _, typ := range types {
		if _, err := fmt.Fprintf(w, ` data-on-%s="true"`, strings.ToLower(typ)); err != nil {
			return err
		}
	}
	return nil
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		io.WriteString(w, r.config.Indent)
	}
}
