package morph

import (
	"strings"

	merrors "github.com/morphonent/morphonent/internal/errors"
	"github.com/morphonent/morphonent/pkg/dom"
	"github.com/morphonent/morphonent/pkg/registry"
)

// hydrate adopts server-rendered markup under root. Every element carrying
// the marker is registered under the id it names and loses the marker. Text
// is adopted when it follows a "<!--marker=id-->" comment. A marked element
// with nothing annotated inside has its contents cleared: they are rebuilt
// by the first render. Without text markers only element-only or text-only
// content hydrates cleanly: unmarked text next to marked elements is kept
// and the first render appends it again. It returns the number of nodes
// registered.
func (e *Engine) hydrate(reg *registry.Registry, root *dom.Node) int {
	count := 0
	var walk func(n *dom.Node) bool
	walk = func(n *dom.Node) bool {
		raw, ok := n.GetAttribute(e.marker)
		if !ok {
			return false
		}
		n.RemoveAttribute(e.marker)

		id, err := e.parseMarker(raw)
		if err != nil {
			return false
		}
		reg.Set(id, n)
		registry.Stamp(n, id)
		count++

		annotated := false
		for _, child := range n.ChildNodes() {
			switch child.Type() {
			case dom.ElementNode:
				if walk(child) {
					annotated = true
				}
			case dom.CommentNode:
				if e.adoptText(reg, n, child) {
					annotated = true
					count++
				}
			}
		}
		if !annotated {
			n.ClearChildren()
		}
		return true
	}
	walk(root)
	return count
}

// adoptText registers the text node following a text marker comment and
// drops the comment.
func (e *Engine) adoptText(reg *registry.Registry, parent, comment *dom.Node) bool {
	raw, ok := strings.CutPrefix(comment.Data(), e.marker+"=")
	if !ok {
		return false
	}
	text := comment.NextSibling()
	_ = parent.RemoveChild(comment)
	if text == nil || text.Type() != dom.TextNode {
		return false
	}
	id, err := e.parseMarker(raw)
	if err != nil {
		return false
	}
	reg.Set(id, text)
	registry.Stamp(text, id)
	return true
}

func (e *Engine) parseMarker(raw string) (registry.ID, error) {
	id, err := registry.Parse(raw)
	if err != nil {
		e.logger.Warn("hydration marker ignored",
			"marker", raw,
			"error", merrors.New("E040").WithTarget(raw).Wrap(err),
		)
	}
	return id, err
}
