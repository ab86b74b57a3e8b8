package morph

import (
	"strings"

	"github.com/morphonent/morphonent/pkg/component"
	"github.com/morphonent/morphonent/pkg/dom"
	"github.com/morphonent/morphonent/pkg/registry"
)

// reconcileText makes the node at id a text node reading text. An existing
// node is replaced in place only when its text differs.
func (e *Engine) reconcileText(reg *registry.Registry, parent *dom.Node, text string, id registry.ID) error {
	// A position that used to hold a list loses its entries.
	e.shrink(reg, parent, id, 0)

	existing := reg.Get(id)
	if existing != nil && existing.Type() == dom.TextNode && existing.TextContent() == text {
		return nil
	}

	node := parent.OwnerDocument().CreateTextNode(text)
	registry.Stamp(node, id)

	if existing != nil {
		if host := existing.ParentNode(); host != nil {
			if err := host.ReplaceChild(node, existing); err != nil {
				return err
			}
			reg.Release(existing)
			reg.Set(id, node)
			return nil
		}
		reg.Release(existing)
	}
	if err := parent.AppendChild(node); err != nil {
		return err
	}
	reg.Set(id, node)
	return nil
}

// reconcileElement makes the node at id an element matching el, reusing the
// registered node when it is still under root and has the same tag.
func (e *Engine) reconcileElement(root *dom.Node, reg *registry.Registry, parent *dom.Node, el *component.Element, id registry.ID) error {
	e.shrink(reg, parent, id, 0)

	node := reg.Get(id)
	var anchor *dom.Node

	switch {
	case node == nil:
	case !root.Contains(node):
		// Detached by someone else: forget it and build afresh.
		e.discard(reg, node)
		node = nil
	case !sameTag(node, el):
		if node.ParentNode() == parent {
			anchor = node.NextSibling()
		}
		e.discard(reg, node)
		node = nil
	}

	if node == nil {
		created, err := parent.OwnerDocument().CreateElementNS(el.Namespace, el.Name)
		if err != nil {
			return err
		}
		registry.Stamp(created, id)
		if err := parent.InsertBefore(created, anchor); err != nil {
			return err
		}
		reg.Set(id, created)
		node = created
	}

	if err := e.applyProps(root, node, el.Props); err != nil {
		return err
	}
	return e.resolve(root, reg, node, component.List(el.Children), id)
}

func sameTag(node *dom.Node, el *component.Element) bool {
	return node.Type() == dom.ElementNode &&
		node.Namespace() == el.Namespace &&
		strings.EqualFold(node.TagName(), el.Name)
}

// applyProps writes props onto node. Event props install inline handlers,
// "value" goes to the live property, everything else is an attribute.
// Nothing is written when the node already holds the value.
func (e *Engine) applyProps(root, node *dom.Node, props component.Props) error {
	for _, p := range props {
		if component.IsEventProp(p.Key) {
			if l, ok := e.listener(root, p.Value); ok {
				node.SetHandler(component.EventName(p.Key), l)
				continue
			}
		}

		s := component.PropString(p.Value)
		if p.Key == "value" {
			if cur, ok := node.Property("value"); !ok || cur != s {
				node.SetProperty("value", s)
			}
			continue
		}
		if cur, ok := node.GetAttribute(p.Key); !ok || cur != s {
			if err := node.SetAttribute(p.Key, s); err != nil {
				return err
			}
		}
	}
	return nil
}

// shrink removes the children of parent that sit at positions of list id
// beyond count, along with their registry entries.
func (e *Engine) shrink(reg *registry.Registry, parent *dom.Node, id registry.ID, count int) {
	for _, child := range parent.ChildNodes() {
		stamp, ok := registry.StampOf(child)
		if !ok {
			continue
		}
		if slot, ok := stamp.SlotUnder(id); ok && slot >= count {
			e.discard(reg, child)
		}
	}
}

// discard detaches node and forgets every position inside it.
func (e *Engine) discard(reg *registry.Registry, node *dom.Node) {
	node.Remove()
	reg.Release(node)
}
