// Package registry maps path ids to live host nodes.
//
// A Registry is owned by one root host node for that node's lifetime and is
// stored on it as an attachment (see For). Entries are created and removed
// only by the reconciler; Release drops the entries of a whole detached
// subtree so stale ids never outlive their node.
package registry

import (
	"sort"

	"github.com/morphonent/morphonent/pkg/dom"
)

// Registry is an index from path id to host node. It is not safe for
// concurrent use; like the document, it is only touched from the loop.
type Registry struct {
	nodes map[ID]*dom.Node
	ids   map[*dom.Node]ID
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		nodes: make(map[ID]*dom.Node),
		ids:   make(map[*dom.Node]ID),
	}
}

type registryKey struct{}

type stampKey struct{}

// For returns the registry attached to root, creating and attaching a new one
// when absent. created reports whether it was just created.
func For(root *dom.Node) (reg *Registry, created bool) {
	if r, ok := root.Attached(registryKey{}).(*Registry); ok {
		return r, false
	}
	reg = New()
	root.Attach(registryKey{}, reg)
	return reg, true
}

// Lookup returns the registry attached to root, or nil.
func Lookup(root *dom.Node) *Registry {
	r, _ := root.Attached(registryKey{}).(*Registry)
	return r
}

// Stamp tags a node with the id it was created for.
func Stamp(n *dom.Node, id ID) {
	n.Attach(stampKey{}, id)
}

// StampOf returns the id a node was created for.
func StampOf(n *dom.Node) (ID, bool) {
	id, ok := n.Attached(stampKey{}).(ID)
	return id, ok
}

// Get returns the node registered under id, or nil.
func (r *Registry) Get(id ID) *dom.Node {
	return r.nodes[id]
}

// Set registers n under id, replacing any previous entry.
func (r *Registry) Set(id ID, n *dom.Node) {
	if prev, ok := r.nodes[id]; ok && prev != n {
		if r.ids[prev] == id {
			delete(r.ids, prev)
		}
	}
	r.nodes[id] = n
	r.ids[n] = id
}

// Delete removes the entry for id.
func (r *Registry) Delete(id ID) {
	n, ok := r.nodes[id]
	if !ok {
		return
	}
	delete(r.nodes, id)
	if r.ids[n] == id {
		delete(r.ids, n)
	}
}

// IDOf returns the id n is currently registered under.
func (r *Registry) IDOf(n *dom.Node) (ID, bool) {
	id, ok := r.ids[n]
	return id, ok
}

// Release removes every entry that points at n or at one of its
// descendants. It returns the number of entries removed.
func (r *Registry) Release(n *dom.Node) int {
	var stale []ID
	for id, cur := range r.nodes {
		if n.Contains(cur) {
			stale = append(stale, id)
		}
	}
	for _, id := range stale {
		r.Delete(id)
	}
	return len(stale)
}

// Len returns the number of entries.
func (r *Registry) Len() int {
	return len(r.nodes)
}

// IDs returns all registered ids in positional order.
func (r *Registry) IDs() []ID {
	out := make([]ID, 0, len(r.nodes))
	for id := range r.nodes {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}
