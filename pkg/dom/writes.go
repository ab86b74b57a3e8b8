package dom

// WriteOp identifies the kind of mutation applied to the document.
type WriteOp uint8

const (
	OpCreate          WriteOp = iota // node created by the document
	OpInsert                         // node appended or inserted under a parent
	OpRemove                         // node detached from its parent
	OpReplace                        // node swapped in place of another
	OpSetAttribute                   // attribute written
	OpRemoveAttribute                // attribute removed
	OpSetProperty                    // live property written
	OpSetText                        // text data or element contents replaced

	numWriteOps
)

// String returns the string representation of the WriteOp.
func (op WriteOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpInsert:
		return "insert"
	case OpRemove:
		return "remove"
	case OpReplace:
		return "replace"
	case OpSetAttribute:
		return "set_attribute"
	case OpRemoveAttribute:
		return "remove_attribute"
	case OpSetProperty:
		return "set_property"
	case OpSetText:
		return "set_text"
	default:
		return "unknown"
	}
}

// Write describes one mutation. Node is the subject: the created, inserted or
// removed node, the replacement node, or the node whose data changed.
type Write struct {
	Op   WriteOp
	Node *Node
}

// Structural reports whether the write changed the element structure of the
// tree. Text nodes coming and going do not count: they are text
// reconciliation, not structure.
func (w Write) Structural() bool {
	switch w.Op {
	case OpCreate, OpInsert, OpRemove, OpReplace:
		return w.Node != nil && w.Node.Type() == ElementNode
	}
	return false
}

// WriteObserver is notified after every write.
type WriteObserver func(Write)

type writeStats struct {
	total      int
	structural int
	byOp       [numWriteOps]int
}

func (d *Document) record(op WriteOp, n *Node) {
	w := Write{Op: op, Node: n}
	d.stats.total++
	d.stats.byOp[op]++
	if w.Structural() {
		d.stats.structural++
	}
	for _, obs := range d.observers {
		obs(w)
	}
}

// Writes returns the number of writes since the document was created or
// ResetWrites was last called.
func (d *Document) Writes() int {
	return d.stats.total
}

// StructuralWrites returns the number of element-structure writes.
func (d *Document) StructuralWrites() int {
	return d.stats.structural
}

// WritesOf returns the number of writes of the given kind.
func (d *Document) WritesOf(op WriteOp) int {
	if op >= numWriteOps {
		return 0
	}
	return d.stats.byOp[op]
}

// ResetWrites zeroes all write counters.
func (d *Document) ResetWrites() {
	d.stats = writeStats{}
}

// Observe registers an observer called after each write.
func (d *Document) Observe(obs WriteObserver) {
	if obs != nil {
		d.observers = append(d.observers, obs)
	}
}
