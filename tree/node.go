package tree

import (
	"fmt"
	"strings"
)

// Kind tells which variant of Node is active.
type Kind int

const (
	// Leaf nodes predict a constant class
	Leaf Kind = iota
	// Inner nodes route rows to their branches with a Classifier
	Inner
	// Sentinel nodes delegate prediction to a Model
	Sentinel
)

func (k Kind) String() string {
	switch k {
	case Leaf:
		return "leaf"
	case Inner:
		return "inner"
	case Sentinel:
		return "sentinel"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

/*
Node is a node of the tree. Exactly one variant is active, as told by Kind:
  - Leaf: Class is the prediction.
  - Inner: Test picks a branch among Outcomes() slots. A slot left unset when
    the build is over resolves to Default.
  - Sentinel: the wrapped Model predicts, no further descent happens.
*/
type Node struct {
	kind     Kind
	class    int
	test     Classifier
	def      int
	model    Model
	branches []*Node
}

// NewLeaf returns a leaf predicting class.
func NewLeaf(class int) *Node {
	return &Node{kind: Leaf, class: class}
}

// NewInner returns an inner node with as many unset branch slots as
// test.Outcomes(), falling back on class def for unset slots.
func NewInner(test Classifier, def int) *Node {
	return &Node{kind: Inner, test: test, def: def, branches: make([]*Node, test.Outcomes())}
}

// NewSentinel returns a node that hands prediction over to m.
func NewSentinel(m Model) *Node {
	return &Node{kind: Sentinel, model: m}
}

// Kind returns the active variant of the node.
func (n *Node) Kind() Kind { return n.kind }

// Class returns the class predicted by a leaf.
func (n *Node) Class() int { return n.class }

// Test returns the classifier of an inner node.
func (n *Node) Test() Classifier { return n.test }

// Default returns the class an inner node predicts for unset branches.
func (n *Node) Default() int { return n.def }

// Model returns the model wrapped by a sentinel.
func (n *Node) Model() Model { return n.model }

// Outcomes returns the number of branch slots of the node.
func (n *Node) Outcomes() int { return len(n.branches) }

// Branch returns the node in slot i, nil if the slot is unset.
func (n *Node) Branch(i int) *Node { return n.branches[i] }

/*
SetBranch assigns child to slot i. Each slot can be assigned once: assigning
a set slot, a slot out of range, a nil child or a slot of a node that is not
Inner is a bug in the caller and panics.
Different slots of the same node may be assigned from different goroutines.
*/
func (n *Node) SetBranch(i int, child *Node) {
	if n.kind != Inner {
		panic(fmt.Sprintf("tree: SetBranch on %v node", n.kind))
	}
	if i < 0 || i >= len(n.branches) {
		panic(fmt.Sprintf("tree: branch %d out of range [0, %d)", i, len(n.branches)))
	}
	if child == nil {
		panic("tree: SetBranch with nil node")
	}
	if n.branches[i] != nil {
		panic(fmt.Sprintf("tree: branch %d of %v already set", i, n.test))
	}
	n.branches[i] = child
}

// String returns the nested textual form of the subtree under n, e.g.
// "(col0 <= 2.5 (leaf 0) (leaf 1))". Unset slots print as "-".
func (n *Node) String() string {
	var sb strings.Builder
	n.write(&sb)
	return sb.String()
}

func (n *Node) write(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("-")
		return
	}
	switch n.kind {
	case Leaf:
		fmt.Fprintf(sb, "(leaf %d)", n.class)
	case Sentinel:
		fmt.Fprintf(sb, "(sentinel %T)", n.model)
	case Inner:
		fmt.Fprintf(sb, "(%v", n.test)
		for _, b := range n.branches {
			sb.WriteString(" ")
			b.write(sb)
		}
		sb.WriteString(")")
	default:
		fmt.Fprintf(sb, "(%v)", n.kind)
	}
}
