package tree

import (
	"context"
	"fmt"

	"github.com/pbanos/grove/view"
)

// Tree is a classification tree. Its root is set once, and its nodes do not
// change after the build that produced it returns, so a finished tree is safe
// for concurrent use.
type Tree struct {
	root *Node
}

// New returns a tree with the given root, which may be nil for a tree whose
// root is set later with SetRoot.
func New(root *Node) *Tree {
	return &Tree{root: root}
}

// Root returns the root node of the tree.
func (t *Tree) Root() *Node { return t.root }

// SetRoot sets the root of a tree that had none. Setting it twice panics.
func (t *Tree) SetRoot(n *Node) {
	if n == nil {
		panic("tree: SetRoot with nil node")
	}
	if t.root != nil {
		panic("tree: root already set")
	}
	t.root = n
}

/*
Classify descends from the root following the test of every inner node and
returns the class of the row: the class of the leaf reached, the prediction of
the sentinel reached, or the default of the inner node whose selected branch
was never grown.

A tree without root, a test answering a branch outside its node, or a node of
an unknown kind are construction defects and make Classify panic.
*/
func (t *Tree) Classify(r view.Row) int {
	n := t.root
	if n == nil {
		panic("tree: Classify on tree without root")
	}
	for {
		switch n.kind {
		case Leaf:
			return n.class
		case Sentinel:
			return n.model.Classify(r)
		case Inner:
			b := n.test.Classify(r)
			if b < 0 || b >= len(n.branches) {
				panic(fmt.Sprintf("tree: %v answered branch %d out of [0, %d)", n.test, b, len(n.branches)))
			}
			next := n.branches[b]
			if next == nil {
				return n.def
			}
			n = next
		default:
			panic(fmt.Sprintf("tree: cannot classify with %v node", n.kind))
		}
	}
}

/*
Test takes a view and returns the rate of its rows the tree classifies
correctly. Empty views yield 0.
*/
func (t *Tree) Test(data *view.Data) float64 {
	if data.Rows() == 0 {
		return 0.0
	}
	var hits int
	data.Each(func(r view.Row) bool {
		if t.Classify(r) == r.Class() {
			hits++
		}
		return true
	})
	return float64(hits) / float64(data.Rows())
}

// Traverse takes a context, bottomup boolean and an
// error-returning function that takes a context and a node
// as parameters, and goes through the tree running the
// function with the context and every traversed node.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true. Unset
// branches are skipped.
// If the given context times out or is cancelled, the context
// error is returned. If the call to the function returns an
// error, the traversing is aborted and the error is returned.
// Otherwise, when the traversing is over, nil is returned.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, *Node) error) error {
	if t.root == nil {
		return nil
	}
	return traverse(ctx, t.root, bottomup, f)
}

func traverse(ctx context.Context, n *Node, bottomup bool, f func(context.Context, *Node) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomup {
		err = f(ctx, n)
	}
	if err != nil {
		return err
	}
	for _, sn := range n.branches {
		if sn == nil {
			continue
		}
		err = traverse(ctx, sn, bottomup, f)
		if err != nil {
			return err
		}
	}
	if bottomup {
		err = f(ctx, n)
	}
	return err
}

// Stats holds the counts of a tree's nodes by kind, the number of unset
// branch slots and the depth of the deepest node, the root being at depth 0.
type Stats struct {
	Nodes     int
	Leaves    int
	Inner     int
	Sentinels int
	Unset     int
	Depth     int
}

// Stats walks the tree and returns its Stats.
func (t *Tree) Stats() Stats {
	var s Stats
	var walk func(n *Node, depth int)
	walk = func(n *Node, depth int) {
		if n == nil {
			s.Unset++
			return
		}
		s.Nodes++
		if depth > s.Depth {
			s.Depth = depth
		}
		switch n.kind {
		case Leaf:
			s.Leaves++
		case Sentinel:
			s.Sentinels++
		case Inner:
			s.Inner++
			for _, b := range n.branches {
				walk(b, depth+1)
			}
		}
	}
	if t.root != nil {
		walk(t.root, 0)
	}
	return s
}

func (t *Tree) String() string {
	if t.root == nil {
		return "-"
	}
	return t.root.String()
}
