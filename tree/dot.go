package tree

import (
	"fmt"
	"io"

	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
	"github.com/pkg/errors"
)

/*
RenderDOT writes the tree to w in graphviz DOT format. Inner nodes are labelled
with their test, leaves with their class and unset branches with the default
class of their parent, drawn dashed. Edges are labelled with the branch index.
*/
func (t *Tree) RenderDOT(w io.Writer) error {
	g := graphviz.New()
	defer g.Close()
	graph, err := g.Graph()
	if err != nil {
		return errors.Wrap(err, "creating graph")
	}
	defer graph.Close()
	if t.root != nil {
		r := &dotRenderer{graph: graph}
		if _, err = r.draw(t.root, -1); err != nil {
			return errors.Wrap(err, "drawing tree")
		}
	}
	if err = g.Render(graph, graphviz.XDOT, w); err != nil {
		return errors.Wrap(err, "rendering tree")
	}
	return nil
}

type dotRenderer struct {
	graph *cgraph.Graph
	count int
}

func (r *dotRenderer) node(label string, shape cgraph.Shape) (*cgraph.Node, error) {
	n, err := r.graph.CreateNode(fmt.Sprintf("n%d", r.count))
	if err != nil {
		return nil, err
	}
	r.count++
	n.SetLabel(label)
	n.SetShape(shape)
	return n, nil
}

func (r *dotRenderer) draw(n *Node, parentDefault int) (*cgraph.Node, error) {
	if n == nil {
		gn, err := r.node(fmt.Sprintf("default %d", parentDefault), cgraph.BoxShape)
		if err != nil {
			return nil, err
		}
		gn.SetStyle(cgraph.DashedNodeStyle)
		return gn, nil
	}
	switch n.kind {
	case Leaf:
		return r.node(fmt.Sprintf("class %d", n.class), cgraph.BoxShape)
	case Sentinel:
		return r.node(fmt.Sprintf("%T", n.model), cgraph.BoxShape)
	}
	gn, err := r.node(n.test.String(), cgraph.EllipseShape)
	if err != nil {
		return nil, err
	}
	for i, b := range n.branches {
		child, err := r.draw(b, n.def)
		if err != nil {
			return nil, err
		}
		e, err := r.graph.CreateEdge(fmt.Sprintf("e%d", r.count), gn, child)
		if err != nil {
			return nil, err
		}
		e.SetLabel(fmt.Sprint(i))
	}
	return gn, nil
}
