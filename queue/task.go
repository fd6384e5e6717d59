package queue

import (
	"fmt"

	"github.com/pbanos/grove/tree"
	"github.com/pbanos/grove/view"
)

// RootPath is the path of the task that grows the root of a tree.
const RootPath = "root"

// Task represents a tree.Node to be grown and
// attached to a slot of its parent.
type Task struct {
	// The inner node whose slot the grown node
	// fills, nil for the root of the tree.
	Parent *tree.Node
	// The slot of Parent to fill.
	Branch int
	// The view of training rows that reached
	// the node and its class distribution.
	Data *view.Data
	Dist view.Distribution
	// The depth of the node, 0 for the root.
	Depth int
	// The seed for the random source of the
	// task, drawn from the parent task's one.
	Seed int64
	// Path identifies the node within its tree:
	// RootPath for the root, the parent path
	// followed by the branch for the rest.
	Path string
}

// Child returns a task to grow the given branch
// of the inner node n developed by t.
func (t *Task) Child(n *tree.Node, branch int, data *view.Data, dist view.Distribution, seed int64) *Task {
	return &Task{
		Parent: n,
		Branch: branch,
		Data:   data,
		Dist:   dist,
		Depth:  t.Depth + 1,
		Seed:   seed,
		Path:   fmt.Sprintf("%s.%d", t.Path, branch),
	}
}

// ID returns a string that identifies the
// task, its Path.
func (t *Task) ID() string {
	return t.Path
}

func (t *Task) String() string {
	return fmt.Sprintf("{Task %s}", t.Path)
}
