package grove

import (
	"math/rand"

	"github.com/pbanos/grove/queue"
	"github.com/pbanos/grove/split"
	"github.com/pbanos/grove/tree"
	"github.com/pbanos/grove/view"
)

/*
Partition represents the development of a task's node with a split: the inner
node testing rows with it and the tasks to grow its branches.
*/
type Partition struct {
	Node  *tree.Node
	Tasks []*queue.Task
}

/*
NewPartition takes a task, the split to develop its node with, whether
categorical columns branch once per code and a random source, and returns the
resulting Partition.

The inner node falls back on the majority class of the task. Every branch gets
a seed drawn from rnd in branch order, and a task only if some row reaches it:
branches no row reaches stay unset.
*/
func NewPartition(t *queue.Task, sp split.Split, multiway bool, rnd *rand.Rand) *Partition {
	var test tree.Classifier
	var subsets []*view.Data
	var dists []view.Distribution
	switch {
	case sp.Kind == split.Numeric:
		test = tree.NumericTest{Column: sp.Column, Threshold: sp.Threshold}
		subsets, dists = binary(t.Data, sp)
	case sp.Kind == split.Exclusion && multiway:
		test = tree.CategoricalTest{Column: sp.Column, Codes: t.Data.ColumnBins(sp.Column)}
		subsets, dists = t.Data.FilterCodes(sp.Column)
	case sp.Kind == split.Exclusion:
		test = tree.ExclusionTest{Column: sp.Column, Code: sp.Bin}
		subsets, dists = binary(t.Data, sp)
	default:
		panic("grove: partition with " + sp.String())
	}
	n := tree.NewInner(test, t.Dist.Majority(rnd))
	p := &Partition{Node: n}
	for i, s := range subsets {
		seed := rnd.Int63()
		if s.Rows() == 0 {
			continue
		}
		p.Tasks = append(p.Tasks, t.Child(n, i, s, dists[i], seed))
	}
	return p
}

func binary(d *view.Data, sp split.Split) ([]*view.Data, []view.Distribution) {
	l, r, ld, rd := d.Filter(sp)
	return []*view.Data{l, r}, []view.Distribution{ld, rd}
}
