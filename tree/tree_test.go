package tree

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/view"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(t *testing.T, columns ...dataset.Column) []view.Row {
	n := len(columns[0].Values)
	ds, err := dataset.New("tree", columns, make([]int, n), 2, 1)
	require.NoError(t, err)
	d := view.New(ds, 1)
	var result []view.Row
	d.Each(func(r view.Row) bool {
		result = append(result, r)
		return true
	})
	return result
}

func twoLeafTree() *Tree {
	root := NewInner(NumericTest{Column: 0, Threshold: 2.5}, 0)
	root.SetBranch(0, NewLeaf(0))
	root.SetBranch(1, NewLeaf(1))
	return New(root)
}

func TestClassifyTwoLeafTree(t *testing.T) {
	rs := rows(t, dataset.Column{Name: "x", Values: []float64{1.0, 4.0}})
	tr := twoLeafTree()

	assert.Equal(t, 0, tr.Classify(rs[0]))
	assert.Equal(t, 1, tr.Classify(rs[1]))
	assert.Equal(t, "(col0 <= 2.5 (leaf 0) (leaf 1))", tr.String())
}

func TestClassifyPartialTree(t *testing.T) {
	rs := rows(t, dataset.Column{Name: "c", Kind: dataset.Categorical, Values: []float64{0, 1, 2}})
	root := NewInner(CategoricalTest{Column: 0, Codes: 3}, 2)
	root.SetBranch(0, NewLeaf(0))
	root.SetBranch(2, NewLeaf(1))
	tr := New(root)

	assert.Equal(t, 0, tr.Classify(rs[0]))
	assert.Equal(t, 2, tr.Classify(rs[1]))
	assert.Equal(t, 1, tr.Classify(rs[2]))
	assert.Equal(t, "(col0 in 3 (leaf 0) - (leaf 1))", tr.String())

	s := tr.Stats()
	assert.Equal(t, Stats{Nodes: 3, Leaves: 2, Inner: 1, Unset: 1, Depth: 1}, s)
}

func TestClassifyConcurrently(t *testing.T) {
	rs := rows(t,
		dataset.Column{Name: "x", Values: []float64{1, 4, 2, 5, 3, 6}},
		dataset.Column{Name: "c", Kind: dataset.Categorical, Values: []float64{0, 1, 2, 0, 1, 2}},
	)
	root := NewInner(NumericTest{Column: 0, Threshold: 2.5}, 0)
	left := NewInner(CategoricalTest{Column: 1, Codes: 3}, 1)
	left.SetBranch(0, NewLeaf(0))
	left.SetBranch(2, NewLeaf(1))
	root.SetBranch(0, left)
	root.SetBranch(1, NewLeaf(1))
	tr := New(root)

	expected := make([]int, len(rs))
	for i, r := range rs {
		expected[i] = tr.Classify(r)
	}
	assert.Equal(t, []int{0, 1, 1, 1, 1, 1}, expected)

	const goroutines = 8
	results := make([][]int, goroutines)
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			got := make([]int, 0, len(rs)*100)
			for n := 0; n < 100; n++ {
				for _, r := range rs {
					got = append(got, tr.Classify(r))
				}
			}
			results[g] = got
		}(g)
	}
	wg.Wait()
	for _, got := range results {
		for i, c := range got {
			assert.Equal(t, expected[i%len(rs)], c)
		}
	}
}

func TestClassifyExclusionAndSentinel(t *testing.T) {
	rs := rows(t,
		dataset.Column{Name: "x", Values: []float64{1.0, 4.0, 1.0}},
		dataset.Column{Name: "c", Kind: dataset.Categorical, Values: []float64{0, 1, 1}},
	)
	root := NewInner(ExclusionTest{Column: 1, Code: 1}, 0)
	root.SetBranch(0, NewSentinel(twoLeafTree()))
	root.SetBranch(1, NewLeaf(0))
	tr := New(root)

	assert.Equal(t, 0, tr.Classify(rs[0]))
	assert.Equal(t, 1, tr.Classify(rs[1]))
	assert.Equal(t, 0, tr.Classify(rs[2]))
	assert.Equal(t, Sentinel, root.Branch(0).Kind())
}

func TestSetBranchTwicePanics(t *testing.T) {
	n := NewInner(NumericTest{Column: 0, Threshold: 1}, 0)
	n.SetBranch(0, NewLeaf(0))
	assert.Panics(t, func() { n.SetBranch(0, NewLeaf(1)) })
	assert.Panics(t, func() { n.SetBranch(2, NewLeaf(1)) })
	assert.Panics(t, func() { n.SetBranch(1, nil) })
	assert.Panics(t, func() { NewLeaf(0).SetBranch(0, NewLeaf(1)) })
	assert.Equal(t, 0, n.Branch(0).Class())
	assert.Nil(t, n.Branch(1))
}

func TestSetRootTwicePanics(t *testing.T) {
	tr := New(nil)
	tr.SetRoot(NewLeaf(1))
	assert.Panics(t, func() { tr.SetRoot(NewLeaf(0)) })
}

func TestClassifyDefects(t *testing.T) {
	rs := rows(t, dataset.Column{Name: "c", Kind: dataset.Categorical, Values: []float64{0, 1, 2}})
	assert.Panics(t, func() { New(nil).Classify(rs[0]) })

	tr := New(NewInner(CategoricalTest{Column: 0, Codes: 2}, 0))
	assert.Equal(t, 0, tr.Classify(rs[1]))
	assert.Panics(t, func() { tr.Classify(rs[2]) })
}

func TestTraverse(t *testing.T) {
	tr := twoLeafTree()

	var topdown, bottomup []Kind
	require.NoError(t, tr.Traverse(context.Background(), false, func(_ context.Context, n *Node) error {
		topdown = append(topdown, n.Kind())
		return nil
	}))
	require.NoError(t, tr.Traverse(context.Background(), true, func(_ context.Context, n *Node) error {
		bottomup = append(bottomup, n.Kind())
		return nil
	}))
	assert.Equal(t, []Kind{Inner, Leaf, Leaf}, topdown)
	assert.Equal(t, []Kind{Leaf, Leaf, Inner}, bottomup)

	stop := errors.New("stop")
	var visited int
	err := tr.Traverse(context.Background(), false, func(context.Context, *Node) error {
		visited++
		return stop
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 1, visited)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = tr.Traverse(ctx, false, func(context.Context, *Node) error { return nil })
	assert.Equal(t, context.Canceled, err)
}

func TestTest(t *testing.T) {
	ds, err := dataset.New("tree", []dataset.Column{{Name: "x", Values: []float64{1, 2, 3, 4}}}, []int{0, 1, 1, 1}, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.75, twoLeafTree().Test(view.New(ds, 1)))
}

func TestRenderDOT(t *testing.T) {
	root := NewInner(ExclusionTest{Column: 1, Code: 0}, 1)
	root.SetBranch(1, NewLeaf(0))
	var buf bytes.Buffer
	require.NoError(t, New(root).RenderDOT(&buf))
	out := buf.String()
	assert.Contains(t, out, "digraph")
	assert.Contains(t, out, "col1 == 0")
	assert.Contains(t, out, "class 0")
	assert.Contains(t, out, "default 1")
}
