package grove

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/queue"
	"github.com/pbanos/grove/split"
	"github.com/pbanos/grove/tree"
	"github.com/pbanos/grove/view"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// stripes has 40 rows whose class alternates every 5 values of x.
func stripes(t *testing.T) *view.Data {
	x := make([]float64, 40)
	classes := make([]int, 40)
	for i := range x {
		x[i] = float64(i)
		classes[i] = (i / 5) % 2
	}
	ds, err := dataset.New("stripes", []dataset.Column{{Name: "x", Values: x}}, classes, 2, 1)
	require.NoError(t, err)
	return view.New(ds, 1)
}

// noisy has 200 rows with three numeric columns and a categorical one.
func noisy(t *testing.T) *view.Data {
	rnd := rand.New(rand.NewSource(5))
	n := 200
	cols := []dataset.Column{
		{Name: "a", Values: make([]float64, n)},
		{Name: "b", Values: make([]float64, n)},
		{Name: "c", Values: make([]float64, n)},
		{Name: "d", Kind: dataset.Categorical, Values: make([]float64, n)},
	}
	classes := make([]int, n)
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			cols[j].Values[i] = float64(rnd.Intn(50)) / 10
		}
		cols[3].Values[i] = float64(rnd.Intn(3))
		if cols[0].Values[i]+cols[1].Values[i] > 5 {
			classes[i] = 1
		}
		if cols[3].Values[i] == 2 {
			classes[i] = 1 - classes[i]
		}
	}
	ds, err := dataset.New("noisy", cols, classes, 2, 1)
	require.NoError(t, err)
	return view.New(ds, 1)
}

func classifyAll(tr *tree.Tree, d *view.Data) []int {
	var result []int
	d.Each(func(r view.Row) bool {
		result = append(result, tr.Classify(r))
		return true
	})
	return result
}

func TestGrowFitsTrainingData(t *testing.T) {
	d := stripes(t)
	tr, stats, err := Grow(context.Background(), d, Bagging(false, 1), Workers(2), Logger(zaptest.NewLogger(t)))
	require.NoError(t, err)

	assert.Equal(t, 1.0, tr.Test(d))
	s := tr.Stats()
	assert.Equal(t, s.Nodes, stats.Nodes)
	assert.Equal(t, s.Leaves, stats.Leaves)
	assert.Equal(t, s.Inner, stats.Inner)
	assert.Equal(t, s.Depth, stats.MaxDepth)
	assert.Equal(t, 0, s.Unset)
	assert.Equal(t, 8, s.Leaves)
}

func TestGrowIsReproducibleAcrossWorkers(t *testing.T) {
	d := noisy(t)
	opts := []Option{Features(2), RandomSeed(42), MinRows(3)}

	t1, s1, err := Grow(context.Background(), d, append(opts, Workers(1))...)
	require.NoError(t, err)
	t4, s4, err := Grow(context.Background(), d, append(opts, Workers(4))...)
	require.NoError(t, err)

	assert.Equal(t, t1.String(), t4.String())
	assert.Equal(t, s1, s4)
	assert.Equal(t, classifyAll(t1, d), classifyAll(t4, d))
}

func TestGrowStoppingRules(t *testing.T) {
	d := stripes(t)

	tr, stats, err := Grow(context.Background(), d, Bagging(false, 1), MaxDepth(2))
	require.NoError(t, err)
	assert.True(t, tr.Stats().Depth <= 2)
	assert.True(t, stats.MaxDepth <= 2)

	tr, stats, err = Grow(context.Background(), d, Bagging(false, 1), MinGain(2))
	require.NoError(t, err)
	assert.Equal(t, tree.Leaf, tr.Root().Kind())
	assert.Equal(t, 1, stats.Nodes)

	tr, _, err = Grow(context.Background(), d, Bagging(false, 1), MinRows(41))
	require.NoError(t, err)
	assert.Equal(t, tree.Leaf, tr.Root().Kind())
}

func TestGrowCancelledKeepsPartialTree(t *testing.T) {
	d := stripes(t)
	full, fullStats, err := Grow(context.Background(), d, Bagging(false, 1), Workers(1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var once sync.Once
	rule := StoppingRuleFunc(func(task *queue.Task, _ *split.Split) bool {
		if task.Depth == 2 {
			once.Do(cancel)
		}
		return false
	})
	partial, stats, err := Grow(ctx, d, Bagging(false, 1), Workers(1), Stop(rule))
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	require.NotNil(t, partial)

	assert.True(t, stats.Nodes < fullStats.Nodes)
	assert.True(t, partial.Stats().Unset > 0)
	assert.NotEqual(t, full.String(), partial.String())
	assert.NotPanics(t, func() { classifyAll(partial, d) })
}

func TestGrowCancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Grow(ctx, stripes(t))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestGrowMultiwayCategoricalPartialTree(t *testing.T) {
	ds, err := dataset.New("colors", []dataset.Column{
		{Name: "c", Kind: dataset.Categorical, Levels: 3, Values: []float64{0, 0, 0, 2, 2}},
	}, []int{0, 0, 0, 1, 1}, 2, 1)
	require.NoError(t, err)
	d := view.New(ds, 1)

	probe, err := dataset.New("probe", []dataset.Column{
		{Name: "c", Kind: dataset.Categorical, Levels: 3, Values: []float64{1}},
	}, []int{1}, 2, 1)
	require.NoError(t, err)
	row, err := view.New(probe, 1).Row(0)
	require.NoError(t, err)

	tr, _, err := Grow(context.Background(), d, Bagging(false, 1), MultiwayCategorical(true))
	require.NoError(t, err)
	assert.Equal(t, "(col0 in 3 (leaf 0) - (leaf 1))", tr.String())
	assert.Equal(t, 0, tr.Classify(row))
	assert.Equal(t, 1, tr.Stats().Unset)

	tr, _, err = Grow(context.Background(), d, Bagging(false, 1))
	require.NoError(t, err)
	assert.Equal(t, "(col0 == 0 (leaf 0) (leaf 1))", tr.String())
	assert.Equal(t, 1, tr.Classify(row))
}

func TestGrowEmptyData(t *testing.T) {
	ds, err := dataset.New("empty", []dataset.Column{{Name: "x"}}, nil, 1, 1)
	require.NoError(t, err)
	_, _, err = Grow(context.Background(), view.New(ds, 1))
	assert.Error(t, err)
}

func TestGrowInvalidConfig(t *testing.T) {
	_, _, err := Grow(context.Background(), stripes(t), Workers(0))
	assert.Error(t, err)
}

func TestSampleColumns(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	assert.Equal(t, []int{0, 1, 2}, sampleColumns(3, 0, rnd))
	assert.Equal(t, []int{0, 1, 2}, sampleColumns(3, 5, rnd))

	for i := 0; i < 20; i++ {
		cols := sampleColumns(5, 2, rnd)
		require.Len(t, cols, 2)
		assert.NotEqual(t, cols[0], cols[1])
		for _, c := range cols {
			assert.True(t, c >= 0 && c < 5)
		}
	}
}

func TestNewPartition(t *testing.T) {
	d := stripes(t)
	task := &queue.Task{Data: d, Dist: d.Distribution(), Path: queue.RootPath}
	sp := split.NewNumeric(0, 4, 4.5, 0.1)
	p := NewPartition(task, sp, false, rand.New(rand.NewSource(1)))

	require.Len(t, p.Tasks, 2)
	assert.Equal(t, 5, p.Tasks[0].Data.Rows())
	assert.Equal(t, 35, p.Tasks[1].Data.Rows())
	assert.Equal(t, "root.1", p.Tasks[1].ID())
	assert.Equal(t, 1, p.Tasks[1].Depth)
	assert.Equal(t, p.Node, p.Tasks[0].Parent)
	assert.Equal(t, tree.Inner, p.Node.Kind())
}
