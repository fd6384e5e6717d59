/*
Package view provides zero-copy windows over a dataset.Dataset. A view is
either the root view, exposing every row of the dataset in order, or a subset
holding the original indices of the rows it exposes. Views never copy column
data and are not modified once built.
*/
package view

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
	"strings"

	"github.com/pbanos/grove/dataset"
	"github.com/pkg/errors"
)

// ErrUnsupported is returned for operations that make no sense on the
// kind of view they are invoked on.
var ErrUnsupported = errors.New("unsupported operation on view")

// IndexError is returned when a row is requested outside the range of a view.
type IndexError struct {
	Index int
	Rows  int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("row index %d out of range [0, %d)", e.Index, e.Rows)
}

/*
Data is a view over a dataset. The zero value is not usable: obtain a root
view with New and derive subsets from it.

The random source of a view is used for bagging and tie breaking. It is not
safe for concurrent use: a goroutine working on a view it shares with others
should take its own copy with WithRandom.
*/
type Data struct {
	ds     dataset.Dataset
	perm   []int
	parent *Data
	rnd    *rand.Rand
	name   string
}

// New returns the root view of ds with a random source seeded with seed.
func New(ds dataset.Dataset, seed int64) *Data {
	return &Data{ds: ds, rnd: rand.New(rand.NewSource(seed)), name: ds.Name()}
}

func newSubset(parent *Data, perm []int, rnd *rand.Rand) *Data {
	return &Data{
		ds:     parent.ds,
		perm:   perm,
		parent: parent,
		rnd:    rnd,
		name:   parent.name + "->subset",
	}
}

// WithRandom returns a copy of the view that draws from rnd.
func (d *Data) WithRandom(rnd *rand.Rand) *Data {
	c := *d
	c.rnd = rnd
	return &c
}

// Dataset returns the dataset underlying the view.
func (d *Data) Dataset() dataset.Dataset { return d.ds }

// Random returns the view's random source.
func (d *Data) Random() *rand.Rand { return d.rnd }

// Name returns the name of the dataset, suffixed once per level of subsetting.
func (d *Data) Name() string { return d.name }

// IsSubset tells whether the view is a subset rather than a root view.
func (d *Data) IsSubset() bool { return d.parent != nil }

// Parent returns the view a subset was derived from, nil for root views.
func (d *Data) Parent() *Data { return d.parent }

// Rows returns the number of rows visible through the view.
func (d *Data) Rows() int {
	if d.parent == nil {
		return d.ds.Rows()
	}
	return len(d.perm)
}

// Columns returns the number of feature columns, excluding the class column.
func (d *Data) Columns() int { return d.ds.Columns() - 1 }

// Classes returns the number of classes.
func (d *Data) Classes() int { return d.ds.Classes() }

// ColumnBins returns the number of bins of the given column.
func (d *Data) ColumnBins(col int) int { return d.ds.Bins(col) }

// ColumnKind returns the kind of the given column.
func (d *Data) ColumnKind(col int) dataset.Kind { return d.ds.Kind(col) }

// ColumnName returns the name of the given column.
func (d *Data) ColumnName(col int) string { return d.ds.ColumnName(col) }

// ColMin returns the minimum of the column over the whole dataset. Subsets
// do not recompute it.
func (d *Data) ColMin(col int) float64 { return d.ds.Min(col) }

// ColMax returns the maximum of the column over the whole dataset. Subsets
// do not recompute it.
func (d *Data) ColMax(col int) float64 { return d.ds.Max(col) }

// ColTotal returns the sum of the column for root views and NaN for subsets,
// which do not track it.
func (d *Data) ColTotal(col int) float64 {
	if d.parent != nil {
		return math.NaN()
	}
	return d.ds.Total(col)
}

// Unmap returns the original value of the given bin of a column.
func (d *Data) Unmap(col, bin int) float64 { return d.ds.Unmap(col, bin) }

// Threshold returns an original value that separates bin cut of the column
// from bin cut+1: every value up to bin cut is <= threshold, every value from
// bin cut+1 on is > threshold.
func (d *Data) Threshold(col, cut int) float64 {
	lo := d.ds.Unmap(col, cut)
	if cut+1 >= d.ds.Bins(col) {
		return lo
	}
	hi := d.ds.Unmap(col, cut+1)
	mid := (lo + hi) / 2
	if mid >= hi || mid < lo {
		return lo
	}
	return mid
}

// permute maps a local row index to an index in the dataset.
func (d *Data) permute(i int) int {
	if d.parent == nil {
		return i
	}
	return d.perm[i]
}

// Row returns the i-th row of the view or an *IndexError.
func (d *Data) Row(i int) (Row, error) {
	if i < 0 || i >= d.Rows() {
		return Row{}, &IndexError{Index: i, Rows: d.Rows()}
	}
	return Row{data: d, local: i, index: d.permute(i)}, nil
}

// Each calls f with every row of the view in order until f returns false.
func (d *Data) Each(f func(Row) bool) {
	n := d.Rows()
	for i := 0; i < n; i++ {
		if !f(Row{data: d, local: i, index: d.permute(i)}) {
			return
		}
	}
}

// Iter returns a new iterator positioned before the first row of the view.
func (d *Data) Iter() *Iterator {
	return &Iterator{data: d, pos: -1}
}

// Indices returns a copy of the dataset indices of the rows in the view.
func (d *Data) Indices() []int {
	result := make([]int, d.Rows())
	for i := range result {
		result[i] = d.permute(i)
	}
	return result
}

// Distribution returns the class distribution of the rows in the view.
func (d *Data) Distribution() Distribution {
	dist := NewDistribution(d.Classes())
	d.Each(func(r Row) bool {
		dist.Add(r)
		return true
	})
	return dist
}

/*
SampleWithReplacement draws round(Rows() * fraction) rows uniformly at random
and with replacement from the view, and returns them as a subset sorted by
dataset index. The draw uses a source seeded from the view's random source,
which the subset keeps as its own. A fraction that is not a positive finite
number yields an empty subset.
*/
func (d *Data) SampleWithReplacement(fraction float64) *Data {
	n := d.Rows()
	size := 0
	if fraction > 0 && !math.IsInf(fraction, 1) {
		size = int(math.Round(float64(n) * fraction))
	}
	sample := make([]int, size)
	rnd := rand.New(rand.NewSource(d.rnd.Int63()))
	if n > 0 {
		for i := range sample {
			sample[i] = d.permute(rnd.Intn(n))
		}
	}
	sort.Ints(sample)
	return newSubset(d, sample, rnd)
}

/*
Filter goes once over the rows of the view and returns two subsets: one with
the rows for which p.Left is true and one with the rest, along with the class
distribution of each.
*/
func (d *Data) Filter(p Predicate) (left, right *Data, leftDist, rightDist Distribution) {
	n := d.Rows()
	li, ri := make([]int, 0, n), make([]int, 0, n)
	leftDist, rightDist = NewDistribution(d.Classes()), NewDistribution(d.Classes())
	d.Each(func(r Row) bool {
		if p.Left(r) {
			leftDist.Add(r)
			li = append(li, r.index)
		} else {
			rightDist.Add(r)
			ri = append(ri, r.index)
		}
		return true
	})
	return newSubset(d, li, d.rnd), newSubset(d, ri, d.rnd), leftDist, rightDist
}

/*
FilterCodes goes once over the rows of the view and returns one subset per bin
of the given column, holding the rows whose code is that bin, along with the
class distribution of each. Subsets for bins no row falls in are empty.
*/
func (d *Data) FilterCodes(col int) ([]*Data, []Distribution) {
	bins := d.ds.Bins(col)
	perms := make([][]int, bins)
	dists := make([]Distribution, bins)
	for i := range dists {
		dists[i] = NewDistribution(d.Classes())
	}
	d.Each(func(r Row) bool {
		c := r.Code(col)
		dists[c].Add(r)
		perms[c] = append(perms[c], r.index)
		return true
	})
	subsets := make([]*Data, bins)
	for i, p := range perms {
		subsets[i] = newSubset(d, p, d.rnd)
	}
	return subsets, dists
}

/*
Complement returns a subset of the parent view with the dataset indices of the
parent that are not in this subset, in ascending order and without repetitions.
Root views have no parent and return ErrUnsupported.
*/
func (d *Data) Complement() (*Data, error) {
	if d.parent == nil {
		return nil, errors.Wrap(ErrUnsupported, "complement of root view")
	}
	in := make([]bool, d.ds.Rows())
	for _, i := range d.perm {
		in[i] = true
	}
	var result []int
	d.parent.Each(func(r Row) bool {
		if !in[r.index] {
			in[r.index] = true
			result = append(result, r.index)
		}
		return true
	})
	sort.Ints(result)
	return newSubset(d.parent, result, d.parent.rnd), nil
}

// Head returns the codes of the first n rows of the view, one row per line.
func (d *Data) Head(n int) string {
	var sb strings.Builder
	d.Each(func(r Row) bool {
		if n == 0 {
			return false
		}
		n--
		sb.WriteString(r.String())
		sb.WriteString("\n")
		return true
	})
	return sb.String()
}

func (d *Data) String() string {
	return fmt.Sprintf("Data %s\n%d rows, %d cols, %d classes\n", d.name, d.Rows(), d.Columns(), d.Classes())
}

// Predicate sends rows to the left or the right side of a split.
type Predicate interface {
	Left(Row) bool
}

// PredicateFunc adapts a function to the Predicate interface.
type PredicateFunc func(Row) bool

// Left calls f.
func (f PredicateFunc) Left(r Row) bool { return f(r) }

// Iterator walks the rows of a view.
type Iterator struct {
	data *Data
	pos  int
}

// Next advances to the next row, returning false once all rows were visited.
func (it *Iterator) Next() bool {
	if it.pos < it.data.Rows() {
		it.pos++
	}
	return it.pos < it.data.Rows()
}

// Row returns the current row.
func (it *Iterator) Row() Row {
	return Row{data: it.data, local: it.pos, index: it.data.permute(it.pos)}
}
