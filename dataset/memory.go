package dataset

import (
	"math"
	"math/rand"
	"sort"

	"github.com/pkg/errors"
)

/*
Column describes a feature column handed to New: its name, its kind and the
original value of every row.

Levels, when positive, declares a categorical column whose values are already
codes in [0, Levels). Such a column gets Levels bins whether or not every code
appears among its values.
*/
type Column struct {
	Name   string
	Kind   Kind
	Values []float64
	Levels int
}

type binnedColumn struct {
	name            string
	kind            Kind
	values          []float64
	codes           []int
	domain          []float64
	min, max, total float64
}

type memoryDataset struct {
	name    string
	columns []*binnedColumn
	classes []int
	nClass  int
	rnd     *rand.Rand
}

/*
New takes a name, a slice of feature columns, the class of every row, the
number of classes and a seed and returns an in-memory Dataset with every column
binned by its distinct values. The class column is appended after the given
columns as a categorical column whose codes are the classes themselves.

An error is returned if the columns have different lengths, if any value is NaN
or if any class is outside [0, nClasses).
*/
func New(name string, columns []Column, classes []int, nClasses int, seed int64) (Dataset, error) {
	if nClasses < 1 {
		return nil, errors.Errorf("dataset %s: need at least one class, got %d", name, nClasses)
	}
	for i, c := range classes {
		if c < 0 || c >= nClasses {
			return nil, errors.Errorf("dataset %s: row %d has class %d outside [0, %d)", name, i, c, nClasses)
		}
	}
	md := &memoryDataset{
		name:    name,
		classes: classes,
		nClass:  nClasses,
		rnd:     rand.New(rand.NewSource(seed)),
	}
	for _, c := range columns {
		if len(c.Values) != len(classes) {
			return nil, errors.Errorf("dataset %s: column %s has %d values for %d rows", name, c.Name, len(c.Values), len(classes))
		}
		bc, err := binColumn(c)
		if err != nil {
			return nil, errors.Wrapf(err, "dataset %s", name)
		}
		md.columns = append(md.columns, bc)
	}
	md.columns = append(md.columns, classColumn(classes, nClasses))
	return md, nil
}

func binColumn(c Column) (*binnedColumn, error) {
	bc := &binnedColumn{
		name:   c.Name,
		kind:   c.Kind,
		values: c.Values,
		codes:  make([]int, len(c.Values)),
		min:    math.Inf(1),
		max:    math.Inf(-1),
	}
	if c.Levels > 0 && c.Kind != Categorical {
		return nil, errors.Errorf("column %s: levels given for a %v column", c.Name, c.Kind)
	}
	for i := 0; i < c.Levels; i++ {
		bc.domain = append(bc.domain, float64(i))
	}
	seen := make(map[float64]bool)
	for i, v := range c.Values {
		if math.IsNaN(v) {
			return nil, errors.Errorf("column %s: row %d is NaN", c.Name, i)
		}
		if c.Levels > 0 {
			if v != math.Trunc(v) || v < 0 || int(v) >= c.Levels {
				return nil, errors.Errorf("column %s: row %d holds %g, not a code in [0, %d)", c.Name, i, v, c.Levels)
			}
		} else if !seen[v] {
			seen[v] = true
			bc.domain = append(bc.domain, v)
		}
		bc.min = math.Min(bc.min, v)
		bc.max = math.Max(bc.max, v)
		bc.total += v
	}
	sort.Float64s(bc.domain)
	for i, v := range c.Values {
		bc.codes[i] = sort.SearchFloat64s(bc.domain, v)
	}
	return bc, nil
}

func classColumn(classes []int, nClasses int) *binnedColumn {
	bc := &binnedColumn{
		name:   "class",
		kind:   Categorical,
		values: make([]float64, len(classes)),
		codes:  classes,
		domain: make([]float64, nClasses),
		max:    float64(nClasses - 1),
	}
	for i, c := range classes {
		bc.values[i] = float64(c)
		bc.total += float64(c)
	}
	for i := range bc.domain {
		bc.domain[i] = float64(i)
	}
	return bc
}

func (md *memoryDataset) Name() string               { return md.name }
func (md *memoryDataset) Rows() int                  { return len(md.classes) }
func (md *memoryDataset) Columns() int               { return len(md.columns) }
func (md *memoryDataset) Classes() int               { return md.nClass }
func (md *memoryDataset) Value(row, col int) float64 { return md.columns[col].values[row] }
func (md *memoryDataset) Code(row, col int) int      { return md.columns[col].codes[row] }
func (md *memoryDataset) Class(row int) int          { return md.classes[row] }
func (md *memoryDataset) Bins(col int) int           { return len(md.columns[col].domain) }
func (md *memoryDataset) Kind(col int) Kind          { return md.columns[col].kind }
func (md *memoryDataset) ColumnName(col int) string  { return md.columns[col].name }
func (md *memoryDataset) Min(col int) float64        { return md.columns[col].min }
func (md *memoryDataset) Max(col int) float64        { return md.columns[col].max }
func (md *memoryDataset) Total(col int) float64      { return md.columns[col].total }
func (md *memoryDataset) Random() *rand.Rand         { return md.rnd }

func (md *memoryDataset) Unmap(col, bin int) float64 {
	return md.columns[col].domain[bin]
}
