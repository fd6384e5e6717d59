package dataset

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBinsColumns(t *testing.T) {
	ds, err := New("d", []Column{
		{Name: "x", Values: []float64{6, 1, 5, 1, 2, 6}},
	}, []int{1, 0, 1, 0, 0, 1}, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, 6, ds.Rows())
	assert.Equal(t, 2, ds.Columns())
	assert.Equal(t, 2, ds.Classes())
	assert.Equal(t, 4, ds.Bins(0))
	assert.Equal(t, []int{3, 0, 2, 0, 1, 3}, codes(ds, 0))
	assert.Equal(t, 5.0, ds.Unmap(0, 2))
	assert.Equal(t, 1.0, ds.Min(0))
	assert.Equal(t, 6.0, ds.Max(0))
	assert.Equal(t, 21.0, ds.Total(0))

	// class column
	assert.Equal(t, Categorical, ds.Kind(1))
	assert.Equal(t, 2, ds.Bins(1))
	assert.Equal(t, 1, ds.Code(0, 1))
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New("d", []Column{{Name: "x", Values: []float64{1}}}, []int{0, 1}, 2, 1)
	assert.Error(t, err)

	_, err = New("d", []Column{{Name: "x", Values: []float64{1, 2}}}, []int{0, 2}, 2, 1)
	assert.Error(t, err)

	_, err = New("d", []Column{{Name: "x", Values: []float64{1, math.NaN()}}}, []int{0, 1}, 2, 1)
	assert.Error(t, err)

	_, err = New("d", nil, nil, 0, 1)
	assert.Error(t, err)
}

func TestReadCSV(t *testing.T) {
	in := `size,color,label
1.5,red,small
7.0,blue,big
2.0,red,small
8.5,green,big
`
	ds, labels, err := ReadCSV(strings.NewReader(in), CSVOptions{Name: "toy", Categorical: []string{"color"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"small", "big"}, labels)
	assert.Equal(t, 4, ds.Rows())
	assert.Equal(t, 3, ds.Columns())
	assert.Equal(t, Numeric, ds.Kind(0))
	assert.Equal(t, Categorical, ds.Kind(1))
	assert.Equal(t, "color", ds.ColumnName(1))
	assert.Equal(t, 3, ds.Bins(1))
	assert.Equal(t, []int{0, 1, 0, 2}, codes(ds, 1))
	assert.Equal(t, 1, ds.Class(3))
}

func TestReadCSVErrors(t *testing.T) {
	_, _, err := ReadCSV(strings.NewReader("x,label\nnope,a\n"), CSVOptions{})
	assert.Error(t, err)

	_, _, err = ReadCSV(strings.NewReader("x,label\n"), CSVOptions{})
	assert.Error(t, err)

	_, _, err = ReadCSV(strings.NewReader("label\n1\n"), CSVOptions{})
	assert.Error(t, err)
}

func codes(ds Dataset, col int) []int {
	result := make([]int, ds.Rows())
	for i := range result {
		result[i] = ds.Code(i, col)
	}
	return result
}

func TestNewWithLevels(t *testing.T) {
	ds, err := New("d", []Column{
		{Name: "c", Kind: Categorical, Levels: 4, Values: []float64{0, 3, 3, 0}},
	}, []int{0, 1, 1, 0}, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Bins(0))
	assert.Equal(t, []int{0, 3, 3, 0}, codes(ds, 0))

	_, err = New("d", []Column{{Name: "c", Kind: Categorical, Levels: 2, Values: []float64{0, 2}}}, []int{0, 1}, 2, 1)
	assert.Error(t, err)
	_, err = New("d", []Column{{Name: "c", Kind: Categorical, Levels: 2, Values: []float64{0, 0.5}}}, []int{0, 1}, 2, 1)
	assert.Error(t, err)
	_, err = New("d", []Column{{Name: "x", Levels: 2, Values: []float64{0, 1}}}, []int{0, 1}, 2, 1)
	assert.Error(t, err)
}

func TestReadMetadata(t *testing.T) {
	md := `
columns:
  size: numeric
  shape: categorical
  color: [red, green, blue]
  label: [big, small]
`
	var opts CSVOptions
	require.NoError(t, ReadMetadata([]byte(md), &opts))
	assert.Equal(t, []string{"shape"}, opts.Categorical)
	assert.Equal(t, []string{"red", "green", "blue"}, opts.Levels["color"])

	in := `size,color,shape,label
1.5,blue,round,small
7.0,red,square,big
`
	ds, labels, err := ReadCSV(strings.NewReader(in), opts)
	require.NoError(t, err)
	assert.Equal(t, []string{"big", "small"}, labels)
	assert.Equal(t, []int{1, 0}, []int{ds.Class(0), ds.Class(1)})
	assert.Equal(t, 3, ds.Bins(1))
	assert.Equal(t, []int{2, 0}, codes(ds, 1))
	assert.Equal(t, Categorical, ds.Kind(2))

	_, _, err = ReadCSV(strings.NewReader("size,color,shape,label\n1,pink,round,big\n"), opts)
	assert.Error(t, err)

	assert.Error(t, ReadMetadata([]byte("columns:\n  size: fuzzy\n"), &CSVOptions{}))
	assert.Error(t, ReadMetadata([]byte("other: 1\n"), &CSVOptions{}))
	assert.Error(t, ReadMetadata([]byte("columns: [\n"), &CSVOptions{}))
}
