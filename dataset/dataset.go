/*
Package dataset defines the column-major, pre-binned store trees are grown
from, and provides an in-memory implementation of it.
*/
package dataset

import (
	"math/rand"
)

/*
Kind tells how the values of a column are to be split: numeric columns are
split on a threshold, categorical columns by isolating one of their codes.
*/
type Kind int

const (
	// Numeric columns have ordered values
	Numeric Kind = iota
	// Categorical columns have unordered codes
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	}
	return "unknown"
}

/*
Dataset represents a read-only, column-major collection of rows, each one
labelled with a class.

The last column (index Columns()-1) is the class column. Every column maps its
original values to a contiguous range of integer bins [0, Bins(col)) ordered
ascending by original value: Code returns the bin of a row's value and Unmap
turns a bin back into its original value.

Min, Max and Total are aggregates over all the rows of the column. Random
returns the dataset's own random source, used to seed views that are not given
an explicit seed. It is not safe for concurrent use.
*/
type Dataset interface {
	Name() string
	Rows() int
	Columns() int
	Classes() int
	Value(row, col int) float64
	Code(row, col int) int
	Class(row int) int
	Bins(col int) int
	Unmap(col, bin int) float64
	Kind(col int) Kind
	ColumnName(col int) string
	Min(col int) float64
	Max(col int) float64
	Total(col int) float64
	Random() *rand.Rand
}
