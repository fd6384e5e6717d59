package view

import (
	"fmt"
	"strings"
)

// Row is a handle on a row of a view. It holds no data of its own: every
// accessor reads through the view into the dataset.
type Row struct {
	data  *Data
	local int
	index int
}

// Local returns the position of the row in its view.
func (r Row) Local() int { return r.local }

// Index returns the position of the row in the dataset.
func (r Row) Index() int { return r.index }

// Value returns the original value of the given column.
func (r Row) Value(col int) float64 { return r.data.ds.Value(r.index, col) }

// Code returns the bin of the given column the row falls in.
func (r Row) Code(col int) int { return r.data.ds.Code(r.index, col) }

// Class returns the class of the row.
func (r Row) Class() int { return r.data.ds.Class(r.index) }

// Classes returns the number of classes of the row's dataset.
func (r Row) Classes() int { return r.data.ds.Classes() }

// Columns returns the number of feature columns of the row.
func (r Row) Columns() int { return r.data.Columns() }

// Weight returns the weight of the row, always 1.
func (r Row) Weight() int { return 1 }

func (r Row) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d [%d]:", r.index, r.Class())
	for i := 0; i < r.Columns(); i++ {
		fmt.Fprintf(&sb, " %d", r.Code(i))
	}
	return sb.String()
}
