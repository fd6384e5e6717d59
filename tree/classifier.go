package tree

import (
	"fmt"

	"github.com/pbanos/grove/view"
)

/*
Classifier is the test an inner node applies to a row to pick one of its
branches. Classify must return a value in [0, Outcomes()).
*/
type Classifier interface {
	Classify(view.Row) int
	Outcomes() int
	String() string
}

// Model is anything able to predict the class of a row. A *Tree is a Model,
// so finished trees can be spliced into others through sentinel nodes.
type Model interface {
	Classify(view.Row) int
}

// NumericTest sends rows whose value for Column is <= Threshold to branch 0
// and the rest to branch 1.
type NumericTest struct {
	Column    int
	Threshold float64
}

// Classify returns the branch for the row.
func (t NumericTest) Classify(r view.Row) int {
	if r.Value(t.Column) <= t.Threshold {
		return 0
	}
	return 1
}

// Outcomes returns 2.
func (t NumericTest) Outcomes() int { return 2 }

func (t NumericTest) String() string {
	return fmt.Sprintf("col%d <= %g", t.Column, t.Threshold)
}

// ExclusionTest sends rows whose code for Column equals Code to branch 0 and
// the rest to branch 1.
type ExclusionTest struct {
	Column int
	Code   int
}

// Classify returns the branch for the row.
func (t ExclusionTest) Classify(r view.Row) int {
	if r.Code(t.Column) == t.Code {
		return 0
	}
	return 1
}

// Outcomes returns 2.
func (t ExclusionTest) Outcomes() int { return 2 }

func (t ExclusionTest) String() string {
	return fmt.Sprintf("col%d == %d", t.Column, t.Code)
}

// CategoricalTest has one branch per code of a categorical column and sends
// every row to the branch of its code.
type CategoricalTest struct {
	Column int
	Codes  int
}

// Classify returns the code of the row for the tested column.
func (t CategoricalTest) Classify(r view.Row) int {
	return r.Code(t.Column)
}

// Outcomes returns the number of codes of the column.
func (t CategoricalTest) Outcomes() int { return t.Codes }

func (t CategoricalTest) String() string {
	return fmt.Sprintf("col%d in %d", t.Column, t.Codes)
}
