// Package split finds the test that best partitions the rows of a view by
// class, using the Gini impurity of the resulting sides.
package split

import (
	"fmt"
	"math"

	"github.com/pbanos/grove/view"
)

// Kind tells which variant of Split is active.
type Kind int

const (
	// Impossible splits carry only a fallback class
	Impossible Kind = iota
	// Numeric splits cut a column at a threshold
	Numeric
	// Exclusion splits isolate one bin of a column from the others
	Exclusion
)

/*
Split is the outcome of searching a column for a partitioning test. Exactly one
variant is active, as told by Kind:
  - Numeric: rows whose Column value is <= Threshold (bins up to Bin) go left.
    Gain is 1 minus the weighted Gini impurity of the sides, higher is better.
  - Exclusion: rows whose Column code equals Bin go left. Cost is the weighted
    Gini impurity of the sides, lower is better.
  - Impossible: no split separates the rows, Class is the class to predict.
*/
type Split struct {
	Kind      Kind
	Column    int
	Bin       int
	Threshold float64
	Gain      float64
	Cost      float64
	Class     int
}

// NewNumeric returns a numeric split.
func NewNumeric(column, bin int, threshold, gain float64) Split {
	return Split{Kind: Numeric, Column: column, Bin: bin, Threshold: threshold, Gain: gain}
}

// NewExclusion returns an exclusion split.
func NewExclusion(column, bin int, cost float64) Split {
	return Split{Kind: Exclusion, Column: column, Bin: bin, Cost: cost}
}

// NewImpossible returns an impossible split falling back on class.
func NewImpossible(class int) Split {
	return Split{Kind: Impossible, Class: class}
}

// IsImpossible tells whether no test was found.
func (s Split) IsImpossible() bool { return s.Kind == Impossible }

// Fitness returns a higher-is-better score comparable across kinds: the gain
// of numeric splits, one minus the cost of exclusion splits, and -Inf for
// impossible splits.
func (s Split) Fitness() float64 {
	switch s.Kind {
	case Numeric:
		return s.Gain
	case Exclusion:
		return 1 - s.Cost
	}
	return math.Inf(-1)
}

// BetterThan tells whether s is strictly fitter than o.
func (s Split) BetterThan(o Split) bool {
	return s.Fitness() > o.Fitness()
}

// Left tells whether the row goes to the left side of the split.
func (s Split) Left(r view.Row) bool {
	switch s.Kind {
	case Numeric:
		return r.Value(s.Column) <= s.Threshold
	case Exclusion:
		return r.Code(s.Column) == s.Bin
	}
	panic(fmt.Sprintf("split: Left called on %v", s))
}

func (s Split) String() string {
	switch s.Kind {
	case Numeric:
		return fmt.Sprintf("col%d <= %g (gain %.4f)", s.Column, s.Threshold, s.Gain)
	case Exclusion:
		return fmt.Sprintf("col%d == %d (cost %.4f)", s.Column, s.Bin, s.Cost)
	}
	return fmt.Sprintf("impossible (class %d)", s.Class)
}

// Gini returns the Gini impurity 1 - sum((d[c]/n)^2) of a distribution of
// total weight n, or 0 when n is 0.
func Gini(d []int, n int) float64 {
	if n == 0 {
		return 0
	}
	result := 1.0
	for _, c := range d {
		p := float64(c) / float64(n)
		result -= p * p
	}
	return result
}
