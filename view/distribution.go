package view

import (
	"fmt"
	"math/rand"
	"strings"
)

// Distribution holds the weight of the rows of each class, indexed by class.
type Distribution []int

// NewDistribution returns an all-zero distribution over the given number of classes.
func NewDistribution(classes int) Distribution {
	return make(Distribution, classes)
}

// Add accounts for the given row.
func (d Distribution) Add(r Row) {
	d[r.Class()] += r.Weight()
}

// Weight returns the total weight in the distribution.
func (d Distribution) Weight() int {
	var w int
	for _, c := range d {
		w += c
	}
	return w
}

// Clone returns a copy of the distribution.
func (d Distribution) Clone() Distribution {
	return append(Distribution(nil), d...)
}

// Single returns the class of the distribution and true if all its weight
// is on a single class.
func (d Distribution) Single() (int, bool) {
	class := -1
	for c, w := range d {
		if w == 0 {
			continue
		}
		if class != -1 {
			return -1, false
		}
		class = c
	}
	return class, class != -1
}

// Majority returns the class with the largest weight. Ties are broken
// uniformly at random with rnd, or in favour of the lowest class when rnd is
// nil.
func (d Distribution) Majority(rnd *rand.Rand) int {
	best, ties := 0, 0
	for c, w := range d {
		switch {
		case w > d[best]:
			best, ties = c, 1
		case w == d[best]:
			ties++
			if rnd != nil && c != best && rnd.Intn(ties) == 0 {
				best = c
			}
		}
	}
	return best
}

func (d Distribution) String() string {
	parts := make([]string, len(d))
	for i, w := range d {
		parts[i] = fmt.Sprintf("%d", w)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
