package split

import (
	"math/rand"
	"sort"

	"github.com/pbanos/grove/dataset"
	"github.com/pbanos/grove/view"
)

/*
Statistic holds, for a view and a set of its columns, the class distribution of
the view and the class distribution of every bin of every column. It is built
in a single pass over the view and then answers split queries for any of those
columns.
*/
type Statistic struct {
	data    *view.Data
	columns []int
	dist    view.Distribution
	hists   [][][]int
}

// NewStatistic goes over the rows of data once and returns the Statistic for
// the given columns.
func NewStatistic(data *view.Data, columns []int) *Statistic {
	s := &Statistic{
		data:    data,
		columns: append([]int(nil), columns...),
		dist:    view.NewDistribution(data.Classes()),
		hists:   make([][][]int, data.Columns()),
	}
	sort.Ints(s.columns)
	for _, col := range s.columns {
		h := make([][]int, data.ColumnBins(col))
		for b := range h {
			h[b] = make([]int, data.Classes())
		}
		s.hists[col] = h
	}
	data.Each(func(r view.Row) bool {
		class, w := r.Class(), r.Weight()
		s.dist[class] += w
		for _, col := range s.columns {
			s.hists[col][r.Code(col)][class] += w
		}
		return true
	})
	return s
}

// Distribution returns the class distribution of the view.
func (s *Statistic) Distribution() view.Distribution { return s.dist }

// Columns returns the columns of the statistic in ascending order.
func (s *Statistic) Columns() []int { return s.columns }

/*
ColumnSplit sweeps the bins of a column in ascending order, moving the weight
of each bin from the right side to the left side, and returns the numeric split
at the cut with the lowest weighted Gini impurity. Cuts leaving a side empty are
skipped; when all are, the split is Impossible.
*/
func (s *Statistic) ColumnSplit(col int) Split {
	hist := s.hists[col]
	leftDist := make([]int, len(s.dist))
	riteDist := s.dist.Clone()
	leftWeight, riteWeight := 0, s.dist.Weight()
	totWeight := float64(riteWeight)

	bestSplit, bestFitness := -1, 2.0
	for i := 0; i < len(hist)-1; i++ {
		for j, t := range hist[i] {
			leftWeight += t
			riteWeight -= t
			leftDist[j] += t
			riteDist[j] -= t
		}
		if leftWeight == 0 || riteWeight == 0 {
			continue
		}
		f := Gini(leftDist, leftWeight)*(float64(leftWeight)/totWeight) +
			Gini(riteDist, riteWeight)*(float64(riteWeight)/totWeight)
		if f < bestFitness {
			bestSplit, bestFitness = i, f
		}
	}
	if bestSplit == -1 {
		return NewImpossible(s.dist.Majority(s.random()))
	}
	return NewNumeric(col, bestSplit, s.data.Threshold(col, bestSplit), 1-bestFitness)
}

/*
ColumnExclusion tries, for every bin of a column, the split that isolates the
rows of that bin (left) from the rest (right) and returns the exclusion split
with the lowest weighted Gini impurity. Bins that hold all or none of the
weight are skipped; when all are, the split is Impossible.
*/
func (s *Statistic) ColumnExclusion(col int) Split {
	hist := s.hists[col]
	riteDist := make([]int, len(s.dist))
	totWeight := s.dist.Weight()

	bestSplit, bestFitness := -1, 2.0
	for i, leftDist := range hist {
		leftWeight := 0
		for j, t := range leftDist {
			leftWeight += t
			riteDist[j] = s.dist[j] - t
		}
		riteWeight := totWeight - leftWeight
		if leftWeight == 0 || riteWeight == 0 {
			continue
		}
		f := Gini(leftDist, leftWeight)*(float64(leftWeight)/float64(totWeight)) +
			Gini(riteDist, riteWeight)*(float64(riteWeight)/float64(totWeight))
		if f < bestFitness {
			bestSplit, bestFitness = i, f
		}
	}
	if bestSplit == -1 {
		return NewImpossible(s.dist.Majority(s.random()))
	}
	return NewExclusion(col, bestSplit, bestFitness)
}

// Column returns the split of a column according to its kind: ColumnSplit for
// numeric columns and ColumnExclusion for categorical ones.
func (s *Statistic) Column(col int) Split {
	if s.data.ColumnKind(col) == dataset.Categorical {
		return s.ColumnExclusion(col)
	}
	return s.ColumnSplit(col)
}

/*
Best returns the fittest split among the columns of the statistic, comparing
them with Split.Fitness. On exact ties the lowest column wins. When every column
is Impossible, the result is Impossible with the majority class of the view.
*/
func (s *Statistic) Best() Split {
	best := Split{Kind: Impossible}
	for _, col := range s.columns {
		if sp := s.Column(col); sp.BetterThan(best) {
			best = sp
		}
	}
	if best.IsImpossible() {
		return NewImpossible(s.dist.Majority(s.random()))
	}
	return best
}

func (s *Statistic) random() *rand.Rand {
	return s.data.Random()
}
