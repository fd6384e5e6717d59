package grove

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/pbanos/grove/tree"
	"github.com/pbanos/grove/view"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// Forest is an ensemble of trees that classifies rows by majority vote.
type Forest struct {
	trees   []*tree.Tree
	bags    []*view.Data
	stats   []BuildStats
	classes int
}

/*
GrowForest takes a context, a view with the training data and a configuration
and grows cfg.Trees trees from it, up to cfg.Workers of them at a time with a
single worker each. Every tree gets its own seed drawn in order from a source
seeded with cfg.Seed, so the forest depends only on the data and the
configuration.

If a tree cannot be grown the first error is returned and the forest is
discarded.
*/
func GrowForest(ctx context.Context, data *view.Data, cfg Config) (*Forest, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger()
	start := time.Now()
	rnd := rand.New(rand.NewSource(cfg.Seed))
	f := &Forest{
		trees:   make([]*tree.Tree, cfg.Trees),
		bags:    make([]*view.Data, cfg.Trees),
		stats:   make([]BuildStats, cfg.Trees),
		classes: data.Classes(),
	}
	seeds := make([]int64, cfg.Trees)
	for i := range seeds {
		seeds[i] = rnd.Int63()
	}

	fctx, cancel := context.WithCancel(ctx)
	defer cancel()
	sem := make(chan struct{}, cfg.Workers)
	errs := make([]error, cfg.Trees)
	var wg sync.WaitGroup
	for i := range seeds {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-fctx.Done():
				errs[i] = fctx.Err()
				return
			}
			defer func() { <-sem }()
			tcfg := cfg.With(RandomSeed(seeds[i]), Workers(1), Logger(logger.With(zap.Int("tree", i))))
			t, bag, stats, err := GrowWith(fctx, data, tcfg)
			if err != nil {
				errs[i] = errors.Wrapf(err, "tree %d", i)
				cancel()
				return
			}
			f.trees[i], f.bags[i], f.stats[i] = t, bag, stats
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, errors.Wrap(err, "growing forest")
		}
	}
	total := f.Stats()
	logger.Info("grew forest",
		zap.String("data", data.Name()),
		zap.Int("trees", cfg.Trees),
		zap.Int("nodes", total.Nodes),
		zap.Int("depth", total.MaxDepth),
		zap.Duration("elapsed", time.Since(start)),
	)
	return f, nil
}

// Trees returns the trees of the forest.
func (f *Forest) Trees() []*tree.Tree { return f.trees }

// Stats returns the build stats of all the trees of the forest merged.
func (f *Forest) Stats() BuildStats {
	var total BuildStats
	for _, s := range f.stats {
		total.Merge(s)
	}
	return total
}

// Classify returns the class most trees predict for the row, the lowest one
// on ties.
func (f *Forest) Classify(r view.Row) int {
	votes := view.NewDistribution(f.classes)
	for _, t := range f.trees {
		votes[t.Classify(r)]++
	}
	return votes.Majority(nil)
}

/*
Test takes a view and returns the rate of its rows the forest classifies
correctly. Empty views yield 0.
*/
func (f *Forest) Test(data *view.Data) float64 {
	if data.Rows() == 0 {
		return 0.0
	}
	var hits int
	data.Each(func(r view.Row) bool {
		if f.Classify(r) == r.Class() {
			hits++
		}
		return true
	})
	return float64(hits) / float64(data.Rows())
}

/*
OOB performs the out-of-bag evaluation of the forest: every tree votes on the
rows of the training data left out of its bag, and every row that got votes is
classified by their majority, the lowest class on ties.

It returns the confusion matrix of those classifications, with a row per actual
class and a column per predicted class, and the rate of them that were right.
Forests grown without bagging have no out-of-bag rows and yield an error
wrapping view.ErrUnsupported.
*/
func (f *Forest) OOB() (*mat.Dense, float64, error) {
	votes := make(map[int]view.Distribution)
	classes := make(map[int]int)
	for i, bag := range f.bags {
		oob, err := bag.Complement()
		if err != nil {
			return nil, 0, errors.Wrapf(err, "out-of-bag rows of tree %d", i)
		}
		oob.Each(func(r view.Row) bool {
			v, ok := votes[r.Index()]
			if !ok {
				v = view.NewDistribution(f.classes)
				votes[r.Index()] = v
				classes[r.Index()] = r.Class()
			}
			v[f.trees[i].Classify(r)]++
			return true
		})
	}
	confusion := mat.NewDense(f.classes, f.classes, nil)
	for idx, v := range votes {
		actual, predicted := classes[idx], v.Majority(nil)
		confusion.Set(actual, predicted, confusion.At(actual, predicted)+1)
	}
	if len(votes) == 0 {
		return confusion, 0, nil
	}
	var hits float64
	for c := 0; c < f.classes; c++ {
		hits += confusion.At(c, c)
	}
	return confusion, hits / float64(len(votes)), nil
}

func (f *Forest) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Forest of %d trees\n", len(f.trees))
	for i, t := range f.trees {
		fmt.Fprintf(&sb, "%d: %v\n", i, t)
	}
	return sb.String()
}
