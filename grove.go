/*
Package grove grows classification trees and random forests from views of a
binned dataset.

Growing a tree is split in tasks, one per node, kept in a queue.Queue: Seed
pushes the task for the root, and workers running Work pull tasks, develop
their node with BranchOut and push the tasks for its branches until none is
left. Grow wires all of it together.
*/
package grove

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/pbanos/grove/queue"
	"github.com/pbanos/grove/split"
	"github.com/pbanos/grove/tree"
	"github.com/pbanos/grove/view"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// emptyQueueSleep is how long an idle worker waits before pulling again
// while other workers are still running tasks.
const emptyQueueSleep = time.Millisecond

// BuildStats counts the nodes developed while growing a tree.
type BuildStats struct {
	Nodes    int
	Leaves   int
	Inner    int
	MaxDepth int
}

func (s *BuildStats) record(n *tree.Node, depth int) {
	s.Nodes++
	if n.Kind() == tree.Inner {
		s.Inner++
	} else {
		s.Leaves++
	}
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}
}

// Merge adds the counts of o to s.
func (s *BuildStats) Merge(o BuildStats) {
	s.Nodes += o.Nodes
	s.Leaves += o.Leaves
	s.Inner += o.Inner
	if o.MaxDepth > s.MaxDepth {
		s.MaxDepth = o.MaxDepth
	}
}

/*
Seed takes a context, a view with the training data, a configuration and a
queue and sets everything up so that workers that consume from the queue
afterwards grow a tree from the data.

Specifically it seeds a random source with cfg.Seed, draws the bag the tree is
grown from (a sample with replacement of the data when bagging is enabled, the
data itself otherwise) and pushes the task for the root of the tree on the
queue. It returns the tree to be grown and its bag, or an error if the bag is
empty or the task cannot be pushed.
*/
func Seed(ctx context.Context, data *view.Data, cfg Config, q queue.Queue) (*tree.Tree, *view.Data, error) {
	rnd := rand.New(rand.NewSource(cfg.Seed))
	bag := data.WithRandom(rnd)
	if cfg.Bagging {
		bag = bag.SampleWithReplacement(cfg.BagFraction)
	}
	if bag.Rows() == 0 {
		return nil, nil, errors.Errorf("no rows to grow a tree from %s", data.Name())
	}
	task := &queue.Task{
		Data: bag,
		Dist: bag.Distribution(),
		Seed: rnd.Int63(),
		Path: queue.RootPath,
	}
	if err := q.Push(ctx, task); err != nil {
		return nil, nil, errors.Wrap(err, "pushing root task")
	}
	return tree.New(nil), bag, nil
}

/*
BranchOut takes a context, a task, the tree being grown, a configuration and
the stats of the calling worker, and develops the node of the task: a leaf when
the task rows hold a single class, a stopping rule applies or no column can
split them, or an inner node testing the best split among cfg.Features columns
sampled at random. The node is attached to its slot in the tree and recorded in
stats, and the tasks to grow its branches are returned.

The only error BranchOut returns is that of a done context, which is checked
before doing anything.
*/
func BranchOut(ctx context.Context, task *queue.Task, t *tree.Tree, cfg Config, stats *BuildStats) ([]*queue.Task, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rnd := rand.New(rand.NewSource(task.Seed))
	data := task.Data.WithRandom(rnd)
	var n *tree.Node
	var tasks []*queue.Task
	rules := cfg.StoppingRules()
	if class, ok := task.Dist.Single(); ok {
		n = tree.NewLeaf(class)
	} else if stop(rules, task, nil) {
		n = tree.NewLeaf(task.Dist.Majority(rnd))
	} else {
		columns := sampleColumns(data.Columns(), cfg.Features, rnd)
		sp := split.NewStatistic(data, columns).Best()
		switch {
		case sp.IsImpossible():
			n = tree.NewLeaf(sp.Class)
		case stop(rules, task, &sp):
			n = tree.NewLeaf(task.Dist.Majority(rnd))
		default:
			p := NewPartition(task, sp, cfg.MultiwayCategorical, rnd)
			n, tasks = p.Node, p.Tasks
		}
	}
	if task.Parent == nil {
		t.SetRoot(n)
	} else {
		task.Parent.SetBranch(task.Branch, n)
	}
	stats.record(n, task.Depth)
	return tasks, nil
}

// Work takes a context, a tree, a queue and a configuration
// and enters a loop in which it:
//   - pulls a task for the queue,
//   - develops its node using BranchOut
//   - pushes the tasks for the node's branches into the queue
//   - marks the task as completed on the queue
//
// If at some point no task can be pulled from the queue and
// the sum of tasks running and pending on the queue is 0, the
// worker ends returning the stats of the nodes it developed.
// If no task can be pulled but the sum is not 0, then the
// worker will sleep for a short while and then retry.
//
// Work will return a non-nil error along with its stats if
// the given context times out or is cancelled, or if an
// operation with the given queue returns a non-nil error.
func Work(ctx context.Context, t *tree.Tree, q queue.Queue, cfg Config) (BuildStats, error) {
	var stats BuildStats
	for {
		task, tctx, err := q.Pull(ctx)
		if err != nil {
			return stats, err
		}
		if task == nil {
			p, r, err := q.Count(ctx)
			if err != nil {
				return stats, err
			}
			if p+r == 0 {
				return stats, nil
			}
			select {
			case <-ctx.Done():
				return stats, ctx.Err()
			case <-time.After(emptyQueueSleep):
			}
			continue
		}
		mctx, cancel := mergeCtxCancel(tctx, ctx)
		err = workTask(mctx, task, t, q, cfg, &stats)
		cancel()
		if err != nil {
			return stats, err
		}
		if err = ctx.Err(); err != nil {
			return stats, err
		}
	}
}

func workTask(ctx context.Context, task *queue.Task, t *tree.Tree, q queue.Queue, cfg Config, stats *BuildStats) error {
	defer func() {
		q.Drop(context.Background(), task.ID())
	}()
	tasks, err := BranchOut(ctx, task, t, cfg, stats)
	if err != nil {
		return err
	}
	for _, st := range tasks {
		if err = q.Push(ctx, st); err != nil {
			return err
		}
	}
	return q.Complete(ctx, task.ID())
}

func mergeCtxCancel(ctx1, ctx2 context.Context) (context.Context, context.CancelFunc) {
	mctx, cancel := context.WithCancel(ctx1)
	go func() {
		select {
		case <-mctx.Done():
		case <-ctx2.Done():
			cancel()
		}
	}()
	return mctx, cancel
}

/*
Grow takes a context, a view with the training data and options over the
default configuration and grows a tree from the data. See GrowWith.
*/
func Grow(ctx context.Context, data *view.Data, opts ...Option) (*tree.Tree, BuildStats, error) {
	t, _, stats, err := GrowWith(ctx, data, DefaultConfig().With(opts...))
	return t, stats, err
}

/*
GrowWith takes a context, a view with the training data and a configuration,
and grows a tree from the data with cfg.Workers workers. It returns the tree,
the bag it was grown from and the stats of the build.

The shape of the tree depends only on the data and the configuration, not on
the number of workers. If the context is done before the tree is complete, the
nodes developed so far are kept and the tree is returned along with the
context error: branches that were not grown resolve to the default class of
their parent, and a tree whose root was not developed is a single leaf with
the majority class of the bag.
*/
func GrowWith(ctx context.Context, data *view.Data, cfg Config) (*tree.Tree, *view.Data, BuildStats, error) {
	var stats BuildStats
	if err := cfg.Validate(); err != nil {
		return nil, nil, stats, err
	}
	logger := cfg.Logger().With(zap.String("data", data.Name()), zap.Int64("seed", cfg.Seed))
	start := time.Now()
	q := queue.New()
	defer q.Stop(context.Background())
	t, bag, err := Seed(ctx, data, cfg, q)
	if err != nil {
		return nil, nil, stats, errors.Wrap(err, "seeding tree")
	}
	logger.Debug("seeded tree", zap.Int("rows", data.Rows()), zap.Int("bag", bag.Rows()))

	wctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var wg sync.WaitGroup
	var lock sync.Mutex
	var firstErr error
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ws, err := Work(wctx, t, q, cfg)
			lock.Lock()
			defer lock.Unlock()
			stats.Merge(ws)
			if err != nil && firstErr == nil {
				firstErr = err
				cancel()
			}
		}()
	}
	wg.Wait()

	if t.Root() == nil {
		t.SetRoot(tree.NewLeaf(bag.Distribution().Majority(nil)))
	}
	fields := []zap.Field{
		zap.Int("nodes", stats.Nodes),
		zap.Int("leaves", stats.Leaves),
		zap.Int("depth", stats.MaxDepth),
		zap.Duration("elapsed", time.Since(start)),
	}
	if firstErr != nil {
		logger.Warn("tree growth interrupted", append(fields, zap.Error(firstErr))...)
		return t, bag, stats, errors.Wrap(firstErr, "growing tree")
	}
	logger.Debug("grew tree", fields...)
	return t, bag, stats, nil
}

// sampleColumns returns k columns among the first n chosen at random with a
// partial Fisher-Yates shuffle, or all of them when k is 0 or not below n.
func sampleColumns(n, k int, rnd *rand.Rand) []int {
	columns := make([]int, n)
	for i := range columns {
		columns[i] = i
	}
	if k <= 0 || k >= n {
		return columns
	}
	for i := 0; i < k; i++ {
		j := i + rnd.Intn(n-i)
		columns[i], columns[j] = columns[j], columns[i]
	}
	return columns[:k]
}
