package grove

import (
	"github.com/pbanos/grove/queue"
	"github.com/pbanos/grove/split"
)

/*
StoppingRule is an interface wrapping the Stop method, that can be used to
decide whether the node of a task must become a leaf instead of being split.

Stop is consulted twice for every node that holds more than one class: first
with a nil split, before searching for one, and then with the best split found.
Rules that need the split must return false when given nil.
*/
type StoppingRule interface {
	Stop(t *queue.Task, sp *split.Split) bool
}

/*
StoppingRuleFunc wraps a function with the Stop method signature to implement
the StoppingRule interface
*/
type StoppingRuleFunc func(t *queue.Task, sp *split.Split) bool

// Stop invokes the StoppingRuleFunc with the given task and split.
func (f StoppingRuleFunc) Stop(t *queue.Task, sp *split.Split) bool {
	return f(t, sp)
}

/*
MaxDepthRule returns a StoppingRule that stops nodes at the given depth or
deeper, the root being at depth 0.
*/
func MaxDepthRule(depth int) StoppingRule {
	return StoppingRuleFunc(func(t *queue.Task, _ *split.Split) bool {
		return t.Depth >= depth
	})
}

/*
MinRowsRule returns a StoppingRule that stops nodes with fewer training rows
than the given minimum.
*/
func MinRowsRule(rows int) StoppingRule {
	return StoppingRuleFunc(func(t *queue.Task, _ *split.Split) bool {
		return t.Data.Rows() < rows
	})
}

/*
MinGainRule returns a StoppingRule that stops nodes whose best split has a
fitness below the given minimum.
*/
func MinGainRule(gain float64) StoppingRule {
	return StoppingRuleFunc(func(t *queue.Task, sp *split.Split) bool {
		return sp != nil && sp.Fitness() < gain
	})
}

func stop(rules []StoppingRule, t *queue.Task, sp *split.Split) bool {
	for _, r := range rules {
		if r.Stop(t, sp) {
			return true
		}
	}
	return false
}
