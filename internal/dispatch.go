package internal

import (
	"sort"

	"github.com/sirupsen/logrus"
)

type dispatchKind int

const (
	sparseDispatch dispatchKind = iota
	denseDispatch
)

func (k dispatchKind) String() string {
	if k == denseDispatch {
		return "dense"
	}
	return "sparse"
}

// dispatchPlan is the strategy chosen for a switch and the costs that
// decided it
type dispatchPlan struct {
	kind   dispatchKind
	lo, hi int32
	n      int

	tableSpace, tableTime   int64
	lookupSpace, lookupTime int64
}

// chooseDispatch weighs a jump table against a sorted lookup for the given
// case values, time counting three times as much as space
func chooseDispatch(values []int32) dispatchPlan {
	plan := dispatchPlan{kind: sparseDispatch, n: len(values)}
	if plan.n == 0 {
		return plan
	}
	plan.lo, plan.hi = values[0], values[0]
	for _, v := range values[1:] {
		if v < plan.lo {
			plan.lo = v
		}
		if v > plan.hi {
			plan.hi = v
		}
	}
	plan.tableSpace = 5 + (int64(plan.hi) - int64(plan.lo))
	plan.tableTime = 3
	plan.lookupSpace = 3 + 2*int64(plan.n)
	plan.lookupTime = int64(plan.n)
	if plan.tableSpace+3*plan.tableTime <= plan.lookupSpace+3*plan.lookupTime {
		plan.kind = denseDispatch
	}
	return plan
}

func (p dispatchPlan) fields() logrus.Fields {
	return logrus.Fields{
		"strategy":   p.kind,
		"cases":      p.n,
		"low":        p.lo,
		"high":       p.hi,
		"tableCost":  p.tableSpace + 3*p.tableTime,
		"lookupCost": p.lookupSpace + 3*p.lookupTime,
	}
}

// emitDispatch emits the switch instruction routing each case value to
// its label, values absent from pairs go to dflt
func emitDispatch(out Emitter, plan dispatchPlan, pairs []SwitchPair, dflt Label) {
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].Value < pairs[j].Value })
	if plan.kind == sparseDispatch {
		out.AddSparseDispatchInstruction(dflt, len(pairs), pairs)
		return
	}
	targets := make([]Label, int64(plan.hi)-int64(plan.lo)+1)
	for i := range targets {
		targets[i] = dflt
	}
	for _, p := range pairs {
		targets[int64(p.Value)-int64(plan.lo)] = p.Target
	}
	out.AddDenseDispatchInstruction(dflt, plan.lo, plan.hi, targets)
}
