package internal

import (
	"math"
	"testing"
)

func TestChooseDispatch(t *testing.T) {
	cases := []struct {
		name       string
		values     []int32
		kind       dispatchKind
		tableCost  int64
		lookupCost int64
	}{
		{"consecutive", []int32{1, 2, 3}, denseDispatch, 16, 18},
		{"spread", []int32{1, 100, 500}, sparseDispatch, 513, 18},
		{"unordered", []int32{4, 1, 2}, denseDispatch, 17, 18},
		{"single", []int32{5}, sparseDispatch, 14, 8},
		{"negative", []int32{-2, -1, 0, 1}, denseDispatch, 17, 23},
		{"extremes", []int32{math.MinInt32, math.MaxInt32}, sparseDispatch, 5 + math.MaxUint32 + 9, 13},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			plan := chooseDispatch(c.values)
			if plan.kind != c.kind {
				t.Errorf("expected %s dispatch, found %s", c.kind, plan.kind)
			}
			if cost := plan.tableSpace + 3*plan.tableTime; cost != c.tableCost {
				t.Errorf("expected table cost %d, found %d", c.tableCost, cost)
			}
			if cost := plan.lookupSpace + 3*plan.lookupTime; cost != c.lookupCost {
				t.Errorf("expected lookup cost %d, found %d", c.lookupCost, cost)
			}
		})
	}
}

func TestChooseDispatchWithoutCases(t *testing.T) {
	plan := chooseDispatch(nil)
	if plan.kind != sparseDispatch || plan.n != 0 {
		t.Errorf("a switch without cases is a sparse dispatch over nothing, found %+v", plan)
	}
}

func TestEmitDispatch(t *testing.T) {
	code := newListing()
	a, b, dflt := code.CreateLabel(), code.CreateLabel(), code.CreateLabel()
	pairs := []SwitchPair{{Value: 3, Target: b}, {Value: 1, Target: a}}
	emitDispatch(code, chooseDispatch([]int32{3, 1}), pairs, dflt)

	ins := code.code[0]
	if ins.op != LOOKUPSWITCH {
		t.Fatalf("expected a sparse dispatch, found %s", ins.op)
	}
	if ins.pairs[0].Value != 1 || ins.pairs[1].Value != 3 {
		t.Errorf("pairs are not sorted: %v", ins.pairs)
	}

	code = newListing()
	a, b, dflt = code.CreateLabel(), code.CreateLabel(), code.CreateLabel()
	pairs = []SwitchPair{{Value: 12, Target: b}, {Value: 10, Target: a}, {Value: 13, Target: a}}
	emitDispatch(code, chooseDispatch([]int32{12, 10, 13}), pairs, dflt)

	ins = code.code[0]
	if ins.op != TABLESWITCH || ins.lo != 10 || ins.hi != 13 {
		t.Fatalf("expected a dense dispatch over 10..13, found %s", ins)
	}
	want := []Label{a, dflt, b, a}
	for i, target := range ins.targets {
		if target != want[i] {
			t.Errorf("target %d: expected %s, found %s", i, want[i], target)
		}
	}
}
