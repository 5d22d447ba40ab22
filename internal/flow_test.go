package internal

import "testing"

func expectInternalError(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		t.Helper()
		r := recover()
		if _, ok := r.(internalError); !ok {
			t.Fatalf("expected an internal error, recovered %v", r)
		}
	}()
	fn()
}

func TestFlowStackTargets(t *testing.T) {
	s := &flowStack{}
	if s.breakTarget() != nil || s.continueTarget() != nil {
		t.Fatal("an empty stack has no targets")
	}

	outer := &flow{kind: flowLoop}
	sw := &flow{kind: flowSwitch}
	inner := &flow{kind: flowSwitch}
	s.push(outer)
	s.push(sw)
	s.push(inner)

	if s.breakTarget() != inner {
		t.Error("break must bind to the innermost frame")
	}
	if s.continueTarget() != outer {
		t.Error("continue must skip switch frames")
	}

	s.pop(inner)
	s.pop(sw)
	if s.breakTarget() != outer || s.continueTarget() != outer {
		t.Error("targets after popping the switches")
	}
	s.pop(outer)
	if s.depth() != 0 {
		t.Errorf("expected an empty stack, depth %d", s.depth())
	}
}

func TestFlowStackUnbalanced(t *testing.T) {
	expectInternalError(t, func() {
		(&flowStack{}).pop(&flow{})
	})
	expectInternalError(t, func() {
		s := &flowStack{}
		s.push(&flow{})
		s.pop(&flow{})
	})
}
