package internal

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestListingLabels(t *testing.T) {
	l := newListing()
	top := l.CreateLabel()
	end := l.CreateLabel()
	if top == 0 || end == top {
		t.Fatal("labels are distinct and never zero")
	}
	l.AddLabel(top)
	l.AddOneArgInstruction(LDC, int32(1))
	l.AddBranchInstruction(IFEQ, end)
	l.AddBranchInstruction(GOTO, top)
	l.AddLabel(end)
	l.AddNoArgInstruction(RETURN)
	l.resolve()

	if l.pc(top) != 0 || l.pc(end) != 3 {
		t.Errorf("unexpected positions %d and %d", l.pc(top), l.pc(end))
	}
	expected := "L1:\n" +
		"       0  LDC 1\n" +
		"       1  IFEQ L2\n" +
		"       2  GOTO L1\n" +
		"L2:\n" +
		"       3  RETURN\n"
	if diff := cmp.Diff(expected, l.String()); diff != "" {
		t.Errorf("listing mismatch (-want +got):\n%s", diff)
	}
}

func TestListingInvariants(t *testing.T) {
	t.Run("unplaced label", func(t *testing.T) {
		l := newListing()
		l.AddBranchInstruction(GOTO, l.CreateLabel())
		expectInternalError(t, l.resolve)
	})
	t.Run("unplaced handler label", func(t *testing.T) {
		l := newListing()
		start := l.CreateLabel()
		l.AddLabel(start)
		l.AddExceptionHandler(start, start, l.CreateLabel(), "")
		expectInternalError(t, l.resolve)
	})
	t.Run("label placed twice", func(t *testing.T) {
		l := newListing()
		label := l.CreateLabel()
		l.AddLabel(label)
		expectInternalError(t, func() { l.AddLabel(label) })
	})
	t.Run("branch opcode", func(t *testing.T) {
		l := newListing()
		expectInternalError(t, func() { l.AddBranchInstruction(IADD, l.CreateLabel()) })
	})
	t.Run("unsorted pairs", func(t *testing.T) {
		l := newListing()
		target := l.CreateLabel()
		pairs := []SwitchPair{{Value: 5, Target: target}, {Value: 1, Target: target}}
		expectInternalError(t, func() { l.AddSparseDispatchInstruction(target, 2, pairs) })
	})
	t.Run("dense range", func(t *testing.T) {
		l := newListing()
		target := l.CreateLabel()
		expectInternalError(t, func() { l.AddDenseDispatchInstruction(target, 1, 3, []Label{target}) })
	})
}
