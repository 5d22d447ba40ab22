package internal

import (
	"fmt"
	"sort"
	"strings"
)

// Label is a symbolic jump target, bound to an instruction offset when the
// listing is resolved. The zero Label means no label.
type Label int

func (l Label) String() string {
	return fmt.Sprintf("L%d", int(l))
}

// SwitchPair is one entry of a sparse dispatch
type SwitchPair struct {
	Value  int32
	Target Label
}

// Emitter receives the symbolic code of a compilation unit
type Emitter interface {
	CreateLabel() Label
	AddLabel(label Label)
	AddBranchInstruction(op Opcode, target Label)
	AddNoArgInstruction(op Opcode)
	AddOneArgInstruction(op Opcode, arg interface{})
	AddDenseDispatchInstruction(dflt Label, lo, hi int32, targets []Label)
	AddSparseDispatchInstruction(dflt Label, count int, pairs []SwitchPair)
	// AddExceptionHandler protects [start, end) with handler, an empty
	// exceptionType catches everything
	AddExceptionHandler(start, end, handler Label, exceptionType string)
}

type instruction struct {
	op  Opcode
	arg interface{}

	target Label

	dflt    Label
	lo, hi  int32
	targets []Label
	pairs   []SwitchPair
}

type handlerEntry struct {
	start, end, handler Label
	exceptionType       string
}

// listing records instructions and labels in emission order
type listing struct {
	code      []instruction
	handlers  []handlerEntry
	nextLabel int
	positions map[Label]int
}

func newListing() *listing {
	return &listing{
		positions: make(map[Label]int),
	}
}

func (l *listing) CreateLabel() Label {
	l.nextLabel++
	return Label(l.nextLabel)
}

func (l *listing) AddLabel(label Label) {
	if label == 0 {
		fatalInvariant("placing an absent label")
	}
	if _, placed := l.positions[label]; placed {
		fatalInvariant("label %s placed twice", label)
	}
	l.positions[label] = len(l.code)
}

func (l *listing) AddBranchInstruction(op Opcode, target Label) {
	if !op.isBranch() {
		fatalInvariant("%s is not a branch", op)
	}
	l.code = append(l.code, instruction{op: op, target: target})
}

func (l *listing) AddNoArgInstruction(op Opcode) {
	l.code = append(l.code, instruction{op: op})
}

func (l *listing) AddOneArgInstruction(op Opcode, arg interface{}) {
	l.code = append(l.code, instruction{op: op, arg: arg})
}

func (l *listing) AddDenseDispatchInstruction(dflt Label, lo, hi int32, targets []Label) {
	if int64(hi)-int64(lo)+1 != int64(len(targets)) {
		fatalInvariant("dense dispatch over %d..%d with %d targets", lo, hi, len(targets))
	}
	l.code = append(l.code, instruction{op: TABLESWITCH, dflt: dflt, lo: lo, hi: hi, targets: targets})
}

func (l *listing) AddSparseDispatchInstruction(dflt Label, count int, pairs []SwitchPair) {
	if count != len(pairs) {
		fatalInvariant("sparse dispatch with %d pairs, expected %d", len(pairs), count)
	}
	if !sort.SliceIsSorted(pairs, func(i, j int) bool { return pairs[i].Value < pairs[j].Value }) {
		fatalInvariant("sparse dispatch pairs are not sorted")
	}
	l.code = append(l.code, instruction{op: LOOKUPSWITCH, dflt: dflt, pairs: pairs})
}

func (l *listing) AddExceptionHandler(start, end, handler Label, exceptionType string) {
	l.handlers = append(l.handlers, handlerEntry{
		start:         start,
		end:           end,
		handler:       handler,
		exceptionType: exceptionType,
	})
}

// resolve checks that every referenced label has been placed
func (l *listing) resolve() {
	for pc, ins := range l.code {
		for _, label := range ins.labels() {
			if _, ok := l.positions[label]; !ok {
				fatalInvariant("instruction %d (%s) refers to unplaced label %s", pc, ins.op, label)
			}
		}
	}
	for _, h := range l.handlers {
		for _, label := range []Label{h.start, h.end, h.handler} {
			if _, ok := l.positions[label]; !ok {
				fatalInvariant("exception handler refers to unplaced label %s", label)
			}
		}
	}
}

func (l *listing) pc(label Label) int {
	pos, ok := l.positions[label]
	if !ok {
		fatalInvariant("unplaced label %s", label)
	}
	return pos
}

func (ins instruction) labels() []Label {
	switch ins.op {
	case TABLESWITCH:
		return append([]Label{ins.dflt}, ins.targets...)
	case LOOKUPSWITCH:
		out := []Label{ins.dflt}
		for _, p := range ins.pairs {
			out = append(out, p.Target)
		}
		return out
	}
	if ins.op.isBranch() {
		return []Label{ins.target}
	}
	return nil
}

func (ins instruction) String() string {
	switch {
	case ins.op == TABLESWITCH:
		targets := make([]string, len(ins.targets))
		for i, t := range ins.targets {
			targets[i] = t.String()
		}
		return fmt.Sprintf("TABLESWITCH %d..%d [%s] default %s", ins.lo, ins.hi, strings.Join(targets, " "), ins.dflt)
	case ins.op == LOOKUPSWITCH:
		pairs := make([]string, len(ins.pairs))
		for i, p := range ins.pairs {
			pairs[i] = fmt.Sprintf("%d:%s", p.Value, p.Target)
		}
		return fmt.Sprintf("LOOKUPSWITCH %d {%s} default %s", len(ins.pairs), strings.Join(pairs, " "), ins.dflt)
	case ins.op.isBranch():
		return fmt.Sprintf("%s %s", ins.op, ins.target)
	case ins.arg != nil:
		if s, ok := ins.arg.(string); ok && ins.op == LDC {
			return fmt.Sprintf("%s %q", ins.op, s)
		}
		return fmt.Sprintf("%s %v", ins.op, ins.arg)
	}
	return ins.op.String()
}

func (l *listing) String() string {
	at := make(map[int][]Label)
	for label, pos := range l.positions {
		at[pos] = append(at[pos], label)
	}
	for pos := range at {
		sort.Slice(at[pos], func(i, j int) bool { return at[pos][i] < at[pos][j] })
	}

	var sb strings.Builder
	for pc := 0; pc <= len(l.code); pc++ {
		for _, label := range at[pc] {
			fmt.Fprintf(&sb, "%s:\n", label)
		}
		if pc < len(l.code) {
			fmt.Fprintf(&sb, "    %4d  %s\n", pc, l.code[pc])
		}
	}
	if len(l.handlers) > 0 {
		sb.WriteString("exception table:\n")
		for _, h := range l.handlers {
			kind := h.exceptionType
			if kind == "" {
				kind = "any"
			}
			fmt.Fprintf(&sb, "    %s %s -> %s %s\n", h.start, h.end, h.handler, kind)
		}
	}
	return sb.String()
}
