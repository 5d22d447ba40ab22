package internal

type flowKind int

const (
	flowLoop flowKind = iota
	flowSwitch
)

// flow is the break/continue linkage shared by loops and switches. Labels
// are zero until the owning statement creates them during generation.
type flow struct {
	kind flowKind

	hasBreak   bool
	breakLabel Label

	hasContinue   bool
	continueLabel Label
}

func (f *flow) continuable() bool {
	return f.kind == flowLoop
}

// flowStack holds the loops and switches enclosing the statement being
// analyzed, innermost last
type flowStack struct {
	frames []*flow
}

func (s *flowStack) push(f *flow) {
	s.frames = append(s.frames, f)
}

// pop removes f, which has to be the innermost frame
func (s *flowStack) pop(f *flow) {
	if len(s.frames) == 0 {
		fatalInvariant("flow stack underflow")
	}
	if top := s.frames[len(s.frames)-1]; top != f {
		fatalInvariant("unbalanced flow stack")
	}
	s.frames = s.frames[:len(s.frames)-1]
}

func (s *flowStack) depth() int {
	return len(s.frames)
}

// breakTarget returns the innermost loop or switch
func (s *flowStack) breakTarget() *flow {
	if len(s.frames) == 0 {
		return nil
	}
	return s.frames[len(s.frames)-1]
}

// continueTarget returns the innermost loop, switches in between are skipped
func (s *flowStack) continueTarget() *flow {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].continuable() {
			return s.frames[i]
		}
	}
	return nil
}
