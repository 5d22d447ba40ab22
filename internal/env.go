package internal

type localVar struct {
	name string
	typ  *Type
	slot int
}

// frameSlots hands out local variable slots for one method body, slots are
// never reused
type frameSlots struct {
	next int
}

type env struct {
	enclosing *env
	values    map[string]*localVar
	slots     *frameSlots
}

func newEnv(enclosing *env) *env {
	e := &env{
		enclosing: enclosing,
		values:    make(map[string]*localVar),
	}
	if enclosing != nil {
		e.slots = enclosing.slots
	} else {
		e.slots = &frameSlots{}
	}
	return e
}

func (e *env) get(name string) (*localVar, bool) {
	if v, ok := e.values[name]; ok {
		return v, true
	}
	if e.enclosing != nil {
		return e.enclosing.get(name)
	}
	return nil, false
}

// define declares a local in this scope. A name already visible from an
// enclosing scope of the same method cannot be declared again.
func (e *env) define(name string, typ *Type) (*localVar, bool) {
	if _, exists := e.get(name); exists {
		return nil, false
	}
	v := &localVar{name: name, typ: typ, slot: e.allocSlot()}
	e.values[name] = v
	return v, true
}

func (e *env) allocSlot() int {
	slot := e.slots.next
	e.slots.next++
	return slot
}

func (e *env) maxLocals() int {
	return e.slots.next
}
