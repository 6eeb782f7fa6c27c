package hir

import "fortio.org/safecast"

// Module owns the function arena: every Func, original or synthesized,
// must be inserted here before any other node can reference it, matching
// spec.md section 5's "every newly allocated node is inserted into a parent
// block before the next allocation that references it."
type Module struct {
	Funcs []*Func
}

func NewModule() *Module { return &Module{} }

// Define inserts fn into the module's definition block and assigns its ID.
func (m *Module) Define(fn *Func) FuncID {
	m.Funcs = append(m.Funcs, fn)
	id, err := safecast.Conv[uint32](len(m.Funcs))
	if err != nil {
		panic(err)
	}
	fn.ID = FuncID(id)
	return fn.ID
}

// Contains reports whether fn is present in the module's definition blocks
// - spec.md section 8's "every emitted wrapper is present in the program
// graph's definition blocks" invariant.
func (m *Module) Contains(fn *Func) bool {
	for _, f := range m.Funcs {
		if f == fn {
			return true
		}
	}
	return false
}
