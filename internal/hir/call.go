package hir

import "adaptcall/internal/symbols"

// Call is a call site: a reference to a callee and its ordered actual
// expressions, owned by the statement that contains it.
type Call struct {
	Callee        *Func
	Actuals       []*Expr
	SquareBracket bool
}

// CallInfo is the transient record constructed per call-site visit: the
// call, the resolved identity of each actual, and the caller-supplied
// (possibly empty, when positional) names.
type CallInfo struct {
	Call          *Call
	ActualSymbols []symbols.ID
	Names         []NameOrBlank
	Callee        *Func
}

// NameOrBlank is an actual's caller-supplied name, or the zero value when
// the actual was passed positionally.
type NameOrBlank struct {
	Name  string
	Named bool
}

// ActualToFormalMap is a partial mapping from actual position to the
// formal it targets, built by the resolver stage that chose Callee and
// consumed by AdaptCall.
type ActualToFormalMap map[int]*Param

// SymbolMap is a partial mapping from original symbols to replacement
// symbols, used when cloning bodies and substituting formals.
type SymbolMap map[symbols.ID]symbols.ID

func (m SymbolMap) Put(from, to symbols.ID) { m[from] = to }
func (m SymbolMap) Get(from symbols.ID) (symbols.ID, bool) {
	to, ok := m[from]
	return to, ok
}
