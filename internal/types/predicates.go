package types

// Predicates is the interface the call-site adaptation layer consumes from
// the surrounding type system (spec.md section 6). It is implemented here
// concretely so the layer is independently testable; the real compiler
// would satisfy this interface from its overload-resolution machinery
// instead.
type Predicates interface {
	CanCoerce(actual ID, formal ID) bool
	CanDispatch(actual ID, formal ID) (ok bool, promotes bool)
	IsDispatchParent(parent, child ID) bool
	IsRecord(id ID) bool
	IsUnion(id ID) bool
	IsRecordWrappedType(id ID) bool
	IsSyncType(id ID) bool
	IsSingleType(id ID) bool
	IsString(id ID) bool
	IsStringC(id ID) bool
	IsReference(id ID) bool
	IsTupleReference(id ID) bool
	MakeRefType(id ID) ID
	Get(id ID) *Type
}

// numericRank orders numeric widenings so CanCoerce can decide "safe
// implicit widening" without a full promotion-and-defaulting pass.
var numericRank = map[string]int{
	"int8": 1, "int16": 2, "int32": 3, "int64": 4,
	"uint8": 1, "uint16": 2, "uint32": 3, "uint64": 4,
	"float32": 5, "float64": 6,
}

// CanCoerce reports whether an implicit conversion from actual to formal
// exists that later lowering can emit directly (a numeric widening, a
// dereference of any reference, a sync/single read, or a string to C-string
// conversion). It never reports
// a coercion for two unrelated record/class types - that is promotion's or
// dispatch's job, not coercion's.
func (in *Interner) CanCoerce(actual, formal ID) bool {
	a, f := in.Get(actual), in.Get(formal)
	if a == nil || f == nil {
		return false
	}
	switch {
	case a.Kind == KindSync || a.Kind == KindSingle:
		return true // readFE/readFF always produces something re-checkable
	case a.Kind == KindReference:
		return true // deref always produces something re-checkable
	case a.Kind == KindNumeric && f.Kind == KindNumeric:
		ra, rf := numericRank[a.Name], numericRank[f.Name]
		return ra != 0 && rf != 0 && ra <= rf
	case a.Kind == KindString && f.Kind == KindStringC:
		return true
	default:
		return false
	}
}

// CanDispatch reports whether actual can be passed where formal is
// expected, either directly (promotes=false) or by promoting element-wise
// over actual's collection shape (promotes=true), grounded on
// wrappers.cpp's isPromotionRequired/canDispatch call shape.
func (in *Interner) CanDispatch(actual, formal ID) (ok bool, promotes bool) {
	a, f := in.Get(actual), in.Get(formal)
	if a == nil || f == nil {
		return false, false
	}
	if actual == formal {
		return true, false
	}
	if in.IsDispatchParent(formal, actual) {
		return true, false
	}
	if a.Kind == KindRecordWrapped && a.Elem != NoID {
		elem := in.Get(a.Elem)
		if elem != nil && (a.Elem == formal || in.IsDispatchParent(formal, a.Elem)) {
			return true, true
		}
	}
	return false, false
}

var _ Predicates = (*Interner)(nil)
