// Package types models the minimal type-shape surface the call-site
// adaptation layer needs from the surrounding type system: enough to decide
// coercion, dispatch, and promotion without re-implementing overload
// resolution or type inference (those remain external collaborators).
package types

import "fortio.org/safecast"

// ID identifies a type within the shared Interner. Zero is invalid.
type ID uint32

const NoID ID = 0

// Kind classifies a type's shape for the predicates this layer consults.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindVoid
	KindBool
	KindNumeric
	KindString
	KindStringC // C-string, the coercion target for immediate string literals
	KindReference
	KindSync   // full/empty synchronized type, read via readFE
	KindSingle // single-assignment type, read via readFF
	KindRecordWrapped
	KindTypeVariable
	KindMethodToken
	KindTypeDefaultToken
	KindRecord
	KindClass
)

// Type is one entry in the type table.
type Type struct {
	Kind Kind
	Name string
	// Elem is the referent type for KindReference, the synchronized payload
	// for KindSync/KindSingle, and the element type for a record-wrapped
	// (array/domain/dist) type.
	Elem ID
	// Parent is the dispatch parent for KindClass/KindRecord inheritance
	// chains; NoID if this type has none.
	Parent ID
	// RefType caches the reference-to-this-type, lazily created by
	// MakeRefType, mirroring the original's Type::refType field.
	RefType ID
	// TupleRef marks a reference type produced by referencing a tuple; two
	// such references on both sides of a coercion skip the deref step
	// (spec.md section 9's "two tuple-reference forms" open question).
	TupleRef bool
}

// Interner owns the type table.
type Interner struct {
	types []Type
}

func NewInterner() *Interner {
	return &Interner{types: []Type{{Kind: KindInvalid, Name: "<invalid>"}}}
}

func (in *Interner) Add(t Type) ID {
	in.types = append(in.types, t)
	id, err := safecast.Conv[uint32](len(in.types) - 1)
	if err != nil {
		panic(err)
	}
	return ID(id)
}

func (in *Interner) Get(id ID) *Type {
	if int(id) <= 0 || int(id) >= len(in.types) {
		return nil
	}
	return &in.types[id]
}

func (in *Interner) Kind(id ID) Kind {
	t := in.Get(id)
	if t == nil {
		return KindInvalid
	}
	return t.Kind
}

// MakeRefType lazily allocates (or returns the cached) reference type for id,
// grounded on the original's makeRefType/refType-field pattern.
func (in *Interner) MakeRefType(id ID) ID {
	t := in.Get(id)
	if t == nil {
		return NoID
	}
	if t.RefType != NoID {
		return t.RefType
	}
	ref := in.Add(Type{Kind: KindReference, Name: "ref(" + t.Name + ")", Elem: id})
	in.Get(id).RefType = ref
	return ref
}

func (in *Interner) IsSyncType(id ID) bool   { return in.Kind(id) == KindSync }
func (in *Interner) IsSingleType(id ID) bool { return in.Kind(id) == KindSingle }
func (in *Interner) IsString(id ID) bool     { return in.Kind(id) == KindString }
func (in *Interner) IsStringC(id ID) bool    { return in.Kind(id) == KindStringC }
func (in *Interner) IsReference(id ID) bool  { return in.Kind(id) == KindReference }
func (in *Interner) IsRecordWrappedType(id ID) bool {
	return in.Kind(id) == KindRecordWrapped
}
func (in *Interner) IsRecord(id ID) bool { return in.Kind(id) == KindRecord }
func (in *Interner) IsUnion(id ID) bool  { return false } // no union-type component in this layer's scope

// IsDispatchParent reports whether parent is an ancestor of child in the
// (single-inheritance) dispatch chain.
func (in *Interner) IsDispatchParent(parent, child ID) bool {
	cur := in.Get(child)
	for cur != nil && cur.Parent != NoID {
		if cur.Parent == parent {
			return true
		}
		cur = in.Get(cur.Parent)
	}
	return false
}

// IsTupleReference reports whether id is a reference produced from a tuple,
// preserved verbatim per spec.md section 9's open question.
func (in *Interner) IsTupleReference(id ID) bool {
	t := in.Get(id)
	return t != nil && t.Kind == KindReference && t.TupleRef
}
