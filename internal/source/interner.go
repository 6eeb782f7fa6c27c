package source

import "golang.org/x/text/unicode/norm"

// StringID identifies an interned string.
type StringID uint32

const NoStringID StringID = 0

// Interner deduplicates identifier and generated-name strings.
//
// Every string is NFC-normalized before interning so that two spellings of
// the same generated name (e.g. a wrapper name built by concatenating
// interned pieces under different decompositions) always collide.
type Interner struct {
	byID  []string
	index map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": 0},
	}
}

func (i *Interner) Intern(s string) StringID {
	s = norm.NFC.String(s)
	if id, ok := i.index[s]; ok {
		return id
	}
	cpy := string([]byte(s))
	id := StringID(len(i.byID))
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

func (i *Interner) Lookup(id StringID) (string, bool) {
	if !i.Has(id) {
		return "", false
	}
	return i.byID[id], true
}

func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

func (i *Interner) Has(id StringID) bool {
	return int(id) >= 0 && int(id) < len(i.byID)
}

func (i *Interner) Len() int {
	return len(i.byID)
}
