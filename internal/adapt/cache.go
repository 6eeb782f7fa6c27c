package adapt

import (
	"sort"
	"strconv"
	"strings"

	"adaptcall/internal/hir"
	"adaptcall/internal/types"
)

// DefaultShapeKey is the set of formals a call omitted, keyed by formal
// position (spec.md section 3: "the set of formals the caller omitted").
type DefaultShapeKey struct {
	Callee    *hir.Func
	Defaulted string // sorted, comma-joined formal positions
}

func NewDefaultShapeKey(callee *hir.Func, defaulted []int) DefaultShapeKey {
	sorted := append([]int(nil), defaulted...)
	sort.Ints(sorted)
	parts := make([]string, len(sorted))
	for i, p := range sorted {
		parts[i] = strconv.Itoa(p)
	}
	return DefaultShapeKey{Callee: callee, Defaulted: strings.Join(parts, ",")}
}

// PromotionShapeKey maps each promoted formal position to the concrete
// actual type symbol promoting against it (spec.md section 3).
type PromotionShapeKey struct {
	Callee    *hir.Func
	Promoted  string // sorted "position:typeID" pairs, comma-joined
}

func NewPromotionShapeKey(callee *hir.Func, promoted map[int]types.ID) PromotionShapeKey {
	positions := make([]int, 0, len(promoted))
	for p := range promoted {
		positions = append(positions, p)
	}
	sort.Ints(positions)
	parts := make([]string, len(positions))
	for i, p := range positions {
		parts[i] = strconv.Itoa(p) + ":" + strconv.Itoa(int(promoted[p]))
	}
	return PromotionShapeKey{Callee: callee, Promoted: strings.Join(parts, ",")}
}

// DefaultCache maps (callee, shape_key) to a previously built default-value
// wrapper; a process-wide instance lives for the whole resolution pass
// (spec.md section 3, section 5).
type DefaultCache struct {
	entries map[DefaultShapeKey]*hir.Func
}

func NewDefaultCache() *DefaultCache {
	return &DefaultCache{entries: make(map[DefaultShapeKey]*hir.Func)}
}

func (c *DefaultCache) Get(key DefaultShapeKey) (*hir.Func, bool) {
	w, ok := c.entries[key]
	return w, ok
}

func (c *DefaultCache) Put(key DefaultShapeKey, wrapper *hir.Func) {
	c.entries[key] = wrapper
}

// PromotionFamily is the (serial, leader, follower) triple spec.md section 3
// describes for a promoted callee, plus the four fast-follower probes when
// they are built. The leader/follower side tables live in Caches.
type PromotionFamily struct {
	Serial, Leader, Follower *hir.Func
	StaticProbe, DynamicProbe,
	StaticProbeNoLead, DynamicProbeNoLead *hir.Func
}

// PromotionCache maps (callee, shape_key) to a previously built promotion
// family.
type PromotionCache struct {
	entries map[PromotionShapeKey]*PromotionFamily
}

func NewPromotionCache() *PromotionCache {
	return &PromotionCache{entries: make(map[PromotionShapeKey]*PromotionFamily)}
}

func (c *PromotionCache) Get(key PromotionShapeKey) (*PromotionFamily, bool) {
	f, ok := c.entries[key]
	return f, ok
}

func (c *PromotionCache) Put(key PromotionShapeKey, family *PromotionFamily) {
	c.entries[key] = family
}

// Caches bundles both process-wide caches plus the two iterator side
// tables keyed by a promotion wrapper's serial Func.
type Caches struct {
	Defaults   *DefaultCache
	Promotions *PromotionCache
	Leaders    map[*hir.Func]*hir.Func
	Followers  map[*hir.Func]*hir.Func

	// syntheticSymbol allocates placeholder symbol identities for the
	// p_i_<n> loop indices promote.go synthesizes. The single-threaded
	// driver owns the only reference, matching spec.md section 5's no-
	// locking rationale for the wrapper caches themselves.
	syntheticSymbol uint32
}

func NewCaches() *Caches {
	return &Caches{
		Defaults:   NewDefaultCache(),
		Promotions: NewPromotionCache(),
		Leaders:    make(map[*hir.Func]*hir.Func),
		Followers:  make(map[*hir.Func]*hir.Func),
	}
}

// NextSyntheticSymbol returns a fresh non-zero placeholder symbol ID, used
// to give loop indices an identity that bindIndexReferences can actually
// bind unresolved p_i_<n> references to.
func (c *Caches) NextSyntheticSymbol() uint32 {
	c.syntheticSymbol++
	return c.syntheticSymbol
}
