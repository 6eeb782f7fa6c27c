package hir

// FnFlag is the closed bitset of procedure-level flags spec.md section 3
// requires wrappers to forward or set. The ForwardableFlags mask below
// decides which of a callee's flags internal/adapt's scaffold propagates to
// its wrapper.
type FnFlag uint32

const (
	FlagWrapper FnFlag = 1 << iota
	FlagInvisible
	FlagCompilerGenerated
	FlagWasCompilerGenerated
	FlagInitCopy
	FlagAutoCopy
	FlagAutoDestroy
	FlagDonor
	FlagNoParens
	FlagConstructor
	FlagFieldAccessor
	FlagRefToConst
	FlagMethod
	FlagPrimaryMethod
	FlagAssignOp
	FlagDefaultConstructor
	FlagLastResort
	FlagTypeConstructor
	FlagIterator
	FlagInlineIterator
)

// Has reports whether all bits in mask are set.
func (f FnFlag) Has(mask FnFlag) bool { return f&mask == mask }

// Any reports whether any bit in mask is set.
func (f FnFlag) Any(mask FnFlag) bool { return f&mask != 0 }

// ForwardableFlags is the forward mask spec.md section 3 lists: the flags a
// wrapper inherits verbatim from the callee it wraps. wrapper/invisible/
// compiler_generated are set independently by the scaffold, never copied.
const ForwardableFlags = FlagInitCopy | FlagAutoCopy | FlagAutoDestroy | FlagDonor |
	FlagNoParens | FlagConstructor | FlagFieldAccessor | FlagRefToConst |
	FlagMethod | FlagPrimaryMethod | FlagAssignOp | FlagDefaultConstructor |
	FlagLastResort

// ArgFlag is the closed bitset of formal-level flags.
type ArgFlag uint32

const (
	// ArgWritten signals the wrapper must be able to write through this
	// formal: set when the source formal's intent is out/inout, or the
	// source formal already carries ArgWritten.
	ArgWritten ArgFlag = 1 << iota
	// ArgIsMeme marks a synthesized placeholder formal used by default
	// constructors to bind the receiver type.
	ArgIsMeme
	// ArgMaybeParam and ArgExprTemp mark a temporary that may fold away; set
	// together, cleared together, by the default-value-for-type logic.
	ArgMaybeParam
	ArgExprTemp
	// ArgCoerceTemp marks a temporary introduced by the coercion pipeline.
	ArgCoerceTemp
	// ArgInsertAutoDestroy marks a temporary (typically string-typed) that
	// later passes must destroy.
	ArgInsertAutoDestroy
	// ArgTypeVariable marks a formal/temporary bound directly to a type
	// symbol rather than a value.
	ArgTypeVariable
)

func (f ArgFlag) Has(mask ArgFlag) bool { return f&mask == mask }
func (f ArgFlag) Any(mask ArgFlag) bool { return f&mask != 0 }
