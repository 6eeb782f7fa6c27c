package diag

// Bag accumulates diagnostics produced while adapting a batch of call
// sites. A fatal diagnostic halts the batch: Fatal also returns it as an
// error, and the driver stops dispatching a unit's further call sites as
// soon as AdaptCall returns one.
type Bag struct {
	items []Diagnostic
}

func NewBag() *Bag { return &Bag{} }

func (b *Bag) Add(d Diagnostic) { b.items = append(b.items, d) }

func (b *Bag) HasFatal() bool {
	for _, d := range b.items {
		if d.IsFatal() {
			return true
		}
	}
	return false
}

func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity >= SevError {
			return true
		}
	}
	return false
}

func (b *Bag) Items() []Diagnostic { return b.items }

func (b *Bag) Len() int { return len(b.items) }
