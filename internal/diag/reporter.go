package diag

// Reporter is the minimal contract for receiving diagnostics from the
// adaptation layer.
type Reporter interface {
	Report(d Diagnostic)
}

// BagReporter appends every diagnostic to a Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) { r.Bag.Add(d) }

// FatalError is the error the adaptation layer returns (never panics with)
// when it hits a fatal diagnostic: a cast-resolution failure or an internal
// invariant violation. The surrounding driver halts the batch on seeing one,
// per spec.md section 7's "no silent recovery."
type FatalError struct {
	Diagnostic Diagnostic
}

func (e *FatalError) Error() string { return e.Diagnostic.Code.String() + ": " + e.Diagnostic.Message }

// Fatal builds and reports a fatal diagnostic, returning it as an error.
func Fatal(r Reporter, code Code, msg string) error {
	d := Diagnostic{Severity: SevFatal, Code: code, Message: msg}
	if r != nil {
		r.Report(d)
	}
	return &FatalError{Diagnostic: d}
}
