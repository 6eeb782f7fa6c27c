// Package adaptdriver batches AdaptCall across many compilation units
// concurrently. spec.md section 5 describes the adaptation layer itself as
// single-threaded, with the wrapper caches shared and unlocked for "the
// whole resolution pass" - here, one compilation unit's pass. Units (the
// call sites belonging to one file or module) therefore each get their own
// Caches and run their own call sites strictly in order; only the fan-out
// across units is concurrent, grounded on the teacher's TokenizeDir/ParseDir
// file-parallel pattern: a pre-sized results slice indexed by unit, no
// mutex, errgroup.SetLimit bounding the worker count.
package adaptdriver

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"adaptcall/internal/adapt"
	"adaptcall/internal/config"
	"adaptcall/internal/diag"
	"adaptcall/internal/hir"
)

// Site is one call site queued for adaptation, with everything AdaptCall
// needs besides the shared Env/config.
type Site struct {
	Callee         *hir.Func
	CallSite       adapt.CallSite
	Call           *hir.Call
	Info           *hir.CallInfo
	ActualToFormal hir.ActualToFormalMap
	WrapperConfig  adapt.DefaultWrapperConfig
}

// Unit is an independent group of call sites - ordinarily one source file's
// worth - that shares a single Caches instance and is adapted strictly in
// the order its sites are listed.
type Unit struct {
	Name  string
	Sites []Site
}

// Result records the outcome for one unit: the effective callee chosen for
// each of its sites, in the same order, or the first fatal error that
// halted the unit (spec.md section 7: a fatal diagnostic aborts the whole
// compilation - here, the unit that raised it).
type Result struct {
	Unit      string
	Effective []*hir.Func
	Err       error
	Bag       *diag.Bag
}

// Run adapts every unit's call sites, fanning out across units with a
// worker pool bounded by jobs (GOMAXPROCS when jobs <= 0). It returns one
// Result per unit, in the same order units were given - not the order they
// finished - because each unit owns an independently-indexed slot, mirroring
// the teacher's file-indexed results array.
func Run(ctx context.Context, env *adapt.Env, cfg config.Config, units []Unit, jobs int) ([]Result, error) {
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	results := make([]Result, len(units))

	g, gctx := errgroup.WithContext(ctx)
	if limit := min(jobs, len(units)); limit > 0 {
		g.SetLimit(limit)
	}

	for i, unit := range units {
		i, unit := i, unit
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			results[i] = runUnit(unit, env, cfg)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func runUnit(unit Unit, env *adapt.Env, cfg config.Config) Result {
	caches := adapt.NewCaches()
	bag := diag.NewBag()
	reporter := diag.BagReporter{Bag: bag}

	effective := make([]*hir.Func, len(unit.Sites))
	for i, site := range unit.Sites {
		w, err := adapt.AdaptCall(env, caches, cfg, reporter, site.Callee, site.CallSite, site.Call, site.Info, site.ActualToFormal, site.WrapperConfig)
		if err != nil {
			return Result{Unit: unit.Name, Effective: effective[:i], Err: err, Bag: bag}
		}
		effective[i] = w
	}
	return Result{Unit: unit.Name, Effective: effective, Bag: bag}
}

// FirstFatal scans results in argument order and returns the first fatal
// error encountered, or nil if every unit adapted cleanly - the signal the
// surrounding driver uses to decide whether to keep lowering or abort
// (spec.md section 7).
func FirstFatal(results []Result) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
