package engine

import (
	"io"
	"os"
	"runtime"

	"github.com/sirupsen/logrus"

	apperror "github.com/intel/schedtool/api/error"
	"github.com/intel/schedtool/lib/proc"
	"github.com/intel/schedtool/model/process"
	applog "github.com/intel/schedtool/util/log"
	"github.com/intel/schedtool/utils/task"
)

// Result is the outcome for one target. Err is the failed attribute
// change, QueryErr a failed report.
type Result struct {
	Target   Target
	Err      error
	QueryErr error
	Snapshot *process.Snapshot
}

// Summary of one run
type Summary struct {
	Results []Result
	// targets whose attribute changes failed
	Failed int
	// tokens ignored as they are not pids
	Skipped int
}

// Engine applies a request to its targets
type Engine struct {
	Out      io.Writer
	Log      logrus.FieldLogger
	Renderer process.Renderer
}

// New returns an engine writing reports and diagnostics to out
func New(out io.Writer, r process.Renderer) *Engine {
	return &Engine{
		Out:      out,
		Log:      applog.NewDiagnostics(out),
		Renderer: r,
	}
}

// Run processes the targets of r in order. Attribute changes on a target
// stop at the first failure and the run goes on with the next target.
// The returned error is fatal: the request was invalid or the exec failed.
func (e *Engine) Run(r *Request) (*Summary, error) {
	if err := r.Validate(); err != nil {
		ae := apperror.NewAppError(apperror.ExitUsage, err)
		e.diag(ae)
		return nil, ae
	}

	if r.Mode.Has(ModeExec) {
		// scheduling attributes are per thread, exec must happen on the
		// thread that was changed
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
	}

	s := &Summary{}
	for _, t := range e.targets(r, s) {
		res := Result{Target: t}

		if err := e.apply(r, t); err != nil {
			e.diag(err)
			res.Err = err
			s.Failed++
			s.Results = append(s.Results, res)
			continue
		}

		if r.Mode.Has(ModePrint) {
			res.Snapshot, res.QueryErr = e.report(t)
		}
		s.Results = append(s.Results, res)

		if r.Mode.Has(ModeExec) {
			return s, e.exec(r.Args)
		}
	}
	return s, nil
}

func (e *Engine) targets(r *Request, s *Summary) []Target {
	if r.Mode.Has(ModeExec) {
		return []Target{Self()}
	}
	targets := []Target{}
	for _, tok := range r.Args {
		pid, ok := ParsePID(tok)
		if !ok {
			e.Log.Warnf("Ignoring arg %s: is not a PID", tok)
			s.Skipped++
			continue
		}
		targets = append(targets, PID(pid))
	}
	// already checked by Validate
	globs, _ := compileMatches(r.Matches)
	return append(targets, matchTargets(globs)...)
}

// apply changes policy, niceness and affinity in this order
func (e *Engine) apply(r *Request, t Target) error {
	pid := t.SyscallPID()
	steps := task.NewTaskList()
	if r.Mode.Has(ModeSetPolicy) {
		steps.Add(task.Func{TaskName: process.OpPolicy, Fn: func() error {
			return process.SetPolicy(pid, r.Class, r.Priority)
		}})
	}
	if r.Mode.Has(ModeNice) {
		steps.Add(task.Func{TaskName: process.OpNice, Fn: func() error {
			return process.SetNice(pid, r.Nice)
		}})
	}
	if r.Mode.Has(ModeAffinity) {
		steps.Add(task.Func{TaskName: process.OpAffinity, Fn: func() error {
			return process.SetAffinity(pid, r.Affinity)
		}})
	}
	if steps.Len() == 0 {
		return nil
	}
	logrus.Debugf("Applying %d changes to target %s", steps.Len(), t)
	failed, err := steps.Start()
	if err != nil {
		logrus.Debugf("Step %s failed on target %s: %v", failed.Name(), t, err)
	}
	return err
}

func (e *Engine) report(t Target) (*process.Snapshot, error) {
	snap, err := process.Inspect(t.SyscallPID())
	if err != nil {
		if qe, ok := err.(*process.QueryFailedError); ok {
			qe.PID = t.DisplayPID()
		}
		e.diag(err)
		return nil, err
	}
	snap.PID = t.DisplayPID()
	if err := e.Renderer.Render(e.Out, snap); err != nil {
		logrus.Errorf("Failed to write report of target %s: %v", t, err)
	}
	return snap, nil
}

func (e *Engine) exec(argv []string) error {
	path, err := proc.LookPath(argv[0])
	if err == nil {
		err = proc.Exec(path, argv, os.Environ())
	}
	if err != nil {
		ae := apperror.NewAppError(apperror.ExitExec, "Could not exec "+argv[0], err)
		e.diag(ae)
		return ae
	}
	return nil
}

func (e *Engine) diag(err error) {
	msg := err.Error()
	cause := apperror.Describe(err)
	if ae, ok := err.(*apperror.AppError); ok && ae.Err != nil {
		if ae.Message == "" {
			msg = ae.Err.Error()
		} else {
			msg = ae.Message
			if cause == "" {
				cause = ae.Err.Error()
			}
		}
	}
	e.Log.WithField(applog.CauseKey, cause).Error(msg)
}
