package engine

import (
	"errors"
	"fmt"

	"github.com/gobwas/glob"

	"github.com/intel/schedtool/lib/util"
	"github.com/intel/schedtool/model/policy"
)

// Mode is the set of operations of one invocation
type Mode uint

// Operation modes
const (
	ModeNothing   Mode = 0x0
	ModePrint     Mode = 0x1
	ModeSetPolicy Mode = 0x2
	ModeAffinity  Mode = 0x4
	ModeExec      Mode = 0x8
	ModeNice      Mode = 0x10
)

// Has reports whether all bits of f are set
func (m Mode) Has(f Mode) bool {
	return f != 0 && m&f == f
}

// Mutates reports whether any attribute change is requested
func (m Mode) Mutates() bool {
	return m&(ModeSetPolicy|ModeAffinity|ModeNice) != 0
}

// ErrExecRequiresMutation is returned for -e without anything to set
var ErrExecRequiresMutation = errors.New("Option -e needs scheduling-parameters, not given - exiting")

// Request is one validated set of changes and the processes to apply
// them to
type Request struct {
	Mode     Mode
	Class    policy.Class
	Priority int
	Nice     int
	Affinity *util.Bitmap
	// PID tokens, or the program and its arguments in exec mode
	Args []string
	// glob patterns matched against process command lines
	Matches []string
}

// Validate checks the request before any process is touched. A request
// without any mode becomes a query.
func (r *Request) Validate() error {
	if r.Mode.Has(ModeSetPolicy) {
		if err := policy.ValidatePriority(r.Class, r.Priority); err != nil {
			return err
		}
	}

	if r.Mode == ModeNothing {
		r.Mode |= ModePrint
	}

	if r.Mode.Has(ModeExec) {
		if !r.Mode.Mutates() {
			return ErrExecRequiresMutation
		}
		if len(r.Args) == 0 {
			return errors.New("Option -e needs a command to execute")
		}
		if len(r.Matches) > 0 {
			return errors.New("Option -e can not be combined with --match")
		}
	}

	if err := policy.ValidateNice(r.Nice); err != nil {
		return err
	}

	if r.Mode.Has(ModeAffinity) && r.Affinity == nil {
		return fmt.Errorf("%w: no cpu mask given", util.ErrInvalidAffinity)
	}

	if _, err := compileMatches(r.Matches); err != nil {
		return err
	}
	return nil
}

func compileMatches(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		g, err := glob.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("bad match pattern %q: %v", p, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}
