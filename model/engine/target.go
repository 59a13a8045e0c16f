package engine

import (
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/gobwas/glob"

	"github.com/intel/schedtool/lib/proc"
)

// Target is a process to change: a PID, or the running process itself
// before it execs
type Target struct {
	pid  int
	self bool
}

// Self is the running process
func Self() Target {
	return Target{self: true}
}

// PID is an existing process
func PID(pid int) Target {
	return Target{pid: pid}
}

// IsSelf tells whether t is the running process
func (t Target) IsSelf() bool {
	return t.self
}

// SyscallPID is the pid to hand to the kernel, 0 meaning the caller
func (t Target) SyscallPID() int {
	if t.self {
		return 0
	}
	return t.pid
}

// DisplayPID is the pid shown in reports
func (t Target) DisplayPID() int {
	if t.self {
		return os.Getpid()
	}
	return t.pid
}

func (t Target) String() string {
	if t.self {
		return "self"
	}
	return strconv.Itoa(t.pid)
}

// ParsePID accepts a token of digits only naming a positive pid
func ParsePID(tok string) (int, bool) {
	if tok == "" || strings.TrimLeft(tok, "0123456789") != "" {
		return 0, false
	}
	pid, err := strconv.Atoi(tok)
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// matchTargets returns the processes whose command line matches any of
// the globs, ordered by pid, without the running process
func matchTargets(globs []glob.Glob) []Target {
	if len(globs) == 0 {
		return nil
	}
	self := os.Getpid()
	pids := []int{}
	for _, p := range proc.ListProcesses() {
		if p.Pid == self || p.CmdLine == "" {
			continue
		}
		for _, g := range globs {
			if g.Match(p.CmdLine) {
				pids = append(pids, p.Pid)
				break
			}
		}
	}
	sort.Ints(pids)
	targets := make([]Target, 0, len(pids))
	for _, pid := range pids {
		targets = append(targets, PID(pid))
	}
	return targets
}
