package process

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/intel/schedtool/lib/proc"
	"github.com/intel/schedtool/lib/util"
	"github.com/intel/schedtool/model/policy"
)

// Operations reported in TargetError
const (
	OpPolicy   = "policy"
	OpNice     = "nice"
	OpAffinity = "affinity"
)

// TargetError is a failed attribute change on one process
type TargetError struct {
	Op     string
	PID    int
	Detail string
	Err    error
}

func (e *TargetError) Error() string {
	return fmt.Sprintf("could not set PID %d to %s", e.PID, e.Detail)
}

// Cause returns the errno of the failed call
func (e *TargetError) Cause() error { return errors.Cause(e.Err) }

// Unwrap returns the wrapped error
func (e *TargetError) Unwrap() error { return e.Err }

// SetPolicy sets scheduling class and static priority of pid
func SetPolicy(pid int, c policy.Class, prio int) error {
	if err := proc.SetScheduler(pid, int(c), prio); err != nil {
		detail := c.Label()
		if !c.Known() {
			detail = "raw policy #" + strconv.Itoa(int(c))
		}
		return &TargetError{
			Op:     OpPolicy,
			PID:    pid,
			Detail: detail,
			Err:    errors.Wrapf(err, "sched_setscheduler(%d, %d, %d)", pid, int(c), prio),
		}
	}
	return nil
}

// SetNice sets the niceness of pid
func SetNice(pid, nice int) error {
	if err := proc.SetNice(pid, nice); err != nil {
		return &TargetError{
			Op:     OpNice,
			PID:    pid,
			Detail: "nice " + strconv.Itoa(nice),
			Err:    errors.Wrapf(err, "setpriority(%d, %d)", pid, nice),
		}
	}
	return nil
}

// SetAffinity sets the cpu mask of pid
func SetAffinity(pid int, cpus *util.Bitmap) error {
	if err := proc.SetCPUAffinity(pid, cpus); err != nil {
		return &TargetError{
			Op:     OpAffinity,
			PID:    pid,
			Detail: "affinity " + cpus.ToString(),
			Err:    errors.Wrapf(err, "sched_setaffinity(%d)", pid),
		}
	}
	return nil
}
