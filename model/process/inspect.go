package process

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/intel/schedtool/lib/proc"
	"github.com/intel/schedtool/lib/util"
	"github.com/intel/schedtool/model/policy"
)

// Snapshot is the scheduling state of a process at read time
type Snapshot struct {
	PID      int
	Class    policy.Class
	Priority int
	Nice     int
	// nil when the kernel did not report it
	Affinity *util.Bitmap
}

// QueryFailedError is returned when the policy, priority or niceness of a
// process cannot be read
type QueryFailedError struct {
	PID int
	Err error
}

func (e *QueryFailedError) Error() string {
	return fmt.Sprintf("could not get scheduling-information for PID %d", e.PID)
}

// Cause returns the errno of the failed call
func (e *QueryFailedError) Cause() error { return errors.Cause(e.Err) }

// Unwrap returns the wrapped error
func (e *QueryFailedError) Unwrap() error { return e.Err }

// Inspect reads the scheduling attributes of pid. An unreadable affinity is
// left out of the snapshot without failing.
func Inspect(pid int) (*Snapshot, error) {
	c, err := proc.GetScheduler(pid)
	if err != nil {
		return nil, &QueryFailedError{pid, errors.Wrap(err, "sched_getscheduler")}
	}
	prio, err := proc.GetParam(pid)
	if err != nil {
		return nil, &QueryFailedError{pid, errors.Wrap(err, "sched_getparam")}
	}
	nice, err := proc.GetNice(pid)
	if err != nil {
		return nil, &QueryFailedError{pid, errors.Wrap(err, "getpriority")}
	}
	s := &Snapshot{PID: pid, Class: policy.Class(c), Priority: prio, Nice: nice}
	if af, err := proc.GetCPUAffinity(pid); err == nil {
		s.Affinity = af
	}
	return s, nil
}

func (s *Snapshot) String() string {
	line := fmt.Sprintf("PID %5d: PRIO %3d, POLICY %-17s, NICE %3d",
		s.PID, s.Priority, s.Class.Label(), s.Nice)
	if s.Affinity != nil {
		line += ", AFFINITY " + s.Affinity.ToString()
	}
	return line
}
