package policy

import (
	"fmt"
	"math"

	"github.com/intel/schedtool/lib/proc"
)

// Legal niceness range
const (
	MinNice = -20
	MaxNice = 20
)

// StaticPriorityMustBeZeroError is returned for a time sharing class with
// a non zero static priority
type StaticPriorityMustBeZeroError struct {
	Class Class
}

func (e *StaticPriorityMustBeZeroError) Error() string {
	return fmt.Sprintf("%s call may fail as static PRIO must be 0 or omitted", e.Class.Label())
}

// MissingStaticPriorityError is returned when a real time class is
// requested without a priority and 0 is not in its range
type MissingStaticPriorityError struct {
	Class    Class
	Min, Max int
}

func (e *MissingStaticPriorityError) Error() string {
	return fmt.Sprintf("missing priority for %s; specify static priority %d-%d via -p",
		e.Class.Label(), e.Min, e.Max)
}

// PriorityOutOfRangeError is returned for a priority the kernel would reject
type PriorityOutOfRangeError struct {
	Requested int
	Min, Max  int
	Class     Class
}

func (e *PriorityOutOfRangeError) Error() string {
	return fmt.Sprintf("PRIO %d is out of range %d-%d for %s",
		e.Requested, e.Min, e.Max, e.Class.Label())
}

// RangeQueryError is returned when the kernel refuses to report a range,
// which means it does not implement the class
type RangeQueryError struct {
	Class Class
	Err   error
}

func (e *RangeQueryError) Error() string {
	return fmt.Sprintf("could not query priority range of %s", e.Class.Label())
}

// Cause returns the errno
func (e *RangeQueryError) Cause() error { return e.Err }

// Unwrap returns the errno
func (e *RangeQueryError) Unwrap() error { return e.Err }

// NicenessOutOfRangeError is returned for a nice value outside -20..20
type NicenessOutOfRangeError struct {
	Nice int
}

func (e *NicenessOutOfRangeError) Error() string {
	return fmt.Sprintf("NICE %d is out of range %d to %d", e.Nice, MinNice, MaxNice)
}

// ValidatePriority checks the static priority against the class rules.
// Real time classes are checked against the range the running kernel
// reports, time sharing classes need 0, SCHED_IDLEPRIO and raw classes are
// left to the kernel.
func ValidatePriority(c Class, prio int) error {
	// sched_param holds a C int
	if prio < math.MinInt32 || prio > math.MaxInt32 {
		return &PriorityOutOfRangeError{Requested: prio, Min: math.MinInt32, Max: math.MaxInt32, Class: c}
	}
	switch c {
	case Normal, Batch:
		if prio != 0 {
			return &StaticPriorityMustBeZeroError{Class: c}
		}
		return nil
	case FIFO, RR, ISO:
		min, max, err := proc.PriorityRange(int(c))
		if err != nil {
			return &RangeQueryError{Class: c, Err: err}
		}
		if prio >= min && prio <= max {
			return nil
		}
		// an unset -p reads as 0
		if prio == 0 {
			return &MissingStaticPriorityError{Class: c, Min: min, Max: max}
		}
		return &PriorityOutOfRangeError{Requested: prio, Min: min, Max: max, Class: c}
	default:
		return nil
	}
}

// ValidateNice checks the niceness range
func ValidateNice(nice int) error {
	if nice < MinNice || nice > MaxNice {
		return &NicenessOutOfRangeError{Nice: nice}
	}
	return nil
}

// Range is the static priority range of a class
type Range struct {
	Class     Class
	Min, Max  int
	Supported bool
	Err       error
}

func (r Range) String() string {
	if !r.Supported {
		return fmt.Sprintf("%-17s: policy not implemented", r.Class.Label())
	}
	return fmt.Sprintf("%-17s: prio_min %d, prio_max %d", r.Class.Label(), r.Min, r.Max)
}

// Probe asks the kernel for the range of every known class
func Probe() []Range {
	ranges := []Range{}
	for _, c := range Classes() {
		min, max, err := proc.PriorityRange(int(c))
		ranges = append(ranges, Range{Class: c, Min: min, Max: max, Supported: err == nil, Err: err})
	}
	return ranges
}
