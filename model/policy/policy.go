package policy

import (
	"fmt"
	"strconv"
	"strings"
)

// Class is a scheduling policy as numbered by the kernel. Values outside
// the known set are carried as raw numbers.
type Class int

// Known scheduling classes
const (
	Normal   Class = 0
	FIFO     Class = 1
	RR       Class = 2
	Batch    Class = 3
	ISO      Class = 4
	IdlePrio Class = 5
)

// Classes returns the known classes in kernel order
func Classes() []Class {
	return []Class{Normal, FIFO, RR, Batch, ISO, IdlePrio}
}

// Known reports whether c has a symbolic name
func (c Class) Known() bool {
	return c >= Normal && c <= IdlePrio
}

// Name returns the kernel name, e.g. SCHED_FIFO, or an "unknown" marker
// with the raw number
func (c Class) Name() string {
	switch c {
	case Normal:
		return "SCHED_NORMAL"
	case FIFO:
		return "SCHED_FIFO"
	case RR:
		return "SCHED_RR"
	case Batch:
		return "SCHED_BATCH"
	case ISO:
		return "SCHED_ISO"
	case IdlePrio:
		return "SCHED_IDLEPRIO"
	default:
		return "unknown #" + strconv.Itoa(int(c))
	}
}

// Label returns the name prefixed with its selector letter, e.g.
// "F: SCHED_FIFO"
func (c Class) Label() string {
	switch c {
	case Normal:
		return "N: " + c.Name()
	case FIFO:
		return "F: " + c.Name()
	case RR:
		return "R: " + c.Name()
	case Batch:
		return "B: " + c.Name()
	case ISO:
		return "I: " + c.Name()
	case IdlePrio:
		return "D: " + c.Name()
	default:
		return "?: " + c.Name()
	}
}

func (c Class) String() string {
	return c.Name()
}

// ParseClass accepts a kernel name with or without the SCHED_ prefix,
// case insensitive, or a number
func ParseClass(s string) (Class, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return Class(n), nil
	}
	name := strings.ToUpper(strings.TrimSpace(s))
	if !strings.HasPrefix(name, "SCHED_") {
		name = "SCHED_" + name
	}
	switch name {
	case "SCHED_OTHER":
		return Normal, nil
	case "SCHED_IDLE":
		return IdlePrio, nil
	}
	for _, c := range Classes() {
		if c.Name() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown scheduling policy %q", s)
}
