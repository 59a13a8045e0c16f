package proc

import (
	"io/ioutil"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/intel/schedtool/lib/util"
)

// schedResetOnFork may be or'ed into the policy returned by the kernel
const schedResetOnFork = 0x40000000

// schedParam mirrors struct sched_param
type schedParam struct {
	priority int32
}

// Process struct with pid and command line
type Process struct {
	Pid     int
	CmdLine string
}

// ListProcesses returns all process on the host
var ListProcesses = func() map[string]Process {
	processes := make(map[string]Process)
	files, _ := filepath.Glob("/proc/[0-9]*/cmdline")
	for _, file := range files {

		listfs := strings.Split(file, "/")
		if pid, err := strconv.Atoi(listfs[2]); err == nil {

			cmd, _ := ioutil.ReadFile(file)
			cmdString := strings.TrimSpace(strings.Join(strings.Split(string(cmd), "\x00"), " "))
			processes[listfs[2]] = Process{pid, cmdString}
		}
	}

	return processes
}

// SetScheduler calls sched_setscheduler(2). pid 0 is the calling thread.
var SetScheduler = func(pid, policy, priority int) error {
	p := schedParam{priority: int32(priority)}
	_, _, errno := unix.Syscall(unix.SYS_SCHED_SETSCHEDULER,
		uintptr(pid), uintptr(policy), uintptr(unsafe.Pointer(&p)))
	if errno != 0 {
		return errno
	}
	return nil
}

// GetScheduler calls sched_getscheduler(2), the reset-on-fork flag is
// stripped from the result
var GetScheduler = func(pid int) (int, error) {
	r, _, errno := unix.Syscall(unix.SYS_SCHED_GETSCHEDULER, uintptr(pid), 0, 0)
	if errno != 0 {
		return 0, errno
	}
	return int(r) &^ schedResetOnFork, nil
}

// GetParam returns the static priority of pid by sched_getparam(2)
var GetParam = func(pid int) (int, error) {
	var p schedParam
	_, _, errno := unix.Syscall(unix.SYS_SCHED_GETPARAM, uintptr(pid), uintptr(unsafe.Pointer(&p)), 0)
	if errno != 0 {
		return 0, errno
	}
	return int(p.priority), nil
}

// GetPriorityMin calls sched_get_priority_min(2)
var GetPriorityMin = func(policy int) (int, error) {
	r, _, errno := unix.Syscall(unix.SYS_SCHED_GET_PRIORITY_MIN, uintptr(policy), 0, 0)
	if errno != 0 {
		return 0, errno
	}
	return int(int32(r)), nil
}

// GetPriorityMax calls sched_get_priority_max(2)
var GetPriorityMax = func(policy int) (int, error) {
	r, _, errno := unix.Syscall(unix.SYS_SCHED_GET_PRIORITY_MAX, uintptr(policy), 0, 0)
	if errno != 0 {
		return 0, errno
	}
	return int(int32(r)), nil
}

// PriorityRange returns the static priority range the kernel accepts for
// policy
func PriorityRange(policy int) (min, max int, err error) {
	if min, err = GetPriorityMin(policy); err != nil {
		return 0, 0, err
	}
	if max, err = GetPriorityMax(policy); err != nil {
		return 0, 0, err
	}
	return min, max, nil
}

// SetNice sets the niceness of a process
var SetNice = func(pid, nice int) error {
	return unix.Setpriority(unix.PRIO_PROCESS, pid, nice)
}

// GetNice reads the niceness of a process. The raw syscall answers
// 20 - nice and reports failure only through errno, so any nice value
// including 0 and negatives is unambiguous.
var GetNice = func(pid int) (int, error) {
	prio, err := unix.Getpriority(unix.PRIO_PROCESS, pid)
	if err != nil {
		return 0, err
	}
	return 20 - prio, nil
}

// GetCPUAffinity returns the affinity of a given task id
var GetCPUAffinity = func(pid int) (*util.Bitmap, error) {
	var set unix.CPUSet
	if err := unix.SchedGetaffinity(pid, &set); err != nil {
		return nil, err
	}
	b := new(util.Bitmap)
	for cpu := 0; cpu < util.BitmapLen; cpu++ {
		if set.IsSet(cpu) {
			b.Set(cpu)
		}
	}
	return b, nil
}

// SetCPUAffinity set a process/thread's CPU affinity
var SetCPUAffinity = func(pid int, cpus *util.Bitmap) error {
	var set unix.CPUSet
	set.Zero()
	for cpu := 0; cpu < util.BitmapLen; cpu++ {
		if cpus.IsSet(cpu) {
			set.Set(cpu)
		}
	}
	return unix.SchedSetaffinity(pid, &set)
}

// LookPath resolves the program to exec
var LookPath = exec.LookPath

// Exec replaces the current process image, it only returns on failure
var Exec = func(path string, argv, envv []string) error {
	return unix.Exec(path, argv, envv)
}
