package proc

import (
	"os"
	"strconv"
	"testing"

	"github.com/intel/schedtool/lib/util"
	"github.com/intel/schedtool/test/test_helpers"
)

func TestListProcesses(t *testing.T) {
	ps := ListProcesses()
	if len(ps) == 0 {
		t.Errorf("Faild to list all process\n")
	}
	self := strconv.Itoa(os.Getpid())
	if p, ok := ps[self]; !ok || p.Pid != os.Getpid() {
		t.Errorf("Own process %s is missing from the process list", self)
	}
}

func TestPriorityRange(t *testing.T) {
	// SCHED_FIFO
	min, max, err := PriorityRange(1)
	if err != nil {
		t.Fatalf("Failed to query priority range of SCHED_FIFO: %v", err)
	}
	if min < 1 || max < min {
		t.Errorf("Unexpected SCHED_FIFO range %d-%d", min, max)
	}

	// SCHED_NORMAL
	min, max, err = PriorityRange(0)
	if err != nil || min != 0 || max != 0 {
		t.Errorf("SCHED_NORMAL range should be 0-0, got %d-%d (%v)", min, max, err)
	}

	if _, _, err := PriorityRange(4242); err == nil {
		t.Errorf("Range of an unknown policy should fail")
	}
}

func TestSchedulerAndNice(t *testing.T) {
	ospid, err := testhelpers.CreateNewProcess("sleep 100")
	if err != nil {
		t.Fatalf("Failed to start a process: %v", err)
	}
	defer testhelpers.CleanupProcess(ospid)
	pid := ospid.Pid

	policy, err := GetScheduler(pid)
	if err != nil {
		t.Errorf("Failed to get scheduler for process id %d", pid)
	}
	if policy != 0 {
		t.Logf("process %d runs with policy %d", pid, policy)
	}

	if _, err := GetParam(pid); err != nil {
		t.Errorf("Failed to get param for process id %d", pid)
	}

	// raising niceness never needs privileges
	if err := SetNice(pid, 19); err != nil {
		t.Fatalf("Failed to set nice for process id %d: %v", pid, err)
	}
	nice, err := GetNice(pid)
	if err != nil || nice != 19 {
		t.Errorf("Nice of process id %d should be 19, got %d (%v)", pid, nice, err)
	}
}

func TestGetCPUAffinity(t *testing.T) {

	ospid, err := testhelpers.CreateNewProcess("sleep 100")
	if err != nil {
		t.Fatalf("Failed to start a process: %v", err)
	}
	defer testhelpers.CleanupProcess(ospid)
	pid := ospid.Pid

	oldaf, err := GetCPUAffinity(pid)
	if err != nil {
		t.Fatalf("Failed to get CPU affinity for process id %d", pid)
	}
	if oldaf.IsEmpty() {
		t.Errorf("CPU affinity of process id %d should not be empty", pid)
	}

	// pin to the lowest allowed cpu
	af := new(util.Bitmap)
	for cpu := 0; cpu < util.BitmapLen; cpu++ {
		if oldaf.IsSet(cpu) {
			af.Set(cpu)
			break
		}
	}

	if err := SetCPUAffinity(pid, af); err != nil {
		t.Errorf("Failed to set CPU affinity for process id %d", pid)
	}

	afset, err := GetCPUAffinity(pid)
	if err != nil {
		t.Errorf("Failed to get CPU affinity for process id %d", pid)
	}

	if af.ToHumanString() != afset.ToHumanString() {
		t.Errorf("Error to set CPU affinity for process id %d", pid)
	}
}
