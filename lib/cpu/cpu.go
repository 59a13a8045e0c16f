package cpu

import (
	"fmt"
	"io/ioutil"
	"path/filepath"
	"strconv"
	"strings"
)

// SysCPU is the path to cpu devices in linux
var SysCPU = "/sys/devices/system/cpu"

// HostCPUNum returns the total cpu number of host, read from the "possible"
// cpu list, e.g. "0-7" gives 8
// REF: https://www.kernel.org/doc/Documentation/cputopology.txt
func HostCPUNum() (int, error) {
	return cpuListLen(filepath.Join(SysCPU, "possible"))
}

// OnlineCPUNum returns the number of online cpus
func OnlineCPUNum() (int, error) {
	return cpuListLen(filepath.Join(SysCPU, "online"))
}

// cpu lists look like "0-3,8-11" or "0"
func cpuListLen(path string) (int, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, span := range strings.Split(strings.TrimSpace(string(data)), ",") {
		if span == "" {
			continue
		}
		scopes := strings.SplitN(span, "-", 2)
		low, err := strconv.Atoi(scopes[0])
		if err != nil {
			return 0, fmt.Errorf("bad cpu list %q in %s", span, path)
		}
		high := low
		if len(scopes) == 2 {
			if high, err = strconv.Atoi(scopes[1]); err != nil {
				return 0, fmt.Errorf("bad cpu list %q in %s", span, path)
			}
		}
		n += high - low + 1
	}
	return n, nil
}
