package cpu

import (
	"io/ioutil"
	"path/filepath"
	"testing"
)

func TestHostCPUNum(t *testing.T) {
	old := SysCPU
	defer func() { SysCPU = old }()

	SysCPU = t.TempDir()
	cases := map[string]int{"0-7\n": 8, "0": 1, "0-3,8-11": 8, "0,2,4": 3}
	for list, want := range cases {
		if err := ioutil.WriteFile(filepath.Join(SysCPU, "possible"), []byte(list), 0644); err != nil {
			t.Fatal(err)
		}
		num, err := HostCPUNum()
		if err != nil || num != want {
			t.Errorf("cpu list %q should give %d cpus, got %d (%v)", list, want, num, err)
		}
	}

	ioutil.WriteFile(filepath.Join(SysCPU, "possible"), []byte("a-b"), 0644)
	if _, err := HostCPUNum(); err == nil {
		t.Errorf("bad cpu list should fail")
	}
	if _, err := OnlineCPUNum(); err == nil {
		t.Errorf("missing online file should fail")
	}
}

func TestHostCPUNumReal(t *testing.T) {
	num, err := HostCPUNum()
	if err != nil {
		t.Skipf("no sysfs cpu info: %v", err)
	}
	if num < 1 {
		t.Errorf("host should have at least one cpu, got %d", num)
	}
}
