package testhelpers

import (
	"os"
	"os/exec"
)

// CreateNewProcess starts a background process from a command line run by
// sh, e.g.
// CreateNewProcess("sleep 1000")
func CreateNewProcess(cmd string) (*os.Process, error) {
	c := exec.Command("sh", "-c", "exec "+cmd)
	if err := c.Start(); err != nil {
		return nil, err
	}
	return c.Process, nil
}

// CleanupProcess kills and reaps the process
func CleanupProcess(p *os.Process) {
	p.Kill()
	p.Wait()
}
