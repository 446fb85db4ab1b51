//go:build windows

package jobs

import "os"

// terminateProcess kills the child outright; Windows has no SIGTERM
// equivalent that ffmpeg honors when detached from a console.
func terminateProcess(process *os.Process) error {
	if process == nil {
		return nil
	}
	return process.Kill()
}
