//go:build !windows

package jobs

import (
	"os"

	"golang.org/x/sys/unix"
)

// terminateProcess asks the child to exit with SIGTERM, giving ffmpeg a
// chance to finalize the file it is writing.
func terminateProcess(process *os.Process) error {
	if process == nil {
		return nil
	}
	return process.Signal(unix.SIGTERM)
}
