package writers

import (
	"errors"
	"io"
	"os"
	"syscall"
)

// IsBrokenPipe reports whether err comes from a reader that went away
// (`distle ... - | head`, or a socket peer that hung up). Such errors end
// the run cleanly.
func IsBrokenPipe(err error) bool {
	if err == nil {
		return false
	}
	for _, target := range []error{syscall.EPIPE, syscall.ECONNRESET, io.ErrClosedPipe, os.ErrClosed} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
