package supervisor

import (
	"errors"
	"os"
)

// handle is the spawned process plus the parent's ends of its I/O.
type handle struct {
	process *os.Process
	stdin   *os.File
	stdout  *os.File
	stderr  *os.File

	done bool // the OS reported the process gone
}

func (h *handle) exited() (bool, error) {
	if h.done {
		return true, nil
	}
	done, err := processExited(h.process)
	if done {
		h.done = true
	}
	return done, err
}

// closeDescriptors closes whatever is still open. Safe to call repeatedly.
func (h *handle) closeDescriptors() error {
	var errs []error
	for _, f := range []**os.File{&h.stdin, &h.stdout, &h.stderr} {
		if *f == nil {
			continue
		}
		if err := (*f).Close(); err != nil && !errors.Is(err, os.ErrClosed) {
			errs = append(errs, err)
		}
		*f = nil
	}
	return errors.Join(errs...)
}

// release closes descriptors and frees the OS process handle. It does not
// wait for or kill the process.
func (h *handle) release() error {
	err := h.closeDescriptors()
	if h.process != nil {
		err = errors.Join(err, h.process.Release())
		h.process = nil
	}
	return err
}
