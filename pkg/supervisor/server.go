package supervisor

import (
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/eslym/phantoman/pkg/log"
	"github.com/kballard/go-shellquote"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var ErrLaunchFailure = errors.New("failed to start phantomjs server")
var ErrReadinessTimeout = errors.New("phantomjs server never became reachable")
var ErrShutdownFailure = errors.New("failed to stop phantomjs server")
var ErrNotRunning = errors.New("phantomjs server not running")

const (
	ProbeAttempts = 10
	ProbeTimeout  = 10 * time.Second
	ProbeDelay    = 1 * time.Second

	StopAttempts = 10
	StopDelay    = 1 * time.Second
)

// Redirections are the files receiving the server's stdout and stderr.
// Output is truncated on start, Errors is appended to. An empty path
// discards the stream.
type Redirections struct {
	Output string
	Errors string
}

// Server owns a single PhantomJS process.
//
// Server is not safe for concurrent use: Start, WaitUntilReachable and Stop
// block and are meant to be called in sequence by one owner.
type Server struct {
	id     string
	state  State
	handle *handle

	probeAttempts int
	probeTimeout  time.Duration
	probeDelay    time.Duration
	stopAttempts  int
	stopDelay     time.Duration

	dial  func(network, address string, timeout time.Duration) (net.Conn, error)
	sleep func(time.Duration)
}

func New() *Server {
	id, err := gonanoid.New(8)
	if err != nil {
		id = strconv.Itoa(os.Getpid())
	}
	return &Server{
		id:            id,
		state:         StateIdle,
		probeAttempts: ProbeAttempts,
		probeTimeout:  ProbeTimeout,
		probeDelay:    ProbeDelay,
		stopAttempts:  StopAttempts,
		stopDelay:     StopDelay,
		dial:          net.DialTimeout,
		sleep:         time.Sleep,
	}
}

func (s *Server) module() string {
	return "phantomjs:" + s.id
}

func (s *Server) ID() string {
	return s.id
}

func (s *Server) State() State {
	return s.state
}

// IsRunning reports whether a process was started and not yet cleaned up.
// It does not poll the OS.
func (s *Server) IsRunning() bool {
	return s.handle != nil
}

func (s *Server) PID() int {
	if s.handle == nil {
		return 0
	}
	return s.handle.process.Pid
}

// Stdin returns the write end of the server's stdin pipe, or nil once it is closed.
func (s *Server) Stdin() io.Writer {
	if s.handle == nil || s.handle.stdin == nil {
		return nil
	}
	return s.handle.stdin
}

// Start launches command without a shell. A leading "exec" token is dropped:
// the process is exec'd directly, so its pid is already the server's.
// The caller must not Start while IsRunning.
func (s *Server) Start(command string, r Redirections) error {
	args, err := splitCommand(command)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLaunchFailure, err)
	}

	h, err := spawn(args, r)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLaunchFailure, err)
	}

	exited, err := h.exited()
	if err != nil || exited {
		pid := h.process.Pid
		h.release()
		if err != nil {
			return fmt.Errorf("%w: status of pid %d: %w", ErrLaunchFailure, pid, err)
		}
		return fmt.Errorf("%w: pid %d exited immediately", ErrLaunchFailure, pid)
	}

	s.handle = h
	s.state = StateRunning
	log.Debugf(s.module(), "server started, pid: %d, cmd: %s %v", h.process.Pid, args[0], args[1:])
	return nil
}

// WaitUntilReachable polls 127.0.0.1:port until a TCP connection succeeds.
// It gives up after a fixed number of attempts and leaves the process alone.
func (s *Server) WaitUntilReachable(port int) error {
	address := net.JoinHostPort("127.0.0.1", strconv.Itoa(port))
	for attempt := 1; attempt <= s.probeAttempts; attempt++ {
		conn, err := s.dial("tcp", address, s.probeTimeout)
		if err == nil {
			_ = conn.Close()
			if s.state == StateRunning {
				s.state = StateReady
			}
			log.Debugf(s.module(), "%s reachable after %d attempt(s)", address, attempt)
			return nil
		}
		log.Debugf(s.module(), "probe %d/%d of %s failed: %s", attempt, s.probeAttempts, address, err)
		log.Progress(".")
		if attempt < s.probeAttempts {
			s.sleep(s.probeDelay)
		}
	}
	return fmt.Errorf("%w: %s after %d attempts", ErrReadinessTimeout, address, s.probeAttempts)
}

// Stop interrupts the process until the OS reports it gone. If it survives
// every attempt the handle is dropped anyway and ErrShutdownFailure is
// returned; the OS process may still be alive. Without a process Stop is a no-op.
func (s *Server) Stop() error {
	h := s.handle
	if h == nil {
		return nil
	}
	s.state = StateStopping
	pid := h.process.Pid

	for attempt := 1; attempt <= s.stopAttempts; attempt++ {
		exited, err := h.exited()
		if err != nil {
			log.Debugf(s.module(), "status of pid %d: %s", pid, err)
		}
		if exited {
			s.clear(StateStopped)
			log.Debugf(s.module(), "server stopped, pid: %d", pid)
			return nil
		}

		if err := h.closeDescriptors(); err != nil {
			log.Debugf(s.module(), "closing descriptors of pid %d: %s", pid, err)
		}
		if err := interrupt(h.process); err != nil && !errors.Is(err, os.ErrProcessDone) {
			log.Debugf(s.module(), "interrupting pid %d: %s", pid, err)
		}
		log.Progress(".")
		s.sleep(s.stopDelay)
	}

	if exited, _ := h.exited(); exited {
		s.clear(StateStopped)
		return nil
	}

	s.clear(StateStuck)
	return fmt.Errorf("%w: pid %d still running after %d interrupts", ErrShutdownFailure, pid, s.stopAttempts)
}

func (s *Server) clear(state State) {
	if s.handle != nil {
		if err := s.handle.release(); err != nil {
			log.Debugf(s.module(), "releasing process: %s", err)
		}
	}
	s.handle = nil
	s.state = state
}

func splitCommand(command string) ([]string, error) {
	args, err := shellquote.Split(command)
	if err != nil {
		return nil, err
	}
	if len(args) > 1 && args[0] == "exec" {
		args = args[1:]
	}
	if len(args) == 0 || (len(args) == 1 && args[0] == "exec") {
		return nil, errors.New("empty command")
	}
	return args, nil
}

func spawn(args []string, r Redirections) (*handle, error) {
	h := &handle{}
	var err error

	if h.stdout, err = openRedirection(r.Output, os.O_TRUNC); err != nil {
		return nil, err
	}
	if h.stderr, err = openRedirection(r.Errors, os.O_APPEND); err != nil {
		_ = h.closeDescriptors()
		return nil, err
	}
	stdin, stdinWriter, err := os.Pipe()
	if err != nil {
		_ = h.closeDescriptors()
		return nil, err
	}
	h.stdin = stdinWriter

	cmd := exec.Command(args[0], args[1:]...)
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdin = stdin
	if h.stdout != nil {
		cmd.Stdout = h.stdout
	}
	if h.stderr != nil {
		cmd.Stderr = h.stderr
	}

	err = cmd.Start()
	// the child holds its own copy of the read end
	_ = stdin.Close()
	if err != nil {
		_ = h.closeDescriptors()
		return nil, err
	}
	h.process = cmd.Process
	return h, nil
}

func openRedirection(path string, mode int) (*os.File, error) {
	if path == "" {
		return nil, nil
	}
	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|mode, 0o644)
}
