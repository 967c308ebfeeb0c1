package log

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

var (
	mu     sync.Mutex
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	silent atomic.Bool
	debug  atomic.Bool
)

// SetOutput redirects regular and error output. Nil keeps the current writer.
func SetOutput(out, errOut io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	if out != nil {
		stdout = out
	}
	if errOut != nil {
		stderr = errOut
	}
}

// SetSilent suppresses everything except Errorf.
func SetSilent(v bool) {
	silent.Store(v)
}

// SetDebug enables Debugf output.
func SetDebug(v bool) {
	debug.Store(v)
}

func IsDebug() bool {
	return debug.Load()
}

func formatLine(module string, f string, a ...any) string {
	if module != "" {
		module = "[" + module + "] "
	}
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	return fmt.Sprintf("[%s] %s%s\n", timestamp, module, fmt.Sprintf(f, a...))
}

func write(w *io.Writer, message string) {
	mu.Lock()
	defer mu.Unlock()
	_, _ = io.WriteString(*w, message)
}

func Printf(module string, format string, a ...any) {
	if silent.Load() {
		return
	}
	write(&stdout, formatLine(module, format, a...))
}

func Warnf(module string, format string, a ...any) {
	if silent.Load() {
		return
	}
	write(&stderr, formatLine(module, "WARNING: "+format, a...))
}

func Errorf(module string, format string, a ...any) {
	write(&stderr, formatLine(module, format, a...))
}

func Debugf(module string, format string, a ...any) {
	if !debug.Load() || silent.Load() {
		return
	}
	write(&stdout, formatLine(module, format, a...))
}

// Progress writes s as-is, without timestamp or newline.
func Progress(s string) {
	if silent.Load() {
		return
	}
	write(&stdout, s)
}
