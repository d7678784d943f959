// Package tlog is the core's process-wide logging facility: a single,
// swappable, thread-safe sink emitting severities Trace, Debug, Test,
// Warn, Error, and Fatal, built on op/go-logging the way
// kryptco-kr's logging.go wires it up.
package tlog

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("tweak")

var stderrFormat = logging.MustStringFormatter(
	`%{time:2006-01-02T15:04:05.000Z07:00} %{pid} %{level:.5s} %{shortfunc}:%{line} ▶ %{message}`,
)

// Setup installs the default stderr backend at defaultLevel. KR_LOG_LEVEL's
// tweak-flavored analogue, TWEAK_LOG_LEVEL, overrides it when set.
func Setup(defaultLevel logging.Level) {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	logging.SetFormatter(stderrFormat)
	leveled := logging.AddModuleLevel(backend)

	switch os.Getenv("TWEAK_LOG_LEVEL") {
	case "CRITICAL":
		leveled.SetLevel(logging.CRITICAL, "")
	case "ERROR":
		leveled.SetLevel(logging.ERROR, "")
	case "WARNING":
		leveled.SetLevel(logging.WARNING, "")
	case "INFO":
		leveled.SetLevel(logging.INFO, "")
	case "DEBUG":
		leveled.SetLevel(logging.DEBUG, "")
	default:
		leveled.SetLevel(defaultLevel, "")
	}
	logging.SetBackend(leveled)
}

// SetBackend replaces the sink outright. The core's log sink must be
// replaceable at runtime and thread-safe; go-logging's SetBackend
// already serializes this against concurrent log calls.
func SetBackend(backend logging.Backend) {
	logging.SetBackend(logging.AddModuleLevel(backend))
}

// Trace and Debug both map onto go-logging's DEBUG tier: the source
// distinguishes them only by convention (Trace for high-volume protocol
// chatter, Debug for everything else), and go-logging has no finer tier
// to reflect that split.
func Trace(format string, args ...any) { log.Debugf(format, args...) }
func Debug(format string, args ...any) { log.Debugf(format, args...) }

// Test is a severity level between Debug and Warn, used for
// assertion-adjacent diagnostics below Warn; go-logging's INFO tier is
// the closest fit.
func Test(format string, args ...any) { log.Infof(format, args...) }
func Warn(format string, args ...any) { log.Warningf(format, args...) }
func Error(format string, args ...any) { log.Errorf(format, args...) }

// Fatal logs at CRITICAL and aborts the process.
func Fatal(format string, args ...any) {
	log.Criticalf(format, args...)
	os.Exit(1)
}

// RecoverToLog runs f, logging and swallowing any panic instead of
// letting it escape. Listener callbacks run through this so
// a misbehaving user callback cannot take down the I/O thread.
func RecoverToLog(f func()) {
	defer func() {
		if x := recover(); x != nil {
			log.Error(fmt.Sprintf("run time panic: %v", x))
			log.Error(string(debug.Stack()))
		}
	}()
	f()
}
