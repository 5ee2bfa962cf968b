// Package logging adapts the teacher's logrus-based logger package to
// the task graph's evaluation context: every line can be tagged with the
// scoped variable, fingerprint and request id of the task being
// evaluated, instead of only a caller file/line.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

// Config controls the root logger.
type Config struct {
	LogPath  string
	LogLevel string
}

// Root is the process-wide logger, configured once by Init.
var Root = logrus.New()

// taskFormatter renders "[time] [LEVEL] (caller) msg  field=value ..."
// lines, generalizing the teacher's CustomFormatter to also flatten the
// node/fingerprint/request-id fields evaluators attach via WithField.
type taskFormatter struct {
	TimestampFormat string
	colored         bool
}

func (f *taskFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	timestamp := entry.Time.Format(f.TimestampFormat)
	level := strings.ToUpper(entry.Level.String())
	if len(level) > 4 {
		level = level[:4]
	}
	caller := getCaller()

	var fields strings.Builder
	for k, v := range entry.Data {
		fmt.Fprintf(&fields, " %s=%v", k, v)
	}

	line := fmt.Sprintf("[%s] [%s] (%s) %s%s\n", timestamp, level, caller, entry.Message, fields.String())
	if !f.colored {
		return []byte(line), nil
	}
	return []byte(colorForLevel(entry.Level) + line + "\x1b[0m"), nil
}

func colorForLevel(lvl logrus.Level) string {
	switch lvl {
	case logrus.ErrorLevel, logrus.FatalLevel, logrus.PanicLevel:
		return "\x1b[31m"
	case logrus.WarnLevel:
		return "\x1b[33m"
	case logrus.DebugLevel, logrus.TraceLevel:
		return "\x1b[36m"
	default:
		return ""
	}
}

func getCaller() string {
	for i := 2; i < 20; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		if strings.Contains(file, "/logrus/") ||
			strings.Contains(file, "logging.go") ||
			strings.Contains(file, "sirupsen") ||
			strings.Contains(file, "/entry.go") {
			continue
		}
		funcName := runtime.FuncForPC(pc).Name()
		return fmt.Sprintf("%s:%s:%d", filepath.Base(file), funcName, line)
	}
	return "unknown:unknown:0"
}

func parseLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "info":
		return logrus.InfoLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

// Init configures Root per cfg. Output goes to a colorized, TTY-aware
// writer on stdout (and to the file at cfg.LogPath, if set).
func Init(cfg Config) error {
	isTerm := isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	Root.SetFormatter(&taskFormatter{TimestampFormat: "15:04:05 2006/01/02", colored: isTerm})
	Root.SetLevel(parseLevel(cfg.LogLevel))

	out := io.Writer(colorable.NewColorableStdout())
	if cfg.LogPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0o755); err != nil {
			return err
		}
		f, err := os.OpenFile(cfg.LogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			Root.Warnf("failed to open log file %s, falling back to stdout: %v", cfg.LogPath, err)
		} else {
			out = io.MultiWriter(out, f)
		}
	}
	Root.SetOutput(out)
	return nil
}

// ForTask returns a logger entry pre-tagged with the task's scoped
// variable, its fingerprint and the owning request id, so every log line
// emitted during that task's evaluation carries its identity.
func ForTask(requestID string, variable string, scope []uint32, fingerprint uint64) *logrus.Entry {
	return Root.WithFields(logrus.Fields{
		"request":     requestID,
		"variable":    variable,
		"scope":       scope,
		"fingerprint": fmt.Sprintf("%016x", fingerprint),
	})
}
