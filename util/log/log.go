package log

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/intel/schedtool/util/log/config"
)

// Init sets up the standard logrus logger from config
func Init(c config.Log) error {
	l, err := logrus.ParseLevel(c.Level)
	if err != nil {
		return err
	}
	// FIXME: both stdout and a file at the same time are not supported
	if c.Stdout {
		logrus.SetOutput(os.Stdout)
	} else {
		f, err := os.OpenFile(
			c.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND|os.O_SYNC, 0660)
		if err != nil {
			return err
		}
		logrus.SetOutput(f)
	}

	logrus.SetLevel(l)
	if c.Env == "production" {
		logrus.SetFormatter(&logrus.JSONFormatter{})
	}
	return nil
}

// CauseKey is the field carrying the human readable cause of a diagnostic
const CauseKey = "cause"

// DiagFormatter prints one user facing diagnostic per line:
//   ERROR: could not set PID 12 to F: SCHED_FIFO - Operation not permitted
type DiagFormatter struct {
	Prefix string
}

// Format implements logrus.Formatter
func (f *DiagFormatter) Format(e *logrus.Entry) ([]byte, error) {
	var b bytes.Buffer
	prefix := f.Prefix
	if prefix == "" {
		prefix = "ERROR: "
	}
	b.WriteString(prefix)
	b.WriteString(e.Message)
	if cause, ok := e.Data[CauseKey]; ok && fmt.Sprint(cause) != "" {
		fmt.Fprintf(&b, " - %v", cause)
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

// NewDiagnostics returns a logger for user facing diagnostics written to w
func NewDiagnostics(w io.Writer) *logrus.Logger {
	return &logrus.Logger{
		Out:       w,
		Formatter: &DiagFormatter{},
		Hooks:     make(logrus.LevelHooks),
		Level:     logrus.InfoLevel,
		ExitFunc:  os.Exit,
	}
}
