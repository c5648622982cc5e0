// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/apex/log"
)

// EnvLevel names the environment variable holding the log level.
const EnvLevel = "TREEDIFF_LOG"

const tracePrefix = "TRACE: "

var traceEnabled bool

// levels maps TREEDIFF_LOG values to apex levels. Trace rides on debug and is
// told apart by its message prefix.
var levels = map[string]log.Level{
	"trace": log.DebugLevel,
	"debug": log.DebugLevel,
	"info":  log.InfoLevel,
	"warn":  log.WarnLevel,
	"error": log.ErrorLevel,
	"fatal": log.FatalLevel,
}

var letters = map[log.Level]string{
	log.DebugLevel: "D",
	log.InfoLevel:  "I",
	log.WarnLevel:  "W",
	log.ErrorLevel: "E",
	log.FatalLevel: "F",
}

// InitLogger installs the handler on stderr and sets the level from
// TREEDIFF_LOG. Unknown or empty values mean "error".
func InitLogger() {
	Init(os.Getenv(EnvLevel), os.Stderr)
}

// Init installs a Handler writing to w at the named level.
func Init(level string, w io.Writer) {
	level = strings.ToLower(strings.TrimSpace(level))
	apexLevel, ok := levels[level]
	if !ok {
		apexLevel = log.ErrorLevel
	}
	traceEnabled = level == "trace"

	log.SetHandler(&Handler{w: w})
	log.SetLevel(apexLevel)
}

// Handler writes one line per entry: timestamp, level letter, message and
// any fields as key=value. Rendered output owns stdout, so the CLI points
// this at stderr.
type Handler struct {
	mu  sync.Mutex
	w   io.Writer
	now func() time.Time
}

// HandleLog implements log.Handler.
func (h *Handler) HandleLog(e *log.Entry) error {
	now := time.Now
	if h.now != nil {
		now = h.now
	}

	level, message := letters[e.Level], e.Message
	if level == "" {
		level = "?"
	}
	if rest, ok := strings.CutPrefix(message, tracePrefix); ok {
		level, message = "T", rest
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", now().Format("2006-01-02 15:04:05"), level, message)
	for _, name := range e.Fields.Names() {
		fmt.Fprintf(&b, " %s=%v", name, e.Fields.Get(name))
	}
	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, b.String())
	return err
}

// Tracef logs below debug. It is dropped unless TREEDIFF_LOG=trace.
func Tracef(format string, args ...interface{}) {
	if traceEnabled {
		log.Debug(tracePrefix + fmt.Sprintf(format, args...))
	}
}

func Debugf(format string, args ...interface{}) {
	log.Debugf(format, args...)
}

func Debug(msg string) {
	log.Debug(msg)
}

func Infof(format string, args ...interface{}) {
	log.Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	log.Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	log.Errorf(format, args...)
}

// WithError returns an entry carrying err as the "error" field.
func WithError(err error) *log.Entry {
	return log.WithError(err)
}
