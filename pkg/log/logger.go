/*
Copyright 2026 The Kubernetes Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package log

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
)

var (
	globalLock   sync.RWMutex
	globalLogger = logr.Discard()
)

// SetLogger sets the logger returned by Log.
func SetLogger(l logr.Logger) {
	globalLock.Lock()
	defer globalLock.Unlock()
	globalLogger = l
}

// Log returns the logger set with SetLogger; it discards everything until then.
func Log() logr.Logger {
	globalLock.RLock()
	defer globalLock.RUnlock()
	return globalLogger
}

// logEntry defines the information that can be used for composing a log line.
type logEntry struct {
	// Prefix of the log line, composed of the hierarchy of log.WithName values.
	Prefix string

	// Level of the LogEntry.
	Level int

	// Values of the log line, composed of the concatenation of log.WithValues and KeyValue pairs passed to log.Info.
	Values []interface{}
}

// Option is a configuration option supplied to NewLogger.
type Option func(*logger)

// WithThreshold sets the highest V level that is written; by default everything is written.
func WithThreshold(threshold *int) Option {
	return func(l *logger) {
		l.threshold = threshold
	}
}

// WithWriter sets where log lines go; defaults to os.Stderr.
func WithWriter(w io.Writer) Option {
	return func(l *logger) {
		l.out = &lockedWriter{w: w}
	}
}

// NewLogger returns a logr.Logger writing one flattened line per entry.
func NewLogger(options ...Option) logr.Logger {
	l := &logger{out: &lockedWriter{w: os.Stderr}}
	for _, o := range options {
		o(l)
	}
	return logr.New(l)
}

type lockedWriter struct {
	lock sync.Mutex
	w    io.Writer
}

func (lw *lockedWriter) writeLine(s string) {
	lw.lock.Lock()
	defer lw.lock.Unlock()
	fmt.Fprintln(lw.w, s)
}

type logger struct {
	out       *lockedWriter
	threshold *int
	prefix    string
	values    []interface{}
}

var _ logr.LogSink = &logger{}

func (l *logger) Init(logr.RuntimeInfo) {
}

// Enabled tests whether this Logger is enabled.
func (l *logger) Enabled(level int) bool {
	if l.threshold == nil {
		return true
	}
	return level <= *l.threshold
}

// Info logs a non-error message with the given key/value pairs as context.
func (l *logger) Info(level int, msg string, kvs ...interface{}) {
	if !l.Enabled(level) {
		return
	}
	values := copySlice(l.values)
	values = append(values, kvs...)
	values = append(values, "msg", msg)
	l.write(level, values)
}

// Error logs an error message with the given key/value pairs as context.
func (l *logger) Error(err error, msg string, kvs ...interface{}) {
	values := copySlice(l.values)
	values = append(values, kvs...)
	values = append(values, "msg", msg, "error", err)
	l.write(0, values)
}

// WithName adds a new element to the logger's name.
func (l *logger) WithName(name string) logr.LogSink {
	nl := l.clone()
	if len(l.prefix) > 0 {
		nl.prefix = l.prefix + "/"
	}
	nl.prefix += name
	return nl
}

// WithValues adds some key-value pairs of context to a logger.
func (l *logger) WithValues(kvList ...interface{}) logr.LogSink {
	nl := l.clone()
	nl.values = append(nl.values, kvList...)
	return nl
}

func (l *logger) write(level int, values []interface{}) {
	f, err := flatten(logEntry{
		Prefix: l.prefix,
		Level:  level,
		Values: values,
	})
	if err != nil {
		f = fmt.Sprintf("Failed to format log entry: %v %v", err, values)
	}
	l.out.writeLine(f)
}

func (l *logger) clone() *logger {
	return &logger{
		out:       l.out,
		threshold: l.threshold,
		prefix:    l.prefix,
		values:    copySlice(l.values),
	}
}

func copySlice(in []interface{}) []interface{} {
	out := make([]interface{}, len(in))
	copy(out, in)
	return out
}

// flatten returns a human readable/machine parsable text representing the LogEntry:
// the message first, then the error, then the values in the order they were added,
// with unquoted names and JSON encoded values.
func flatten(entry logEntry) (string, error) {
	var msgValue string
	var errorValue error
	if len(entry.Values)%2 == 1 {
		return "", errors.New("log entry cannot have odd number of keyAndValues")
	}

	keys := make([]string, 0, len(entry.Values)/2)
	values := make(map[string]interface{}, len(entry.Values)/2)
	for i := 0; i < len(entry.Values); i += 2 {
		k, ok := entry.Values[i].(string)
		if !ok {
			return "", errors.Errorf("key is not a string: %v", entry.Values[i])
		}
		v := entry.Values[i+1]
		switch k {
		case "msg":
			if msgValue, ok = v.(string); !ok {
				return "", errors.Errorf("the msg value is not of type string: %v", v)
			}
		case "error":
			if v == nil {
				continue
			}
			if errorValue, ok = v.(error); !ok {
				return "", errors.Errorf("the error value is not of type error: %v", v)
			}
		default:
			if _, ok := values[k]; !ok {
				keys = append(keys, k)
			}
			values[k] = v
		}
	}
	str := ""
	if entry.Prefix != "" {
		str += fmt.Sprintf("[%s] ", entry.Prefix)
	}
	str += msgValue
	if errorValue != nil {
		if msgValue != "" {
			str += ": "
		}
		str += errorValue.Error()
	}
	for _, k := range keys {
		prettyValue, err := pretty(values[k])
		if err != nil {
			return "", err
		}
		str += fmt.Sprintf(" %s=%s", k, prettyValue)
	}
	return str, nil
}

func pretty(value interface{}) (string, error) {
	if s, ok := value.(fmt.Stringer); ok {
		value = s.String()
	}
	jb, err := json.Marshal(value)
	if err != nil {
		return "", errors.Wrapf(err, "failed to marshal %v", value)
	}
	return string(jb), nil
}
