package core

import (
	"fmt"
	"sort"
	"strings"
)

// Logger is any service that can log messages.
// args may hold an error, Fields, Subject values and one Actor.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}

// Actor identifies the signed in admin who triggered a logged event.
type Actor struct {
	ID    string
	Email string
}

// Fields is extra data attached to a log entry.
type Fields map[string]interface{}

// Subject is a domain value that describes itself in log entries,
// eg. the announcement being broadcast or the fee records dropped on load.
type Subject interface {
	LogFields() Fields
}

// Merge copies the keys of every other into f. Later keys win.
func (f Fields) Merge(others ...Fields) Fields {
	for _, other := range others {
		for k, v := range other {
			f[k] = v
		}
	}
	return f
}

// String renders f as space separated key=value pairs, sorted by key.
func (f Fields) String() string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte(' ')
		}
		_, _ = fmt.Fprintf(&b, "%s=%v", k, f[k])
	}
	return b.String()
}
