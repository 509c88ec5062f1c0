package logsvc

import (
	"log"
	"strconv"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/Aastha-hs1d/JyotiPortal/core"
)

// RollbarLogger prints every entry to a std logger and reports it to Rollbar when enabled.
type RollbarLogger struct {
	std *log.Logger
}

var _ core.Logger = (*RollbarLogger)(nil)

func NewRollbarLogger(std *log.Logger, conf *core.Config) *RollbarLogger {
	rollbar.SetToken(conf.RollbarToken)
	rollbar.SetEnvironment(conf.Env)
	rollbar.SetServerHost(conf.Server.Host)
	rollbar.SetCodeVersion(conf.Build)
	rollbar.SetStackTracer(errors.StackTracer)
	return &RollbarLogger{std: std}
}

func (l RollbarLogger) Enable(enabled bool) {
	rollbar.SetEnabled(enabled)
}

// entry is one log call with its args sorted out.
type entry struct {
	level  string
	msg    string
	err    error
	fields core.Fields
	actor  *core.Actor
}

func newEntry(level, msg string, args []interface{}) entry {
	e := entry{level: level, msg: msg, fields: core.Fields{}}
	for i, arg := range args {
		switch v := arg.(type) {
		case nil:
		case core.Actor:
			if e.actor == nil {
				actor := v
				e.actor = &actor
			}
		case error:
			if e.err == nil {
				e.err = v
			} else {
				e.fields["error"+strconv.Itoa(i)] = v.Error()
			}
		case core.Fields:
			e.fields.Merge(v)
		case map[string]interface{}:
			e.fields.Merge(v)
		case core.Subject:
			e.fields.Merge(v.LogFields())
		default:
			e.fields["arg"+strconv.Itoa(i)] = v
		}
	}
	return e
}

// report hands the entry to Rollbar: the message, the error with its stack and the fields as extras.
func (l RollbarLogger) report(e entry, send func(...interface{})) {
	if e.actor != nil {
		rollbar.SetPerson(e.actor.ID, e.actor.Email, e.actor.Email)
	} else {
		rollbar.ClearPerson()
	}
	payload := []interface{}{e.msg}
	if e.err != nil {
		payload = append(payload, e.err)
	}
	if len(e.fields) > 0 {
		payload = append(payload, map[string]interface{}(e.fields))
	}
	send(payload...)
}

// print writes `LEVEL msg key=value ...` on one line, the error (with its stack) below it.
// The actor is left to Rollbar.
func (l RollbarLogger) print(e entry) {
	if len(e.fields) > 0 {
		l.std.Println(e.level, e.msg, e.fields.String())
	} else {
		l.std.Println(e.level, e.msg)
	}
	if e.err != nil {
		l.std.Printf("%+v\n", e.err)
	}
}

func (l RollbarLogger) log(level, msg string, args []interface{}, send func(...interface{})) {
	e := newEntry(level, msg, args)
	l.report(e, send)
	l.print(e)
}

func (l RollbarLogger) Debug(msg string, args ...interface{}) {
	l.log("DEBUG", msg, args, rollbar.Debug)
}

func (l RollbarLogger) Info(msg string, args ...interface{}) {
	l.log("INFO", msg, args, rollbar.Info)
}

func (l RollbarLogger) Warn(msg string, args ...interface{}) {
	l.log("WARN", msg, args, rollbar.Warning)
}

func (l RollbarLogger) Error(msg string, args ...interface{}) {
	l.log("ERROR", msg, args, rollbar.Error)
}

func (l RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.log("FATAL", msg, args, rollbar.Critical)
	l.std.Fatal(msg)
}
