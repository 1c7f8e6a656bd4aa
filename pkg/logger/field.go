// Package logger is a small zero-allocation-friendly structured logging
// facade over log/slog: typed Field constructors, a Logger with module
// scoping and accumulated fields (With), and a plain-text handler for
// console output. internal/logging owns valib's own ambient log
// configuration (rotation, level); this package is the field/handler
// plumbing a host embedding valib can reuse for its own log lines.
package logger

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

type fieldKind int

const (
	kindString fieldKind = iota
	kindInt
	kindInt64
	kindBool
	kindDuration
	kindError
	kindAny
)

// Field is a single structured log attribute, built by String/Int/... and
// consumed by a Logger's Info/Debug/Warn/Error/With.
type Field struct {
	Key  string
	kind fieldKind

	numVal  int64
	boolVal bool
	strVal  string
	anyVal  any
}

func String(key, val string) Field       { return Field{Key: key, kind: kindString, strVal: val} }
func Int(key string, val int) Field      { return Field{Key: key, kind: kindInt, numVal: int64(val)} }
func Int64(key string, val int64) Field  { return Field{Key: key, kind: kindInt64, numVal: val} }
func Bool(key string, val bool) Field    { return Field{Key: key, kind: kindBool, boolVal: val} }
func Duration(key string, val time.Duration) Field {
	return Field{Key: key, kind: kindDuration, numVal: int64(val)}
}

// Error builds a Field keyed "error" from err's message.
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", kind: kindString, strVal: ""}
	}
	return Field{Key: "error", kind: kindString, strVal: err.Error()}
}

// Any builds a Field from an arbitrary value, formatted with %v.
func Any(key string, val any) Field { return Field{Key: key, kind: kindAny, anyVal: val} }

// value returns f's payload as a plain Go value, for handlers that want it.
func (f Field) value() any {
	switch f.kind {
	case kindString:
		return f.strVal
	case kindInt:
		return int(f.numVal)
	case kindInt64:
		return f.numVal
	case kindBool:
		return f.boolVal
	case kindDuration:
		return time.Duration(f.numVal)
	case kindAny:
		return f.anyVal
	default:
		return nil
	}
}

func (f Field) String() string {
	switch f.kind {
	case kindDuration:
		return fmt.Sprintf("%s=%s", f.Key, time.Duration(f.numVal))
	default:
		return fmt.Sprintf("%s=%v", f.Key, f.value())
	}
}

// fieldToAttr converts a Field to a slog.Attr for callers bridging into
// log/slog-based handlers.
func fieldToAttr(f Field) slog.Attr {
	switch f.kind {
	case kindString:
		return slog.String(f.Key, f.strVal)
	case kindInt:
		return slog.Int(f.Key, int(f.numVal))
	case kindInt64:
		return slog.Int64(f.Key, f.numVal)
	case kindBool:
		return slog.Bool(f.Key, f.boolVal)
	case kindDuration:
		return slog.Duration(f.Key, time.Duration(f.numVal))
	default:
		return slog.Any(f.Key, f.anyVal)
	}
}

// attrPool recycles slog.Attr slices for handlers that batch-convert
// Fields before calling a slog.Handler.
var attrPool = sync.Pool{
	New: func() any {
		s := make([]slog.Attr, 0, 8)
		return &s
	},
}

func getAttrs() *[]slog.Attr { return attrPool.Get().(*[]slog.Attr) }

func putAttrs(a *[]slog.Attr) {
	*a = (*a)[:0]
	attrPool.Put(a)
}
