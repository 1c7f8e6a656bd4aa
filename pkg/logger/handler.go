package logger

import (
	"bytes"
	"io"
	"strconv"
	"sync"
	"time"
)

// textHandler writes one line per log call: timestamp, level, module,
// message, then key=value fields in order.
type textHandler struct {
	mu    sync.Mutex
	w     io.Writer
	flags int
	tz    *time.Location
}

// Handler flags, analogous to the standard log package's.
const (
	FlagDate = 1 << iota
	FlagTime
)

func newTextHandler(w io.Writer, flags int, tz *time.Location) *textHandler {
	if tz == nil {
		tz = time.UTC
	}
	return &textHandler{w: w, flags: flags, tz: tz}
}

func (h *textHandler) handle(t time.Time, level LogLevel, module, msg string, fields []Field) {
	buf := bufPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufPool.Put(buf)

	if h.flags&(FlagDate|FlagTime) != 0 {
		lt := t.In(h.tz)
		if h.flags&FlagDate != 0 {
			buf.WriteString(lt.Format("2006/01/02 "))
		}
		if h.flags&FlagTime != 0 {
			buf.WriteString(lt.Format("15:04:05.000 "))
		}
	}
	buf.WriteString(level.String())
	buf.WriteByte(' ')
	if module != "" {
		buf.WriteByte('[')
		buf.WriteString(module)
		buf.WriteString("] ")
	}
	buf.WriteString(msg)
	for _, f := range fields {
		buf.WriteByte(' ')
		buf.WriteString(f.Key)
		buf.WriteByte('=')
		writeFieldValue(buf, f)
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	_, _ = h.w.Write(buf.Bytes())
	h.mu.Unlock()
}

var bufPool = sync.Pool{New: func() any { return new(bytes.Buffer) }}

func writeFieldValue(buf *bytes.Buffer, f Field) {
	switch f.kind {
	case kindString:
		buf.WriteString(f.strVal)
	case kindInt, kindInt64:
		buf.WriteString(strconv.FormatInt(f.numVal, 10))
	case kindBool:
		buf.WriteString(strconv.FormatBool(f.boolVal))
	case kindDuration:
		buf.WriteString(time.Duration(f.numVal).String())
	default:
		buf.WriteString(f.String()[len(f.Key)+1:])
	}
}
