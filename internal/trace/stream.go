package trace

import (
	"io"
	"sync"
	"time"
)

// StreamTracer writes every accepted event to w as it arrives.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	level  Level
	format Format
	start  time.Time
}

// NewStreamTracer creates a tracer writing to w.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{w: w, level: level, format: format, start: time.Now()}
}

// Emit writes ev when its scope passes the level. Write errors are dropped
// so tracing never fails a run.
func (t *StreamTracer) Emit(ev *Event) {
	if ev == nil || !t.accepts(ev) {
		return
	}
	ev.Seq = NextSeq()
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	data := FormatEvent(ev, t.format, t.start)

	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = t.w.Write(data) //nolint:errcheck
}

func (t *StreamTracer) accepts(ev *Event) bool {
	if ev.Kind == KindError {
		return t.level > LevelOff
	}
	return t.level.ShouldEmit(ev.Scope)
}

// Flush flushes w when it buffers.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close flushes and closes w when it is closable.
func (t *StreamTracer) Close() error {
	if err := t.Flush(); err != nil {
		return err
	}
	if c, ok := t.w.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
