package trace

import "time"

// Kind is the type of a trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindSpanBegin:
		return "begin"
	case KindSpanEnd:
		return "end"
	case KindPoint:
		return "point"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	ScopeRun      Scope = iota + 1 // whole invocation
	ScopeStage                     // convert, check, remap
	ScopeNotebook                  // one notebook
	ScopeCell                      // one cell
)

func (s Scope) String() string {
	switch s {
	case ScopeRun:
		return "run"
	case ScopeStage:
		return "stage"
	case ScopeNotebook:
		return "notebook"
	case ScopeCell:
		return "cell"
	default:
		return "unknown"
	}
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64 // 0 for roots
	Name     string // "convert", "notebook:analysis.ipynb", ...
	Detail   string
	Elapsed  time.Duration // set on span ends
	Extra    map[string]string
}
