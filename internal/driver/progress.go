package driver

import "time"

// Stage is a step of processing one notebook, or of the run when the event
// has no file.
type Stage string

const (
	StageRead      Stage = "read"
	StageTranspile Stage = "transpile"
	StageWrite     Stage = "write"
	StageCheck     Stage = "check"
	StageRemap     Stage = "remap"
)

// Status is the progress state within a stage.
type Status string

const (
	StatusQueued  Status = "queued"
	StatusWorking Status = "working"
	StatusDone    Status = "done"
	StatusSkipped Status = "skipped" // nothing to check in the notebook
	StatusError   Status = "error"
)

// Event reports progress for a notebook (or for the run when File is empty).
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events. Implementations must be safe for
// concurrent use.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

type nopSink struct{}

func (nopSink) OnEvent(Event) {}
