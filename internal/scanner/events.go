package scanner

import (
	"github.com/fenilsonani/disklens/internal/model"
)

// Event is a tagged message from the scanner to the UI. Delivery is FIFO;
// EventComplete is always the last event of a successful scan.
type Event interface {
	isEvent()
}

// EventProgress is a throttled counter snapshot.
type EventProgress struct {
	Files       int64
	Dirs        int64
	Bytes       int64
	Errors      int64
	CurrentPath string
	Rate        float64
}

// EventError reports one tolerated per-entry failure.
type EventError struct {
	Err model.ScanError
}

// EventComplete carries the finished result.
type EventComplete struct {
	Result *model.ScanResult
}

func (EventProgress) isEvent() {}
func (EventError) isEvent()    {}
func (EventComplete) isEvent() {}
