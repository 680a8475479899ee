package task

import (
	"errors"
	"sync/atomic"

	masonerrors "github.com/masonbuild/mason/pkg/errors"
)

var errUnitRejected = errors.New("unit reported failure")

// Signal is a one-shot completion cell handed to a unit for a single publish
// cycle. The first Resolve or Reject settles it and closes Done; any later
// settle attempt is reported through the violation hook as a
// DoubleSignalError and does not overwrite the recorded outcome.
type Signal struct {
	unit      string
	settled   atomic.Bool
	err       error
	done      chan struct{}
	violation func(error)
}

// NewSignal returns an unsettled signal for the named unit. violation, if
// non-nil, receives a *errors.DoubleSignalError whenever the signal is
// settled more than once.
func NewSignal(unit string, violation func(error)) *Signal {
	return &Signal{
		unit:      unit,
		done:      make(chan struct{}),
		violation: violation,
	}
}

// Unit returns the name of the unit the signal belongs to.
func (s *Signal) Unit() string {
	return s.unit
}

// Resolve settles the signal as a success.
func (s *Signal) Resolve() {
	s.settle(nil)
}

// Reject settles the signal as a failure carrying err as the diagnostic
// payload. A nil err is normalized so exceptions always have a detail.
func (s *Signal) Reject(err error) {
	if err == nil {
		err = errUnitRejected
	}
	s.settle(masonerrors.NewUnitError(s.unit, err))
}

// Done is closed once the signal has settled.
func (s *Signal) Done() <-chan struct{} {
	return s.done
}

// Err reports the settled outcome: nil for success, the failure detail
// otherwise. Valid only after Done is closed.
func (s *Signal) Err() error {
	return s.err
}

func (s *Signal) settle(err error) {
	if !s.settled.CompareAndSwap(false, true) {
		if s.violation != nil {
			s.violation(masonerrors.NewDoubleSignalError(s.unit))
		}
		return
	}

	s.err = err
	close(s.done)
}
