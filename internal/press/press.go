// Package press recognizes taps versus long presses from pointer
// events. The recognizer is an explicit state machine: Idle until a
// press arms a timer, Pressing until release/cancel or the timer fires,
// Fired until the release that follows a fired timer is consumed. A
// fired long press suppresses exactly one click.
package press

// State of the recognizer.
type State int

const (
	Idle State = iota
	Pressing
	Fired
)

// Action reported to the caller after an event.
type Action int

const (
	None Action = iota
	Click
	LongPress
)

// Recognizer tracks one pointer. Arm timers with the sequence number
// returned by Press; a timer whose sequence is stale is ignored, so
// re-pressing before an old timer fires is safe.
type Recognizer struct {
	state  State
	seq    int
	offset int
}

// State returns the current state, for display and tests.
func (r *Recognizer) State() State { return r.state }

// Press records pointer-down over the character at the given absolute
// offset and returns the sequence number to arm the long-press timer with.
func (r *Recognizer) Press(offset int) int {
	r.state = Pressing
	r.offset = offset
	r.seq++
	return r.seq
}

// TimerFire handles the long-press timer. Stale timers and timers
// firing outside Pressing do nothing.
func (r *Recognizer) TimerFire(seq int) (Action, int) {
	if r.state != Pressing || seq != r.seq {
		return None, 0
	}
	r.state = Fired
	return LongPress, r.offset
}

// Release handles pointer-up. A release while Pressing is a click; a
// release after the timer fired is swallowed once.
func (r *Recognizer) Release() (Action, int) {
	switch r.state {
	case Pressing:
		r.state = Idle
		return Click, r.offset
	case Fired:
		r.state = Idle
		return None, 0
	}
	return None, 0
}

// Cancel aborts any in-progress press (pointer left the text, screen
// changed, focus lost).
func (r *Recognizer) Cancel() {
	r.state = Idle
}
