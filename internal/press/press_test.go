package press

import "testing"

func TestTapIsClick(t *testing.T) {
	var r Recognizer
	r.Press(42)
	action, offset := r.Release()
	if action != Click || offset != 42 {
		t.Errorf("Release() = %v, %d; want Click, 42", action, offset)
	}
	if r.State() != Idle {
		t.Errorf("state = %v, want Idle", r.State())
	}
}

func TestLongPressSuppressesFollowingClick(t *testing.T) {
	var r Recognizer
	seq := r.Press(7)

	action, offset := r.TimerFire(seq)
	if action != LongPress || offset != 7 {
		t.Fatalf("TimerFire() = %v, %d; want LongPress, 7", action, offset)
	}
	if r.State() != Fired {
		t.Fatalf("state = %v, want Fired", r.State())
	}

	// The release after a fired timer must be swallowed, once.
	if action, _ := r.Release(); action != None {
		t.Errorf("Release() after fire = %v, want None", action)
	}

	// Suppression is one-shot: the next tap is a normal click.
	r.Press(8)
	if action, offset := r.Release(); action != Click || offset != 8 {
		t.Errorf("next tap = %v, %d; want Click, 8", action, offset)
	}
}

func TestStaleTimerIgnored(t *testing.T) {
	var r Recognizer
	stale := r.Press(1)
	if action, _ := r.Release(); action != Click {
		t.Fatal("first tap should click")
	}

	r.Press(2)
	if action, _ := r.TimerFire(stale); action != None {
		t.Errorf("stale TimerFire() = %v, want None", action)
	}
	if r.State() != Pressing {
		t.Errorf("state = %v, want Pressing", r.State())
	}

	// The current press's timer still works.
	if action, offset := r.TimerFire(stale + 1); action != LongPress || offset != 2 {
		t.Errorf("current TimerFire() = %v, %d; want LongPress, 2", action, offset)
	}
}

func TestCancelDisarms(t *testing.T) {
	var r Recognizer
	seq := r.Press(5)
	r.Cancel()

	if action, _ := r.TimerFire(seq); action != None {
		t.Errorf("TimerFire() after cancel = %v, want None", action)
	}
	if action, _ := r.Release(); action != None {
		t.Errorf("Release() after cancel = %v, want None", action)
	}
}

func TestTimerAfterReleaseDoesNothing(t *testing.T) {
	var r Recognizer
	seq := r.Press(3)
	r.Release()
	if action, _ := r.TimerFire(seq); action != None {
		t.Errorf("TimerFire() after release = %v, want None", action)
	}
}
