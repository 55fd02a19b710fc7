package flow

import (
	"time"

	"github.com/SergiiSharpov/gaspoc"
)

// DefaultDuration is the time it takes the flow pulse to travel the
// length of a pipe.
const DefaultDuration = 2 * time.Second

// Loop is a repeating timer. It reports the eased phase of the current
// cycle, a number in [0,1) that wraps back to 0 when a cycle completes.
// The zero value is a stopped loop with DefaultDuration and linear easing.
type Loop struct {
	// Duration of one cycle. Non-positive values select DefaultDuration.
	Duration time.Duration
	// Ease is applied to the linear phase. Nil means Linear.
	Ease EaseFunc

	elapsed time.Duration
	running bool
}

// NewLoop returns a stopped loop with the given cycle duration and easing.
func NewLoop(d time.Duration, ease EaseFunc) *Loop {
	return &Loop{Duration: d, Ease: ease}
}

// Start resumes the loop from its current phase.
func (l *Loop) Start() { l.running = true }

// Stop pauses the loop. Advance keeps returning the paused phase.
func (l *Loop) Stop() { l.running = false }

// Running reports whether the loop advances with time.
func (l *Loop) Running() bool { return l.running }

// Reset rewinds the loop to the start of a cycle.
func (l *Loop) Reset() { l.elapsed = 0 }

// Advance moves a running loop forward by dt and returns the eased phase.
// Negative dt is ignored.
func (l *Loop) Advance(dt time.Duration) float64 {
	if l.running && dt > 0 {
		l.elapsed = (l.elapsed + dt) % l.duration()
	}
	return l.Phase()
}

// Phase returns the eased phase of the loop without advancing it.
func (l *Loop) Phase() float64 {
	t := float64(l.elapsed) / float64(l.duration())
	ease := l.Ease
	if ease == nil {
		ease = Linear
	}
	// Easing functions may overshoot 1 for t close to 1.
	return gaspoc.Fract(gaspoc.Clamp(ease(t), 0, 1))
}

func (l *Loop) duration() time.Duration {
	if l.Duration <= 0 {
		return DefaultDuration
	}
	return l.Duration
}
