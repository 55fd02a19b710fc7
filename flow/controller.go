package flow

import (
	"errors"
	"time"
)

// ErrReleased is returned when a released Controller is used.
var ErrReleased = errors.New("flow controller released")

// Controller animates one flow Texture with a Loop. A pipe owns a single
// Controller at a time; when the pipe is rebuilt the old controller is
// released and can no longer modify its texture.
type Controller struct {
	tex      *Texture
	loop     *Loop
	released bool
}

// NewController returns a stopped controller animating tex with loop.
// If loop is nil a linear loop of DefaultDuration is used.
func NewController(tex *Texture, loop *Loop) *Controller {
	if loop == nil {
		loop = NewLoop(DefaultDuration, Linear)
	}
	return &Controller{tex: tex, loop: loop}
}

// Texture returns the animated texture.
func (c *Controller) Texture() *Texture { return c.tex }

// Loop returns the timer driving the animation.
func (c *Controller) Loop() *Loop { return c.loop }

// Start starts the animation.
func (c *Controller) Start() error {
	if c.released {
		return ErrReleased
	}
	c.loop.Start()
	return nil
}

// Stop pauses the animation.
func (c *Controller) Stop() error {
	if c.released {
		return ErrReleased
	}
	c.loop.Stop()
	return nil
}

// Tick advances the animation by dt and scrolls the texture.
func (c *Controller) Tick(dt time.Duration) error {
	if c.released {
		return ErrReleased
	}
	c.tex.SetProgress(c.loop.Advance(dt))
	return nil
}

// SetProgress scrolls the texture to phase p without touching the loop.
func (c *Controller) SetProgress(p float64) error {
	if c.released {
		return ErrReleased
	}
	c.tex.SetProgress(p)
	return nil
}

// Release stops the animation and detaches the controller from its texture.
// Releasing twice is a no-op.
func (c *Controller) Release() {
	if c.released {
		return
	}
	c.loop.Stop()
	c.released = true
}

// Released reports whether Release was called.
func (c *Controller) Released() bool { return c.released }
