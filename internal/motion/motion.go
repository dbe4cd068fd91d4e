package motion

import (
	"sync"

	"distractiondodge/internal/geometry"
)

const DefaultSpeed = 3.0 // viewport units per tick at 60 ticks/second

// Controller drives the autonomous focus target: classic reflect-off-walls
// motion inside the viewport, advanced once per frame tick. The controller
// owns the target's kinematic state; readers get value snapshots.
type Controller struct {
	mu     sync.Mutex
	pos    geometry.Point
	dirX   float64 // -1 or 1
	dirY   float64
	speed  float64
	radius float64
	bounds geometry.Size
}

type State struct {
	Position   geometry.Point `json:"position"`
	DirectionX float64        `json:"direction_x"`
	DirectionY float64        `json:"direction_y"`
}

func NewController(radius, speed float64) *Controller {
	return &Controller{
		dirX:   1,
		dirY:   1,
		speed:  speed,
		radius: radius,
	}
}

// Reset places the target at the viewport center heading toward the
// bottom-right, as at session start.
func (c *Controller) Reset(bounds geometry.Size) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bounds = bounds
	c.pos = bounds.Center()
	c.dirX = 1
	c.dirY = 1
}

// Advance moves the target one step, reflecting each axis independently off
// the inset walls. A degenerate viewport freezes the target rather than
// producing garbage coordinates.
func (c *Controller) Advance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bounds.IsDegenerate() || c.bounds.Width < 2*c.radius || c.bounds.Height < 2*c.radius {
		return
	}
	c.pos.X, c.dirX = reflect(c.pos.X, c.dirX, c.speed, c.radius, c.bounds.Width-c.radius)
	c.pos.Y, c.dirY = reflect(c.pos.Y, c.dirY, c.speed, c.radius, c.bounds.Height-c.radius)
}

// reflect advances one axis and bounces off [min, max], clamping any
// floating-point overshoot left after the bounce.
func reflect(pos, dir, speed, min, max float64) (float64, float64) {
	next := pos + dir*speed
	if next < min || next > max {
		dir = -dir
		next = pos + dir*speed
	}
	if next < min {
		next = min
	}
	if next > max {
		next = max
	}
	return next, dir
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return State{Position: c.pos, DirectionX: c.dirX, DirectionY: c.dirY}
}

func (c *Controller) Position() geometry.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pos
}
