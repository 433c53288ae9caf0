// Package ticker drives a registry's simulation loop on a fixed schedule.
package ticker

import (
	"context"
	"time"
)

// stepper is the subset of registry.Registry that the driver needs, kept
// narrow so this package does not import registry.
type stepper interface {
	Tick(now time.Time)
}

// Driver ticks a stepper at a fixed rate until its context is canceled.
type Driver struct {
	target stepper
	hz     uint
}

// NewDriver constructs a Driver. hz must be at least 1.
func NewDriver(target stepper, hz uint) *Driver {
	return &Driver{target: target, hz: hz}
}

// Run blocks, ticking the driver's target on every tick until ctx is
// canceled.
func (d *Driver) Run(ctx context.Context) {
	interval := time.Second / time.Duration(d.hz)
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			d.target.Tick(now)
		}
	}
}
