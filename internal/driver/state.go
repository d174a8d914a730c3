package driver

import (
	"context"
	"time"
)

// CanWrite reports whether a channel accepts writes. Only switchable
// channels do; indicators and gauges are read-only.
func (c *Controller) CanWrite(ch Channel) bool {
	return ch.CanWrite
}

// Read returns a channel's boolean state.
//
// Switchable channels refresh the backing unit through the bridge and
// report the relay flag. Power indicators report true unconditionally:
// the device answered discovery, so it is powered. Cloud link channels
// refresh the device and report its cloud session flag. Meter gauges
// report whether the backing relay is on.
//
// Returns:
//   - bool: Channel state
//   - error: ErrNotConnected, or a backend/timeout failure
func (c *Controller) Read(ctx context.Context, ch Channel) (bool, error) {
	if !c.IsConnected() {
		return false, ErrNotConnected
	}

	if ch.Kind == KindPowerIndicator {
		return true, nil
	}

	if err := c.refresh(ctx, ch); err != nil {
		return false, err
	}

	switch ch.Kind {
	case KindCloudLink:
		return ch.device.HasCloud() && ch.device.CloudConnected(), nil
	default:
		if ch.child != nil {
			return ch.child.IsOn(), nil
		}
		return ch.device.IsOn(), nil
	}
}

// Write sets a switchable channel's relay with verification.
//
// The relay command is fire-and-forget on the wire, so each attempt
// issues the command, waits the settle delay, refreshes the unit, and
// compares. The write succeeds on the first matching read. When every
// attempt fails verification the returned error is a
// *StateMismatchError carrying the last observed state.
//
// Read-only channels fail with ErrReadOnly before any backend contact.
//
// Parameters:
//   - ctx: Bounds all attempts including settle delays
//   - ch: Channel to write
//   - desired: Target relay state
//
// Returns:
//   - error: ErrNotConnected, ErrReadOnly, ErrStateMismatch, or a
//     backend/timeout failure
func (c *Controller) Write(ctx context.Context, ch Channel, desired bool) error {
	if !ch.CanWrite {
		return ErrReadOnly
	}
	if !c.IsConnected() {
		return ErrNotConnected
	}

	var observed bool
	err := c.bridge.Run(ctx, func(ctx context.Context) error {
		for attempt := 1; attempt <= c.cfg.Attempts; attempt++ {
			if err := c.command(ctx, ch, desired); err != nil {
				return err
			}

			if err := sleep(ctx, c.cfg.SettleDelay); err != nil {
				return err
			}

			if err := ch.device.Update(ctx); err != nil {
				return err
			}

			observed = channelIsOn(ch)
			if observed == desired {
				c.logger.Debug("write verified",
					"channel", ch.Name, "state", desired, "attempt", attempt)
				return nil
			}

			c.logger.Warn("write not reflected, retrying",
				"channel", ch.Name, "desired", desired,
				"observed", observed, "attempt", attempt)
		}
		return &StateMismatchError{
			Desired:  desired,
			Observed: observed,
			Attempts: c.cfg.Attempts,
		}
	})
	if err != nil {
		return err
	}

	if c.publisher != nil {
		c.publisher.SwitchWritten(ch.Name, desired)
	}
	return nil
}

// command issues the relay command for one attempt.
func (c *Controller) command(ctx context.Context, ch Channel, desired bool) error {
	if ch.child != nil {
		if desired {
			return ch.child.TurnOn(ctx)
		}
		return ch.child.TurnOff(ctx)
	}
	if desired {
		return ch.device.TurnOn(ctx)
	}
	return ch.device.TurnOff(ctx)
}

// refresh updates the channel's backing unit through the bridge.
func (c *Controller) refresh(ctx context.Context, ch Channel) error {
	return c.bridge.Run(ctx, func(ctx context.Context) error {
		return ch.device.Update(ctx)
	})
}

// channelIsOn reads the cached relay flag for the channel's unit.
func channelIsOn(ch Channel) bool {
	if ch.child != nil {
		return ch.child.IsOn()
	}
	return ch.device.IsOn()
}

// sleep waits d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
