package driver

import (
	"fmt"
	"strconv"
	"strings"
)

// Resolve maps an external identifier to a channel. The identifier is
// either a non-negative integer index or a channel name. Name matching
// is case-insensitive and exact; there is no fuzzy matching.
//
// Returns:
//   - Channel: The resolved channel
//   - error: ErrNotConnected, ErrOutOfRange for a bad index, or
//     ErrNotFound for an unknown name
func (c *Controller) Resolve(identifier string) (Channel, error) {
	if index, err := strconv.Atoi(strings.TrimSpace(identifier)); err == nil {
		return c.ResolveIndex(index)
	}
	return c.ResolveName(identifier)
}

// ResolveIndex maps a channel index to a channel.
func (c *Controller) ResolveIndex(index int) (Channel, error) {
	channels, connected := c.channelTable()
	if !connected {
		return Channel{}, ErrNotConnected
	}
	if index < 0 || index >= len(channels) {
		return Channel{}, fmt.Errorf("%w: %d (have %d channels)",
			ErrOutOfRange, index, len(channels))
	}
	return channels[index], nil
}

// ResolveName maps a channel name to a channel, case-insensitively.
func (c *Controller) ResolveName(name string) (Channel, error) {
	channels, connected := c.channelTable()
	if !connected {
		return Channel{}, ErrNotConnected
	}
	name = strings.TrimSpace(name)
	for _, ch := range channels {
		if strings.EqualFold(ch.Name, name) {
			return ch, nil
		}
	}
	return Channel{}, fmt.Errorf("%w: %q", ErrNotFound, name)
}
