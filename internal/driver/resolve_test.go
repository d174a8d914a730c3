package driver

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestResolve_IndexNameEquivalence(t *testing.T) {
	backend, _, _, _ := scenarioBackend()
	c := testController(t, backend)
	connect(t, c)

	for i := 0; i < c.ChannelCount(); i++ {
		byIndex, err := c.Resolve(fmt.Sprintf("%d", i))
		if err != nil {
			t.Fatalf("Resolve(%d) failed: %v", i, err)
		}
		byName, err := c.Resolve(strings.ToUpper(byIndex.Name))
		if err != nil {
			t.Fatalf("Resolve(%q) failed: %v", byIndex.Name, err)
		}
		if byName.Index != byIndex.Index {
			t.Errorf("Resolve(%q).Index = %d, want %d", byIndex.Name, byName.Index, i)
		}
	}
}

func TestResolve_OutOfRange(t *testing.T) {
	backend, _, _, _ := scenarioBackend()
	c := testController(t, backend)
	connect(t, c)

	for _, id := range []string{"-1", fmt.Sprintf("%d", c.ChannelCount())} {
		if _, err := c.Resolve(id); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Resolve(%q) = %v, want ErrOutOfRange", id, err)
		}
	}
}

func TestResolve_NotFound(t *testing.T) {
	backend, _, _, _ := scenarioBackend()
	c := testController(t, backend)
	connect(t, c)

	if _, err := c.Resolve("No Such Channel"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve = %v, want ErrNotFound", err)
	}
}

func TestResolve_NoPartialMatch(t *testing.T) {
	backend, _, _, _ := scenarioBackend()
	c := testController(t, backend)
	connect(t, c)

	// "Strip" is a prefix of "Strip powered" but no channel is named
	// exactly "Strip"
	if _, err := c.Resolve("Strip"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Resolve = %v, want ErrNotFound", err)
	}
}

func TestResolve_NotConnected(t *testing.T) {
	backend, _, _, _ := scenarioBackend()
	c := testController(t, backend)

	if _, err := c.Resolve("0"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Resolve by index = %v, want ErrNotConnected", err)
	}
	if _, err := c.Resolve("Mount"); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Resolve by name = %v, want ErrNotConnected", err)
	}
}

func TestResolve_TrimsWhitespace(t *testing.T) {
	backend, _, _, _ := scenarioBackend()
	c := testController(t, backend)
	connect(t, c)

	ch, err := c.Resolve("  2 ")
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if ch.Index != 2 {
		t.Errorf("Index = %d, want 2", ch.Index)
	}
}
