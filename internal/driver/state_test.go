package driver

import (
	"context"
	"errors"
	"testing"
)

func mustResolve(t *testing.T, c *Controller, name string) Channel {
	t.Helper()
	ch, err := c.Resolve(name)
	if err != nil {
		t.Fatalf("Resolve(%q) failed: %v", name, err)
	}
	return ch
}

func TestRead_PowerIndicatorAlwaysTrue(t *testing.T) {
	backend, strip, _, _ := scenarioBackend()
	c := testController(t, backend)
	connect(t, c)

	updatesAfterConnect := strip.updates

	on, err := c.Read(context.Background(), mustResolve(t, c, "Strip powered"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !on {
		t.Error("power indicator = false, want true")
	}
	if strip.updates != updatesAfterConnect {
		t.Error("power indicator read contacted the backend")
	}
}

func TestRead_CloudLink(t *testing.T) {
	backend, strip, _, _ := scenarioBackend()
	c := testController(t, backend)
	connect(t, c)

	ch := mustResolve(t, c, "Strip cloud")

	on, err := c.Read(context.Background(), ch)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if on {
		t.Error("cloud link = true with no cloud session")
	}

	strip.cloudConnected = true
	on, err = c.Read(context.Background(), ch)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !on {
		t.Error("cloud link = false with active cloud session")
	}
}

func TestRead_Switchable(t *testing.T) {
	backend, _, child, plug := scenarioBackend()
	plug.on = true
	child.on = false
	c := testController(t, backend)
	connect(t, c)

	on, err := c.Read(context.Background(), mustResolve(t, c, "Mount"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !on {
		t.Error("Mount = false, want true")
	}

	on, err = c.Read(context.Background(), mustResolve(t, c, "Camera"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if on {
		t.Error("Camera = true, want false")
	}
}

func TestRead_NotConnected(t *testing.T) {
	backend, _, _, _ := scenarioBackend()
	c := testController(t, backend)
	connect(t, c)
	ch := mustResolve(t, c, "Mount")
	c.Disconnect()

	if _, err := c.Read(context.Background(), ch); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Read = %v, want ErrNotConnected", err)
	}
}

func TestWrite_Verified(t *testing.T) {
	backend, _, _, plug := scenarioBackend()
	c := testController(t, backend)
	pub := &fakePublisher{}
	c.SetPublisher(pub)
	connect(t, c)

	if err := c.Write(context.Background(), mustResolve(t, c, "Mount"), true); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !plug.on {
		t.Error("plug not on after verified write")
	}
	if plug.commands != 1 {
		t.Errorf("commands = %d, want 1", plug.commands)
	}
	if len(pub.writes) != 1 || pub.writes[0] != "Mount" {
		t.Errorf("write events = %v", pub.writes)
	}
}

func TestWrite_ChildOutlet(t *testing.T) {
	backend, _, child, _ := scenarioBackend()
	c := testController(t, backend)
	connect(t, c)

	if err := c.Write(context.Background(), mustResolve(t, c, "Camera"), true); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !child.on {
		t.Error("child not on after verified write")
	}
}

func TestWrite_RetriesThenSucceeds(t *testing.T) {
	backend, _, _, plug := scenarioBackend()
	plug.acceptOn = 2 // first command is dropped
	c := testController(t, backend)
	connect(t, c)

	if err := c.Write(context.Background(), mustResolve(t, c, "Mount"), true); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if plug.commands != 2 {
		t.Errorf("commands = %d, want 2", plug.commands)
	}
}

func TestWrite_StateMismatchAfterExactlyThreeAttempts(t *testing.T) {
	backend, _, _, plug := scenarioBackend()
	plug.acceptOn = -1 // commands never stick
	c := testController(t, backend)
	connect(t, c)

	err := c.Write(context.Background(), mustResolve(t, c, "Mount"), true)
	if !errors.Is(err, ErrStateMismatch) {
		t.Fatalf("Write = %v, want ErrStateMismatch", err)
	}
	if plug.commands != 3 {
		t.Errorf("commands = %d, want exactly 3", plug.commands)
	}

	var mismatch *StateMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("error is not *StateMismatchError: %T", err)
	}
	if mismatch.Desired != true || mismatch.Observed != false || mismatch.Attempts != 3 {
		t.Errorf("mismatch = %+v", mismatch)
	}
}

func TestWrite_ReadOnlyNeverContactsBackend(t *testing.T) {
	backend, strip, _, _ := scenarioBackend()
	c := testController(t, backend)
	connect(t, c)

	updatesAfterConnect := strip.updates

	for _, name := range []string{"Strip powered", "Strip cloud", "Camera power"} {
		err := c.Write(context.Background(), mustResolve(t, c, name), true)
		if !errors.Is(err, ErrReadOnly) {
			t.Errorf("Write(%q) = %v, want ErrReadOnly", name, err)
		}
	}

	if strip.commands != 0 {
		t.Errorf("commands = %d after read-only writes, want 0", strip.commands)
	}
	if strip.updates != updatesAfterConnect {
		t.Error("read-only write refreshed the backend")
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	backend, _, _, plug := scenarioBackend()
	c := testController(t, backend)
	connect(t, c)
	ch := mustResolve(t, c, "Mount")

	if err := c.Write(context.Background(), ch, true); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	on, err := c.Read(context.Background(), ch)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if !on {
		t.Error("Read = false immediately after Write(true)")
	}
	_ = plug
}

func TestCanWrite(t *testing.T) {
	backend, _, _, _ := scenarioBackend()
	c := testController(t, backend)
	connect(t, c)

	writable := map[string]bool{
		"Strip powered": false,
		"Strip cloud":   false,
		"Camera":        true,
		"Camera power":  false,
		"Mount powered": false,
		"Mount cloud":   false,
		"Mount":         true,
	}
	for name, want := range writable {
		if got := c.CanWrite(mustResolve(t, c, name)); got != want {
			t.Errorf("CanWrite(%q) = %v, want %v", name, got, want)
		}
	}
}
