package control

import "testing"

func resetState() {
	hot = 0
	stop = 0
	lastHot = 0
}

func TestInitialState(t *testing.T) {
	resetState()
	if IsActive() {
		t.Error("should start inactive")
	}
	if IsShuttingDown() {
		t.Error("should start running")
	}
}

func TestSignalActivitySetsHot(t *testing.T) {
	resetState()
	SignalActivity()
	if !IsActive() {
		t.Error("SignalActivity should set the hot flag")
	}
}

func TestPollCooldownLeavesRecentActivityAlone(t *testing.T) {
	resetState()
	SignalActivity()
	PollCooldown()
	if !IsActive() {
		t.Error("PollCooldown should not clear activity within the cooldown window")
	}
}

func TestPollCooldownClearsStaleActivity(t *testing.T) {
	resetState()
	SignalActivity()
	lastHot -= int64(2 * cooldownNs) // simulate elapsed time without a real sleep
	PollCooldown()
	if IsActive() {
		t.Error("PollCooldown should clear activity once the cooldown has elapsed")
	}
}

func TestShutdownSetsStopFlag(t *testing.T) {
	resetState()
	Shutdown()
	if !IsShuttingDown() {
		t.Error("Shutdown should set the stop flag")
	}
	Shutdown() // idempotent
	if !IsShuttingDown() {
		t.Error("repeated Shutdown should keep the stop flag set")
	}
}

func TestFlagsReferenceGlobals(t *testing.T) {
	resetState()
	stopPtr, hotPtr := Flags()
	*hotPtr = 1
	if !IsActive() {
		t.Error("writing through the hot pointer should be observed by IsActive")
	}
	*stopPtr = 1
	if !IsShuttingDown() {
		t.Error("writing through the stop pointer should be observed by IsShuttingDown")
	}
}
