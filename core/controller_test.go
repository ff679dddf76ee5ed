package core

import (
	"errors"
	"reflect"
	"testing"
)

// MockSARDriver is a test implementation of SARDriver that records calls
type MockSARDriver struct {
	calls    []string
	config   ChannelConfig
	status   map[SARChannel]InterruptStatus
	results  map[SARChannel]uint16
	handlers map[SARChannel]func()
	initErr  error
}

func NewMockSARDriver() *MockSARDriver {
	return &MockSARDriver{
		status:   make(map[SARChannel]InterruptStatus),
		results:  make(map[SARChannel]uint16),
		handlers: make(map[SARChannel]func()),
	}
}

func (m *MockSARDriver) Deinit() {
	m.calls = append(m.calls, "deinit")
}

func (m *MockSARDriver) Init(cfg ChannelConfig) error {
	m.calls = append(m.calls, "init")
	if m.initErr != nil {
		return m.initErr
	}
	m.config = cfg
	return nil
}

func (m *MockSARDriver) SetReferenceBufferMode(on bool) {
	if on {
		m.calls = append(m.calls, "refbuf")
	}
}

func (m *MockSARDriver) SetInterruptMask(ch SARChannel, mask InterruptStatus) {
	if ch == testChannels.Signal && mask == InterruptGroupDone {
		m.calls = append(m.calls, "mask")
	}
}

func (m *MockSARDriver) SoftwareTrigger(ch SARChannel) {
	if ch == testChannels.Reference {
		m.calls = append(m.calls, "trigger")
	}
}

func (m *MockSARDriver) InterruptStatus(ch SARChannel) InterruptStatus {
	return m.status[ch]
}

func (m *MockSARDriver) ClearInterrupt(ch SARChannel, status InterruptStatus) {
	m.status[ch] &^= status
	m.calls = append(m.calls, "clear")
}

func (m *MockSARDriver) Result(ch SARChannel) uint16 {
	return m.results[ch]
}

func (m *MockSARDriver) SetCompletionHandler(ch SARChannel, h func()) {
	m.handlers[ch] = h
}

// complete simulates a finished group with the given codes
func (m *MockSARDriver) complete(raw, ref uint16) {
	m.results[testChannels.Signal] = raw
	m.results[testChannels.Reference] = ref
	m.status[testChannels.Signal] = InterruptGroupDone
	m.handlers[testChannels.Signal]()
}

func (m *MockSARDriver) reset() {
	m.calls = nil
}

// recordingReporter keeps every reading it is given
type recordingReporter struct {
	readings []Reading
}

func (r *recordingReporter) Report(reading Reading) {
	r.readings = append(r.readings, reading)
}

var testChannels = Channels{Signal: 0, Reference: 1}

var reprogramSequence = []string{"deinit", "init", "refbuf", "mask"}

func newTestController() (*Controller, *MockSARDriver, *PendingConfig, *recordingReporter) {
	drv := NewMockSARDriver()
	pending := NewPendingConfig()
	rep := &recordingReporter{}
	return NewController(drv, testChannels, pending, rep), drv, pending, rep
}

func TestControllerStartProgramsDefaults(t *testing.T) {
	ctl, drv, _, _ := newTestController()

	if err := ctl.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	want := append(append([]string{}, reprogramSequence...), "trigger")
	if !reflect.DeepEqual(drv.calls, want) {
		t.Errorf("Expected calls %v, got %v", want, drv.calls)
	}
	if drv.handlers[testChannels.Signal] == nil {
		t.Error("completion handler not registered on signal channel")
	}

	active, ok := ctl.Active()
	if !ok || active != DefaultConfiguration() {
		t.Errorf("Expected active defaults, got %+v (set=%v)", active, ok)
	}
}

func TestControllerStartWithoutDriver(t *testing.T) {
	ctl := NewController(nil, testChannels, NewPendingConfig(), nil)
	if err := ctl.Start(); !errors.Is(err, ErrNoSARDriver) {
		t.Errorf("Expected ErrNoSARDriver, got %v", err)
	}
}

func TestConfigureEqualIsNoop(t *testing.T) {
	ctl, drv, _, _ := newTestController()
	cfg := Configuration{Format: UnsignedRightAligned, Count: 4}
	ctl.Configure(cfg)
	drv.reset()

	ctl.Configure(cfg)
	if !reflect.DeepEqual(drv.calls, []string{"trigger"}) {
		t.Errorf("Expected only a trigger, got %v", drv.calls)
	}
}

func TestConfigureFullSequence(t *testing.T) {
	ctl, drv, _, _ := newTestController()
	ctl.Configure(Configuration{Format: UnsignedRightAligned, Count: 1})
	drv.reset()

	next := Configuration{Format: SignedRightAligned, Count: 8}
	ctl.Configure(next)

	want := append(append([]string{}, reprogramSequence...), "trigger")
	if !reflect.DeepEqual(drv.calls, want) {
		t.Errorf("Expected calls %v, got %v", want, drv.calls)
	}

	wantCfg := ChannelConfig{Alignment: AlignRight, Sign: SignSigned, RightShift: 3, AverageCount: 8}
	if drv.config != wantCfg {
		t.Errorf("Expected channel config %+v, got %+v", wantCfg, drv.config)
	}

	active, ok := ctl.Active()
	if !ok || active != next {
		t.Errorf("Expected active %+v, got %+v", next, active)
	}
	if ctl.active.Shift() != 3 {
		t.Errorf("Expected shift 3, got %d", ctl.active.Shift())
	}
}

func TestHandleInterruptGroupDone(t *testing.T) {
	ctl, drv, _, rep := newTestController()
	if err := ctl.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	drv.reset()

	drv.complete(0x400, 1024)

	if len(rep.readings) != 1 {
		t.Fatalf("Expected 1 reading, got %d", len(rep.readings))
	}
	r := rep.readings[0]
	if r.MilliVolts != 900 || r.Raw != 0x400 || r.Code != 0x400 {
		t.Errorf("Unexpected reading %+v", r)
	}
	if r.Format != UnsignedRightAligned || r.Count != 1 {
		t.Errorf("Reading should carry the active config, got %+v", r)
	}

	// Pending equals active, so only clear + trigger
	if !reflect.DeepEqual(drv.calls, []string{"clear", "trigger"}) {
		t.Errorf("Expected [clear trigger], got %v", drv.calls)
	}
	if drv.status[testChannels.Signal] != InterruptNone {
		t.Errorf("interrupt not acknowledged, status=0x%X", drv.status[testChannels.Signal])
	}
	if ctl.Stats().Conversions != 1 {
		t.Errorf("Expected 1 conversion, got %d", ctl.Stats().Conversions)
	}
}

func TestHandleInterruptIgnoresForeignStatus(t *testing.T) {
	ctl, drv, _, rep := newTestController()
	if err := ctl.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	drv.reset()

	for _, status := range []InterruptStatus{
		InterruptNone,
		InterruptGroupOverflow,
		InterruptGroupDone | InterruptChannelRange,
	} {
		drv.status[testChannels.Signal] = status
		drv.handlers[testChannels.Signal]()
	}

	if len(rep.readings) != 0 {
		t.Errorf("Expected no readings, got %d", len(rep.readings))
	}
	for _, call := range drv.calls {
		if call != "clear" {
			t.Errorf("foreign interrupt caused %q", call)
		}
	}
	if got := ctl.Stats().IgnoredInterrupts; got != 3 {
		t.Errorf("Expected 3 ignored interrupts, got %d", got)
	}
}

func TestPendingAppliedAtNextBoundary(t *testing.T) {
	ctl, drv, pending, rep := newTestController()
	intake := NewCommandIntake(pending)
	if err := ctl.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Request signed format; the in-flight conversion still uses unsigned
	intake.Handle('s')
	drv.reset()
	drv.complete(0x0400, 1024)

	if rep.readings[0].Format != UnsignedRightAligned {
		t.Errorf("Expected reading converted as unsigned, got %v", rep.readings[0].Format)
	}
	want := append([]string{"clear"}, append(append([]string{}, reprogramSequence...), "trigger")...)
	if !reflect.DeepEqual(drv.calls, want) {
		t.Errorf("Expected calls %v, got %v", want, drv.calls)
	}

	// Next conversion is delivered signed: code 0x400 arrives as 0xFC00
	drv.reset()
	drv.complete(0xFC00, 1024)
	r := rep.readings[1]
	if r.Format != SignedRightAligned || r.Code != 0x400 || r.MilliVolts != 900 {
		t.Errorf("Unexpected signed reading %+v", r)
	}
	if !reflect.DeepEqual(drv.calls, []string{"clear", "trigger"}) {
		t.Errorf("Expected no reprogram, got %v", drv.calls)
	}
	if got := ctl.Stats().Reconfigurations; got != 2 {
		t.Errorf("Expected 2 reconfigurations, got %d", got)
	}
}

func TestInitFailureLeavesActiveUnset(t *testing.T) {
	ctl, drv, pending, _ := newTestController()
	if err := ctl.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	NewCommandIntake(pending).Handle('d')
	drv.initErr = errors.New("bad config")
	drv.complete(0x100, 1024)

	if _, ok := ctl.Active(); ok {
		t.Error("active configuration should be unset after init failure")
	}
	if got := ctl.Stats().InitFailures; got != 1 {
		t.Errorf("Expected 1 init failure, got %d", got)
	}
	if drv.calls[len(drv.calls)-1] != "trigger" {
		t.Errorf("trigger must still be issued, calls=%v", drv.calls)
	}

	// The next boundary retries
	drv.initErr = nil
	drv.reset()
	drv.complete(0x100, 1024)
	active, ok := ctl.Active()
	if !ok || active.Count != 2 {
		t.Errorf("Expected retry to apply count 2, got %+v (set=%v)", active, ok)
	}
}

func TestStartInitFailureIsReturned(t *testing.T) {
	ctl, drv, _, _ := newTestController()
	drv.initErr = errors.New("no clock")
	if err := ctl.Start(); err == nil {
		t.Error("Expected Start to fail")
	}
	for _, call := range drv.calls {
		if call == "trigger" {
			t.Error("Start must not trigger after a failed init")
		}
	}
}

func TestEventRingRecordsReconfigure(t *testing.T) {
	ClearEventRing()
	ctl, drv, pending, _ := newTestController()
	if err := ctl.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	NewCommandIntake(pending).Handle('s')
	drv.complete(0x100, 1024)

	var reconfigs int
	for _, evt := range Events() {
		if evt.EventType == EvtReconfigure {
			reconfigs++
		}
	}
	if reconfigs != 2 {
		t.Errorf("Expected 2 reconfigure events, got %d", reconfigs)
	}

	var lines []string
	SetDebugWriter(func(s string) { lines = append(lines, s) })
	defer SetDebugWriter(func(string) {})
	DumpEventRing()
	if len(lines) != 4 {
		t.Errorf("Expected header, 2 events and footer, got %v", lines)
	}
}
