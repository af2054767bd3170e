package fasting

import (
	"testing"
	"time"
)

var t0 = time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)

func startedState(t *testing.T, p Protocol) State {
	t.Helper()
	s, err := NewState(p).Start(t0)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	return s
}

// ============================================================
// Protocols
// ============================================================

func TestNewProtocolFixedIgnoresHours(t *testing.T) {
	p := NewProtocol(Protocol16x8, 99, 99)
	if p.FastingHours != 16 || p.EatingHours != 8 {
		t.Fatalf("16:8 hours = %f/%f", p.FastingHours, p.EatingHours)
	}
	p = NewProtocol(Protocol18x6, 0, 0)
	if p.FastingHours != 18 || p.EatingHours != 6 {
		t.Fatalf("18:6 hours = %f/%f", p.FastingHours, p.EatingHours)
	}
}

func TestNewProtocolCustomClamps(t *testing.T) {
	p := NewProtocol(ProtocolCustom, -3, 10)
	if p.FastingHours != 0 || p.EatingHours != 10 {
		t.Fatalf("got %f/%f", p.FastingHours, p.EatingHours)
	}
}

func TestParseCustom(t *testing.T) {
	p := ParseCustom("14", "10")
	if p.Type != ProtocolCustom || p.FastingHours != 14 || p.EatingHours != 10 {
		t.Fatalf("got %+v", p)
	}
	// Unparsable input defaults to zero hours.
	p = ParseCustom("abc", "-5")
	if p.FastingHours != 0 || p.EatingHours != 0 {
		t.Fatalf("got %f/%f", p.FastingHours, p.EatingHours)
	}
}

func TestProtocolLabel(t *testing.T) {
	if got := DefaultProtocol().Label(); got != "16:8" {
		t.Fatalf("label = %q", got)
	}
	if got := ParseCustom("14.5", "9.5").Label(); got != "14.5:9.5" {
		t.Fatalf("label = %q", got)
	}
}

func TestProtocolDuration(t *testing.T) {
	p := DefaultProtocol()
	if p.Duration(PhaseFasting) != 16*time.Hour {
		t.Fatalf("fasting duration = %v", p.Duration(PhaseFasting))
	}
	if p.Duration(PhaseEating) != 8*time.Hour {
		t.Fatalf("eating duration = %v", p.Duration(PhaseEating))
	}
}

// ============================================================
// Transitions
// ============================================================

func TestStart(t *testing.T) {
	s := startedState(t, DefaultProtocol())
	if s.Status != StatusActive || s.Phase != PhaseFasting {
		t.Fatalf("status/phase = %s/%s", s.Status, s.Phase)
	}
	if !s.EndTime.Equal(t0.Add(16 * time.Hour)) {
		t.Fatalf("end time = %v", s.EndTime)
	}
	if s.Remaining(t0) != 16*time.Hour {
		t.Fatalf("remaining = %v", s.Remaining(t0))
	}
}

func TestStartGuards(t *testing.T) {
	s := startedState(t, DefaultProtocol())
	if _, err := s.Start(t0); err != ErrAlreadyStarted {
		t.Fatalf("expected ErrAlreadyStarted, got %v", err)
	}
	paused, _ := s.Pause(t0.Add(time.Hour))
	if _, err := paused.Start(t0); err != ErrAlreadyStarted {
		t.Fatalf("expected ErrAlreadyStarted from paused, got %v", err)
	}
}

func TestPauseResumePreservesRemaining(t *testing.T) {
	s := startedState(t, DefaultProtocol())

	s, err := s.Pause(t0.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if got := s.Remaining(t0.Add(2 * time.Hour)); got != 15*time.Hour {
		t.Fatalf("paused remaining = %v, want frozen 15h", got)
	}

	// Resume two hours later: end time shifts by the pause segment.
	s, err = s.Resume(t0.Add(3 * time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if s.PausedDuration != 2*time.Hour {
		t.Fatalf("paused duration = %v", s.PausedDuration)
	}
	if !s.EndTime.Equal(t0.Add(18 * time.Hour)) {
		t.Fatalf("end time = %v, want start+18h", s.EndTime)
	}
	if got := s.Remaining(t0.Add(3 * time.Hour)); got != 15*time.Hour {
		t.Fatalf("remaining after resume = %v, want 15h", got)
	}
}

func TestSecondPauseAccumulates(t *testing.T) {
	s := startedState(t, DefaultProtocol())
	s, _ = s.Pause(t0.Add(1 * time.Hour))
	s, _ = s.Resume(t0.Add(2 * time.Hour))
	s, _ = s.Pause(t0.Add(4 * time.Hour))
	s, _ = s.Resume(t0.Add(4*time.Hour + 30*time.Minute))

	if s.PausedDuration != 90*time.Minute {
		t.Fatalf("paused duration = %v, want 90m", s.PausedDuration)
	}
	if !s.EndTime.Equal(t0.Add(16*time.Hour + 90*time.Minute)) {
		t.Fatalf("end time = %v", s.EndTime)
	}
}

func TestPauseResumeGuards(t *testing.T) {
	idle := NewState(DefaultProtocol())
	if _, err := idle.Pause(t0); err != ErrNotActive {
		t.Fatalf("expected ErrNotActive, got %v", err)
	}
	if _, err := idle.Resume(t0); err != ErrNotPaused {
		t.Fatalf("expected ErrNotPaused, got %v", err)
	}
	active := startedState(t, DefaultProtocol())
	if _, err := active.Resume(t0); err != ErrNotPaused {
		t.Fatalf("expected ErrNotPaused on active, got %v", err)
	}
}

func TestEnd(t *testing.T) {
	s := startedState(t, DefaultProtocol())
	next := NewProtocol(Protocol18x6, 0, 0)

	ended, err := s.End(next)
	if err != nil {
		t.Fatal(err)
	}
	if ended.Status != StatusNotActive || ended.Phase != PhaseFasting {
		t.Fatalf("ended state = %s/%s", ended.Status, ended.Phase)
	}
	if ended.Protocol.Type != Protocol18x6 {
		t.Fatalf("protocol = %s", ended.Protocol.Type)
	}
	if !ended.StartTime.IsZero() || !ended.EndTime.IsZero() {
		t.Fatal("ended state kept stale times")
	}

	if _, err := ended.End(next); err != ErrNotActive {
		t.Fatalf("expected ErrNotActive, got %v", err)
	}
}

func TestEndFromPaused(t *testing.T) {
	s := startedState(t, DefaultProtocol())
	s, _ = s.Pause(t0.Add(time.Hour))
	if _, err := s.End(DefaultProtocol()); err != nil {
		t.Fatalf("end from paused: %v", err)
	}
}

func TestChangeProtocol(t *testing.T) {
	idle := NewState(DefaultProtocol())
	changed, err := idle.ChangeProtocol(NewProtocol(Protocol18x6, 0, 0))
	if err != nil {
		t.Fatal(err)
	}
	if changed.Protocol.Type != Protocol18x6 {
		t.Fatalf("protocol = %s", changed.Protocol.Type)
	}

	active := startedState(t, DefaultProtocol())
	if _, err := active.ChangeProtocol(DefaultProtocol()); err != ErrNotStopped {
		t.Fatalf("expected ErrNotStopped, got %v", err)
	}
}

// ============================================================
// Sampling / phase flips
// ============================================================

func TestSampleBeforeEndNoFlip(t *testing.T) {
	s := startedState(t, DefaultProtocol())
	next, flipped := s.Sample(t0.Add(15 * time.Hour))
	if flipped {
		t.Fatal("flipped before end time")
	}
	if next.Phase != PhaseFasting {
		t.Fatalf("phase = %s", next.Phase)
	}
}

func TestSampleFlipsToEating(t *testing.T) {
	s := startedState(t, DefaultProtocol())
	at := t0.Add(16 * time.Hour)

	next, flipped := s.Sample(at)
	if !flipped {
		t.Fatal("expected flip at end time")
	}
	if next.Phase != PhaseEating || next.Status != StatusActive {
		t.Fatalf("phase/status = %s/%s", next.Phase, next.Status)
	}
	if !next.PhaseStart.Equal(at) {
		t.Fatalf("phase start = %v", next.PhaseStart)
	}
	if !next.EndTime.Equal(at.Add(8 * time.Hour)) {
		t.Fatalf("end time = %v, want flip+8h", next.EndTime)
	}
	if next.Remaining(at) != 8*time.Hour {
		t.Fatalf("remaining = %v", next.Remaining(at))
	}
}

func TestSampleFlipsBackToFasting(t *testing.T) {
	s := startedState(t, DefaultProtocol())
	s, _ = s.Sample(t0.Add(16 * time.Hour))

	at := t0.Add(24 * time.Hour)
	next, flipped := s.Sample(at)
	if !flipped || next.Phase != PhaseFasting {
		t.Fatalf("flipped=%v phase=%s", flipped, next.Phase)
	}
	if !next.EndTime.Equal(at.Add(16 * time.Hour)) {
		t.Fatalf("end time = %v", next.EndTime)
	}
}

func TestSampleResetsPausedDuration(t *testing.T) {
	s := startedState(t, DefaultProtocol())
	s, _ = s.Pause(t0.Add(time.Hour))
	s, _ = s.Resume(t0.Add(2 * time.Hour))

	next, flipped := s.Sample(t0.Add(17 * time.Hour))
	if !flipped {
		t.Fatal("expected flip")
	}
	if next.PausedDuration != 0 {
		t.Fatalf("paused duration carried across flip: %v", next.PausedDuration)
	}
}

func TestSampleIgnoresPausedAndIdle(t *testing.T) {
	s := startedState(t, DefaultProtocol())
	s, _ = s.Pause(t0.Add(time.Hour))
	if _, flipped := s.Sample(t0.Add(48 * time.Hour)); flipped {
		t.Fatal("paused timer flipped")
	}
	idle := NewState(DefaultProtocol())
	if _, flipped := idle.Sample(t0.Add(48 * time.Hour)); flipped {
		t.Fatal("idle timer flipped")
	}
}

func TestZeroHourProtocolFloored(t *testing.T) {
	s := startedState(t, ParseCustom("0", "0"))
	if !s.EndTime.Equal(t0.Add(time.Minute)) {
		t.Fatalf("zero-hour phase not floored: end = %v", s.EndTime)
	}
	next, flipped := s.Sample(t0.Add(time.Minute))
	if !flipped {
		t.Fatal("expected flip")
	}
	if !next.EndTime.Equal(t0.Add(2 * time.Minute)) {
		t.Fatalf("flipped phase not floored: end = %v", next.EndTime)
	}
}

// ============================================================
// Derived readings
// ============================================================

func TestRemainingClampsAtZero(t *testing.T) {
	s := startedState(t, DefaultProtocol())
	if got := s.Remaining(t0.Add(20 * time.Hour)); got != 0 {
		t.Fatalf("overdue remaining = %v, want 0", got)
	}
	if got := NewState(DefaultProtocol()).Remaining(t0); got != 0 {
		t.Fatalf("idle remaining = %v, want 0", got)
	}
}

func TestElapsed(t *testing.T) {
	s := startedState(t, DefaultProtocol())
	s, _ = s.Pause(t0.Add(2 * time.Hour))
	if got := s.Elapsed(t0.Add(5 * time.Hour)); got != 2*time.Hour {
		t.Fatalf("paused elapsed = %v, want 2h frozen", got)
	}
	s, _ = s.Resume(t0.Add(3 * time.Hour))
	if got := s.Elapsed(t0.Add(5 * time.Hour)); got != 4*time.Hour {
		t.Fatalf("elapsed = %v, want 4h (5h wall minus 1h pause)", got)
	}
}

func TestFormatClock(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{-time.Second, "00:00:00"},
		{time.Hour + 2*time.Minute + 3*time.Second, "01:02:03"},
		{15 * time.Hour, "15:00:00"},
		{100 * time.Hour, "100:00:00"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.d); got != tt.want {
			t.Errorf("FormatClock(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
